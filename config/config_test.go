package config

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()

	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
}

func TestDefault_RequiresModelPath(t *testing.T) {
	cfg := Default()
	require.ErrorContains(t, cfg.Validate(), "model_path")

	cfg.WakeWord.ModelPath = "models/ggml-tiny.en.bin"
	require.NoError(t, cfg.Validate())

	require.Equal(t, time.Second, cfg.Motion.Interval)
	require.Equal(t, 10*time.Millisecond, cfg.WakeWord.Interval)
	require.Equal(t, 10*time.Second, cfg.Conversation.Hold)
}

func TestLoad_TOML(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/etc/talkie/talkie.toml", `
log_level = "debug"

[motion]
driver = "gpio"
gpio_value_path = "/sys/class/gpio/gpio17/value"
interval = "500ms"

[wake_word]
model_path = "/opt/models/ggml-base.en.bin"
phrase = "hey computer"
vad = "webrtc"
vad_mode = 3

[conversation]
engine = "bot"
bot_url = "http://localhost:8080"
timeout = "30s"

[metrics]
listen = ":9100"
`)

	cfg, err := Load(fs, "/etc/talkie/talkie.toml")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, "gpio", cfg.Motion.Driver)
	require.Equal(t, 500*time.Millisecond, cfg.Motion.Interval)
	require.Equal(t, "hey computer", cfg.WakeWord.Phrase)
	require.Equal(t, 3, cfg.WakeWord.VADMode)
	require.Equal(t, 30*time.Second, cfg.Conversation.Timeout)
	require.Equal(t, ":9100", cfg.Metrics.Listen)

	// untouched keys keep their defaults
	require.Equal(t, 16000, cfg.WakeWord.SampleRate)
	require.True(t, cfg.WakeWord.Enabled)
}

func TestLoad_YAML(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "talkie.yaml", `
wake_word:
  enabled: false
conversation:
  hold: 3s
`)

	cfg, err := Load(fs, "talkie.yaml")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	require.False(t, cfg.WakeWord.Enabled)
	require.Equal(t, 3*time.Second, cfg.Conversation.Hold)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_EmptyYAML(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "talkie.yml", "")

	cfg, err := Load(fs, "talkie.yml")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoad_Errors(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, err := Load(fs, "missing.toml")
	require.Error(t, err)

	writeFile(t, fs, "unknown.toml", "[motion]\nsensor = \"pir\"\n")
	_, err = Load(fs, "unknown.toml")
	require.ErrorContains(t, err, "motion.sensor")

	writeFile(t, fs, "unknown.yaml", "motion:\n  sensor: pir\n")
	_, err = Load(fs, "unknown.yaml")
	require.Error(t, err)

	writeFile(t, fs, "broken.toml", "log_level = ")
	_, err = Load(fs, "broken.toml")
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr string
	}{
		{name: "bad log level", modify: func(c *Config) { c.LogLevel = "loud" }, wantErr: "log_level"},
		{name: "unknown motion driver", modify: func(c *Config) { c.Motion.Driver = "radar" }, wantErr: "motion.driver"},
		{name: "gpio without path", modify: func(c *Config) { c.Motion.Driver = "gpio" }, wantErr: "gpio_value_path"},
		{name: "wav without path", modify: func(c *Config) { c.WakeWord.Stream = "wav" }, wantErr: "wav_path"},
		{name: "unknown vad", modify: func(c *Config) { c.WakeWord.VAD = "energy" }, wantErr: "wake_word.vad"},
		{name: "bot without url", modify: func(c *Config) { c.Conversation.Engine = "bot" }, wantErr: "bot_url"},
		{name: "unknown engine", modify: func(c *Config) { c.Conversation.Engine = "llm" }, wantErr: "conversation.engine"},
		{name: "zero hold", modify: func(c *Config) { c.Conversation.Hold = 0 }, wantErr: "conversation.hold"},
		{
			name:   "wake word disabled skips its checks",
			modify: func(c *Config) { c.WakeWord.Enabled = false; c.WakeWord.ModelPath = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.WakeWord.ModelPath = "model.bin"
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}

			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}
