package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

type Config struct {
	LogLevel     string       `toml:"log_level" yaml:"log_level"`
	Motion       Motion       `toml:"motion" yaml:"motion"`
	WakeWord     WakeWord     `toml:"wake_word" yaml:"wake_word"`
	Conversation Conversation `toml:"conversation" yaml:"conversation"`
	Metrics      Metrics      `toml:"metrics" yaml:"metrics"`
}

type Motion struct {
	// Driver is "none" or "gpio".
	Driver        string        `toml:"driver" yaml:"driver"`
	Interval      time.Duration `toml:"interval" yaml:"interval"`
	GPIOValuePath string        `toml:"gpio_value_path" yaml:"gpio_value_path"`
	ActiveLow     bool          `toml:"active_low" yaml:"active_low"`
}

type WakeWord struct {
	Enabled  bool          `toml:"enabled" yaml:"enabled"`
	Interval time.Duration `toml:"interval" yaml:"interval"`

	// Stream is "microphone" or "wav".
	Stream          string `toml:"stream" yaml:"stream"`
	Device          string `toml:"device" yaml:"device"`
	WavPath         string `toml:"wav_path" yaml:"wav_path"`
	WavLoop         bool   `toml:"wav_loop" yaml:"wav_loop"`
	SampleRate      int    `toml:"sample_rate" yaml:"sample_rate"`
	FramesPerBuffer int    `toml:"frames_per_buffer" yaml:"frames_per_buffer"`

	// VAD is "flux" or "webrtc".
	VAD     string `toml:"vad" yaml:"vad"`
	VADMode int    `toml:"vad_mode" yaml:"vad_mode"`

	ModelPath   string        `toml:"model_path" yaml:"model_path"`
	Language    string        `toml:"language" yaml:"language"`
	Phrase      string        `toml:"phrase" yaml:"phrase"`
	PollTimeout time.Duration `toml:"poll_timeout" yaml:"poll_timeout"`
	QuietTime   time.Duration `toml:"quiet_time" yaml:"quiet_time"`
	MaxTime     time.Duration `toml:"max_time" yaml:"max_time"`
	RecordDir   string        `toml:"record_dir" yaml:"record_dir"`
}

type Conversation struct {
	// Engine is "hold" or "bot".
	Engine   string        `toml:"engine" yaml:"engine"`
	Hold     time.Duration `toml:"hold" yaml:"hold"`
	BotURL   string        `toml:"bot_url" yaml:"bot_url"`
	DeviceID string        `toml:"device_id" yaml:"device_id"`
	Timeout  time.Duration `toml:"timeout" yaml:"timeout"`
}

type Metrics struct {
	// Listen is the address for the /metrics endpoint; empty disables it.
	Listen string `toml:"listen" yaml:"listen"`
}

func Default() *Config {
	return &Config{
		LogLevel: "info",
		Motion: Motion{
			Driver:   "none",
			Interval: time.Second,
		},
		WakeWord: WakeWord{
			Enabled:         true,
			Interval:        10 * time.Millisecond,
			Stream:          "microphone",
			SampleRate:      16000,
			FramesPerBuffer: 512,
			VAD:             "flux",
			Language:        "en",
			Phrase:          "hey talkie",
			PollTimeout:     3 * time.Second,
			QuietTime:       200 * time.Millisecond,
			MaxTime:         2 * time.Second,
		},
		Conversation: Conversation{
			Engine:  "hold",
			Hold:    10 * time.Second,
			Timeout: 2 * time.Minute,
		},
	}
}

// Load reads the file at path over the defaults. Files ending in .yaml or
// .yml are YAML; anything else is TOML.
func Load(fileSys afero.Fs, path string) (*Config, error) {
	cfg := Default()

	raw, err := afero.ReadFile(fileSys, path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)

		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		meta, err := toml.Decode(string(raw), cfg)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}

		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("parse %s: unknown key %q", path, undecoded[0].String())
		}
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level: unknown level %q", c.LogLevel))
	}

	switch c.Motion.Driver {
	case "none":
	case "gpio":
		if c.Motion.GPIOValuePath == "" {
			errs = append(errs, fmt.Errorf("motion.gpio_value_path is required for the gpio driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("motion.driver: unknown driver %q", c.Motion.Driver))
	}

	if c.Motion.Interval <= 0 {
		errs = append(errs, fmt.Errorf("motion.interval must be positive"))
	}

	if c.WakeWord.Enabled {
		errs = append(errs, c.WakeWord.validate()...)
	}

	switch c.Conversation.Engine {
	case "hold":
		if c.Conversation.Hold <= 0 {
			errs = append(errs, fmt.Errorf("conversation.hold must be positive"))
		}
	case "bot":
		if c.Conversation.BotURL == "" {
			errs = append(errs, fmt.Errorf("conversation.bot_url is required for the bot engine"))
		}
	default:
		errs = append(errs, fmt.Errorf("conversation.engine: unknown engine %q", c.Conversation.Engine))
	}

	return errors.Join(errs...)
}

func (w *WakeWord) validate() []error {
	var errs []error

	if w.Interval <= 0 {
		errs = append(errs, fmt.Errorf("wake_word.interval must be positive"))
	}

	switch w.Stream {
	case "microphone":
	case "wav":
		if w.WavPath == "" {
			errs = append(errs, fmt.Errorf("wake_word.wav_path is required for the wav stream"))
		}
	default:
		errs = append(errs, fmt.Errorf("wake_word.stream: unknown stream %q", w.Stream))
	}

	if w.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("wake_word.sample_rate must be positive"))
	}

	if w.FramesPerBuffer <= 0 {
		errs = append(errs, fmt.Errorf("wake_word.frames_per_buffer must be positive"))
	}

	switch w.VAD {
	case "flux", "webrtc":
	default:
		errs = append(errs, fmt.Errorf("wake_word.vad: unknown detector %q", w.VAD))
	}

	if w.ModelPath == "" {
		errs = append(errs, fmt.Errorf("wake_word.model_path is required"))
	}

	if w.PollTimeout <= 0 {
		errs = append(errs, fmt.Errorf("wake_word.poll_timeout must be positive"))
	}

	return errs
}
