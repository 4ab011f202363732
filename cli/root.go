package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"talkie-assistant/config"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

type options struct {
	fileSys    afero.Fs
	configPath string
	logLevel   string
}

func NewRootCommand(fileSys afero.Fs) *cobra.Command {
	opts := &options{fileSys: fileSys}

	root := &cobra.Command{
		Use:   "talkie",
		Short: "Talkie voice assistant",
		Long: `Talkie watches a motion sensor and listens for a wake phrase, and
starts a conversation when either fires. Only one conversation runs at a
time.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (.toml, .yaml or .yml); defaults are used when empty")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override the configured log level (debug, info, warn, error)")

	root.AddCommand(
		newRunCommand(opts),
		newDevicesCommand(),
		newCheckConfigCommand(opts),
	)

	return root
}

func Execute() error {
	return NewRootCommand(afero.NewOsFs()).Execute()
}

func (o *options) settings() (*config.Config, error) {
	settings := config.Default()

	if o.configPath != "" {
		var err error

		settings, err = config.Load(o.fileSys, o.configPath)
		if err != nil {
			return nil, err
		}
	}

	if o.logLevel != "" {
		settings.LogLevel = strings.ToLower(o.logLevel)
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return settings, nil
}

func newLogger(level string, w io.Writer) *slog.Logger {
	var lvl slog.Level

	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
