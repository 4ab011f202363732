package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"talkie-assistant/assistant"
	"talkie-assistant/metrics"
	"talkie-assistant/wake_word"
	"talkie-assistant/wake_word/pipeline"
	"talkie-assistant/wake_word/pipeline/native"

	"github.com/spf13/cobra"
)

func newRunCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the assistant until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := opts.settings()
			if err != nil {
				return err
			}

			logger := newLogger(settings.LogLevel, os.Stderr)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			sensor, err := assistant.NewSensor(settings.Motion, opts.fileSys)
			if err != nil {
				return fmt.Errorf("motion sensor: %w", err)
			}

			engine, err := assistant.NewEngine(settings.Conversation, logger)
			if err != nil {
				return fmt.Errorf("conversation engine: %w", err)
			}

			var wakeWord wake_word.Initializer
			if settings.WakeWord.Enabled {
				wakeWord = pipeline.Initializer(settings.WakeWord, opts.fileSys, native.Drivers(), logger)
			}

			var m *metrics.Metrics
			if settings.Metrics.Listen != "" {
				m = metrics.New(metrics.DefaultNamespace)
			}

			a, err := assistant.New(&assistant.Config{
				Settings: settings,
				Sensor:   sensor,
				Engine:   engine,
				WakeWord: wakeWord,
				Metrics:  m,
				Logger:   logger,
			})
			if err != nil {
				return err
			}

			return a.Run(ctx)
		},
	}
}
