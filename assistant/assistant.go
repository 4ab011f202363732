package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"talkie-assistant/config"
	"talkie-assistant/conversation"
	"talkie-assistant/metrics"
	"talkie-assistant/motion"
	"talkie-assistant/wake_word"

	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// Assistant runs the motion loop, the wake word loop and the metrics
// endpoint against one shared session manager.
type Assistant struct {
	sessions conversation.Interface
	motion   *motion.Poller
	wake     *wake_word.Poller
	server   *http.Server
	logger   *slog.Logger
}

type Config struct {
	Settings *config.Config
	Sensor   motion.Sensor
	Engine   conversation.Engine
	// WakeWord acquires the wake word detector and its stream; nil runs
	// the assistant on motion alone.
	WakeWord wake_word.Initializer
	// Metrics is optional.
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

func New(cfg *Config) (*Assistant, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.Settings == nil {
		return nil, fmt.Errorf("settings is nil")
	}

	if cfg.Sensor == nil {
		return nil, fmt.Errorf("sensor is nil")
	}

	if cfg.Engine == nil {
		return nil, fmt.Errorf("engine is nil")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var (
		sessionObserver conversation.Observer
		motionObserver  motion.Observer
		wakeObserver    wake_word.Observer
	)

	if cfg.Metrics != nil {
		sessionObserver = cfg.Metrics
		motionObserver = cfg.Metrics
		wakeObserver = cfg.Metrics
	}

	sessions, err := conversation.New(&conversation.Config{
		Engine:   cfg.Engine,
		Observer: sessionObserver,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create session manager: %w", err)
	}

	motionPoller, err := motion.New(&motion.Config{
		Sensor:   cfg.Sensor,
		Sessions: sessions,
		Interval: cfg.Settings.Motion.Interval,
		Observer: motionObserver,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create motion poller: %w", err)
	}

	a := &Assistant{
		sessions: sessions,
		motion:   motionPoller,
		logger:   logger.With("component", "assistant"),
	}

	if cfg.WakeWord != nil {
		a.wake, err = wake_word.New(&wake_word.Config{
			Initializer: cfg.WakeWord,
			Sessions:    sessions,
			Interval:    cfg.Settings.WakeWord.Interval,
			Observer:    wakeObserver,
			Logger:      logger,
		})
		if err != nil {
			return nil, fmt.Errorf("create wake word poller: %w", err)
		}
	}

	if cfg.Metrics != nil && cfg.Settings.Metrics.Listen != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", cfg.Metrics.Handler())

		a.server = &http.Server{
			Addr:              cfg.Settings.Metrics.Listen,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
	}

	return a, nil
}

func (a *Assistant) Sessions() conversation.Interface {
	return a.sessions
}

// Run blocks until ctx is cancelled or one of the loops fails; either way
// every loop is stopped before it returns.
func (a *Assistant) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.motion.Run(ctx)
	})

	if a.wake != nil {
		g.Go(func() error {
			return a.wake.Run(ctx)
		})
	}

	if a.server != nil {
		g.Go(func() error {
			a.logger.Info("serving metrics", "addr", a.server.Addr)

			if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}

			return nil
		})

		g.Go(func() error {
			<-ctx.Done()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			return a.server.Shutdown(shutdownCtx)
		})
	}

	err := g.Wait()

	a.logger.Info("assistant stopped", "err", err)

	return err
}
