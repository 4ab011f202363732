package wake_word

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"talkie-assistant/audio_stream"
	"talkie-assistant/conversation"
)

const DefaultInterval = 10 * time.Millisecond

// Observer is told about detections and failed detection calls.
type Observer interface {
	PollError(source string)
	Detection(source string)
}

type Poller struct {
	initializer Initializer
	sessions    conversation.Interface
	interval    time.Duration
	observer    Observer
	logger      *slog.Logger
}

type Config struct {
	Initializer Initializer
	Sessions    conversation.Interface
	Interval    time.Duration
	Observer    Observer
	Logger      *slog.Logger
}

func New(cfg *Config) (*Poller, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.Initializer == nil {
		return nil, fmt.Errorf("initializer is nil")
	}

	if cfg.Sessions == nil {
		return nil, fmt.Errorf("sessions is nil")
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Poller{
		initializer: cfg.Initializer,
		sessions:    cfg.Sessions,
		interval:    interval,
		observer:    cfg.Observer,
		logger:      logger.With("component", "wake_word"),
	}, nil
}

// Run acquires the detector and stream, then polls for the wake phrase until
// ctx is cancelled or the stream ends. The stream and detector are released
// exactly once when Run returns, including when a collaborator panics.
func (p *Poller) Run(ctx context.Context) (err error) {
	detector, stream, err := p.initializer.Initialize(ctx)
	if err != nil {
		return fmt.Errorf("initialize wake word detection: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("wake word loop panicked", "panic", r)

			err = fmt.Errorf("wake word loop panicked: %v", r)
		}

		if releaseErr := release(detector, stream); releaseErr != nil {
			p.logger.Warn("failed to release wake word resources", "err", releaseErr)

			if err == nil {
				err = releaseErr
			}
		}

		p.logger.Info("wake word polling stopped")
	}()

	p.logger.Info("wake word polling started", "interval", p.interval)

	for {
		if err := p.poll(ctx, detector, stream); err != nil {
			return err
		}

		if err := sleep(ctx, p.interval); err != nil {
			return nil
		}
	}
}

func (p *Poller) poll(ctx context.Context, detector Detector, stream Stream) error {
	if p.sessions.Active() {
		return nil
	}

	detected, err := detector.Detect(ctx, stream)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}

		if errors.Is(err, audio_stream.ErrStreamClosed) || errors.Is(err, io.EOF) {
			return fmt.Errorf("audio stream ended: %w", err)
		}

		p.logger.Warn("wake word detection failed", "err", err)

		if p.observer != nil {
			p.observer.PollError("wake_word")
		}

		return nil
	}

	if !detected {
		return nil
	}

	p.logger.Info("wake word detected")

	if p.observer != nil {
		p.observer.Detection("wake_word")
	}

	// errors are logged by the session manager
	_, _ = p.sessions.TryStart(ctx, conversation.TriggerWakeWord)

	return nil
}

// release closes the stream before the detector that reads from it.
func release(detector Detector, stream Stream) error {
	var errs []error

	if stream != nil {
		if err := stream.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close audio stream: %w", err))
		}
	}

	if detector != nil {
		if err := detector.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close detector: %w", err))
		}
	}

	return errors.Join(errs...)
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
