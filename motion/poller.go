package motion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"talkie-assistant/conversation"
)

const DefaultInterval = time.Second

// Observer is told about detections and failed sensor reads.
type Observer interface {
	PollError(source string)
	Detection(source string)
}

type Poller struct {
	sensor   Sensor
	sessions conversation.Interface
	interval time.Duration
	observer Observer
	logger   *slog.Logger
}

type Config struct {
	Sensor   Sensor
	Sessions conversation.Interface
	Interval time.Duration
	Observer Observer
	Logger   *slog.Logger
}

func New(cfg *Config) (*Poller, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.Sensor == nil {
		return nil, fmt.Errorf("sensor is nil")
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
		sensor:   cfg.Sensor,
		sessions: cfg.Sessions,
		interval: interval,
		observer: cfg.Observer,
		logger:   logger.With("component", "motion"),
	}, nil
}

// Run polls the sensor until ctx is cancelled. A positive reading while no
// conversation is active starts one and waits for it to finish. Sensor
// errors are logged and polling continues.
func (p *Poller) Run(ctx context.Context) error {
	p.logger.Info("motion polling started", "interval", p.interval)

	for {
		p.poll(ctx)

		if err := sleep(ctx, p.interval); err != nil {
			p.logger.Info("motion polling stopped")

			return nil
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	if p.sessions.Active() {
		return
	}

	detected, err := p.sensor.Detect(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}

		p.logger.Warn("motion sensor read failed", "err", err)

		if p.observer != nil {
			p.observer.PollError("motion")
		}

		return
	}

	if !detected {
		return
	}

	p.logger.Info("motion detected")

	if p.observer != nil {
		p.observer.Detection("motion")
	}

	// errors are logged by the session manager
	_, _ = p.sessions.TryStart(ctx, conversation.TriggerMotion)
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
