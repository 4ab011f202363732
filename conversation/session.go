package conversation

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

type sessionImpl struct {
	active   atomic.Bool
	engine   Engine
	observer Observer
	logger   *slog.Logger
	now      func() time.Time
}

type Config struct {
	Engine   Engine
	Observer Observer
	Logger   *slog.Logger
}

func New(cfg *Config) (Interface, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.Engine == nil {
		return nil, fmt.Errorf("engine is nil")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &sessionImpl{
		engine:   cfg.Engine,
		observer: cfg.Observer,
		logger:   logger.With("component", "conversation"),
		now:      time.Now,
	}, nil
}

func (s *sessionImpl) Active() bool {
	return s.active.Load()
}

func (s *sessionImpl) TryStart(ctx context.Context, trigger Trigger) (started bool, err error) {
	if !s.active.CompareAndSwap(false, true) {
		s.logger.Debug("conversation already active, ignoring trigger", "trigger", trigger)

		if s.observer != nil {
			s.observer.SessionRejected(trigger)
		}

		return false, nil
	}

	start := s.now()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("conversation engine panicked: %v", r)
		}

		took := s.now().Sub(start)

		if err != nil {
			s.logger.Error("conversation ended with error", "trigger", trigger, "took", took, "err", err)
		} else {
			s.logger.Info("conversation finished", "trigger", trigger, "took", took)
		}

		// observers see the end of this session before another can start
		if s.observer != nil {
			s.observer.SessionFinished(trigger, took, err)
		}

		s.active.Store(false)
	}()

	s.logger.Info("starting conversation", "trigger", trigger)

	if s.observer != nil {
		s.observer.SessionStarted(trigger)
	}

	started = true
	err = s.engine.Converse(ctx, trigger)

	return started, err
}
