package conversation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"talkie-assistant/clients/ai_bot"
)

// DefaultHold is how long the placeholder engine keeps a session open.
const DefaultHold = 10 * time.Second

// HoldEngine stands in for a real dialogue: it keeps the session open for a
// fixed time. Cancelling ctx ends the session early.
type HoldEngine struct {
	Hold time.Duration
}

func (h *HoldEngine) Converse(ctx context.Context, _ Trigger) error {
	hold := h.Hold
	if hold <= 0 {
		hold = DefaultHold
	}

	timer := time.NewTimer(hold)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// BotEngine hands the conversation to a remote dialogue service and waits
// for it to report completion.
type BotEngine struct {
	client  ai_bot.AIBotAPI
	timeout time.Duration
	logger  *slog.Logger
}

type BotEngineConfig struct {
	Client ai_bot.AIBotAPI
	// Timeout bounds a single conversation; zero means no bound.
	Timeout time.Duration
	Logger  *slog.Logger
}

func NewBotEngine(cfg *BotEngineConfig) (*BotEngine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.Client == nil {
		return nil, fmt.Errorf("client is nil")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &BotEngine{
		client:  cfg.Client,
		timeout: cfg.Timeout,
		logger:  logger.With("component", "bot_engine"),
	}, nil
}

func (b *BotEngine) Converse(ctx context.Context, trigger Trigger) error {
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	resp, err := b.client.StartConversation(ctx, string(trigger))
	if err != nil {
		return fmt.Errorf("start conversation: %w", err)
	}

	b.logger.Info("bot response", "trigger", trigger, "response", resp)

	return nil
}
