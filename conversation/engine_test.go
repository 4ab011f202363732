package conversation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHoldEngine(t *testing.T) {
	engine := &HoldEngine{Hold: 10 * time.Millisecond}

	start := time.Now()
	require.NoError(t, engine.Converse(context.Background(), TriggerMotion))
	require.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, (&HoldEngine{Hold: time.Hour}).Converse(ctx, TriggerMotion), context.Canceled)
}

type fakeBot struct {
	triggers []string
	resp     string
	err      error
	deadline bool
}

func (f *fakeBot) StartConversation(ctx context.Context, trigger string) (string, error) {
	f.triggers = append(f.triggers, trigger)
	_, f.deadline = ctx.Deadline()

	return f.resp, f.err
}

func TestBotEngine(t *testing.T) {
	bot := &fakeBot{resp: "ok"}

	engine, err := NewBotEngine(&BotEngineConfig{Client: bot, Timeout: time.Minute})
	require.NoError(t, err)

	require.NoError(t, engine.Converse(context.Background(), TriggerWakeWord))
	require.Equal(t, []string{"wake_word"}, bot.triggers)
	require.True(t, bot.deadline)

	bot.err = errors.New("unreachable")
	require.ErrorIs(t, engine.Converse(context.Background(), TriggerMotion), bot.err)
}

func TestNewBotEngine_Validation(t *testing.T) {
	_, err := NewBotEngine(nil)
	require.Error(t, err)

	_, err = NewBotEngine(&BotEngineConfig{})
	require.Error(t, err)
}
