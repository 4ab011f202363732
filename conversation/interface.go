package conversation

import (
	"context"
	"time"
)

// Trigger names the source that asked for a conversation.
type Trigger string

const (
	TriggerMotion   Trigger = "motion"
	TriggerWakeWord Trigger = "wake_word"
)

// Interface owns the process-wide "conversation active" flag.
type Interface interface {
	// TryStart runs one conversation if none is active and reports whether
	// it did. It returns once the conversation is over; the flag is clear
	// again by then whatever the engine did.
	TryStart(ctx context.Context, trigger Trigger) (bool, error)
	Active() bool
}

// Engine conducts one full spoken interaction and returns when it ends.
type Engine interface {
	Converse(ctx context.Context, trigger Trigger) error
}

// Observer is notified about session lifecycle events.
type Observer interface {
	SessionStarted(trigger Trigger)
	SessionRejected(trigger Trigger)
	SessionFinished(trigger Trigger, took time.Duration, err error)
}
