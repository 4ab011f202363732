package ai_bot

import "context"

type AIBotAPI interface {
	// StartConversation asks the dialogue service to run a conversation and
	// blocks until the service reports it finished, returning its summary.
	StartConversation(ctx context.Context, trigger string) (string, error)
}
