package services

import (
	"context"

	"github.com/jwebster45206/wasteland-engine/pkg/chat"
)

// LLMService defines the interface for interacting with a hosted LLM.
// Chat is used for narration; BackendChat is used for command
// interpretation and may run on a cheaper model.
type LLMService interface {
	// InitModel prepares the model on startup
	InitModel(ctx context.Context, modelName string) error

	// Chat returns the narration model's reply
	Chat(ctx context.Context, messages []chat.ChatMessage) (string, error)

	// BackendChat returns the backend model's reply, expected to be JSON
	BackendChat(ctx context.Context, messages []chat.ChatMessage) (string, error)
}
