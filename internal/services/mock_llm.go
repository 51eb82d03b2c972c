package services

import (
	"context"
	"sync"

	"github.com/jwebster45206/wasteland-engine/pkg/chat"
)

// MockLLMAPI is a mock implementation of LLMService for testing
type MockLLMAPI struct {
	InitModelFunc   func(ctx context.Context, modelName string) error
	ChatFunc        func(ctx context.Context, messages []chat.ChatMessage) (string, error)
	BackendChatFunc func(ctx context.Context, messages []chat.ChatMessage) (string, error)

	// Track calls for testing
	InitModelCalls   []string
	ChatCalls        [][]chat.ChatMessage
	BackendChatCalls [][]chat.ChatMessage

	mu sync.Mutex // protects all fields above
}

var _ LLMService = (*MockLLMAPI)(nil)

// NewMockLLMAPI creates a new mock LLM service
func NewMockLLMAPI() *MockLLMAPI {
	return &MockLLMAPI{}
}

func (m *MockLLMAPI) InitModel(ctx context.Context, modelName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.InitModelCalls = append(m.InitModelCalls, modelName)
	if m.InitModelFunc != nil {
		return m.InitModelFunc(ctx, modelName)
	}
	return nil
}

// Chat returns a fixed narration line unless ChatFunc is set
func (m *MockLLMAPI) Chat(ctx context.Context, messages []chat.ChatMessage) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ChatCalls = append(m.ChatCalls, messages)
	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, messages)
	}
	return "El viento arrastra ceniza radiactiva.", nil
}

// BackendChat answers HELP unless BackendChatFunc is set
func (m *MockLLMAPI) BackendChat(ctx context.Context, messages []chat.ChatMessage) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.BackendChatCalls = append(m.BackendChatCalls, messages)
	if m.BackendChatFunc != nil {
		return m.BackendChatFunc(ctx, messages)
	}
	return `{"action":"HELP","target":null}`, nil
}

// Reset clears call tracking
func (m *MockLLMAPI) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InitModelCalls = nil
	m.ChatCalls = nil
	m.BackendChatCalls = nil
}
