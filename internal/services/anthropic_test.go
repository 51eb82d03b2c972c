package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jwebster45206/wasteland-engine/pkg/chat"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewAnthropicService(t *testing.T) {
	service := NewAnthropicService("test-api-key", "claude-3-5-haiku-latest", "", testLogger())

	if service.apiKey != "test-api-key" {
		t.Errorf("Expected API key test-api-key, got %s", service.apiKey)
	}
	if service.backendModelName != "claude-3-5-haiku-latest" {
		t.Errorf("Expected backend model to default to the narration model, got %s", service.backendModelName)
	}
	if service.baseURL != anthropicBaseURL {
		t.Errorf("Expected base URL %s, got %s", anthropicBaseURL, service.baseURL)
	}
	if service.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}
}

func TestAnthropicService_Chat(t *testing.T) {
	var got AnthropicChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/messages" {
			t.Errorf("Expected path /messages, got %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "secret" {
			t.Errorf("Expected x-api-key header, got %q", r.Header.Get("x-api-key"))
		}
		if r.Header.Get("anthropic-version") != anthropicVersion {
			t.Errorf("Expected anthropic-version %s, got %q", anthropicVersion, r.Header.Get("anthropic-version"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		_, _ = io.WriteString(w, `{"id":"msg_1","type":"message","role":"assistant","content":[{"type":"text","text":"  El desierto arde.  "}],"usage":{"input_tokens":10,"output_tokens":5}}`)
	}))
	defer server.Close()

	service := NewAnthropicService("secret", "narrator-model", "parser-model", testLogger()).WithBaseURL(server.URL + "/")

	reply, err := service.Chat(context.Background(), []chat.ChatMessage{
		{Role: chat.ChatRoleSystem, Content: "uno"},
		{Role: chat.ChatRoleSystem, Content: "dos"},
		{Role: chat.ChatRoleUser, Content: "describe"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "El desierto arde." {
		t.Errorf("Expected trimmed reply, got %q", reply)
	}
	if got.Model != "narrator-model" {
		t.Errorf("Expected narrator-model, got %s", got.Model)
	}
	if got.System != "uno\n\ndos" {
		t.Errorf("Expected joined system prompt, got %q", got.System)
	}
	if len(got.Messages) != 1 || got.Messages[0].Role != chat.ChatRoleUser {
		t.Errorf("Expected only the user message in messages, got %+v", got.Messages)
	}
}

func TestAnthropicService_BackendChatUsesBackendModel(t *testing.T) {
	var got AnthropicChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = io.WriteString(w, `{"content":[{"type":"text","text":"{\"action\":\"HELP\"}"}]}`)
	}))
	defer server.Close()

	service := NewAnthropicService("k", "narrator-model", "parser-model", testLogger()).WithBaseURL(server.URL)
	reply, err := service.BackendChat(context.Background(), []chat.ChatMessage{{Role: chat.ChatRoleUser, Content: "ayuda"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != `{"action":"HELP"}` {
		t.Errorf("unexpected reply %q", reply)
	}
	if got.Model != "parser-model" {
		t.Errorf("Expected parser-model, got %s", got.Model)
	}
	if got.Temperature == nil || *got.Temperature != 0 {
		t.Errorf("Expected zero temperature for backend calls, got %v", got.Temperature)
	}
}

func TestAnthropicService_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"http error", http.StatusUnauthorized, `{"error":{"type":"auth","message":"bad key"}}`, "status 401"},
		{"api error in body", http.StatusOK, `{"error":{"type":"overloaded","message":"try later"}}`, "try later"},
		{"malformed body", http.StatusOK, `not json`, "failed to parse response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer server.Close()

			service := NewAnthropicService("k", "m", "", testLogger()).WithBaseURL(server.URL)
			_, err := service.Chat(context.Background(), []chat.ChatMessage{{Role: chat.ChatRoleUser, Content: "hola"}})
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestAnthropicService_NoConversation(t *testing.T) {
	service := NewAnthropicService("k", "m", "", testLogger())
	_, err := service.Chat(context.Background(), []chat.ChatMessage{{Role: chat.ChatRoleSystem, Content: "solo sistema"}})
	if err == nil {
		t.Error("expected error when only system messages are given")
	}
}
