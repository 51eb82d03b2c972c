package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/jwebster45206/wasteland-engine/pkg/chat"
	"google.golang.org/api/option"
)

const (
	DefaultGeminiTemperature = 0.7
	DefaultGeminiMaxTokens   = 1024
)

// GeminiService implements LLMService for Google Gemini
type GeminiService struct {
	client           *genai.Client
	modelName        string
	backendModelName string
	logger           *slog.Logger
}

var _ LLMService = (*GeminiService)(nil)

func NewGeminiService(ctx context.Context, apiKey, modelName, backendModelName string, logger *slog.Logger) (*GeminiService, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	if backendModelName == "" {
		backendModelName = modelName
	}
	return &GeminiService{
		client:           client,
		modelName:        modelName,
		backendModelName: backendModelName,
		logger:           logger,
	}, nil
}

func (g *GeminiService) Close() error {
	return g.client.Close()
}

func (g *GeminiService) InitModel(ctx context.Context, modelName string) error {
	return nil
}

func (g *GeminiService) Chat(ctx context.Context, messages []chat.ChatMessage) (string, error) {
	model := g.client.GenerativeModel(g.modelName)
	model.SetTemperature(DefaultGeminiTemperature)
	model.SetMaxOutputTokens(DefaultGeminiMaxTokens)
	return g.generate(ctx, model, messages)
}

func (g *GeminiService) BackendChat(ctx context.Context, messages []chat.ChatMessage) (string, error) {
	model := g.client.GenerativeModel(g.backendModelName)
	model.SetTemperature(backendTemperature)
	model.ResponseMIMEType = "application/json"
	return g.generate(ctx, model, messages)
}

func (g *GeminiService) generate(ctx context.Context, model *genai.GenerativeModel, messages []chat.ChatMessage) (string, error) {
	system, conversation := chat.SplitSystem(messages)
	if len(conversation) == 0 {
		return "", fmt.Errorf("no user messages to send")
	}
	if system != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(system))
	}

	session := model.StartChat()
	last := conversation[len(conversation)-1]
	for _, m := range conversation[:len(conversation)-1] {
		session.History = append(session.History, &genai.Content{
			Role:  geminiRole(m.Role),
			Parts: []genai.Part{genai.Text(m.Content)},
		})
	}

	start := time.Now()
	resp, err := session.SendMessage(ctx, genai.Text(last.Content))
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no content returned from Gemini")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	g.logger.Debug("gemini completion", "duration", time.Since(start))
	return strings.TrimSpace(sb.String()), nil
}

func geminiRole(role string) string {
	if role == chat.ChatRoleAgent {
		return "model"
	}
	return "user"
}
