package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jwebster45206/wasteland-engine/internal/config"
	"github.com/jwebster45206/wasteland-engine/pkg/action"
	"github.com/jwebster45206/wasteland-engine/pkg/narrative"
)

// NewAdapters picks the interpreter and narrator for the configured
// provider. Without a provider the game runs on the rule-based interpreter
// and the static narrator. The returned close func is never nil.
func NewAdapters(ctx context.Context, cfg *config.Config, log *slog.Logger) (action.Interpreter, narrative.Generator, func() error, error) {
	var llm LLMService
	closeFn := func() error { return nil }

	switch cfg.LLMProvider {
	case config.ProviderAnthropic:
		llm = NewAnthropicService(cfg.AnthropicAPIKey, cfg.ModelName, cfg.BackendModelName, log)
		log.Info("Using Anthropic LLM provider")
	case config.ProviderGemini:
		gemini, err := NewGeminiService(ctx, cfg.GeminiAPIKey, cfg.ModelName, cfg.BackendModelName, log)
		if err != nil {
			return nil, nil, closeFn, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		closeFn = gemini.Close
		llm = gemini
		log.Info("Using Gemini LLM provider")
	default:
		log.Info("No LLM provider configured, using rule-based interpreter and static narrator")
		return action.NewRuleInterpreter(), narrative.NewStaticNarrator(), closeFn, nil
	}

	if err := llm.InitModel(ctx, cfg.ModelName); err != nil {
		_ = closeFn()
		return nil, nil, func() error { return nil }, fmt.Errorf("failed to initialize model %s: %w", cfg.ModelName, err)
	}

	return NewLLMInterpreter(llm, log), NewLLMNarrator(llm, narrative.DefaultTitle, log), closeFn, nil
}
