package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jwebster45206/wasteland-engine/pkg/narrative"
)

// LLMNarrator renders narrative events with the narration model.
type LLMNarrator struct {
	llm    LLMService
	title  string
	logger *slog.Logger
}

var _ narrative.Generator = (*LLMNarrator)(nil)

func NewLLMNarrator(llm LLMService, title string, logger *slog.Logger) *LLMNarrator {
	return &LLMNarrator{llm: llm, title: title, logger: logger}
}

// Narrate never fails; errors and empty replies become the fallback line.
func (n *LLMNarrator) Narrate(ctx context.Context, e narrative.Event) string {
	title := n.title
	if e.Title != "" {
		title = e.Title
	}

	messages, err := narrative.NewBuilder().WithTitle(title).WithEvent(e).Build()
	if err != nil {
		n.logger.Error("failed to build narration prompt", "error", err, "kind", e.Kind)
		return narrative.FallbackText
	}

	text, err := n.llm.Chat(ctx, messages)
	if err != nil {
		n.logger.Warn("narration failed", "error", err, "kind", e.Kind)
		return narrative.FallbackText
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return narrative.FallbackText
	}
	return text
}
