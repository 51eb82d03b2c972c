package services

import (
	"context"
	"log/slog"

	"github.com/jwebster45206/wasteland-engine/pkg/action"
	"github.com/jwebster45206/wasteland-engine/pkg/chat"
)

// LLMInterpreter classifies player commands with the backend model.
// Any provider or parse failure degrades to an Unknown action.
type LLMInterpreter struct {
	llm    LLMService
	logger *slog.Logger
}

var _ action.Interpreter = (*LLMInterpreter)(nil)

func NewLLMInterpreter(llm LLMService, logger *slog.Logger) *LLMInterpreter {
	return &LLMInterpreter{llm: llm, logger: logger}
}

func (i *LLMInterpreter) Interpret(ctx context.Context, raw string, c action.Context) action.Action {
	messages := []chat.ChatMessage{
		{Role: chat.ChatRoleSystem, Content: action.SystemPrompt},
		{Role: chat.ChatRoleUser, Content: action.BuildPrompt(raw, c)},
	}

	reply, err := i.llm.BackendChat(ctx, messages)
	if err != nil {
		i.logger.Warn("command interpretation failed", "error", err, "command", raw)
		return action.Action{Type: action.Unknown, Target: raw}
	}

	a, err := action.Parse(reply)
	if err != nil {
		i.logger.Warn("unparseable interpreter reply", "error", err, "reply", reply)
		return action.Action{Type: action.Unknown, Target: raw}
	}
	if a.Type == action.Unknown && a.Target == "" {
		a.Target = raw
	}

	i.logger.Debug("command interpreted", "command", raw, "action", a.Type, "target", a.Target)
	return a
}
