package chat

import (
	"fmt"
	"strings"
)

const (
	ChatRoleUser   = "user"      // Player or engine request
	ChatRoleAgent  = "assistant" // Model reply
	ChatRoleSystem = "system"    // Narrator or parser instructions
)

// ChatMessage is a single message sent to or received from an LLM.
type ChatMessage struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

func (m ChatMessage) Validate() error {
	switch m.Role {
	case ChatRoleUser, ChatRoleAgent, ChatRoleSystem:
	default:
		return fmt.Errorf("invalid role %q", m.Role)
	}
	if strings.TrimSpace(m.Content) == "" {
		return fmt.Errorf("message cannot be empty")
	}
	return nil
}

// SplitSystem separates system messages from the conversation. Some
// providers take the system prompt as a separate field.
func SplitSystem(messages []ChatMessage) (system string, rest []ChatMessage) {
	var sys []string
	for _, m := range messages {
		if m.Role == ChatRoleSystem {
			sys = append(sys, m.Content)
			continue
		}
		rest = append(rest, m)
	}
	return strings.Join(sys, "\n\n"), rest
}
