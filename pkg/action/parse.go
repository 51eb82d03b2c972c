package action

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/jwebster45206/wasteland-engine/pkg/textfilter"
)

var fenceRegex = regexp.MustCompile("(?s)^```(\\w*)?\\s*\\n?(.*?)\\n?\\s*```$")

// interpreterReply is the JSON object an LLM interpreter answers with.
type interpreterReply struct {
	Action string  `json:"action"`
	Target *string `json:"target"`
}

// Parse decodes an interpreter reply such as {"action":"TAKE","target":"llave"}.
// Markdown code fences around the JSON are tolerated. The target is reduced
// to its first normalized keyword.
func Parse(reply string) (Action, error) {
	s := strings.TrimSpace(reply)
	if m := fenceRegex.FindStringSubmatch(s); m != nil && m[2] != "" {
		s = strings.TrimSpace(m[2])
	}

	var r interpreterReply
	if err := json.Unmarshal([]byte(s), &r); err != nil {
		return Action{}, fmt.Errorf("failed to decode interpreter reply: %w", err)
	}
	if r.Action == "" {
		return Action{}, fmt.Errorf("interpreter reply has no action")
	}

	a := Action{Type: ParseType(r.Action)}
	if r.Target != nil {
		a.Target = textfilter.Keyword(*r.Target)
	}
	return a, nil
}
