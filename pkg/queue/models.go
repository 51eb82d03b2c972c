package queue

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RequestType identifies the type of request in the queue
type RequestType string

const (
	// RequestTypeCommand is a raw player command for the interpreter
	RequestTypeCommand RequestType = "command"

	// RequestTypeAction is an already structured action
	RequestTypeAction RequestType = "action"
)

// Request is one queued turn.
type Request struct {
	RequestID string      `json:"request_id"`
	Type      RequestType `json:"type"`
	GameID    uuid.UUID   `json:"game_id"`

	// Command-specific fields
	Command string `json:"command,omitempty"`

	// Action-specific fields
	Action string `json:"action,omitempty"`
	Target string `json:"target,omitempty"`

	EnqueuedAt time.Time `json:"enqueued_at"`
}

// NewCommandRequest builds a queued raw command with a fresh request id.
func NewCommandRequest(gameID uuid.UUID, command string) *Request {
	return &Request{
		RequestID:  uuid.NewString(),
		Type:       RequestTypeCommand,
		GameID:     gameID,
		Command:    command,
		EnqueuedAt: time.Now().UTC(),
	}
}

// NewActionRequest builds a queued structured action with a fresh request id.
func NewActionRequest(gameID uuid.UUID, action, target string) *Request {
	return &Request{
		RequestID:  uuid.NewString(),
		Type:       RequestTypeAction,
		GameID:     gameID,
		Action:     action,
		Target:     target,
		EnqueuedAt: time.Now().UTC(),
	}
}

// Label is a short description for logs and events.
func (r *Request) Label() string {
	if r.Type == RequestTypeAction {
		return strings.TrimSpace(strings.ToUpper(r.Action) + " " + r.Target)
	}
	return r.Command
}

// ToJSON converts the request to JSON bytes for Redis
func (r *Request) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}

// FromJSON parses a request from JSON bytes
func FromJSON(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// Ticket says a game has a queued request. Workers take tickets, then pop
// the game's next request while holding its turn lock, so a game's
// requests are applied strictly in the order they were queued.
type Ticket struct {
	GameID   uuid.UUID `json:"game_id"`
	Attempts int       `json:"attempts,omitempty"` // times the game was found busy
}

func (t *Ticket) ToJSON() ([]byte, error) {
	return json.Marshal(t)
}

// TicketFromJSON parses a ticket from JSON bytes
func TicketFromJSON(data []byte) (*Ticket, error) {
	var t Ticket
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	return &t, nil
}
