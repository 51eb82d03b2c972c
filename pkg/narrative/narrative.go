// Package narrative turns game events into prose. The turn processor only
// needs some text for each event; how it is written is up to the Generator.
package narrative

import "context"

// FallbackText replaces any narration that could not be produced.
const FallbackText = "El éter crepita con estática, tu mente no puede formarse un pensamiento claro."

// Kind is the type of event being narrated.
type Kind string

const (
	KindIntro    Kind = "intro"    // opening of a new game
	KindLocation Kind = "location" // arriving at or looking around a location
	KindItem     Kind = "item"     // examining an item
	KindStrike   Kind = "strike"   // one combatant hitting another
)

// Event is a semantic description of something to narrate.
type Event struct {
	Kind Kind `json:"kind"`

	// Intro
	Title string `json:"title,omitempty"` // world title
	Intro string `json:"intro,omitempty"` // authored intro text

	// Location and item
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"` // base description
	Items       []string `json:"items,omitempty"`       // visible item names
	Enemies     []string `json:"enemies,omitempty"`     // living enemy names
	Exits       []string `json:"exits,omitempty"`

	IsContainer bool     `json:"is_container,omitempty"`
	IsOpen      bool     `json:"is_open,omitempty"`
	Contents    []string `json:"contents,omitempty"`

	// Strike
	Attacker string `json:"attacker,omitempty"`
	Defender string `json:"defender,omitempty"`
	Weapon   string `json:"weapon,omitempty"` // empty for bare hands
	ByPlayer bool   `json:"by_player,omitempty"`
}

// Generator writes 1-4 sentences of prose for an event. It never fails;
// implementations return FallbackText when they cannot produce anything.
type Generator interface {
	Narrate(ctx context.Context, e Event) string
}
