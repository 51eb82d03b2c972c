// Package action defines the structured player actions the turn processor
// understands and the interpreters that turn free text into them.
package action

import (
	"context"
	"slices"
	"strings"

	"github.com/jwebster45206/wasteland-engine/pkg/state"
)

// Type is one of the fixed set of player actions.
type Type string

const (
	Goto      Type = "GOTO"
	Examine   Type = "EXAMINE"
	Take      Type = "TAKE"
	Use       Type = "USE"
	Open      Type = "OPEN"
	Inventory Type = "INVENTORY"
	Help      Type = "HELP"
	Attack    Type = "ATTACK"
	Equip     Type = "EQUIP"
	Unknown   Type = "UNKNOWN"
)

var types = []Type{Goto, Examine, Take, Use, Open, Inventory, Help, Attack, Equip, Unknown}

// Types returns every action type in a stable order.
func Types() []Type {
	return slices.Clone(types)
}

// ParseType maps a case-insensitive name to a Type. Anything else is Unknown.
func ParseType(s string) Type {
	t := Type(strings.ToUpper(strings.TrimSpace(s)))
	if slices.Contains(types, t) {
		return t
	}
	return Unknown
}

// Action is a structured player action. Target is a single normalized
// keyword, or empty when the action has none.
type Action struct {
	Type   Type   `json:"action"`
	Target string `json:"target,omitempty"`
}

// Context summarizes what the player can see, for interpreters that need
// to resolve free text against the current scene.
type Context struct {
	LocationName string   `json:"location"`
	Exits        []string `json:"exits"`
	Items        []string `json:"items"`   // display names, room then inventory
	Enemies      []string `json:"enemies"` // display names of living enemies
}

// Interpreter turns raw player text into a structured action. It never
// fails: anything it cannot classify comes back as Unknown carrying the
// raw text as target.
type Interpreter interface {
	Interpret(ctx context.Context, raw string, c Context) Action
}

// BuildContext summarizes the player's surroundings.
func BuildContext(gs *state.GameState) Context {
	c := Context{Exits: []string{}, Items: []string{}, Enemies: []string{}}
	loc := gs.CurrentLocation()
	if loc == nil {
		return c
	}
	w := gs.World
	c.LocationName = loc.Name
	c.Exits = loc.ExitKeywords()
	for _, name := range append(w.ItemNames(loc.Items), w.ItemNames(gs.Inventory)...) {
		if !slices.Contains(c.Items, name) {
			c.Items = append(c.Items, name)
		}
	}
	for _, e := range w.LivingEnemies(loc) {
		c.Enemies = append(c.Enemies, e.Name)
	}
	return c
}
