package state

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/wasteland-engine/pkg/world"
)

// LogKind classifies a log entry for presentation.
type LogKind string

const (
	LogPlayer    LogKind = "player"     // echo of the submitted command
	LogSystem    LogKind = "system"     // descriptions
	LogError     LogKind = "error"      // rejected input, death
	LogInfo      LogKind = "info"       // confirmations
	LogCombat    LogKind = "combat"     // player strikes
	LogEnemyTurn LogKind = "enemy_turn" // enemy encounters and strikes
)

// LogEntry is one line of the adventure log. ID is the entry's position in
// the game log.
type LogEntry struct {
	ID   int     `json:"id"`
	Kind LogKind `json:"type"`
	Text string  `json:"text"`
}

// GameState is the complete, self-contained state of one game. The World
// it holds is owned by the game and never shared with a template.
type GameState struct {
	ID                uuid.UUID    `json:"id"`
	WorldID           string       `json:"world_id"`
	CurrentLocationID string       `json:"current_location_id"`
	Inventory         []string     `json:"inventory"`
	Log               []LogEntry   `json:"log"`
	World             *world.World `json:"world"`
	PlayerHealth      int          `json:"player_health"`
	MaxPlayerHealth   int          `json:"max_player_health"`
	CurrentEnemyID    string       `json:"current_enemy_id,omitempty"`
	EquippedWeapon    string       `json:"equipped_weapon,omitempty"`
	IsGameOver        bool         `json:"is_game_over"`
	IsInitialized     bool         `json:"is_initialized"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// NewGameState builds a fresh game from a world template. The template is
// deep-copied; the player starts at full health in the start location with
// nothing in hand and no enemy engaged.
func NewGameState(tmpl *world.World) *GameState {
	w := tmpl.Clone()
	now := time.Now()
	return &GameState{
		ID:                uuid.New(),
		WorldID:           w.ID,
		CurrentLocationID: w.Start,
		Inventory:         []string{},
		Log:               []LogEntry{},
		World:             w,
		PlayerHealth:      w.MaxHealth(),
		MaxPlayerHealth:   w.MaxHealth(),
		IsInitialized:     true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// Clone returns a deep copy of the game state.
func (gs *GameState) Clone() *GameState {
	if gs == nil {
		return nil
	}
	c := *gs
	c.Inventory = slices.Clone(gs.Inventory)
	if c.Inventory == nil {
		c.Inventory = []string{}
	}
	c.Log = slices.Clone(gs.Log)
	if c.Log == nil {
		c.Log = []LogEntry{}
	}
	c.World = gs.World.Clone()
	return &c
}

// AddLog appends an entry to the game log and returns it with its id set.
func (gs *GameState) AddLog(kind LogKind, text string) LogEntry {
	e := LogEntry{ID: len(gs.Log), Kind: kind, Text: text}
	gs.Log = append(gs.Log, e)
	return e
}

// CurrentLocation returns the location the player stands in, or nil.
func (gs *GameState) CurrentLocation() *world.Location {
	if gs.World == nil {
		return nil
	}
	return gs.World.Locations[gs.CurrentLocationID]
}

// CurrentEnemy returns the engaged enemy, or nil outside combat.
func (gs *GameState) CurrentEnemy() *world.Enemy {
	if gs.CurrentEnemyID == "" || gs.World == nil {
		return nil
	}
	return gs.World.Enemies[gs.CurrentEnemyID]
}

// InCombat reports whether an enemy is engaged.
func (gs *GameState) InCombat() bool {
	return gs.CurrentEnemyID != ""
}

// Weapon returns the equipped item, or nil when fighting unarmed.
func (gs *GameState) Weapon() *world.Item {
	if gs.EquippedWeapon == "" || gs.World == nil {
		return nil
	}
	return gs.World.Items[gs.EquippedWeapon]
}

// HasItem reports whether the item id is in the inventory.
func (gs *GameState) HasItem(itemID string) bool {
	return slices.Contains(gs.Inventory, itemID)
}

// CheckInvariants verifies the structural rules every game must satisfy
// between turns. It returns all violations joined.
func (gs *GameState) CheckInvariants() error {
	if gs == nil {
		return errors.New("nil game state")
	}
	if gs.World == nil {
		return errors.New("game state has no world")
	}
	var errs []error
	w := gs.World

	if _, ok := w.Locations[gs.CurrentLocationID]; !ok {
		errs = append(errs, fmt.Errorf("current location %q does not exist", gs.CurrentLocationID))
	}
	if gs.PlayerHealth < 0 || gs.PlayerHealth > gs.MaxPlayerHealth {
		errs = append(errs, fmt.Errorf("player health %d outside [0, %d]", gs.PlayerHealth, gs.MaxPlayerHealth))
	}
	if gs.PlayerHealth == 0 && !gs.IsGameOver {
		errs = append(errs, errors.New("player health is 0 but the game is not over"))
	}

	// every item id lives in at most one place
	seen := make(map[string]string)
	track := func(ids []string, where string) {
		for _, id := range ids {
			if prev, dup := seen[id]; dup {
				errs = append(errs, fmt.Errorf("item %q is in both %s and %s", id, prev, where))
				continue
			}
			seen[id] = where
		}
	}
	track(gs.Inventory, "inventory")
	for _, id := range sortedLocationIDs(w) {
		track(w.Locations[id].Items, "location "+id)
	}
	for id, it := range w.Items {
		track(it.Contains, "container "+id)
	}

	if gs.EquippedWeapon != "" {
		it, ok := w.Items[gs.EquippedWeapon]
		switch {
		case !ok:
			errs = append(errs, fmt.Errorf("equipped weapon %q does not exist", gs.EquippedWeapon))
		case !it.Equipable:
			errs = append(errs, fmt.Errorf("equipped weapon %q is not equipable", gs.EquippedWeapon))
		}
	}

	for id, e := range w.Enemies {
		if e.Health < 0 || e.Health > e.MaxHealth {
			errs = append(errs, fmt.Errorf("enemy %q health %d outside [0, %d]", id, e.Health, e.MaxHealth))
		}
	}

	if gs.CurrentEnemyID != "" {
		e, ok := w.Enemies[gs.CurrentEnemyID]
		switch {
		case !ok:
			errs = append(errs, fmt.Errorf("current enemy %q does not exist", gs.CurrentEnemyID))
		case e.IsDefeated():
			errs = append(errs, fmt.Errorf("current enemy %q is already defeated", gs.CurrentEnemyID))
		default:
			if loc := gs.CurrentLocation(); loc != nil && !slices.Contains(loc.Enemies, gs.CurrentEnemyID) {
				errs = append(errs, fmt.Errorf("current enemy %q is not in location %q", gs.CurrentEnemyID, gs.CurrentLocationID))
			}
		}
	}

	for i, e := range gs.Log {
		if e.ID != i {
			errs = append(errs, fmt.Errorf("log entry %d has id %d", i, e.ID))
			break
		}
	}
	return errors.Join(errs...)
}

func sortedLocationIDs(w *world.World) []string {
	ids := make([]string, 0, len(w.Locations))
	for id := range w.Locations {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
