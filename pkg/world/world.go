// Package world holds the entity graph of a game: locations, items and
// enemies, plus the lookup and mutation helpers the turn processor uses.
//
// A World loaded from disk (or Default) is a template. Games never mutate a
// template directly; they work on a Clone.
package world

import (
	"errors"
	"slices"
	"sort"
)

var (
	ErrUnknownEntity = errors.New("unknown entity")
	ErrNotContainer  = errors.New("item is not a container")
)

// Location is a node of the world graph.
type Location struct {
	ID              string            `json:"id" yaml:"id"`
	Name            string            `json:"name" yaml:"name"`
	BaseDescription string            `json:"base_description" yaml:"base_description"`
	Exits           map[string]string `json:"exits" yaml:"exits"` // direction keyword -> location id
	Items           []string          `json:"items" yaml:"items"`
	Enemies         []string          `json:"enemies,omitempty" yaml:"enemies,omitempty"`
}

// UseEffects describes what happens when an item is used. Using an item
// with effects consumes it.
type UseEffects struct {
	Heals int `json:"heals,omitempty" yaml:"heals,omitempty"`
}

// Item is anything the player can see, carry, open, use or wield.
type Item struct {
	ID              string      `json:"id" yaml:"id"`
	Name            string      `json:"name" yaml:"name"`
	BaseDescription string      `json:"base_description" yaml:"base_description"`
	IsContainer     bool        `json:"is_container,omitempty" yaml:"is_container,omitempty"`
	IsOpen          bool        `json:"is_open,omitempty" yaml:"is_open,omitempty"`
	Contains        []string    `json:"contains,omitempty" yaml:"contains,omitempty"`
	UseEffects      *UseEffects `json:"use_effects,omitempty" yaml:"use_effects,omitempty"`
	Equipable       bool        `json:"equipable,omitempty" yaml:"equipable,omitempty"`
	Damage          int         `json:"damage,omitempty" yaml:"damage,omitempty"`
}

// Heals returns the heal amount of the item, 0 when it has no usable effect.
func (i *Item) Heals() int {
	if i == nil || i.UseEffects == nil {
		return 0
	}
	return i.UseEffects.Heals
}

// Enemy is a hostile creature placed in a location.
type Enemy struct {
	ID                 string   `json:"id" yaml:"id"`
	Name               string   `json:"name" yaml:"name"`
	Description        string   `json:"description" yaml:"description"`
	DescriptionOnEnter string   `json:"description_on_enter" yaml:"description_on_enter"`
	Health             int      `json:"health" yaml:"health"`
	MaxHealth          int      `json:"max_health" yaml:"max_health"`
	Attack             int      `json:"attack" yaml:"attack"`
	Weapon             string   `json:"weapon,omitempty" yaml:"weapon,omitempty"`
	IsAggressive       bool     `json:"is_aggressive,omitempty" yaml:"is_aggressive,omitempty"`
	Drops              []string `json:"drops,omitempty" yaml:"drops,omitempty"`
}

// WeaponName is what the enemy strikes with. Enemies without one use
// their claws.
func (e *Enemy) WeaponName() string {
	if e.Weapon == "" {
		return DefaultEnemyWeapon
	}
	return e.Weapon
}

// IsDefeated returns true once the enemy's health reaches 0.
func (e *Enemy) IsDefeated() bool {
	return e.Health <= 0
}

// TakeDamage reduces health by n. Health cannot go below 0.
func (e *Enemy) TakeDamage(n int) {
	if n <= 0 {
		return
	}
	e.Health -= n
	if e.Health < 0 {
		e.Health = 0
	}
}

// World is the complete entity graph of one game.
type World struct {
	ID              string               `json:"id" yaml:"id"`
	Title           string               `json:"title" yaml:"title"`
	Intro           string               `json:"intro" yaml:"intro"`
	Start           string               `json:"start" yaml:"start"`
	PlayerMaxHealth int                  `json:"player_max_health" yaml:"player_max_health"`
	Locations       map[string]*Location `json:"locations" yaml:"locations"`
	Items           map[string]*Item     `json:"items" yaml:"items"`
	Enemies         map[string]*Enemy    `json:"enemies" yaml:"enemies"`
}

// DefaultPlayerMaxHealth applies when a world does not set player_max_health.
const DefaultPlayerMaxHealth = 100

// DefaultEnemyWeapon is used for enemies that do not name a weapon.
const DefaultEnemyWeapon = "sus garras"

// MaxHealth returns the player's starting (and maximum) health.
func (w *World) MaxHealth() int {
	if w.PlayerMaxHealth > 0 {
		return w.PlayerMaxHealth
	}
	return DefaultPlayerMaxHealth
}

// ItemNames maps item ids to display names, skipping unknown ids.
func (w *World) ItemNames(ids []string) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if it, ok := w.Items[id]; ok {
			names = append(names, it.Name)
		}
	}
	return names
}

// ItemsByID resolves item ids, skipping unknown ids.
func (w *World) ItemsByID(ids []string) []*Item {
	items := make([]*Item, 0, len(ids))
	for _, id := range ids {
		if it, ok := w.Items[id]; ok {
			items = append(items, it)
		}
	}
	return items
}

// LivingEnemies returns the enemies of a location that are still standing.
func (w *World) LivingEnemies(loc *Location) []*Enemy {
	var enemies []*Enemy
	for _, id := range loc.Enemies {
		if e, ok := w.Enemies[id]; ok && !e.IsDefeated() {
			enemies = append(enemies, e)
		}
	}
	return enemies
}

// ExitKeywords returns the exit keywords of a location in sorted order.
func (loc *Location) ExitKeywords() []string {
	keys := make([]string, 0, len(loc.Exits))
	for k := range loc.Exits {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// RemoveEnemy drops an enemy id from the location. Returns false if absent.
func (loc *Location) RemoveEnemy(enemyID string) bool {
	i := slices.Index(loc.Enemies, enemyID)
	if i < 0 {
		return false
	}
	loc.Enemies = slices.Delete(loc.Enemies, i, i+1)
	return true
}
