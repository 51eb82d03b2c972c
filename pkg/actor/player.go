package actor

import (
	"fmt"

	"github.com/jwebster45206/d20"
	"github.com/jwebster45206/wasteland-engine/pkg/state"
)

const (
	// PlayerBaseDamage is dealt by every player strike, armed or not.
	PlayerBaseDamage = 5
	// PlayerAC is a placeholder; attacks always land.
	PlayerAC = 10

	AttrBaseDamage = "base_damage"
)

// PlayerSpec is the serializable description of the player's combat sheet.
type PlayerSpec struct {
	ID           string `json:"id"`
	HP           int    `json:"hp"`
	MaxHP        int    `json:"max_hp"`
	Weapon       string `json:"weapon,omitempty"` // display name of the equipped weapon
	WeaponDamage int    `json:"weapon_damage,omitempty"`
}

// Player is the runtime combat sheet of the player.
type Player struct {
	Spec  *PlayerSpec
	Actor *d20.Actor // Built at runtime from PlayerSpec
}

// NewPlayer builds a Player and its d20.Actor from a spec. The equipped
// weapon becomes a combat modifier named after the weapon.
func NewPlayer(spec *PlayerSpec) (*Player, error) {
	if spec == nil {
		return nil, fmt.Errorf("spec cannot be nil")
	}
	if spec.MaxHP <= 0 {
		return nil, fmt.Errorf("max hp must be positive, got %d", spec.MaxHP)
	}

	mods := map[string]int{}
	if spec.Weapon != "" {
		mods[spec.Weapon] = spec.WeaponDamage
	}

	a, err := d20.NewActor(spec.ID).
		WithHP(spec.MaxHP).
		WithAC(PlayerAC).
		WithAttributes(map[string]int{AttrBaseDamage: PlayerBaseDamage}).
		WithCombatModifiers(mods).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build actor: %w", err)
	}

	// Set current HP if different from max
	if spec.HP != spec.MaxHP && spec.HP > 0 {
		if err := a.SetHP(spec.HP); err != nil {
			return nil, fmt.Errorf("failed to set HP: %w", err)
		}
	}

	return &Player{Spec: spec, Actor: a}, nil
}

// PlayerFromState reads the player's sheet out of a game state.
func PlayerFromState(gs *state.GameState) (*Player, error) {
	spec := &PlayerSpec{
		ID:    gs.ID.String(),
		HP:    gs.PlayerHealth,
		MaxHP: gs.MaxPlayerHealth,
	}
	if w := gs.Weapon(); w != nil {
		spec.Weapon = w.Name
		spec.WeaponDamage = w.Damage
	}
	return NewPlayer(spec)
}

// Damage returns the damage of one strike: base damage plus every combat
// modifier on the sheet.
func (p *Player) Damage() int {
	dmg, ok := p.Actor.Attribute(AttrBaseDamage)
	if !ok {
		dmg = PlayerBaseDamage
	}
	for _, mod := range p.Actor.GetCombatModifiers() {
		dmg += mod.Value
	}
	return dmg
}

// WeaponName returns the equipped weapon's name, empty when unarmed.
func (p *Player) WeaponName() string {
	return p.Spec.Weapon
}
