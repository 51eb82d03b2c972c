package actor

import (
	"testing"

	"github.com/jwebster45206/wasteland-engine/pkg/state"
	"github.com/jwebster45206/wasteland-engine/pkg/world"
)

func TestNewPlayer(t *testing.T) {
	t.Run("unarmed", func(t *testing.T) {
		p, err := NewPlayer(&PlayerSpec{ID: "p1", HP: 100, MaxHP: 100})
		if err != nil {
			t.Fatalf("NewPlayer() error = %v", err)
		}
		if p.Damage() != PlayerBaseDamage {
			t.Errorf("Damage() = %d, want %d", p.Damage(), PlayerBaseDamage)
		}
		if p.Actor.MaxHP() != 100 {
			t.Errorf("MaxHP() = %d, want 100", p.Actor.MaxHP())
		}
		if p.WeaponName() != "" {
			t.Errorf("WeaponName() = %q, want empty", p.WeaponName())
		}
	})

	t.Run("armed", func(t *testing.T) {
		p, err := NewPlayer(&PlayerSpec{ID: "p1", HP: 60, MaxHP: 100, Weapon: "Tubería de Plomo", WeaponDamage: 12})
		if err != nil {
			t.Fatalf("NewPlayer() error = %v", err)
		}
		if p.Damage() != 17 {
			t.Errorf("Damage() = %d, want 17", p.Damage())
		}
		if p.Actor.HP() != 60 {
			t.Errorf("HP() = %d, want 60", p.Actor.HP())
		}
	})

	t.Run("nil spec", func(t *testing.T) {
		if _, err := NewPlayer(nil); err == nil {
			t.Error("expected error for nil spec")
		}
	})

	t.Run("no max hp", func(t *testing.T) {
		if _, err := NewPlayer(&PlayerSpec{ID: "p1"}); err == nil {
			t.Error("expected error for zero max hp")
		}
	})
}

func TestPlayerFromState(t *testing.T) {
	gs := state.NewGameState(world.Default())
	p, err := PlayerFromState(gs)
	if err != nil {
		t.Fatalf("PlayerFromState() error = %v", err)
	}
	if p.Damage() != 5 {
		t.Errorf("Damage() = %d, want 5", p.Damage())
	}

	gs.Inventory = append(gs.Inventory, "tuberia_plomo")
	gs.EquippedWeapon = "tuberia_plomo"
	p, err = PlayerFromState(gs)
	if err != nil {
		t.Fatalf("PlayerFromState() error = %v", err)
	}
	if p.Damage() != 17 {
		t.Errorf("Damage() = %d, want 17", p.Damage())
	}
	if p.WeaponName() != "Tubería de Plomo" {
		t.Errorf("WeaponName() = %q", p.WeaponName())
	}
}
