package engine

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jwebster45206/wasteland-engine/pkg/actor"
	"github.com/jwebster45206/wasteland-engine/pkg/narrative"
	"github.com/jwebster45206/wasteland-engine/pkg/state"
	"github.com/jwebster45206/wasteland-engine/pkg/world"
)

// strikeDamage is the player's damage per hit: base damage plus the
// equipped weapon's damage.
func (t *turn) strikeDamage() (int, string) {
	p, err := actor.PlayerFromState(t.gs)
	if err != nil {
		t.e.logger.Warn("Failed to build player sheet", "game_id", t.gs.ID, "error", err)
		dmg, weapon := actor.PlayerBaseDamage, ""
		if w := t.gs.Weapon(); w != nil {
			dmg += w.Damage
			weapon = w.Name
		}
		return dmg, weapon
	}
	return p.Damage(), p.WeaponName()
}

// playerAttack is the player's half of a combat exchange.
func (t *turn) playerAttack(enemy *world.Enemy) {
	dmg, weapon := t.strikeDamage()
	enemy.TakeDamage(dmg)
	t.e.logger.Debug("Player strikes", "game_id", t.gs.ID, "enemy", enemy.ID, "damage", dmg, "enemy_health", enemy.Health)

	t.add(state.LogCombat, t.narrate(narrative.Event{
		Kind:     narrative.KindStrike,
		Attacker: playerName,
		Defender: enemy.Name,
		Weapon:   weapon,
		ByPlayer: true,
	}))

	if !enemy.IsDefeated() {
		return
	}

	t.infof(MsgVictory, enemy.Name)
	t.gs.CurrentEnemyID = ""
	loc := t.gs.CurrentLocation()
	loc.RemoveEnemy(enemy.ID)

	if len(enemy.Drops) == 0 {
		return
	}
	for _, id := range enemy.Drops {
		if !slices.Contains(loc.Items, id) {
			loc.Items = append(loc.Items, id)
		}
	}
	t.infof(MsgLoot, enemy.Name, strings.Join(t.gs.World.ItemNames(enemy.Drops), ", "))
	enemy.Drops = []string{}
}

// enemyAttack is the enemy's half of a combat exchange. It only runs when
// an engaged enemy is still standing.
func (t *turn) enemyAttack() {
	enemy := t.gs.CurrentEnemy()
	if enemy == nil || enemy.IsDefeated() {
		return
	}

	t.gs.PlayerHealth = max(0, t.gs.PlayerHealth-enemy.Attack)
	t.e.logger.Debug("Enemy strikes", "game_id", t.gs.ID, "enemy", enemy.ID, "damage", enemy.Attack, "player_health", t.gs.PlayerHealth)

	t.add(state.LogEnemyTurn, t.narrate(narrative.Event{
		Kind:     narrative.KindStrike,
		Attacker: enemy.Name,
		Defender: playerName,
		Weapon:   enemy.WeaponName(),
	}))

	if t.gs.PlayerHealth == 0 {
		t.gs.IsGameOver = true
		t.add(state.LogError, MsgDeath)
	}
}

// combatSummary renders both sides' health for debug logs.
func combatSummary(gs *state.GameState) string {
	e := gs.CurrentEnemy()
	if e == nil {
		return fmt.Sprintf("player %d/%d", gs.PlayerHealth, gs.MaxPlayerHealth)
	}
	return fmt.Sprintf("player %d/%d vs %s %d/%d", gs.PlayerHealth, gs.MaxPlayerHealth, e.Name, e.Health, e.MaxHealth)
}
