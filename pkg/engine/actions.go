package engine

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/jwebster45206/wasteland-engine/pkg/narrative"
	"github.com/jwebster45206/wasteland-engine/pkg/state"
	"github.com/jwebster45206/wasteland-engine/pkg/world"
)

func (t *turn) errorf(format string, args ...any) {
	t.add(state.LogError, fmt.Sprintf(format, args...))
}

func (t *turn) infof(format string, args ...any) {
	t.add(state.LogInfo, fmt.Sprintf(format, args...))
}

func (t *turn) locationEvent(loc *world.Location) narrative.Event {
	w := t.gs.World
	ev := narrative.Event{
		Kind:        narrative.KindLocation,
		Name:        loc.Name,
		Description: loc.BaseDescription,
		Items:       w.ItemNames(loc.Items),
		Exits:       loc.ExitKeywords(),
	}
	for _, e := range w.LivingEnemies(loc) {
		ev.Enemies = append(ev.Enemies, e.Name)
	}
	return ev
}

// enterLocation describes the current location and engages the first
// aggressive enemy standing in it.
func (t *turn) enterLocation() {
	loc := t.gs.CurrentLocation()
	if loc == nil {
		return
	}
	t.add(state.LogSystem, t.narrate(t.locationEvent(loc)))

	for _, e := range t.gs.World.LivingEnemies(loc) {
		if !e.IsAggressive {
			continue
		}
		t.gs.CurrentEnemyID = e.ID
		text := e.DescriptionOnEnter
		if text == "" {
			text = fmt.Sprintf(MsgEnemyAppears, e.Name)
		}
		t.add(state.LogEnemyTurn, text)
		return
	}
}

func (t *turn) doGoto(target string) {
	if t.gs.InCombat() {
		t.add(state.LogError, MsgCannotFlee)
		return
	}
	if target == "" {
		t.add(state.LogError, MsgWhereTo)
		return
	}
	_, dest, ok := t.gs.World.MatchExit(t.gs.CurrentLocation(), target)
	if !ok {
		t.add(state.LogError, MsgNoExit)
		return
	}
	if _, exists := t.gs.World.Locations[dest]; !exists {
		t.e.logger.Warn("Exit leads to an undefined location", "game_id", t.gs.ID, "destination", dest)
		t.add(state.LogError, MsgNoExit)
		return
	}
	t.gs.CurrentLocationID = dest
	t.enterLocation()
}

func (t *turn) doExamine(target string) {
	loc := t.gs.CurrentLocation()
	if target == "" || target == surroundingsKeyword {
		t.add(state.LogSystem, t.narrate(t.locationEvent(loc)))
		return
	}

	w := t.gs.World
	itemID, ok := w.FindItem(loc.Items, target)
	if !ok {
		itemID, ok = w.FindItem(t.gs.Inventory, target)
	}
	if ok {
		it := w.Items[itemID]
		t.add(state.LogSystem, t.narrate(narrative.Event{
			Kind:        narrative.KindItem,
			Name:        it.Name,
			Description: it.BaseDescription,
			IsContainer: it.IsContainer,
			IsOpen:      it.IsOpen,
			Contents:    w.ItemNames(it.Contains),
		}))
		return
	}

	var living []string
	for _, e := range w.LivingEnemies(loc) {
		living = append(living, e.ID)
	}
	if enemyID, ok := w.FindEnemy(living, target); ok {
		t.add(state.LogSystem, fmt.Sprintf(MsgEnemyExamined, w.Enemies[enemyID].Description))
		return
	}
	t.errorf(MsgNotSeen, target)
}

func (t *turn) doTake(target string) {
	if t.gs.InCombat() {
		t.add(state.LogError, MsgTooRisky)
		t.combat = true
		return
	}
	if target == "" {
		t.add(state.LogError, MsgWhatTake)
		return
	}
	loc := t.gs.CurrentLocation()
	itemID, ok := t.gs.World.FindItem(loc.Items, target)
	if !ok {
		t.add(state.LogError, MsgCannotTake)
		return
	}
	it := t.gs.World.Items[itemID]
	if it.IsContainer && !it.IsOpen {
		t.add(state.LogError, MsgOpenItFirst)
		return
	}
	world.MoveItem(itemID, &loc.Items, &t.gs.Inventory)
	t.infof(MsgTaken, it.Name)
}

func (t *turn) doOpen(target string) {
	if target == "" {
		t.add(state.LogError, MsgWhatOpen)
		return
	}
	w := t.gs.World
	itemID, ok := w.FindItem(t.gs.Inventory, target)
	if !ok {
		itemID, ok = w.FindItem(t.gs.CurrentLocation().Items, target)
	}
	if !ok {
		t.errorf(MsgNothingOpen, target)
		return
	}

	res, err := w.OpenContainer(itemID, t.gs.CurrentLocationID)
	switch {
	case errors.Is(err, world.ErrNotContainer):
		t.add(state.LogError, MsgCannotOpen)
	case err != nil:
		t.e.logger.Error("Failed to open container", "game_id", t.gs.ID, "item", itemID, "error", err)
		t.add(state.LogError, MsgCannotOpen)
	case res.AlreadyOpen:
		t.infof(MsgAlreadyOpen, res.Item.Name)
	case len(res.Released) > 0:
		t.infof(MsgOpened, res.Item.Name, strings.Join(w.ItemNames(res.Released), ", "))
	default:
		t.infof(MsgOpenedEmpty, res.Item.Name)
	}
}

func (t *turn) doUse(target string) {
	if target == "" {
		t.add(state.LogError, MsgWhatUse)
		return
	}
	itemID, ok := t.gs.World.FindItem(t.gs.Inventory, target)
	if !ok {
		t.errorf(MsgNotCarried, target)
		return
	}
	it := t.gs.World.Items[itemID]
	heals := it.Heals()
	if heals <= 0 {
		t.errorf(MsgCannotUse, it.Name)
		return
	}

	t.gs.PlayerHealth = min(t.gs.MaxPlayerHealth, t.gs.PlayerHealth+heals)
	t.gs.Inventory = slices.DeleteFunc(t.gs.Inventory, func(id string) bool { return id == itemID })
	if t.gs.EquippedWeapon == itemID {
		t.gs.EquippedWeapon = ""
	}
	t.infof(MsgHealed, it.Name)
	if t.gs.InCombat() {
		t.combat = true
	}
}

func (t *turn) doEquip(target string) {
	if target == "" {
		t.add(state.LogError, MsgWhatEquip)
		return
	}
	itemID, ok := t.gs.World.FindItem(t.gs.Inventory, target)
	if !ok {
		t.errorf(MsgNotCarried, target)
		return
	}
	it := t.gs.World.Items[itemID]
	if !it.Equipable {
		t.errorf(MsgCannotEquip, it.Name)
		return
	}
	t.gs.EquippedWeapon = itemID
	t.infof(MsgEquipped, it.Name)
	if t.gs.InCombat() {
		t.combat = true
	}
}

func (t *turn) doAttack() {
	enemy := t.gs.CurrentEnemy()
	if enemy == nil || enemy.IsDefeated() {
		t.gs.CurrentEnemyID = ""
		t.add(state.LogError, MsgNothingToHit)
		return
	}
	t.playerAttack(enemy)
	t.combat = true
}

func (t *turn) doInventory() {
	if len(t.gs.Inventory) == 0 {
		t.add(state.LogSystem, MsgEmptyInventory)
		return
	}
	lines := make([]string, 0, len(t.gs.Inventory))
	for _, id := range t.gs.Inventory {
		it, ok := t.gs.World.Items[id]
		if !ok {
			continue
		}
		line := "- " + it.Name
		if t.gs.EquippedWeapon == id {
			line += MsgEquippedTag
		}
		lines = append(lines, line)
	}
	t.add(state.LogSystem, fmt.Sprintf(MsgInventory, strings.Join(lines, "\n")))
}
