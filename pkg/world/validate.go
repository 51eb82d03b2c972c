package world

import (
	"errors"
	"fmt"
	"sort"
)

// Validate checks the referential integrity of a world template: the start
// location exists, every exit leads somewhere, every referenced item and
// enemy is defined, health values are in range and no item id is placed in
// more than one list.
func (w *World) Validate() error {
	var errs []error
	if w.Start == "" {
		errs = append(errs, errors.New("start location is required"))
	} else if _, ok := w.Locations[w.Start]; !ok {
		errs = append(errs, fmt.Errorf("start location %q not defined", w.Start))
	}
	if w.PlayerMaxHealth < 0 {
		errs = append(errs, fmt.Errorf("player_max_health must not be negative, got %d", w.PlayerMaxHealth))
	}

	// placed tracks where each item id lives, to detect duplicates
	placed := make(map[string]string)
	place := func(itemID, where string) {
		if _, ok := w.Items[itemID]; !ok {
			errs = append(errs, fmt.Errorf("%s references undefined item %q", where, itemID))
			return
		}
		if prev, dup := placed[itemID]; dup {
			errs = append(errs, fmt.Errorf("item %q placed in both %s and %s", itemID, prev, where))
			return
		}
		placed[itemID] = where
	}

	for _, id := range sortedKeys(w.Locations) {
		loc := w.Locations[id]
		if loc.ID != id {
			errs = append(errs, fmt.Errorf("location key %q has id %q", id, loc.ID))
		}
		for _, dir := range loc.ExitKeywords() {
			if _, ok := w.Locations[loc.Exits[dir]]; !ok {
				errs = append(errs, fmt.Errorf("location %q exit %q leads to undefined location %q", id, dir, loc.Exits[dir]))
			}
		}
		for _, itemID := range loc.Items {
			place(itemID, "location "+id)
		}
		for _, enemyID := range loc.Enemies {
			if _, ok := w.Enemies[enemyID]; !ok {
				errs = append(errs, fmt.Errorf("location %q references undefined enemy %q", id, enemyID))
			}
		}
	}

	for _, id := range sortedKeys(w.Items) {
		it := w.Items[id]
		if it.ID != id {
			errs = append(errs, fmt.Errorf("item key %q has id %q", id, it.ID))
		}
		if len(it.Contains) > 0 && !it.IsContainer {
			errs = append(errs, fmt.Errorf("item %q holds items but is not a container", id))
		}
		for _, inner := range it.Contains {
			if inner == id {
				errs = append(errs, fmt.Errorf("container %q contains itself", id))
				continue
			}
			place(inner, "container "+id)
		}
		if it.Heals() < 0 {
			errs = append(errs, fmt.Errorf("item %q heals a negative amount", id))
		}
		if it.Damage < 0 {
			errs = append(errs, fmt.Errorf("item %q has negative damage", id))
		}
	}

	for _, id := range sortedKeys(w.Enemies) {
		e := w.Enemies[id]
		if e.ID != id {
			errs = append(errs, fmt.Errorf("enemy key %q has id %q", id, e.ID))
		}
		if e.MaxHealth <= 0 {
			errs = append(errs, fmt.Errorf("enemy %q max_health must be positive", id))
		}
		if e.Health < 0 || e.Health > e.MaxHealth {
			errs = append(errs, fmt.Errorf("enemy %q health %d outside [0, %d]", id, e.Health, e.MaxHealth))
		}
		if e.Attack < 0 {
			errs = append(errs, fmt.Errorf("enemy %q has negative attack", id))
		}
		for _, drop := range e.Drops {
			place(drop, "drops of "+id)
		}
	}

	return errors.Join(errs...)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
