package world

import (
	"maps"
	"slices"
)

// Clone returns a deep copy of the world. Nothing in the copy aliases the
// original, so a game can mutate its world freely.
func (w *World) Clone() *World {
	if w == nil {
		return nil
	}
	c := &World{
		ID:              w.ID,
		Title:           w.Title,
		Intro:           w.Intro,
		Start:           w.Start,
		PlayerMaxHealth: w.PlayerMaxHealth,
		Locations:       make(map[string]*Location, len(w.Locations)),
		Items:           make(map[string]*Item, len(w.Items)),
		Enemies:         make(map[string]*Enemy, len(w.Enemies)),
	}
	for id, loc := range w.Locations {
		l := *loc
		l.Exits = maps.Clone(loc.Exits)
		l.Items = cloneIDs(loc.Items)
		l.Enemies = slices.Clone(loc.Enemies)
		c.Locations[id] = &l
	}
	for id, it := range w.Items {
		i := *it
		i.Contains = slices.Clone(it.Contains)
		if it.UseEffects != nil {
			fx := *it.UseEffects
			i.UseEffects = &fx
		}
		c.Items[id] = &i
	}
	for id, e := range w.Enemies {
		en := *e
		en.Drops = slices.Clone(e.Drops)
		c.Enemies[id] = &en
	}
	return c
}

// cloneIDs copies an id list, keeping an empty list non-nil so it
// serializes as [] instead of null.
func cloneIDs(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return slices.Clone(ids)
}
