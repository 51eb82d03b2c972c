package world

import (
	"slices"
	"strings"

	"github.com/jwebster45206/wasteland-engine/pkg/textfilter"
)

// FindEntityByName returns the first candidate whose normalized display name
// contains the normalized target. nameOf resolves an id to its display name;
// ids it cannot resolve are skipped.
func FindEntityByName(candidates []string, target string, nameOf func(id string) (string, bool)) (string, bool) {
	for _, id := range candidates {
		name, ok := nameOf(id)
		if !ok {
			continue
		}
		if textfilter.Matches(name, target) {
			return id, true
		}
	}
	return "", false
}

// FindItem looks up an item among the given ids by fuzzy name.
func (w *World) FindItem(candidates []string, target string) (string, bool) {
	return FindEntityByName(candidates, target, func(id string) (string, bool) {
		it, ok := w.Items[id]
		if !ok {
			return "", false
		}
		return it.Name, true
	})
}

// FindEnemy looks up an enemy among the given ids by fuzzy name.
func (w *World) FindEnemy(candidates []string, target string) (string, bool) {
	return FindEntityByName(candidates, target, func(id string) (string, bool) {
		e, ok := w.Enemies[id]
		if !ok {
			return "", false
		}
		return e.Name, true
	})
}

// MatchExit returns the first exit (in keyword order) whose keyword contains
// the normalized target.
func (w *World) MatchExit(loc *Location, target string) (keyword, destination string, ok bool) {
	t := textfilter.Normalize(target)
	if strings.TrimSpace(t) == "" {
		return "", "", false
	}
	for _, k := range loc.ExitKeywords() {
		if strings.Contains(textfilter.Normalize(k), t) {
			return k, loc.Exits[k], true
		}
	}
	return "", "", false
}

// MoveItem removes itemID from *from and appends it to *to.
// It is a no-op returning false when the id is not in the source list.
func MoveItem(itemID string, from, to *[]string) bool {
	i := slices.Index(*from, itemID)
	if i < 0 {
		return false
	}
	*from = slices.Delete(*from, i, i+1)
	if !slices.Contains(*to, itemID) {
		*to = append(*to, itemID)
	}
	return true
}
