package world

import "fmt"

// OpenResult describes the outcome of opening a container.
type OpenResult struct {
	Item        *Item
	AlreadyOpen bool
	Released    []string // item ids moved to the location, in container order
}

// OpenContainer opens a container and moves everything it holds into the
// given location. A container is emptied exactly once: opening it again
// changes nothing and reports AlreadyOpen.
func (w *World) OpenContainer(itemID, locationID string) (OpenResult, error) {
	item, ok := w.Items[itemID]
	if !ok {
		return OpenResult{}, fmt.Errorf("%w: item %q", ErrUnknownEntity, itemID)
	}
	loc, ok := w.Locations[locationID]
	if !ok {
		return OpenResult{}, fmt.Errorf("%w: location %q", ErrUnknownEntity, locationID)
	}
	if !item.IsContainer {
		return OpenResult{Item: item}, ErrNotContainer
	}
	if item.IsOpen {
		return OpenResult{Item: item, AlreadyOpen: true}, nil
	}

	item.IsOpen = true
	released := append([]string(nil), item.Contains...)
	for _, id := range released {
		MoveItem(id, &item.Contains, &loc.Items)
	}
	item.Contains = []string{}
	return OpenResult{Item: item, Released: released}, nil
}
