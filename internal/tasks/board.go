package tasks

import "slices"

// Board is the drag-and-drop state of a matching task: a tray of loose items and a row of
// single-occupancy drop targets.
//
// Placement is never cached elsewhere; callers read it from the board when they need it.
type Board struct {
	items     []string
	targets   []string
	tray      []string
	slots     map[string]string // target -> item
	highlight map[string]bool
	dragging  string
}

var _ MatchInput = (*Board)(nil)

// NewBoard creates a board with every item in the tray.
func NewBoard(items, targets []string) *Board {
	return &Board{
		items:     slices.Clone(items),
		targets:   slices.Clone(targets),
		tray:      slices.Clone(items),
		slots:     make(map[string]string, len(targets)),
		highlight: make(map[string]bool, len(targets)),
	}
}

// Items returns every item in its original order.
func (b *Board) Items() []string { return slices.Clone(b.items) }

// Targets returns every drop target in display order.
func (b *Board) Targets() []string { return slices.Clone(b.targets) }

// Tray returns the items currently in the tray, in tray order.
func (b *Board) Tray() []string { return slices.Clone(b.tray) }

// Occupant returns the item placed on target.
func (b *Board) Occupant(target string) (string, bool) {
	item, ok := b.slots[target]
	return item, ok
}

// Dragging returns the item picked up by [Board.DragStart].
func (b *Board) Dragging() (string, bool) {
	return b.dragging, b.dragging != ""
}

// DragStart picks up item. Unknown items are ignored.
func (b *Board) DragStart(item string) bool {
	if !slices.Contains(b.items, item) {
		return false
	}
	b.dragging = item
	return true
}

// DragEnd releases the dragged item without dropping it.
func (b *Board) DragEnd() {
	b.dragging = ""
}

// DragEnter highlights target.
func (b *Board) DragEnter(target string) {
	if slices.Contains(b.targets, target) {
		b.highlight[target] = true
	}
}

// DragLeave removes the highlight from target.
func (b *Board) DragLeave(target string) {
	delete(b.highlight, target)
}

// Highlighted reports whether target is under a drag.
func (b *Board) Highlighted(target string) bool {
	return b.highlight[target]
}

// Drop places the dragged item on target. The highlight on target is cleared whether or not the drop succeeds.
func (b *Board) Drop(target string) bool {
	b.DragLeave(target)
	item := b.dragging
	b.dragging = ""
	if item == "" {
		return false
	}
	return b.Place(item, target)
}

// Place moves item onto target. An item already on target is evicted to the tray first.
// Moving an item between targets vacates the old target.
func (b *Board) Place(item, target string) bool {
	if !slices.Contains(b.items, item) || !slices.Contains(b.targets, target) {
		return false
	}

	if current, ok := b.slots[target]; ok {
		if current == item {
			return true
		}
		delete(b.slots, target)
		b.tray = append(b.tray, current)
	}

	b.detach(item)
	b.slots[target] = item
	return true
}

// Placements reads item→target for every occupied target.
func (b *Board) Placements() map[string]string {
	out := make(map[string]string, len(b.slots))
	for target, item := range b.slots {
		out[item] = target
	}
	return out
}

// ReturnAll moves placed items back to the tray in target order and clears every target and highlight.
func (b *Board) ReturnAll() {
	for _, target := range b.targets {
		if item, ok := b.slots[target]; ok {
			b.tray = append(b.tray, item)
		}
	}
	clear(b.slots)
	clear(b.highlight)
	b.dragging = ""
}

// detach removes item from wherever it currently sits.
func (b *Board) detach(item string) {
	if i := slices.Index(b.tray, item); i >= 0 {
		b.tray = slices.Delete(b.tray, i, i+1)
		return
	}
	for target, placed := range b.slots {
		if placed == item {
			delete(b.slots, target)
			return
		}
	}
}
