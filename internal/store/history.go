package store

import (
	"sort"

	"inkboard/internal/stroke"
)

// indexed is a stroke together with the list position it occupied (or was
// inserted at) when the operation ran, so undo can restore exact order.
type indexed struct {
	idx int
	s   stroke.Stroke
}

// change is one repository mutation, expressed symmetrically: apply removes
// `removed` and inserts `added`; revert does the opposite. Every mutating
// operation (add, remove-set, replace, clear-page) reduces to one change.
type change struct {
	removed []indexed
	added   []indexed
}

func (c change) apply(list []stroke.Stroke) []stroke.Stroke {
	return insert(remove(list, c.removed), c.added)
}

func (c change) revert(list []stroke.Stroke) []stroke.Stroke {
	return insert(remove(list, c.added), c.removed)
}

func remove(list []stroke.Stroke, items []indexed) []stroke.Stroke {
	if len(items) == 0 {
		return list
	}
	drop := make(map[string]bool, len(items))
	for _, it := range items {
		drop[it.s.ID] = true
	}
	out := list[:0]
	for _, s := range list {
		if !drop[s.ID] {
			out = append(out, s)
		}
	}
	return out
}

func insert(list []stroke.Stroke, items []indexed) []stroke.Stroke {
	if len(items) == 0 {
		return list
	}
	// Ascending by original index keeps restored strokes in their old
	// relative order; indices are clamped because later operations may
	// have shrunk the list.
	sorted := append([]indexed(nil), items...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].idx < sorted[j].idx })
	for _, it := range sorted {
		at := it.idx
		if at > len(list) {
			at = len(list)
		}
		list = append(list, stroke.Stroke{})
		copy(list[at+1:], list[at:])
		list[at] = it.s
	}
	return list
}

// history holds the per-session undo and redo stacks. New changes clear the
// redo stack; both stacks are unbounded.
type history struct {
	undo []change
	redo []change
}

func (h *history) push(c change) {
	h.undo = append(h.undo, c)
	h.redo = h.redo[:0]
}

func (h *history) popUndo() (change, bool) {
	if len(h.undo) == 0 {
		return change{}, false
	}
	c := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, c)
	return c, true
}

func (h *history) popRedo() (change, bool) {
	if len(h.redo) == 0 {
		return change{}, false
	}
	c := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, c)
	return c, true
}
