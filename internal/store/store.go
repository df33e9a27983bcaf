// Package store owns the authoritative stroke list and tool settings, and
// keeps the undo/redo log for every mutation.
package store

import (
	"sync"

	"inkboard/internal/stroke"
)

// Repository is the engine's contract with stroke storage. The demo host
// uses the in-memory Store below, but any implementation satisfying this
// interface can back the engine.
type Repository interface {
	// Add appends a committed stroke.
	Add(s stroke.Stroke)
	// RemoveByIDs removes every stroke whose id is in ids, as one
	// undoable operation.
	RemoveByIDs(ids []string)
	// Replace removes the stroke with oldID and inserts subs in its
	// place, as one undoable operation. Used by area erasing.
	Replace(oldID string, subs []stroke.Stroke)
	// ClearPage removes every stroke on the given page.
	ClearPage(page int)
	// Undo reverts the most recent mutation. It reports whether there
	// was anything to undo.
	Undo() bool
	// Redo re-applies the most recently undone mutation.
	Redo() bool

	// Strokes returns a copy of the full stroke list.
	Strokes() []stroke.Stroke
	// StrokesForPage returns a copy of the strokes on one page.
	StrokesForPage(page int) []stroke.Stroke
	// AttachedNodeIDs returns the element ids referenced by attached
	// strokes on one page, deduplicated in first-reference order. The
	// change detector polls this every tick, so implementations should
	// keep it cheap relative to copying strokes.
	AttachedNodeIDs(page int) []string
	// Settings returns the current tool settings.
	Settings() stroke.ToolSettings
}

// Store is the in-memory Repository.
type Store struct {
	mu       sync.RWMutex
	strokes  []stroke.Stroke
	settings stroke.ToolSettings
	history  history
}

var _ Repository = (*Store)(nil)

// New returns an empty store with default tool settings.
func New() *Store {
	return &Store{settings: stroke.DefaultSettings()}
}

func (st *Store) Add(s stroke.Stroke) {
	if !s.Renderable() {
		return
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	st.record(change{added: []indexed{{idx: len(st.strokes), s: s}}})
}

func (st *Store) RemoveByIDs(ids []string) {
	if len(ids) == 0 {
		return
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	var removed []indexed
	for i, s := range st.strokes {
		if want[s.ID] {
			removed = append(removed, indexed{idx: i, s: s})
		}
	}
	if len(removed) == 0 {
		return
	}
	st.record(change{removed: removed})
}

func (st *Store) Replace(oldID string, subs []stroke.Stroke) {
	st.mu.Lock()
	defer st.mu.Unlock()
	at := -1
	var old stroke.Stroke
	for i, s := range st.strokes {
		if s.ID == oldID {
			at, old = i, s
			break
		}
	}
	if at < 0 {
		return
	}
	c := change{removed: []indexed{{idx: at, s: old}}}
	for i, s := range subs {
		c.added = append(c.added, indexed{idx: at + i, s: s})
	}
	st.record(c)
}

func (st *Store) ClearPage(page int) {
	st.mu.Lock()
	defer st.mu.Unlock()
	var removed []indexed
	for i, s := range st.strokes {
		if s.PageIndex == page {
			removed = append(removed, indexed{idx: i, s: s})
		}
	}
	if len(removed) == 0 {
		return
	}
	st.record(change{removed: removed})
}

// Load replaces the whole stroke list with a restored snapshot and resets
// the undo/redo log; a load is the start of a new editing session, not an
// undoable edit.
func (st *Store) Load(strokes []stroke.Stroke) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.strokes = append([]stroke.Stroke(nil), strokes...)
	st.history = history{}
}

func (st *Store) Undo() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	c, ok := st.history.popUndo()
	if !ok {
		return false
	}
	st.strokes = c.revert(st.strokes)
	return true
}

func (st *Store) Redo() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	c, ok := st.history.popRedo()
	if !ok {
		return false
	}
	st.strokes = c.apply(st.strokes)
	return true
}

// CanUndo reports whether the undo stack is non-empty.
func (st *Store) CanUndo() bool {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.history.undo) > 0
}

// CanRedo reports whether the redo stack is non-empty.
func (st *Store) CanRedo() bool {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.history.redo) > 0
}

func (st *Store) Strokes() []stroke.Stroke {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return append([]stroke.Stroke(nil), st.strokes...)
}

func (st *Store) StrokesForPage(page int) []stroke.Stroke {
	st.mu.RLock()
	defer st.mu.RUnlock()
	out := make([]stroke.Stroke, 0, len(st.strokes))
	for _, s := range st.strokes {
		if s.PageIndex == page {
			out = append(out, s)
		}
	}
	return out
}

func (st *Store) AttachedNodeIDs(page int) []string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	var ids []string
	var seen map[string]bool
	for _, s := range st.strokes {
		if s.PageIndex != page || s.NodeID == "" || seen[s.NodeID] {
			continue
		}
		if seen == nil {
			seen = make(map[string]bool)
		}
		seen[s.NodeID] = true
		ids = append(ids, s.NodeID)
	}
	return ids
}

func (st *Store) Settings() stroke.ToolSettings {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.settings
}

// UpdateSettings mutates the tool settings. Only the host's toolbar calls
// this; the engine treats settings as read-only.
func (st *Store) UpdateSettings(fn func(*stroke.ToolSettings)) {
	st.mu.Lock()
	defer st.mu.Unlock()
	fn(&st.settings)
}

// record applies c forward and pushes it onto the undo log. Caller holds mu.
func (st *Store) record(c change) {
	st.strokes = c.apply(st.strokes)
	st.history.push(c)
}
