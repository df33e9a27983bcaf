package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkboard/internal/stroke"
)

func mk(id string, page int, xs ...float64) stroke.Stroke {
	pts := make([]stroke.Point, len(xs))
	for i, x := range xs {
		pts[i] = stroke.Point{X: x, Pressure: 1}
	}
	return stroke.Stroke{
		ID: id, Points: pts, Color: "#000000", Width: 2, Opacity: 1,
		Tool: stroke.ToolPenA, PageIndex: page, Timestamp: 1,
	}
}

func ids(strokes []stroke.Stroke) []string {
	out := make([]string, len(strokes))
	for i, s := range strokes {
		out[i] = s.ID
	}
	return out
}

func TestAddUndoRedo(t *testing.T) {
	st := New()
	s := mk("a", 0, 0, 10)

	st.Add(s)
	require.Len(t, st.Strokes(), 1)

	require.True(t, st.Undo())
	assert.Empty(t, st.Strokes(), "undo of add restores the pre-add state")

	require.True(t, st.Redo())
	got := st.Strokes()
	require.Len(t, got, 1)
	assert.Equal(t, s, got[0], "redo re-adds with identical id and contents")
}

func TestAddRejectsShortStroke(t *testing.T) {
	st := New()
	st.Add(mk("one-point", 0, 5))
	assert.Empty(t, st.Strokes())
	assert.False(t, st.CanUndo())
}

func TestRemoveByIDsUndoRestoresOrder(t *testing.T) {
	st := New()
	st.Add(mk("a", 0, 0, 1))
	st.Add(mk("b", 0, 0, 1))
	st.Add(mk("c", 0, 0, 1))

	st.RemoveByIDs([]string{"a", "c"})
	assert.Equal(t, []string{"b"}, ids(st.Strokes()))

	require.True(t, st.Undo())
	assert.Equal(t, []string{"a", "b", "c"}, ids(st.Strokes()))
}

func TestRemoveUnknownIDsIsNoop(t *testing.T) {
	st := New()
	st.Add(mk("a", 0, 0, 1))
	st.RemoveByIDs([]string{"nope"})
	assert.Len(t, st.Strokes(), 1)

	// a no-op must not pollute the undo stack
	require.True(t, st.Undo())
	assert.Empty(t, st.Strokes())
}

func TestReplaceInPlace(t *testing.T) {
	st := New()
	st.Add(mk("a", 0, 0, 1))
	st.Add(mk("b", 0, 0, 1))
	st.Add(mk("c", 0, 0, 1))

	st.Replace("b", []stroke.Stroke{mk("b1", 0, 0, 1), mk("b2", 0, 0, 1)})
	assert.Equal(t, []string{"a", "b1", "b2", "c"}, ids(st.Strokes()))

	require.True(t, st.Undo())
	assert.Equal(t, []string{"a", "b", "c"}, ids(st.Strokes()))

	require.True(t, st.Redo())
	assert.Equal(t, []string{"a", "b1", "b2", "c"}, ids(st.Strokes()))
}

func TestReplaceWithNothingDeletes(t *testing.T) {
	st := New()
	st.Add(mk("a", 0, 0, 1))
	st.Replace("a", nil)
	assert.Empty(t, st.Strokes())
	require.True(t, st.Undo())
	assert.Equal(t, []string{"a"}, ids(st.Strokes()))
}

func TestClearPageScopedToPage(t *testing.T) {
	st := New()
	st.Add(mk("p0", 0, 0, 1))
	st.Add(mk("p1", 1, 0, 1))
	st.Add(mk("p0b", 0, 0, 1))

	st.ClearPage(0)
	assert.Equal(t, []string{"p1"}, ids(st.Strokes()))
	assert.Empty(t, st.StrokesForPage(0))

	require.True(t, st.Undo())
	assert.Equal(t, []string{"p0", "p1", "p0b"}, ids(st.Strokes()))
}

func TestNewMutationClearsRedo(t *testing.T) {
	st := New()
	st.Add(mk("a", 0, 0, 1))
	require.True(t, st.Undo())
	require.True(t, st.CanRedo())

	st.Add(mk("b", 0, 0, 1))
	assert.False(t, st.CanRedo())
	assert.False(t, st.Redo())
	assert.Equal(t, []string{"b"}, ids(st.Strokes()))
}

func TestUndoRedoEmptyStacks(t *testing.T) {
	st := New()
	assert.False(t, st.Undo())
	assert.False(t, st.Redo())
}

func TestLoadResetsHistory(t *testing.T) {
	st := New()
	st.Add(mk("a", 0, 0, 1))
	st.Load([]stroke.Stroke{mk("x", 2, 0, 1)})

	assert.Equal(t, []string{"x"}, ids(st.Strokes()))
	assert.False(t, st.CanUndo())
	assert.Equal(t, []string{"x"}, ids(st.StrokesForPage(2)))
}

func TestAttachedNodeIDs(t *testing.T) {
	st := New()
	st.Add(mk("plain", 0, 0, 1))

	a := mk("a", 0, 0, 1)
	a.NodeID = "card-1"
	b := mk("b", 0, 0, 1)
	b.NodeID = "card-2"
	c := mk("c", 0, 0, 1)
	c.NodeID = "card-1"
	other := mk("other", 1, 0, 1)
	other.NodeID = "card-3"
	for _, s := range []stroke.Stroke{a, b, c, other} {
		st.Add(s)
	}

	assert.Equal(t, []string{"card-1", "card-2"}, st.AttachedNodeIDs(0),
		"deduplicated, first-reference order, scoped to the page")
	assert.Equal(t, []string{"card-3"}, st.AttachedNodeIDs(1))
	assert.Empty(t, st.AttachedNodeIDs(5))
}

func TestSettingsRoundTrip(t *testing.T) {
	st := New()
	assert.Equal(t, stroke.DefaultSettings(), st.Settings())

	st.UpdateSettings(func(ts *stroke.ToolSettings) {
		ts.Active = stroke.ActiveEraser
		ts.Eraser.Mode = stroke.EraseArea
	})
	got := st.Settings()
	assert.Equal(t, stroke.ActiveEraser, got.Active)
	assert.Equal(t, stroke.EraseArea, got.Eraser.Mode)
}
