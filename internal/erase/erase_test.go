package erase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkboard/internal/geom"
	"inkboard/internal/stroke"
)

// row builds the canonical test stroke: points at x ∈ {0,10,20,30,40}, y=0.
func row() stroke.Stroke {
	return stroke.Stroke{
		ID: "row",
		Points: []stroke.Point{
			{X: 0, Pressure: 1}, {X: 10, Pressure: 1}, {X: 20, Pressure: 1},
			{X: 30, Pressure: 1}, {X: 40, Pressure: 1},
		},
		Color: "#1a1a1a", Width: 2, Opacity: 1,
		Tool: stroke.ToolPenA, PageIndex: 0, Timestamp: 1,
	}
}

func xs(pts []stroke.Point) []float64 {
	out := make([]float64, len(pts))
	for i, p := range pts {
		out[i] = p.X
	}
	return out
}

func TestHitsCoveringCircleRemovesWholeStroke(t *testing.T) {
	got := Hits([]stroke.Stroke{row()}, geom.Point{X: 20}, 25, nil)
	assert.Equal(t, []string{"row"}, got)
}

func TestHitsSinglePointIsEnough(t *testing.T) {
	// only x=40 is in range
	got := Hits([]stroke.Stroke{row()}, geom.Point{X: 44}, 5, nil)
	assert.Equal(t, []string{"row"}, got)
}

func TestHitsOutOfRange(t *testing.T) {
	got := Hits([]stroke.Stroke{row()}, geom.Point{X: 100}, 5, nil)
	assert.Empty(t, got)
}

func TestHitsUsesAttachmentOffset(t *testing.T) {
	s := row()
	s.NodeID = "card"
	pos := func(id string) (geom.Point, bool) {
		if id == "card" {
			return geom.Point{X: 1000, Y: 0}, true
		}
		return geom.Point{}, false
	}

	assert.Empty(t, Hits([]stroke.Stroke{s}, geom.Point{X: 20}, 25, pos),
		"eraser at the stroke's stored coordinates misses once the element moved away")
	assert.Equal(t, []string{"row"},
		Hits([]stroke.Stroke{s}, geom.Point{X: 1020}, 25, pos))
}

func TestHitsFallsBackToFrozenOffset(t *testing.T) {
	s := row()
	s.NodeID = "gone"
	s.NodeOffset = &geom.Point{X: 500}
	none := func(string) (geom.Point, bool) { return geom.Point{}, false }

	assert.Equal(t, []string{"row"},
		Hits([]stroke.Stroke{s}, geom.Point{X: 520}, 25, none))
}

func TestClipSplitsMiddlePoint(t *testing.T) {
	s := row()
	subs, touched := Clip(&s, geom.Point{X: 20}, 5, nil)
	require.True(t, touched)
	require.Len(t, subs, 2)

	assert.Equal(t, []float64{0, 10}, xs(subs[0].Points))
	assert.Equal(t, []float64{30, 40}, xs(subs[1].Points))
	for _, sub := range subs {
		assert.Equal(t, s.Color, sub.Color)
		assert.Equal(t, s.Width, sub.Width)
		assert.Equal(t, s.Opacity, sub.Opacity)
		assert.Equal(t, s.Tool, sub.Tool)
		assert.Equal(t, s.PageIndex, sub.PageIndex)
		assert.Equal(t, s.Timestamp, sub.Timestamp)
		assert.NotEqual(t, s.ID, sub.ID)
	}
	assert.NotEqual(t, subs[0].ID, subs[1].ID)
}

func TestClipFullRemoval(t *testing.T) {
	s := row()
	subs, touched := Clip(&s, geom.Point{X: 20}, 25, nil)
	require.True(t, touched)
	assert.Empty(t, subs, "all points inside: zero surviving sub-strokes")
}

func TestClipUntouchedLeavesStrokeAlone(t *testing.T) {
	s := row()
	subs, touched := Clip(&s, geom.Point{X: 100, Y: 100}, 5, nil)
	assert.False(t, touched)
	assert.Nil(t, subs)
}

func TestClipDropsOnePointRuns(t *testing.T) {
	// circles around x=10 and x=30 leave runs {0}, {20}, {40}: none renderable
	s := row()
	subs, touched := Clip(&s, geom.Point{X: 10}, 5, nil)
	require.True(t, touched)
	require.Len(t, subs, 1)
	assert.Equal(t, []float64{20, 30, 40}, xs(subs[0].Points))

	second := subs[0]
	subs2, touched2 := Clip(&second, geom.Point{X: 30}, 5, nil)
	require.True(t, touched2)
	assert.Empty(t, subs2, "runs of one point are discarded, not kept")
}

func TestClipIdempotent(t *testing.T) {
	s := row()
	center, radius := geom.Point{X: 20}, 5.0
	subs, _ := Clip(&s, center, radius, nil)
	for i := range subs {
		again, touched := Clip(&subs[i], center, radius, nil)
		assert.False(t, touched, "re-running on an already-clipped region changes nothing")
		assert.Nil(t, again)
	}
}

func TestClipCarriesAttachment(t *testing.T) {
	s := row()
	s.NodeID = "card"
	s.NodeOffset = &geom.Point{X: 7, Y: 7}
	pos := func(string) (geom.Point, bool) { return geom.Point{X: 100}, true }

	// stroke renders at x ∈ {100..140}; clip the x=120 point
	subs, touched := Clip(&s, geom.Point{X: 120}, 5, pos)
	require.True(t, touched)
	require.Len(t, subs, 2)
	for _, sub := range subs {
		assert.Equal(t, "card", sub.NodeID)
		require.NotNil(t, sub.NodeOffset)
		assert.Equal(t, geom.Point{X: 7, Y: 7}, *sub.NodeOffset)
	}
	// points stay element-local, untouched by the offset
	assert.Equal(t, []float64{0, 10}, xs(subs[0].Points))
	assert.Equal(t, []float64{30, 40}, xs(subs[1].Points))
}
