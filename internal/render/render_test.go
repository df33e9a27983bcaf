package render

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkboard/internal/geom"
	"inkboard/internal/stroke"
)

// opLog records surface calls so path construction can be asserted exactly.
type opLog struct {
	styles []Style
	ops    []string
}

func (l *opLog) Clear()        { l.ops = append(l.ops, "clear") }
func (l *opLog) Begin(s Style) { l.styles = append(l.styles, s); l.ops = append(l.ops, "begin") }
func (l *opLog) MoveTo(p geom.Point) {
	l.ops = append(l.ops, fmt.Sprintf("move %g,%g", p.X, p.Y))
}
func (l *opLog) LineTo(p geom.Point) {
	l.ops = append(l.ops, fmt.Sprintf("line %g,%g", p.X, p.Y))
}
func (l *opLog) QuadTo(c, e geom.Point) {
	l.ops = append(l.ops, fmt.Sprintf("quad %g,%g %g,%g", c.X, c.Y, e.X, e.Y))
}
func (l *opLog) Stroke() { l.ops = append(l.ops, "stroke") }

func pen(id string, pts ...stroke.Point) stroke.Stroke {
	return stroke.Stroke{
		ID: id, Points: pts, Color: "#102030", Width: 2, Opacity: 1,
		Tool: stroke.ToolPenA, Timestamp: 1,
	}
}

func pt(x, y float64) stroke.Point { return stroke.Point{X: x, Y: y, Pressure: 1} }

func TestTwoPointStrokeIsStraightSegment(t *testing.T) {
	var log opLog
	s := pen("s", pt(0, 0), pt(10, 0))
	Draw(&log, []stroke.Stroke{s}, geom.Viewport{Zoom: 1}, nil)

	assert.Equal(t, []string{"begin", "move 0,0", "line 10,0", "stroke"}, log.ops)
}

func TestMidpointSmoothing(t *testing.T) {
	var log opLog
	s := pen("s", pt(0, 0), pt(10, 0), pt(20, 10), pt(30, 10))
	Draw(&log, []stroke.Stroke{s}, geom.Viewport{Zoom: 1}, nil)

	assert.Equal(t, []string{
		"begin",
		"move 0,0",
		"quad 10,0 15,5",   // ctrl = p1, end = mid(p1,p2)
		"quad 20,10 25,10", // ctrl = p2, end = mid(p2,p3)
		"line 30,10",
		"stroke",
	}, log.ops)
}

func TestViewportTransformAndWidthScaling(t *testing.T) {
	var log opLog
	s := pen("s", pt(10, 10), pt(20, 10))
	s.Width = 3
	Draw(&log, []stroke.Stroke{s}, geom.Viewport{X: 100, Y: 50, Zoom: 2}, nil)

	require.Len(t, log.styles, 1)
	assert.Equal(t, 6.0, log.styles[0].Width, "width scales with zoom")
	assert.Equal(t, []string{"begin", "move 120,70", "line 140,70", "stroke"}, log.ops)
}

func TestAttachedStrokeFollowsElement(t *testing.T) {
	s := pen("s", pt(1, 2), pt(3, 4))
	s.NodeID = "card"
	s.NodeOffset = &geom.Point{X: 10, Y: 20}

	at := func(p geom.Point) func(string) (geom.Point, bool) {
		return func(string) (geom.Point, bool) { return p, true }
	}

	var before opLog
	Draw(&before, []stroke.Stroke{s}, geom.Viewport{Zoom: 1}, at(geom.Point{X: 10, Y: 20}))
	assert.Equal(t, []string{"begin", "move 11,22", "line 13,24", "stroke"}, before.ops)

	var after opLog
	Draw(&after, []stroke.Stroke{s}, geom.Viewport{Zoom: 1}, at(geom.Point{X: 50, Y: 20}))
	assert.Equal(t, []string{"begin", "move 51,22", "line 53,24", "stroke"}, after.ops,
		"moving the element from (10,20) to (50,20) shifts the render by exactly (40,0)")
}

func TestOrphanedAttachmentUsesFrozenOffset(t *testing.T) {
	s := pen("s", pt(0, 0), pt(5, 0))
	s.NodeID = "deleted"
	s.NodeOffset = &geom.Point{X: 300, Y: 400}
	gone := func(string) (geom.Point, bool) { return geom.Point{}, false }

	var log opLog
	Draw(&log, []stroke.Stroke{s}, geom.Viewport{Zoom: 1}, gone)
	assert.Equal(t, []string{"begin", "move 300,400", "line 305,400", "stroke"}, log.ops)
}

func TestShortStrokeSkipped(t *testing.T) {
	var log opLog
	Draw(&log, []stroke.Stroke{pen("s", pt(0, 0))}, geom.Viewport{Zoom: 1}, nil)
	assert.Empty(t, log.ops)
}

func TestHighlighterStyle(t *testing.T) {
	var log opLog
	s := stroke.Stroke{
		ID: "h", Points: []stroke.Point{pt(0, 0), pt(10, 0)},
		Color: "#ffeb3b", Width: 14, Opacity: 0.45,
		Tool: stroke.ToolHighlighter, Timestamp: 1,
	}
	Draw(&log, []stroke.Stroke{s}, geom.Viewport{Zoom: 1}, nil)

	require.Len(t, log.styles, 1)
	assert.True(t, log.styles[0].Multiply)
	assert.Equal(t, 0.45, log.styles[0].Opacity)

	var p opLog
	Draw(&p, []stroke.Stroke{pen("p", pt(0, 0), pt(1, 1))}, geom.Viewport{Zoom: 1}, nil)
	assert.False(t, p.styles[0].Multiply, "pens composite normally")
}
