// Package stroke defines the persisted annotation data model: points,
// strokes, tools and per-tool settings.
package stroke

import (
	"time"

	"github.com/google/uuid"

	"inkboard/internal/geom"
)

// Tool identifies which drawing tool produced a stroke.
type Tool string

const (
	ToolPenA        Tool = "pen-a"
	ToolPenB        Tool = "pen-b"
	ToolHighlighter Tool = "highlighter"
)

// Valid reports whether t is one of the known drawing tools.
func (t Tool) Valid() bool {
	switch t {
	case ToolPenA, ToolPenB, ToolHighlighter:
		return true
	}
	return false
}

// Point is a single input sample in a stroke. Coordinates are canvas-space,
// or element-local once the stroke is attached to an element. Pressure is a
// scalar weight in [0,1]; devices without pressure report 1.
type Point struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Pressure float64 `json:"pressure"`
}

// Stroke is one committed freehand gesture. A stroke is immutable once
// committed: erasing replaces it with zero or more new strokes rather than
// editing the point list in place.
//
// NodeID is a weak reference to the attachable element the stroke was drawn
// over; when set, Points are stored relative to that element's origin and
// NodeOffset freezes the element position at attach time as a render
// fallback for when the element no longer exists.
type Stroke struct {
	ID         string      `json:"id"`
	Points     []Point     `json:"points"`
	Color      string      `json:"color"`
	Width      float64     `json:"width"`
	Opacity    float64     `json:"opacity"`
	Tool       Tool        `json:"tool"`
	PageIndex  int         `json:"pageIndex"`
	Timestamp  int64       `json:"timestamp"`
	NodeID     string      `json:"nodeId,omitempty"`
	NodeOffset *geom.Point `json:"nodeOffset,omitempty"`
}

// NewID returns a fresh stroke id.
func NewID() string { return uuid.NewString() }

// Now returns the current time as an epoch-millisecond stroke timestamp.
func Now() int64 { return time.Now().UnixMilli() }

// Renderable reports whether the stroke has enough points to draw. Strokes
// with fewer than two points are never persisted or rendered.
func (s *Stroke) Renderable() bool { return len(s.Points) >= 2 }

// Derive returns a copy of s carrying a fresh id and the given point run,
// preserving all style metadata and the attachment. Used by area erasing to
// synthesize the surviving sub-strokes.
func (s *Stroke) Derive(points []Point) Stroke {
	d := *s
	d.ID = NewID()
	d.Points = points
	if s.NodeOffset != nil {
		off := *s.NodeOffset
		d.NodeOffset = &off
	}
	return d
}

// Offset resolves the canvas-space translation this stroke's points need
// before rendering or hit-testing. Unattached strokes need none. Attached
// strokes use the element's current position; if the element no longer
// exists, the frozen NodeOffset keeps the stroke at its last known place.
func (s *Stroke) Offset(positionOf func(id string) (geom.Point, bool)) geom.Point {
	if s.NodeID == "" {
		return geom.Point{}
	}
	if positionOf != nil {
		if p, ok := positionOf(s.NodeID); ok {
			return p
		}
	}
	if s.NodeOffset != nil {
		return *s.NodeOffset
	}
	return geom.Point{}
}

// EraseMode selects between the two erase semantics.
type EraseMode string

const (
	// EraseStroke removes a whole stroke when any point is in range.
	EraseStroke EraseMode = "stroke"
	// EraseArea geometrically clips strokes against the eraser circle,
	// possibly splitting one stroke into several.
	EraseArea EraseMode = "area"
)

// PenSettings configures one of the two pens.
type PenSettings struct {
	Color string  `json:"color"`
	Width float64 `json:"width"`
}

// HighlighterSettings configures the highlighter.
type HighlighterSettings struct {
	Color   string  `json:"color"`
	Width   float64 `json:"width"`
	Opacity float64 `json:"opacity"`
}

// EraserSettings configures the eraser.
type EraserSettings struct {
	Width float64   `json:"width"`
	Mode  EraseMode `json:"mode"`
}

// ActiveTool is the tool the next gesture will use. It extends Tool with the
// eraser, which never produces strokes of its own.
type ActiveTool string

const (
	ActivePenA        = ActiveTool(ToolPenA)
	ActivePenB        = ActiveTool(ToolPenB)
	ActiveHighlighter = ActiveTool(ToolHighlighter)
	ActiveEraser      ActiveTool = "eraser"
)

// ToolSettings is the per-tool configuration. It is owned and mutated by the
// host's toolbar; the engine only reads it.
type ToolSettings struct {
	PenA        PenSettings         `json:"penA"`
	PenB        PenSettings         `json:"penB"`
	Highlighter HighlighterSettings `json:"highlighter"`
	Eraser      EraserSettings      `json:"eraser"`
	Active      ActiveTool          `json:"active"`
}

// DefaultSettings returns the settings a fresh session starts with.
func DefaultSettings() ToolSettings {
	return ToolSettings{
		PenA:        PenSettings{Color: "#1a1a1a", Width: 2},
		PenB:        PenSettings{Color: "#d32f2f", Width: 3},
		Highlighter: HighlighterSettings{Color: "#ffeb3b", Width: 14, Opacity: 0.45},
		Eraser:      EraserSettings{Width: 20, Mode: EraseStroke},
		Active:      ActivePenA,
	}
}

// StyleFor returns the color, width and opacity a stroke drawn with the
// given tool should carry. Pens always composite at full opacity.
func (ts *ToolSettings) StyleFor(t Tool) (color string, width, opacity float64) {
	switch t {
	case ToolPenB:
		return ts.PenB.Color, ts.PenB.Width, 1
	case ToolHighlighter:
		return ts.Highlighter.Color, ts.Highlighter.Width, ts.Highlighter.Opacity
	default:
		return ts.PenA.Color, ts.PenA.Width, 1
	}
}
