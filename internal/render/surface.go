// Package render paints strokes for one page onto a 2D surface, applying
// the viewport transform and each stroke's attachment offset.
package render

import "inkboard/internal/geom"

// Style is the paint state for a single stroke. Width is already in screen
// pixels (viewport-scaled). Multiply selects multiplicative compositing, used
// by highlighter strokes; pens composite normally.
type Style struct {
	Color    string // hex, e.g. "#1a2b3c"
	Width    float64
	Opacity  float64
	Multiply bool
}

// Surface is the minimal immediate-mode contract the renderer draws
// through. Any 2D raster backend can implement it; the raster type in this
// package is the software implementation the demo host uses.
type Surface interface {
	// Clear resets the surface to fully transparent.
	Clear()
	// Begin starts a stroke with the given paint state.
	Begin(style Style)
	// MoveTo starts the stroke's path at p (screen space).
	MoveTo(p geom.Point)
	// LineTo extends the path with a straight segment.
	LineTo(p geom.Point)
	// QuadTo extends the path with a quadratic curve through ctrl to end.
	QuadTo(ctrl, end geom.Point)
	// Stroke rasterizes the accumulated path and ends the stroke.
	Stroke()
}
