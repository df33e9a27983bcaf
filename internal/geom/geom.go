// Package geom holds the coordinate types and space transforms shared by the
// annotation engine.
//
// Three coordinate spaces exist:
//
//   - screen space: device pixels of the visible viewport
//   - canvas space: the infinite logical drawing surface, pan/zoom independent
//   - element-local space: relative to an attachable element's top-left corner
//
// A point in element-local space is translated by the element's current
// position into canvas space before any viewport transform is applied.
package geom

import "math"

// Point is a 2D coordinate. Which space it lives in is determined by context.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p translated by -q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Size is a width/height pair.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	Min  Point
	Size Size
}

// Contains reports whether p falls within the rectangle, edges inclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Min.X+r.Size.Width &&
		p.Y >= r.Min.Y && p.Y <= r.Min.Y+r.Size.Height
}

// Area returns the rectangle's area.
func (r Rect) Area() float64 { return r.Size.Width * r.Size.Height }

// Viewport is the externally owned pan/zoom state. X and Y are the screen
// offset of the canvas origin; Zoom is the uniform scale factor. The engine
// only ever reads it.
type Viewport struct {
	X    float64
	Y    float64
	Zoom float64
}

// ToScreen maps a canvas-space point into screen space.
func (v Viewport) ToScreen(p Point) Point {
	return Point{p.X*v.Zoom + v.X, p.Y*v.Zoom + v.Y}
}

// ToCanvas maps a screen-space point into canvas space. A zero Zoom is
// treated as 1 so a malformed host viewport degrades instead of producing
// infinities.
func (v Viewport) ToCanvas(s Point) Point {
	z := v.Zoom
	if z == 0 {
		z = 1
	}
	return Point{(s.X - v.X) / z, (s.Y - v.Y) / z}
}

// ScaleWidth converts a logical stroke width into the screen-space width for
// this zoom level, so strokes keep constant logical thickness.
func (v Viewport) ScaleWidth(w float64) float64 { return w * v.Zoom }
