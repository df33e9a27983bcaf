package render

import (
	"inkboard/internal/geom"
	"inkboard/internal/stroke"
)

// Draw paints the given strokes onto dst under the viewport transform.
// positionOf resolves the current position of attached elements; it may be
// nil when no stroke is attached.
//
// Strokes with fewer than two points are skipped. Line width is scaled by
// the zoom so strokes keep constant logical thickness.
func Draw(dst Surface, strokes []stroke.Stroke, vp geom.Viewport, positionOf func(string) (geom.Point, bool)) {
	for i := range strokes {
		DrawStroke(dst, &strokes[i], vp, positionOf)
	}
}

// DrawStroke paints a single stroke. Interior points become quadratic curves
// whose control point is the sample itself and whose endpoint is the midpoint
// to the next sample, which smooths polyline kinks without extra stored
// geometry; a two-point stroke is a plain segment.
func DrawStroke(dst Surface, s *stroke.Stroke, vp geom.Viewport, positionOf func(string) (geom.Point, bool)) {
	if !s.Renderable() {
		return
	}
	off := s.Offset(positionOf)
	at := func(p stroke.Point) geom.Point {
		return vp.ToScreen(geom.Point{X: p.X + off.X, Y: p.Y + off.Y})
	}

	dst.Begin(Style{
		Color:    s.Color,
		Width:    vp.ScaleWidth(s.Width),
		Opacity:  s.Opacity,
		Multiply: s.Tool == stroke.ToolHighlighter,
	})

	pts := s.Points
	dst.MoveTo(at(pts[0]))
	if len(pts) == 2 {
		dst.LineTo(at(pts[1]))
	} else {
		for i := 1; i <= len(pts)-2; i++ {
			ctrl := at(pts[i])
			next := at(pts[i+1])
			mid := geom.Point{X: (ctrl.X + next.X) / 2, Y: (ctrl.Y + next.Y) / 2}
			dst.QuadTo(ctrl, mid)
		}
		dst.LineTo(at(pts[len(pts)-1]))
	}
	dst.Stroke()
}
