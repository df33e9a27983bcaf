package engine

import (
	"inkboard/internal/geom"
	"inkboard/internal/stroke"
)

// Innermost picks the element with the smallest bounding area among those
// whose bounds contain p. Registry implementations delegate to it so a large
// background element cannot swallow attachment of a nested one.
func Innermost(elems []Element, p geom.Point) (Element, bool) {
	var best Element
	found := false
	for _, el := range elems {
		if !el.Bounds().Contains(p) {
			continue
		}
		if !found || el.Bounds().Area() < best.Bounds().Area() {
			best = el
			found = true
		}
	}
	return best, found
}

// resolveAttachment decides, at commit time, whether the stroke rides along
// with an element. The stroke's first captured point is tested against the
// attachable elements; on a match every point is rewritten relative to the
// element's position and that position is frozen as the fallback offset.
// Without a match the points stay in canvas space.
func resolveAttachment(pts []stroke.Point, reg ElementRegistry) (nodeID string, nodeOffset *geom.Point, out []stroke.Point) {
	if reg == nil || len(pts) == 0 {
		return "", nil, pts
	}
	el, ok := reg.FindAttachableAt(geom.Point{X: pts[0].X, Y: pts[0].Y})
	if !ok {
		return "", nil, pts
	}
	pos := el.Position
	out = make([]stroke.Point, len(pts))
	for i, p := range pts {
		out[i] = stroke.Point{X: p.X - pos.X, Y: p.Y - pos.Y, Pressure: p.Pressure}
	}
	return el.ID, &geom.Point{X: pos.X, Y: pos.Y}, out
}
