// Package erase implements the two erase semantics: whole-stroke removal by
// proximity, and geometric area clipping that can split a stroke.
package erase

import (
	"inkboard/internal/geom"
	"inkboard/internal/stroke"
)

// Hits returns the ids of every stroke with at least one point (after
// applying its attachment offset) within radius of center. Those strokes are
// removed in their entirety by the stroke-erase mode.
func Hits(strokes []stroke.Stroke, center geom.Point, radius float64, positionOf func(string) (geom.Point, bool)) []string {
	var hit []string
	for i := range strokes {
		s := &strokes[i]
		off := s.Offset(positionOf)
		for _, p := range s.Points {
			if (geom.Point{X: p.X + off.X, Y: p.Y + off.Y}).Dist(center) <= radius {
				hit = append(hit, s.ID)
				break
			}
		}
	}
	return hit
}

// Clip clips one stroke against the eraser circle. Points inside the circle
// are cut out; each maximal run of surviving points with length >= 2 becomes
// a new stroke carrying the original's style and attachment. Runs shorter
// than two points cannot form a renderable segment and are discarded.
//
// The returned flag reports whether the circle touched the stroke at all;
// when false the stroke must be left as-is, which also makes repeated
// clipping against the same region a no-op. Zero surviving sub-strokes is a
// normal outcome meaning full deletion.
func Clip(s *stroke.Stroke, center geom.Point, radius float64, positionOf func(string) (geom.Point, bool)) ([]stroke.Stroke, bool) {
	off := s.Offset(positionOf)
	r2 := radius * radius

	inside := func(p stroke.Point) bool {
		dx := p.X + off.X - center.X
		dy := p.Y + off.Y - center.Y
		return dx*dx+dy*dy <= r2
	}

	touched := false
	var subs []stroke.Stroke
	run := make([]stroke.Point, 0, len(s.Points))
	flush := func() {
		if len(run) >= 2 {
			subs = append(subs, s.Derive(append([]stroke.Point(nil), run...)))
		}
		run = run[:0]
	}
	for _, p := range s.Points {
		if inside(p) {
			touched = true
			flush()
			continue
		}
		run = append(run, p)
	}
	flush()

	if !touched {
		return nil, false
	}
	return subs, true
}
