package engine

import (
	"inkboard/internal/erase"
	"inkboard/internal/geom"
	"inkboard/internal/stroke"
)

// eraseAt evaluates one eraser sample at a canvas point, using the
// configured mode. Stroke mode removes every stroke with a point in range;
// area mode clips each touched stroke, replacing it with its surviving runs.
func (e *Engine) eraseAt(canvas geom.Point, es stroke.EraserSettings) {
	radius := es.Width / 2
	if radius <= 0 {
		return
	}
	e.mu.Lock()
	page := e.page
	e.mu.Unlock()
	strokes := e.repo.StrokesForPage(page)

	changed := false
	switch es.Mode {
	case stroke.EraseArea:
		for i := range strokes {
			subs, touched := erase.Clip(&strokes[i], canvas, radius, e.reg.PositionOf)
			if !touched {
				continue
			}
			e.repo.Replace(strokes[i].ID, subs)
			changed = true
			Logger().Debug("stroke clipped", "id", strokes[i].ID, "survivors", len(subs))
		}
	default:
		ids := erase.Hits(strokes, canvas, radius, e.reg.PositionOf)
		if len(ids) > 0 {
			e.repo.RemoveByIDs(ids)
			changed = true
			Logger().Debug("strokes erased", "count", len(ids))
		}
	}

	if changed {
		e.repaintCommitted()
		e.notify()
	}
}
