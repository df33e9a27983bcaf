package engine

import (
	"inkboard/internal/geom"
	"inkboard/internal/stroke"
)

// gesture is the input-capture state machine: Idle until a pen gesture
// starts, Capturing while samples arrive, and back to Idle on finalize or
// discard. Eraser gestures never enter Capturing; they erase per sample.
type gesture struct {
	active bool
	tool   stroke.Tool
	points []stroke.Point
	dirty  bool // transient surface needs a repaint
}

func (g *gesture) begin(tool stroke.Tool, p stroke.Point) {
	g.active = true
	g.tool = tool
	g.points = g.points[:0]
	g.points = append(g.points, p)
	g.dirty = true
}

func (g *gesture) add(p stroke.Point) {
	if !g.active {
		return
	}
	g.points = append(g.points, p)
	g.dirty = true
}

// take ends the gesture and hands back the captured samples.
func (g *gesture) take() (stroke.Tool, []stroke.Point, bool) {
	if !g.active {
		return "", nil, false
	}
	tool := g.tool
	pts := append([]stroke.Point(nil), g.points...)
	g.active = false
	g.points = g.points[:0]
	g.dirty = true
	return tool, pts, true
}

// preview builds the in-progress stroke for the transient layer.
func (g *gesture) preview(ts stroke.ToolSettings) (stroke.Stroke, bool) {
	if !g.active || len(g.points) < 2 {
		return stroke.Stroke{}, false
	}
	color, width, opacity := ts.StyleFor(g.tool)
	return stroke.Stroke{
		Points:  g.points,
		Color:   color,
		Width:   width,
		Opacity: opacity,
		Tool:    g.tool,
	}, true
}

func sampleAt(canvas geom.Point, pressure float64) stroke.Point {
	if pressure <= 0 {
		pressure = 1
	} else if pressure > 1 {
		pressure = 1
	}
	return stroke.Point{X: canvas.X, Y: canvas.Y, Pressure: pressure}
}

// PointerDown starts a gesture. For pen and highlighter tools the engine
// enters Capturing with this first sample; for the eraser it performs an
// immediate one-shot erase and stays Idle.
func (e *Engine) PointerDown(screen geom.Point, pressure float64) {
	canvas := e.vp.ToCanvas(screen)
	ts := e.repo.Settings()

	if ts.Active == stroke.ActiveEraser {
		e.mu.Lock()
		e.erasing = true
		e.mu.Unlock()
		e.eraseAt(canvas, ts.Eraser)
		return
	}

	tool := stroke.Tool(ts.Active)
	if !tool.Valid() {
		tool = stroke.ToolPenA
	}
	e.mu.Lock()
	e.gesture.begin(tool, sampleAt(canvas, pressure))
	e.mu.Unlock()
	e.maybeFlush()
}

// PointerMove feeds one pointer sample while the device is pressed. While
// Capturing it appends to the candidate stroke and marks the transient layer
// dirty; a held eraser re-evaluates at every sample.
func (e *Engine) PointerMove(screen geom.Point, pressure float64) {
	canvas := e.vp.ToCanvas(screen)

	e.mu.Lock()
	if e.erasing {
		e.mu.Unlock()
		e.eraseAt(canvas, e.repo.Settings().Eraser)
		return
	}
	e.gesture.add(sampleAt(canvas, pressure))
	e.mu.Unlock()
	e.maybeFlush()
}

// PointerUp ends the gesture: a candidate with at least two points is
// committed, anything shorter is discarded. A tap that never moved stays a
// single point, so the release sample is only captured when the pointer
// actually travelled.
func (e *Engine) PointerUp(screen geom.Point, pressure float64) {
	canvas := e.vp.ToCanvas(screen)

	e.mu.Lock()
	if e.gesture.active {
		n := len(e.gesture.points)
		last := e.gesture.points[n-1]
		if last.X != canvas.X || last.Y != canvas.Y {
			e.gesture.add(sampleAt(canvas, pressure))
		}
	}
	e.mu.Unlock()
	e.finalizeGesture()
}

// PointerCancel handles loss of input capture mid-gesture (device
// disconnect, host grabbing the pointer). The points captured so far are
// finalized under the same two-point rule, never leaving the engine stuck
// in Capturing.
func (e *Engine) PointerCancel() {
	e.finalizeGesture()
}

func (e *Engine) finalizeGesture() {
	e.mu.Lock()
	e.erasing = false
	tool, pts, active := e.gesture.take()
	page := e.page
	e.mu.Unlock()
	if !active {
		return
	}

	committed := false
	if len(pts) >= 2 {
		e.commit(tool, pts, page)
		committed = true
	} else {
		Logger().Debug("gesture discarded", "points", len(pts))
	}

	e.mu.Lock()
	e.transient.Clear()
	e.gesture.dirty = false
	e.mu.Unlock()

	if committed {
		e.repaintCommitted()
	}
	e.notify()
}

// commit resolves attachment and adds the finished stroke to the repository.
func (e *Engine) commit(tool stroke.Tool, pts []stroke.Point, page int) {
	ts := e.repo.Settings()
	color, width, opacity := ts.StyleFor(tool)

	nodeID, nodeOffset, pts := resolveAttachment(pts, e.reg)
	s := stroke.Stroke{
		ID:         stroke.NewID(),
		Points:     pts,
		Color:      color,
		Width:      width,
		Opacity:    opacity,
		Tool:       tool,
		PageIndex:  page,
		Timestamp:  stroke.Now(),
		NodeID:     nodeID,
		NodeOffset: nodeOffset,
	}
	e.repo.Add(s)
	Logger().Debug("stroke committed",
		"id", s.ID, "tool", tool, "points", len(pts), "node", nodeID)
}
