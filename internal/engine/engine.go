// Package engine is the freehand annotation engine: it captures pointer
// gestures into strokes, resolves element attachment, dispatches both erase
// modes, and keeps a committed plus a transient raster layer in sync with
// the host's viewport through a polling change detector.
//
// The engine owns nothing external: the stroke repository, the viewport and
// the attachable elements are all injected.
package engine

import (
	"image"
	"sync"
	"time"

	"inkboard/internal/geom"
	"inkboard/internal/render"
	"inkboard/internal/store"
)

// ViewportSource exposes the externally owned pan/zoom state. The engine
// only reads it.
type ViewportSource interface {
	Current() geom.Viewport
	// ToCanvas maps a screen point into canvas space. Most hosts derive
	// it from Current; it is separate so a host may snap or clamp.
	ToCanvas(screen geom.Point) geom.Point
}

// ViewportFunc adapts a plain viewport accessor into a ViewportSource with
// the standard inverse transform.
type ViewportFunc func() geom.Viewport

func (f ViewportFunc) Current() geom.Viewport { return f() }

func (f ViewportFunc) ToCanvas(screen geom.Point) geom.Point { return f().ToCanvas(screen) }

// Element is a host UI element strokes can attach to. The engine never
// mutates elements.
type Element struct {
	ID       string
	Position geom.Point
	Size     geom.Size
}

// Bounds returns the element's axis-aligned canvas-space bounds.
func (e Element) Bounds() geom.Rect {
	return geom.Rect{Min: e.Position, Size: e.Size}
}

// ElementRegistry resolves attachable elements. FindAttachableAt returns the
// element whose bounds contain the canvas point, or false; when several
// overlap, implementations should return the innermost (see Innermost).
// PositionOf returns an element's current position, or false if it no longer
// exists.
type ElementRegistry interface {
	FindAttachableAt(canvas geom.Point) (Element, bool)
	PositionOf(id string) (geom.Point, bool)
}

// Option configures an Engine.
type Option func(*Engine)

// WithSurfaceFactory replaces the software raster backend with another
// Surface implementation.
func WithSurfaceFactory(f func(w, h int) render.Surface) Option {
	return func(e *Engine) { e.newSurface = f }
}

// WithTickInterval sets the change-detector polling period. Zero disables
// polling entirely; the host then drives repaints through Invalidate.
func WithTickInterval(d time.Duration) Option {
	return func(e *Engine) { e.tickEvery = d }
}

// WithResizeDebounce sets how long resize bursts are coalesced before the
// surfaces are rebuilt and repainted.
func WithResizeDebounce(d time.Duration) Option {
	return func(e *Engine) { e.resizeAfter = d }
}

// Engine ties the capture, erase, render and change-detection pieces
// together for one annotation canvas.
type Engine struct {
	repo store.Repository
	vp   ViewportSource
	reg  ElementRegistry

	mu        sync.Mutex
	page      int
	gesture   gesture
	erasing   bool // eraser gesture in progress (pointer held)
	committed render.Surface
	transient render.Surface

	newSurface  func(w, h int) render.Surface
	tickEvery   time.Duration
	resizeAfter time.Duration

	watch       *watcher
	resizeTimer *time.Timer
	pendingW    int
	pendingH    int

	// OnFrame, when set, is called after any surface repaint so the host
	// can refresh its display. It may be called from the polling
	// goroutine; fyne's canvas refresh tolerates that.
	OnFrame func()
}

// New builds an engine over the given repository, viewport and element
// registry. Call Resize before drawing and Start to begin change polling.
func New(repo store.Repository, vp ViewportSource, reg ElementRegistry, opts ...Option) *Engine {
	e := &Engine{
		repo:        repo,
		vp:          vp,
		reg:         reg,
		newSurface:  func(w, h int) render.Surface { return render.NewRaster(w, h) },
		tickEvery:   time.Second / 60,
		resizeAfter: 80 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.committed = e.newSurface(1, 1)
	e.transient = e.newSurface(1, 1)
	e.watch = newWatcher(e.tickEvery, e.fingerprint, e.step)
	return e
}

// Start launches the change-detector loop. It is a no-op when polling is
// disabled.
func (e *Engine) Start() {
	e.watch.start()
	Logger().Debug("engine started", "tick", e.tickEvery)
}

// Stop cancels the change-detector loop and any pending resize timer. It is
// safe to call more than once and must be called on teardown so no timers
// leak across the session.
func (e *Engine) Stop() {
	e.watch.stop()
	e.mu.Lock()
	if e.resizeTimer != nil {
		e.resizeTimer.Stop()
		e.resizeTimer = nil
	}
	e.mu.Unlock()
	Logger().Debug("engine stopped")
}

// Page returns the active page index.
func (e *Engine) Page() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.page
}

// SetPage switches the active page. An in-progress gesture is finalized
// first so the engine can never carry capture state across pages.
func (e *Engine) SetPage(page int) {
	e.finalizeGesture()
	e.mu.Lock()
	e.page = page
	e.mu.Unlock()
	e.Invalidate()
}

// Resize schedules the surfaces to be rebuilt at the new pixel size. Bursts
// of resize notifications are coalesced; only the last size within the
// debounce window takes effect.
func (e *Engine) Resize(w, h int) {
	e.mu.Lock()
	e.pendingW, e.pendingH = w, h
	if e.resizeAfter <= 0 {
		e.mu.Unlock()
		e.applyResize()
		return
	}
	if e.resizeTimer == nil {
		e.resizeTimer = time.AfterFunc(e.resizeAfter, e.applyResize)
	} else {
		e.resizeTimer.Reset(e.resizeAfter)
	}
	e.mu.Unlock()
}

func (e *Engine) applyResize() {
	e.mu.Lock()
	w, h := e.pendingW, e.pendingH
	e.committed = e.newSurface(w, h)
	e.transient = e.newSurface(w, h)
	e.mu.Unlock()
	e.Invalidate()
}

// Invalidate repaints the committed layer immediately. Hosts that receive
// push notifications for viewport or element movement call this instead of
// waiting for the polling loop; it also forces the next poll to re-baseline.
func (e *Engine) Invalidate() {
	e.repaintCommitted()
	e.flushTransient()
	e.watch.rebase(e.fingerprint())
	e.notify()
}

// maybeFlush repaints the transient layer right away when no polling loop is
// running to coalesce it; per-sample repaint is then the host's choice.
func (e *Engine) maybeFlush() {
	if e.tickEvery > 0 {
		return
	}
	if e.flushTransient() {
		e.notify()
	}
}

// Frame returns the committed and transient images for display, or nil for
// surfaces that are not image-backed. The images are snapshots: the polling
// goroutine keeps repainting the live buffers, so handing those out would
// race with the host's render thread.
func (e *Engine) Frame() (committed, transient image.Image) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return snapshot(e.committed), snapshot(e.transient)
}

func snapshot(s render.Surface) image.Image {
	im, ok := s.(interface{ Image() image.Image })
	if !ok {
		return nil
	}
	src, ok := im.Image().(*image.RGBA)
	if !ok {
		return im.Image()
	}
	dst := image.NewRGBA(src.Rect)
	copy(dst.Pix, src.Pix)
	return dst
}

// step is one change-detector tick: repaint the committed layer if the
// fingerprint moved, and flush a pending transient repaint.
func (e *Engine) step(changed bool) {
	if changed {
		e.repaintCommitted()
	}
	flushed := e.flushTransient()
	if changed || flushed {
		e.notify()
	}
}

func (e *Engine) repaintCommitted() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.committed.Clear()
	render.Draw(e.committed, e.repo.StrokesForPage(e.page), e.vp.Current(), e.reg.PositionOf)
}

// flushTransient redraws the in-progress stroke at most once per tick. It
// reports whether anything was drawn.
func (e *Engine) flushTransient() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.gesture.dirty {
		return false
	}
	e.gesture.dirty = false
	e.transient.Clear()
	if s, ok := e.gesture.preview(e.repo.Settings()); ok {
		render.DrawStroke(e.transient, &s, e.vp.Current(), e.reg.PositionOf)
	}
	return true
}

func (e *Engine) notify() {
	if e.OnFrame != nil {
		e.OnFrame()
	}
}

// fingerprint hashes the viewport and the current positions of every element
// referenced by an attached stroke on the active page. The polling loop
// repaints only when it changes.
func (e *Engine) fingerprint() uint64 {
	e.mu.Lock()
	page := e.page
	e.mu.Unlock()
	return fingerprint(e.vp.Current(), e.repo.AttachedNodeIDs(page), e.reg.PositionOf)
}
