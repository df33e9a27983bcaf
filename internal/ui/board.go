// Package ui is the fyne reference host for the annotation engine: a board
// widget owning the pan/zoom viewport and a set of movable demo cards the
// engine's strokes can attach to.
package ui

import (
	"image"
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"inkboard/internal/engine"
	"inkboard/internal/geom"
	"inkboard/internal/store"
	"inkboard/internal/stroke"
)

// Mode selects what pointer gestures on the board do. Draw forwards them to
// the engine; Pan moves the viewport; Move drags demo cards around.
type Mode int

const (
	ModeDraw Mode = iota
	ModePan
	ModeMove
)

// Card is a demo attachable element: a movable note card on the canvas.
type Card struct {
	ID       string
	Title    string
	Position geom.Point
	Size     geom.Size
}

// Board is the interactive canvas widget. It implements the engine's
// ViewportSource and ElementRegistry interfaces, so the engine reads the
// viewport and card positions straight from the widget that owns them.
type Board struct {
	widget.BaseWidget

	Engine *engine.Engine
	repo   *store.Store

	mu       sync.RWMutex
	vp       geom.Viewport
	cards    []*Card
	mode     Mode
	pressed  bool
	lastDrag geom.Point // last pointer position, screen space
	dragCard *Card
	dragOff  geom.Point

	committedView *canvas.Raster
	transientView *canvas.Raster
}

var (
	_ fyne.Widget            = (*Board)(nil)
	_ fyne.Draggable         = (*Board)(nil)
	_ fyne.Scrollable        = (*Board)(nil)
	_ desktop.Mouseable      = (*Board)(nil)
	_ engine.ViewportSource  = (*Board)(nil)
	_ engine.ElementRegistry = (*Board)(nil)
)

// NewBoard builds the board and its engine over the given store.
func NewBoard(repo *store.Store) *Board {
	b := &Board{
		repo: repo,
		vp:   geom.Viewport{Zoom: 1},
	}
	b.Engine = engine.New(repo, b, b)
	b.Engine.OnFrame = func() {
		fyne.Do(func() { b.Refresh() })
	}
	b.committedView = canvas.NewRaster(func(w, h int) image.Image {
		img, _ := b.Engine.Frame()
		return nonNil(img, w, h)
	})
	b.transientView = canvas.NewRaster(func(w, h int) image.Image {
		_, img := b.Engine.Frame()
		return nonNil(img, w, h)
	})
	b.ExtendBaseWidget(b)
	return b
}

func nonNil(img image.Image, w, h int) image.Image {
	if img != nil {
		return img
	}
	return image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
}

// Current implements engine.ViewportSource.
func (b *Board) Current() geom.Viewport {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.vp
}

// ToCanvas implements engine.ViewportSource.
func (b *Board) ToCanvas(screen geom.Point) geom.Point {
	return b.Current().ToCanvas(screen)
}

// FindAttachableAt implements engine.ElementRegistry with innermost-wins
// matching over the demo cards.
func (b *Board) FindAttachableAt(p geom.Point) (engine.Element, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	elems := make([]engine.Element, len(b.cards))
	for i, c := range b.cards {
		elems[i] = engine.Element{ID: c.ID, Position: c.Position, Size: c.Size}
	}
	return engine.Innermost(elems, p)
}

// PositionOf implements engine.ElementRegistry.
func (b *Board) PositionOf(id string) (geom.Point, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, c := range b.cards {
		if c.ID == id {
			return c.Position, true
		}
	}
	return geom.Point{}, false
}

// AddCard places a demo card on the canvas.
func (b *Board) AddCard(c Card) {
	b.mu.Lock()
	card := c
	if card.ID == "" {
		card.ID = stroke.NewID()
	}
	b.cards = append(b.cards, &card)
	b.mu.Unlock()
	b.Refresh()
}

// RemoveCard deletes a card; strokes attached to it fall back to their
// frozen offsets and keep rendering at the last known place.
func (b *Board) RemoveCard(id string) {
	b.mu.Lock()
	kept := b.cards[:0]
	for _, c := range b.cards {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	b.cards = kept
	b.mu.Unlock()
	b.Engine.Invalidate()
}

// SetMode switches pointer handling. An in-progress gesture is finalized so
// mode flips can never wedge the engine in capture.
func (b *Board) SetMode(m Mode) {
	b.Engine.PointerCancel()
	b.mu.Lock()
	b.mode = m
	b.pressed = false
	b.dragCard = nil
	b.mu.Unlock()
}

// Zoom scales the viewport by factor around the widget center.
func (b *Board) Zoom(factor float64) {
	size := b.Size()
	cx, cy := float64(size.Width)/2, float64(size.Height)/2

	b.mu.Lock()
	z := b.vp.Zoom * factor
	if z < 0.1 {
		z = 0.1
	} else if z > 8 {
		z = 8
	}
	factor = z / b.vp.Zoom
	// keep the screen center fixed
	b.vp.X = cx - (cx-b.vp.X)*factor
	b.vp.Y = cy - (cy-b.vp.Y)*factor
	b.vp.Zoom = z
	b.mu.Unlock()
	b.Engine.Invalidate()
}

func toPoint(p fyne.Position) geom.Point {
	return geom.Point{X: float64(p.X), Y: float64(p.Y)}
}

func (b *Board) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	screen := toPoint(e.Position)

	b.mu.Lock()
	b.pressed = true
	b.lastDrag = screen
	mode := b.mode
	b.mu.Unlock()

	switch mode {
	case ModeDraw:
		b.Engine.PointerDown(screen, 1)
	case ModeMove:
		b.grabCard(screen)
	}
}

func (b *Board) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	screen := toPoint(e.Position)

	b.mu.Lock()
	wasPressed := b.pressed
	b.pressed = false
	mode := b.mode
	b.dragCard = nil
	b.mu.Unlock()

	if wasPressed && mode == ModeDraw {
		b.Engine.PointerUp(screen, 1)
	}
}

func (b *Board) Dragged(e *fyne.DragEvent) {
	screen := toPoint(e.Position)

	b.mu.Lock()
	if !b.pressed {
		// drag events can arrive without a tracked press (touch); treat
		// the first as a press in the current mode
		b.pressed = true
		b.lastDrag = screen
		mode := b.mode
		b.mu.Unlock()
		if mode == ModeDraw {
			b.Engine.PointerDown(screen, 1)
		} else if mode == ModeMove {
			b.grabCard(screen)
		}
		return
	}
	mode := b.mode
	b.lastDrag = screen
	b.mu.Unlock()

	switch mode {
	case ModeDraw:
		b.Engine.PointerMove(screen, 1)
	case ModePan:
		b.mu.Lock()
		b.vp.X += float64(e.Dragged.DX)
		b.vp.Y += float64(e.Dragged.DY)
		b.mu.Unlock()
		b.Engine.Invalidate()
	case ModeMove:
		b.dragCardTo(screen)
	}
}

func (b *Board) DragEnd() {
	b.mu.Lock()
	wasPressed := b.pressed
	last := b.lastDrag
	mode := b.mode
	b.pressed = false
	b.dragCard = nil
	b.mu.Unlock()

	if wasPressed && mode == ModeDraw {
		b.Engine.PointerUp(last, 1)
	}
}

// Scrolled pans the viewport, like the primary surface of any infinite
// canvas host.
func (b *Board) Scrolled(e *fyne.ScrollEvent) {
	b.mu.Lock()
	b.vp.X += float64(e.Scrolled.DX)
	b.vp.Y += float64(e.Scrolled.DY)
	b.mu.Unlock()
	b.Engine.Invalidate()
}

func (b *Board) grabCard(screen geom.Point) {
	p := b.ToCanvas(screen)
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.cards) - 1; i >= 0; i-- {
		c := b.cards[i]
		if (geom.Rect{Min: c.Position, Size: c.Size}).Contains(p) {
			b.dragCard = c
			b.dragOff = p.Sub(c.Position)
			return
		}
	}
}

func (b *Board) dragCardTo(screen geom.Point) {
	p := b.ToCanvas(screen)
	b.mu.Lock()
	c := b.dragCard
	if c != nil {
		c.Position = p.Sub(b.dragOff)
	}
	b.mu.Unlock()
	if c != nil {
		// attached strokes follow via the change detector; invalidate for
		// snappier feedback than the next poll tick
		b.Engine.Invalidate()
	}
}

func (b *Board) CreateRenderer() fyne.WidgetRenderer {
	r := &boardRenderer{board: b}
	r.background = canvas.NewRectangle(color.NRGBA{R: 245, G: 246, B: 248, A: 255})
	return r
}

type boardRenderer struct {
	board      *Board
	background *canvas.Rectangle
}

func (r *boardRenderer) Objects() []fyne.CanvasObject {
	b := r.board
	vp := b.Current()

	objects := []fyne.CanvasObject{r.background}

	b.mu.RLock()
	cards := make([]*Card, len(b.cards))
	copy(cards, b.cards)
	b.mu.RUnlock()

	for _, c := range cards {
		origin := vp.ToScreen(c.Position)
		rect := canvas.NewRectangle(color.White)
		rect.StrokeColor = color.NRGBA{R: 160, G: 160, B: 170, A: 255}
		rect.StrokeWidth = 1
		rect.Move(fyne.NewPos(float32(origin.X), float32(origin.Y)))
		rect.Resize(fyne.NewSize(float32(c.Size.Width*vp.Zoom), float32(c.Size.Height*vp.Zoom)))
		objects = append(objects, rect)

		title := canvas.NewText(c.Title, color.NRGBA{R: 90, G: 90, B: 100, A: 255})
		title.TextSize = float32(12 * vp.Zoom)
		title.Move(fyne.NewPos(float32(origin.X+4*vp.Zoom), float32(origin.Y+2*vp.Zoom)))
		objects = append(objects, title)
	}

	// annotation layers sit above the cards
	objects = append(objects, b.committedView, b.transientView)
	return objects
}

func (r *boardRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
	r.board.committedView.Resize(size)
	r.board.transientView.Resize(size)
	r.board.Engine.Resize(int(size.Width), int(size.Height))
}

func (r *boardRenderer) MinSize() fyne.Size { return fyne.NewSize(300, 300) }

func (r *boardRenderer) Refresh() { canvas.Refresh(r.board) }

// Destroy tears the engine down so its polling loop and resize timer never
// outlive the widget.
func (r *boardRenderer) Destroy() { r.board.Engine.Stop() }
