package ui

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"inkboard/internal/store"
	"inkboard/internal/stroke"
)

// --- Custom Widget for Color Swatches ---
type colorSwatch struct {
	widget.BaseWidget
	Color    color.Color
	Hex      string
	OnTapped func(hex string)
}

func newColorSwatch(c color.NRGBA, tapped func(hex string)) *colorSwatch {
	s := &colorSwatch{
		Color:    c,
		Hex:      fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B),
		OnTapped: tapped,
	}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color)
	rect.SetMinSize(fyne.NewSize(28, 28))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Hex)
	}
}

// --- The Main Toolbar ---

// NewToolbar assembles tool selection, eraser mode, color palette, width
// slider, undo/redo, clear, page navigation and zoom controls for the board.
func NewToolbar(board *Board, repo *store.Store, pageLabel *widget.Label) fyne.CanvasObject {
	setActive := func(t stroke.ActiveTool) {
		repo.UpdateSettings(func(ts *stroke.ToolSettings) { ts.Active = t })
		board.SetMode(ModeDraw)
	}

	tools := widget.NewRadioGroup(
		[]string{"Pen A", "Pen B", "Highlighter", "Eraser", "Pan", "Move"},
		func(sel string) {
			switch sel {
			case "Pen A":
				setActive(stroke.ActivePenA)
			case "Pen B":
				setActive(stroke.ActivePenB)
			case "Highlighter":
				setActive(stroke.ActiveHighlighter)
			case "Eraser":
				setActive(stroke.ActiveEraser)
			case "Pan":
				board.SetMode(ModePan)
			case "Move":
				board.SetMode(ModeMove)
			}
		})
	tools.Horizontal = true
	tools.SetSelected("Pen A")

	eraserMode := widget.NewSelect([]string{"Whole stroke", "Area"}, func(sel string) {
		repo.UpdateSettings(func(ts *stroke.ToolSettings) {
			if sel == "Area" {
				ts.Eraser.Mode = stroke.EraseArea
			} else {
				ts.Eraser.Mode = stroke.EraseStroke
			}
		})
	})
	eraserMode.SetSelected("Whole stroke")

	// --- Color Palette ---
	onColorTapped := func(hex string) {
		repo.UpdateSettings(func(ts *stroke.ToolSettings) {
			switch ts.Active {
			case stroke.ActivePenB:
				ts.PenB.Color = hex
			case stroke.ActiveHighlighter:
				ts.Highlighter.Color = hex
			default:
				ts.PenA.Color = hex
			}
		})
	}
	colorBox := container.NewHBox(
		newColorSwatch(color.NRGBA{R: 26, G: 26, B: 26, A: 255}, onColorTapped),
		newColorSwatch(color.NRGBA{R: 211, G: 47, B: 47, A: 255}, onColorTapped),
		newColorSwatch(color.NRGBA{R: 25, G: 118, B: 210, A: 255}, onColorTapped),
		newColorSwatch(color.NRGBA{R: 56, G: 142, B: 60, A: 255}, onColorTapped),
		newColorSwatch(color.NRGBA{R: 255, G: 235, B: 59, A: 255}, onColorTapped),
	)

	// --- Width Slider ---
	widthSlider := widget.NewSlider(1, 40)
	widthSlider.SetValue(2)
	widthSlider.OnChanged = func(val float64) {
		repo.UpdateSettings(func(ts *stroke.ToolSettings) {
			switch ts.Active {
			case stroke.ActivePenB:
				ts.PenB.Width = val
			case stroke.ActiveHighlighter:
				ts.Highlighter.Width = val
			case stroke.ActiveEraser:
				ts.Eraser.Width = val
			default:
				ts.PenA.Width = val
			}
		})
	}
	sliderContainer := container.New(layout.NewGridWrapLayout(fyne.NewSize(120, 35)), widthSlider)

	undoBtn := widget.NewButton("Undo", func() {
		if repo.Undo() {
			board.Engine.Invalidate()
		}
	})
	redoBtn := widget.NewButton("Redo", func() {
		if repo.Redo() {
			board.Engine.Invalidate()
		}
	})
	clearBtn := widget.NewButton("Clear", func() {
		repo.ClearPage(board.Engine.Page())
		board.Engine.Invalidate()
	})

	setPage := func(delta int) {
		page := board.Engine.Page() + delta
		if page < 0 {
			page = 0
		}
		board.Engine.SetPage(page)
		pageLabel.SetText(fmt.Sprintf("Page %d", page+1))
	}
	prevBtn := widget.NewButton("<", func() { setPage(-1) })
	nextBtn := widget.NewButton(">", func() { setPage(+1) })

	zoomInBtn := widget.NewButton("+", func() { board.Zoom(1.25) })
	zoomOutBtn := widget.NewButton("-", func() { board.Zoom(0.8) })

	return container.NewHBox(
		tools,
		widget.NewSeparator(),
		eraserMode,
		widget.NewSeparator(),
		colorBox,
		widget.NewSeparator(),
		widget.NewLabel("Size:"),
		sliderContainer,
		widget.NewSeparator(),
		undoBtn, redoBtn, clearBtn,
		widget.NewSeparator(),
		prevBtn, pageLabel, nextBtn,
		widget.NewSeparator(),
		zoomOutBtn, zoomInBtn,
		layout.NewSpacer(),
	)
}
