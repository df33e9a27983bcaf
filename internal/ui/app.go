package ui

import (
	"fmt"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"inkboard/internal/export"
	"inkboard/internal/geom"
	"inkboard/internal/store"
	"inkboard/internal/stroke"
)

// RunApp builds the demo host window around the board and blocks until the
// window closes.
func RunApp(repo *store.Store) {
	myApp := app.New()
	myWindow := myApp.NewWindow("Inkboard")
	myWindow.Resize(fyne.NewSize(1100, 768))

	board := NewBoard(repo)
	board.AddCard(Card{Title: "Note", Position: geom.Point{X: 120, Y: 120}, Size: geom.Size{Width: 220, Height: 140}})
	board.AddCard(Card{Title: "Summary", Position: geom.Point{X: 420, Y: 260}, Size: geom.Size{Width: 260, Height: 180}})

	status := widget.NewLabel("Ready")
	pageLabel := widget.NewLabel("Page 1")
	toolbar := NewToolbar(board, repo, pageLabel)

	saveBtn := widget.NewButton("Save", func() {
		dialog.ShowFileSave(func(writer fyne.URIWriteCloser, err error) {
			if err != nil || writer == nil {
				return
			}
			defer writer.Close()
			strokes := repo.Strokes()
			if err := stroke.Encode(writer, strokes); err != nil {
				log.Printf("save failed: %v", err)
				status.SetText("Error saving file")
				return
			}
			status.SetText(fmt.Sprintf("Saved %d strokes", len(strokes)))
		}, myWindow)
	})

	loadBtn := widget.NewButton("Load", func() {
		dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
			if err != nil || reader == nil {
				return
			}
			defer reader.Close()
			strokes, dropped, err := stroke.Decode(reader)
			if err != nil {
				log.Printf("load failed: %v", err)
				status.SetText("Error parsing file - invalid format")
				return
			}
			repo.Load(strokes)
			board.Engine.Invalidate()
			if dropped > 0 {
				log.Printf("load dropped %d malformed stroke records", dropped)
				status.SetText(fmt.Sprintf("Loaded %d strokes (%d dropped)", len(strokes), dropped))
				return
			}
			status.SetText(fmt.Sprintf("Loaded %d strokes", len(strokes)))
		}, myWindow)
	})

	exportBtn := widget.NewButton("Export PDF", func() {
		dialog.ShowFileSave(func(writer fyne.URIWriteCloser, err error) {
			if err != nil || writer == nil {
				return
			}
			defer writer.Close()
			page := board.Engine.Page()
			if err := export.Snapshot(writer, repo.StrokesForPage(page), board.PositionOf); err != nil {
				log.Printf("export failed: %v", err)
				status.SetText("Error exporting PDF")
				return
			}
			status.SetText("Exported page snapshot")
		}, myWindow)
	})

	top := container.NewVBox(toolbar, container.NewHBox(saveBtn, loadBtn, exportBtn))
	bottom := container.NewHBox(status)
	content := container.NewBorder(top, bottom, nil, nil, board)

	myWindow.SetContent(content)
	board.Engine.Start()
	myWindow.ShowAndRun()
}
