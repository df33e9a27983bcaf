// Package export writes a rendered snapshot of one page's annotations into
// a PDF. Strokes are rasterized and embedded as a bitmap.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"

	"github.com/jung-kurt/gofpdf"

	"inkboard/internal/geom"
	"inkboard/internal/render"
	"inkboard/internal/stroke"
)

const (
	pageWidthMM  = 210.0 // A4 portrait
	pageHeightMM = 297.0
	marginMM     = 10.0
	maxRasterPx  = 1600
	padCanvas    = 20.0
)

// Snapshot renders the given strokes and writes a single-page A4 PDF to w.
// positionOf resolves attached element positions the same way rendering
// does. A page with no renderable strokes produces an empty PDF page.
func Snapshot(w io.Writer, strokes []stroke.Stroke, positionOf func(string) (geom.Point, bool)) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	if img, ok := rasterize(strokes, positionOf); ok {
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return fmt.Errorf("encode snapshot: %w", err)
		}
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("annotations", opts, &buf)

		iw := float64(img.Bounds().Dx())
		ih := float64(img.Bounds().Dy())
		maxW := pageWidthMM - 2*marginMM
		maxH := pageHeightMM - 2*marginMM
		scale := math.Min(maxW/iw, maxH/ih)
		pdf.ImageOptions("annotations", marginMM, marginMM, iw*scale, ih*scale, false, opts, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// rasterize draws the strokes into an image sized to their padded bounding
// box. It reports false when nothing is renderable.
func rasterize(strokes []stroke.Stroke, positionOf func(string) (geom.Point, bool)) (image.Image, bool) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	any := false
	for i := range strokes {
		s := &strokes[i]
		if !s.Renderable() {
			continue
		}
		off := s.Offset(positionOf)
		for _, p := range s.Points {
			minX = math.Min(minX, p.X+off.X)
			minY = math.Min(minY, p.Y+off.Y)
			maxX = math.Max(maxX, p.X+off.X)
			maxY = math.Max(maxY, p.Y+off.Y)
			any = true
		}
	}
	if !any {
		return nil, false
	}

	minX -= padCanvas
	minY -= padCanvas
	maxX += padCanvas
	maxY += padCanvas
	cw, ch := maxX-minX, maxY-minY
	zoom := math.Min(float64(maxRasterPx)/cw, float64(maxRasterPx)/ch)
	if zoom > 2 {
		zoom = 2
	}

	surf := render.NewRaster(int(math.Ceil(cw*zoom)), int(math.Ceil(ch*zoom)))
	vp := geom.Viewport{X: -minX * zoom, Y: -minY * zoom, Zoom: zoom}
	render.Draw(surf, strokes, vp, positionOf)
	return surf.Image(), true
}
