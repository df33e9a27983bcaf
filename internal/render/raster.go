package render

import (
	"image"
	"image/draw"

	"github.com/fogleman/gg"

	"inkboard/internal/geom"
)

// Raster is the software Surface implementation. It rasterizes through a
// fogleman/gg context into an RGBA image the host can blit or composite.
//
// Highlighter strokes need multiplicative blending, which gg does not
// expose, so those strokes are rasterized into a scratch context first and
// folded into the main image by a per-pixel multiply pass.
type Raster struct {
	width, height int
	dc            *gg.Context
	scratch       *gg.Context
	style         Style
}

var _ Surface = (*Raster)(nil)

// NewRaster returns a transparent raster surface of the given pixel size.
func NewRaster(width, height int) *Raster {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	r := &Raster{
		width:   width,
		height:  height,
		dc:      gg.NewContext(width, height),
		scratch: gg.NewContext(width, height),
	}
	r.dc.SetLineCapRound()
	r.dc.SetLineJoinRound()
	r.scratch.SetLineCapRound()
	r.scratch.SetLineJoinRound()
	return r
}

// Image returns the backing image. The renderer mutates it in place; hosts
// displaying it should repaint after each Draw.
func (r *Raster) Image() image.Image { return r.dc.Image() }

// Size returns the surface's pixel dimensions.
func (r *Raster) Size() (int, int) { return r.width, r.height }

func (r *Raster) Clear() {
	clearContext(r.dc)
}

func (r *Raster) Begin(style Style) {
	r.style = style
	target := r.dc
	if style.Multiply {
		clearContext(r.scratch)
		target = r.scratch
	}
	target.SetHexColor(style.Color)
	target.SetLineWidth(style.Width)
}

func (r *Raster) MoveTo(p geom.Point) { r.target().MoveTo(p.X, p.Y) }

func (r *Raster) LineTo(p geom.Point) { r.target().LineTo(p.X, p.Y) }

func (r *Raster) QuadTo(ctrl, end geom.Point) {
	r.target().QuadraticTo(ctrl.X, ctrl.Y, end.X, end.Y)
}

func (r *Raster) Stroke() {
	if !r.style.Multiply {
		r.dc.Stroke()
		return
	}
	r.scratch.Stroke()
	multiplyOnto(rgba(r.dc), rgba(r.scratch), r.style.Opacity)
}

func (r *Raster) target() *gg.Context {
	if r.style.Multiply {
		return r.scratch
	}
	return r.dc
}

func clearContext(dc *gg.Context) {
	img := rgba(dc)
	draw.Draw(img, img.Bounds(), image.Transparent, image.Point{}, draw.Src)
}

func rgba(dc *gg.Context) *image.RGBA {
	return dc.Image().(*image.RGBA)
}

// multiplyOnto composites src onto dst with multiplicative blending at the
// given opacity. Uncovered destination pixels behave as white paper, so a
// highlighter over an empty region shows its own tint. Pixels the source
// does not cover are left untouched.
func multiplyOnto(dst, src *image.RGBA, opacity float64) {
	if opacity < 0 {
		opacity = 0
	} else if opacity > 1 {
		opacity = 1
	}
	b := src.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		si := src.PixOffset(b.Min.X, y)
		di := dst.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x, si, di = x+1, si+4, di+4 {
			sa := src.Pix[si+3]
			if sa == 0 {
				continue
			}
			a := float64(sa) / 255 * opacity
			da := float64(dst.Pix[di+3]) / 255
			outA := da + a*(1-da)
			if outA <= 0 {
				continue
			}
			for c := 0; c < 3; c++ {
				sc := unpremul(src.Pix[si+c], sa)
				dc := 1.0
				if da > 0 {
					dc = unpremul(dst.Pix[di+c], dst.Pix[di+3])
				}
				// lerp toward the multiplied color by coverage
				out := dc + (dc*sc-dc)*a
				dst.Pix[di+c] = uint8(out*outA*255 + 0.5)
			}
			dst.Pix[di+3] = uint8(outA*255 + 0.5)
		}
	}
}

// unpremul converts one premultiplied 8-bit channel to a [0,1] color value.
func unpremul(c, a uint8) float64 {
	if a == 0 {
		return 0
	}
	return float64(c) / float64(a)
}
