//go:build ebiten

package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// GridPainter uploads byte cells into a single ebiten image and draws it.
type GridPainter struct {
	w, h int
	img  *ebiten.Image
	buf  []byte
}

// NewGridPainter allocates a painter for a grid of size w*h.
func NewGridPainter(w, h int) *GridPainter {
	gp := &GridPainter{w: w, h: h, buf: make([]byte, 4*w*h)}
	gp.img = ebiten.NewImage(w, h)
	return gp
}

// Blit draws framebuffer pixels scaled by scale at (x, y).
func (gp *GridPainter) Blit(dst *ebiten.Image, cells []uint8, on, off color.Color, scale, x, y int) {
	if len(cells) != gp.w*gp.h {
		return
	}
	FramebufferRGBA(gp.buf, cells, on, off)
	gp.draw(dst, scale, x, y)
}

// BlitPalette draws per-block live counts through a heat palette scaled by
// scale at (x, y).
func (gp *GridPainter) BlitPalette(dst *ebiten.Image, cells []uint8, palette []color.RGBA, scale, x, y int) {
	if len(cells) < gp.w*gp.h {
		return
	}
	HeatmapRGBA(gp.buf, cells[:gp.w*gp.h], palette)
	gp.draw(dst, scale, x, y)
}

func (gp *GridPainter) draw(dst *ebiten.Image, scale, x, y int) {
	gp.img.WritePixels(gp.buf)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	op.GeoM.Translate(float64(x), float64(y))
	dst.DrawImage(gp.img, op)
}

// Size returns the dimensions of the underlying image.
func (gp *GridPainter) Size() (int, int) { return gp.w, gp.h }
