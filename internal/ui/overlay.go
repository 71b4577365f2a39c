//go:build ebiten

package ui

import (
	"image/color"

	"lifeboard/internal/core"
	"lifeboard/internal/render"
	"lifeboard/pkg/sims/life"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Overlay draws a downsampled minimap of the whole world with the visible
// window outlined.
type Overlay struct {
	show    bool
	factor  int
	screenW int
	screenH int
	palette []color.RGBA
	cells   []uint8
	painter *render.GridPainter
	pixel   *ebiten.Image
}

// NewOverlay sizes the minimap for a world so it fits maxW pixels across.
func NewOverlay(world, screen core.Size, maxW int) *Overlay {
	f := MinimapFactor(world.W, world.H, maxW)
	o := &Overlay{
		show:    true,
		factor:  f,
		screenW: screen.W,
		screenH: screen.H,
		palette: MinimapPalette(f),
		cells:   make([]uint8, (world.W/f)*(world.H/f)),
		painter: render.NewGridPainter(world.W/f, world.H/f),
	}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update toggles the minimap with M.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		o.show = !o.show
	}
}

// Height returns the drawn height in pixels, zero when hidden.
func (o *Overlay) Height() int {
	if o == nil || !o.show {
		return 0
	}
	_, h := o.painter.Size()
	return h
}

// Draw paints the minimap of g at (x, y) with the window at origin (ox, oy).
func (o *Overlay) Draw(screen *ebiten.Image, g *life.Dense, ox, oy, x, y int) {
	if o == nil || !o.show {
		return
	}
	render.Downsample(o.cells, g, o.factor)
	w, h := o.painter.Size()
	o.fillRect(screen, x, y, w, h, color.RGBA{R: 6, G: 6, B: 8, A: 255})
	o.painter.BlitPalette(screen, o.cells, o.palette, 1, x, y)

	// Outline the visible window; it may wrap around the edges.
	vx, vy := ox/o.factor, oy/o.factor
	vw, vh := max(o.screenW/o.factor, 1), max(o.screenH/o.factor, 1)
	frame := color.RGBA{R: 230, G: 230, B: 240, A: 200}
	for _, dx := range []int{0, -w} {
		for _, dy := range []int{0, -h} {
			o.outline(screen, x, y, w, h, vx+dx, vy+dy, vw, vh, frame)
		}
	}
}

func (o *Overlay) outline(screen *ebiten.Image, x, y, w, h, rx, ry, rw, rh int, c color.RGBA) {
	clip := func(px, py, pw, ph int) {
		x0, y0 := max(px, 0), max(py, 0)
		x1, y1 := min(px+pw, w), min(py+ph, h)
		if x1 > x0 && y1 > y0 {
			o.fillRect(screen, x+x0, y+y0, x1-x0, y1-y0, c)
		}
	}
	clip(rx, ry, rw, 1)
	clip(rx, ry+rh-1, rw, 1)
	clip(rx, ry, 1, rh)
	clip(rx+rw-1, ry, 1, rh)
}

func (o *Overlay) fillRect(screen *ebiten.Image, x, y, w, h int, c color.RGBA) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(w), float64(h))
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(c)
	screen.DrawImage(o.pixel, op)
}
