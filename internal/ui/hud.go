//go:build ebiten

package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// HUD renders the status panel to the right of the board view.
type HUD struct {
	width      int
	panel      *ebiten.Image
	lastHeight int
	state      BoardState

	pixel *ebiten.Image
}

// NewHUD constructs a HUD with the provided panel width.
func NewHUD(width int) *HUD {
	if width < 0 {
		width = 0
	}
	h := &HUD{width: width}
	if width > 0 {
		h.pixel = ebiten.NewImage(1, 1)
		h.pixel.Fill(color.White)
	}
	return h
}

// Width returns the panel width in pixels.
func (h *HUD) Width() int {
	if h == nil {
		return 0
	}
	return h.width
}

// Update caches the state to draw on the next frame.
func (h *HUD) Update(s BoardState) {
	if h == nil {
		return
	}
	h.state = s
}

// Draw paints the panel at offsetX with the given height.
func (h *HUD) Draw(screen *ebiten.Image, offsetX, height int) {
	if h == nil || h.width <= 0 || height <= 0 {
		return
	}
	if h.panel == nil || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})
	h.drawStatus()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) drawStatus() {
	face := basicfont.Face7x13
	y := panelPadding + headerBaseline
	text.Draw(h.panel, "Board", face, panelPadding, y, color.RGBA{R: 200, G: 200, B: 210, A: 255})
	y += infoSpacing

	fg := color.RGBA{R: 220, G: 220, B: 230, A: 255}
	for _, line := range Lines(h.state) {
		text.Draw(h.panel, line, face, panelPadding, y, fg)
		y += lineHeight
	}

	// LED swatch beside the title.
	swatch := h.state.LED
	swatch.A = 255
	h.fillRect(h.width-panelPadding-swatchSize, panelPadding+2, swatchSize, swatchSize, swatch)

	dim := color.RGBA{R: 140, G: 140, B: 150, A: 255}
	y = h.lastHeight - panelPadding - (len(Help)-1)*lineHeight
	for _, line := range Help {
		text.Draw(h.panel, line, face, panelPadding, y, dim)
		y += lineHeight
	}
}

func (h *HUD) fillRect(x, y, w, ht int, c color.RGBA) {
	if h.pixel == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(w), float64(ht))
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(c)
	h.panel.DrawImage(h.pixel, op)
}

const (
	panelPadding   = 12
	lineHeight     = 16
	swatchSize     = 14
	headerBaseline = 12
	infoSpacing    = 24
)
