package device

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// LineHeight is the vertical advance between status lines in pixels.
const LineHeight = 13

// canvas lets font.Drawer paint glyphs onto any Display.
type canvas struct {
	d Display
}

func (c canvas) ColorModel() color.Model { return color.GrayModel }

func (c canvas) Bounds() image.Rectangle {
	s := c.d.Size()
	return image.Rect(0, 0, s.W, s.H)
}

func (c canvas) At(int, int) color.Color { return color.Black }

func (c canvas) Set(x, y int, col color.Color) {
	// Glyph edges are binarised at half intensity.
	if color.GrayModel.Convert(col).(color.Gray).Y >= 128 {
		c.d.SetPixel(x, y, true)
	}
}

// DrawText draws s with its baseline at (x, y). Existing pixels are kept.
func DrawText(d Display, x, y int, s string) {
	dr := font.Drawer{
		Dst:  canvas{d: d},
		Src:  image.White,
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	dr.DrawString(s)
}

// TextWidth returns the advance of s in pixels.
func TextWidth(s string) int {
	return font.MeasureString(basicfont.Face7x13, s).Ceil()
}

// ShowStatus clears d, draws lines one per row starting at the top left and
// flushes.
func ShowStatus(d Display, lines ...string) error {
	d.Clear()
	for i, line := range lines {
		DrawText(d, 2, LineHeight*(i+1)-2, line)
	}
	return d.Flush()
}
