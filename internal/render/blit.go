package render

import (
	"lifeboard/internal/device"
	"lifeboard/pkg/sims/life"
)

// Blit draws the display-sized window of g whose top-left corner is (ox, oy)
// onto d and flushes it. The window wraps around the torus edges.
func Blit(d device.Display, g *life.Dense, ox, oy int) error {
	size := d.Size()
	d.Clear()
	for y := 0; y < size.H; y++ {
		for x := 0; x < size.W; x++ {
			if g.Get(ox+x, oy+y) {
				d.SetPixel(x, y, true)
			}
		}
	}
	return d.Flush()
}
