package render

import (
	"image/color"

	"lifeboard/pkg/sims/life"
)

// FramebufferRGBA expands one byte per display pixel, as copied out of the
// device framebuffer, into RGBA: lit pixels take on and dark pixels take off.
// buf must hold 4*len(pixels) bytes.
func FramebufferRGBA(buf []byte, pixels []uint8, on, off color.Color) {
	rOn, gOn, bOn, aOn := on.RGBA()
	rOff, gOff, bOff, aOff := off.RGBA()
	for i, p := range pixels {
		base := i * 4
		if p != 0 {
			buf[base+0] = uint8(rOn >> 8)
			buf[base+1] = uint8(gOn >> 8)
			buf[base+2] = uint8(bOn >> 8)
			buf[base+3] = uint8(aOn >> 8)
			continue
		}
		buf[base+0] = uint8(rOff >> 8)
		buf[base+1] = uint8(gOff >> 8)
		buf[base+2] = uint8(bOff >> 8)
		buf[base+3] = uint8(aOff >> 8)
	}
}

// HeatmapRGBA colours the minimap: counts holds one live-cell count per
// world block, as produced by Downsample, and each count indexes heat.
// Counts past the end of heat take its hottest entry. An empty heat clears
// buf to transparent black.
func HeatmapRGBA(buf []byte, counts []uint8, heat []color.RGBA) {
	if len(heat) == 0 {
		clear(buf[:len(counts)*4])
		return
	}

	hottest := len(heat) - 1
	for i, n := range counts {
		col := heat[min(int(n), hottest)]
		base := i * 4
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// Downsample writes into dst the number of live cells in every factor×factor
// block of g, row-major, clamped to 255. It returns the output dimensions.
// factor must divide the grid width and height.
func Downsample(dst []uint8, g *life.Dense, factor int) (w, h int) {
	size := g.Size()
	if factor <= 0 {
		factor = 1
	}
	w, h = size.W/factor, size.H/factor
	for by := 0; by < h; by++ {
		for bx := 0; bx < w; bx++ {
			n := g.TilePopulation(bx, by, factor, factor)
			dst[by*w+bx] = uint8(min(n, 255))
		}
	}
	return w, h
}
