package core

// ByteGrid stores a 2D grid of byte-sized cell values in row-major order. The
// device framebuffer uses it with one byte per pixel (0 = off).
type ByteGrid struct {
	W, H int
	data []uint8
}

// NewByteGrid allocates a grid with the given dimensions.
func NewByteGrid(w, h int) *ByteGrid {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &ByteGrid{W: w, H: h, data: make([]uint8, w*h)}
}

// Cells exposes the backing slice so callers can read/write values directly.
func (g *ByteGrid) Cells() []uint8 { return g.data }

// Index returns the linear slice index for coordinates (x, y).
func (g *ByteGrid) Index(x, y int) int { return y*g.W + x }

// In reports whether (x, y) lies inside the grid.
func (g *ByteGrid) In(x, y int) bool { return x >= 0 && y >= 0 && x < g.W && y < g.H }

// Set writes v at (x, y); out-of-range coordinates are ignored.
func (g *ByteGrid) Set(x, y int, v uint8) {
	if g.In(x, y) {
		g.data[g.Index(x, y)] = v
	}
}

// At returns the value at (x, y), or 0 outside the grid.
func (g *ByteGrid) At(x, y int) uint8 {
	if !g.In(x, y) {
		return 0
	}
	return g.data[g.Index(x, y)]
}

// Wrap applies toroidal wrapping to the provided coordinates.
func (g *ByteGrid) Wrap(x, y int) (int, int) {
	x = (x%g.W + g.W) % g.W
	y = (y%g.H + g.H) % g.H
	return x, y
}

// Clear fills the grid with zeros.
func (g *ByteGrid) Clear() {
	for i := range g.data {
		g.data[i] = 0
	}
}

// CopyFrom copies src into g. Sizes must match.
func (g *ByteGrid) CopyFrom(src *ByteGrid) {
	copy(g.data, src.data)
}

// Pack returns the grid as a row-major bitmap, eight pixels per byte with the
// leftmost pixel in the least significant bit. dst is reused when large
// enough.
func (g *ByteGrid) Pack(dst []byte) []byte {
	n := (g.W*g.H + 7) / 8
	if cap(dst) < n {
		dst = make([]byte, n)
	}
	dst = dst[:n]
	clear(dst)
	for i, v := range g.data {
		if v != 0 {
			dst[i>>3] |= 1 << (i & 7)
		}
	}
	return dst
}
