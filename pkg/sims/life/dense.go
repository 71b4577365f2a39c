package life

import (
	"fmt"
	"math/bits"

	"lifeboard/pkg/core"
	"lifeboard/pkg/pattern"
)

// Dense is a W×H bit grid packed row-major, eight cells per byte, with the
// smallest x of each byte in its least significant bit.
type Dense struct {
	w, h   int
	stride int
	data   []byte
}

// NewDense allocates an all-dead grid. w must be a positive multiple of 8 so
// rows are byte aligned.
func NewDense(w, h int) *Dense {
	if w <= 0 || w%8 != 0 || h <= 0 {
		panic(fmt.Sprintf("life: dense grid %dx%d: width must be a positive multiple of 8", w, h))
	}
	return &Dense{w: w, h: h, stride: w / 8, data: make([]byte, w*h/8)}
}

// Size returns the grid dimensions.
func (d *Dense) Size() core.Size { return core.Size{W: d.w, H: d.h} }

// Bytes exposes the packed storage.
func (d *Dense) Bytes() []byte { return d.data }

func (d *Dense) wrap(x, y int) (int, int) {
	x %= d.w
	if x < 0 {
		x += d.w
	}
	y %= d.h
	if y < 0 {
		y += d.h
	}
	return x, y
}

// Get reports whether (x, y) is live. Coordinates wrap.
func (d *Dense) Get(x, y int) bool {
	x, y = d.wrap(x, y)
	return d.data[y*d.stride+x>>3]&(1<<(x&7)) != 0
}

// Set marks (x, y) live. Coordinates wrap.
func (d *Dense) Set(x, y int) {
	x, y = d.wrap(x, y)
	d.data[y*d.stride+x>>3] |= 1 << (x & 7)
}

// Unset marks (x, y) dead. Coordinates wrap.
func (d *Dense) Unset(x, y int) {
	x, y = d.wrap(x, y)
	d.data[y*d.stride+x>>3] &^= 1 << (x & 7)
}

// Clear kills every cell.
func (d *Dense) Clear() {
	clear(d.data)
}

// CopyFrom overwrites d with src. Both grids must share dimensions.
func (d *Dense) CopyFrom(src *Dense) {
	copy(d.data, src.data)
}

// Population counts live cells.
func (d *Dense) Population() int {
	n := 0
	for _, b := range d.data {
		n += bits.OnesCount8(b)
	}
	return n
}

// TilePopulation counts live cells in the tileW×tileH block whose top-left
// corner is (tx*tileW, ty*tileH).
func (d *Dense) TilePopulation(tx, ty, tileW, tileH int) int {
	x0, y0 := tx*tileW, ty*tileH
	n := 0
	if tileW%8 == 0 && x0%8 == 0 {
		b0 := x0 >> 3
		for y := y0; y < y0+tileH && y < d.h; y++ {
			row := d.data[y*d.stride : (y+1)*d.stride]
			for _, b := range row[b0:min(b0+tileW/8, d.stride)] {
				n += bits.OnesCount8(b)
			}
		}
		return n
	}
	for y := y0; y < y0+tileH && y < d.h; y++ {
		for x := x0; x < x0+tileW && x < d.w; x++ {
			if d.Get(x, y) {
				n++
			}
		}
	}
	return n
}

// Stamp ORs p into the grid with its origin at (x, y); cells wrap.
func (d *Dense) Stamp(p pattern.Pattern, x, y int) {
	p.Each(func(r, c int) {
		d.Set(x+c, y+r)
	})
}

// Scatter sets each cell live with probability density/256. Existing live
// cells are kept.
func (d *Dense) Scatter(rng *core.XorShift32, density uint8) {
	if density == 0 {
		return
	}
	for y := 0; y < d.h; y++ {
		for x := 0; x < d.w; x++ {
			if rng.Chance(density) {
				d.data[y*d.stride+x>>3] |= 1 << (x & 7)
			}
		}
	}
}

// Equal reports whether both grids hold the same cells.
func (d *Dense) Equal(o *Dense) bool {
	if d.w != o.w || d.h != o.h {
		return false
	}
	for i := range d.data {
		if d.data[i] != o.data[i] {
			return false
		}
	}
	return true
}
