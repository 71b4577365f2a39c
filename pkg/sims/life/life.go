package life

import (
	"lifeboard/pkg/core"
)

// Torus implements Conway's Game of Life on a W×H grid with toroidal wrapping.
// Two Dense buffers alternate between the current and scratch roles.
type Torus struct {
	w, h       int
	a, b       *Dense
	useA       bool
	generation uint64
}

// NewTorus returns an empty torus. w must be a multiple of 8.
func NewTorus(w, h int) *Torus {
	return &Torus{w: w, h: h, a: NewDense(w, h), b: NewDense(w, h), useA: true}
}

// Size returns the grid dimensions.
func (t *Torus) Size() core.Size { return core.Size{W: t.w, H: t.h} }

// Current is the buffer holding the live generation. Scene loaders write into
// it directly so the next render shows the new scene.
func (t *Torus) Current() *Dense {
	if t.useA {
		return t.a
	}
	return t.b
}

// Scratch is the buffer the next step will overwrite.
func (t *Torus) Scratch() *Dense {
	if t.useA {
		return t.b
	}
	return t.a
}

// Generation returns the number of steps since the last reset.
func (t *Torus) Generation() uint64 { return t.generation }

// ResetGeneration sets the generation counter back to zero.
func (t *Torus) ResetGeneration() { t.generation = 0 }

// Population counts live cells in the current buffer.
func (t *Torus) Population() int { return t.Current().Population() }

// Step advances the simulation by one generation. Only the scratch buffer is
// written; the roles flip once the pass completes.
func (t *Torus) Step() {
	cur, nxt := t.Current(), t.Scratch()
	stride := cur.stride
	for y := 0; y < t.h; y++ {
		up := cur.data[((y+t.h-1)%t.h)*stride:][:stride]
		mid := cur.data[y*stride:][:stride]
		down := cur.data[((y+1)%t.h)*stride:][:stride]
		out := nxt.data[y*stride:][:stride]
		for i := 0; i < stride; i++ {
			l := (i + stride - 1) % stride
			r := (i + 1) % stride
			around := [8]byte{
				west(up, i, l), up[i], east(up, i, r),
				west(mid, i, l), east(mid, i, r),
				west(down, i, l), down[i], east(down, i, r),
			}
			// Bit-sliced counter: s2 s1 s0 hold each cell's neighbour
			// count modulo 8.
			var s0, s1, s2 byte
			for _, v := range around {
				c0 := s0 & v
				s0 ^= v
				c1 := s1 & c0
				s1 ^= c0
				s2 ^= c1
			}
			// Neighbour counts never exceed 8, so 2 and 3 are the only
			// sums that leave s1 set and s2 clear modulo 8.
			out[i] = s1 &^ s2 & (s0 | mid[i])
		}
	}
	t.useA = !t.useA
	t.generation++
}

// StepN advances n generations.
func (t *Torus) StepN(n uint64) {
	for i := uint64(0); i < n; i++ {
		t.Step()
	}
}

// west returns, for each bit of row[i], the cell one column to the left.
func west(row []byte, i, l int) byte {
	return row[i]<<1 | row[l]>>7
}

// east returns, for each bit of row[i], the cell one column to the right.
func east(row []byte, i, r int) byte {
	return row[i]>>1 | row[r]<<7
}
