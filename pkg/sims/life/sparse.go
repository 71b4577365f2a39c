package life

import (
	"strings"

	"lifeboard/pkg/pattern"
)

// Cell is a coordinate on the infinite plane.
type Cell struct {
	Row, Col int64
}

// Rect is an inclusive axis-aligned bounding box.
type Rect struct {
	MinRow, MinCol int64
	MaxRow, MaxCol int64
}

var neighbors = [8]Cell{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Sparse is an infinite Life grid that stores live cells only. A step costs
// O(live cells) regardless of how far apart they are.
type Sparse struct {
	alive      map[Cell]struct{}
	generation uint64
}

// NewSparse returns an empty grid at generation 0.
func NewSparse() *Sparse {
	return &Sparse{alive: make(map[Cell]struct{})}
}

// FromCells builds a grid from live cell positions. Duplicates collapse.
func FromCells(cells ...Cell) *Sparse {
	s := &Sparse{alive: make(map[Cell]struct{}, len(cells))}
	for _, c := range cells {
		s.alive[c] = struct{}{}
	}
	return s
}

// FromPattern parses text and anchors it at (row, col).
func FromPattern(text string, row, col int64) *Sparse {
	s := NewSparse()
	s.Stamp(pattern.Parse(text), row, col)
	return s
}

// Stamp ORs p into the grid with its origin at (row, col).
func (s *Sparse) Stamp(p pattern.Pattern, row, col int64) {
	p.Each(func(r, c int) {
		s.alive[Cell{Row: row + int64(r), Col: col + int64(c)}] = struct{}{}
	})
}

// Generation returns the number of steps taken.
func (s *Sparse) Generation() uint64 { return s.generation }

// Population returns the number of live cells.
func (s *Sparse) Population() int { return len(s.alive) }

// IsAlive reports whether c is live.
func (s *Sparse) IsAlive(c Cell) bool {
	_, ok := s.alive[c]
	return ok
}

// SetAlive marks c live.
func (s *Sparse) SetAlive(c Cell) { s.alive[c] = struct{}{} }

// SetDead marks c dead.
func (s *Sparse) SetDead(c Cell) { delete(s.alive, c) }

// Cells returns a snapshot of the live cells in no particular order.
func (s *Sparse) Cells() []Cell {
	out := make([]Cell, 0, len(s.alive))
	for c := range s.alive {
		out = append(out, c)
	}
	return out
}

// Bounds returns the tight bounding box of the live cells. ok is false when
// the grid is empty.
func (s *Sparse) Bounds() (r Rect, ok bool) {
	for c := range s.alive {
		if !ok {
			r = Rect{MinRow: c.Row, MinCol: c.Col, MaxRow: c.Row, MaxCol: c.Col}
			ok = true
			continue
		}
		r.MinRow = min(r.MinRow, c.Row)
		r.MinCol = min(r.MinCol, c.Col)
		r.MaxRow = max(r.MaxRow, c.Row)
		r.MaxCol = max(r.MaxCol, c.Col)
	}
	return r, ok
}

// Step advances the grid by one generation under B3/S23.
func (s *Sparse) Step() {
	counts := make(map[Cell]uint8, len(s.alive)*4)
	for c := range s.alive {
		for _, d := range neighbors {
			counts[Cell{Row: c.Row + d.Row, Col: c.Col + d.Col}]++
		}
	}
	next := make(map[Cell]struct{}, len(s.alive))
	for c, n := range counts {
		switch n {
		case 3:
			next[c] = struct{}{}
		case 2:
			if _, ok := s.alive[c]; ok {
				next[c] = struct{}{}
			}
		}
	}
	s.alive = next
	s.generation++
}

// StepN advances the grid by n generations.
func (s *Sparse) StepN(n uint64) {
	for i := uint64(0); i < n; i++ {
		s.Step()
	}
}

// Equal reports whether both grids hold the same live set. Generations are
// not compared.
func (s *Sparse) Equal(o *Sparse) bool {
	if len(s.alive) != len(o.alive) {
		return false
	}
	for c := range s.alive {
		if _, ok := o.alive[c]; !ok {
			return false
		}
	}
	return true
}

// Clone returns a deep copy.
func (s *Sparse) Clone() *Sparse {
	out := &Sparse{alive: make(map[Cell]struct{}, len(s.alive)), generation: s.generation}
	for c := range s.alive {
		out.alive[c] = struct{}{}
	}
	return out
}

// String renders the bounding box with '█' alive and '·' dead.
func (s *Sparse) String() string {
	r, ok := s.Bounds()
	if !ok {
		return "(empty)"
	}
	var b strings.Builder
	for row := r.MinRow; row <= r.MaxRow; row++ {
		for col := r.MinCol; col <= r.MaxCol; col++ {
			if s.IsAlive(Cell{Row: row, Col: col}) {
				b.WriteRune('█')
			} else {
				b.WriteRune('·')
			}
		}
		if row < r.MaxRow {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
