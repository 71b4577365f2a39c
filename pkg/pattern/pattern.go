// Package pattern parses ASCII-art Life patterns and holds the canonical
// patterns used by the host simulator and the scene table.
package pattern

import (
	"strings"
)

// Point is a live cell relative to the pattern origin.
type Point struct {
	Row, Col int
}

// Pattern is an immutable parsed pattern.
type Pattern struct {
	cells      []Point
	rows, cols int
}

// Parse reads text line by line. '#' and 'O' are alive, any other character is
// dead. Rows are lines top to bottom and columns are characters left to right.
func Parse(text string) Pattern {
	var p Pattern
	for r, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		c := 0
		for _, ch := range line {
			if ch == '#' || ch == 'O' {
				p.cells = append(p.cells, Point{Row: r, Col: c})
				if r+1 > p.rows {
					p.rows = r + 1
				}
				if c+1 > p.cols {
					p.cols = c + 1
				}
			}
			c++
		}
	}
	return p
}

// Cells returns a copy of the live cells.
func (p Pattern) Cells() []Point {
	out := make([]Point, len(p.cells))
	copy(out, p.cells)
	return out
}

// Each calls fn for every live cell without allocating.
func (p Pattern) Each(fn func(row, col int)) {
	for _, c := range p.cells {
		fn(c.Row, c.Col)
	}
}

// Population is the number of live cells.
func (p Pattern) Population() int { return len(p.cells) }

// Rows is the number of lines spanned by live cells, counted from row 0.
func (p Pattern) Rows() int { return p.rows }

// Cols is the number of columns spanned by live cells, counted from column 0.
func (p Pattern) Cols() int { return p.cols }

// String renders the bounding box of the live cells with '█' alive and '·'
// dead. All-dead border rows and columns are trimmed.
func (p Pattern) String() string {
	if len(p.cells) == 0 {
		return "(empty)"
	}
	r0, c0 := p.cells[0].Row, p.cells[0].Col
	r1, c1 := r0, c0
	alive := make(map[Point]struct{}, len(p.cells))
	for _, c := range p.cells {
		alive[c] = struct{}{}
		r0, r1 = min(r0, c.Row), max(r1, c.Row)
		c0, c1 = min(c0, c.Col), max(c1, c.Col)
	}
	var b strings.Builder
	for r := r0; r <= r1; r++ {
		for c := c0; c <= c1; c++ {
			if _, ok := alive[Point{r, c}]; ok {
				b.WriteRune('█')
			} else {
				b.WriteRune('·')
			}
		}
		if r < r1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
