package render

import (
	"io"
	"strconv"

	"lifeboard/pkg/sims/life"
)

// ANSI control sequences used by the host terminal view.
const (
	HideCursor = "\x1b[?25l"
	ShowCursor = "\x1b[?25h"
	homeClear  = "\x1b[H\x1b[J"
)

// Default terminal viewport.
const (
	TerminalRows = 40
	TerminalCols = 80
)

// Terminal renders a window of a sparse grid as a full-screen ANSI frame.
type Terminal struct {
	Rows, Cols int
	// Row and Col are the top-left plane coordinate of the window.
	Row, Col int64

	buf []byte
}

// NewTerminal returns a terminal view of the default size anchored at (0, 0).
func NewTerminal() *Terminal {
	return &Terminal{Rows: TerminalRows, Cols: TerminalCols}
}

// Frame appends one frame for g to dst and returns the extended slice.
func (t *Terminal) Frame(dst []byte, g *life.Sparse) []byte {
	dst = append(dst, homeClear...)
	dst = append(dst, " Generation: "...)
	dst = strconv.AppendUint(dst, g.Generation(), 10)
	dst = append(dst, "  Population: "...)
	dst = strconv.AppendInt(dst, int64(g.Population()), 10)
	dst = append(dst, "\n\n"...)
	for r := 0; r < t.Rows; r++ {
		for c := 0; c < t.Cols; c++ {
			if g.IsAlive(life.Cell{Row: t.Row + int64(r), Col: t.Col + int64(c)}) {
				dst = append(dst, "█"...)
			} else {
				dst = append(dst, ' ')
			}
		}
		dst = append(dst, '\n')
	}
	return append(dst, "\n Press Ctrl+C to quit.\n"...)
}

// WriteFrame renders g and writes the frame to w in one call.
func (t *Terminal) WriteFrame(w io.Writer, g *life.Sparse) error {
	t.buf = t.Frame(t.buf[:0], g)
	_, err := w.Write(t.buf)
	return err
}
