package loop

import (
	"context"
	"io"

	"lifeboard/internal/core"
	"lifeboard/internal/render"
	"lifeboard/pkg/sims/life"
)

// DefaultFPS is the host terminal frame rate.
const DefaultFPS = 15

// Terminal is the host frame loop: it draws the sparse grid as an ANSI frame
// and steps it.
type Terminal struct {
	grid *life.Sparse
	view *render.Terminal
	out  io.Writer
	step *core.FixedStep
}

// NewTerminal creates a loop writing frames of grid to out at fps frames per
// second. A non-positive fps selects DefaultFPS.
func NewTerminal(grid *life.Sparse, out io.Writer, fps int) *Terminal {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &Terminal{
		grid: grid,
		view: render.NewTerminal(),
		out:  out,
		step: core.NewFixedStep(fps),
	}
}

// Grid returns the evolving grid.
func (t *Terminal) Grid() *life.Sparse { return t.grid }

// Tick renders the current generation and steps the grid.
func (t *Terminal) Tick() error {
	if err := t.view.WriteFrame(t.out, t.grid); err != nil {
		return err
	}
	t.grid.Step()
	return nil
}

// Run hides the cursor and ticks until ctx is cancelled, then shows the
// cursor again.
func (t *Terminal) Run(ctx context.Context) error {
	if _, err := io.WriteString(t.out, render.HideCursor); err != nil {
		return err
	}
	defer io.WriteString(t.out, render.ShowCursor)
	for {
		if err := t.Tick(); err != nil {
			return err
		}
		if err := t.step.Wait(ctx); err != nil {
			return nil
		}
	}
}
