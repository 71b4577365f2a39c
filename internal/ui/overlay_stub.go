//go:build !ebiten

package ui

import (
	"lifeboard/internal/core"
	"lifeboard/pkg/sims/life"
)

// Overlay is a no-op placeholder used when the ebiten build tag is absent.
type Overlay struct{}

// NewOverlay constructs a stub overlay.
func NewOverlay(core.Size, core.Size, int) *Overlay { return &Overlay{} }

// Update is a no-op in headless builds.
func (o *Overlay) Update() {}

// Height is zero in headless builds.
func (o *Overlay) Height() int { return 0 }

// Draw is a no-op placeholder.
func (o *Overlay) Draw(any, *life.Dense, int, int, int, int) {}
