//go:build !ebiten

package app

import (
	"fmt"

	"lifeboard/internal/core"
	"lifeboard/internal/device"
	"lifeboard/internal/loop"
)

// Game is a placeholder that satisfies the API expected by the GUI build.
type Game struct{}

// Peripherals panics to indicate that the ebiten build tag is required.
func Peripherals(core.Size) (loop.Peripherals, *device.Framebuffer, *device.MemoryLED, *device.LatchButton) {
	panic("app.Peripherals requires building with the 'ebiten' tag")
}

// New panics to indicate that the ebiten build tag is required for GUI support.
func New(*loop.Board, *device.Framebuffer, *device.MemoryLED, *device.LatchButton, int, int, int, int) *Game {
	panic("app.New requires building with the 'ebiten' tag")
}

// Update always reports that the GUI build tag is missing.
func (g *Game) Update() error {
	return fmt.Errorf("app.Game.Update requires building with the 'ebiten' tag")
}

// Draw is a no-op placeholder to satisfy the interface shape.
func (g *Game) Draw(any) {}

// Layout returns zeros in the headless build.
func (g *Game) Layout(int, int) (int, int) { return 0, 0 }
