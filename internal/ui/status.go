// Package ui draws the emulator side panel: board status text and a minimap
// of the whole world.
package ui

import (
	"fmt"
	"image/color"
)

// BoardState is what the side panel shows for one frame.
type BoardState struct {
	Scene      string
	SceneIndex int
	Scenes     int
	Generation uint64
	Population int
	LED        color.RGBA
	ViewX      int
	ViewY      int
	Paused     bool
}

// Lines formats s as the panel text, top to bottom.
func Lines(s BoardState) []string {
	lines := []string{
		fmt.Sprintf("Scene %d/%d", s.SceneIndex+1, s.Scenes),
		s.Scene,
		fmt.Sprintf("Gen   %d", s.Generation),
		fmt.Sprintf("Pop   %d", s.Population),
		fmt.Sprintf("LED   #%02x%02x%02x", s.LED.R, s.LED.G, s.LED.B),
		fmt.Sprintf("View  %d,%d", s.ViewX, s.ViewY),
	}
	if s.Paused {
		lines = append(lines, "PAUSED")
	}
	return lines
}

// Help lists the emulator key bindings.
var Help = []string{
	"Space  button",
	"P      pause",
	"N      step",
	"M      minimap",
	"Q/Esc  quit",
}

// MinimapFactor picks the downsampling factor that fits a w×h world into
// maxW pixels across. The result divides both dimensions.
func MinimapFactor(w, h, maxW int) int {
	f := 1
	for w/f > maxW && w%(f*2) == 0 && h%(f*2) == 0 {
		f *= 2
	}
	return f
}

// MinimapPalette maps a block population (0..factor²) to a heat color.
// Empty blocks are transparent.
func MinimapPalette(factor int) []color.RGBA {
	n := factor*factor + 1
	p := make([]color.RGBA, n)
	for i := 1; i < n; i++ {
		t := float64(i) / float64(n-1)
		p[i] = color.RGBA{
			R: uint8(60 + 195*t),
			G: uint8(200 - 80*t),
			B: uint8(90 * (1 - t)),
			A: 255,
		}
	}
	return p
}
