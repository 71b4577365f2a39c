package core

import (
	"sort"

	pcore "lifeboard/pkg/core"
)

// Size is re-exported so device code needs a single core import.
type Size = pcore.Size

// Variant bundles the world geometry with its health calibration.
type Variant struct {
	Name string
	// World is the torus the scenes are loaded into.
	World Size
	// Screen is the visible framebuffer.
	Screen Size
	// Tile is the block used to weight viewport targeting.
	Tile Size
	// Midpoint is the "thriving population" M of the health map.
	Midpoint int
	// Seek enables the activity-seeking viewport. When false the screen
	// shows the world from (0, 0).
	Seek bool
}

// Tiles returns how many tiles cover the world on each axis.
func (v Variant) Tiles() (int, int) {
	if v.Tile.W <= 0 || v.Tile.H <= 0 {
		return 0, 0
	}
	return (v.World.W + v.Tile.W - 1) / v.Tile.W, (v.World.H + v.Tile.H - 1) / v.Tile.H
}

var variants = map[string]Variant{}

// Register adds a world variant under the provided name.
func Register(v Variant) {
	if v.Name == "" {
		return
	}
	variants[v.Name] = v
}

// Lookup returns the variant registered under name.
func Lookup(name string) (Variant, bool) {
	v, ok := variants[name]
	return v, ok
}

// Variants lists registered variant names in sorted order.
func Variants() []string {
	names := make([]string, 0, len(variants))
	for n := range variants {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func init() {
	Register(Variant{
		Name:     "small",
		World:    Size{W: 128, H: 64},
		Screen:   Size{W: 128, H: 64},
		Tile:     Size{W: 16, H: 16},
		Midpoint: 300,
	})
	Register(Variant{
		Name:     "large",
		World:    Size{W: 512, H: 256},
		Screen:   Size{W: 128, H: 64},
		Tile:     Size{W: 32, H: 16},
		Midpoint: 5000,
		Seek:     true,
	})
}
