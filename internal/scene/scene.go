// Package scene holds the table of named world initializers cycled by the
// device frame loop.
package scene

import (
	"lifeboard/pkg/core"
	"lifeboard/pkg/pattern"
	"lifeboard/pkg/sims/life"
)

// Anchor is a position expressed as a fraction of a screen-sized block.
type Anchor struct {
	FX, FY float64
}

// Stamp places one pattern per block at Anchor, offset by a uniform random
// amount in [-Jitter.W, Jitter.W] × [-Jitter.H, Jitter.H].
type Stamp struct {
	Pattern pattern.Pattern
	At      Anchor
	Jitter  core.Size
}

// Scene is a named initializer: clear, stamp, then scatter noise with
// probability Density/256 per cell.
type Scene struct {
	Name    string
	Stamps  []Stamp
	Density uint8
}

// Table is an ordered list of scenes selected by index.
type Table struct {
	scenes []Scene
}

// New builds a table from scenes in order.
func New(scenes ...Scene) Table {
	return Table{scenes: scenes}
}

// Len returns the number of scenes.
func (t Table) Len() int { return len(t.scenes) }

// Name returns the name of scene idx, wrapping idx into range.
func (t Table) Name(idx int) string {
	if len(t.scenes) == 0 {
		return ""
	}
	return t.scenes[t.wrap(idx)].Name
}

// Names lists every scene name in table order.
func (t Table) Names() []string {
	out := make([]string, len(t.scenes))
	for i, s := range t.scenes {
		out[i] = s.Name
	}
	return out
}

func (t Table) wrap(idx int) int {
	n := len(t.scenes)
	return ((idx % n) + n) % n
}

// Load clears dst and initializes it with scene idx. Stamps repeat once per
// block-sized region of the world so a world larger than the screen is filled
// with the same composition. It returns the scene name.
func (t Table) Load(dst *life.Dense, idx int, rng *core.XorShift32, block core.Size) string {
	dst.Clear()
	if len(t.scenes) == 0 {
		return ""
	}
	s := t.scenes[t.wrap(idx)]
	world := dst.Size()
	if block.W <= 0 || block.H <= 0 || block.W > world.W || block.H > world.H {
		block = world
	}
	for by := 0; by+block.H <= world.H; by += block.H {
		for bx := 0; bx+block.W <= world.W; bx += block.W {
			for _, st := range s.Stamps {
				x := bx + int(st.At.FX*float64(block.W)) + rng.Range(-st.Jitter.W, st.Jitter.W)
				y := by + int(st.At.FY*float64(block.H)) + rng.Range(-st.Jitter.H, st.Jitter.H)
				dst.Stamp(st.Pattern, x, y)
			}
		}
	}
	dst.Scatter(rng, s.Density)
	return s.Name
}

// Default returns the scene table shipped with the device. Names are part of
// the log contract.
func Default() Table {
	var (
		rpent  = pattern.Parse(pattern.RPentomino)
		gun    = pattern.Parse(pattern.GosperGun)
		lwss   = pattern.Parse(pattern.LWSS)
		glider = pattern.Parse(pattern.Glider)
		pulsar = pattern.Parse(pattern.Pulsar)
	)
	return New(
		Scene{
			Name:    "R-pentomino + soup",
			Stamps:  []Stamp{{Pattern: rpent, At: Anchor{0.5, 0.5}}},
			Density: 24,
		},
		Scene{
			Name:    "Gosper Gun + chaos",
			Stamps:  []Stamp{{Pattern: gun, At: Anchor{0.05, 0.08}}},
			Density: 16,
		},
		Scene{
			Name:    "Random soup",
			Density: 64,
		},
		Scene{
			Name: "Armada",
			Stamps: []Stamp{
				{Pattern: lwss, At: Anchor{0.05, 0.15}, Jitter: core.Size{W: 8, H: 3}},
				{Pattern: lwss, At: Anchor{0.05, 0.45}, Jitter: core.Size{W: 8, H: 3}},
				{Pattern: lwss, At: Anchor{0.05, 0.75}, Jitter: core.Size{W: 8, H: 3}},
				{Pattern: glider, At: Anchor{0.5, 0.2}, Jitter: core.Size{W: 10, H: 6}},
				{Pattern: glider, At: Anchor{0.7, 0.6}, Jitter: core.Size{W: 10, H: 6}},
			},
		},
		Scene{
			Name: "Pulsar garden",
			Stamps: []Stamp{
				{Pattern: pulsar, At: Anchor{0.08, 0.1}},
				{Pattern: pulsar, At: Anchor{0.42, 0.1}},
				{Pattern: pulsar, At: Anchor{0.75, 0.1}},
				{Pattern: pulsar, At: Anchor{0.08, 0.55}},
				{Pattern: pulsar, At: Anchor{0.42, 0.55}},
				{Pattern: pulsar, At: Anchor{0.75, 0.55}},
			},
			Density: 4,
		},
		Scene{
			Name: "R-pentomino collider",
			Stamps: []Stamp{
				{Pattern: rpent, At: Anchor{0.3, 0.35}, Jitter: core.Size{W: 6, H: 4}},
				{Pattern: rpent, At: Anchor{0.7, 0.65}, Jitter: core.Size{W: 6, H: 4}},
				{Pattern: rpent, At: Anchor{0.5, 0.5}, Jitter: core.Size{W: 6, H: 4}},
			},
		},
		Scene{
			Name:    "Primordial soup",
			Density: 100,
		},
	)
}
