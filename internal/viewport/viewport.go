// Package viewport pans a screen-sized window across a larger torus, drifting
// toward regions with many live cells.
package viewport

import "lifeboard/pkg/core"

// TilePopulator reports how many live cells a tile holds.
type TilePopulator interface {
	TilePopulation(tx, ty, tileW, tileH int) int
}

// Config describes the world the viewport moves over.
type Config struct {
	World  core.Size
	Screen core.Size
	Tile   core.Size
	// LingerMin and LingerMax bound the number of ticks spent resting on a
	// target, inclusive.
	LingerMin int
	LingerMax int
}

// Default linger bounds in ticks.
const (
	DefaultLingerMin = 60
	DefaultLingerMax = 120
)

// Viewport tracks the focus point (X, Y) and where it is heading. It moves one
// cell per axis per tick while Linger is zero and rests otherwise.
type Viewport struct {
	X, Y             int
	TargetX, TargetY int
	Linger           int

	cfg Config
}

// New creates a viewport in its initial state.
func New(cfg Config) *Viewport {
	if cfg.LingerMin <= 0 {
		cfg.LingerMin = DefaultLingerMin
	}
	if cfg.LingerMax < cfg.LingerMin {
		cfg.LingerMax = max(DefaultLingerMax, cfg.LingerMin)
	}
	if cfg.Tile.W <= 0 || cfg.Tile.H <= 0 {
		cfg.Tile = cfg.Screen
	}
	v := &Viewport{cfg: cfg}
	v.Reset()
	return v
}

// Config returns the configuration after defaults were applied.
func (v *Viewport) Config() Config { return v.cfg }

// Reset returns to the initial state: focus and target at the world origin,
// with a one tick linger so the next Update seeks.
func (v *Viewport) Reset() {
	v.X, v.Y = 0, 0
	v.TargetX, v.TargetY = 0, 0
	v.Linger = 1
}

// Moving reports whether the viewport is travelling toward its target.
func (v *Viewport) Moving() bool { return v.Linger == 0 }

// Origin returns the top-left world coordinate of the visible window. The
// window is anchored at the viewport position.
func (v *Viewport) Origin() (int, int) {
	return v.X, v.Y
}

// Update advances the viewport by one tick.
func (v *Viewport) Update(g TilePopulator, rng *core.XorShift32) {
	if v.Linger > 0 {
		v.Linger--
		if v.Linger == 0 {
			v.Retarget(g, rng)
		}
		return
	}
	dx := delta(v.X, v.TargetX, v.cfg.World.W)
	dy := delta(v.Y, v.TargetY, v.cfg.World.H)
	if dx == 0 && dy == 0 {
		v.Linger = rng.Range(v.cfg.LingerMin, v.cfg.LingerMax)
		return
	}
	v.X = wrap(v.X+sign(dx), v.cfg.World.W)
	v.Y = wrap(v.Y+sign(dy), v.cfg.World.H)
}

// Retarget picks a new target, weighting every tile by its population. An
// empty world falls back to a uniformly random target. The viewport starts
// moving on the next tick.
func (v *Viewport) Retarget(g TilePopulator, rng *core.XorShift32) {
	tw, th := v.cfg.Tile.W, v.cfg.Tile.H
	nx := (v.cfg.World.W + tw - 1) / tw
	ny := (v.cfg.World.H + th - 1) / th

	pops := make([]int, nx*ny)
	total := 0
	for ty := 0; ty < ny; ty++ {
		for tx := 0; tx < nx; tx++ {
			n := g.TilePopulation(tx, ty, tw, th)
			pops[ty*nx+tx] = n
			total += n
		}
	}
	v.Linger = 0
	if total == 0 {
		v.TargetX = rng.Intn(v.cfg.World.W)
		v.TargetY = rng.Intn(v.cfg.World.H)
		return
	}

	threshold := rng.Intn(total)
	pick := len(pops) - 1
	for i, n := range pops {
		if n > threshold {
			pick = i
			break
		}
		threshold -= n
	}
	tx, ty := pick%nx, pick/nx
	v.TargetX = wrap(tx*tw+rng.Intn(tw), v.cfg.World.W)
	v.TargetY = wrap(ty*th+rng.Intn(th), v.cfg.World.H)
}

// delta is the signed shortest distance from x to t on a ring of size n.
// Exact half-way ties resolve to -n/2.
func delta(x, t, n int) int {
	if n <= 0 {
		return 0
	}
	return wrap(wrap(t-x, n)+n/2, n) - n/2
}

func wrap(x, n int) int {
	if n <= 0 {
		return 0
	}
	return (x%n + n) % n
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
