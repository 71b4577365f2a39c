package viewport

import (
	"testing"

	"lifeboard/pkg/core"
	"lifeboard/pkg/pattern"
	"lifeboard/pkg/sims/life"
)

func largeConfig() Config {
	return Config{
		World:  core.Size{W: 512, H: 256},
		Screen: core.Size{W: 128, H: 64},
		Tile:   core.Size{W: 32, H: 16},
	}
}

func TestDelta(t *testing.T) {
	tests := []struct {
		x, t, n, want int
	}{
		{0, 0, 512, 0},
		{10, 20, 512, 10},
		{20, 10, 512, -10},
		{2, 510, 512, -4},
		{510, 2, 512, 4},
		{0, 256, 512, -256},
	}
	for _, tt := range tests {
		if got := delta(tt.x, tt.t, tt.n); got != tt.want {
			t.Errorf("delta(%d,%d,%d) = %d, want %d", tt.x, tt.t, tt.n, got, tt.want)
		}
	}
}

func TestResetSeeksOnNextTick(t *testing.T) {
	v := New(largeConfig())
	if v.X != 0 || v.Y != 0 || v.Moving() {
		t.Fatalf("unexpected initial state %+v", v)
	}
	grid := life.NewDense(512, 256)
	grid.Stamp(pattern.Parse(pattern.Glider), 300, 200)
	v.Update(grid, core.NewXorShift32(5))
	if !v.Moving() {
		t.Fatal("viewport should be moving after the initial seek")
	}
	if v.X != 0 || v.Y != 0 {
		t.Fatal("viewport must not move on the tick it picks a target")
	}
}

func TestRetargetPicksPopulatedTile(t *testing.T) {
	grid := life.NewDense(512, 256)
	// Block inside tile (3, 4): x 96..127, y 64..79.
	grid.Set(100, 70)
	grid.Set(101, 70)
	grid.Set(100, 71)
	grid.Set(101, 71)
	v := New(largeConfig())
	rng := core.NewXorShift32(42)
	for i := 0; i < 50; i++ {
		v.Retarget(grid, rng)
		if v.TargetX < 96 || v.TargetX >= 128 || v.TargetY < 64 || v.TargetY >= 80 {
			t.Fatalf("target (%d,%d) outside the only populated tile", v.TargetX, v.TargetY)
		}
	}
}

func TestRetargetEmptyWorldFallsBackToUniform(t *testing.T) {
	grid := life.NewDense(512, 256)
	v := New(largeConfig())
	rng := core.NewXorShift32(7)
	seen := map[bool]bool{}
	for i := 0; i < 200; i++ {
		v.Retarget(grid, rng)
		if v.TargetX < 0 || v.TargetX >= 512 || v.TargetY < 0 || v.TargetY >= 256 {
			t.Fatalf("target (%d,%d) out of range", v.TargetX, v.TargetY)
		}
		seen[v.TargetX >= 256] = true
	}
	if !seen[true] || !seen[false] {
		t.Fatal("uniform fallback never covered both halves of the world")
	}
}

func TestMovesOneCellAndWraps(t *testing.T) {
	v := New(largeConfig())
	v.X, v.Y = 2, 1
	v.TargetX, v.TargetY = 510, 1
	v.Linger = 0
	rng := core.NewXorShift32(1)
	grid := life.NewDense(512, 256)

	v.Update(grid, rng)
	if v.X != 1 || v.Y != 1 {
		t.Fatalf("after one tick at (%d,%d), want (1,1)", v.X, v.Y)
	}
	v.Update(grid, rng)
	v.Update(grid, rng)
	if v.X != 511 {
		t.Fatalf("expected wrap to 511, got %d", v.X)
	}
}

func TestArrivalStartsLinger(t *testing.T) {
	v := New(largeConfig())
	v.X, v.Y = 40, 30
	v.TargetX, v.TargetY = 40, 30
	v.Linger = 0
	v.Update(life.NewDense(512, 256), core.NewXorShift32(9))
	if v.Linger < DefaultLingerMin || v.Linger > DefaultLingerMax {
		t.Fatalf("linger = %d, want within [%d,%d]", v.Linger, DefaultLingerMin, DefaultLingerMax)
	}
	if v.X != 40 || v.Y != 30 {
		t.Fatal("viewport moved on arrival")
	}
}

func TestLongRunInvariants(t *testing.T) {
	grid := life.NewDense(512, 256)
	grid.Scatter(core.NewXorShift32(11), 40)
	torus := life.NewTorus(512, 256)
	torus.Current().CopyFrom(grid)

	v := New(largeConfig())
	rng := core.NewXorShift32(3)
	lingered := false
	for i := 0; i < 3000; i++ {
		px, py := v.X, v.Y
		v.Update(torus.Current(), rng)
		if abs(delta(px, v.X, 512)) > 1 || abs(delta(py, v.Y, 256)) > 1 {
			t.Fatalf("tick %d jumped from (%d,%d) to (%d,%d)", i, px, py, v.X, v.Y)
		}
		if v.Linger > DefaultLingerMax || v.Linger < 0 {
			t.Fatalf("linger %d out of range", v.Linger)
		}
		if v.Linger >= DefaultLingerMin {
			lingered = true
		}
		ox, oy := v.Origin()
		if ox < 0 || ox >= 512 || oy < 0 || oy >= 256 {
			t.Fatalf("origin (%d,%d) outside world", ox, oy)
		}
		if i%10 == 0 {
			torus.Step()
		}
	}
	if !lingered {
		t.Fatal("viewport never reached a target")
	}
}

func TestOriginIsAnchoredAtPosition(t *testing.T) {
	v := New(largeConfig())
	if x, y := v.Origin(); x != 0 || y != 0 {
		t.Fatalf("initial Origin() = (%d,%d), want (0,0)", x, y)
	}
	v.X, v.Y = 100, 40
	if x, y := v.Origin(); x != 100 || y != 40 {
		t.Fatalf("Origin() = (%d,%d), want (100,40)", x, y)
	}

	// Walk left across the seam and check the window follows the wrapped position.
	v.X, v.Y = 1, 0
	v.TargetX, v.TargetY = 509, 255
	v.Linger = 0
	grid := life.NewDense(512, 256)
	rng := core.NewXorShift32(1)
	for i := 0; i < 3; i++ {
		v.Update(grid, rng)
		x, y := v.Origin()
		if x != v.X || y != v.Y {
			t.Fatalf("tick %d: Origin() = (%d,%d), position (%d,%d)", i, x, y, v.X, v.Y)
		}
	}
	if v.X != 510 || v.Y != 255 {
		t.Fatalf("position (%d,%d), want (510,255)", v.X, v.Y)
	}
}

// tileCounts serves fixed populations keyed by tile coordinate.
type tileCounts map[[2]int]int

func (c tileCounts) TilePopulation(tx, ty, _, _ int) int { return c[[2]int{tx, ty}] }

// seedFor returns a seed whose first Intn(total) draw is want.
func seedFor(t *testing.T, total, want int) uint32 {
	t.Helper()
	for s := uint32(1); s < 1<<16; s += 2 {
		if core.NewXorShift32(s).Intn(total) == want {
			return s
		}
	}
	t.Fatalf("no seed draws %d from [0,%d)", want, total)
	return 0
}

func TestRetargetWeightedWalk(t *testing.T) {
	// 4x2 tiles of one cell each. Row-major order visits (1,0) before (0,1).
	cfg := Config{
		World:  core.Size{W: 4, H: 2},
		Screen: core.Size{W: 4, H: 2},
		Tile:   core.Size{W: 1, H: 1},
	}
	pops := tileCounts{{1, 0}: 2, {0, 1}: 3}
	tests := []struct {
		threshold int
		wantX     int
		wantY     int
	}{
		{0, 1, 0},
		{1, 1, 0},
		// Equal to the first tile's count: the remainder no longer exceeds it.
		{2, 0, 1},
		{4, 0, 1},
	}
	for _, tt := range tests {
		v := New(cfg)
		v.Retarget(pops, core.NewXorShift32(seedFor(t, 5, tt.threshold)))
		if v.TargetX != tt.wantX || v.TargetY != tt.wantY {
			t.Errorf("threshold %d: target (%d,%d), want (%d,%d)", tt.threshold, v.TargetX, v.TargetY, tt.wantX, tt.wantY)
		}
		if !v.Moving() {
			t.Errorf("threshold %d: viewport not seeking after Retarget", tt.threshold)
		}
	}
}

func TestRetargetOffsetStaysInTile(t *testing.T) {
	pops := tileCounts{{2, 1}: 7, {3, 1}: 7}
	v := New(largeConfig())
	seed := seedFor(t, 14, 7)
	v.Retarget(pops, core.NewXorShift32(seed))
	// Tile (3,1) covers x 96..127, y 16..31.
	if v.TargetX < 96 || v.TargetX >= 128 || v.TargetY < 16 || v.TargetY >= 32 {
		t.Fatalf("target (%d,%d) outside tile (3,1)", v.TargetX, v.TargetY)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
