package scene

import (
	"slices"
	"testing"

	"lifeboard/pkg/core"
	"lifeboard/pkg/pattern"
	"lifeboard/pkg/sims/life"
)

func TestDefaultNames(t *testing.T) {
	want := []string{
		"R-pentomino + soup",
		"Gosper Gun + chaos",
		"Random soup",
		"Armada",
		"Pulsar garden",
		"R-pentomino collider",
		"Primordial soup",
	}
	table := Default()
	if !slices.Equal(table.Names(), want) {
		t.Fatalf("Names() = %v", table.Names())
	}
	if table.Name(7) != want[0] || table.Name(-1) != want[6] {
		t.Fatal("Name() should wrap the index")
	}
}

func TestEveryScenePopulatesBothWorlds(t *testing.T) {
	table := Default()
	screen := core.Size{W: 128, H: 64}
	for _, world := range []core.Size{{W: 128, H: 64}, {W: 512, H: 256}} {
		grid := life.NewDense(world.W, world.H)
		for i := 0; i < table.Len(); i++ {
			name := table.Load(grid, i, core.NewXorShift32(77), screen)
			if name != table.Name(i) {
				t.Fatalf("Load returned %q for scene %d", name, i)
			}
			if grid.Population() == 0 {
				t.Fatalf("%dx%d scene %q is empty", world.W, world.H, name)
			}
		}
	}
}

func TestLoadIsDeterministic(t *testing.T) {
	table := Default()
	a := life.NewDense(128, 64)
	b := life.NewDense(128, 64)
	for i := 0; i < table.Len(); i++ {
		table.Load(a, i, core.NewXorShift32(1234), core.Size{W: 128, H: 64})
		table.Load(b, i, core.NewXorShift32(1234), core.Size{W: 128, H: 64})
		if !a.Equal(b) {
			t.Fatalf("scene %d differs for identical seeds", i)
		}
	}
}

func TestLoadClearsPreviousContents(t *testing.T) {
	table := New(Scene{Name: "lone glider", Stamps: []Stamp{{Pattern: pattern.Parse(pattern.Glider), At: Anchor{0.5, 0.5}}}})
	grid := life.NewDense(32, 16)
	grid.Scatter(core.NewXorShift32(9), 200)
	table.Load(grid, 0, core.NewXorShift32(1), core.Size{W: 32, H: 16})
	if grid.Population() != 5 {
		t.Fatalf("population = %d, want exactly the glider", grid.Population())
	}
	if !grid.Get(17, 8) || !grid.Get(18, 9) || !grid.Get(16, 10) {
		t.Fatal("glider not stamped at the block centre")
	}
}

func TestStampsRepeatPerBlock(t *testing.T) {
	table := New(Scene{Name: "pulsar", Stamps: []Stamp{{Pattern: pattern.Parse(pattern.Pulsar), At: Anchor{0.25, 0.25}}}})
	grid := life.NewDense(512, 256)
	table.Load(grid, 0, core.NewXorShift32(1), core.Size{W: 128, H: 64})
	if got, want := grid.Population(), 16*48; got != want {
		t.Fatalf("population = %d, want %d (one pulsar per block)", got, want)
	}
}

func TestSoupDensityClasses(t *testing.T) {
	table := Default()
	grid := life.NewDense(512, 256)
	load := func(idx int) float64 {
		table.Load(grid, idx, core.NewXorShift32(3), core.Size{W: 128, H: 64})
		return float64(grid.Population()) / float64(512*256)
	}
	random := load(2)
	primordial := load(6)
	if random < 0.2 || random > 0.3 {
		t.Fatalf("Random soup density = %.3f, want about 64/256", random)
	}
	if primordial < 0.35 || primordial > 0.43 {
		t.Fatalf("Primordial soup density = %.3f, want about 100/256", primordial)
	}
}
