package pattern

import "sort"

// Glider moves one cell diagonally every four generations.
const Glider = `.O.
..O
OOO`

// GosperGun emits a new glider every 30 generations.
const GosperGun = `........................O...........
......................O.O...........
............OO......OO............OO
...........O...O....OO............OO
OO........O.....O...OO..............
OO........O...O.OO....O.O...........
..........O.....O.......O...........
...........O...O....................
............OO......................`

// RPentomino is a five-cell methuselah with long chaotic evolution.
const RPentomino = `.OO
OO.
.O.`

// LWSS is the lightweight spaceship; it travels horizontally.
const LWSS = `.O..O
O....
O...O
OOOO.`

// Pulsar is a period-3 oscillator.
const Pulsar = `..OOO...OOO..
.............
O....O.O....O
O....O.O....O
O....O.O....O
..OOO...OOO..
.............
..OOO...OOO..
O....O.O....O
O....O.O....O
O....O.O....O
.............
..OOO...OOO..`

// Entry is a registered pattern together with the anchor the host simulator
// stamps it at.
type Entry struct {
	Name    string
	Pattern Pattern
	Row     int64
	Col     int64
}

var entries = map[string]Entry{}

// Register adds a named pattern. Empty names are ignored.
func Register(name, text string, row, col int64) {
	if name == "" {
		return
	}
	entries[name] = Entry{Name: name, Pattern: Parse(text), Row: row, Col: col}
}

// Lookup returns the pattern registered under name.
func Lookup(name string) (Entry, bool) {
	e, ok := entries[name]
	return e, ok
}

// Names lists registered pattern names in host CLI order.
func Names() []string {
	names := make([]string, 0, len(entries))
	for n := range entries {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		oi, oj := order(names[i]), order(names[j])
		if oi != oj {
			return oi < oj
		}
		return names[i] < names[j]
	})
	return names
}

var cliOrder = []string{"glider", "gun", "rpent", "lwss", "pulsar"}

func order(name string) int {
	for i, n := range cliOrder {
		if n == name {
			return i
		}
	}
	return len(cliOrder)
}

// Anchors centre the small patterns in a 40x80 terminal viewport.
func init() {
	Register("glider", Glider, 10, 20)
	Register("gun", GosperGun, 2, 2)
	Register("rpent", RPentomino, 20, 40)
	Register("lwss", LWSS, 20, 4)
	Register("pulsar", Pulsar, 14, 34)
}
