package render

import (
	"bytes"
	"image/color"
	"slices"
	"strings"
	"testing"

	"lifeboard/internal/core"
	"lifeboard/internal/device"
	"lifeboard/pkg/pattern"
	"lifeboard/pkg/sims/life"
)

func TestTerminalFrameLayout(t *testing.T) {
	g := life.FromPattern(pattern.Glider, 0, 0)
	g.StepN(3)

	var out bytes.Buffer
	if err := NewTerminal().WriteFrame(&out, g); err != nil {
		t.Fatalf("WriteFrame() error: %v", err)
	}
	frame := out.String()
	header := "\x1b[H\x1b[J Generation: 3  Population: 5\n\n"
	if !strings.HasPrefix(frame, header) {
		t.Fatalf("frame header = %q", frame[:min(len(frame), len(header))])
	}
	footer := "\n Press Ctrl+C to quit.\n"
	if !strings.HasSuffix(frame, footer) {
		t.Fatal("frame footer missing")
	}
	body := strings.TrimSuffix(strings.TrimPrefix(frame, header), footer)
	rows := strings.Split(strings.TrimSuffix(body, "\n"), "\n")
	if len(rows) != TerminalRows {
		t.Fatalf("rows = %d, want %d", len(rows), TerminalRows)
	}
	alive := 0
	for r, row := range rows {
		runes := []rune(row)
		if len(runes) != TerminalCols {
			t.Fatalf("row %d has %d columns", r, len(runes))
		}
		for c, ch := range runes {
			if ch == '█' {
				alive++
				if !g.IsAlive(life.Cell{Row: int64(r), Col: int64(c)}) {
					t.Fatalf("cell (%d,%d) drawn but dead", r, c)
				}
			}
		}
	}
	if alive != g.Population() {
		t.Fatalf("drew %d cells, population %d", alive, g.Population())
	}
}

func TestTerminalFrameClipsToWindow(t *testing.T) {
	g := life.FromCells(life.Cell{Row: -1, Col: 0}, life.Cell{Row: 0, Col: 80}, life.Cell{Row: 39, Col: 79})
	frame := string(NewTerminal().Frame(nil, g))
	if strings.Count(frame, "█") != 1 {
		t.Fatalf("expected only the in-window cell, got %d", strings.Count(frame, "█"))
	}
}

func TestBlitWrapsWindow(t *testing.T) {
	g := life.NewDense(32, 16)
	g.Set(0, 0)
	g.Set(31, 15)
	fb := device.NewFramebuffer(core.Size{W: 8, H: 4})
	if err := Blit(fb, g, 28, 14); err != nil {
		t.Fatalf("Blit() error: %v", err)
	}
	// (31,15) lands at (3,1); (0,0) wraps to (4,2).
	if !fb.At(3, 1) || !fb.At(4, 2) {
		t.Fatal("wrapped cells not drawn")
	}
	lit := 0
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			if fb.At(x, y) {
				lit++
			}
		}
	}
	if lit != 2 {
		t.Fatalf("lit pixels = %d, want 2", lit)
	}
}

func TestFramebufferRGBA(t *testing.T) {
	buf := make([]byte, 8)
	FramebufferRGBA(buf, []uint8{1, 0}, color.White, color.RGBA{R: 1, G: 2, B: 3, A: 4})
	if !slices.Equal(buf, []byte{255, 255, 255, 255, 1, 2, 3, 4}) {
		t.Fatalf("FramebufferRGBA() = %v", buf)
	}
}

func TestHeatmapRGBAClampsCount(t *testing.T) {
	heat := []color.RGBA{{A: 255}, {R: 9, A: 255}}
	buf := make([]byte, 12)
	HeatmapRGBA(buf, []uint8{0, 1, 7}, heat)
	if !slices.Equal(buf, []byte{0, 0, 0, 255, 9, 0, 0, 255, 9, 0, 0, 255}) {
		t.Fatalf("HeatmapRGBA() = %v", buf)
	}
	HeatmapRGBA(buf, []uint8{0, 1, 7}, nil)
	if !slices.Equal(buf, make([]byte, 12)) {
		t.Fatal("empty heat palette should clear the buffer")
	}
}

func TestHeatmapOfDownsampledWorld(t *testing.T) {
	// 16x8 world in 4x4 blocks: block 0 empty, block 1 holds 2 cells, block 2 is full.
	g := life.NewDense(16, 8)
	g.Set(4, 0)
	g.Set(5, 1)
	for y := 0; y < 4; y++ {
		for x := 8; x < 12; x++ {
			g.Set(x, y)
		}
	}
	counts := make([]uint8, 8)
	w, h := Downsample(counts, g, 4)
	if w != 4 || h != 2 {
		t.Fatalf("Downsample() = %dx%d", w, h)
	}
	heat := make([]color.RGBA, 17)
	for i := range heat {
		heat[i] = color.RGBA{R: uint8(i), A: 255}
	}
	buf := make([]byte, 4*len(counts))
	HeatmapRGBA(buf, counts, heat)
	if buf[0] != 0 || buf[4] != 2 || buf[8] != 16 || buf[12] != 0 {
		t.Fatalf("heat reds = %d %d %d %d, want 0 2 16 0", buf[0], buf[4], buf[8], buf[12])
	}
}

func TestDownsample(t *testing.T) {
	g := life.NewDense(16, 8)
	g.Set(0, 0)
	g.Set(1, 1)
	g.Set(15, 7)
	dst := make([]uint8, 8)
	w, h := Downsample(dst, g, 4)
	if w != 4 || h != 2 {
		t.Fatalf("Downsample size = %dx%d", w, h)
	}
	if !slices.Equal(dst, []uint8{2, 0, 0, 0, 0, 0, 0, 1}) {
		t.Fatalf("Downsample() = %v", dst)
	}
}
