package ui

import (
	"image/color"
	"slices"
	"testing"
)

func TestLines(t *testing.T) {
	got := Lines(BoardState{
		Scene:      "Armada",
		SceneIndex: 3,
		Scenes:     7,
		Generation: 42,
		Population: 118,
		LED:        color.RGBA{R: 0, G: 8, B: 255, A: 255},
		ViewX:      36,
		ViewY:      8,
	})
	want := []string{
		"Scene 4/7",
		"Armada",
		"Gen   42",
		"Pop   118",
		"LED   #0008ff",
		"View  36,8",
	}
	if !slices.Equal(got, want) {
		t.Fatalf("Lines() = %q, want %q", got, want)
	}
	paused := Lines(BoardState{Paused: true})
	if paused[len(paused)-1] != "PAUSED" {
		t.Fatalf("paused state not shown: %q", paused)
	}
}

func TestMinimapFactor(t *testing.T) {
	tests := []struct {
		w, h, max int
		want      int
	}{
		{128, 64, 200, 1},
		{128, 64, 64, 2},
		{512, 256, 200, 4},
		{512, 256, 100, 8},
		{96, 48, 10, 16},
	}
	for _, tt := range tests {
		if got := MinimapFactor(tt.w, tt.h, tt.max); got != tt.want {
			t.Fatalf("MinimapFactor(%d, %d, %d) = %d, want %d", tt.w, tt.h, tt.max, got, tt.want)
		}
	}
}

func TestMinimapPalette(t *testing.T) {
	p := MinimapPalette(4)
	if len(p) != 17 {
		t.Fatalf("palette length = %d, want 17", len(p))
	}
	if p[0].A != 0 {
		t.Fatal("empty blocks must be transparent")
	}
	for i := 1; i < len(p); i++ {
		if p[i].A != 255 || p[i].R < p[i-1].R {
			t.Fatalf("palette entry %d = %v not increasing in heat", i, p[i])
		}
	}
}
