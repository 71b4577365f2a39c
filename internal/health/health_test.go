package health

import (
	"image/color"
	"testing"
)

func TestHueSchedule(t *testing.T) {
	const m = 300
	tests := []struct {
		name string
		pop  int
		want uint8
	}{
		{"extinct", 0, 0},
		{"near death", 49, 0},
		{"recovering start", 50, 0},
		{"recovering mid", 175, 40},
		{"recovering end", 299, 79},
		{"thriving start", 300, 80},
		{"thriving end", 800, 80},
		{"crowding start", 801, 80},
		{"crowding mid", 1150, 109},
		{"overcrowded", 1500, 140},
		{"far overcrowded", 100000, 140},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Hue(tt.pop, m); got != tt.want {
				t.Errorf("Hue(%d) = %d, want %d", tt.pop, got, tt.want)
			}
		})
	}
}

func TestHueMonotone(t *testing.T) {
	for _, m := range []int{1, 7, 300, 5000} {
		prev := Hue(0, m)
		for pop := 1; pop <= 6*m; pop++ {
			h := Hue(pop, m)
			if h < prev {
				t.Fatalf("M=%d: hue dropped from %d to %d at pop %d", m, prev, h, pop)
			}
			prev = h
		}
	}
}

func TestValThresholds(t *testing.T) {
	const m = 300
	tests := []struct {
		pop, prev int
		want      uint8
	}{
		{100, 100, ValCalm},
		{100, 130, ValCalm},
		{131, 100, ValMoving},
		{100, 200, ValMoving},
		{201, 100, ValChurning},
		{0, 1000, ValChurning},
	}
	for _, tt := range tests {
		if got := Val(tt.pop, tt.prev, m); got != tt.want {
			t.Errorf("Val(%d,%d) = %d, want %d", tt.pop, tt.prev, got, tt.want)
		}
	}
}

func TestMapSaturation(t *testing.T) {
	c := Map(400, 400, 300)
	if c.Sat != 255 || c.Hue != HueThriving || c.Val != ValCalm {
		t.Fatalf("Map() = %+v", c)
	}
}

func TestRGB(t *testing.T) {
	tests := []struct {
		in   HSV
		want color.RGBA
	}{
		{HSV{Hue: 0, Sat: 255, Val: 40}, color.RGBA{R: 40, A: 255}},
		{HSV{Hue: 80, Sat: 255, Val: 8}, color.RGBA{G: 8, A: 255}},
		{HSV{Hue: 140, Sat: 255, Val: 40}, color.RGBA{G: 28, B: 40, A: 255}},
		{HSV{Hue: 10, Sat: 0, Val: 200}, color.RGBA{R: 200, G: 200, B: 200, A: 255}},
		{HSV{Hue: 255, Sat: 255, Val: 0}, color.RGBA{A: 255}},
	}
	for _, tt := range tests {
		if got := tt.in.RGB(); got != tt.want {
			t.Errorf("%+v.RGB() = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}
