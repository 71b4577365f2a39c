// Package health maps colony population to the status LED color.
package health

import "image/color"

// Hue stops on the 0..255 color wheel.
const (
	HueDying    = 0
	HueThriving = 80
	HueCrowded  = 140
)

// Brightness levels for small, moderate and large population swings.
const (
	ValCalm     = 8
	ValMoving   = 20
	ValChurning = 40
)

// HSV is an 8-bit hue/saturation/value triple; hue covers the full circle in
// 0..255.
type HSV struct {
	Hue, Sat, Val uint8
}

// Map returns the LED color for the current population pop, the previous
// frame's population prev and the thriving midpoint m.
func Map(pop, prev, m int) HSV {
	return HSV{Hue: Hue(pop, m), Sat: 255, Val: Val(pop, prev, m)}
}

// Hue is red near extinction, green while thriving and cyan when overcrowded,
// interpolating linearly between the stops.
func Hue(pop, m int) uint8 {
	if m <= 0 {
		return HueDying
	}
	low := m / 6
	crowd := m * 267 / 100
	full := 5 * m
	switch {
	case pop < low:
		return HueDying
	case pop < m:
		return uint8(HueThriving * (pop - low) / (m - low))
	case pop < crowd:
		return HueThriving
	case pop < full:
		return uint8(HueThriving + (HueCrowded-HueThriving)*(pop-crowd)/(full-crowd))
	default:
		return HueCrowded
	}
}

// Val brightens the LED when the population swings between frames.
func Val(pop, prev, m int) uint8 {
	delta := pop - prev
	if delta < 0 {
		delta = -delta
	}
	switch {
	case delta > m/3:
		return ValChurning
	case delta > m/10:
		return ValMoving
	default:
		return ValCalm
	}
}

// RGB converts to 8-bit RGB with the six-sector integer scheme used by
// WS2812 driver stacks.
func (c HSV) RGB() color.RGBA {
	v := uint16(c.Val)
	s := uint16(c.Sat)
	f := (uint16(c.Hue) * 2 % 85) * 3

	p := uint8(v * (255 - s) / 255)
	q := uint8(v * (255 - (s*f)/255) / 255)
	t := uint8(v * (255 - (s*(255-f))/255) / 255)
	val := uint8(v)

	switch {
	case c.Hue < 43:
		return color.RGBA{R: val, G: t, B: p, A: 255}
	case c.Hue < 85:
		return color.RGBA{R: q, G: val, B: p, A: 255}
	case c.Hue < 128:
		return color.RGBA{R: p, G: val, B: t, A: 255}
	case c.Hue < 170:
		return color.RGBA{R: p, G: q, B: val, A: 255}
	case c.Hue < 213:
		return color.RGBA{R: t, G: p, B: val, A: 255}
	case c.Hue < 255:
		return color.RGBA{R: val, G: p, B: q, A: 255}
	default:
		return color.RGBA{R: val, G: t, B: p, A: 255}
	}
}
