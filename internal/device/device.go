// Package device defines the peripherals the frame loop drives and provides
// in-memory implementations used by the headless runtime, the desktop
// emulator and tests.
package device

import (
	"errors"
	"image/color"
	"sync"
	"sync/atomic"
	"time"

	"lifeboard/internal/core"
)

// ErrBusLost reports that a peripheral bus stopped responding. Loops stop when
// a peripheral error wraps it; any other error is treated as a dropped frame.
var ErrBusLost = errors.New("device: bus lost")

// Display is a monochrome framebuffer that is drawn into and then flushed.
type Display interface {
	Size() core.Size
	Clear()
	SetPixel(x, y int, on bool)
	Flush() error
}

// LED is a single RGB status light.
type LED interface {
	Write(c color.RGBA) error
}

// Button reports the current level of a push button.
type Button interface {
	Pressed() bool
}

// Clock is a free running tick counter used to seed the PRNG.
type Clock interface {
	Ticks() uint64
}

// MemoryLED keeps the last color written to it.
type MemoryLED struct {
	mu     sync.RWMutex
	color  color.RGBA
	writes uint64
}

// Write stores c.
func (l *MemoryLED) Write(c color.RGBA) error {
	l.mu.Lock()
	l.color = c
	l.writes++
	l.mu.Unlock()
	return nil
}

// Color returns the last written color and how many writes happened.
func (l *MemoryLED) Color() (color.RGBA, uint64) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.color, l.writes
}

// LatchButton turns asynchronous press events, such as signals or network
// requests, into a level the frame loop can sample. Presses arriving between
// two samples coalesce into one.
type LatchButton struct {
	pending atomic.Bool
}

// Press latches one press.
func (b *LatchButton) Press() {
	b.pending.Store(true)
}

// Pressed reports whether a press is latched and consumes it.
func (b *LatchButton) Pressed() bool {
	return b.pending.Swap(false)
}

// FuncButton adapts a level function to Button.
type FuncButton func() bool

// Pressed calls f.
func (f FuncButton) Pressed() bool { return f() }

// MonotonicClock counts nanoseconds since it was created.
type MonotonicClock struct {
	start time.Time
}

// NewMonotonicClock starts a clock at zero.
func NewMonotonicClock() *MonotonicClock {
	return &MonotonicClock{start: time.Now()}
}

// Ticks returns elapsed nanoseconds.
func (c *MonotonicClock) Ticks() uint64 {
	return uint64(time.Since(c.start))
}
