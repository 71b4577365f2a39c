package device

import (
	"image"
	"sync"

	"lifeboard/internal/core"
)

// Framebuffer is an in-memory monochrome display. Drawing goes to a back
// buffer; Flush publishes it to the front buffer that readers observe.
type Framebuffer struct {
	mu     sync.RWMutex
	back   *core.ByteGrid
	front  *core.ByteGrid
	frames uint64
}

// NewFramebuffer allocates a framebuffer of the given size.
func NewFramebuffer(size core.Size) *Framebuffer {
	return &Framebuffer{
		back:  core.NewByteGrid(size.W, size.H),
		front: core.NewByteGrid(size.W, size.H),
	}
}

// Size returns the display dimensions.
func (f *Framebuffer) Size() core.Size { return core.Size{W: f.back.W, H: f.back.H} }

// Clear blanks the back buffer.
func (f *Framebuffer) Clear() { f.back.Clear() }

// SetPixel writes one pixel of the back buffer. Out-of-range pixels are
// ignored.
func (f *Framebuffer) SetPixel(x, y int, on bool) {
	var v uint8
	if on {
		v = 1
	}
	f.back.Set(x, y, v)
}

// Flush publishes the back buffer.
func (f *Framebuffer) Flush() error {
	f.mu.Lock()
	f.front.CopyFrom(f.back)
	f.frames++
	f.mu.Unlock()
	return nil
}

// Frames returns how many times the framebuffer was flushed.
func (f *Framebuffer) Frames() uint64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.frames
}

// Packed returns the last flushed frame as a row-major bitmap with eight
// pixels per byte, leftmost pixel in the least significant bit. dst is reused
// when large enough.
func (f *Framebuffer) Packed(dst []byte) []byte {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.front.Pack(dst)
}

// CopyFront copies the last flushed frame into dst, which must have the same
// size.
func (f *Framebuffer) CopyFront(dst *core.ByteGrid) {
	f.mu.RLock()
	dst.CopyFrom(f.front)
	f.mu.RUnlock()
}

// Image returns the last flushed frame as a grayscale image with lit pixels
// white.
func (f *Framebuffer) Image() *image.Gray {
	f.mu.RLock()
	defer f.mu.RUnlock()
	img := image.NewGray(image.Rect(0, 0, f.front.W, f.front.H))
	for i, v := range f.front.Cells() {
		if v != 0 {
			img.Pix[i] = 0xff
		}
	}
	return img
}

// At reports whether pixel (x, y) of the last flushed frame is lit.
func (f *Framebuffer) At(x, y int) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.front.At(x, y) != 0
}

var _ Display = (*Framebuffer)(nil)
