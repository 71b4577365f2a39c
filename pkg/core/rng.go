package core

// XorShift32 is the 32-bit xorshift generator used for scene noise and
// viewport targeting. The state is never zero.
type XorShift32 struct {
	state uint32
}

// NewXorShift32 creates a generator from seed. A zero seed is forced odd so the
// generator never sits on its zero fixed point.
func NewXorShift32(seed uint32) *XorShift32 {
	return &XorShift32{state: seed | 1}
}

// SeedFromTimer derives a non-zero seed from a monotonic timer reading.
func SeedFromTimer(ticks uint64) uint32 {
	return uint32(ticks^(ticks>>32)) | 1
}

// Seed replaces the generator state.
func (r *XorShift32) Seed(seed uint32) {
	r.state = seed | 1
}

// State exposes the current state word.
func (r *XorShift32) State() uint32 { return r.state }

// Next advances the generator and returns the new state.
func (r *XorShift32) Next() uint32 {
	x := r.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	r.state = x
	return x
}

// Intn returns a value in [0, n). It returns 0 when n <= 0.
func (r *XorShift32) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(uint64(r.Next()) % uint64(n))
}

// Range returns a value in [lo, hi] inclusive.
func (r *XorShift32) Range(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.Intn(hi-lo+1)
}

// Chance reports true with probability density/256.
func (r *XorShift32) Chance(density uint8) bool {
	return uint8(r.Next()) < density
}
