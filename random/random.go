// Package random provides a deterministic xorshift64 byte generator seeded
// from a Clock. Two Random instances seeded with the same clock value
// produce the same sequence. The kc85 package does not use it; emulated
// RAM starts zero-filled.
package random

// Clock is the entropy source a Random draws its seed from: whatever tick
// count the caller supplies, not a wall-clock.
type Clock interface {
	CurrentTick() uint64
}

// Random is an xorshift64 generator seeded from a Clock. The zero value is
// not usable; construct with NewRandom.
type Random struct {
	// ZeroSeed forces the seed to a fixed, non-zero constant instead of
	// reading clk, for tests that need two generators to agree regardless
	// of what the clock reports.
	ZeroSeed bool

	clk   Clock
	state uint64
}

// NewRandom creates a Random that seeds itself from clk the first time a
// draw is requested.
func NewRandom(clk Clock) *Random {
	return &Random{clk: clk}
}

func (r *Random) seedIfRequired() {
	if r.state != 0 {
		return
	}
	if r.ZeroSeed {
		r.state = 0x2545f4914f6cdd1d
		return
	}
	seed := r.clk.CurrentTick()
	if seed == 0 {
		seed = 0x2545f4914f6cdd1d
	}
	r.state = seed
}

// next advances the xorshift64 state and returns the new value.
func (r *Random) next() uint64 {
	r.seedIfRequired()
	r.state ^= r.state << 13
	r.state ^= r.state >> 7
	r.state ^= r.state << 17
	return r.state
}

// Rewindable returns a byte derived from the nth draw of the sequence
// counted from the current state, without disturbing that state; repeated
// calls with the same n return the same byte until NoRewind advances it.
func (r *Random) Rewindable(n int) uint8 {
	r.seedIfRequired()
	saved := r.state
	var v uint64
	for i := 0; i < n; i++ {
		v = r.next()
	}
	r.state = saved
	return uint8(v)
}

// NoRewind draws the next byte in the sequence, advancing the generator's
// state permanently, so no draw is ever repeated; consecutive bytes are
// not guaranteed to differ.
func (r *Random) NoRewind() uint8 {
	return uint8(r.next())
}
