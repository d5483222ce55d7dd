// Package daisychain implements the Z80 peripheral interrupt daisy chain:
// a priority-ordered list of peripherals, each of which can request an
// interrupt, and exactly one of which (the highest-priority device with a
// pending request) answers an interrupt-acknowledge cycle by placing its
// vector byte on the data bus.
//
// On real KC85 hardware the CTC sits ahead of the PIO in the chain, so a
// pending CTC interrupt always wins arbitration over a pending PIO
// interrupt raised in the same cycle.
package daisychain

import "github.com/kc85emu/core/pins"

// Peripheral is any chip that participates in the daisy chain.
type Peripheral interface {
	// IRQ reports whether this peripheral currently has an interrupt
	// request pending.
	IRQ() bool

	// IEO reports the peripheral's own interrupt-enable-out state: false
	// while it is itself mid-service (between acknowledging an interrupt
	// and the matching RETI), which blocks every lower-priority device in
	// the chain from being acknowledged.
	IEO() bool

	// Acknowledge is called on the single peripheral selected to answer an
	// interrupt-acknowledge cycle; it returns the vector byte to place on
	// the data bus and marks the peripheral as mid-service.
	Acknowledge() uint8

	// RETI notifies every peripheral in the chain that a RETI instruction
	// has been executed; the peripheral that is mid-service (if any) ends
	// its service state in response.
	RETI()
}

// Chain is an ordered list of peripherals, highest priority first.
type Chain struct {
	peripherals []Peripheral
}

// NewChain creates a Chain from peripherals in priority order (index 0 is
// highest priority).
func NewChain(peripherals ...Peripheral) *Chain {
	return &Chain{peripherals: peripherals}
}

// IRQ reports whether any peripheral in the chain has a pending request,
// for driving the shared INT line into the CPU.
func (ch *Chain) IRQ() bool {
	for _, p := range ch.peripherals {
		if p.IRQ() {
			return true
		}
	}
	return false
}

// Acknowledge walks the chain in priority order and lets the first
// peripheral with IRQ() true answer the interrupt-acknowledge cycle,
// provided its own IEO() and every higher-priority device's IEO() are
// true. It returns the vector byte and true, or (0, false) if the walk
// reaches a device whose IEO() is false first, or if no peripheral in the
// chain is requesting.
func (ch *Chain) Acknowledge() (uint8, bool) {
	for _, p := range ch.peripherals {
		if !p.IEO() {
			// a higher-priority device is mid-service: the chain is
			// blocked below this point.
			return 0, false
		}
		if p.IRQ() {
			return p.Acknowledge(), true
		}
	}
	return 0, false
}

// RETI broadcasts a RETI signal to every peripheral in the chain.
func (ch *Chain) RETI() {
	for _, p := range ch.peripherals {
		p.RETI()
	}
}

// Tick is a convenience wrapper suitable for direct use as the handler a
// system integration layer calls when it sees pins.M1()+pins.IORQ() (the
// interrupt-acknowledge cycle) or pins.RETI() asserted.
func (ch *Chain) Tick(p pins.Pins) pins.Pins {
	if p.RETI() {
		ch.RETI()
		return p
	}
	if p.M1() && p.IORQ() {
		if vector, ok := ch.Acknowledge(); ok {
			return p.WithData(vector)
		}
	}
	return p
}
