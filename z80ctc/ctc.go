// Package z80ctc implements the Zilog Z80 CTC (Counter/Timer Channels):
// four independent 8-bit down-counters, each configurable as a timer
// (prescaled from the system clock) or a counter (decrementing on an
// external trigger edge), each able to raise an interrupt and participate
// in the daisy chain.
package z80ctc

import "github.com/kc85emu/core/pins"

const numChannels = 4

// channel is one of the CTC's four counter/timer channels.
type channel struct {
	// control register bits, per the Z80 CTC datasheet.
	interruptEnabled bool
	mode             mode
	prescaler        int // 16 or 256, timer mode only
	edgeRising       bool
	triggerEnabled   bool // external start-trigger required before counting

	timeConstant uint8
	counter      int
	started      bool

	vector uint8 // interrupt vector, channel 0 only; others derive from it+2n

	irq        bool
	midService bool

	lastClkLine bool
}

type mode int

const (
	modeTimer mode = iota
	modeCounter
)

// CTC is a Z80 CTC with four channels, numbered 0 (highest daisy-chain
// priority) to 3.
type CTC struct {
	channels [numChannels]channel

	// awaitingTimeConstant tracks, per channel, whether the next byte
	// written to that channel's register is a time-constant rather than a
	// new control word (set whenever a control word with the
	// time-constant-follows bit is written).
	awaitingTimeConstant [numChannels]bool
}

// NewCTC returns a CTC with all channels disabled, matching power-on state.
func NewCTC() *CTC {
	return &CTC{}
}

// WriteChannel handles a CPU write to one of the four channel registers.
func (c *CTC) WriteChannel(ch int, v uint8) {
	cc := &c.channels[ch]

	if c.awaitingTimeConstant[ch] {
		cc.timeConstant = v
		c.awaitingTimeConstant[ch] = false
		cc.counter = int(v)
		if cc.mode == modeTimer && !cc.triggerEnabled {
			cc.started = true
		}
		return
	}

	if v&1 == 0 {
		// bit 0 clear: this is a vector-set word (channel 0 only on real
		// hardware, but harmless to accept on any channel here).
		cc.vector = v & 0xf8
		return
	}

	cc.interruptEnabled = v&0x80 != 0
	cc.mode = modeTimer
	if v&0x40 != 0 {
		cc.mode = modeCounter
	}
	cc.prescaler = 16
	if v&0x20 != 0 {
		cc.prescaler = 256
	}
	cc.edgeRising = v&0x10 != 0
	cc.triggerEnabled = v&0x08 != 0

	if v&0x02 != 0 {
		// software reset: stop counting until a new time constant arrives.
		cc.started = false
	}

	if v&0x04 != 0 {
		c.awaitingTimeConstant[ch] = true
	}
}

// ReadChannel returns the current down-counter value for ch, as the Z80
// CTC does on a channel register read.
func (c *CTC) ReadChannel(ch int) uint8 {
	return uint8(c.channels[ch].counter)
}

// TickChannel decrements ch's down-counter once for each of clkEdges
// system clock edges, used for channels in timer mode; counter-mode
// channels are driven instead by Trigger. The prescaler setting is
// recorded by WriteChannel but not applied here.
func (c *CTC) TickChannel(ch int, clkEdges int) {
	cc := &c.channels[ch]
	if cc.mode != modeTimer || !cc.started {
		return
	}
	for i := 0; i < clkEdges; i++ {
		cc.counter--
		if cc.counter < 0 {
			c.fire(ch)
		}
	}
}

// Trigger delivers one external clock/trigger edge to channel ch (used for
// counter-mode channels, and as the initial start trigger for timer-mode
// channels configured to require one).
func (c *CTC) Trigger(ch int, rising bool) {
	cc := &c.channels[ch]
	if rising != cc.edgeRising {
		return
	}

	if cc.mode == modeCounter {
		cc.counter--
		if cc.counter < 0 {
			c.fire(ch)
		}
		return
	}

	if cc.triggerEnabled && !cc.started {
		cc.started = true
	}
}

func (c *CTC) fire(ch int) {
	cc := &c.channels[ch]
	cc.counter = int(cc.timeConstant)
	if cc.interruptEnabled {
		cc.irq = true
	}
}

// IRQ reports whether any channel (in daisy-chain priority order, channel 0
// highest) has a pending interrupt.
func (c *CTC) IRQ() bool {
	for i := range c.channels {
		if c.channels[i].irq {
			return true
		}
	}
	return false
}

// IEO reports whether the CTC lets lower-priority daisy-chain devices
// through: true unless some channel is currently mid-service.
func (c *CTC) IEO() bool {
	for i := range c.channels {
		if c.channels[i].midService {
			return false
		}
	}
	return true
}

// Acknowledge answers an interrupt-acknowledge cycle on behalf of the
// highest-priority channel with a pending request.
func (c *CTC) Acknowledge() uint8 {
	for i := range c.channels {
		if c.channels[i].irq {
			c.channels[i].irq = false
			c.channels[i].midService = true
			return c.channels[0].vector + uint8(i)*2
		}
	}
	return c.channels[0].vector
}

// RETI ends mid-service state for whichever channel is currently mid
// service, in priority order (only one channel is ever mid-service at a
// time in practice).
func (c *CTC) RETI() {
	for i := range c.channels {
		if c.channels[i].midService {
			c.channels[i].midService = false
			return
		}
	}
}

// Tick implements the bus-facing side of the CTC: four consecutive I/O
// ports (selected by pins.CTCChannel), read/write per the Z80 CTC
// datasheet.
func (c *CTC) Tick(p pins.Pins) pins.Pins {
	if !p.IORQ() {
		return p
	}
	ch := p.CTCChannel()
	if p.WR() {
		c.WriteChannel(ch, p.Data())
		return p
	}
	if p.RD() {
		return p.WithData(c.ReadChannel(ch))
	}
	return p
}
