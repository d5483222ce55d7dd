// Package z80pio implements the Zilog Z80 PIO (Parallel Input/Output): two
// independent 8-bit ports, each configurable in byte input, byte output,
// bidirectional or bit-control mode, each able to raise an interrupt on a
// configured input pattern and participate in the daisy chain below the
// CTC, as KC85 machines wire it.
package z80pio

import "github.com/kc85emu/core/pins"

// Mode is a PIO port's operating mode.
type Mode int

const (
	ModeOutput Mode = iota
	ModeInput
	ModeBidirectional
	ModeBitControl
)

// port is one of the PIO's two independent 8-bit ports.
type port struct {
	mode Mode

	ioDirection uint8 // bit-control mode only: 1 = input, 0 = output
	awaitingIODirection bool

	output uint8
	input  uint8

	interruptEnabled bool
	vector           uint8
	andOrMask        bool // true = AND, false = OR (bit-control mode only)
	highLowMask      bool // true = active high
	mask             uint8
	awaitingMask     bool

	irq        bool
	midService bool
}

// PIO is a Z80 PIO with two ports, A (index 0, higher daisy-chain priority)
// and B (index 1).
type PIO struct {
	ports [2]port
}

// NewPIO returns a PIO with both ports in output mode, matching reset
// state.
func NewPIO() *PIO {
	return &PIO{}
}

// WriteData handles a CPU write to port pp's data register: in output or
// bidirectional mode this sets the port's output latch; in bit-control
// mode it sets the output bits named by ioDirection's zero bits.
func (pio *PIO) WriteData(pp int, v uint8) {
	pio.ports[pp].output = v
}

// ReadData handles a CPU read of port pp's data register.
func (pio *PIO) ReadData(pp int) uint8 {
	p := &pio.ports[pp]
	switch p.mode {
	case ModeInput, ModeBidirectional:
		return p.input
	case ModeBitControl:
		return (p.output &^ p.ioDirection) | (p.input & p.ioDirection)
	default:
		return p.output
	}
}

// WriteControl handles a CPU write to port pp's control register.
func (pio *PIO) WriteControl(pp int, v uint8) {
	p := &pio.ports[pp]

	if p.awaitingIODirection {
		p.ioDirection = v
		p.awaitingIODirection = false
		return
	}
	if p.awaitingMask {
		p.mask = v
		p.awaitingMask = false
		return
	}

	switch v & 0x0f {
	case 0x0f:
		p.mode = Mode(v >> 6)
		if p.mode == ModeBitControl {
			p.awaitingIODirection = true
		}
	case 0x07:
		p.interruptEnabled = v&0x80 != 0
		p.andOrMask = v&0x40 != 0
		p.highLowMask = v&0x20 != 0
		if v&0x10 != 0 {
			p.awaitingMask = true
		}
	case 0x03:
		p.interruptEnabled = v&0x80 != 0
	default:
		// any other word with bit 0 clear is a vector-set word.
		if v&1 == 0 {
			p.vector = v
		}
	}
}

// SetInput latches an external input value onto port pp and, if the port
// has interrupts enabled, raises an interrupt when the value differs from
// the previous input (input and bidirectional mode) or when the interrupt
// mask matches (bit-control mode).
func (pio *PIO) SetInput(pp int, v uint8) {
	p := &pio.ports[pp]
	prev := p.input
	p.input = v

	if !p.interruptEnabled {
		return
	}

	switch p.mode {
	case ModeInput, ModeBidirectional:
		if v != prev {
			p.irq = true
		}
	case ModeBitControl:
		if pio.bitControlMatch(p, v) {
			p.irq = true
		}
	}
}

func (pio *PIO) bitControlMatch(p *port, v uint8) bool {
	masked := v & p.mask
	active := masked
	if !p.highLowMask {
		active = (^v) & p.mask
	}
	if p.andOrMask {
		return active == p.mask && p.mask != 0
	}
	return active != 0
}

// IRQ reports whether either port (A first, higher priority) has a pending
// interrupt.
func (pio *PIO) IRQ() bool {
	return pio.ports[0].irq || pio.ports[1].irq
}

// IEO reports whether the PIO lets lower-priority daisy-chain devices
// through: true unless a port is currently mid-service.
func (pio *PIO) IEO() bool {
	return !pio.ports[0].midService && !pio.ports[1].midService
}

// Acknowledge answers an interrupt-acknowledge cycle for whichever port
// (A first) has a pending request.
func (pio *PIO) Acknowledge() uint8 {
	for i := range pio.ports {
		if pio.ports[i].irq {
			pio.ports[i].irq = false
			pio.ports[i].midService = true
			return pio.ports[i].vector
		}
	}
	return pio.ports[0].vector
}

// RETI ends mid-service state for whichever port is currently mid-service.
func (pio *PIO) RETI() {
	for i := range pio.ports {
		if pio.ports[i].midService {
			pio.ports[i].midService = false
			return
		}
	}
}

// Tick implements the bus-facing side of the PIO: two ports, each with a
// data and a control register, selected by pins.PIOSelB and the low address
// bit (data vs control), per the KC85 I/O decoder wiring.
func (pio *PIO) Tick(p pins.Pins) pins.Pins {
	if !p.IORQ() {
		return p
	}
	pp := 0
	if p.PIOSelB() {
		pp = 1
	}
	isControl := p.Addr()&1 != 0

	if p.WR() {
		if isControl {
			pio.WriteControl(pp, p.Data())
		} else {
			pio.WriteData(pp, p.Data())
		}
		return p
	}
	if p.RD() {
		if isControl {
			return p
		}
		return p.WithData(pio.ReadData(pp))
	}
	return p
}
