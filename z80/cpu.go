// Package z80 implements a Zilog Z80 CPU core. The CPU has no
// memory or I/O devices of its own: every bus transaction is performed by
// calling a Tick function supplied by the caller, which receives a pins.Pins
// value describing the request and returns the pins.Pins value reflecting
// the device's response, exactly as the real chip's address/data/control
// lines would be driven and sampled by whatever it is wired to.
package z80

import (
	"github.com/kc85emu/core/logger"
	"github.com/kc85emu/core/pins"
)

// Tick performs one machine cycle's worth of bus activity. The system
// integration layer supplies this function; it is responsible for routing
// the request to memory, to a peripheral, or to an interrupt-acknowledge
// daisy chain and returning the resulting pins (with the data bus field set
// on reads).
type Tick func(pins pins.Pins) pins.Pins

// CPU is a Zilog Z80. The zero value is not usable; construct with NewCPU.
type CPU struct {
	R Registers

	tick Tick

	// Ticks counts every call the CPU has made to its Tick function: one
	// per memory or I/O access (an opcode fetch makes two, the fetch and
	// the refresh), one per internal cycle spent in internalCycles, and one
	// per Step for the interrupt-pin sample. A memory access therefore
	// counts as one tick, not as the three or four T-states it takes on the
	// real chip. Callers use it to synchronise against the rest of the
	// system.
	Ticks int

	// prefix tracks which of the two index registers (if any) the
	// instruction currently being decoded should use in place of HL, set by
	// a DD or FD prefix byte and cleared at the start of every new
	// instruction.
	prefix prefixState

	lastNMI bool

	log *logger.Logger
}

type prefixState int

const (
	prefixNone prefixState = iota
	prefixIX
	prefixIY
)

// NewCPU creates a CPU wired to tick for all bus activity, in its power-on
// state.
func NewCPU(tick Tick, log *logger.Logger) *CPU {
	c := &CPU{tick: tick, log: log}
	c.R.Reset()
	return c
}

// Reset restores the register file to its power-on state. The PC, IFF1/IFF2
// and IM are also reset as the real chip's RESET pin would do; memory
// contents (owned by whatever tick is wired to) are untouched.
func (c *CPU) Reset() {
	c.R.Reset()
	c.prefix = prefixNone
}

func (c *CPU) in(pp pins.Pins) pins.Pins {
	r := c.tick(pp)
	c.Ticks++
	return r
}

// readMem reads one byte from addr, driving MREQ+RD for one machine cycle.
func (c *CPU) readMem(addr uint16) uint8 {
	p := c.in(pins.MemRequest(addr, true, false))
	return p.Data()
}

// writeMem writes v to addr, driving MREQ+WR for one machine cycle.
func (c *CPU) writeMem(addr uint16, v uint8) {
	c.in(pins.MemRequest(addr, false, true).WithData(v))
}

// fetch performs an opcode-fetch (M1) cycle at PC, advances PC, and
// performs the refresh cycle that always immediately follows an M1 cycle on
// real hardware.
func (c *CPU) fetch() uint8 {
	p := c.in(pins.OpcodeFetch(c.R.PC))
	c.R.PC++
	c.R.incR(1)
	c.in(pins.Refresh(uint16(c.R.I)<<8 | uint16(c.R.R)))
	return p.Data()
}

// fetchOperand reads the next byte at PC as an ordinary memory read, for
// opcodes after the first, immediate operands, and displacement bytes. It
// does not count as an M1 cycle and does not advance R.
func (c *CPU) fetchOperand() uint8 {
	v := c.readMem(c.R.PC)
	c.R.PC++
	return v
}

// internalCycles spends n T-states with no bus activity (e.g. the internal
// decision cycles of DJNZ or the displacement-calculation delay of an
// indexed instruction).
func (c *CPU) internalCycles(n int) {
	for i := 0; i < n; i++ {
		c.in(pins.Pins(0))
	}
}

func (c *CPU) push(v uint16) {
	c.R.SP.Load(c.R.SP.Value() - 1)
	c.writeMem(c.R.SP.Value(), uint8(v>>8))
	c.R.SP.Load(c.R.SP.Value() - 1)
	c.writeMem(c.R.SP.Value(), uint8(v))
}

func (c *CPU) pop() uint16 {
	lo := c.readMem(c.R.SP.Value())
	c.R.SP.Load(c.R.SP.Value() + 1)
	hi := c.readMem(c.R.SP.Value())
	c.R.SP.Load(c.R.SP.Value() + 1)
	return uint16(hi)<<8 | uint16(lo)
}

// indexedPair returns the Pair that HL currently aliases to: HL itself,
// or IX/IY if a DD/FD prefix is active for the instruction being decoded.
func (c *CPU) indexedPair() *Pair {
	switch c.prefix {
	case prefixIX:
		return &c.R.IX
	case prefixIY:
		return &c.R.IY
	default:
		return &c.R.HL
	}
}

// displacedAddr reads a signed displacement byte and adds it to the active
// index register, also updating WZ as the real chip does for every indexed
// memory reference.
func (c *CPU) displacedAddr() uint16 {
	d := int8(c.fetchOperand())
	addr := uint16(int32(c.indexedPair().Value()) + int32(d))
	c.R.WZ = addr
	return addr
}

// Step decodes and executes exactly one instruction (including all of its
// prefix bytes), honouring any pending interrupt first, and returns the
// number of ticks (see Ticks) it took.
func (c *CPU) Step() int {
	before := c.Ticks

	if c.serviceInterrupts() {
		return c.Ticks - before
	}

	if c.R.Halted {
		// a halted CPU still fetches and re-executes NOPs, burning cycles
		// and advancing R, until an interrupt wakes it.
		c.fetch()
		c.R.PC--
		return c.Ticks - before
	}

	c.prefix = prefixNone
	wasEI := c.R.EIPending
	c.execOpcode(c.fetch())
	if wasEI {
		c.R.EIPending = false
	}

	return c.Ticks - before
}

// Run executes instructions until at least targetTicks ticks (see Ticks)
// have elapsed, and returns the actual number executed (which may overshoot
// targetTicks since instructions are not interrupted mid-way).
func (c *CPU) Run(targetTicks int) int {
	start := c.Ticks
	for c.Ticks-start < targetTicks {
		c.Step()
	}
	return c.Ticks - start
}
