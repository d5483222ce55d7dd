package z80

import "github.com/kc85emu/core/pins"

// nmiEdge tracks the previous state of the NMI pin so that NMI can be
// recognised on its falling edge rather than being re-triggered every tick
// it is held active, matching the real chip.
type nmiEdge struct {
	last bool
}

// serviceInterrupts samples the NMI and INT pins (by ticking with an
// otherwise-idle pin word) and, if either is pending and acceptable,
// performs the appropriate interrupt-acknowledge sequence. It returns true
// if an interrupt was accepted (in which case Step should not also decode
// an instruction this call).
func (c *CPU) serviceInterrupts() bool {
	sample := c.in(pins.Pins(0))

	nmiActive := sample.NMI()
	nmiTriggered := nmiActive && !c.lastNMI
	c.lastNMI = nmiActive

	if nmiTriggered {
		c.acceptNMI()
		return true
	}

	if sample.INT() && c.R.IFF1 && !c.R.EIPending {
		c.acceptINT()
		return true
	}

	return false
}

func (c *CPU) acceptNMI() {
	c.R.Halted = false
	c.R.IFF2 = c.R.IFF1
	c.R.IFF1 = false
	c.internalCycles(5)
	c.push(c.R.PC)
	c.R.PC = 0x0066
	c.R.WZ = c.R.PC
}

// acceptINT runs the maskable-interrupt acknowledge cycle: the interrupting
// peripheral (reached via the tick function, which is expected to route an
// IORQ+M1 cycle to the system's daisy chain) drives a vector byte onto the
// data bus, which is interpreted according to the current interrupt mode.
func (c *CPU) acceptINT() {
	c.R.Halted = false
	c.R.IFF1 = false
	c.R.IFF2 = false

	ack := c.in(pins.Pins(0).WithM1(true).WithIORQ(true))
	vector := ack.Data()
	c.internalCycles(2)

	switch c.R.IM {
	case 0:
		// IM 0 is out of scope: the KC85 wiring never asserts INT with a
		// peripheral configured for mode 0, so the instruction on the data
		// bus is never anything but a single-byte RST in practice. Treat
		// the vector byte as an RST target for completeness.
		c.internalCycles(2)
		c.push(c.R.PC)
		c.R.PC = uint16(vector & 0x38)
	case 1:
		c.internalCycles(2)
		c.push(c.R.PC)
		c.R.PC = 0x0038
	default:
		c.internalCycles(2)
		c.push(c.R.PC)
		addr := uint16(c.R.I)<<8 | uint16(vector&0xfe)
		c.R.PC = c.readMem16(addr)
	}
	c.R.WZ = c.R.PC
}
