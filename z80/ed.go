package z80

import "github.com/kc85emu/core/pins"

// execED is entered directly when an ED prefix byte is seen as the first
// byte of an instruction (the usual case).
func (c *CPU) execED() {
	c.execEDOpcode(c.fetch())
}

// execEDOpcode decodes and executes the ED-prefixed instruction whose
// second byte is op. ED-prefixed opcodes never combine with a DD/FD prefix
// on real hardware (DD ED and FD ED behave as if the index prefix were
// absent), so any index prefix is dropped here before decoding.
func (c *CPU) execEDOpcode(op uint8) {
	c.prefix = prefixNone
	x := int(op >> 6)
	y := int((op >> 3) & 7)
	z := int(op & 7)
	p := y >> 1
	q := y & 1

	switch x {
	case 1:
		c.execEDx1(y, z, p, q)
	case 2:
		if z <= 3 && y >= 4 {
			c.execBlock(y, z)
			return
		}
		// invalid ED opcode: behaves as a two-byte NOP on real hardware.
	default:
		// invalid ED opcode: behaves as a two-byte NOP on real hardware.
	}
}

func (c *CPU) execEDx1(y, z, p, q int) {
	switch z {
	case 0:
		addr := uint16(c.R.BC.Hi())<<8 | uint16(c.R.BC.Lo())
		pp := c.in(portIORequest(addr, true, false, 0))
		v := pp.Data()
		if y != 6 {
			var d dispAddr
			c.setR8(y, v, &d)
		}
		c.R.F.Sign = v&0x80 != 0
		c.R.F.Zero = v == 0
		c.R.F.Parity = parity(v)
		c.R.F.Half = false
		c.R.F.Negative = false
		c.R.WZ = addr + 1
	case 1:
		addr := c.R.BC.Value()
		var v uint8
		if y != 6 {
			var d dispAddr
			v = c.getR8(y, &d)
		}
		c.in(portIORequest(addr, false, true, v))
		c.R.WZ = addr + 1
	case 2:
		hl := c.R.HL.Value()
		if q == 0 {
			c.setRP(2, c.sbc16(hl, c.getRP(p)))
		} else {
			c.setRP(2, c.adc16(hl, c.getRP(p)))
		}
		c.R.WZ = hl + 1
		c.internalCycles(7)
	case 3:
		lo := c.fetchOperand()
		hi := c.fetchOperand()
		addr := uint16(hi)<<8 | uint16(lo)
		if q == 0 {
			c.writeMem16(addr, c.getRP(p))
		} else {
			c.setRP(p, c.readMem16(addr))
		}
		c.R.WZ = addr + 1
	case 4:
		a := c.R.A
		c.R.A = 0
		c.R.A = c.sub8(c.R.A, a, false)
	case 5:
		c.R.PC = c.pop()
		c.R.WZ = c.R.PC
		c.R.IFF1 = c.R.IFF2
		if y == 1 {
			// RETI: signal the daisy chain so the peripheral currently
			// holding it can release priority to the next device.
			c.in(pins.Pins(0).WithRETI(true))
		}
	case 6:
		imTable := [8]uint8{0, 0, 1, 2, 0, 0, 1, 2}
		c.R.IM = imTable[y]
	case 7:
		c.execEDMisc(y)
	}
}

func (c *CPU) execEDMisc(y int) {
	switch y {
	case 0:
		c.R.I = c.R.A
		c.internalCycles(1)
	case 1:
		c.R.R = c.R.A
		c.internalCycles(1)
	case 2:
		c.R.A = c.R.I
		c.R.F.Sign = c.R.A&0x80 != 0
		c.R.F.Zero = c.R.A == 0
		c.R.F.Half = false
		c.R.F.Negative = false
		c.R.F.Parity = c.R.IFF2
		c.internalCycles(1)
	case 3:
		c.R.A = c.R.R
		c.R.F.Sign = c.R.A&0x80 != 0
		c.R.F.Zero = c.R.A == 0
		c.R.F.Half = false
		c.R.F.Negative = false
		c.R.F.Parity = c.R.IFF2
		c.internalCycles(1)
	case 4:
		c.rrd()
	case 5:
		c.rld()
	default:
		// NOP (ED 0x77 / ED 0x7F)
	}
}

func (c *CPU) rrd() {
	addr := c.R.HL.Value()
	m := c.readMem(addr)
	a := c.R.A
	c.R.A = a&0xf0 | m&0x0f
	m = (a&0x0f)<<4 | m>>4
	c.writeMem(addr, m)
	c.R.WZ = addr + 1
	c.internalCycles(4)

	c.R.F.Sign = c.R.A&0x80 != 0
	c.R.F.Zero = c.R.A == 0
	c.R.F.Half = false
	c.R.F.Negative = false
	c.R.F.Parity = parity(c.R.A)
	c.R.F.Y = c.R.A&0x20 != 0
	c.R.F.X = c.R.A&0x08 != 0
}

func (c *CPU) rld() {
	addr := c.R.HL.Value()
	m := c.readMem(addr)
	a := c.R.A
	c.R.A = a&0xf0 | m>>4
	m = (m&0x0f)<<4 | a&0x0f
	c.writeMem(addr, m)
	c.R.WZ = addr + 1
	c.internalCycles(4)

	c.R.F.Sign = c.R.A&0x80 != 0
	c.R.F.Zero = c.R.A == 0
	c.R.F.Half = false
	c.R.F.Negative = false
	c.R.F.Parity = parity(c.R.A)
	c.R.F.Y = c.R.A&0x20 != 0
	c.R.F.X = c.R.A&0x08 != 0
}

// execBlock executes one of the sixteen LDxx/CPxx/INxx/OUTxx block
// instructions, named by y (direction/repeat: 4=once-incrementing,
// 5=once-decrementing, 6=repeat-incrementing, 7=repeat-decrementing) and z
// (0=LD, 1=CP, 2=IN, 3=OUT).
func (c *CPU) execBlock(y, z int) {
	decrement := y == 5 || y == 7
	repeat := y == 6 || y == 7

	switch z {
	case 0:
		c.blockLD(decrement, repeat)
	case 1:
		c.blockCP(decrement, repeat)
	case 2:
		c.blockIN(decrement, repeat)
	default:
		c.blockOUT(decrement, repeat)
	}
}

func (c *CPU) blockLD(decrement, repeat bool) {
	v := c.readMem(c.R.HL.Value())
	c.writeMem(c.R.DE.Value(), v)
	c.internalCycles(2)

	if decrement {
		c.R.HL.Load(c.R.HL.Value() - 1)
		c.R.DE.Load(c.R.DE.Value() - 1)
	} else {
		c.R.HL.Load(c.R.HL.Value() + 1)
		c.R.DE.Load(c.R.DE.Value() + 1)
	}
	c.R.BC.Load(c.R.BC.Value() - 1)

	n := v + c.R.A
	c.R.F.Half = false
	c.R.F.Negative = false
	c.R.F.Parity = c.R.BC.Value() != 0
	c.R.F.Y = n&0x02 != 0
	c.R.F.X = n&0x08 != 0

	if repeat && c.R.BC.Value() != 0 {
		c.R.PC -= 2
		c.R.WZ = c.R.PC + 1
		c.internalCycles(5)
	}
}

func (c *CPU) blockCP(decrement, repeat bool) {
	v := c.readMem(c.R.HL.Value())
	r := c.R.A - v
	halfBorrow := (c.R.A & 0xf) < (v & 0xf)
	c.internalCycles(5)

	if decrement {
		c.R.HL.Load(c.R.HL.Value() - 1)
		c.R.WZ--
	} else {
		c.R.HL.Load(c.R.HL.Value() + 1)
		c.R.WZ++
	}
	c.R.BC.Load(c.R.BC.Value() - 1)

	c.R.F.Sign = r&0x80 != 0
	c.R.F.Zero = r == 0
	c.R.F.Half = halfBorrow
	c.R.F.Negative = true
	c.R.F.Parity = c.R.BC.Value() != 0

	n := r
	if halfBorrow {
		n--
	}
	c.R.F.Y = n&0x02 != 0
	c.R.F.X = n&0x08 != 0

	if repeat && c.R.BC.Value() != 0 && r != 0 {
		c.R.PC -= 2
		c.R.WZ = c.R.PC + 1
		c.internalCycles(5)
	}
}

func (c *CPU) blockIN(decrement, repeat bool) {
	addr := c.R.BC.Value()
	pp := c.in(portIORequest(addr, true, false, 0))
	v := pp.Data()
	c.writeMem(c.R.HL.Value(), v)
	c.R.BC.LoadHi(c.R.BC.Hi() - 1)

	if decrement {
		c.R.HL.Load(c.R.HL.Value() - 1)
		c.R.WZ = addr - 1
	} else {
		c.R.HL.Load(c.R.HL.Value() + 1)
		c.R.WZ = addr + 1
	}

	c.R.F.Zero = c.R.BC.Hi() == 0
	c.R.F.Negative = v&0x80 != 0
	c.R.F.Sign = c.R.BC.Hi()&0x80 != 0
	c.R.F.Y = c.R.BC.Hi()&0x20 != 0
	c.R.F.X = c.R.BC.Hi()&0x08 != 0

	if repeat && c.R.BC.Hi() != 0 {
		c.R.PC -= 2
		c.internalCycles(5)
	}
}

func (c *CPU) blockOUT(decrement, repeat bool) {
	v := c.readMem(c.R.HL.Value())
	c.R.BC.LoadHi(c.R.BC.Hi() - 1)
	addr := c.R.BC.Value()
	c.in(portIORequest(addr, false, true, v))

	if decrement {
		c.R.HL.Load(c.R.HL.Value() - 1)
		c.R.WZ = addr - 1
	} else {
		c.R.HL.Load(c.R.HL.Value() + 1)
		c.R.WZ = addr + 1
	}

	c.R.F.Zero = c.R.BC.Hi() == 0
	c.R.F.Negative = v&0x80 != 0
	c.R.F.Sign = c.R.BC.Hi()&0x80 != 0
	c.R.F.Y = c.R.BC.Hi()&0x20 != 0
	c.R.F.X = c.R.BC.Hi()&0x08 != 0

	if repeat && c.R.BC.Hi() != 0 {
		c.R.PC -= 2
		c.internalCycles(5)
	}
}
