package z80

// execCB decodes and executes a CB-prefixed (rotate/shift/bit/res/set)
// instruction operating directly on one of the eight r[z] operands.
func (c *CPU) execCB() {
	op := c.fetchOperand()
	x := int(op >> 6)
	y := int((op >> 3) & 7)
	z := int(op & 7)

	var d dispAddr
	v := c.getR8(z, &d)

	switch x {
	case 0:
		c.setR8(z, c.rotShift(y, v), &d)
	case 1:
		c.bitTest(y, v, z == 6)
	case 2:
		c.setR8(z, v&^(1<<uint(y)), &d)
	default:
		c.setR8(z, v|(1<<uint(y)), &d)
	}
}

// execDisplacedCB decodes a DDCB/FDCB instruction: displacement byte, then
// opcode byte, operating on the indexed memory location and, for x=0/2/3,
// also writing the result back to the register named by z, which is always
// the plain B/C/D/E/H/L/A and never IXh/IXl/IYh/IYl (the well-documented
// "undocumented" DDCB/FDCB behaviour).
func (c *CPU) execDisplacedCB() {
	addr := c.displacedAddr()
	op := c.fetchOperand()
	x := int(op >> 6)
	y := int((op >> 3) & 7)
	z := int(op & 7)

	v := c.readMem(addr)

	var result uint8
	switch x {
	case 0:
		result = c.rotShift(y, v)
	case 1:
		c.bitTest(y, v, true)
		return
	case 2:
		result = v &^ (1 << uint(y))
	default:
		result = v | (1 << uint(y))
	}

	c.writeMem(addr, result)
	if z != 6 {
		c.setR8Plain(z, result)
	}
}

func (c *CPU) rotShift(y int, v uint8) uint8 {
	var r uint8
	var carry bool

	switch y {
	case 0: // RLC
		carry = v&0x80 != 0
		r = v<<1 | boolBit(carry)
	case 1: // RRC
		carry = v&0x01 != 0
		r = v>>1 | boolBit(carry)<<7
	case 2: // RL
		carry = v&0x80 != 0
		r = v<<1 | boolBit(c.R.F.Carry)
	case 3: // RR
		carry = v&0x01 != 0
		r = v>>1 | boolBit(c.R.F.Carry)<<7
	case 4: // SLA
		carry = v&0x80 != 0
		r = v << 1
	case 5: // SRA
		carry = v&0x01 != 0
		r = v>>1 | v&0x80
	case 6: // SLL (undocumented)
		carry = v&0x80 != 0
		r = v<<1 | 1
	default: // SRL
		carry = v&0x01 != 0
		r = v >> 1
	}

	c.R.F.Carry = carry
	c.R.F.Half = false
	c.R.F.Negative = false
	c.R.F.Parity = parity(r)
	c.R.F.setSZYX(r)
	return r
}

// bitTest executes BIT y,v. fromMemory selects where the undocumented Y/X
// flags are sourced from: a register operand carries them from its own
// bits 5/3, but a memory operand ((HL), or any (IX+d)/(IY+d) form, which is
// always fromMemory=true since execDisplacedCB never reaches here with a
// register) instead shows the high byte of WZ, a consequence of the real
// chip's internal bus behaviour during that access.
func (c *CPU) bitTest(y int, v uint8, fromMemory bool) {
	bit := v & (1 << uint(y))
	c.R.F.Zero = bit == 0
	c.R.F.Parity = bit == 0
	c.R.F.Sign = y == 7 && bit != 0
	c.R.F.Half = true
	c.R.F.Negative = false
	if fromMemory {
		c.R.F.Y = uint8(c.R.WZ>>8)&0x20 != 0
		c.R.F.X = uint8(c.R.WZ>>8)&0x08 != 0
	} else {
		c.R.F.Y = v&0x20 != 0
		c.R.F.X = v&0x08 != 0
	}
}
