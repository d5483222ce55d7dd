package z80

// The 8-bit ALU operations shared by the ADD/ADC/SUB/SBC/AND/XOR/OR/CP group
// (selected by the y field of an unprefixed opcode) and by their equivalent
// two-operand forms used elsewhere in the decoder.

func (c *CPU) add8(a, b uint8, carryIn bool) uint8 {
	var cin uint8
	if carryIn {
		cin = 1
	}
	r16 := uint16(a) + uint16(b) + uint16(cin)
	r := uint8(r16)

	c.R.F.Carry = r16 > 0xff
	c.R.F.Half = (a&0xf)+(b&0xf)+cin > 0xf
	c.R.F.Parity = ((a^b)&0x80 == 0) && ((a^r)&0x80 != 0)
	c.R.F.Negative = false
	c.R.F.setSZYX(r)
	return r
}

func (c *CPU) sub8(a, b uint8, carryIn bool) uint8 {
	var cin uint8
	if carryIn {
		cin = 1
	}
	r16 := int16(a) - int16(b) - int16(cin)
	r := uint8(r16)

	c.R.F.Carry = r16 < 0
	c.R.F.Half = int16(a&0xf)-int16(b&0xf)-int16(cin) < 0
	c.R.F.Parity = ((a^b)&0x80 != 0) && ((a^r)&0x80 != 0)
	c.R.F.Negative = true
	c.R.F.setSZYX(r)
	return r
}

func (c *CPU) and8(a, b uint8) uint8 {
	r := a & b
	c.R.F.Carry = false
	c.R.F.Half = true
	c.R.F.Negative = false
	c.R.F.Parity = parity(r)
	c.R.F.setSZYX(r)
	return r
}

func (c *CPU) xor8(a, b uint8) uint8 {
	r := a ^ b
	c.R.F.Carry = false
	c.R.F.Half = false
	c.R.F.Negative = false
	c.R.F.Parity = parity(r)
	c.R.F.setSZYX(r)
	return r
}

func (c *CPU) or8(a, b uint8) uint8 {
	r := a | b
	c.R.F.Carry = false
	c.R.F.Half = false
	c.R.F.Negative = false
	c.R.F.Parity = parity(r)
	c.R.F.setSZYX(r)
	return r
}

// cp8 performs a compare (SUB without storing the result) but, unusually,
// reports the Y/X undocumented bits from the operand rather than the result.
func (c *CPU) cp8(a, b uint8) {
	r := c.sub8(a, b, false)
	_ = r
	c.R.F.Y = b&0x20 != 0
	c.R.F.X = b&0x08 != 0
}

func (c *CPU) inc8(a uint8) uint8 {
	r := a + 1
	c.R.F.Half = a&0xf == 0xf
	c.R.F.Parity = a == 0x7f
	c.R.F.Negative = false
	c.R.F.setSZYX(r)
	return r
}

func (c *CPU) dec8(a uint8) uint8 {
	r := a - 1
	c.R.F.Half = a&0xf == 0x0
	c.R.F.Parity = a == 0x80
	c.R.F.Negative = true
	c.R.F.setSZYX(r)
	return r
}

// add16 adds b to a, affecting only H, N, C and the undocumented Y/X bits
// (taken from the high byte of the result) (used by ADD HL/IX/IY,rr).
func (c *CPU) add16(a, b uint16) uint16 {
	r32 := uint32(a) + uint32(b)
	r := uint16(r32)
	c.R.F.Carry = r32 > 0xffff
	c.R.F.Half = (a&0xfff)+(b&0xfff) > 0xfff
	c.R.F.Negative = false
	c.R.F.Y = uint8(r>>8)&0x20 != 0
	c.R.F.X = uint8(r>>8)&0x08 != 0
	return r
}

// adc16 and sbc16 add/subtract with carry, affecting the full flag set
// (ED-prefixed ADC HL,rr / SBC HL,rr).
func (c *CPU) adc16(a, b uint16) uint16 {
	var cin uint32
	if c.R.F.Carry {
		cin = 1
	}
	r32 := uint32(a) + uint32(b) + cin
	r := uint16(r32)
	c.R.F.Carry = r32 > 0xffff
	c.R.F.Half = (a&0xfff)+(b&0xfff)+uint16(cin) > 0xfff
	c.R.F.Negative = false
	c.R.F.Sign = r&0x8000 != 0
	c.R.F.Zero = r == 0
	c.R.F.Parity = ((a^b)&0x8000 == 0) && ((a^r)&0x8000 != 0)
	c.R.F.Y = uint8(r>>8)&0x20 != 0
	c.R.F.X = uint8(r>>8)&0x08 != 0
	return r
}

func (c *CPU) sbc16(a, b uint16) uint16 {
	var cin int32
	if c.R.F.Carry {
		cin = 1
	}
	r32 := int32(a) - int32(b) - cin
	r := uint16(r32)
	c.R.F.Carry = r32 < 0
	c.R.F.Half = int32(a&0xfff)-int32(b&0xfff)-cin < 0
	c.R.F.Negative = true
	c.R.F.Sign = r&0x8000 != 0
	c.R.F.Zero = r == 0
	c.R.F.Parity = ((a^b)&0x8000 != 0) && ((a^r)&0x8000 != 0)
	c.R.F.Y = uint8(r>>8)&0x20 != 0
	c.R.F.X = uint8(r>>8)&0x08 != 0
	return r
}

// daa implements the decimal-adjust-after-add correction, computed from
// the current A, carry and half-carry, and whether the previous operation
// was a subtraction.
func (c *CPU) daa() {
	a := c.R.A
	var correction uint8
	carry := c.R.F.Carry
	half := c.R.F.Half
	sub := c.R.F.Negative

	if half || (!sub && a&0xf > 9) {
		correction |= 0x06
	}
	if carry || (!sub && a > 0x99) {
		correction |= 0x60
		carry = true
	}

	if sub {
		if half {
			c.R.F.Half = a&0xf < 6
		} else {
			c.R.F.Half = false
		}
		a -= correction
	} else {
		c.R.F.Half = a&0xf+correction&0xf > 0xf
		a += correction
	}

	c.R.F.Carry = carry
	c.R.F.Parity = parity(a)
	c.R.F.setSZYX(a)
	c.R.A = a
}
