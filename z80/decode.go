package z80

// This file implements the main (unprefixed and CB/ED/DD/FD-prefixed)
// instruction decoder using the standard x/y/z/p/q decomposition of the
// opcode byte (bits 7-6, 5-3, 2-0, and the two halves of y), rather than a
// literal 256-entry switch per table. See Cristian Dinu's "Decoding Z80
// Opcodes" for the classic statement of this scheme; every Z80 emulator
// worth its salt ends up at the same tables.

var condNames = [8]string{"NZ", "Z", "NC", "C", "PO", "PE", "P", "M"}

// dispAddr caches the displaced (IX+d)/(IY+d) address for the instruction
// currently being decoded, computed at most once regardless of how many
// times r[6] is referenced (INC/DEC (IX+d) read and then write the same
// location, and the displacement byte must only be fetched once).
type dispAddr struct {
	valid bool
	addr  uint16
}

func (c *CPU) resolveHLAddr(d *dispAddr) uint16 {
	if c.prefix == prefixNone {
		return c.R.HL.Value()
	}
	if !d.valid {
		d.addr = c.displacedAddr()
		d.valid = true
	}
	return d.addr
}

// getR8 reads the 8-bit operand named by a z/y-style register index
// (0=B,1=C,2=D,3=E,4=H,5=L,6=(HL)/(IX+d)/(IY+d),7=A), applying the
// DD/FD H/L-to-IXh/IXl-or-IYh/IYl substitution for indices 4 and 5.
func (c *CPU) getR8(idx int, d *dispAddr) uint8 {
	switch idx {
	case 0:
		return c.R.BC.Hi()
	case 1:
		return c.R.BC.Lo()
	case 2:
		return c.R.DE.Hi()
	case 3:
		return c.R.DE.Lo()
	case 4:
		if c.prefix != prefixNone {
			return c.indexedPair().Hi()
		}
		return c.R.HL.Hi()
	case 5:
		if c.prefix != prefixNone {
			return c.indexedPair().Lo()
		}
		return c.R.HL.Lo()
	case 6:
		return c.readMem(c.resolveHLAddr(d))
	default:
		return c.R.A
	}
}

func (c *CPU) setR8(idx int, v uint8, d *dispAddr) {
	switch idx {
	case 0:
		c.R.BC.LoadHi(v)
	case 1:
		c.R.BC.LoadLo(v)
	case 2:
		c.R.DE.LoadHi(v)
	case 3:
		c.R.DE.LoadLo(v)
	case 4:
		if c.prefix != prefixNone {
			c.indexedPair().LoadHi(v)
			return
		}
		c.R.HL.LoadHi(v)
	case 5:
		if c.prefix != prefixNone {
			c.indexedPair().LoadLo(v)
			return
		}
		c.R.HL.LoadLo(v)
	case 6:
		c.writeMem(c.resolveHLAddr(d), v)
	default:
		c.R.A = v
	}
}

// getR8Plain and setR8Plain read/write B,C,D,E,H,L,A by index without the
// DD/FD H/L substitution getR8/setR8 apply. LD r,(IX+d) and LD (IX+d),r
// always name the real H/L register for their non-memory operand even under
// a prefix, so the x==1 LD r,r' dispatch uses these instead of getR8/setR8
// whenever the other operand is index 6.
func (c *CPU) getR8Plain(idx int) uint8 {
	switch idx {
	case 0:
		return c.R.BC.Hi()
	case 1:
		return c.R.BC.Lo()
	case 2:
		return c.R.DE.Hi()
	case 3:
		return c.R.DE.Lo()
	case 4:
		return c.R.HL.Hi()
	case 5:
		return c.R.HL.Lo()
	default:
		return c.R.A
	}
}

func (c *CPU) setR8Plain(idx int, v uint8) {
	switch idx {
	case 0:
		c.R.BC.LoadHi(v)
	case 1:
		c.R.BC.LoadLo(v)
	case 2:
		c.R.DE.LoadHi(v)
	case 3:
		c.R.DE.LoadLo(v)
	case 4:
		c.R.HL.LoadHi(v)
	case 5:
		c.R.HL.LoadLo(v)
	default:
		c.R.A = v
	}
}

// getRP reads one of the four "primary" 16-bit register pairs (BC,DE,HL,SP),
// remapping HL to the active index register under a DD/FD prefix.
func (c *CPU) getRP(p int) uint16 {
	switch p {
	case 0:
		return c.R.BC.Value()
	case 1:
		return c.R.DE.Value()
	case 2:
		return c.indexedPair().Value()
	default:
		return c.R.SP.Value()
	}
}

func (c *CPU) setRP(p int, v uint16) {
	switch p {
	case 0:
		c.R.BC.Load(v)
	case 1:
		c.R.DE.Load(v)
	case 2:
		c.indexedPair().Load(v)
	default:
		c.R.SP.Load(v)
	}
}

// getRP2 reads one of the four "alternate" pairs (BC,DE,HL,AF) used by
// PUSH/POP, again remapping HL.
func (c *CPU) getRP2(p int) uint16 {
	if p == 3 {
		return c.R.AF()
	}
	if p == 2 {
		return c.indexedPair().Value()
	}
	return c.getRP(p)
}

func (c *CPU) setRP2(p int, v uint16) {
	if p == 3 {
		c.R.LoadAF(v)
		return
	}
	if p == 2 {
		c.indexedPair().Load(v)
		return
	}
	c.setRP(p, v)
}

func (c *CPU) testCond(y int) bool {
	switch y {
	case 0:
		return !c.R.F.Zero
	case 1:
		return c.R.F.Zero
	case 2:
		return !c.R.F.Carry
	case 3:
		return c.R.F.Carry
	case 4:
		return !c.R.F.Parity
	case 5:
		return c.R.F.Parity
	case 6:
		return !c.R.F.Sign
	default:
		return c.R.F.Sign
	}
}

func (c *CPU) alu8(y int, operand uint8) {
	switch y {
	case 0:
		c.R.A = c.add8(c.R.A, operand, false)
	case 1:
		c.R.A = c.add8(c.R.A, operand, c.R.F.Carry)
	case 2:
		c.R.A = c.sub8(c.R.A, operand, false)
	case 3:
		c.R.A = c.sub8(c.R.A, operand, c.R.F.Carry)
	case 4:
		c.R.A = c.and8(c.R.A, operand)
	case 5:
		c.R.A = c.xor8(c.R.A, operand)
	case 6:
		c.R.A = c.or8(c.R.A, operand)
	default:
		c.cp8(c.R.A, operand)
	}
}

// execOpcode executes the instruction whose first (post-prefix) byte is op,
// dispatching to the CB/ED prefix tables or handling a DD/FD prefix byte by
// re-entering with the remapped index register active.
func (c *CPU) execOpcode(op uint8) {
	if op == 0xcb {
		if c.prefix != prefixNone {
			c.execDisplacedCB()
			return
		}
		c.execCB()
		return
	}
	if op == 0xed {
		c.execED()
		return
	}
	if op == 0xdd {
		c.prefix = prefixIX
		c.execOpcode(c.fetch())
		return
	}
	if op == 0xfd {
		c.prefix = prefixIY
		c.execOpcode(c.fetch())
		return
	}

	x := int(op >> 6)
	y := int((op >> 3) & 7)
	z := int(op & 7)
	p := y >> 1
	q := y & 1

	var d dispAddr

	switch x {
	case 0:
		c.execX0(y, z, p, q, &d)
	case 1:
		if z == 6 && y == 6 {
			c.R.Halted = true
			return
		}
		if z == 6 {
			v := c.readMem(c.resolveHLAddr(&d))
			c.setR8Plain(y, v)
			return
		}
		if y == 6 {
			c.writeMem(c.resolveHLAddr(&d), c.getR8Plain(z))
			return
		}
		v := c.getR8(z, &d)
		c.setR8(y, v, &d)
	case 2:
		c.alu8(y, c.getR8(z, &d))
	default:
		c.execX3(y, z, p, q, &d)
	}
}

func (c *CPU) execX0(y, z, p, q int, d *dispAddr) {
	switch z {
	case 0:
		switch {
		case y == 0:
			// NOP
		case y == 1:
			c.R.ExchangeAF()
		case y == 2:
			c.R.BC.LoadHi(c.R.BC.Hi() - 1)
			c.internalCycles(1)
			if c.R.BC.Hi() != 0 {
				c.jumpRelative()
			} else {
				c.fetchOperand()
			}
		case y == 3:
			c.jumpRelative()
		default:
			if c.testCond(y - 4) {
				c.jumpRelative()
			} else {
				c.fetchOperand()
			}
		}
	case 1:
		if q == 0 {
			lo := c.fetchOperand()
			hi := c.fetchOperand()
			c.setRP(p, uint16(hi)<<8|uint16(lo))
		} else {
			c.internalCycles(7)
			c.R.WZ = c.indexedPair().Value() + 1
			r := c.add16(c.indexedPair().Value(), c.getRP(p))
			c.indexedPair().Load(r)
		}
	case 2:
		c.execIndirectLoad(y, q)
	case 3:
		c.internalCycles(2)
		if q == 0 {
			c.setRP(p, c.getRP(p)+1)
		} else {
			c.setRP(p, c.getRP(p)-1)
		}
	case 4:
		c.setR8(y, c.inc8(c.getR8(y, d)), d)
	case 5:
		c.setR8(y, c.dec8(c.getR8(y, d)), d)
	case 6:
		if y == 6 {
			// LD (IX+d),n: the displacement byte precedes the immediate.
			c.resolveHLAddr(d)
		}
		c.setR8(y, c.fetchOperand(), d)
	case 7:
		c.execX0Z7(y)
	}
}

func (c *CPU) execX0Z7(y int) {
	switch y {
	case 0: // RLCA
		carry := c.R.A&0x80 != 0
		c.R.A = c.R.A<<1 | boolBit(carry)
		c.R.F.Carry = carry
		c.R.F.Half = false
		c.R.F.Negative = false
		c.R.F.Y = c.R.A&0x20 != 0
		c.R.F.X = c.R.A&0x08 != 0
	case 1: // RRCA
		carry := c.R.A&0x01 != 0
		c.R.A = c.R.A>>1 | boolBit(carry)<<7
		c.R.F.Carry = carry
		c.R.F.Half = false
		c.R.F.Negative = false
		c.R.F.Y = c.R.A&0x20 != 0
		c.R.F.X = c.R.A&0x08 != 0
	case 2: // RLA
		carry := c.R.A&0x80 != 0
		c.R.A = c.R.A<<1 | boolBit(c.R.F.Carry)
		c.R.F.Carry = carry
		c.R.F.Half = false
		c.R.F.Negative = false
		c.R.F.Y = c.R.A&0x20 != 0
		c.R.F.X = c.R.A&0x08 != 0
	case 3: // RRA
		carry := c.R.A&0x01 != 0
		c.R.A = c.R.A>>1 | boolBit(c.R.F.Carry)<<7
		c.R.F.Carry = carry
		c.R.F.Half = false
		c.R.F.Negative = false
		c.R.F.Y = c.R.A&0x20 != 0
		c.R.F.X = c.R.A&0x08 != 0
	case 4:
		c.daa()
	case 5: // CPL
		c.R.A = ^c.R.A
		c.R.F.Half = true
		c.R.F.Negative = true
		c.R.F.Y = c.R.A&0x20 != 0
		c.R.F.X = c.R.A&0x08 != 0
	case 6: // SCF
		c.R.F.Carry = true
		c.R.F.Half = false
		c.R.F.Negative = false
		c.R.F.Y = c.R.A&0x20 != 0
		c.R.F.X = c.R.A&0x08 != 0
	default: // CCF
		c.R.F.Half = c.R.F.Carry
		c.R.F.Carry = !c.R.F.Carry
		c.R.F.Negative = false
		c.R.F.Y = c.R.A&0x20 != 0
		c.R.F.X = c.R.A&0x08 != 0
	}
}

func boolBit(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

func (c *CPU) jumpRelative() {
	d := int8(c.fetchOperand())
	c.internalCycles(5)
	c.R.PC = uint16(int32(c.R.PC) + int32(d))
	c.R.WZ = c.R.PC
}

func (c *CPU) execIndirectLoad(y, q int) {
	if y < 4 {
		switch {
		case y == 0:
			addr := c.R.BC.Value()
			c.writeMem(addr, c.R.A)
			c.R.WZ = uint16(c.R.A)<<8 | (addr+1)&0xff
		case y == 1:
			addr := c.R.DE.Value()
			c.writeMem(addr, c.R.A)
			c.R.WZ = uint16(c.R.A)<<8 | (addr+1)&0xff
		case y == 2:
			addr := c.R.BC.Value()
			c.R.A = c.readMem(addr)
			c.R.WZ = addr + 1
		default:
			addr := c.R.DE.Value()
			c.R.A = c.readMem(addr)
			c.R.WZ = addr + 1
		}
		return
	}

	lo := c.fetchOperand()
	hi := c.fetchOperand()
	addr := uint16(hi)<<8 | uint16(lo)

	switch y {
	case 4:
		c.writeMem16(addr, c.indexedPair().Value())
		c.R.WZ = addr + 1
	case 5:
		c.indexedPair().Load(c.readMem16(addr))
		c.R.WZ = addr + 1
	case 6:
		c.writeMem(addr, c.R.A)
		c.R.WZ = uint16(c.R.A)<<8 | (addr+1)&0xff
	default:
		c.R.A = c.readMem(addr)
		c.R.WZ = addr + 1
	}
}

func (c *CPU) readMem16(addr uint16) uint16 {
	lo := c.readMem(addr)
	hi := c.readMem(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) writeMem16(addr uint16, v uint16) {
	c.writeMem(addr, uint8(v))
	c.writeMem(addr+1, uint8(v>>8))
}

func (c *CPU) execX3(y, z, p, q int, d *dispAddr) {
	switch z {
	case 0:
		c.internalCycles(1)
		if c.testCond(y) {
			c.R.PC = c.pop()
			c.R.WZ = c.R.PC
		}
	case 1:
		if q == 0 {
			c.setRP2(p, c.pop())
			return
		}
		switch p {
		case 0:
			c.R.PC = c.pop()
			c.R.WZ = c.R.PC
		case 1:
			c.R.Exx()
		case 2:
			c.R.PC = c.indexedPair().Value()
		default:
			c.internalCycles(2)
			c.R.SP.Load(c.indexedPair().Value())
		}
	case 2:
		lo := c.fetchOperand()
		hi := c.fetchOperand()
		addr := uint16(hi)<<8 | uint16(lo)
		c.R.WZ = addr
		if c.testCond(y) {
			c.R.PC = addr
		}
	case 3:
		c.execX3Z3(y)
	case 4:
		lo := c.fetchOperand()
		hi := c.fetchOperand()
		addr := uint16(hi)<<8 | uint16(lo)
		c.R.WZ = addr
		if c.testCond(y) {
			c.internalCycles(1)
			c.push(c.R.PC)
			c.R.PC = addr
		}
	case 5:
		if q == 0 {
			c.internalCycles(1)
			c.push(c.getRP2(p))
			return
		}
		switch p {
		case 0:
			lo := c.fetchOperand()
			hi := c.fetchOperand()
			addr := uint16(hi)<<8 | uint16(lo)
			c.R.WZ = addr
			c.internalCycles(1)
			c.push(c.R.PC)
			c.R.PC = addr
		case 1:
			c.prefix = prefixIX
			c.execOpcode(c.fetch())
		case 2:
			c.execEDOpcode(c.fetch())
		default:
			c.prefix = prefixIY
			c.execOpcode(c.fetch())
		}
	case 6:
		c.alu8(y, c.fetchOperand())
	case 7:
		c.internalCycles(1)
		c.push(c.R.PC)
		c.R.PC = uint16(y) * 8
		c.R.WZ = c.R.PC
	}
}

func (c *CPU) execX3Z3(y int) {
	switch y {
	case 0:
		lo := c.fetchOperand()
		hi := c.fetchOperand()
		c.R.PC = uint16(hi)<<8 | uint16(lo)
		c.R.WZ = c.R.PC
	case 1:
		c.execCB()
	case 2:
		n := c.fetchOperand()
		c.R.WZ = uint16(c.R.A)<<8 | uint16(n+1)
		c.in(portIORequest(uint16(c.R.A)<<8|uint16(n), false, true, c.R.A))
	case 3:
		n := c.fetchOperand()
		addr := uint16(c.R.A)<<8 | uint16(n)
		p := c.in(portIORequest(addr, true, false, 0))
		c.R.A = p.Data()
		c.R.WZ = addr + 1
	case 4:
		sp := c.R.SP.Value()
		lo := c.readMem(sp)
		hi := c.readMem(sp + 1)
		v := c.indexedPair().Value()
		c.writeMem(sp, uint8(v))
		c.writeMem(sp+1, uint8(v>>8))
		c.indexedPair().Load(uint16(hi)<<8 | uint16(lo))
		c.R.WZ = c.indexedPair().Value()
		c.internalCycles(2)
	case 5:
		c.R.DE, c.R.HL = c.R.HL, c.R.DE
	case 6:
		c.R.IFF1 = false
		c.R.IFF2 = false
	default:
		c.R.IFF1 = true
		c.R.IFF2 = true
		c.R.EIPending = true
	}
}
