package z80

import "strings"

// Flags is the Z80's F register, decomposed into its eight named bits. It is
// kept as a bool struct rather than a raw uint8 so that the undocumented Y
// and X bits (copies of bits 5 and 3 of the last result) are explicit at
// every call site instead of being folded invisibly into arithmetic.
type Flags struct {
	Sign     bool // S, bit 7
	Zero     bool // Z, bit 6
	Y        bool // undocumented, bit 5, copy of result bit 5
	Half     bool // H, bit 4, half carry
	X        bool // undocumented, bit 3, copy of result bit 3
	Parity   bool // P/V, bit 2, parity or overflow depending on operation
	Negative bool // N, bit 1, set after any subtraction
	Carry    bool // C, bit 0
}

// NewFlags returns the flags in their power-on state.
func NewFlags() Flags {
	var f Flags
	f.Load(0xff)
	return f
}

// Label returns the canonical name for the flags register.
func (f Flags) Label() string {
	return "F"
}

func (f Flags) String() string {
	s := strings.Builder{}
	bits := []struct {
		v bool
		c rune
	}{
		{f.Sign, 'S'}, {f.Zero, 'Z'}, {f.Y, '5'}, {f.Half, 'H'},
		{f.X, '3'}, {f.Parity, 'P'}, {f.Negative, 'N'}, {f.Carry, 'C'},
	}
	for _, b := range bits {
		if b.v {
			s.WriteRune(b.c)
		} else {
			s.WriteRune('-')
		}
	}
	return s.String()
}

// Value packs the flags into the F register's wire representation.
func (f Flags) Value() uint8 {
	var v uint8
	if f.Sign {
		v |= 0x80
	}
	if f.Zero {
		v |= 0x40
	}
	if f.Y {
		v |= 0x20
	}
	if f.Half {
		v |= 0x10
	}
	if f.X {
		v |= 0x08
	}
	if f.Parity {
		v |= 0x04
	}
	if f.Negative {
		v |= 0x02
	}
	if f.Carry {
		v |= 0x01
	}
	return v
}

// Load unpacks v (as read from the F register, or popped off the stack as
// the low byte of AF) into the flags.
func (f *Flags) Load(v uint8) {
	f.Sign = v&0x80 != 0
	f.Zero = v&0x40 != 0
	f.Y = v&0x20 != 0
	f.Half = v&0x10 != 0
	f.X = v&0x08 != 0
	f.Parity = v&0x04 != 0
	f.Negative = v&0x02 != 0
	f.Carry = v&0x01 != 0
}

// setSZYX sets Sign, Zero, Y and X from the 8-bit result r, the common tail
// of almost every flag-affecting 8-bit operation.
func (f *Flags) setSZYX(r uint8) {
	f.Sign = r&0x80 != 0
	f.Zero = r == 0
	f.Y = r&0x20 != 0
	f.X = r&0x08 != 0
}

var parityTable [256]bool

func init() {
	for i := 0; i < 256; i++ {
		v := uint8(i)
		p := true
		for v != 0 {
			p = !p
			v &= v - 1
		}
		parityTable[i] = p
	}
}

// parity reports whether r has an even number of set bits.
func parity(r uint8) bool {
	return parityTable[r]
}
