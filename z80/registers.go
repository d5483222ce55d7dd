package z80

// Pair is a 16-bit register formed from two 8-bit halves, addressable
// either as the pair or as its individual high/low bytes. BC, DE, HL, IX
// and IY are all represented this way; AF is kept separate because its low
// byte is the Flags register rather than a plain Register.
type Pair struct {
	hi, lo uint8
}

// NewPair creates a Pair initialised to v.
func NewPair(v uint16) Pair {
	var p Pair
	p.Load(v)
	return p
}

// Load sets the pair to v.
func (p *Pair) Load(v uint16) {
	p.hi = uint8(v >> 8)
	p.lo = uint8(v)
}

// Value returns the pair as a 16-bit value.
func (p Pair) Value() uint16 {
	return uint16(p.hi)<<8 | uint16(p.lo)
}

// Hi returns the high byte of the pair.
func (p Pair) Hi() uint8 { return p.hi }

// Lo returns the low byte of the pair.
func (p Pair) Lo() uint8 { return p.lo }

// LoadHi sets the high byte of the pair.
func (p *Pair) LoadHi(v uint8) { p.hi = v }

// LoadLo sets the low byte of the pair.
func (p *Pair) LoadLo(v uint8) { p.lo = v }

// Registers holds the complete Z80 register file: the main and shadow
// general-purpose sets, the two index registers, the two special-purpose
// 16-bit registers, the interrupt and refresh registers, the interrupt mode
// and both interrupt enable flip-flops, and the WZ ("memptr") register that
// shadows the undocumented behaviour of several instructions.
type Registers struct {
	A uint8
	F Flags

	BC, DE, HL Pair

	// shadow set, exchanged in bulk by EX AF,AF' and EXX.
	A_ uint8
	F_ Flags
	BC_, DE_, HL_ Pair

	IX, IY Pair

	SP Pair
	PC uint16

	// WZ is the internal "memptr" register: several instructions compute an
	// address or incremented value here that is never exposed to programs
	// directly but that flows into the undocumented Y/X flag bits of a
	// following BIT or block instruction.
	WZ uint16

	I uint8
	R uint8

	// IM is the interrupt mode, 0, 1 or 2.
	IM uint8

	IFF1, IFF2 bool

	// EIPending marks that an EI instruction has just executed; interrupt
	// acceptance is deferred until after the following instruction.
	EIPending bool

	// Halted is true between a HALT instruction and the next accepted
	// interrupt or NMI.
	Halted bool
}

// NewRegisters returns the register file in its power-on state: AF, BC,
// DE, HL, their shadow copies, IX, IY and SP are all-ones, PC, WZ, I and R
// are zero, interrupts are disabled and IM is 0.
func NewRegisters() Registers {
	var r Registers
	r.Reset()
	return r
}

// Reset restores the register file to its power-on/RESET state.
func (r *Registers) Reset() {
	r.A = 0xff
	r.F.Load(0xff)
	r.BC = NewPair(0xffff)
	r.DE = NewPair(0xffff)
	r.HL = NewPair(0xffff)
	r.A_ = 0xff
	r.F_.Load(0xff)
	r.BC_ = NewPair(0xffff)
	r.DE_ = NewPair(0xffff)
	r.HL_ = NewPair(0xffff)
	r.IX = NewPair(0xffff)
	r.IY = NewPair(0xffff)
	r.SP = NewPair(0xffff)
	r.PC = 0
	r.WZ = 0
	r.I = 0
	r.R = 0
	r.IM = 0
	r.IFF1 = false
	r.IFF2 = false
	r.EIPending = false
	r.Halted = false
}

// ExchangeAF swaps AF with the shadow AF', used by the EX AF,AF' instruction.
func (r *Registers) ExchangeAF() {
	r.A, r.A_ = r.A_, r.A
	r.F, r.F_ = r.F_, r.F
}

// Exx swaps BC, DE and HL with their shadow counterparts.
func (r *Registers) Exx() {
	r.BC, r.BC_ = r.BC_, r.BC
	r.DE, r.DE_ = r.DE_, r.DE
	r.HL, r.HL_ = r.HL_, r.HL
}

// AF returns the AF register pair, with F packed into the low byte.
func (r Registers) AF() uint16 {
	return uint16(r.A)<<8 | uint16(r.F.Value())
}

// LoadAF sets A and F from a packed 16-bit value, as used by POP AF.
func (r *Registers) LoadAF(v uint16) {
	r.A = uint8(v >> 8)
	r.F.Load(uint8(v))
}

// incR advances the 7-bit refresh counter by n, preserving its bit 7 (which
// software can set independently via LD R,A and which is not touched by the
// CPU's own refresh cycles).
func (r *Registers) incR(n uint8) {
	top := r.R & 0x80
	r.R = top | ((r.R + n) & 0x7f)
}
