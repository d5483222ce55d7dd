// Package pins defines the 64-bit bus pin word that every chip in this
// module communicates through. A tick function takes a Pins value, reads
// the fields it cares about, and returns a (possibly modified) Pins value;
// chips never share memory, only this value.
package pins

// Pins is the virtual 64-bit bus: address, data, and control signals, encoded
// as bit-fields of a single machine word passed by value between chips.
type Pins uint64

const (
	addrShift = 0
	addrMask  = 0xFFFF

	dataShift = 16
	dataMask  = 0xFF

	bitM1   = 1 << 24
	bitMREQ = 1 << 25
	bitIORQ = 1 << 26
	bitRD   = 1 << 27
	bitWR   = 1 << 28
	bitHALT = 1 << 29
	bitINT  = 1 << 30
	bitNMI  = 1 << 31
	bitRFSH = 1 << 32

	waitShift = 34
	waitMask  = 0x7

	bitIEIO = 1 << 37
	bitRETI = 1 << 38

	// chip-specific high bits: CTC channel select (2 bits), PIO A/B select,
	// VIC chip-select, VIC CTRG2.
	ctcChanShift = 40
	ctcChanMask  = 0x3
	bitPIOSelB   = 1 << 42
	bitVICCS     = 1 << 43
	bitVICCTRG2  = 1 << 44
)

// Addr returns the 16-bit address bus.
func (p Pins) Addr() uint16 { return uint16((p >> addrShift) & addrMask) }

// WithAddr returns p with the address bus set to a.
func (p Pins) WithAddr(a uint16) Pins {
	return (p &^ (addrMask << addrShift)) | Pins(a)<<addrShift
}

// Data returns the 8-bit data bus.
func (p Pins) Data() uint8 { return uint8((p >> dataShift) & dataMask) }

// WithData returns p with the data bus set to d.
func (p Pins) WithData(d uint8) Pins {
	return (p &^ (dataMask << dataShift)) | Pins(d)<<dataShift
}

func (p Pins) bit(mask Pins) bool { return p&mask != 0 }

func (p Pins) withBit(mask Pins, set bool) Pins {
	if set {
		return p | mask
	}
	return p &^ mask
}

func (p Pins) M1() bool          { return p.bit(bitM1) }
func (p Pins) WithM1(v bool) Pins { return p.withBit(bitM1, v) }

func (p Pins) MREQ() bool          { return p.bit(bitMREQ) }
func (p Pins) WithMREQ(v bool) Pins { return p.withBit(bitMREQ, v) }

func (p Pins) IORQ() bool          { return p.bit(bitIORQ) }
func (p Pins) WithIORQ(v bool) Pins { return p.withBit(bitIORQ, v) }

func (p Pins) RD() bool          { return p.bit(bitRD) }
func (p Pins) WithRD(v bool) Pins { return p.withBit(bitRD, v) }

func (p Pins) WR() bool          { return p.bit(bitWR) }
func (p Pins) WithWR(v bool) Pins { return p.withBit(bitWR, v) }

func (p Pins) HALT() bool          { return p.bit(bitHALT) }
func (p Pins) WithHALT(v bool) Pins { return p.withBit(bitHALT, v) }

func (p Pins) INT() bool          { return p.bit(bitINT) }
func (p Pins) WithINT(v bool) Pins { return p.withBit(bitINT, v) }

func (p Pins) NMI() bool          { return p.bit(bitNMI) }
func (p Pins) WithNMI(v bool) Pins { return p.withBit(bitNMI, v) }

func (p Pins) RFSH() bool          { return p.bit(bitRFSH) }
func (p Pins) WithRFSH(v bool) Pins { return p.withBit(bitRFSH, v) }

func (p Pins) IEIO() bool          { return p.bit(bitIEIO) }
func (p Pins) WithIEIO(v bool) Pins { return p.withBit(bitIEIO, v) }

func (p Pins) RETI() bool          { return p.bit(bitRETI) }
func (p Pins) WithRETI(v bool) Pins { return p.withBit(bitRETI, v) }

// Wait returns the number of wait states (0..7) a host has asked the CPU to
// inject on this cycle.
func (p Pins) Wait() int { return int((p >> waitShift) & waitMask) }

// WithWait returns p with the wait-state count set to n (clamped to 0..7).
func (p Pins) WithWait(n int) Pins {
	if n < 0 {
		n = 0
	}
	if n > 7 {
		n = 7
	}
	return (p &^ (waitMask << waitShift)) | Pins(n)<<waitShift
}

// CTCChannel returns the 2-bit CTC channel-select field, used by the system
// integration layer to route an I/O access to one of four CTC channels.
func (p Pins) CTCChannel() int { return int((p >> ctcChanShift) & ctcChanMask) }

// WithCTCChannel returns p with the CTC channel-select field set.
func (p Pins) WithCTCChannel(ch int) Pins {
	return (p &^ (ctcChanMask << ctcChanShift)) | Pins(ch&ctcChanMask)<<ctcChanShift
}

// PIOSelB reports whether the PIO port-B (rather than port-A) register set
// is being addressed.
func (p Pins) PIOSelB() bool          { return p.bit(bitPIOSelB) }
func (p Pins) WithPIOSelB(v bool) Pins { return p.withBit(bitPIOSelB, v) }

// VICCS is the VIC-II chip-select virtual pin.
func (p Pins) VICCS() bool          { return p.bit(bitVICCS) }
func (p Pins) WithVICCS(v bool) Pins { return p.withBit(bitVICCS, v) }

// VICCTRG2 is a VIC-specific auxiliary trigger pin (used by the KC85 variant
// wiring for the second color-RAM trigger).
func (p Pins) VICCTRG2() bool          { return p.bit(bitVICCTRG2) }
func (p Pins) WithVICCTRG2(v bool) Pins { return p.withBit(bitVICCTRG2, v) }

// MemRequest builds the pin word for a memory-access machine cycle.
func MemRequest(addr uint16, rd, wr bool) Pins {
	return Pins(0).WithAddr(addr).WithMREQ(true).WithRD(rd).WithWR(wr)
}

// IORequest builds the pin word for an I/O-access machine cycle.
func IORequest(addr uint16, rd, wr bool) Pins {
	return Pins(0).WithAddr(addr).WithIORQ(true).WithRD(rd).WithWR(wr)
}

// OpcodeFetch builds the pin word for an opcode-fetch (M1) machine cycle.
func OpcodeFetch(addr uint16) Pins {
	return Pins(0).WithAddr(addr).WithM1(true).WithMREQ(true).WithRD(true)
}

// Refresh builds the pin word for the refresh tick that follows an opcode
// fetch, with the refresh address (I<<8 is not part of this; callers pass
// the 7-bit R value combined with I as the address).
func Refresh(addr uint16) Pins {
	return Pins(0).WithAddr(addr).WithRFSH(true).WithMREQ(true)
}
