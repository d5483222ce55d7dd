// Package kc85 integrates the z80 CPU, m6569 VIC-II, z80ctc and z80pio
// chips, plus a layered RAM/ROM memory map and an interrupt daisy chain, as
// the KC85/2, /3 and /4 home computers wire them together. The keyboard
// matrix, cassette (KCC/TAP) loaders, expansion-module slot manager, and a
// debugger UI are all out of scope here; System exposes the pieces those
// collaborators would need (memory, I/O ports, interrupts) without
// providing them itself.
package kc85

import (
	"github.com/kc85emu/core/daisychain"
	"github.com/kc85emu/core/logger"
	"github.com/kc85emu/core/m6569"
	"github.com/kc85emu/core/pins"
	"github.com/kc85emu/core/z80"
	"github.com/kc85emu/core/z80ctc"
	"github.com/kc85emu/core/z80pio"
)

// I/O port addresses, as decoded by the KC85's port-select PROM. Only the
// ports this module's scope actually uses are named; everything else in
// 0x80-0x8f is treated as unmapped.
const (
	portPIOData1    = 0x88
	portPIOCtrl1    = 0x8a
	portPIOData2    = 0x89
	portPIOCtrl2    = 0x8b
	portCTC         = 0x80 // 0x80-0x83, one per channel
	portBank84      = 0x84 // KC85/4 only
	portBank86      = 0x86 // KC85/4 only
	portVIC         = 0xc0 // 0xc0-0xff, one per VIC-II register
)

// System is a complete KC85 machine: CPU, VIC-II, CTC, PIO, memory map and
// interrupt daisy chain wired together exactly as the real machine's
// backplane does it.
type System struct {
	Model Model
	caps  capabilities

	CPU *z80.CPU
	VIC *m6569.Chip
	CTC *z80ctc.CTC
	PIO *z80pio.PIO

	Mem *Memory

	chain *daisychain.Chain

	ram      *ramLayer
	irm      *ramLayer
	caosROM  *romLayer
	basicROM *romLayer
	bank84   *ramLayer

	blink bool // KC85/4 display-bank flip-flop (port 0x86 bit 0)
}

// NewSystem creates a System for the given model, with caosROM and
// basicROM supplying the CAOS operating-system and (on /3 and /4) built-in
// BASIC ROM images. basicROM may be nil for Model2.
func NewSystem(model Model, caosROM, basicROM []uint8) *System {
	s := &System{
		Model: model,
		caps:  capabilitiesFor(model),
		CTC:   z80ctc.NewCTC(),
		PIO:   z80pio.NewPIO(),
	}

	s.Mem = NewMemory()
	s.ram = newRAMLayer(0x0000, s.caps.ramSize)
	s.Mem.AddLayer(s.ram)

	s.irm = newRAMLayer(0x8000, 0x4000)
	s.irm.on = false
	s.Mem.AddLayer(s.irm)

	s.caosROM = newROMLayer(uint16(0x10000-s.caps.caosROMSize), caosROM)
	s.Mem.AddLayer(s.caosROM)

	if s.caps.hasBasicROM {
		s.basicROM = newROMLayer(0xc000, basicROM)
		s.Mem.AddLayer(s.basicROM)
	}

	if s.caps.hasBank84 {
		s.bank84 = newRAMLayer(0x4000, 0x4000)
		s.bank84.on = false
		s.Mem.AddLayer(s.bank84)
	}

	s.VIC = m6569.NewChip(vicMemReader{s})
	s.chain = daisychain.NewChain(s.CTC, s.PIO)

	log := logger.NewLogger(256)
	s.CPU = z80.NewCPU(s.tick, log)

	return s
}

type vicMemReader struct{ s *System }

func (v vicMemReader) VICRead(addr uint16) uint8 { return v.s.Mem.Read(addr) }

// tick is the Tick function wired into the CPU: it routes a memory access
// to Mem, an I/O access to the CTC/PIO/VIC-II as decoded below, and an
// interrupt-acknowledge or RETI cycle to the daisy chain.
func (s *System) tick(p pins.Pins) pins.Pins {
	switch {
	case p.MREQ() && p.RD():
		p = p.WithData(s.Mem.Read(p.Addr()))
	case p.MREQ() && p.WR():
		s.Mem.Write(p.Addr(), p.Data())
	case p.M1() && p.IORQ():
		p = s.chain.Tick(p)
	case p.IORQ():
		p = s.ioAccess(p)
	case p.RETI():
		s.chain.Tick(p)
	}

	p = s.VIC.Tick(p)
	if s.chain.IRQ() {
		p = p.WithINT(true)
	}
	return p
}

func (s *System) ioAccess(p pins.Pins) pins.Pins {
	addr := p.Addr() & 0xff

	switch {
	case addr >= portCTC && addr <= portCTC+3:
		return s.CTC.Tick(p.WithCTCChannel(int(addr - portCTC)))

	case addr == portPIOData1 || addr == portPIOCtrl1:
		p = p.WithPIOSelB(false)
		if addr == portPIOCtrl1 {
			p = p.WithAddr(1)
		} else {
			p = p.WithAddr(0)
		}
		r := s.PIO.Tick(p)
		if p.WR() && addr == portPIOData1 {
			s.applyBankSwitch(p.Data())
		}
		return r

	case addr == portPIOData2 || addr == portPIOCtrl2:
		p = p.WithPIOSelB(true)
		if addr == portPIOCtrl2 {
			p = p.WithAddr(1)
		} else {
			p = p.WithAddr(0)
		}
		return s.PIO.Tick(p)

	case s.caps.hasBank84 && addr == portBank84:
		if p.WR() {
			s.bank84.on = p.Data()&0x01 != 0
		}
		return p

	case s.caps.hasBank86 && addr == portBank86:
		if p.WR() {
			s.blink = p.Data()&0x01 != 0
		}
		return p

	case addr >= portVIC && addr <= portVIC+m6569.NumRegisters-1:
		return p.WithVICCS(true).WithAddr(uint16(addr - portVIC))
	}

	return p
}

// applyBankSwitch interprets PIO port A's output byte as the KC85's
// memory-module select latch: bit 0 enables the CAOS ROM, bit 1 enables the
// base RAM beneath it, bit 2 enables the IRM (video RAM) window at 0x8000,
// bit 3 write-protects the base RAM, and bit 7 enables the built-in BASIC
// ROM on models that have one.
func (s *System) applyBankSwitch(v uint8) {
	s.caosROM.on = v&0x01 != 0
	s.ram.on = v&0x02 != 0
	s.irm.on = v&0x04 != 0
	s.ram.writeProtected = v&0x08 != 0
	if s.basicROM != nil {
		s.basicROM.on = v&0x80 != 0
	}
}

// Reset resets the CPU to its power-on state. The VIC-II, CTC, PIO, the
// bank-switch latches and the contents of memory are not reset.
func (s *System) Reset() {
	s.CPU.Reset()
}

// Step executes one CPU instruction (and, through the shared tick
// function, the VIC-II, CTC and PIO ticks that accompany each of its bus
// cycles) and returns the number of CPU ticks it took (see z80.CPU.Ticks).
func (s *System) Step() int {
	return s.CPU.Step()
}
