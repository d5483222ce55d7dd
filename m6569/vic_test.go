package m6569_test

import (
	"testing"

	"github.com/kc85emu/core/m6569"
	"github.com/kc85emu/core/pins"
	"github.com/kc85emu/core/test"
)

type flatMem struct {
	buf [65536]uint8
}

func (m *flatMem) VICRead(addr uint16) uint8 {
	return m.buf[addr]
}

func TestRegisterWriteReadBack(t *testing.T) {
	mem := &flatMem{}
	c := m6569.NewChip(mem)

	p := pins.Pins(0).WithVICCS(true).WithWR(true).WithAddr(0x20).WithData(0x05)
	c.Tick(p)

	p = pins.Pins(0).WithVICCS(true).WithRD(true).WithAddr(0x20)
	p = c.Tick(p)
	test.ExpectEquality(t, p.Data()&0x0f, uint8(0x05))
}

func TestRasterIRQFiresWhenLineMatchesCompareAndIsUnmasked(t *testing.T) {
	mem := &flatMem{}
	c := m6569.NewChip(mem)

	// $D012: raster compare = line 5 (RST8, register $D011 bit 7, left
	// clear so the compare is 8 bits wide).
	c.Tick(pins.Pins(0).WithVICCS(true).WithWR(true).WithAddr(0x12).WithData(5))
	// $D01A: unmask IRST (bit 0).
	c.Tick(pins.Pins(0).WithVICCS(true).WithWR(true).WithAddr(0x1a).WithData(0x01))

	test.ExpectFailure(t, c.IRQ())

	// Raster IRQ is latched on hCount==1 of the matching line, which is the
	// 317th cycle from power-on (2 cycles into line 0 to first reach
	// hCount==1, then 63 cycles per further line).
	for i := 0; i < 317; i++ {
		c.Tick(pins.Pins(0))
	}

	test.ExpectSuccess(t, c.IRQ())

	p := pins.Pins(0).WithVICCS(true).WithRD(true).WithAddr(0x19)
	p = c.Tick(p)
	test.ExpectEquality(t, p.Data()&0x81, uint8(0x81))
}

func TestRasterIRQStaysMaskedWhenDisabled(t *testing.T) {
	mem := &flatMem{}
	c := m6569.NewChip(mem)

	c.Tick(pins.Pins(0).WithVICCS(true).WithWR(true).WithAddr(0x12).WithData(5))

	for i := 0; i < 317; i++ {
		c.Tick(pins.Pins(0))
	}

	test.ExpectFailure(t, c.IRQ())
}

func TestRasterAdvancesAcrossFrame(t *testing.T) {
	mem := &flatMem{}
	c := m6569.NewChip(mem)

	for i := 0; i < 63*312+1; i++ {
		c.Tick(pins.Pins(0))
	}

	// one full frame plus one cycle wraps the raster back to cycle 1 of
	// line 0; with DEN never set and no sprite enabled, nothing on the way
	// has left BA pulled low.
	test.ExpectEquality(t, c.BA(), true)
}
