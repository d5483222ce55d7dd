package m6569_test

import (
	"testing"

	"github.com/kc85emu/core/m6569"
	"github.com/kc85emu/core/pins"
	"github.com/kc85emu/core/test"
)

func setReg(c *m6569.Chip, addr uint16, v uint8) {
	c.Tick(pins.Pins(0).WithVICCS(true).WithWR(true).WithAddr(addr).WithData(v))
}

// primeOverlappingSprites wires up two single-colour, non-expanded sprites
// both sitting at X=24 (display column 0) on raster line 0. Every setReg is
// itself a Tick, so the enable is written first: their DMA fires on that
// very first Tick call (cycle 0 of line 0), and their pixel data lands in
// the same column when the test reaches display column 0 (cycle 11) of
// the same line.
func primeOverlappingSprites(mem *flatMem, c *m6569.Chip) {
	// sprite 0: pointer 1, data byte at its base nonzero.
	mem.buf[0x3f8] = 1
	mem.buf[64] = 0xff
	// sprite 1: pointer 2, data byte at its base nonzero.
	mem.buf[0x3f9] = 2
	mem.buf[128] = 0xff

	setReg(c, 0x15, 0x03) // $D015: enable sprites 0 and 1
	setReg(c, 0x16, 0x08) // $D016: CSEL, 40-column mode
	setReg(c, 0x00, 24) // sprite 0 X
	setReg(c, 0x01, 0)  // sprite 0 Y
	setReg(c, 0x02, 24) // sprite 1 X
	setReg(c, 0x03, 0)  // sprite 1 Y
}

func TestSpriteSpriteCollisionDetected(t *testing.T) {
	mem := &flatMem{}
	c := m6569.NewChip(mem)
	primeOverlappingSprites(mem, c)

	for i := 0; i < 12; i++ {
		c.Tick(pins.Pins(0))
	}

	test.ExpectSuccess(t, c.SpriteCollision(0, 1))
}

func TestSpriteSpriteCollisionRequiresBothSprites(t *testing.T) {
	mem := &flatMem{}
	c := m6569.NewChip(mem)
	primeOverlappingSprites(mem, c)

	for i := 0; i < 12; i++ {
		c.Tick(pins.Pins(0))
	}

	test.ExpectFailure(t, c.SpriteCollision(0, 2))
}

func TestSpriteDataCollisionAgainstForegroundGraphics(t *testing.T) {
	mem := &flatMem{}
	c := m6569.NewChip(mem)

	// with memPointers left at its zero value and no badline ever having
	// latched a non-zero video matrix entry, the default-mode character
	// generator fetch for column 0, line 0, rc 0 reads straight from
	// address 0: a non-zero byte there makes that pixel count as
	// foreground without needing a full badline setup.
	mem.buf[0] = 0xff

	// sprite 0 only, at column 0, raster line 0; enabled on the first Tick
	// so its DMA fires at cycle 0 of line 0.
	mem.buf[0x3f8] = 1
	mem.buf[64] = 0xff
	setReg(c, 0x15, 0x01)
	setReg(c, 0x16, 0x08) // 40-column mode
	setReg(c, 0x00, 24)
	setReg(c, 0x01, 0)

	for i := 0; i < 12; i++ {
		c.Tick(pins.Pins(0))
	}

	p := pins.Pins(0).WithVICCS(true).WithRD(true).WithAddr(0x1f)
	p = c.Tick(p)
	test.ExpectEquality(t, p.Data()&0x01, uint8(0x01))
}

func TestSpriteColorIsComposited(t *testing.T) {
	mem := &flatMem{}
	c := m6569.NewChip(mem)

	mem.buf[0x3f8] = 1
	mem.buf[64] = 0xff
	setReg(c, 0x15, 0x01) // enable sprite 0 only, on the first Tick
	setReg(c, 0x16, 0x08)
	setReg(c, 0x00, 24)
	setReg(c, 0x01, 0)
	setReg(c, 0x27, 0x07) // sprite 0 colour = 7

	var seen uint8
	seenCol := -1
	c.Pixel = func(x, y int, color uint8) {
		if x == 0 && seenCol != 0 {
			seen = color
			seenCol = 0
		}
	}

	for i := 0; i < 12; i++ {
		c.Tick(pins.Pins(0))
	}

	test.ExpectEquality(t, seen, uint8(0x07))
}
