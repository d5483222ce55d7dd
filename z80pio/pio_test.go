package z80pio_test

import (
	"testing"

	"github.com/kc85emu/core/test"
	"github.com/kc85emu/core/z80pio"
)

func TestOutputPortLatchesData(t *testing.T) {
	pio := z80pio.NewPIO()
	pio.WriteData(0, 0x5a)
	test.ExpectEquality(t, pio.ReadData(0), uint8(0x5a))
}

func TestInputModeInterruptsOnChange(t *testing.T) {
	pio := z80pio.NewPIO()

	// mode-set word: input mode (0b01), low nibble 0xf
	pio.WriteControl(0, 0x4f)
	// vector
	pio.WriteControl(0, 0x10)
	// interrupt control word: IE=1, low nibble 0x07, no mask follows
	pio.WriteControl(0, 0x87)

	pio.SetInput(0, 0x01)
	test.ExpectSuccess(t, pio.IRQ())

	vec := pio.Acknowledge()
	test.ExpectEquality(t, vec, uint8(0x10))
	test.ExpectFailure(t, pio.IRQ())

	pio.RETI()
	test.ExpectSuccess(t, pio.IEO())
}

func TestBitControlModeANDMatch(t *testing.T) {
	pio := z80pio.NewPIO()

	// mode-set word: bit-control mode (0b11 << 6), low nibble 0xf
	pio.WriteControl(0, 0xff)
	// io direction: bit 0 is input, rest output
	pio.WriteControl(0, 0x01)
	// vector
	pio.WriteControl(0, 0x20)
	// interrupt control: IE=1, AND mask, active-high, mask-follows, low
	// nibble 0x07
	pio.WriteControl(0, 0xf7)
	// mask byte: only bit 0 relevant
	pio.WriteControl(0, 0x01)

	pio.SetInput(0, 0x00)
	test.ExpectFailure(t, pio.IRQ())

	pio.SetInput(0, 0x01)
	test.ExpectSuccess(t, pio.IRQ())
}

func TestPortBHasLowerPriorityThanPortA(t *testing.T) {
	pio := z80pio.NewPIO()

	pio.WriteControl(0, 0x4f)
	pio.WriteControl(0, 0x10)
	pio.WriteControl(0, 0x87)

	pio.WriteControl(1, 0x4f)
	pio.WriteControl(1, 0x18)
	pio.WriteControl(1, 0x87)

	pio.SetInput(0, 0x01)
	pio.SetInput(1, 0x01)
	test.ExpectSuccess(t, pio.IRQ())

	vec := pio.Acknowledge()
	test.ExpectEquality(t, vec, uint8(0x10))
	test.ExpectSuccess(t, pio.IRQ())
}
