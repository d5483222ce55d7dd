package z80ctc_test

import (
	"testing"

	"github.com/kc85emu/core/test"
	"github.com/kc85emu/core/z80ctc"
)

func TestTimerChannelFiresAndInterrupts(t *testing.T) {
	c := z80ctc.NewCTC()

	// vector-set word for channel 0
	c.WriteChannel(0, 0x10)

	// control word: interrupt enabled, timer mode, prescaler 16, no
	// external trigger required, time-constant-follows
	c.WriteChannel(0, 0x85)
	c.WriteChannel(0, 2) // time constant

	test.ExpectEquality(t, c.ReadChannel(0), uint8(2))
	test.ExpectFailure(t, c.IRQ())

	c.TickChannel(0, 2)
	test.ExpectFailure(t, c.IRQ())

	c.TickChannel(0, 1)
	test.ExpectSuccess(t, c.IRQ())

	vec := c.Acknowledge()
	test.ExpectEquality(t, vec, uint8(0x10))
	test.ExpectFailure(t, c.IRQ())

	c.RETI()
	test.ExpectSuccess(t, c.IEO())
}

func TestCounterChannelDecrementsOnTrigger(t *testing.T) {
	c := z80ctc.NewCTC()

	// counter mode, rising edge, interrupt enabled, time-constant-follows
	c.WriteChannel(1, 0xd5)
	c.WriteChannel(1, 2)

	c.Trigger(1, true)
	test.ExpectFailure(t, c.IRQ())
	c.Trigger(1, true)
	test.ExpectFailure(t, c.IRQ())
	c.Trigger(1, true)
	test.ExpectSuccess(t, c.IRQ())
}

func TestDaisyChainPriorityOrder(t *testing.T) {
	c := z80ctc.NewCTC()

	c.WriteChannel(0, 0x08) // vector base
	c.WriteChannel(0, 0x85)
	c.WriteChannel(0, 1)
	c.WriteChannel(2, 0x85)
	c.WriteChannel(2, 1)

	c.TickChannel(0, 2)
	c.TickChannel(2, 2)
	test.ExpectSuccess(t, c.IRQ())

	// channel 0 has priority over channel 2
	vec := c.Acknowledge()
	test.ExpectEquality(t, vec, uint8(0x08))
	test.ExpectSuccess(t, c.IRQ()) // channel 2 still pending
}
