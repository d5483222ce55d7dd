package z80_test

import (
	"testing"

	"github.com/kc85emu/core/test"
	"github.com/kc85emu/core/z80"
)

func TestPairHiLo(t *testing.T) {
	p := z80.NewPair(0x1234)
	test.ExpectEquality(t, p.Hi(), uint8(0x12))
	test.ExpectEquality(t, p.Lo(), uint8(0x34))

	p.LoadHi(0xab)
	test.ExpectEquality(t, p.Value(), uint16(0xab34))
}

func TestRegistersResetState(t *testing.T) {
	r := z80.NewRegisters()
	test.ExpectEquality(t, r.PC, uint16(0))
	test.ExpectEquality(t, r.IFF1, false)
	test.ExpectEquality(t, r.IFF2, false)
	test.ExpectEquality(t, r.IM, uint8(0))
	test.ExpectEquality(t, r.SP.Value(), uint16(0xffff))
}

func TestExchangeAF(t *testing.T) {
	r := z80.NewRegisters()
	r.A = 0x42
	r.F.Load(0x01)
	r.A_ = 0x99

	r.ExchangeAF()
	test.ExpectEquality(t, r.A, uint8(0x99))
}

func TestExx(t *testing.T) {
	r := z80.NewRegisters()
	r.BC = z80.NewPair(0x1122)
	r.BC_ = z80.NewPair(0x3344)

	r.Exx()
	test.ExpectEquality(t, r.BC.Value(), uint16(0x3344))
}
