package z80_test

import (
	"testing"

	"github.com/kc85emu/core/test"
	"github.com/kc85emu/core/z80"
)

func TestFlagsRoundTrip(t *testing.T) {
	var f z80.Flags
	f.Load(0xd7)
	test.ExpectEquality(t, f.Value(), uint8(0xd7))
}

func TestFlagsPowerOnState(t *testing.T) {
	f := z80.NewFlags()
	test.ExpectEquality(t, f.Value(), uint8(0xff))
}
