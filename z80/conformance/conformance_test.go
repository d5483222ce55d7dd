package conformance

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/kc85emu/core/logger"
	"github.com/kc85emu/core/pins"
	"github.com/kc85emu/core/test"
	"github.com/kc85emu/core/z80"
)

type testMem struct {
	internal [0x10000]uint8
	ports    [0x10000]uint8
}

func (m *testMem) tick(p pins.Pins) pins.Pins {
	switch {
	case p.MREQ() && p.RD():
		return p.WithData(m.internal[p.Addr()])
	case p.MREQ() && p.WR():
		m.internal[p.Addr()] = p.Data()
	case p.IORQ() && p.RD():
		return p.WithData(m.ports[p.Addr()])
	case p.IORQ() && p.WR():
		m.ports[p.Addr()] = p.Data()
	}
	return p
}

type ramEntry struct {
	Address uint16
	Value   uint8
}

func (r *ramEntry) UnmarshalJSON(data []byte) error {
	var raw [2]uint64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Address = uint16(raw[0])
	r.Value = uint8(raw[1])
	return nil
}

type state struct {
	PC, SP                 uint16
	A, B, C, D, E, F       uint8
	H, L, I, R             uint8
	IX, IY                 uint16
	AFalt, BCalt, DEalt    uint16
	HLalt                  uint16
	EI, IFF2               int
	IM                     uint8
	RAM                    []ramEntry
}

func (s *state) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	field := func(name string, dst interface{}) {
		if v, ok := raw[name]; ok {
			json.Unmarshal(v, dst)
		}
	}
	field("pc", &s.PC)
	field("sp", &s.SP)
	field("a", &s.A)
	field("b", &s.B)
	field("c", &s.C)
	field("d", &s.D)
	field("e", &s.E)
	field("f", &s.F)
	field("h", &s.H)
	field("l", &s.L)
	field("i", &s.I)
	field("r", &s.R)
	field("ix", &s.IX)
	field("iy", &s.IY)
	field("af_", &s.AFalt)
	field("bc_", &s.BCalt)
	field("de_", &s.DEalt)
	field("hl_", &s.HLalt)
	field("iff1", &s.EI)
	field("iff2", &s.IFF2)
	field("im", &s.IM)
	field("ram", &s.RAM)
	return nil
}

type testCase struct {
	Name    string `json:"name"`
	Initial state  `json:"initial"`
	Final   state  `json:"final"`
}

var testsPath = filepath.Join("v1")

func TestSingleStep(t *testing.T) {
	env := os.Getenv("KC85_SINGLESTEP_TEST")
	if len(env) == 0 {
		return
	}

	selected := strings.Split(env, ",")
	for _, s := range selected {
		rng := strings.SplitN(s, "-", 2)
		switch len(rng) {
		case 1:
			n, err := strconv.ParseUint(rng[0], 16, 8)
			if err != nil {
				t.Fatalf("opcode is malformed: %s: %v", s, err)
			}
			runOpcodeFile(t, uint8(n))
		case 2:
			n, err := strconv.ParseUint(rng[0], 16, 8)
			if err != nil {
				t.Fatalf("opcode range is malformed: %s: %v", s, err)
			}
			e, err := strconv.ParseUint(rng[1], 16, 8)
			if err != nil {
				t.Fatalf("opcode range is malformed: %s: %v", s, err)
			}
			for n <= e {
				runOpcodeFile(t, uint8(n))
				n++
			}
		default:
			t.Fatalf("opcode is malformed: %s", s)
		}
	}
}

func runOpcodeFile(t *testing.T, opcode uint8) {
	testFile := filepath.Join(testsPath, fmt.Sprintf("%02x.json", opcode))

	f, err := os.Open(testFile)
	if err != nil {
		t.Logf("skipping %s: %v", testFile, err)
		return
	}
	defer f.Close()

	var cases []testCase
	if err := json.NewDecoder(f).Decode(&cases); err != nil {
		t.Fatalf("%s: %v", testFile, err)
	}

	for i, c := range cases {
		mem := &testMem{}
		cpu := z80.NewCPU(mem.tick, logger.NewLogger(1))
		loadState(cpu, &c.Initial, mem)

		cpu.Step()

		checkState(t, cpu, &c.Final, mem, testFile, i)
	}
}

func loadState(cpu *z80.CPU, s *state, mem *testMem) {
	cpu.R.PC = s.PC
	cpu.R.SP.Load(s.SP)
	cpu.R.A = s.A
	cpu.R.F.Load(s.F)
	cpu.R.BC.LoadHi(s.B)
	cpu.R.BC.LoadLo(s.C)
	cpu.R.DE.LoadHi(s.D)
	cpu.R.DE.LoadLo(s.E)
	cpu.R.HL.LoadHi(s.H)
	cpu.R.HL.LoadLo(s.L)
	cpu.R.IX.Load(s.IX)
	cpu.R.IY.Load(s.IY)
	cpu.R.I = s.I
	cpu.R.R = s.R
	cpu.R.IM = s.IM
	cpu.R.IFF1 = s.EI != 0
	cpu.R.IFF2 = s.IFF2 != 0
	for _, r := range s.RAM {
		mem.internal[r.Address] = r.Value
	}
}

func checkState(t *testing.T, cpu *z80.CPU, s *state, mem *testMem, testFile string, i int) {
	test.ExpectEquality(t, cpu.R.PC, s.PC)
	test.ExpectEquality(t, cpu.R.A, s.A)
	test.ExpectEquality(t, cpu.R.F.Value(), s.F)
	test.ExpectEquality(t, cpu.R.BC.Hi(), s.B)
	test.ExpectEquality(t, cpu.R.BC.Lo(), s.C)
	test.ExpectEquality(t, cpu.R.DE.Hi(), s.D)
	test.ExpectEquality(t, cpu.R.DE.Lo(), s.E)
	test.ExpectEquality(t, cpu.R.HL.Hi(), s.H)
	test.ExpectEquality(t, cpu.R.HL.Lo(), s.L)
	test.ExpectEquality(t, cpu.R.IX.Value(), s.IX)
	test.ExpectEquality(t, cpu.R.IY.Value(), s.IY)
	for _, r := range s.RAM {
		if mem.internal[r.Address] != r.Value {
			t.Errorf("%s case %d: ram[%04x] = %02x, want %02x", testFile, i, r.Address, mem.internal[r.Address], r.Value)
		}
	}
}
