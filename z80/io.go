package z80

import "github.com/kc85emu/core/pins"

// portIORequest builds the pins for an I/O machine cycle, optionally
// carrying an output byte.
func portIORequest(addr uint16, rd, wr bool, data uint8) pins.Pins {
	p := pins.IORequest(addr, rd, wr)
	if wr {
		p = p.WithData(data)
	}
	return p
}
