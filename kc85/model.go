package kc85

// Model identifies which KC85 variant a System emulates; the three models
// share the same CPU/CTC/PIO/VIC-II chip set but differ in ROM layout,
// RAM size, and which I/O ports exist.
type Model int

const (
	// Model2 is the KC85/2 (HC900): 16K RAM, no IRM colour expansion.
	Model2 Model = iota
	// Model3 adds a built-in BASIC ROM to the /2's hardware.
	Model3
	// Model4 adds a banked 16K RAM area (port 0x84) and scrollable text
	// screen bank (port 0x86), on top of the /3's capabilities.
	Model4
)

// capabilities records the per-model differences the memory and I/O
// layers need to know about.
type capabilities struct {
	hasBasicROM  bool
	hasBank84    bool // KC85/4-only banked RAM/IRM port
	hasBank86    bool // KC85/4-only display-bank port
	ramSize      uint32
	caosROMSize  int
}

func capabilitiesFor(m Model) capabilities {
	switch m {
	case Model2:
		return capabilities{ramSize: 0x4000, caosROMSize: 0x2000}
	case Model3:
		return capabilities{hasBasicROM: true, ramSize: 0x4000, caosROMSize: 0x2000}
	default:
		return capabilities{hasBasicROM: true, hasBank84: true, hasBank86: true, ramSize: 0x4000, caosROMSize: 0x4000}
	}
}
