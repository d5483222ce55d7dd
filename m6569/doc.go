// Package m6569 implements the MOS 6569 (PAL) VIC-II video controller:
// the raster/badline timing unit, the 64 memory-mapped registers, the
// video matrix and graphics sequencer (standard/multicolor text,
// standard/multicolor bitmap, extended color text), the 8-sprite DMA and
// shift pipeline, the border unit, and the color multiplexer that combines
// them into one 4-bit colour index per 8-pixel cell, delivered through the
// Chip.Pixel callback; the package keeps no framebuffer.
//
// A Chip is ticked once per system clock cycle via Tick, following the
// documented 63-cycle PAL scanline schedule, and exposes the signals
// (interrupt request, bus-available/DMA request) that the system
// integration layer must honour by stalling the CPU while the VIC-II
// steals bus cycles for its own memory fetches.
package m6569
