// Package z80 implements a Zilog Z80 CPU core: full register file (main and
// shadow banks, IX/IY, WZ/memptr, I/R, IM/IFF1/IFF2), the
// unprefixed/CB/ED/DD/FD/DDCB/FDCB decode trees, flag computation including
// the undocumented Y/X bits, and NMI/INT interrupt handling with IM 0/1/2
// and RETI daisy-chain signalling.
package z80
