// Package conformance runs the SingleStepTests z80 JSON CPU test corpus
// against this module's z80.CPU.
//
// https://github.com/SingleStepTests/z80
//
// The tests are large and are not included in this repository; add the
// per-opcode JSON files you want to test to the v1 directory alongside this
// package.
//
// The full corpus is slow, so by default no tests run. Set
// KC85_SINGLESTEP_TEST to enable individual opcode tests, e.g.
//
//	KC85_SINGLESTEP_TEST=00-ff go test -test.v .
//
// Opcodes can be given individually, comma-separated, or as ranges:
//
//	00,12,3d,fd
//	00-0f,23,45,a4-a9
package conformance
