// Completion: 100% - Byte-level encoders complete
package main

// Encoders for the handful of x86-64 forms the gadget-reduction passes
// emit directly. These replace the teacher's text-tracing emitters
// (ret.go's retX86, jmp.go's jmpX86Unconditional, xor.go's
// xorX86RegWithReg) with plain byte-slice builders: the passes here splice
// bytes into an in-memory IR rather than stream assembly to a Writer, so
// the VerboseMode-gated fmt.Fprintf tracing moves to the call sites in the
// passes themselves instead of living in the encoder.

// nopByte is the single-byte x86-64 NOP, §6.3.
const nopByte = 0x90

// nopSled returns n NOP instructions' worth of raw bytes concatenated.
// Nothing in the module calls it: the passes insert one Instruction per
// NOP so each has its own stable InstrID.
func nopSled(n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = nopByte
	}
	return out
}

// nearJumpBytes encodes `jmp rel32` (opcode 0xE9 + a placeholder 32-bit
// little-endian displacement). The real displacement is filled in by
// WriteELF (elfio.go) from the assigned addresses when the generator emits
// the binary; mutation-time instructions carry a
// zeroed placeholder plus a Link the generator consults instead of reading
// these bytes.
func nearJumpBytes() []byte {
	return []byte{0xE9, 0x00, 0x00, 0x00, 0x00}
}

const nearJumpSize = 5

// xorRegRegBytes returns the fixed 3-byte encoding for `xor reg, reg` for
// the five caller-saved registers C5 zeroes, in the exact encodings
// `sanitizevolatileregisters.cpp`'s poisonReturn emits.
var xorRegRegBytes = map[string][]byte{
	"rcx": {0x48, 0x31, 0xC9}, // XOR RCX, RCX
	"r8":  {0x4D, 0x31, 0xC0}, // XOR R8,  R8
	"r9":  {0x4D, 0x31, 0xC9}, // XOR R9,  R9
	"r10": {0x4D, 0x31, 0xD2}, // XOR R10, R10
	"r11": {0x4D, 0x31, 0xDB}, // XOR R11, R11
}

// volatileSanitizeOrder is the register zeroing order §4.5 specifies.
var volatileSanitizeOrder = []string{"rcx", "r8", "r9", "r10", "r11"}

// volatileSanitizeSize is the total byte delta a sanitized ret incurs.
const volatileSanitizeSize = 3 * 5
