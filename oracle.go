// Completion: 100% - Gadget oracle (C1) complete
package main

// ContainsUnintendedGadgets is the gadget oracle, C1: purely functional,
// total over every signed 64-bit displacement. It returns the minimum
// number of NOPs that, inserted to shift the displacement by the
// sign-appropriate amount, would move its little-endian byte encoding past
// every pattern in the gadget table (§6.2). A return of 0 means the
// displacement encodes no unintended gadget.
//
// The displacement is rendered as its 8 little-endian bytes (byte 0 is the
// LSB) and scanned pattern by pattern, in the declaration order of §6.2 -
// not byte-position order - exactly as `offsetsledding.cpp`'s
// containsUnintendedGadgets does with its reversed hex string. The first
// pattern type that matches anywhere in the 8 bytes wins, using that
// pattern's own match offset.
func ContainsUnintendedGadgets(d int64) int {
	b := displacementBytes(d)

	if k, ok := findByte(b, retOpcode, 0); ok {
		return sled(k, d < 0)
	}
	if k, ok := findByte(b, retImmOpcode, 0); ok {
		return sled(k, d > 0)
	}
	if k, ok := findByte(b, retfOpcode, 0); ok {
		return sled(k, d > 0)
	}
	if k, ok := findByte(b, retfImmOpcode, 0); ok {
		return sled(k, d < 0)
	}
	if k, ok := findIndirectPair(b, indirectOpcode, 0); ok {
		return sled(k, false)
	}
	if k, ok := findAddr32IndirectPair(b); ok {
		return sled(k, false)
	}
	if k, ok := findPair(b, int80Prefix, int80Opcode); ok {
		return sled(k, false)
	}
	if k, ok := findPair(b, sysenterPrefix, sysenterOpcode); ok {
		return sled(k, false)
	}
	if k, ok := findPair(b, sysenterPrefix, syscallOpcode); ok {
		return sled(k, false)
	}
	return 0
}

// sled computes 256^k, doubled when double is true - the "jump the whole
// byte instead of landing on the gadget's sign-mirror" correction §4.1
// calls for.
func sled(k int, double bool) int {
	s := 1
	for i := 0; i < k; i++ {
		s *= 256
	}
	if double {
		s *= 2
	}
	return s
}

// displacementBytes renders d as 8 little-endian bytes, byte 0 = LSB.
func displacementBytes(d int64) [8]byte {
	u := uint64(d)
	var out [8]byte
	for i := 0; i < 8; i++ {
		out[i] = byte(u >> (8 * uint(i)))
	}
	return out
}

// findByte returns the index of the first occurrence of target at or after
// from.
func findByte(b [8]byte, target byte, from int) (int, bool) {
	for i := from; i < len(b); i++ {
		if b[i] == target {
			return i, true
		}
	}
	return 0, false
}

// findPair returns the index of the first occurrence of the two-byte
// sequence (first, second) at consecutive positions.
func findPair(b [8]byte, first, second byte) (int, bool) {
	for i := 0; i < len(b)-1; i++ {
		if b[i] == first && b[i+1] == second {
			return i, true
		}
	}
	return 0, false
}

// findIndirectPair finds the first occurrence of opcode, then checks only
// that occurrence's following byte against the JOP/COP second-byte set -
// reproducing the original's non-backtracking "find the opcode, then test
// its very next byte" behavior rather than searching for a position where
// both bytes match.
func findIndirectPair(b [8]byte, opcode byte, from int) (int, bool) {
	idx, ok := findByte(b, opcode, from)
	if !ok || idx+1 >= len(b) {
		return 0, false
	}
	if jopSecondBytes[b[idx+1]] {
		return idx, true
	}
	return 0, false
}

// findAddr32IndirectPair finds the first 0x67 0xff pair, then checks the
// byte after it against the JOP/COP second-byte set.
func findAddr32IndirectPair(b [8]byte) (int, bool) {
	idx, ok := findPair(b, addr32Prefix, indirectOpcode)
	if !ok || idx+2 >= len(b) {
		return 0, false
	}
	if jopSecondBytes[b[idx+2]] {
		return idx, true
	}
	return 0, false
}
