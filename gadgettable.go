// Completion: 100% - Gadget byte tables complete
package main

// jopSecondBytes is the set of second bytes that, following a 0xFF first
// byte (or a 0x67 0xFF pair for 32-bit addressing), encode an indirect
// jmp/call through a register or [register] - JOP/COP gadgets, §6.2.
var jopSecondBytes = map[byte]bool{
	0x20: true, 0x21: true, 0x22: true, 0x23: true, 0x26: true, 0x27: true,
	0xe0: true, 0xe1: true, 0xe2: true, 0xe3: true, 0xe4: true, 0xe6: true, 0xe7: true,
	0x10: true, 0x11: true, 0x12: true, 0x13: true, 0x16: true, 0x17: true,
	0xd0: true, 0xd1: true, 0xd2: true, 0xd3: true, 0xd4: true, 0xd6: true, 0xd7: true,
}

// retOpcode, retImmOpcode, retfOpcode and retfImmOpcode are the four ROP
// return-family opcodes the oracle scans for.
const (
	retOpcode       byte = 0xc3 // near ret
	retImmOpcode    byte = 0xc2 // ret imm16
	retfOpcode      byte = 0xca // retf
	retfImmOpcode   byte = 0xcb // retf imm16
	indirectOpcode  byte = 0xff // jmp/call reg|[reg]; also the boundary-table first byte
	addr32Prefix    byte = 0x67 // 32-bit address-size override preceding 0xff
	sysenterPrefix  byte = 0x0f
	sysenterOpcode  byte = 0x34
	syscallOpcode   byte = 0x05
	int80Prefix     byte = 0xcd
	int80Opcode     byte = 0x80
)
