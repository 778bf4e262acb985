// Completion: 100% - Minimal disassembler collaborator complete
package main

// Disassembler is the boundary the spec calls out explicitly: turning raw
// bytes into a sequence of semantically-tagged Instructions is a full
// x86-64 decoder's job, which is out of scope for a gadget-reduction
// engine that only needs to recognize a handful of control-flow opcodes
// and otherwise treat everything else as opaque data. DisassembleInto
// implements exactly that reduced contract: it recognizes the opcodes the
// gadget table (gadgettable.go) and the merge passes care about
// (ret/retimm/retf/retfimm, near jmp/call rel32, register-direct indirect
// jmp/call; the [reg] memory forms are not recognized) and falls back to single-byte Plain instructions for
// everything else, which is always a conservative (if maximally
// fragmented) instruction boundary.
func DisassembleInto(p *Program, b *Block, data []byte) {
	i := 0
	for i < len(data) {
		n, sem := decodeOne(data[i:])
		if n <= 0 {
			n = 1
		}
		end := i + n
		if end > len(data) {
			end = len(data)
		}
		bytes := append([]byte(nil), data[i:end]...)
		p.NewInstruction(b, bytes, sem)
		i = end
	}
}

// decodeOne recognizes the fixed-length opcodes this module's passes
// operate on, returning the instruction's byte length and semantic tag.
// Anything unrecognized decodes as a single opaque byte.
func decodeOne(data []byte) (int, Semantic) {
	if len(data) == 0 {
		return 0, Semantic{Kind: SemPlain}
	}

	switch data[0] {
	case retOpcode:
		return 1, Semantic{Kind: SemControlFlow, CF: CFRet}
	case retImmOpcode, retfImmOpcode:
		if len(data) >= 3 {
			return 3, Semantic{Kind: SemControlFlow, CF: CFRet}
		}
	case retfOpcode:
		return 1, Semantic{Kind: SemControlFlow, CF: CFRet}
	case 0xe9: // near jmp rel32
		if len(data) >= nearJumpSize {
			return nearJumpSize, Semantic{Kind: SemControlFlow, CF: CFJump}
		}
	case 0xe8: // near call rel32
		if len(data) >= 5 {
			return 5, Semantic{Kind: SemControlFlow, CF: CFCall}
		}
	case indirectOpcode: // 0xff /2 (call) or /4 (jmp), reg-direct ModRM
		if len(data) >= 2 {
			reg, ok := indirectTargetRegister(data[1])
			ext := (data[1] >> 3) & 0x07
			if ok && (ext == 2 || ext == 4) {
				cf := CFIndirectJump
				if isIndirectCallModRM(data[1]) {
					cf = CFCall
				}
				return 2, Semantic{Kind: SemControlFlow, CF: cf, IndirectTargetReg: reg}
			}
		}
	}
	return 1, Semantic{Kind: SemPlain}
}

// indirectTargetRegister decodes a register-direct ModRM byte (mod==11)
// into the register name the merge-jump pass groups on.
func indirectTargetRegister(modrm byte) (string, bool) {
	if modrm&0xc0 != 0xc0 {
		return "", false
	}
	rm := modrm & 0x07
	names := [8]string{"rax", "rcx", "rdx", "rbx", "rsp", "rbp", "rsi", "rdi"}
	return names[rm], true
}

// isIndirectCallModRM reports whether a 0xFF ModRM byte's reg field
// selects the /2 (call) extension rather than /4 (jmp).
func isIndirectCallModRM(modrm byte) bool {
	return (modrm>>3)&0x07 == 2
}
