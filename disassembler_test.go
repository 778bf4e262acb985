package main

import "testing"

func TestDisassembleIntoRecognizesRet(t *testing.T) {
	p := NewProgram()
	mod := p.NewModule("m", "")
	fn := p.NewFunction(mod, "f")
	b := p.NewBlock(fn)

	DisassembleInto(p, b, []byte{retOpcode})

	if len(b.Instructions) != 1 {
		t.Fatalf("expected 1 instruction, got %d", len(b.Instructions))
	}
	if b.Instructions[0].Semantic.CF != CFRet {
		t.Fatalf("expected a ret semantic")
	}
}

func TestDisassembleIntoRecognizesIndirectJump(t *testing.T) {
	p := NewProgram()
	mod := p.NewModule("m", "")
	fn := p.NewFunction(mod, "f")
	b := p.NewBlock(fn)

	DisassembleInto(p, b, []byte{indirectOpcode, 0xe0})

	if len(b.Instructions) != 1 {
		t.Fatalf("expected 1 instruction, got %d", len(b.Instructions))
	}
	sem := b.Instructions[0].Semantic
	if sem.CF != CFIndirectJump || sem.IndirectTargetReg != "rax" {
		t.Fatalf("expected an indirect jump through rax, got %+v", sem)
	}
}

func TestDisassembleIntoFallsBackToPlainBytes(t *testing.T) {
	p := NewProgram()
	mod := p.NewModule("m", "")
	fn := p.NewFunction(mod, "f")
	b := p.NewBlock(fn)

	DisassembleInto(p, b, []byte{0x48, 0x89, 0xc0})

	if len(b.Instructions) != 3 {
		t.Fatalf("expected 3 single-byte plain instructions, got %d", len(b.Instructions))
	}
	for _, instr := range b.Instructions {
		if instr.Semantic.Kind != SemPlain {
			t.Fatalf("expected plain semantics for unrecognized bytes")
		}
	}
}
