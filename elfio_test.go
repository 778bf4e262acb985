package main

import (
	"bytes"
	"testing"
)

func TestWriteELFProducesValidHeaderMagic(t *testing.T) {
	p := NewProgram()
	mod := p.NewModule("m", "")
	fn := p.NewFunction(mod, "f")
	b := p.NewBlock(fn)
	p.NewInstruction(b, []byte{retOpcode}, Semantic{Kind: SemControlFlow, CF: CFRet})
	NewFunctionMutator(fn).Close()
	AssignLayout(p, 0x400000)

	var buf bytes.Buffer
	if err := WriteELF(&buf, p, 0x400000, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.Bytes()
	if len(out) < elfHeaderSize {
		t.Fatalf("expected at least a full ELF header, got %d bytes", len(out))
	}
	if !bytes.Equal(out[0:4], []byte{0x7f, 'E', 'L', 'F'}) {
		t.Fatalf("expected ELF magic at start of file, got %x", out[0:4])
	}
	if out[4] != 2 {
		t.Fatalf("expected ELFCLASS64, got %d", out[4])
	}
}

func TestCalculateLayoutRejectsEmptyProgram(t *testing.T) {
	p := NewProgram()
	if _, err := CalculateLayout(p); err == nil {
		t.Fatalf("expected an error for a program with no functions")
	}
}

func TestCalculateLayoutAccountsForInstructionBytes(t *testing.T) {
	p := NewProgram()
	mod := p.NewModule("m", "")
	fn := p.NewFunction(mod, "f")
	b := p.NewBlock(fn)
	p.NewInstruction(b, []byte{0x90, 0x90, 0x90}, Semantic{Kind: SemPlain})
	NewFunctionMutator(fn).Close()

	size, err := CalculateLayout(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if size <= 3 {
		t.Fatalf("expected layout size to include header overhead plus code, got %d", size)
	}
}
