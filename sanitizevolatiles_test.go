package main

import "testing"

func TestSanitizeVolatilesInsertsXorsBeforeRet(t *testing.T) {
	p := NewProgram()
	mod := p.NewModule("test", "")
	fn := p.NewFunction(mod, "f")
	b := p.NewBlock(fn)
	call := p.NewInstruction(b, []byte{0xe8, 0, 0, 0, 0}, Semantic{Kind: SemControlFlow, CF: CFCall})
	ret := p.NewInstruction(b, []byte{retOpcode}, Semantic{Kind: SemControlFlow, CF: CFRet})
	NewFunctionMutator(fn).Close()

	stats := SanitizeVolatiles(p)
	if stats.RetsSanitized != 1 {
		t.Fatalf("expected 1 ret sanitized, got %d", stats.RetsSanitized)
	}

	want := len(volatileSanitizeOrder)
	if len(b.Instructions) != want+2 {
		t.Fatalf("expected %d instructions, got %d", want+2, len(b.Instructions))
	}
	if b.Instructions[0] != call {
		t.Fatalf("expected the call instruction to remain untouched at the front")
	}
	for i, reg := range volatileSanitizeOrder {
		got := b.Instructions[1+i].Bytes
		expect := xorRegRegBytes[reg]
		if len(got) != len(expect) {
			t.Fatalf("xor %d: wrong length", i)
		}
		for j := range got {
			if got[j] != expect[j] {
				t.Fatalf("xor %d: byte mismatch at %d", i, j)
			}
		}
	}
	if b.Instructions[want+1] != ret {
		t.Fatalf("expected the ret instruction to remain last")
	}
}

func TestSanitizeVolatilesNoOpWithoutRets(t *testing.T) {
	p := NewProgram()
	mod := p.NewModule("test", "")
	fn := p.NewFunction(mod, "f")
	b := p.NewBlock(fn)
	p.NewInstruction(b, []byte{0xe8, 0, 0, 0, 0}, Semantic{Kind: SemControlFlow, CF: CFCall})
	NewFunctionMutator(fn).Close()

	stats := SanitizeVolatiles(p)
	if stats.RetsSanitized != 0 {
		t.Fatalf("expected no rets sanitized, got %d", stats.RetsSanitized)
	}
}
