package main

import "testing"

func TestWidenBarriersInsertsNopAcrossBoundaryGadget(t *testing.T) {
	p := NewProgram()
	mod := p.NewModule("test", "")
	fn := p.NewFunction(mod, "f")
	b := p.NewBlock(fn)

	// instr ending in 0xff, next instr starting with 0xe0: forms an
	// indirect jmp/call boundary gadget (§6.2).
	first := p.NewInstruction(b, []byte{0x48, 0x89, 0xff}, Semantic{Kind: SemPlain})
	second := p.NewInstruction(b, []byte{0xe0, 0x00}, Semantic{Kind: SemPlain})
	NewFunctionMutator(fn).Close()

	stats := WidenBarriers(p)
	if stats.BarriersWidened != 1 {
		t.Fatalf("expected 1 barrier widened, got %d", stats.BarriersWidened)
	}
	if len(b.Instructions) != 3 {
		t.Fatalf("expected 3 instructions after widening, got %d", len(b.Instructions))
	}
	nop := b.Instructions[1]
	if len(nop.Bytes) != 1 || nop.Bytes[0] != nopByte {
		t.Fatalf("expected a single NOP inserted between the boundary pair")
	}
	if b.Instructions[0] != first || b.Instructions[2] != second {
		t.Fatalf("expected the original instructions to remain in place around the NOP")
	}
}

func TestWidenBarriersNoOpWhenNoBoundaryMatches(t *testing.T) {
	p := NewProgram()
	mod := p.NewModule("test", "")
	fn := p.NewFunction(mod, "f")
	b := p.NewBlock(fn)
	p.NewInstruction(b, []byte{0x48, 0x89, 0xc0}, Semantic{Kind: SemPlain})
	p.NewInstruction(b, []byte{0x90}, Semantic{Kind: SemPlain})
	NewFunctionMutator(fn).Close()

	stats := WidenBarriers(p)
	if stats.BarriersWidened != 0 {
		t.Fatalf("expected no barriers widened, got %d", stats.BarriersWidened)
	}
	if len(b.Instructions) != 2 {
		t.Fatalf("expected instruction count unchanged, got %d", len(b.Instructions))
	}
}

func TestWidenBarriersCrossesBlockBoundary(t *testing.T) {
	p := NewProgram()
	mod := p.NewModule("test", "")
	fn := p.NewFunction(mod, "f")
	b1 := p.NewBlock(fn)
	p.NewInstruction(b1, []byte{0xff}, Semantic{Kind: SemPlain})
	b2 := p.NewBlock(fn)
	p.NewInstruction(b2, []byte{0xe0}, Semantic{Kind: SemPlain})
	NewFunctionMutator(fn).Close()

	stats := WidenBarriers(p)
	if stats.BarriersWidened != 1 {
		t.Fatalf("expected a NOP inserted across the block boundary, got %d", stats.BarriersWidened)
	}
	if len(b1.Instructions) != 2 {
		t.Fatalf("expected the NOP to land at the end of the first block, got %d instructions", len(b1.Instructions))
	}
}
