package main

import (
	"math/rand"
	"testing"
)

func TestGenerateOffsetSleddingProfileFindsGadgetEncodingBranch(t *testing.T) {
	p := NewProgram()
	mod := p.NewModule("test", "")
	fn := p.NewFunction(mod, "f")
	b := p.NewBlock(fn)

	target := p.NewInstruction(b, []byte{0x90}, Semantic{Kind: SemPlain})
	jump := p.NewInstruction(b, nearJumpBytes(), Semantic{Kind: SemControlFlow, CF: CFJump, Link: NewInternalJumpLink(target.ID)})
	NewFunctionMutator(fn).Close()

	// Displacement = target - (jump.Address + jump.Size()) = 0xc3, which
	// encodes a ROP ret in its low byte.
	jump.SetAddress(0)
	target.SetAddress(0xc8)

	profile := GenerateOffsetSleddingProfile(p)
	branches, ok := profile[fn.ID]
	if !ok || len(branches) != 1 || branches[0] != jump.ID {
		t.Fatalf("expected the jump to be profiled as a gadget-encoding branch, got %v", profile)
	}
}

func TestOffsetSleddingInsertsSledBeforeTargetForPositiveDisplacement(t *testing.T) {
	p := NewProgram()
	mod := p.NewModule("test", "")
	fn := p.NewFunction(mod, "f")
	b := p.NewBlock(fn)

	target := p.NewInstruction(b, []byte{0x90}, Semantic{Kind: SemPlain})
	jump := p.NewInstruction(b, nearJumpBytes(), Semantic{Kind: SemControlFlow, CF: CFJump, Link: NewInternalJumpLink(target.ID)})
	NewFunctionMutator(fn).Close()

	jump.SetAddress(0)
	target.SetAddress(0xc8)

	profile := GenerateOffsetSleddingProfile(p)
	stats := OffsetSledding(p, profile, rand.New(rand.NewSource(1)))
	if stats.SledsInserted != 1 {
		t.Fatalf("expected 1 NOP inserted, got %d", stats.SledsInserted)
	}
	if len(b.Instructions) != 3 {
		t.Fatalf("expected 3 instructions after sledding, got %d", len(b.Instructions))
	}
	if b.Instructions[0].Bytes[0] != nopByte {
		t.Fatalf("expected the sled to land before the target instruction")
	}
	if b.Instructions[1] != target {
		t.Fatalf("expected the target to remain after the inserted sled")
	}
}

func TestOffsetSleddingNoOpWhenProfileEmpty(t *testing.T) {
	p := NewProgram()
	stats := OffsetSledding(p, OffsetSleddingProfile{}, rand.New(rand.NewSource(1)))
	if stats.SledsInserted != 0 || stats.FunctionsCorrected != 0 {
		t.Fatalf("expected no-op on an empty profile, got %+v", stats)
	}
}
