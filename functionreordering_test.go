package main

import (
	"math/rand"
	"testing"
)

func buildReorderingProgram(t *testing.T) (*Program, *Function, *Function, *Function) {
	t.Helper()
	p := NewProgram()
	mod := p.NewModule("test", "")

	fnA := p.NewFunction(mod, "a")
	blockA := p.NewBlock(fnA)
	p.NewInstruction(blockA, []byte{0x90}, Semantic{Kind: SemPlain})
	fnB := p.NewFunction(mod, "b")
	call := p.NewInstruction(blockA, []byte{0xe8, 0, 0, 0, 0}, Semantic{Kind: SemControlFlow, CF: CFCall, Link: NewFunctionLink(fnB.ID)})
	_ = call
	NewFunctionMutator(fnA).Close()

	blockB := p.NewBlock(fnB)
	p.NewInstruction(blockB, []byte{0x90, 0x90, 0x90, 0x90}, Semantic{Kind: SemPlain})
	NewFunctionMutator(fnB).Close()

	fnC := p.NewFunction(mod, "c")
	blockC := p.NewBlock(fnC)
	p.NewInstruction(blockC, make([]byte, 10), Semantic{Kind: SemPlain})
	NewFunctionMutator(fnC).Close()

	// Addresses chosen so the call's displacement encodes a ROP ret at
	// byte offset 1 (0xc300), giving a sled of 256 - comfortably over the
	// reordering threshold of 2.
	fnA.SetAddress(0)
	blockA.Instructions[1].SetAddress(1) // the call instruction
	fnB.SetAddress(0xc306)
	fnC.SetAddress(0xc306 + 4)

	return p, fnA, fnB, fnC
}

func TestGenerateFunctionReorderingProfileFindsLongSledCall(t *testing.T) {
	p, fnA, fnB, _ := buildReorderingProgram(t)

	profile := GenerateFunctionReorderingProfile(p)
	if len(profile) != 1 {
		t.Fatalf("expected 1 profile entry, got %d", len(profile))
	}
	entry := profile[0]
	if entry.Source != fnA.ID {
		t.Fatalf("expected source to be function a")
	}
	if len(entry.Targets) != 1 || entry.Targets[0].Func != fnB.ID {
		t.Fatalf("expected one target naming function b, got %+v", entry.Targets)
	}
	if entry.Targets[0].Sled <= 2 {
		t.Fatalf("expected a sled greater than the reordering threshold, got %d", entry.Targets[0].Sled)
	}
}

func TestFunctionReorderingProducesValidPermutation(t *testing.T) {
	p, fnA, fnB, fnC := buildReorderingProgram(t)
	profile := GenerateFunctionReorderingProfile(p)

	result := FunctionReordering(p, profile, rand.New(rand.NewSource(7)))

	if len(result.Order) != 3 {
		t.Fatalf("expected 3 functions in the permuted order, got %d", len(result.Order))
	}
	seen := map[FuncID]bool{}
	for _, id := range result.Order {
		seen[id] = true
	}
	for _, fn := range []*Function{fnA, fnB, fnC} {
		if !seen[fn.ID] {
			t.Fatalf("expected function %d to still appear in the order", fn.ID)
		}
	}
}

func TestFunctionReorderingNoOpOnEmptyProfile(t *testing.T) {
	p, _, _, _ := buildReorderingProgram(t)
	result := FunctionReordering(p, nil, rand.New(rand.NewSource(1)))
	if len(result.Order) != len(p.FunctionOrder) {
		t.Fatalf("expected the original order to be returned unchanged")
	}
}
