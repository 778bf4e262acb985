package main

import "testing"

func TestMergeReturnCollapsesMultipleRets(t *testing.T) {
	p := NewProgram()
	mod := p.NewModule("test", "")
	fn := p.NewFunction(mod, "f")

	b1 := p.NewBlock(fn)
	ret1 := p.NewInstruction(b1, []byte{retOpcode}, Semantic{Kind: SemControlFlow, CF: CFRet})

	b2 := p.NewBlock(fn)
	p.NewInstruction(b2, []byte{retOpcode}, Semantic{Kind: SemControlFlow, CF: CFRet})
	NewFunctionMutator(fn).Close()

	stats := MergeReturn(p)
	if stats.FunctionsTouched != 1 {
		t.Fatalf("expected 1 function touched, got %d", stats.FunctionsTouched)
	}

	rets := fn.Rets()
	if len(rets) != 1 {
		t.Fatalf("expected exactly one surviving ret, got %d", len(rets))
	}
	if rets[0] != ret1 {
		t.Fatalf("expected the first ret to survive as canonical")
	}

	rewritten := b2.Instructions[0]
	if rewritten.Semantic.Kind != SemControlFlow || rewritten.Semantic.CF != CFJump {
		t.Fatalf("expected rewritten instruction to be a jump, got %v", rewritten.Semantic.CF)
	}
	if rewritten.Semantic.Link == nil || rewritten.Semantic.Link.TargetInstr != ret1.ID {
		t.Fatalf("expected rewritten jump to link to the canonical ret")
	}
	if len(rewritten.Bytes) != nearJumpSize {
		t.Fatalf("expected a %d-byte near jump encoding, got %d bytes", nearJumpSize, len(rewritten.Bytes))
	}
}

func TestMergeReturnLeavesSingleRetUntouched(t *testing.T) {
	p := NewProgram()
	mod := p.NewModule("test", "")
	fn := p.NewFunction(mod, "f")
	b := p.NewBlock(fn)
	p.NewInstruction(b, []byte{retOpcode}, Semantic{Kind: SemControlFlow, CF: CFRet})
	NewFunctionMutator(fn).Close()

	stats := MergeReturn(p)
	if stats.FunctionsTouched != 0 {
		t.Fatalf("expected no functions touched, got %d", stats.FunctionsTouched)
	}
}
