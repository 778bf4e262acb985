package main

import "testing"

func TestParseArgsRequiresInputAndOutputFiles(t *testing.T) {
	if _, err := ParseArgs([]string{"-v", "input.elf"}); err == nil {
		t.Fatalf("expected an error when the output file is missing")
	}
}

func TestParseArgsDefaultsToGadgetReductionOn(t *testing.T) {
	ctx, err := ParseArgs([]string{"input.elf", "output.elf"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ctx.GadgetReduction {
		t.Fatalf("expected gadget-reduction to default to on")
	}
	if ctx.InputPath != "input.elf" || ctx.OutputPath != "output.elf" {
		t.Fatalf("expected both positional paths to be parsed, got %q %q", ctx.InputPath, ctx.OutputPath)
	}
}

func TestParseArgsMirrorIsDefaultOutputFormat(t *testing.T) {
	ctx, err := ParseArgs([]string{"input.elf", "output.elf"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ctx.Mirror || ctx.Union {
		t.Fatalf("expected mirror ELF output to be the default, got Mirror=%v Union=%v", ctx.Mirror, ctx.Union)
	}
}

func TestParseArgsUnionIsNotImplemented(t *testing.T) {
	if _, err := ParseArgs([]string{"-u", "input.elf", "output.elf"}); err == nil {
		t.Fatalf("expected -u (union ELF) to report not-implemented")
	}
}

func TestParseArgsRejectsMirrorAndUnionTogether(t *testing.T) {
	if _, err := ParseArgs([]string{"-m", "-u", "input.elf", "output.elf"}); err == nil {
		t.Fatalf("expected -m and -u together to be rejected")
	}
}

func TestUnimplementedHardeningFlagsReportsRequestedOnes(t *testing.T) {
	ctx, err := ParseArgs([]string{"--cfi", "--retpolines", "input.elf", "output.elf"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	flags := ctx.unimplementedHardeningFlags()
	if len(flags) != 2 {
		t.Fatalf("expected 2 unimplemented flags reported, got %v", flags)
	}
}
