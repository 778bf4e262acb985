// Completion: 100% - Entry point complete
package main

import (
	"fmt"
	"math/rand"
	"os"

	"golang.org/x/sys/unix"
)

func main() {
	ctx, err := ParseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	LoadConfig(ctx.Verbose, ctx.Quiet)

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "etharden:", err)
		os.Exit(1)
	}
}

func run(ctx *CommandContext) error {
	debugf("DEBUG main: loading %s\n", ctx.InputPath)
	program, err := LoadELF(ctx.InputPath)
	if err != nil {
		return HardenError{
			Level:    LevelFatal,
			Category: CategoryELF,
			Message:  err.Error(),
			Location: HardenLocation{Function: ctx.InputPath},
		}
	}

	if flags := ctx.unimplementedHardeningFlags(); len(flags) > 0 {
		statusf("etharden: the following requested options are not implemented by this build and will be ignored: %v\n", flags)
	}

	if ctx.GadgetReduction {
		rng := rand.New(rand.NewSource(1))
		report := RunGadgetElimination(program, rng, ctx.BaseAddr)
		if ctx.Profile || VerboseMode {
			fmt.Fprintf(os.Stderr, "etharden: %s\n", report)
		}
	} else {
		AssignLayout(program, ctx.BaseAddr)
	}

	gen := NewGenerator(program, ctx.BaseAddr)
	if err := gen.PreCodeGeneration(); err != nil {
		return err
	}
	if err := gen.AssignAddresses(); err != nil {
		return err
	}
	if err := gen.AfterAddressAssign(); err != nil {
		return err
	}

	out, err := os.Create(ctx.OutputPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", ctx.OutputPath, err)
	}
	defer out.Close()

	if err := gen.GenerateContent(out); err != nil {
		return fmt.Errorf("write %s: %w", ctx.OutputPath, err)
	}

	// Mark the mirror executable runnable. golang.org/x/sys/unix is used
	// here rather than os.Chmod so the mode bits are applied through the
	// same raw syscall path the rest of a hardening pipeline (which also
	// has to poke at page protections) would use.
	if err := unix.Chmod(ctx.OutputPath, 0o755); err != nil {
		return fmt.Errorf("chmod %s: %w", ctx.OutputPath, err)
	}

	statusf("etharden: wrote %s\n", ctx.OutputPath)
	return nil
}
