// Completion: 100% - Command-line interface complete
package main

import (
	"flag"
	"fmt"
)

// CommandContext holds the parsed command line for one etharden
// invocation, mirroring the teacher's CommandContext in cli.go - a single
// struct threaded through instead of passing a dozen booleans around.
type CommandContext struct {
	InputPath  string
	OutputPath string
	Verbose    bool
	Quiet      bool

	// Mirror selects a mirror (1-to-1 module layout) ELF output, Union
	// selects a union (merged) ELF output, per §6.1/§6.4's `-m`/`-u`.
	// Exactly one is true; Mirror is the default when neither flag is
	// given.
	Mirror bool
	Union  bool

	GadgetReduction bool
	NOP             bool
	Retpolines      bool
	CFI             bool
	ShadowStack     bool
	CET             bool
	PermuteData     bool
	Profile         bool
	CondWatchpoint  bool

	BaseAddr uint64
}

// unimplementedHardeningFlags names every flag this module accepts but
// does not implement a pass for - the other hardening techniques §1 lists
// as out of this module's scope (shadow stacks, CFI, retpolines, CET,
// data permutation, conditional watchpoints). They parse successfully so
// a caller's existing invocation doesn't break, and ParseArgs reports
// which ones were requested so the CLI can warn about them instead of
// silently ignoring them.
func (ctx *CommandContext) unimplementedHardeningFlags() []string {
	var requested []string
	if ctx.Retpolines {
		requested = append(requested, "--retpolines")
	}
	if ctx.CFI {
		requested = append(requested, "--cfi")
	}
	if ctx.ShadowStack {
		requested = append(requested, "--ss")
	}
	if ctx.CET {
		requested = append(requested, "--cet")
	}
	if ctx.PermuteData {
		requested = append(requested, "--permute-data")
	}
	if ctx.CondWatchpoint {
		requested = append(requested, "--cond-watchpoint")
	}
	return requested
}

// ParseArgs parses args (excluding the program name) into a CommandContext,
// per §6.1: `etharden [-v|-q] [-m|-u] <mode-flags...> <input-elf> <output-elf>`.
func ParseArgs(args []string) (*CommandContext, error) {
	fs := flag.NewFlagSet("etharden", flag.ContinueOnError)

	verbose := fs.Bool("v", false, "verbose mode (print per-pass diagnostics to stderr)")
	quiet := fs.Bool("q", true, "quiet mode (suppress progress output)")
	mirror := fs.Bool("m", false, "emit a mirror (1-to-1 module layout) ELF")
	union := fs.Bool("u", false, "emit a union (merged) ELF (not implemented)")
	gadgetReduction := fs.Bool("gadget-reduction", true, "run the CRA gadget-reduction pipeline (C1-C9)")
	nop := fs.Bool("nop", true, "accepted for compatibility; has no effect (widen-barriers and offset-sledding always insert NOPs)")
	retpolines := fs.Bool("retpolines", false, "rewrite indirect branches as retpolines (not implemented)")
	cfi := fs.Bool("cfi", false, "insert control-flow-integrity checks (not implemented)")
	shadowStack := fs.Bool("ss", false, "enable shadow-stack instrumentation (not implemented)")
	cet := fs.Bool("cet", false, "enable Intel CET endbranch instrumentation (not implemented)")
	permuteData := fs.Bool("permute-data", false, "permute read-only data layout (not implemented)")
	profile := fs.Bool("profile", false, "print before/after gadget profile summary")
	condWatchpoint := fs.Bool("cond-watchpoint", false, "insert conditional watchpoints (not implemented)")
	baseAddr := fs.Uint64("base", 0x400000, "base virtual address for layout")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 2 {
		return nil, fmt.Errorf("usage: etharden [flags] <input-elf> <output-elf>")
	}
	if *mirror && *union {
		return nil, fmt.Errorf("etharden: -m and -u are mutually exclusive")
	}
	if *union {
		return nil, fmt.Errorf("etharden: -u (union ELF) is not implemented by this build; use -m")
	}

	ctx := &CommandContext{
		InputPath:       fs.Arg(0),
		OutputPath:      fs.Arg(1),
		Verbose:         *verbose,
		Quiet:           *quiet && !*verbose,
		Mirror:          !*union,
		Union:           *union,
		GadgetReduction: *gadgetReduction,
		NOP:             *nop,
		Retpolines:      *retpolines,
		CFI:             *cfi,
		ShadowStack:     *shadowStack,
		CET:             *cet,
		PermuteData:     *permuteData,
		Profile:         *profile,
		CondWatchpoint:  *condWatchpoint,
		BaseAddr:        *baseAddr,
	}
	return ctx, nil
}
