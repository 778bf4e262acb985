// Completion: 100% - Code-emission backend complete
package main

import (
	"fmt"
	"io"
)

// GeneratorPhase tracks where a Generator is in its lifecycle, mirroring
// the three-phase contract the teacher's ELFWriter enforces in
// elf_writer.go (PhaseInitial -> PhaseELFLayout -> PhaseWriting): each
// phase's methods assume the previous phase already ran, and calling them
// out of order is a programming error the phase field catches instead of
// silently producing a corrupt binary.
type GeneratorPhase int

const (
	PhaseInitial GeneratorPhase = iota
	PhaseLayout
	PhaseWriting
)

// Generator is the code-emission backend: the collaborator that takes a
// hardened Program and produces the actual executable bytes. It
// corresponds to the teacher's "UnionGen"/"MirrorGen" generator objects
// referenced from `conductor/setup.cpp`'s generateMirrorELF family,
// reduced to the one backend this module supports - a mirror ELF written
// by WriteELF (elfio.go) as one PT_LOAD segment holding the hardened
// instruction bytes in FunctionOrder. The input binary's section layout is
// not reproduced.
type Generator struct {
	program  *Program
	phase    GeneratorPhase
	baseAddr uint64
	resolver *LinkResolver
	symbols  []*DynamicSymbol
}

// NewGenerator creates a Generator bound to program, laying code out
// starting at baseAddr.
func NewGenerator(program *Program, baseAddr uint64) *Generator {
	return &Generator{
		program:  program,
		phase:    PhaseInitial,
		baseAddr: baseAddr,
		resolver: NewLinkResolver(baseAddr+0x200000, baseAddr+0x201000),
	}
}

// PreCodeGeneration validates the generator is in its initial phase and
// prepares for address assignment - the no-op-but-mandatory first call
// the teacher's generator.preCodeGeneration() makes before any layout
// happens.
func (g *Generator) PreCodeGeneration() error {
	if g.phase != PhaseInitial {
		return fmt.Errorf("generator: PreCodeGeneration called out of order (phase=%d)", g.phase)
	}
	if err := g.program.ValidateFunctionOrder(); err != nil {
		return fmt.Errorf("generator: %w", err)
	}
	g.phase = PhaseLayout
	return nil
}

// AssignAddresses lays out every function/block/instruction and resolves
// every external symbol reference to a GOT/PLT slot - the generator's
// moveCodeAssignAddresses step.
func (g *Generator) AssignAddresses() error {
	if g.phase != PhaseLayout {
		return fmt.Errorf("generator: AssignAddresses called out of order (phase=%d)", g.phase)
	}
	AssignLayout(g.program, g.baseAddr)
	g.symbols = ResolveProgram(g.program, g.resolver)
	return nil
}

// AfterAddressAssign transitions into the writing phase, the point at
// which further structural IR mutation is no longer allowed - addresses
// are now final and byte offsets in the emitted sections depend on them.
func (g *Generator) AfterAddressAssign() error {
	if g.phase != PhaseLayout {
		return fmt.Errorf("generator: AfterAddressAssign called out of order (phase=%d)", g.phase)
	}
	g.phase = PhaseWriting
	return nil
}

// GenerateContent writes the final ELF executable to w.
func (g *Generator) GenerateContent(w io.Writer) error {
	if g.phase != PhaseWriting {
		return fmt.Errorf("generator: GenerateContent called out of order (phase=%d)", g.phase)
	}
	return WriteELF(w, g.program, g.baseAddr, g.symbols)
}

// GetBaseAddr returns the address code layout starts from, mirroring the
// teacher's ELFWriter.GetBaseAddr.
func (g *Generator) GetBaseAddr() uint64 {
	return g.baseAddr
}
