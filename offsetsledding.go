// Completion: 100% - Offset-Sledding pass (C6) complete
package main

import "math/rand"

// OffsetSleddingProfile maps each function with at least one gadget-encoding
// branch to the instructions responsible, built by GenerateOffsetSleddingProfile
// and consumed by OffsetSledding.
type OffsetSleddingProfile map[FuncID][]InstrID

// OffsetSleddingStats reports this pass's work, per §9.
type OffsetSleddingStats struct {
	FunctionsCorrected int
	SledsInserted      int
}

// GenerateOffsetSleddingProfile scans the program for RIP-relative
// control-flow instructions whose displacement encodes an unintended
// gadget, grouping the offenders by owning function - the profiling half
// of C6, grounded on `offsetsledding.cpp`'s generateProfile. Only
// RIP-relative links carry a meaningful displacement; links to external
// symbols or PLT stubs are skipped.
func GenerateOffsetSleddingProfile(p *Program) OffsetSleddingProfile {
	profile := make(OffsetSleddingProfile)
	for _, fn := range p.Functions() {
		for _, instr := range fn.Instructions() {
			if instr.Semantic.Kind != SemControlFlow {
				continue
			}
			link := instr.Semantic.Link
			if !link.IsRIPRelative() {
				continue
			}
			disp, ok := calculateDisplacement(p, instr, link)
			if !ok {
				continue
			}
			if ContainsUnintendedGadgets(disp) <= 0 {
				continue
			}
			profile[fn.ID] = append(profile[fn.ID], instr.ID)
		}
	}
	return profile
}

// OffsetSledding applies a single random correction to each function named
// in profile - C6, §4.6. Grounded on `offsetsledding.cpp`'s visit: exactly
// one offending branch per function is fixed per call, since fixing one
// shifts every subsequent displacement in the function and the profile
// must be regenerated before the next correction. For a positive
// displacement the sled goes immediately before the jump target; for a
// negative displacement it goes immediately before the jump instruction
// itself.
func OffsetSledding(p *Program, profile OffsetSleddingProfile, rng *rand.Rand) OffsetSleddingStats {
	var stats OffsetSleddingStats
	for funcID, candidates := range profile {
		if len(candidates) == 0 {
			continue
		}
		fn, ok := p.FunctionByID(funcID)
		if !ok {
			continue
		}
		pick := candidates[rng.Intn(len(candidates))]
		instr, ok := p.InstructionByID(pick)
		if !ok {
			continue
		}
		link := instr.Semantic.Link
		disp, ok := calculateDisplacement(p, instr, link)
		if !ok {
			continue
		}
		sled := ContainsUnintendedGadgets(disp)
		if sled <= 0 {
			continue
		}

		target, ok := link.GetTarget(p)
		if !ok {
			continue
		}
		targetInstr, ok := target.(*Instruction)
		if !ok {
			continue
		}

		if disp > 0 {
			insertSledBeforeTarget(p, fn, targetInstr, sled)
		} else {
			insertSledBeforeJump(p, fn, instr, sled)
		}
		stats.FunctionsCorrected++
		stats.SledsInserted += sled
	}
	return stats
}

// calculateDisplacement computes the PC-relative displacement from the end
// of instr to link's target, mirroring ControlFlowInstruction::calculateDisplacement.
// Both ends must already carry a valid address, i.e. this must run after a
// layout pass.
func calculateDisplacement(p *Program, instr *Instruction, link *Link) (int64, bool) {
	if !instr.addressValid {
		return 0, false
	}
	targetAddr, ok := link.GetTargetAddress(p)
	if !ok {
		return 0, false
	}
	next := instr.Address + uint64(instr.Size())
	return int64(targetAddr) - int64(next), true
}

func insertSledBeforeTarget(p *Program, fn *Function, target *Instruction, sled int) {
	block := blockContaining(fn, target)
	if block == nil {
		return
	}
	bm := NewBlockMutator(block, fn)
	for i := 0; i < sled; i++ {
		nop := p.InsertInstruction([]byte{nopByte}, Semantic{Kind: SemPlain})
		block.InsertBefore(target, nop)
	}
	bm.Close()
}

func insertSledBeforeJump(p *Program, fn *Function, jump *Instruction, sled int) {
	block := blockContaining(fn, jump)
	if block == nil {
		return
	}
	bm := NewBlockMutator(block, fn)
	for i := 0; i < sled; i++ {
		nop := p.InsertInstruction([]byte{nopByte}, Semantic{Kind: SemPlain})
		block.InsertBefore(jump, nop)
	}
	bm.Close()
}
