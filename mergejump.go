// Completion: 100% - Merge-Jump pass (C3) complete
package main

// MergeJumpStats reports this pass's work, per §9.
type MergeJumpStats struct {
	FunctionsTouched int
	JumpsMerged      int
}

// MergeJump collapses, per function and per target register, multiple
// indirect jumps that share a register into one canonical indirect jump,
// rewriting the rest as internal direct jumps - C3, §4.3. Grounded on
// `mergejump.cpp`: registers are grouped independently because two
// indirect jumps through different registers are not interchangeable
// targets.
func MergeJump(p *Program) MergeJumpStats {
	var stats MergeJumpStats
	for _, fn := range p.Functions() {
		merged := mergeJumpInFunction(p, fn)
		if merged > 0 {
			stats.FunctionsTouched++
			stats.JumpsMerged += merged
		}
	}
	return stats
}

func mergeJumpInFunction(p *Program, fn *Function) int {
	order, groups := fn.IndirectJumpsByRegister()
	merged := 0
	for _, reg := range order {
		instrs := groups[reg]
		if len(instrs) <= 1 {
			continue
		}
		canonical := instrs[0]
		for _, instr := range instrs[1:] {
			rewriteAsInternalJump(p, fn, instr, canonical.ID)
			merged++
		}
	}
	return merged
}
