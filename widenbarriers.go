// Completion: 100% - Widen-Barriers pass (C4) complete
package main

// WidenBarriersStats reports this pass's work, per §9.
type WidenBarriersStats struct {
	FunctionsTouched int
	BarriersWidened  int
}

// WidenBarriers breaks cross-instruction byte pairs that form gadget
// opcodes by inserting one NOP between the offending instructions - C4,
// §4.4. Grounded on `widenbarrier.cpp`: for each instruction i, the pair
// (last byte of i, first byte of i's next contiguous instruction) is
// checked against the boundary rows of §6.2; a single pass over the
// function suffices because the inserted 0x90 cannot itself complete a new
// boundary pattern with either neighbor.
func WidenBarriers(p *Program) WidenBarriersStats {
	var stats WidenBarriersStats
	for _, fn := range p.Functions() {
		widened := widenBarriersInFunction(p, fn)
		if widened > 0 {
			stats.FunctionsTouched++
			stats.BarriersWidened += widened
		}
	}
	return stats
}

func widenBarriersInFunction(p *Program, fn *Function) int {
	widened := 0
	// Snapshot the (block, instruction) pairs up front: the loop inserts
	// instructions as it goes, and a freshly inserted NOP must never be
	// reconsidered as an "i" in the same pass.
	type site struct {
		block *Block
		instr *Instruction
	}
	var sites []site
	for _, b := range fn.Blocks {
		for _, instr := range b.Instructions {
			sites = append(sites, site{b, instr})
		}
	}

	for _, s := range sites {
		next := nextContiguousInstruction(fn, s.block, s.instr)
		if next == nil {
			continue
		}
		if !isBoundaryGadget(s.instr, next) {
			continue
		}
		bm := NewBlockMutator(s.block, fn)
		nop := p.InsertInstruction([]byte{nopByte}, Semantic{Kind: SemPlain})
		s.block.InsertAfter(s.instr, nop)
		bm.Close()
		widened++
	}
	return widened
}

// isBoundaryGadget checks the last byte of a against the first byte of b
// for the three cross-instruction rows of §6.2: `ff|X`, `0f|{34,05}`,
// `cd|80`.
func isBoundaryGadget(a, b *Instruction) bool {
	if len(a.Bytes) == 0 || len(b.Bytes) == 0 {
		return false
	}
	last := a.Bytes[len(a.Bytes)-1]
	first := b.Bytes[0]

	switch last {
	case indirectOpcode: // 0xff
		return jopSecondBytes[first]
	case sysenterPrefix: // 0x0f
		return first == sysenterOpcode || first == syscallOpcode
	case int80Prefix: // 0xcd
		return first == int80Opcode
	default:
		return false
	}
}

// nextContiguousInstruction returns instr's next sibling in the same
// block, or else the first instruction of the next block in the same
// function, or nil if neither exists.
func nextContiguousInstruction(fn *Function, block *Block, instr *Instruction) *Instruction {
	idx := block.IndexOf(instr)
	if idx >= 0 && idx+1 < len(block.Instructions) {
		return block.Instructions[idx+1]
	}

	blockIdx := -1
	for i, b := range fn.Blocks {
		if b == block {
			blockIdx = i
			break
		}
	}
	if blockIdx < 0 || blockIdx+1 >= len(fn.Blocks) {
		return nil
	}
	next := fn.Blocks[blockIdx+1]
	if len(next.Instructions) == 0 {
		return nil
	}
	return next.Instructions[0]
}
