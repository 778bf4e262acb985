// Completion: 100% - Sanitize-Volatiles pass (C5) complete
package main

// SanitizeVolatilesStats reports this pass's work, per §9.
type SanitizeVolatilesStats struct {
	FunctionsTouched int
	RetsSanitized    int
}

// SanitizeVolatiles zeroes the caller-saved volatile registers
// (rcx, r8, r9, r10, r11) immediately before every ret instruction - C5,
// §4.5. Grounded on `sanitizevolatileregisters.cpp`'s poisonReturn, which
// only fires for ReturnInstruction semantics: the gadget this pass exists
// to poison is the one that begins right after the function returns to its
// caller, not one reachable by stepping into a call, so the XOR chain is
// inserted before every ret (found via fn.Rets(), the same collection
// mergereturn.go uses), in the fixed order encode.go declares
// (volatileSanitizeOrder), using the 3-byte `xor reg, reg` encodings in
// xorRegRegBytes.
func SanitizeVolatiles(p *Program) SanitizeVolatilesStats {
	var stats SanitizeVolatilesStats
	for _, fn := range p.Functions() {
		sanitized := sanitizeVolatilesInFunction(p, fn)
		if sanitized > 0 {
			stats.FunctionsTouched++
			stats.RetsSanitized += sanitized
		}
	}
	return stats
}

func sanitizeVolatilesInFunction(p *Program, fn *Function) int {
	rets := fn.Rets()
	if len(rets) == 0 {
		return 0
	}

	sanitized := 0
	for _, ret := range rets {
		block := blockContaining(fn, ret)
		if block == nil {
			continue
		}
		bm := NewBlockMutator(block, fn)
		for _, reg := range volatileSanitizeOrder {
			xorInstr := p.InsertInstruction(xorRegRegBytes[reg], Semantic{Kind: SemPlain})
			block.InsertBefore(ret, xorInstr)
		}
		bm.Close()
		sanitized++
	}
	return sanitized
}
