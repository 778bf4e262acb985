// Completion: 100% - Pass registry (C9) complete
package main

// PassName identifies one of the gadget-reduction passes, or an external
// collaborator pass that the driver invokes but that this module treats as
// a boundary (it does not implement the collaborator's internals).
type PassName string

const (
	PassMergeReturn        PassName = "merge-return"
	PassMergeJump          PassName = "merge-jump"
	PassWidenBarriers      PassName = "widen-barriers"
	PassSanitizeVolatiles  PassName = "sanitize-volatiles"
	PassOffsetSledding     PassName = "offset-sledding"
	PassFunctionReordering PassName = "function-reordering"
	PassPromoteJumps       PassName = "promote-jumps"
)

// PassRegistry lists the non-profile-guided passes in the fixed order
// RunStructuralPasses (driver.go) runs them: merge-return and
// merge-jump first (they only ever shrink control flow, never change a
// function's byte count by much and never need a layout), then
// widen-barriers and sanitize-volatiles (size-changing but still
// profile-free), then promote-jumps (the external-collaborator pass that
// widens short jumps to near jumps once their displacements outgrow the
// short form). The two profile-guided passes are not in this list; the
// convergence loop runs them itself. §4's pass ordering
// rationale: "C2/C3 reduce control-flow instruction count before C4/C5
// insert bytes, so barrier-widening and sanitization never have to
// re-examine instructions the merge passes would have eliminated."
var PassRegistry = []PassName{
	PassMergeReturn,
	PassMergeJump,
	PassWidenBarriers,
	PassSanitizeVolatiles,
	PassPromoteJumps,
}

// RegisteredGadgetReductionPasses reports whether name is one of the passes
// this module actually implements (as opposed to an external-collaborator
// placeholder like promote-jumps).
func RegisteredGadgetReductionPasses() map[PassName]bool {
	return map[PassName]bool{
		PassMergeReturn:        true,
		PassMergeJump:          true,
		PassWidenBarriers:      true,
		PassSanitizeVolatiles:  true,
		PassOffsetSledding:     true,
		PassFunctionReordering: true,
	}
}
