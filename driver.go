// Completion: 100% - Convergence driver (C8) complete
package main

import (
	"fmt"
	"math/rand"
)

// MaxFails bounds how many non-improving offset-sledding rounds a single
// function tolerates before the driver gives up on it and moves on,
// grounded on `conductor/setup.cpp`'s MAX_FAILS.
const MaxFails = 25

// DriverReport summarizes one convergence run - the "Before/After" counts
// `generateMirrorELFWithGadgetElimination` prints to stdout, gathered here
// as data instead of console output so the CLI (and tests) can decide how
// to present it.
type DriverReport struct {
	StructuralStats StructuralStats
	BeforeFunctions int
	BeforeBranches  int
	AfterFunctions  int
	AfterBranches   int
	Iterations      int
	Escalations     int
	AbandonedFuncs  []FuncID
}

// StructuralStats bundles the one-shot size-changing/profile-free passes'
// reports (C2-C5 plus the promote-jumps collaborator), run once each in
// registry order before the profile-guided loop begins.
type StructuralStats struct {
	MergeReturn       MergeReturnStats
	MergeJump         MergeJumpStats
	WidenBarriers     WidenBarriersStats
	SanitizeVolatiles SanitizeVolatilesStats
	PromoteJumps      PromoteJumpsStats
}

// RunStructuralPasses applies C2 through C5, plus the promote-jumps
// collaborator, exactly once each, in the order PassRegistry declares.
// Grounded on §2's dataflow note that these passes run as a pipeline, not
// a fixpoint: each only ever removes or adds instructions in a way the
// next pass in the pipeline expects to see, so re-running an earlier pass
// after a later one has nothing left to do.
func RunStructuralPasses(p *Program) StructuralStats {
	return StructuralStats{
		MergeReturn:       MergeReturn(p),
		MergeJump:         MergeJump(p),
		WidenBarriers:     WidenBarriers(p),
		SanitizeVolatiles: SanitizeVolatiles(p),
		PromoteJumps:      PromoteJumps(p),
	}
}

// RunGadgetElimination runs the full pipeline C8 drives: the structural
// passes once, then the iterative layout/profile/offset-sledding loop
// grounded on `generateMirrorELFWithGadgetElimination`. baseAddr seeds
// AssignLayout the same way the mirror generator seeds the real section
// base. rng drives every randomized choice inside OffsetSledding, and must
// be seeded by the caller for reproducible runs.
//
// A function that escalates to MaxFails non-improving rounds is handed to
// one FunctionReordering move instead of being dropped outright - the
// original leaves such functions abandoned for that run; this enrichment
// gives the reordering pass (which targets the same "sled > 2" class of
// offender, per functionreordering.cpp) one more avenue before the driver
// gives up on a function for good.
func RunGadgetElimination(p *Program, rng *rand.Rand, baseAddr uint64) DriverReport {
	report := DriverReport{StructuralStats: RunStructuralPasses(p)}

	AssignLayout(p, baseAddr)
	profile := GenerateOffsetSleddingProfile(p)
	report.BeforeFunctions, report.BeforeBranches = profileTotals(profile)

	fails := make(map[FuncID]int)
	abandoned := make(map[FuncID]bool)

	for len(profile) > 0 {
		active := withoutAbandoned(profile, abandoned)
		if len(active) == 0 {
			break
		}

		OffsetSledding(p, active, rng)
		report.Iterations++

		PromoteJumps(p)

		AssignLayout(p, baseAddr)
		next := GenerateOffsetSleddingProfile(p)

		for funcID, branches := range next {
			if prior, ok := profile[funcID]; ok && len(branches) >= len(prior) {
				fails[funcID]++
				if fails[funcID] >= MaxFails && !abandoned[funcID] {
					escalateViaReordering(p, funcID, rng, baseAddr)
					report.Escalations++
					abandoned[funcID] = true
					report.AbandonedFuncs = append(report.AbandonedFuncs, funcID)
				}
			}
		}

		profile = next
	}

	AssignLayout(p, baseAddr)
	final := GenerateOffsetSleddingProfile(p)
	report.AfterFunctions, report.AfterBranches = profileTotals(final)
	return report
}

// escalateViaReordering gives a function that has stalled under repeated
// offset-sledding one function-reordering move instead, then reassigns
// layout so subsequent rounds see the new order.
func escalateViaReordering(p *Program, funcID FuncID, rng *rand.Rand, baseAddr uint64) {
	reorderProfile := GenerateFunctionReorderingProfile(p)
	var narrowed FunctionReorderingProfile
	for _, entry := range reorderProfile {
		if entry.Source == funcID {
			narrowed = append(narrowed, entry)
		}
	}
	if len(narrowed) == 0 {
		return
	}
	result := FunctionReordering(p, narrowed, rng)
	if result.Moved {
		p.SetFunctionOrder(result.Order)
		AssignLayout(p, baseAddr)
	}
}

func profileTotals(profile OffsetSleddingProfile) (functions, branches int) {
	for _, instrs := range profile {
		functions++
		branches += len(instrs)
	}
	return functions, branches
}

func withoutAbandoned(profile OffsetSleddingProfile, abandoned map[FuncID]bool) OffsetSleddingProfile {
	if len(abandoned) == 0 {
		return profile
	}
	out := make(OffsetSleddingProfile, len(profile))
	for k, v := range profile {
		if !abandoned[k] {
			out[k] = v
		}
	}
	return out
}

// String renders a DriverReport the way the original prints its
// before/after console summary, for VerboseMode logging.
func (r DriverReport) String() string {
	return fmt.Sprintf(
		"before: functions=%d branches=%d; after: functions=%d branches=%d; iterations=%d escalations=%d",
		r.BeforeFunctions, r.BeforeBranches, r.AfterFunctions, r.AfterBranches, r.Iterations, r.Escalations,
	)
}
