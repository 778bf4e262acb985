// Completion: 100% - Function-Reordering pass (C7) complete
package main

import "math/rand"

// FunctionTarget is one gadget-encoding call site's target function and the
// sled size that would be needed to fix it in place - the alternative to
// reordering.
type FunctionTarget struct {
	Func FuncID
	Sled int
}

// FunctionReorderingEntry groups every problematic call target reachable
// from one source function.
type FunctionReorderingEntry struct {
	Source  FuncID
	Targets []FunctionTarget
}

// FunctionReorderingProfile is an ordered list (not a map) so that, given
// the same seeded *rand.Rand, GenerateFunctionReorderingProfile and
// FunctionReordering are reproducible across runs - §9's requirement that
// randomized passes be deterministic under an injected source of
// randomness.
type FunctionReorderingProfile []FunctionReorderingEntry

// FunctionReorderingStats reports this pass's work, per §9.
type FunctionReorderingStats struct {
	FunctionsMoved int
}

// GenerateFunctionReorderingProfile scans the program for RIP-relative call
// sites whose displacement needs a sled greater than 2 bytes, grouped by
// source function - C7's profiling half, grounded on
// `functionreordering.cpp`'s generateProfile. The threshold of 2 (not 0)
// restricts reordering to calls whose fix would otherwise cost a
// non-trivial sled; short sleds are left to C6.
func GenerateFunctionReorderingProfile(p *Program) FunctionReorderingProfile {
	var profile FunctionReorderingProfile
	index := make(map[FuncID]int)

	for _, fn := range p.Functions() {
		for _, instr := range fn.Instructions() {
			if instr.Semantic.Kind != SemControlFlow || instr.Semantic.CF != CFCall {
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
			sled := ContainsUnintendedGadgets(disp)
			if sled <= 2 {
				continue
			}
			if !link.TargetIsFunc {
				continue
			}
			target := FunctionTarget{Func: link.TargetFunc, Sled: sled}

			if i, seen := index[fn.ID]; seen {
				profile[i].Targets = append(profile[i].Targets, target)
			} else {
				index[fn.ID] = len(profile)
				profile = append(profile, FunctionReorderingEntry{Source: fn.ID, Targets: []FunctionTarget{target}})
			}
		}
	}
	return profile
}

// FunctionReordering applies a single random move to the program's function
// order and returns the updated order - C7, §4.7. Grounded on
// `functionreordering.cpp`'s visit: a random profile entry is chosen, then
// either the source function or one of its offending targets (mover_idx ==
// 0 picks the source, using the largest sled among its targets; any other
// index picks that target, using its own sled), then a random direction,
// then the mover is walked one swap at a time until it has crossed at
// least sled-worth of bytes or hits an array boundary.
func FunctionReordering(p *Program, profile FunctionReorderingProfile, rng *rand.Rand) FunctionOrderResult {
	if len(profile) == 0 {
		return FunctionOrderResult{Order: append([]FuncID(nil), p.FunctionOrder...)}
	}

	entry := profile[rng.Intn(len(profile))]
	moverIdx := rng.Intn(len(entry.Targets) + 1)

	var mover FuncID
	bytesToMove := 0
	if moverIdx == 0 {
		mover = entry.Source
		for _, t := range entry.Targets {
			if t.Sled > bytesToMove {
				bytesToMove = t.Sled
			}
		}
	} else {
		t := entry.Targets[moverIdx-1]
		mover = t.Func
		bytesToMove = t.Sled
	}

	moveBack := rng.Intn(2) == 0

	order := append([]FuncID(nil), p.FunctionOrder...)
	index := -1
	for i, id := range order {
		if id == mover {
			index = i
			break
		}
	}
	if index < 0 {
		return FunctionOrderResult{Order: order}
	}

	moved := false
	for bytesToMove > 0 {
		var movedBy int
		if moveBack {
			if index == 0 {
				break
			}
			neighbor, ok := p.FunctionByID(order[index-1])
			if !ok {
				break
			}
			movedBy = neighbor.Size()
			order[index], order[index-1] = order[index-1], order[index]
			index--
		} else {
			if index >= len(order)-1 {
				break
			}
			neighbor, ok := p.FunctionByID(order[index+1])
			if !ok {
				break
			}
			movedBy = neighbor.Size()
			order[index], order[index+1] = order[index+1], order[index]
			index++
		}
		bytesToMove -= movedBy
		moved = true
	}

	return FunctionOrderResult{Order: order, Moved: moved}
}

// FunctionOrderResult carries the permuted order back to the driver, which
// decides whether to commit it via Program.SetFunctionOrder.
type FunctionOrderResult struct {
	Order []FuncID
	Moved bool
}
