// Completion: 100% - Function model complete
package main

// Function is an ordered sequence of Blocks. Its Size invariant - size
// equals the sum of child sizes - is restored by FunctionMutator.Close
// after every mutation.
type Function struct {
	ID   FuncID
	Name string

	Blocks []*Block

	Address      uint64
	addressValid bool
	size         int
}

// Size returns the cached sum of block sizes.
func (f *Function) Size() int {
	return f.size
}

func (f *Function) recomputeSize() {
	total := 0
	for _, b := range f.Blocks {
		total += b.Size()
	}
	f.size = total
}

// SetAddress is called only by the generator's address-assignment pass.
func (f *Function) SetAddress(addr uint64) {
	f.Address = addr
	f.addressValid = true
}

func (f *Function) invalidateAddress() {
	f.addressValid = false
}

// Instructions yields every instruction in the function, block by block, in
// order - the explicit traversal function §9 asks for in place of a
// visitor with polymorphic dispatch.
func (f *Function) Instructions() []*Instruction {
	var out []*Instruction
	for _, b := range f.Blocks {
		out = append(out, b.Instructions...)
	}
	return out
}

// Rets returns every instruction whose semantic is currently CFRet.
func (f *Function) Rets() []*Instruction {
	var out []*Instruction
	for _, instr := range f.Instructions() {
		if instr.Semantic.IsReturn() {
			out = append(out, instr)
		}
	}
	return out
}

// IndirectJumpsByRegister groups this function's indirect-jump
// instructions by their target register, preserving first-seen order
// within each group - the grouping C3 (merge-jump) consumes.
func (f *Function) IndirectJumpsByRegister() (order []string, groups map[string][]*Instruction) {
	groups = make(map[string][]*Instruction)
	for _, instr := range f.Instructions() {
		if !instr.Semantic.IsIndirectJump() {
			continue
		}
		reg := instr.Semantic.IndirectTargetReg
		if _, seen := groups[reg]; !seen {
			order = append(order, reg)
		}
		groups[reg] = append(groups[reg], instr)
	}
	return order, groups
}
