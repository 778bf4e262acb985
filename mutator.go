// Completion: 100% - Scoped mutator discipline complete
package main

// BlockMutator and FunctionMutator implement the scoped-acquisition
// discipline §5 requires: a pass opens a mutator scope before editing a
// Block (inserting, replacing, or resizing an Instruction), makes its
// edits, then closes the scope - which recomputes the Block's size and
// propagates that recomputation up through its Function, invalidating
// every address in between since they are no longer trustworthy until the
// generator reassigns them.
//
// Passes are expected to use this as:
//
//	bm := NewBlockMutator(block, fn)
//	block.InsertAfter(instr, nop)
//	bm.Close()
type BlockMutator struct {
	block *Block
	fn    *Function
}

// NewBlockMutator opens a mutation scope over block, owned by fn.
func NewBlockMutator(block *Block, fn *Function) *BlockMutator {
	return &BlockMutator{block: block, fn: fn}
}

// Close recomputes the block's size and propagates the update to its
// function via a FunctionMutator, invalidating addresses along the way.
func (m *BlockMutator) Close() {
	for _, instr := range m.block.Instructions {
		instr.InvalidateAddress()
	}
	m.block.recomputeSize()
	NewFunctionMutator(m.fn).Close()
}

// FunctionMutator recomputes a Function's cached size from its Blocks and
// invalidates the function's address and every instruction address in it -
// "re-anchoring child offsets" in
// §5's terms, since every block after a resized one has shifted.
type FunctionMutator struct {
	fn *Function
}

// NewFunctionMutator opens a mutation scope over fn.
func NewFunctionMutator(fn *Function) *FunctionMutator {
	return &FunctionMutator{fn: fn}
}

// Close recomputes every block's size and then fn's size, and marks fn's
// address, and the address of every instruction in it, stale.
func (m *FunctionMutator) Close() {
	for _, b := range m.fn.Blocks {
		b.recomputeSize()
		for _, instr := range b.Instructions {
			instr.InvalidateAddress()
		}
	}
	m.fn.recomputeSize()
	m.fn.invalidateAddress()
}
