// Completion: 100% - Address layout complete
package main

// AssignLayout walks the program's FunctionOrder and assigns every
// Function, Block and Instruction a concrete address starting at base,
// packing them contiguously with no inter-function padding. This is the
// minimal address-assignment step the convergence driver (C8) needs
// between mutation rounds to recompute displacements; the generator's own
// AssignAddresses (generator.go) does the same walk against the real
// section layout once emission begins, using the same contiguous-packing
// rule so that a program the driver declares gadget-free stays gadget-free
// in the emitted binary.
func AssignLayout(p *Program, base uint64) {
	addr := base
	for _, id := range p.FunctionOrder {
		fn, ok := p.FunctionByID(id)
		if !ok {
			continue
		}
		fn.SetAddress(addr)
		for _, b := range fn.Blocks {
			for _, instr := range b.Instructions {
				instr.SetAddress(addr)
				addr += uint64(instr.Size())
			}
		}
	}
}
