// Completion: 100% - Instruction model complete
package main

// Instruction is the addressable unit of the IR: raw encoded bytes (1-15 of
// them, per the x86-64 encoding limit) plus a Semantic tag. Address becomes
// invalid on any structural mutation of the function that owns it and is
// only trustworthy again after the generator's next address-assignment
// pass - callers must check addressValid rather than trust a stale 0.
type Instruction struct {
	ID       InstrID
	Bytes    []byte
	Semantic Semantic

	Address      uint64
	addressValid bool
}

// Size returns the instruction's encoded length in bytes.
func (i *Instruction) Size() int {
	return len(i.Bytes)
}

// InvalidateAddress marks this instruction's address as stale. Called by
// the mutator scopes whenever the instruction's containing function is
// structurally changed.
func (i *Instruction) InvalidateAddress() {
	i.addressValid = false
}

// SetAddress is called only by the generator's address-assignment pass.
func (i *Instruction) SetAddress(addr uint64) {
	i.Address = addr
	i.addressValid = true
}
