// Completion: 100% - IR identifier types complete
package main

// InstrID, BlockID and FuncID are stable handles into a Program's registries.
//
// The IR tree (Program -> Module -> Function -> Block -> Instruction) is
// owned by plain Go pointers; Links, which are non-tree cross references
// from a control-flow instruction's operand to another Instruction or
// Function, are never raw pointers into that tree. They hold one of these
// IDs instead and resolve through the Program's index at use time, so a
// Link stays valid across the arena-style insert/replace mutations the
// passes perform.
type InstrID uint64

// BlockID identifies a Block within its owning Program.
type BlockID uint64

// FuncID identifies a Function within its owning Program.
type FuncID uint64

const invalidID = 0
