// Completion: 100% - Register table complete
package main

// Register describes an x86-64 general-purpose register. Adapted from the
// teacher's multi-architecture reg.go, trimmed to the GP registers the
// gadget-reduction passes actually reason about (indirect-jump targets,
// §4.3; caller-saved sanitization targets, §4.5) - SIMD/vector registers
// and the ARM64/RISC-V tables have no role in an x86-64-only hardener.
type Register struct {
	Name     string
	Encoding uint8
}

// x86_64GPRegisters are the 64-bit general-purpose registers, keyed by
// their lowercase AT&T name.
var x86_64GPRegisters = map[string]Register{
	"rax": {Name: "rax", Encoding: 0},
	"rcx": {Name: "rcx", Encoding: 1},
	"rdx": {Name: "rdx", Encoding: 2},
	"rbx": {Name: "rbx", Encoding: 3},
	"rsp": {Name: "rsp", Encoding: 4},
	"rbp": {Name: "rbp", Encoding: 5},
	"rsi": {Name: "rsi", Encoding: 6},
	"rdi": {Name: "rdi", Encoding: 7},
	"r8":  {Name: "r8", Encoding: 8},
	"r9":  {Name: "r9", Encoding: 9},
	"r10": {Name: "r10", Encoding: 10},
	"r11": {Name: "r11", Encoding: 11},
	"r12": {Name: "r12", Encoding: 12},
	"r13": {Name: "r13", Encoding: 13},
	"r14": {Name: "r14", Encoding: 14},
	"r15": {Name: "r15", Encoding: 15},
}

// GetRegister looks up a GP register by name.
func GetRegister(name string) (Register, bool) {
	r, ok := x86_64GPRegisters[name]
	return r, ok
}

// callerSavedVolatile is the set C5 zeroes before every ret: RCX and
// R8-R11, per the x86-64 System V calling convention's caller-saved
// registers that never carry a return value.
var callerSavedVolatile = map[string]bool{
	"rcx": true,
	"r8":  true,
	"r9":  true,
	"r10": true,
	"r11": true,
}
