// Completion: 100% - Link model complete
package main

// LinkKind distinguishes the polymorphic Link variants described in the
// data model. Unlike the teacher's class hierarchy (DynamicLibrary,
// Function, Parameter in dynlib.go), this is matched exhaustively as a
// tagged union rather than through dynamic dispatch or type assertions.
type LinkKind int

const (
	// LinkNormal targets either an Instruction or a Function, scoped to
	// an internal jump, external jump, or data reference.
	LinkNormal LinkKind = iota
	// LinkSymbolOnly carries only a symbol name; the target is resolved
	// by the (external) relocation/link-resolver collaborator.
	LinkSymbolOnly
	// LinkData targets a data section address.
	LinkData
	// LinkPLT targets a PLT stub resolved by the dynamic linker.
	LinkPLT
)

func (k LinkKind) String() string {
	switch k {
	case LinkNormal:
		return "normal"
	case LinkSymbolOnly:
		return "symbol-only"
	case LinkData:
		return "data"
	case LinkPLT:
		return "plt"
	default:
		return "unknown"
	}
}

// LinkScope classifies a NormalLink's role.
type LinkScope int

const (
	ScopeInternalJump LinkScope = iota
	ScopeExternalJump
	ScopeData
)

// Link is a relation from a ControlFlow instruction's operand to a target.
// Exactly one of TargetInstr / TargetFunc is meaningful, selected by
// TargetIsFunc, for LinkNormal; LinkSymbolOnly and LinkPLT instead carry a
// Symbol name that an external collaborator (the relocation resolver)
// resolves to an address. Links are owned by the Semantic that holds them
// and are replaced, never mutated in place, whenever a control-flow
// instruction is retargeted.
type Link struct {
	Kind LinkKind
	Scope LinkScope

	TargetIsFunc bool
	TargetInstr  InstrID
	TargetFunc   FuncID

	Symbol string

	// ripRelative is true for links resolved as a PC-relative displacement
	// from the end of the referencing instruction - the only links the
	// gadget-reduction passes (C6, C7) ever inspect.
	ripRelative bool
}

// NewInternalJumpLink builds a NormalLink to another Instruction in the same
// program, scoped as an internal jump (the kind produced by the merge
// passes, C2/C3).
func NewInternalJumpLink(target InstrID) *Link {
	return &Link{Kind: LinkNormal, Scope: ScopeInternalJump, TargetInstr: target, ripRelative: true}
}

// NewFunctionLink builds a NormalLink targeting a Function, e.g. a call
// instruction's target - the kind function reordering (C7) cares about.
func NewFunctionLink(target FuncID) *Link {
	return &Link{Kind: LinkNormal, Scope: ScopeExternalJump, TargetIsFunc: true, TargetFunc: target, ripRelative: true}
}

// NewSymbolLink builds a SymbolOnlyLink for a relocation resolved outside
// the module (e.g. a PLT stub or an external data symbol).
func NewSymbolLink(symbol string, plt bool) *Link {
	kind := LinkSymbolOnly
	if plt {
		kind = LinkPLT
	}
	return &Link{Kind: kind, Scope: ScopeExternalJump, Symbol: symbol}
}

// IsRIPRelative reports whether this link's displacement is resolved
// relative to the instruction that carries it - §3's isRIPRelative()
// predicate.
func (l *Link) IsRIPRelative() bool {
	return l != nil && l.ripRelative
}

// GetTarget resolves the link against a Program's index, returning either
// an *Instruction or a *Function. The second result is false if the link
// has no in-program target (symbol-only / PLT links, or a dangling ID).
func (l *Link) GetTarget(p *Program) (interface{}, bool) {
	if l == nil || l.Kind != LinkNormal {
		return nil, false
	}
	if l.TargetIsFunc {
		fn, ok := p.functions[l.TargetFunc]
		return fn, ok
	}
	instr, ok := p.instructions[l.TargetInstr]
	return instr, ok
}

// GetTargetAddress resolves the link's target to an address. It is only
// meaningful after a generator pass has assigned addresses; callers must
// not cache the result across a mutation.
func (l *Link) GetTargetAddress(p *Program) (uint64, bool) {
	target, ok := l.GetTarget(p)
	if !ok {
		return 0, false
	}
	switch t := target.(type) {
	case *Instruction:
		if !t.addressValid {
			return 0, false
		}
		return t.Address, true
	case *Function:
		if !t.addressValid {
			return 0, false
		}
		return t.Address, true
	default:
		return 0, false
	}
}
