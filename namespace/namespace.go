package namespace

import (
	"fmt"

	"solen.dev/compiler/cfg"
	"solen.dev/compiler/ir"
)

// Contract is one entry in the namespace's contract arena. Functions
// belonging to a contract are referenced by index into Namespace.Functions,
// not stored inline, matching spec.md §9's "arena + indices for cyclic
// graphs" design note.
type Contract struct {
	Name          string
	Loc           ir.Loc
	FunctionIdxs  []int
	StorageSlots  map[int]ir.Type // variable slot -> declared storage type
	BaseContracts []int           // inheritance list, base-to-derived order
}

// Function pairs a CFG with the symbol table and declaration metadata the
// passes need alongside it.
type Function struct {
	CFG      *cfg.CFG
	Symtable *Symtable
	Contract int // owning Contract index, -1 for free functions
}

// StructDecl, EnumDecl and AliasDecl are the namespace's user-defined type
// declarations, referenced from ir.Type by arena Index.
type StructDecl struct {
	Name   string
	Loc    ir.Loc
	Fields []StructField
}

type StructField struct {
	Name string
	Type ir.Type
}

type EnumDecl struct {
	Name   string
	Loc    ir.Loc
	Values []string
}

type AliasDecl struct {
	Name string
	Loc  ir.Loc
	To   ir.Type
}

// EventDecl and ErrorDecl are emitted/raised by name from EmitEvent and
// AssertFailure-style instructions respectively.
type EventDecl struct {
	Name   string
	Loc    ir.Loc
	Fields []StructField
	Topics int // number of leading fields treated as indexed topics
}

type ErrorDecl struct {
	Name   string
	Loc    ir.Loc
	Fields []StructField
}

// TargetDesc describes the compilation target's fixed parameters (spec.md
// §6 "Target identifier").
type TargetDesc struct {
	Name             string
	PointerBytes     int
	AddressBytes     int
	ValueBytes       int
	SelectorBytes    int
	DefaultIntWidth  int
	SlotBasedStorage bool // true for WASM-substrate and EVM-reserved; false for Solana
}

// Namespace is the compilation's symbol table: contracts, functions, types,
// events, errors, the target description, and the append-only diagnostic
// list (spec.md §3 "Namespace"). Once Seal is called it is read-only to
// every pass except for diagnostics, which always append through
// AddDiagnostic regardless of sealed state.
type Namespace struct {
	Contracts []Contract
	Functions []*Function
	Structs   []StructDecl
	Enums     []EnumDecl
	Aliases   []AliasDecl
	Events    []EventDecl
	Errors    []ErrorDecl
	Target    TargetDesc

	Diagnostics []Diagnostic

	sealed bool
}

// New returns an empty Namespace for the given target.
func New(target TargetDesc) *Namespace {
	return &Namespace{Target: target}
}

// AddDiagnostic appends d to the namespace's diagnostic list. This is the
// one designated channel every pass uses to report user-visible errors,
// warnings, and info; it never blocks on the sealed state (spec.md §3
// "A namespace also carries a growing list of diagnostics ... a designated
// channel").
func (ns *Namespace) AddDiagnostic(d Diagnostic) {
	ns.Diagnostics = append(ns.Diagnostics, d)
}

// HasErrors reports whether any accumulated diagnostic is at error level.
// The driver calls this after each phase to decide whether to continue
// (spec.md §7 "Propagation policy").
func (ns *Namespace) HasErrors() bool {
	for _, d := range ns.Diagnostics {
		if d.IsError() {
			return true
		}
	}
	return false
}

// Seal marks the namespace read-only to passes other than diagnostic
// appends. Called by the driver once the front end has handed off a
// finished namespace and before the pass pipeline runs.
func (ns *Namespace) Seal() {
	ns.sealed = true
}

// Sealed reports whether Seal has been called.
func (ns *Namespace) Sealed() bool {
	return ns.sealed
}

// Function returns the function at idx, or an InvariantError if idx is out
// of range — an out-of-range function index reaching a pass is a front-end
// or prior-pass bug, not a user error (spec.md §7 "Invariant violations
// inside passes").
func (ns *Namespace) Function(idx int) (*Function, error) {
	if idx < 0 || idx >= len(ns.Functions) {
		return nil, &InvariantError{
			Loc:     ir.NoLoc,
			Message: fmt.Sprintf("function index %d out of range (have %d)", idx, len(ns.Functions)),
		}
	}
	return ns.Functions[idx], nil
}

// ResolveType reports whether t is resolvable against this namespace's
// arenas — the Emit Contract invariant that "types referenced in
// instructions are resolvable in the namespace" (spec.md §4.5, item 6).
func (ns *Namespace) ResolveType(t ir.Type) bool {
	switch t.Kind {
	case ir.TypeContract:
		return t.Index >= 0 && t.Index < len(ns.Contracts)
	case ir.TypeEnum:
		return t.Index >= 0 && t.Index < len(ns.Enums)
	case ir.TypeStruct:
		return t.Index >= 0 && t.Index < len(ns.Structs)
	case ir.TypeUserAlias:
		return t.Index >= 0 && t.Index < len(ns.Aliases)
	case ir.TypeArray, ir.TypeRef, ir.TypeStorageRef:
		return t.Elem != nil && ns.ResolveType(*t.Elem)
	case ir.TypeSlice:
		return true
	case ir.TypeMapping:
		return t.Key != nil && t.Elem != nil && ns.ResolveType(*t.Key) && ns.ResolveType(*t.Elem)
	default:
		return true
	}
}
