package namespace

import "solen.dev/compiler/ir"

// VariableUsage distinguishes a local slot from a named return slot; the
// latter is implicitly initialized by the synthesized return sequence and
// is exempted from undefined-variable checking unless it is storage-backed
// (spec.md §4.4 "Exclusion").
type VariableUsage uint8

const (
	UsageLocal VariableUsage = iota
	UsageReturnVariable
	UsageParameter
)

// StorageLocation records where a variable's value actually lives, which
// matters for the Exclusion rule above and for vector-to-slice (only
// memory-resident dynamic arrays are candidates for slice demotion).
type StorageLocation uint8

const (
	StorageLocationMemory StorageLocation = iota
	StorageLocationStorage
	StorageLocationCalldata
)

// Variable is one entry in a function's symbol table: the slot's declared
// type, its name for diagnostics, and tooling-facing metadata that
// pass/vecslice updates in place (Slice) once it proves a slot's allocation
// can be demoted (spec.md §4.3 "Rewrite").
type Variable struct {
	Name            string
	Type            ir.Type
	Loc             ir.Loc
	Usage           VariableUsage
	StorageLocation StorageLocation
	Slice           bool
}

// Symtable is a function's slot table, indexed by slot number.
type Symtable struct {
	Vars map[int]*Variable
}

// NewSymtable returns an empty symbol table.
func NewSymtable() *Symtable {
	return &Symtable{Vars: make(map[int]*Variable)}
}

// Get returns the variable at slot, or nil if no such slot exists — callers
// in the passes must treat a nil return as a malformed-CFG compiler bug,
// not silently skip the slot.
func (s *Symtable) Get(slot int) *Variable {
	if s == nil {
		return nil
	}
	return s.Vars[slot]
}

// Declare adds v at slot, returning slot for convenient chaining when
// building fixtures and tests.
func (s *Symtable) Declare(slot int, v *Variable) int {
	s.Vars[slot] = v
	return slot
}
