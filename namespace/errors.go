package namespace

import (
	"fmt"

	"solen.dev/compiler/ir"
)

// InvariantError signals a malformed CFG or namespace reaching a pass: a
// compiler bug, not a user error (spec.md §7 "Invariant violations inside
// passes ... fatal; they indicate a compiler bug"). It carries a location
// when the responsible source is known, otherwise the defining function's
// location, mirroring the teacher's ErrorCode/TxError split between
// user-facing and internal failure shapes.
type InvariantError struct {
	Loc     ir.Loc
	Message string
}

func (e *InvariantError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Loc == ir.NoLoc {
		return fmt.Sprintf("invariant violation: %s", e.Message)
	}
	return fmt.Sprintf("invariant violation at %s: %s", e.Loc, e.Message)
}

// invariant constructs an *InvariantError, matching the teacher's txerr
// helper shape in consensus/errors.go.
func invariant(loc ir.Loc, format string, args ...any) error {
	return &InvariantError{Loc: loc, Message: fmt.Sprintf(format, args...)}
}

// Invariant is the exported form of invariant, for use by pass/ packages
// that need to report a malformed-CFG condition against a namespace
// without duplicating the message-formatting boilerplate.
func Invariant(loc ir.Loc, format string, args ...any) error {
	return invariant(loc, format, args...)
}
