package namespace

import "solen.dev/compiler/ir"

// Level is the severity of a Diagnostic.
type Level string

const (
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
)

// Kind tags the family of a Diagnostic for tooling that wants to filter or
// group by cause, independent of the human-readable Message.
type Kind string

const (
	KindShiftOutOfRange   Kind = "SHIFT_OUT_OF_RANGE"
	KindPowerOutOfRange   Kind = "POWER_OUT_OF_RANGE"
	KindDivideByZero      Kind = "DIVIDE_BY_ZERO"
	KindUndefinedVariable Kind = "UNDEFINED_VARIABLE"
	KindFrontEnd          Kind = "FRONT_END"
)

// Note is a sub-diagnostic: an additional source range and message attached
// to a primary Diagnostic, used by pass/undefvar to report every read site
// of an undefined slot against one diagnostic (spec.md §4.4).
type Note struct {
	Loc     ir.Loc
	Message string
}

// Diagnostic is compiler output data, not a Go error — it is accumulated on
// a Namespace via AddDiagnostic and never returned as an `error` value
// (spec.md §6 "Diagnostics", §7 "Error Handling Design").
type Diagnostic struct {
	Level   Level
	Kind    Kind
	Loc     ir.Loc
	Message string
	Notes   []Note
}

// IsError reports whether d should cause compilation to halt before
// emission (spec.md §2 "if any are errors, compilation fails before
// emission").
func (d Diagnostic) IsError() bool {
	return d.Level == LevelError
}
