// Package ir defines the target-independent intermediate representation:
// types and expressions shared by every CFG in a compilation.
package ir

import "fmt"

// Loc is a source location, carried by every expression and by
// declarations that need to report diagnostics against them.
type Loc struct {
	File      string
	Line      int
	Column    int
	EndLine   int
	EndColumn int
}

func (l Loc) String() string {
	if l.File == "" {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// NoLoc is used for synthesized nodes that do not correspond to source text.
var NoLoc = Loc{}
