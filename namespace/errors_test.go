package namespace

import (
	"strings"
	"testing"

	"solen.dev/compiler/ir"
)

func TestInvariantErrorString(t *testing.T) {
	err := Invariant(ir.NoLoc, "function %d has no CFG", 2)
	if !strings.Contains(err.Error(), "function 2 has no CFG") {
		t.Errorf("Error() = %q, want it to contain the formatted message", err.Error())
	}
	if strings.Contains(err.Error(), " at ") {
		t.Errorf("Error() = %q, a NoLoc error should not print a location", err.Error())
	}

	located := Invariant(ir.Loc{File: "f.sol", Line: 4, Column: 1}, "bad slot")
	if !strings.Contains(located.Error(), "f.sol") {
		t.Errorf("Error() = %q, want it to mention the file location", located.Error())
	}
}

func TestInvariantErrorNilReceiver(t *testing.T) {
	var e *InvariantError
	if e.Error() != "<nil>" {
		t.Errorf("Error() on nil *InvariantError = %q, want <nil>", e.Error())
	}
}
