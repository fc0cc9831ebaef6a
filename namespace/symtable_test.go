package namespace

import (
	"testing"

	"solen.dev/compiler/ir"
)

func TestSymtableDeclareAndGet(t *testing.T) {
	st := NewSymtable()
	v := &Variable{Name: "x", Type: ir.Uint256, Usage: UsageLocal}
	slot := st.Declare(3, v)

	if slot != 3 {
		t.Fatalf("Declare returned %d, want 3", slot)
	}
	if got := st.Get(3); got != v {
		t.Fatalf("Get(3) = %v, want %v", got, v)
	}
	if got := st.Get(4); got != nil {
		t.Fatalf("Get(4) on undeclared slot = %v, want nil", got)
	}
}

func TestSymtableGetOnNilReceiver(t *testing.T) {
	var st *Symtable
	if got := st.Get(0); got != nil {
		t.Fatalf("Get on a nil Symtable should return nil, got %v", got)
	}
}
