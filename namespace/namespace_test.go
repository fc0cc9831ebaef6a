package namespace

import (
	"errors"
	"testing"

	"solen.dev/compiler/cfg"
	"solen.dev/compiler/ir"
)

func TestNamespaceHasErrors(t *testing.T) {
	ns := New(TargetDesc{Name: "test"})
	if ns.HasErrors() {
		t.Fatal("new namespace should have no errors")
	}
	ns.AddDiagnostic(Diagnostic{Level: LevelWarning, Message: "careful"})
	if ns.HasErrors() {
		t.Fatal("a warning-level diagnostic should not count as an error")
	}
	ns.AddDiagnostic(Diagnostic{Level: LevelError, Message: "bad"})
	if !ns.HasErrors() {
		t.Fatal("an error-level diagnostic should be reported")
	}
}

func TestNamespaceSeal(t *testing.T) {
	ns := New(TargetDesc{})
	if ns.Sealed() {
		t.Fatal("new namespace should not be sealed")
	}
	ns.Seal()
	if !ns.Sealed() {
		t.Fatal("Seal should mark the namespace sealed")
	}
}

func TestNamespaceFunction(t *testing.T) {
	ns := New(TargetDesc{})
	fn := &Function{CFG: &cfg.CFG{Name: "f"}}
	ns.Functions = append(ns.Functions, fn)

	got, err := ns.Function(0)
	if err != nil {
		t.Fatalf("Function(0) returned error: %v", err)
	}
	if got != fn {
		t.Fatal("Function(0) did not return the expected function")
	}

	_, err = ns.Function(5)
	if err == nil {
		t.Fatal("Function(5) should fail for an out-of-range index")
	}
	var invErr *InvariantError
	if !errors.As(err, &invErr) {
		t.Fatalf("out-of-range Function error should be an *InvariantError, got %T", err)
	}
}

func TestNamespaceResolveType(t *testing.T) {
	ns := New(TargetDesc{})
	ns.Structs = append(ns.Structs, StructDecl{Name: "S"})
	ns.Enums = append(ns.Enums, EnumDecl{Name: "E"})

	if !ns.ResolveType(ir.Type{Kind: ir.TypeStruct, Index: 0}) {
		t.Error("in-range struct type should resolve")
	}
	if ns.ResolveType(ir.Type{Kind: ir.TypeStruct, Index: 1}) {
		t.Error("out-of-range struct type should not resolve")
	}
	if !ns.ResolveType(ir.Type{Kind: ir.TypeEnum, Index: 0}) {
		t.Error("in-range enum type should resolve")
	}
	if !ns.ResolveType(ir.Uint256) {
		t.Error("a primitive type should always resolve")
	}

	if !ns.ResolveType(ir.Type{Kind: ir.TypeSlice}) {
		t.Error("slice is a payload-free view over a byte buffer and should always resolve")
	}

	elem := ir.Type{Kind: ir.TypeEnum, Index: 0}

	key := ir.Uint256
	if !ns.ResolveType(ir.Type{Kind: ir.TypeMapping, Key: &key, Elem: &elem}) {
		t.Error("a mapping with resolvable key and value should resolve")
	}
}
