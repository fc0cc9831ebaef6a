package vecslice

import (
	"testing"

	"solen.dev/compiler/cfg"
	"solen.dev/compiler/ir"
	"solen.dev/compiler/namespace"
	"solen.dev/compiler/pass/reachingdefs"
)

func arrayType() ir.Type {
	elem := ir.Type{Kind: ir.TypeUint, Width: 8}
	return ir.Type{Kind: ir.TypeArray, Elem: &elem, Dims: []ir.Dim{{Dynamic: true}}}
}

func TestRunDemotesReadOnlyVector(t *testing.T) {
	alloc := ir.Expr{Kind: ir.ExprAllocDynamicArray, Type: arrayType(), Init: []byte{1, 2, 3}}

	c := &cfg.CFG{Blocks: []cfg.Block{{Instrs: []cfg.Instr{
		{Kind: cfg.InstrSet, Res: 0, Expr: alloc},
		{Kind: cfg.InstrPrint, PrintExpr: ir.Expr{Kind: ir.ExprVariable, Slot: 0}},
		{Kind: cfg.InstrReturn},
	}}}}
	st := namespace.NewSymtable()
	st.Declare(0, &namespace.Variable{Name: "v", Type: arrayType()})

	reachingdefs.Run(c)
	Run(c, st)

	got := c.Blocks[0].Instrs[0].Expr
	if got.Type.Kind != ir.TypeSlice {
		t.Fatalf("read-only vector should demote to TypeSlice, got %v", got.Type.Kind)
	}
	if !st.Get(0).Slice {
		t.Error("symtable slot should be flagged Slice after demotion")
	}
}

func TestRunKeepsWrittenThroughVectorAsVector(t *testing.T) {
	alloc := ir.Expr{Kind: ir.ExprAllocDynamicArray, Type: arrayType(), Init: []byte{1, 2, 3}}

	c := &cfg.CFG{Blocks: []cfg.Block{{Instrs: []cfg.Instr{
		{Kind: cfg.InstrSet, Res: 0, Expr: alloc},
		{Kind: cfg.InstrStore, Dest: ir.Expr{Kind: ir.ExprVariable, Slot: 1}, Src: 0},
		{Kind: cfg.InstrReturn},
	}}}}
	st := namespace.NewSymtable()
	st.Declare(0, &namespace.Variable{Name: "v", Type: arrayType()})

	reachingdefs.Run(c)
	Run(c, st)

	got := c.Blocks[0].Instrs[0].Expr
	if got.Type.Kind != ir.TypeArray {
		t.Fatalf("a vector stored through should stay TypeArray, got %v", got.Type.Kind)
	}
	if st.Get(0).Slice {
		t.Error("symtable slot should not be flagged Slice when written through")
	}
}
