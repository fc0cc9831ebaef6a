package compiler

import (
	"context"
	"math/big"
	"testing"

	"solen.dev/compiler/cfg"
	"solen.dev/compiler/ir"
	"solen.dev/compiler/namespace"
)

func uint256Type() ir.Type { return ir.Type{Kind: ir.TypeUint, Width: 256} }

func buildValidNamespace() *namespace.Namespace {
	ns := namespace.New(namespace.TargetDesc{Name: "wasm-substrate"})

	lit := ir.Expr{Kind: ir.ExprNumberLiteral, Type: uint256Type(), NumberValue: big.NewInt(1)}
	c := &cfg.CFG{
		Name:        "f",
		FunctionIdx: 0,
		Blocks: []cfg.Block{{Instrs: []cfg.Instr{
			{Kind: cfg.InstrSet, Res: 0, Expr: lit},
			{Kind: cfg.InstrReturn},
		}}},
	}
	st := namespace.NewSymtable()
	st.Declare(0, &namespace.Variable{Name: "x", Type: uint256Type()})

	ns.Functions = append(ns.Functions, &namespace.Function{CFG: c, Symtable: st, Contract: -1})
	ns.Seal()
	return ns
}

func TestCompileSucceedsOnValidNamespace(t *testing.T) {
	ns := buildValidNamespace()
	result, err := Compile(context.Background(), ns, Options{Target: TargetWasmSubstrate})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(result.Diagnostics) != 0 {
		t.Errorf("expected no diagnostics, got %v", result.Diagnostics)
	}
}

func TestCompileSkipsEmissionOnError(t *testing.T) {
	ns := namespace.New(namespace.TargetDesc{Name: "wasm-substrate"})

	left := ir.Expr{Kind: ir.ExprNumberLiteral, Type: uint256Type(), NumberValue: big.NewInt(1)}
	right := ir.Expr{Kind: ir.ExprNumberLiteral, Type: uint256Type(), NumberValue: big.NewInt(0)}
	div := ir.Expr{Kind: ir.ExprDivide, Type: uint256Type(), Left: &left, Right: &right}

	c := &cfg.CFG{
		Name:        "f",
		FunctionIdx: 0,
		Blocks: []cfg.Block{{Instrs: []cfg.Instr{
			{Kind: cfg.InstrSet, Res: 0, Expr: div},
			{Kind: cfg.InstrReturn},
		}}},
	}
	st := namespace.NewSymtable()
	st.Declare(0, &namespace.Variable{Name: "x", Type: uint256Type()})
	ns.Functions = append(ns.Functions, &namespace.Function{CFG: c, Symtable: st, Contract: -1})
	ns.Seal()

	called := false
	result, err := Compile(context.Background(), ns, Options{
		Target:  TargetWasmSubstrate,
		Emitter: emitterFunc(func(*namespace.Namespace) ([]Artifact, error) { called = true; return nil, nil }),
	})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if called {
		t.Error("Emitter should not run when a pass reported an error diagnostic")
	}
	if !result.Diagnostics[0].IsError() {
		t.Errorf("expected an error diagnostic, got %v", result.Diagnostics)
	}
	if len(result.Artifacts) != 0 {
		t.Error("no artifacts should be produced when emission is skipped")
	}
}

func TestCompileFailsOnMissingCFG(t *testing.T) {
	ns := namespace.New(namespace.TargetDesc{})
	ns.Functions = append(ns.Functions, &namespace.Function{})
	ns.Seal()

	if _, err := Compile(context.Background(), ns, Options{}); err == nil {
		t.Fatal("Compile should fail when a function has no CFG")
	}
}

func TestCompileFailsOnEmitContractViolation(t *testing.T) {
	ns := namespace.New(namespace.TargetDesc{})
	c := &cfg.CFG{
		Name:        "f",
		FunctionIdx: 0,
		Blocks: []cfg.Block{{Instrs: []cfg.Instr{
			{Kind: cfg.InstrSet, Res: 0, Expr: ir.Expr{Kind: ir.ExprVariable, Slot: 99, Type: uint256Type()}},
			{Kind: cfg.InstrReturn},
		}}},
	}
	st := namespace.NewSymtable()
	ns.Functions = append(ns.Functions, &namespace.Function{CFG: c, Symtable: st, Contract: -1})
	ns.Seal()

	if _, err := Compile(context.Background(), ns, Options{}); err == nil {
		t.Fatal("Compile should fail when the emit contract is violated")
	}
}

func TestCompileRespectsContextCancellation(t *testing.T) {
	ns := buildValidNamespace()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Compile(ctx, ns, Options{}); err == nil {
		t.Fatal("Compile should return the context error once cancelled")
	}
}

type emitterFunc func(*namespace.Namespace) ([]Artifact, error)

func (f emitterFunc) Emit(ns *namespace.Namespace) ([]Artifact, error) { return f(ns) }
