package compiler

import (
	"testing"

	"solen.dev/compiler/cfg"
	"solen.dev/compiler/ir"
	"solen.dev/compiler/namespace"
)

func TestCheckEmitContractAcceptsWellFormedCFG(t *testing.T) {
	ns := namespace.New(namespace.TargetDesc{})
	st := namespace.NewSymtable()
	st.Declare(0, &namespace.Variable{Name: "x", Type: uint256Type()})
	c := &cfg.CFG{
		Name:        "f",
		FunctionIdx: 0,
		Blocks: []cfg.Block{{
			Instrs: []cfg.Instr{
				{Kind: cfg.InstrSet, Res: 0, Expr: ir.Expr{Kind: ir.ExprNumberLiteral, Type: uint256Type()}},
				{Kind: cfg.InstrReturn},
			},
			Defs: cfg.VarDefs{0: {cfg.Def{Block: 0, Instr: 0}: struct{}{}}},
		}},
	}
	ns.Functions = append(ns.Functions, &namespace.Function{CFG: c, Symtable: st})

	if errs := CheckEmitContract(ns, c); len(errs) != 0 {
		t.Fatalf("unexpected violations: %v", errs)
	}
}

func TestCheckEmitContractRejectsEmptyBlock(t *testing.T) {
	ns := namespace.New(namespace.TargetDesc{})
	c := &cfg.CFG{Name: "f", FunctionIdx: 0, Blocks: []cfg.Block{{}}}
	ns.Functions = append(ns.Functions, &namespace.Function{CFG: c, Symtable: namespace.NewSymtable()})

	errs := CheckEmitContract(ns, c)
	if len(errs) == 0 {
		t.Fatal("an empty block should violate the emit contract")
	}
}

func TestCheckEmitContractRejectsMisplacedTerminator(t *testing.T) {
	ns := namespace.New(namespace.TargetDesc{})
	c := &cfg.CFG{
		Name:        "f",
		FunctionIdx: 0,
		Blocks: []cfg.Block{{Instrs: []cfg.Instr{
			{Kind: cfg.InstrReturn},
			{Kind: cfg.InstrSet, Res: 0, Expr: ir.Expr{Kind: ir.ExprNumberLiteral, Type: uint256Type()}},
		}}},
	}
	ns.Functions = append(ns.Functions, &namespace.Function{CFG: c, Symtable: namespace.NewSymtable()})

	errs := CheckEmitContract(ns, c)
	if len(errs) == 0 {
		t.Fatal("a terminator in a non-final position should violate the emit contract")
	}
}

func TestCheckEmitContractRejectsOutOfRangeSuccessor(t *testing.T) {
	ns := namespace.New(namespace.TargetDesc{})
	c := &cfg.CFG{
		Name:        "f",
		FunctionIdx: 0,
		Blocks: []cfg.Block{{Instrs: []cfg.Instr{
			{Kind: cfg.InstrBranch, BranchBlock: 7},
		}}},
	}
	ns.Functions = append(ns.Functions, &namespace.Function{CFG: c, Symtable: namespace.NewSymtable()})

	errs := CheckEmitContract(ns, c)
	if len(errs) == 0 {
		t.Fatal("an out-of-range successor should violate the emit contract")
	}
}

func TestCheckEmitContractRejectsUnresolvableParamType(t *testing.T) {
	ns := namespace.New(namespace.TargetDesc{})
	c := &cfg.CFG{
		Name:        "f",
		FunctionIdx: 0,
		Params:      []cfg.Param{{Name: "s", Type: ir.Type{Kind: ir.TypeStruct, Index: 5}}},
		Blocks: []cfg.Block{{Instrs: []cfg.Instr{
			{Kind: cfg.InstrReturn},
		}}},
	}
	ns.Functions = append(ns.Functions, &namespace.Function{CFG: c, Symtable: namespace.NewSymtable()})

	errs := CheckEmitContract(ns, c)
	if len(errs) == 0 {
		t.Fatal("a parameter with an unresolvable struct type should violate the emit contract")
	}
}
