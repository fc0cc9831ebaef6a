package main

import (
	"math/big"

	"solen.dev/compiler/cfg"
	"solen.dev/compiler/ir"
	"solen.dev/compiler/namespace"
)

// Scenario is one of the concrete battery snippets from spec.md §8,
// expressed directly as a namespace + CFG since this repository has no
// front end to parse Solen source text into one (spec.md §1).
type Scenario struct {
	Name        string
	Description string
	Build       func() (*namespace.Namespace, *namespace.Symtable, *cfg.CFG)
}

func numberLiteral(ty ir.Type, v int64) ir.Expr {
	return ir.Expr{Kind: ir.ExprNumberLiteral, Type: ty, NumberValue: big.NewInt(v)}
}

func uint256() ir.Type { return ir.Uint256 }

func testTargetDesc() namespace.TargetDesc {
	return namespace.TargetDesc{
		Name: "wasm-substrate", PointerBytes: 4, AddressBytes: 32,
		ValueBytes: 16, SelectorBytes: 4, DefaultIntWidth: 256, SlotBasedStorage: true,
	}
}

// scenarioDivideByZero builds `uint x = 5 / 0;` — spec.md §8 scenario 1.
func scenarioDivideByZero() (*namespace.Namespace, *namespace.Symtable, *cfg.CFG) {
	ns := namespace.New(testTargetDesc())
	st := namespace.NewSymtable()
	st.Declare(0, &namespace.Variable{Name: "x", Type: uint256()})

	expr := ir.Expr{
		Kind: ir.ExprDivide, Type: uint256(),
		Left:  ptr(numberLiteral(uint256(), 5)),
		Right: ptr(numberLiteral(uint256(), 0)),
	}
	c := &cfg.CFG{
		Name: "f_divzero",
		Blocks: []cfg.Block{{
			Instrs: []cfg.Instr{
				{Kind: cfg.InstrSet, Res: 0, Expr: expr},
				{Kind: cfg.InstrReturn},
			},
		}},
	}
	registerFunction(ns, st, c)
	return ns, st, c
}

// scenarioShiftOutOfRange builds `uint y = 1 << 300;` at uint256 — spec.md
// §8 scenario 2.
func scenarioShiftOutOfRange() (*namespace.Namespace, *namespace.Symtable, *cfg.CFG) {
	ns := namespace.New(testTargetDesc())
	st := namespace.NewSymtable()
	st.Declare(0, &namespace.Variable{Name: "y", Type: uint256()})

	expr := ir.Expr{
		Kind: ir.ExprShiftLeft, Type: uint256(),
		Left:  ptr(numberLiteral(uint256(), 1)),
		Right: ptr(numberLiteral(uint256(), 300)),
	}
	c := &cfg.CFG{
		Name: "f_shift",
		Blocks: []cfg.Block{{
			Instrs: []cfg.Instr{
				{Kind: cfg.InstrSet, Res: 0, Expr: expr},
				{Kind: cfg.InstrReturn},
			},
		}},
	}
	registerFunction(ns, st, c)
	return ns, st, c
}

// scenarioHashPrecompute builds `bytes32 h = keccak256(hex"")` — spec.md
// §8 scenario 3. After folding, the Set's expression becomes a
// BytesLiteral of the well-known Keccak256("") digest.
func scenarioHashPrecompute() (*namespace.Namespace, *namespace.Symtable, *cfg.CFG) {
	ns := namespace.New(testTargetDesc())
	st := namespace.NewSymtable()
	st.Declare(0, &namespace.Variable{Name: "h", Type: ir.Bytes32})

	alloc := ir.Expr{Kind: ir.ExprAllocDynamicArray, Type: ir.Type{Kind: ir.TypeBytes}, Init: []byte{}}
	expr := ir.Expr{
		Kind: ir.ExprBuiltin, Type: ir.Bytes32, BuiltinKind: ir.BuiltinKeccak256,
		Args: []ir.Expr{alloc}, ResultTypes: []ir.Type{ir.Bytes32},
	}
	c := &cfg.CFG{
		Name: "f_hash",
		Blocks: []cfg.Block{{
			Instrs: []cfg.Instr{
				{Kind: cfg.InstrSet, Res: 0, Expr: expr},
				{Kind: cfg.InstrReturn},
			},
		}},
	}
	registerFunction(ns, st, c)
	return ns, st, c
}

// scenarioVectorDemotion builds `bytes memory s = hex"deadbeef"; print(s);`
// — spec.md §8 scenario 4, the read-only case. s's allocation is expected
// to be retyped to Slice since it is only ever printed, never written.
func scenarioVectorDemotion() (*namespace.Namespace, *namespace.Symtable, *cfg.CFG) {
	ns := namespace.New(testTargetDesc())
	st := namespace.NewSymtable()
	byteTy := ir.Type{Kind: ir.TypeBytes}
	st.Declare(0, &namespace.Variable{Name: "s", Type: byteTy, StorageLocation: namespace.StorageLocationMemory})

	alloc := ir.Expr{Kind: ir.ExprAllocDynamicArray, Type: byteTy, Init: []byte{0xde, 0xad, 0xbe, 0xef}}
	c := &cfg.CFG{
		Name: "f_vecslice",
		Blocks: []cfg.Block{{
			Instrs: []cfg.Instr{
				{Kind: cfg.InstrSet, Res: 0, Expr: alloc},
				{Kind: cfg.InstrPrint, PrintExpr: ir.Expr{Kind: ir.ExprVariable, Type: byteTy, Slot: 0}},
				{Kind: cfg.InstrReturn},
			},
		}},
	}
	registerFunction(ns, st, c)
	return ns, st, c
}

// scenarioVectorWritten is the companion negative case from spec.md §8
// scenario 4: `s[0] = 0x00;` follows, so s must remain a vector.
func scenarioVectorWritten() (*namespace.Namespace, *namespace.Symtable, *cfg.CFG) {
	ns := namespace.New(testTargetDesc())
	st := namespace.NewSymtable()
	byteTy := ir.Type{Kind: ir.TypeBytes}
	st.Declare(0, &namespace.Variable{Name: "s", Type: byteTy, StorageLocation: namespace.StorageLocationMemory})

	alloc := ir.Expr{Kind: ir.ExprAllocDynamicArray, Type: byteTy, Init: []byte{0xde, 0xad, 0xbe, 0xef}}
	sVar := ir.Expr{Kind: ir.ExprVariable, Type: byteTy, Slot: 0}
	dest := ir.Expr{Kind: ir.ExprSubscriptDynamicArray, Type: ir.Type{Kind: ir.TypeUint, Width: 8}, Array: &sVar, Index: ptr(numberLiteral(ir.Type{Kind: ir.TypeUint, Width: 8}, 0))}
	c := &cfg.CFG{
		Name: "f_vecwrite",
		Blocks: []cfg.Block{{
			Instrs: []cfg.Instr{
				{Kind: cfg.InstrSet, Res: 0, Expr: alloc},
				{Kind: cfg.InstrStore, Dest: dest, Src: 0},
				{Kind: cfg.InstrReturn},
			},
		}},
	}
	registerFunction(ns, st, c)
	return ns, st, c
}

// scenarioUndefinedRead builds `uint x; if (cond) { x = 1; } return x;` —
// spec.md §8 scenario 5. cond is a function argument so its truth is not
// known at fold time; x's definition from the taken branch and the
// Undefined placeholder both reach the return.
func scenarioUndefinedRead() (*namespace.Namespace, *namespace.Symtable, *cfg.CFG) {
	ns := namespace.New(testTargetDesc())
	st := namespace.NewSymtable()
	boolTy := ir.Type{Kind: ir.TypeBool}
	st.Declare(0, &namespace.Variable{Name: "x", Type: uint256()})
	st.Declare(1, &namespace.Variable{Name: "cond", Type: boolTy, Usage: namespace.UsageParameter})

	cond := ir.Expr{Kind: ir.ExprFunctionArg, Type: boolTy, Slot: 1}
	c := &cfg.CFG{
		Name:   "f_undefread",
		Params: []cfg.Param{{Name: "cond", Type: boolTy}},
		Blocks: []cfg.Block{
			{Instrs: []cfg.Instr{
				{Kind: cfg.InstrSet, Res: 0, Expr: ir.Expr{Kind: ir.ExprUndefined, Type: uint256()}},
				{Kind: cfg.InstrBranchCond, Cond: cond, TrueBlock: 1, FalseBlock: 2},
			}},
			{Instrs: []cfg.Instr{
				{Kind: cfg.InstrSet, Res: 0, Expr: numberLiteral(uint256(), 1)},
				{Kind: cfg.InstrBranch, BranchBlock: 2},
			}},
			{Instrs: []cfg.Instr{
				{Kind: cfg.InstrReturn, ReturnValues: []ir.Expr{{Kind: ir.ExprVariable, Type: uint256(), Slot: 0}}},
			}},
		},
	}
	registerFunction(ns, st, c)
	return ns, st, c
}

// scenarioBranchFolding builds `if (true) A(); else B();` — spec.md §8
// scenario 6. After folding, block 0's BranchCond becomes an
// unconditional Branch to A's block (block 1); B's block (block 2)
// becomes unreachable.
func scenarioBranchFolding() (*namespace.Namespace, *namespace.Symtable, *cfg.CFG) {
	ns := namespace.New(testTargetDesc())
	st := namespace.NewSymtable()

	cond := ir.Expr{Kind: ir.ExprBoolLiteral, Type: ir.Type{Kind: ir.TypeBool}, BoolValue: true}
	c := &cfg.CFG{
		Name: "f_branchfold",
		Blocks: []cfg.Block{
			{Instrs: []cfg.Instr{
				{Kind: cfg.InstrBranchCond, Cond: cond, TrueBlock: 1, FalseBlock: 2},
			}},
			{Instrs: []cfg.Instr{
				{Kind: cfg.InstrCall, Callee: ir.CallTarget{Kind: ir.CallHost, HostName: "A"}},
				{Kind: cfg.InstrReturn},
			}},
			{Instrs: []cfg.Instr{
				{Kind: cfg.InstrCall, Callee: ir.CallTarget{Kind: ir.CallHost, HostName: "B"}},
				{Kind: cfg.InstrReturn},
			}},
		},
	}
	registerFunction(ns, st, c)
	return ns, st, c
}

func ptr(e ir.Expr) *ir.Expr { return &e }

func registerFunction(ns *namespace.Namespace, st *namespace.Symtable, c *cfg.CFG) {
	c.FunctionIdx = len(ns.Functions)
	ns.Functions = append(ns.Functions, &namespace.Function{CFG: c, Symtable: st, Contract: -1})
}

// Scenarios lists every battery entry this generator runs, in the order
// they appear in spec.md §8.
func Scenarios() []Scenario {
	return []Scenario{
		{Name: "divide-by-zero", Description: "uint x = 5 / 0;", Build: scenarioDivideByZero},
		{Name: "shift-out-of-range", Description: "uint y = 1 << 300;", Build: scenarioShiftOutOfRange},
		{Name: "hash-precompute", Description: `bytes32 h = keccak256(hex"");`, Build: scenarioHashPrecompute},
		{Name: "vector-demotion", Description: `bytes memory s = hex"deadbeef"; print(s);`, Build: scenarioVectorDemotion},
		{Name: "vector-written", Description: `bytes memory s = hex"deadbeef"; s[0] = 0x00;`, Build: scenarioVectorWritten},
		{Name: "undefined-read", Description: "uint x; if (cond) { x = 1; } return x;", Build: scenarioUndefinedRead},
		{Name: "branch-folding", Description: "if (true) A(); else B();", Build: scenarioBranchFolding},
	}
}
