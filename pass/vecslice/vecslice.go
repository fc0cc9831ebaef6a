// Package vecslice demotes a dynamic-array allocation with a literal
// initializer to a read-only slice whenever no definition site reachable
// from its declaration is ever written through (spec.md §4.3). A slice
// skips the copy an emitter would otherwise need to give the allocation
// vector semantics, so this pass only ever removes work downstream; it
// never changes program behavior.
package vecslice

import (
	"solen.dev/compiler/cfg"
	"solen.dev/compiler/ir"
	"solen.dev/compiler/namespace"
	"solen.dev/compiler/pass/reachingdefs"
)

// Run computes the writable-definition set across every block of c in a
// single forward sweep per block (no cross-block fixpoint: writability is
// a whole-function accumulator, not a per-block lattice value) and
// retypes every still-eligible AllocDynamicArray allocation from its
// declared array type to ir.TypeSlice, flagging the owning symtable slot.
func Run(c *cfg.CFG, st *namespace.Symtable) {
	writable := make(map[cfg.Def]struct{})

	for blockNo := range c.Blocks {
		b := &c.Blocks[blockNo]
		vars := b.Defs.Clone()
		findWritable(blockNo, b, vars, writable)
	}

	for blockNo := range c.Blocks {
		demote(blockNo, &c.Blocks[blockNo], writable, st)
	}
}

// findWritable walks one block's instructions, updating vars with the
// same Kill/Gen transfers pass/reachingdefs computed, and adding every
// definition site that becomes observably written-through to writable.
func findWritable(blockNo int, b *cfg.Block, vars cfg.VarDefs, writable map[cfg.Def]struct{}) {
	for instrNo := range b.Instrs {
		in := &b.Instrs[instrNo]

		switch in.Kind {
		case cfg.InstrSet:
			if in.Expr.Kind == ir.ExprVariable {
				aliased, ok := vars[in.Expr.Slot]
				var cloned cfg.DefSet
				if ok {
					cloned = aliased.Clone()
				}
				reachingdefs.ApplyTransfers(b.Transfers[instrNo], vars)
				if ok {
					vars[in.Res] = cloned
				}
				continue
			}

		case cfg.InstrReturn:
			markWritable(in.ReturnValues, vars, writable)
		case cfg.InstrCall:
			markWritable(in.Args, vars, writable)
		case cfg.InstrPushMemory:
			markWritable([]ir.Expr{in.ArrayExpr}, vars, writable)
		case cfg.InstrStore:
			if defs, ok := vars[in.Src]; ok {
				for d := range defs {
					writable[d] = struct{}{}
				}
			}
		}

		if instrNo < len(b.Transfers) {
			reachingdefs.ApplyTransfers(b.Transfers[instrNo], vars)
		}
	}
}

// markWritable marks every reaching definition of every plain-variable
// expression in args as writable: once a vector-typed local is handed to
// a call or returned by value, the callee (or caller, for a return) may
// retain and later mutate it, so its backing allocation can never be
// demoted to a read-only slice.
func markWritable(args []ir.Expr, vars cfg.VarDefs, writable map[cfg.Def]struct{}) {
	for _, arg := range args {
		if arg.Kind != ir.ExprVariable {
			continue
		}
		defs, ok := vars[arg.Slot]
		if !ok {
			continue
		}
		for d := range defs {
			writable[d] = struct{}{}
		}
	}
}

// demote retypes every Set instruction's literal-initialized
// AllocDynamicArray expression whose own definition site never ended up
// in writable, and records the demotion on the owning symtable slot so
// later tooling (and the emitter) can see it without re-deriving it.
func demote(blockNo int, b *cfg.Block, writable map[cfg.Def]struct{}, st *namespace.Symtable) {
	for instrNo := range b.Instrs {
		in := &b.Instrs[instrNo]
		if in.Kind != cfg.InstrSet || in.Expr.Kind != ir.ExprAllocDynamicArray || in.Expr.Init == nil {
			continue
		}

		cur := cfg.Def{Block: blockNo, Instr: instrNo}
		if _, ok := writable[cur]; ok {
			continue
		}

		sliceType := ir.Type{Kind: ir.TypeSlice}
		in.Expr = ir.Expr{
			Kind: ir.ExprAllocDynamicArray,
			Loc:  in.Expr.Loc,
			Type: sliceType,
			Dims: in.Expr.Dims,
			Init: in.Expr.Init,
		}

		if v := st.Get(in.Res); v != nil {
			v.Slice = true
		}
	}
}
