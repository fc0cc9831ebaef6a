// Package undefvar reports reads of a slot whose only reaching
// definition is still the front end's "not yet assigned" placeholder
// expression (spec.md §4.4). A Store instruction's own operands are never
// checked: Store writes a value through an already-computed destination,
// it never reads a variable's own uninitialized slot.
package undefvar

import (
	"solen.dev/compiler/cfg"
	"solen.dev/compiler/ir"
	"solen.dev/compiler/namespace"
)

// defState tracks, for the definitions reaching the current program point
// within one block, whether each has since been written through a
// reference (Store, a by-reference Call/Return argument, PushMemory) —
// the same event vocabulary pass/vecslice uses to decide writability.
// A modified definition no longer counts as evidence of an undefined read,
// even if its instruction originally assigned the Undefined sentinel.
type defState map[int]map[cfg.Def]bool

// Run checks every block of c in one forward sweep (no cross-block
// fixpoint: like pass/vecslice, "modified since definition" is a
// per-block-entry fact, not a lattice merged across edges) and returns one
// Diagnostic per distinct undefined slot, with a Note for every read site.
func Run(c *cfg.CFG, st *namespace.Symtable) []namespace.Diagnostic {
	bySlot := make(map[int]*namespace.Diagnostic)

	for blockNo := range c.Blocks {
		b := &c.Blocks[blockNo]
		vars := seed(b.Defs)

		for instrNo := range b.Instrs {
			in := &b.Instrs[instrNo]

			if in.Kind != cfg.InstrStore {
				for _, e := range instrExprs(in) {
					checkExpr(e, vars, c, st, bySlot)
				}
			}

			markModified(in, vars)

			if instrNo < len(b.Transfers) {
				applyAliasAware(in, b.Transfers[instrNo], vars)
			}
		}
	}

	diags := make([]namespace.Diagnostic, 0, len(bySlot))
	for _, d := range bySlot {
		diags = append(diags, *d)
	}
	return diags
}

func seed(defs cfg.VarDefs) defState {
	vars := make(defState, len(defs))
	for slot, ds := range defs {
		entry := make(map[cfg.Def]bool, len(ds))
		for d := range ds {
			entry[d] = false
		}
		vars[slot] = entry
	}
	return vars
}

// checkExpr recurses through e looking for ExprVariable reads whose sole
// reaching definition is an unmodified Undefined-valued Set instruction.
// DynamicArrayLength never reads undefined data even when its array
// argument might be, mirroring original_source's explicit short-circuit
// for that one builtin shape.
func checkExpr(e ir.Expr, vars defState, c *cfg.CFG, st *namespace.Symtable, bySlot map[int]*namespace.Diagnostic) {
	switch e.Kind {
	case ir.ExprVariable:
		checkVariable(e, vars, c, st, bySlot)
		return
	case ir.ExprDynamicArrayLength:
		return
	}

	for _, child := range childExprs(e) {
		checkExpr(child, vars, c, st, bySlot)
	}
}

func checkVariable(e ir.Expr, vars defState, c *cfg.CFG, st *namespace.Symtable, bySlot map[int]*namespace.Diagnostic) {
	defs, ok := vars[e.Slot]
	if !ok {
		return
	}
	v := st.Get(e.Slot)
	if v == nil {
		return
	}

	for def, modified := range defs {
		if modified {
			continue
		}
		if def.Block < 0 || def.Block >= len(c.Blocks) {
			continue
		}
		instrs := c.Blocks[def.Block].Instrs
		if def.Instr < 0 || def.Instr >= len(instrs) {
			continue
		}
		in := instrs[def.Instr]
		if in.Kind == cfg.InstrSet && in.Expr.Kind == ir.ExprUndefined {
			addDiagnostic(v, e.Slot, e.Loc, bySlot)
		}
	}
}

// addDiagnostic records one Note per read site on a single error
// Diagnostic per slot, skipping the report entirely for a named return
// variable unless it is storage-backed — a memory-backed return variable
// is implicitly initialized by the synthesized return sequence, a
// storage-backed one is not, so it is still checked (spec.md §4.4
// "Exclusion").
func addDiagnostic(v *namespace.Variable, slot int, loc ir.Loc, bySlot map[int]*namespace.Diagnostic) {
	if v.Usage == namespace.UsageReturnVariable && v.StorageLocation != namespace.StorageLocationStorage {
		return
	}

	d, ok := bySlot[slot]
	if !ok {
		d = &namespace.Diagnostic{
			Level:   namespace.LevelError,
			Kind:    namespace.KindUndefinedVariable,
			Loc:     v.Loc,
			Message: "variable '" + v.Name + "' is undefined",
		}
		bySlot[slot] = d
	}
	d.Notes = append(d.Notes, namespace.Note{Loc: loc, Message: "variable read before being defined"})
}

// markModified flags every currently-reaching definition of a
// by-reference-written slot as modified: Store's destination slot, and
// any bare-variable argument to Call, Return or PushMemory (the same
// write-through shapes pass/vecslice treats as exposing a vector to
// mutation).
func markModified(in *cfg.Instr, vars defState) {
	switch in.Kind {
	case cfg.InstrStore:
		markSlot(in.Src, vars)
	case cfg.InstrReturn:
		markArgs(in.ReturnValues, vars)
	case cfg.InstrCall:
		markArgs(in.Args, vars)
	case cfg.InstrPushMemory:
		markArgs([]ir.Expr{in.ArrayExpr}, vars)
	}
}

func markArgs(args []ir.Expr, vars defState) {
	for _, arg := range args {
		if arg.Kind == ir.ExprVariable {
			markSlot(arg.Slot, vars)
		}
	}
}

func markSlot(slot int, vars defState) {
	entry, ok := vars[slot]
	if !ok {
		return
	}
	for d := range entry {
		entry[d] = true
	}
}

// applyAliasAware updates vars with this instruction's Kill/Gen transfers,
// then — for a plain "res = some other variable" Set — makes res alias
// that variable's pre-transfer definitions (and their modified flags), the
// same aliasing rule pass/vecslice applies.
func applyAliasAware(in *cfg.Instr, transfers []cfg.Transfer, vars defState) {
	var aliasSrc map[cfg.Def]bool
	aliasRes := -1
	if in.Kind == cfg.InstrSet && in.Expr.Kind == ir.ExprVariable {
		if entry, ok := vars[in.Expr.Slot]; ok {
			aliasSrc = make(map[cfg.Def]bool, len(entry))
			for d, m := range entry {
				aliasSrc[d] = m
			}
			aliasRes = in.Res
		}
	}

	for _, t := range transfers {
		switch t.Kind {
		case cfg.TransferKill:
			delete(vars, t.Slot)
		case cfg.TransferGen:
			entry, ok := vars[t.Slot]
			if !ok {
				entry = make(map[cfg.Def]bool, 1)
				vars[t.Slot] = entry
			}
			entry[t.Def] = false
		}
	}

	if aliasSrc != nil {
		vars[aliasRes] = aliasSrc
	}
}

// instrExprs returns the top-level expression operands of in that a plain
// (non-Store) instruction can read from, for checkExpr to recurse into.
func instrExprs(in *cfg.Instr) []ir.Expr {
	switch in.Kind {
	case cfg.InstrSet:
		return []ir.Expr{in.Expr}
	case cfg.InstrCall:
		return in.Args
	case cfg.InstrReturn:
		return in.ReturnValues
	case cfg.InstrBranchCond:
		return []ir.Expr{in.Cond}
	case cfg.InstrSwitch:
		return []ir.Expr{in.Cond}
	case cfg.InstrAssertFailure:
		if in.AssertExpr != nil {
			return []ir.Expr{*in.AssertExpr}
		}
		return nil
	case cfg.InstrPrint:
		return []ir.Expr{in.PrintExpr}
	case cfg.InstrClearStorage:
		return []ir.Expr{in.Storage}
	case cfg.InstrSetStorage:
		return []ir.Expr{in.Storage, in.Value}
	case cfg.InstrSetStorageBytes:
		return []ir.Expr{in.Storage, in.Value, in.Offset}
	case cfg.InstrPushMemory:
		return []ir.Expr{in.ArrayExpr}
	case cfg.InstrConstructor:
		out := append([]ir.Expr{}, in.ConstructArgs...)
		out = append(out, in.Gas)
		if in.ConstructValue != nil {
			out = append(out, *in.ConstructValue)
		}
		if in.Salt != nil {
			out = append(out, *in.Salt)
		}
		return out
	case cfg.InstrExternalCall:
		out := append([]ir.Expr{}, in.Args...)
		return append(out, in.CallValue, in.CallGas, in.Payload, in.Address)
	case cfg.InstrAbiDecode:
		return []ir.Expr{in.Data}
	case cfg.InstrAbiEncodeVector:
		return in.Args
	case cfg.InstrSelfDestruct:
		return []ir.Expr{in.Beneficiary}
	case cfg.InstrEmitEvent:
		out := append([]ir.Expr{}, in.EventArgs...)
		return out
	default:
		return nil
	}
}

// childExprs returns e's immediate subexpressions, for checkExpr's
// recursive walk.
func childExprs(e ir.Expr) []ir.Expr {
	var out []ir.Expr
	if e.Left != nil {
		out = append(out, *e.Left)
	}
	if e.Right != nil {
		out = append(out, *e.Right)
	}
	if e.Array != nil {
		out = append(out, *e.Array)
	}
	if e.Index != nil {
		out = append(out, *e.Index)
	}
	if e.Addr != nil {
		out = append(out, *e.Addr)
	}
	if e.ExtAddress != nil {
		out = append(out, *e.ExtAddress)
	}
	if e.StrLeft != nil {
		out = append(out, *e.StrLeft)
	}
	if e.StrRight != nil {
		out = append(out, *e.StrRight)
	}
	out = append(out, e.Fields...)
	out = append(out, e.Args...)
	out = append(out, e.CallArg...)
	out = append(out, e.FormatArgs...)
	return out
}
