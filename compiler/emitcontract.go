package compiler

import (
	"fmt"

	"solen.dev/compiler/cfg"
	"solen.dev/compiler/ir"
	"solen.dev/compiler/namespace"
)

// CheckEmitContract verifies the frozen CFG shape and invariants the back
// end is entitled to assume (spec.md §4.5 "Emit Contract"). It is run by
// the driver after every pass for c has completed, immediately before a
// CFG could be handed to an Emitter. A violation here means a pass (or
// the front end) produced a malformed CFG — a compiler bug, not a user
// error (spec.md §7 "Invariant violations inside passes").
func CheckEmitContract(ns *namespace.Namespace, c *cfg.CFG) []error {
	var errs []error

	if len(c.Blocks) == 0 {
		return []error{fmt.Errorf("function %q has no blocks", c.Name)}
	}

	fn, err := ns.Function(c.FunctionIdx)
	if err != nil {
		errs = append(errs, err)
		fn = nil
	}

	for _, p := range c.Params {
		if !ns.ResolveType(p.Type) {
			errs = append(errs, fmt.Errorf("%s: parameter %q type %s not resolvable", c.Name, p.Name, p.Type))
		}
	}
	for _, r := range c.Returns {
		if !ns.ResolveType(r.Type) {
			errs = append(errs, fmt.Errorf("%s: return %q type %s not resolvable", c.Name, r.Name, r.Type))
		}
	}

	for blockNo := range c.Blocks {
		b := &c.Blocks[blockNo]
		if len(b.Instrs) == 0 {
			errs = append(errs, fmt.Errorf("%s: block %d has no instructions", c.Name, blockNo))
			continue
		}
		for i, in := range b.Instrs {
			isLast := i == len(b.Instrs)-1
			if in.Kind.IsTerminator() != isLast {
				errs = append(errs, fmt.Errorf("%s: block %d instruction %d terminator-position mismatch", c.Name, blockNo, i))
			}
		}

		for _, succ := range b.Successors() {
			if succ < 0 || succ >= len(c.Blocks) {
				errs = append(errs, fmt.Errorf("%s: block %d has out-of-range successor %d", c.Name, blockNo, succ))
			}
		}

		for i := range b.Instrs {
			in := &b.Instrs[i]
			checkInstrTypes(ns, c, blockNo, i, in, &errs)
		}

		if fn != nil {
			checkSlotsResolvable(ns, fn.Symtable, b, c, blockNo, &errs)
		}
	}

	return errs
}

// checkInstrTypes validates the instruction-level part of invariants 5 and
// 6: a Constructor must name a contract in the namespace, an AbiDecode's
// types and exception block must resolve, and a storage instruction's type
// must resolve. ExternalCall instructions and a Constructor's
// value/gas/salt operands are not checked.
func checkInstrTypes(ns *namespace.Namespace, c *cfg.CFG, blockNo, instrNo int, in *cfg.Instr, errs *[]error) {
	switch in.Kind {
	case cfg.InstrConstructor:
		if in.ContractIdx < 0 || in.ContractIdx >= len(ns.Contracts) {
			*errs = append(*errs, fmt.Errorf("%s: block %d instr %d constructs unresolvable contract %d", c.Name, blockNo, instrNo, in.ContractIdx))
		}
	case cfg.InstrAbiDecode:
		for _, t := range in.DecodeTypes {
			if !ns.ResolveType(t) {
				*errs = append(*errs, fmt.Errorf("%s: block %d instr %d decodes unresolvable type %s", c.Name, blockNo, instrNo, t))
			}
		}
		if in.ExceptionBlock != nil && (*in.ExceptionBlock < 0 || *in.ExceptionBlock >= len(c.Blocks)) {
			*errs = append(*errs, fmt.Errorf("%s: block %d instr %d has out-of-range exception block %d", c.Name, blockNo, instrNo, *in.ExceptionBlock))
		}
	case cfg.InstrSetStorage, cfg.InstrSetStorageBytes, cfg.InstrClearStorage:
		if !ns.ResolveType(in.StorageType) {
			*errs = append(*errs, fmt.Errorf("%s: block %d instr %d storage type %s not resolvable", c.Name, blockNo, instrNo, in.StorageType))
		}
	}
}

// checkSlotsResolvable validates invariant 3: every Variable expression's
// slot must have at least one definition site reaching its instruction,
// i.e. the block-entry defs extended by the transfers of the instructions
// before it. Slots declared as parameters are exempt.
func checkSlotsResolvable(ns *namespace.Namespace, st *namespace.Symtable, b *cfg.Block, c *cfg.CFG, blockNo int, errs *[]error) {
	vars := b.Defs.Clone()
	for instrNo := range b.Instrs {
		for _, e := range walkExprs(&b.Instrs[instrNo]) {
			checkVarResolvable(e, vars, st, c, blockNo, instrNo, errs)
		}
		if instrNo < len(b.Transfers) {
			applyBasic(b.Transfers[instrNo], vars)
		}
	}
}

func checkVarResolvable(e ir.Expr, vars cfg.VarDefs, st *namespace.Symtable, c *cfg.CFG, blockNo, instrNo int, errs *[]error) {
	if e.Kind == ir.ExprVariable {
		v := st.Get(e.Slot)
		if v == nil {
			*errs = append(*errs, fmt.Errorf("%s: block %d instr %d references undeclared slot %d", c.Name, blockNo, instrNo, e.Slot))
		} else if !v.Type.Equal(e.Type) {
			*errs = append(*errs, fmt.Errorf("%s: block %d instr %d slot %d type mismatch: declared %s, used %s", c.Name, blockNo, instrNo, e.Slot, v.Type, e.Type))
		}
		if _, ok := vars[e.Slot]; !ok && (v == nil || v.Usage != namespace.UsageParameter) {
			*errs = append(*errs, fmt.Errorf("%s: block %d instr %d reads slot %d with no reaching definition", c.Name, blockNo, instrNo, e.Slot))
		}
	}
	for _, child := range subExprs(e) {
		checkVarResolvable(child, vars, st, c, blockNo, instrNo, errs)
	}
}

func applyBasic(transfers []cfg.Transfer, vars cfg.VarDefs) {
	for _, t := range transfers {
		switch t.Kind {
		case cfg.TransferKill:
			delete(vars, t.Slot)
		case cfg.TransferGen:
			defs, ok := vars[t.Slot]
			if !ok {
				defs = make(cfg.DefSet, 1)
				vars[t.Slot] = defs
			}
			defs[t.Def] = struct{}{}
		}
	}
}

// walkExprs returns the top-level expression operands an instruction
// carries, reusing the same enumeration undefvar.instrExprs needs —
// duplicated here rather than exported across package boundaries, since
// the two checks are read at different points in the pipeline and expect
// different things from a miss (undefvar diagnoses; this invariant
// checker panics-by-error).
func walkExprs(in *cfg.Instr) []ir.Expr {
	var out []ir.Expr
	switch in.Kind {
	case cfg.InstrSet:
		out = append(out, in.Expr)
	case cfg.InstrStore:
		out = append(out, in.Dest)
	case cfg.InstrCall:
		out = append(out, in.Args...)
	case cfg.InstrReturn:
		out = append(out, in.ReturnValues...)
	case cfg.InstrBranchCond, cfg.InstrSwitch:
		out = append(out, in.Cond)
	case cfg.InstrAssertFailure:
		if in.AssertExpr != nil {
			out = append(out, *in.AssertExpr)
		}
	case cfg.InstrPrint:
		out = append(out, in.PrintExpr)
	case cfg.InstrEmitEvent:
		out = append(out, in.EventArgs...)
	case cfg.InstrAbiEncodeVector:
		out = append(out, in.Args...)
	case cfg.InstrAbiDecode:
		out = append(out, in.Data)
	case cfg.InstrSelfDestruct:
		out = append(out, in.Beneficiary)
	case cfg.InstrSetStorage:
		out = append(out, in.Storage, in.Value)
	case cfg.InstrSetStorageBytes:
		out = append(out, in.Storage, in.Value, in.Offset)
	case cfg.InstrClearStorage:
		out = append(out, in.Storage)
	case cfg.InstrPushMemory, cfg.InstrPopMemory:
		out = append(out, in.ArrayExpr)
	case cfg.InstrConstructor:
		out = append(out, in.ConstructArgs...)
		out = append(out, in.Gas)
		if in.ConstructValue != nil {
			out = append(out, *in.ConstructValue)
		}
		if in.Salt != nil {
			out = append(out, *in.Salt)
		}
	case cfg.InstrExternalCall:
		out = append(out, in.Args...)
		out = append(out, in.Address, in.Payload, in.CallValue, in.CallGas)
	}
	return out
}

func subExprs(e ir.Expr) []ir.Expr {
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
