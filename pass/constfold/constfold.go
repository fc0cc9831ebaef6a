// Package constfold recursively folds compile-time-constant subexpressions
// of a CFG, narrowing results into their destination type and reporting
// diagnostics for fold-time range violations (spec.md §4.2).
package constfold

import (
	"fmt"
	"math/big"

	"solen.dev/compiler/cfg"
	"solen.dev/compiler/hash"
	"solen.dev/compiler/ir"
	"solen.dev/compiler/namespace"
	"solen.dev/compiler/pass/reachingdefs"
)

// Run folds every expression reachable from c's instructions in place and
// returns the diagnostics raised along the way (shift/power out of range,
// divide/modulo by zero). Folding never removes an instruction; a
// BranchCond whose condition folds to a bool literal is replaced wholesale
// by an unconditional Branch to the taken block, which drops the edge to
// the other block.
func Run(c *cfg.CFG, hp hash.Provider) []namespace.Diagnostic {
	var diags []namespace.Diagnostic

	for blockNo := range c.Blocks {
		b := &c.Blocks[blockNo]
		vars := b.Defs.Clone()

		for instrNo := range b.Instrs {
			cur := cfg.Def{Block: blockNo, Instr: instrNo}
			f := folder{vars: vars, diags: &diags, pos: cur, c: c, hp: hp}
			f.instr(&b.Instrs[instrNo])

			if instrNo < len(b.Transfers) {
				reachingdefs.ApplyTransfers(b.Transfers[instrNo], vars)
			}
		}
	}

	return diags
}

type folder struct {
	vars  cfg.VarDefs
	diags *[]namespace.Diagnostic
	pos   cfg.Def
	c     *cfg.CFG
	hp    hash.Provider
}

func (f *folder) instr(in *cfg.Instr) {
	switch in.Kind {
	case cfg.InstrSet:
		in.Expr, _ = f.expr(in.Expr)
	case cfg.InstrCall:
		for i := range in.Args {
			in.Args[i], _ = f.expr(in.Args[i])
		}
	case cfg.InstrReturn:
		for i := range in.ReturnValues {
			in.ReturnValues[i], _ = f.expr(in.ReturnValues[i])
		}
	case cfg.InstrBranchCond:
		cond, _ := f.expr(in.Cond)
		if cond.Kind == ir.ExprBoolLiteral {
			target := in.FalseBlock
			if cond.BoolValue {
				target = in.TrueBlock
			}
			*in = cfg.Instr{Kind: cfg.InstrBranch, Loc: in.Loc, BranchBlock: target}
		} else {
			in.Cond = cond
		}
	case cfg.InstrStore:
		in.Dest, _ = f.expr(in.Dest)
	case cfg.InstrAssertFailure:
		if in.AssertExpr != nil {
			e, _ := f.expr(*in.AssertExpr)
			in.AssertExpr = &e
		}
	case cfg.InstrPrint:
		in.PrintExpr, _ = f.expr(in.PrintExpr)
	case cfg.InstrClearStorage:
		in.Storage, _ = f.expr(in.Storage)
	case cfg.InstrSetStorage:
		in.Storage, _ = f.expr(in.Storage)
		in.Value, _ = f.expr(in.Value)
	case cfg.InstrSetStorageBytes:
		in.Storage, _ = f.expr(in.Storage)
		in.Value, _ = f.expr(in.Value)
		in.Offset, _ = f.expr(in.Offset)
	case cfg.InstrPushMemory:
		in.ArrayExpr, _ = f.expr(in.ArrayExpr)
	case cfg.InstrConstructor:
		for i := range in.ConstructArgs {
			in.ConstructArgs[i], _ = f.expr(in.ConstructArgs[i])
		}
		if in.ConstructValue != nil {
			e, _ := f.expr(*in.ConstructValue)
			in.ConstructValue = &e
		}
		in.Gas, _ = f.expr(in.Gas)
		if in.Salt != nil {
			e, _ := f.expr(*in.Salt)
			in.Salt = &e
		}
	case cfg.InstrExternalCall:
		for i := range in.Args {
			in.Args[i], _ = f.expr(in.Args[i])
		}
		in.CallValue, _ = f.expr(in.CallValue)
		in.CallGas, _ = f.expr(in.CallGas)
		in.Payload, _ = f.expr(in.Payload)
		in.Address, _ = f.expr(in.Address)
	case cfg.InstrAbiDecode:
		in.Data, _ = f.expr(in.Data)
	case cfg.InstrAbiEncodeVector:
		for i := range in.Args {
			in.Args[i], _ = f.expr(in.Args[i])
		}
	case cfg.InstrSelfDestruct:
		in.Beneficiary, _ = f.expr(in.Beneficiary)
	case cfg.InstrEmitEvent:
		for i := range in.EventArgs {
			in.EventArgs[i], _ = f.expr(in.EventArgs[i])
		}
	}
}

// expr recursively folds e, returning the rewritten expression and whether
// it is pure: a value that does not depend on context (storage, external
// calls, runtime-only data) and so is safe to substitute at any later use
// site (spec.md §4.2 "Purity").
func (f *folder) expr(e ir.Expr) (ir.Expr, bool) {
	switch e.Kind {
	case ir.ExprAdd:
		return f.arith(e, func(a, b *big.Int) *big.Int { return new(big.Int).Add(a, b) })
	case ir.ExprSubtract:
		return f.arith(e, func(a, b *big.Int) *big.Int { return new(big.Int).Sub(a, b) })
	case ir.ExprMultiply:
		return f.arith(e, func(a, b *big.Int) *big.Int { return new(big.Int).Mul(a, b) })
	case ir.ExprBitAnd:
		return f.arith(e, func(a, b *big.Int) *big.Int { return new(big.Int).And(a, b) })
	case ir.ExprBitOr:
		return f.arith(e, func(a, b *big.Int) *big.Int { return new(big.Int).Or(a, b) })
	case ir.ExprBitXor:
		return f.arith(e, func(a, b *big.Int) *big.Int { return new(big.Int).Xor(a, b) })

	case ir.ExprShiftLeft:
		return f.shift(e, true)
	case ir.ExprShiftRight:
		return f.shift(e, false)
	case ir.ExprPower:
		return f.power(e)
	case ir.ExprDivide:
		return f.divmod(e, "divide by zero", func(a, b *big.Int) *big.Int { return new(big.Int).Quo(a, b) })
	case ir.ExprModulo:
		return f.divmod(e, "modulo by zero", func(a, b *big.Int) *big.Int { return new(big.Int).Rem(a, b) })

	case ir.ExprZeroExt, ir.ExprSignExt:
		inner, pure := f.expr(*e.Left)
		if inner.Kind == ir.ExprNumberLiteral {
			return ir.Expr{Kind: ir.ExprNumberLiteral, Loc: e.Loc, Type: e.Type, NumberValue: inner.NumberValue}, true
		}
		return ir.Expr{Kind: e.Kind, Loc: e.Loc, Type: e.Type, Left: &inner}, pure

	case ir.ExprTrunc:
		inner, pure := f.expr(*e.Left)
		if inner.Kind == ir.ExprNumberLiteral {
			return narrow(e.Loc, e.Type, inner.NumberValue), true
		}
		return ir.Expr{Kind: ir.ExprTrunc, Loc: e.Loc, Type: e.Type, Left: &inner}, pure

	case ir.ExprComplement:
		inner, pure := f.expr(*e.Left)
		if inner.Kind == ir.ExprNumberLiteral {
			return narrow(e.Loc, e.Type, new(big.Int).Not(inner.NumberValue)), true
		}
		return ir.Expr{Kind: ir.ExprComplement, Loc: e.Loc, Type: e.Type, Left: &inner}, pure

	case ir.ExprUnaryMinus:
		inner, pure := f.expr(*e.Left)
		if inner.Kind == ir.ExprNumberLiteral {
			return narrow(e.Loc, e.Type, new(big.Int).Neg(inner.NumberValue)), true
		}
		return ir.Expr{Kind: ir.ExprUnaryMinus, Loc: e.Loc, Type: e.Type, Left: &inner}, pure

	case ir.ExprVariable:
		return f.variable(e)

	case ir.ExprMore, ir.ExprLess, ir.ExprMoreEqual, ir.ExprLessEqual, ir.ExprEqual, ir.ExprNotEqual:
		left, _ := f.expr(*e.Left)
		right, _ := f.expr(*e.Right)
		return ir.Expr{Kind: e.Kind, Loc: e.Loc, Type: e.Type, Left: &left, Right: &right}, false

	case ir.ExprTernary:
		// Ternary carries three operands: condition in Left, the
		// true-branch in Right, the false-branch as Args[0].
		cond, _ := f.expr(*e.Left)
		trueBranch, _ := f.expr(*e.Right)
		falseBranch, _ := f.expr(e.Args[0])
		return ir.Expr{Kind: ir.ExprTernary, Loc: e.Loc, Type: e.Type, Left: &cond, Right: &trueBranch, Args: []ir.Expr{falseBranch}}, false

	case ir.ExprNot:
		inner, pure := f.expr(*e.Left)
		if inner.Kind == ir.ExprBoolLiteral {
			return ir.Expr{Kind: ir.ExprBoolLiteral, Loc: e.Loc, Type: e.Type, BoolValue: !inner.BoolValue}, true
		}
		return ir.Expr{Kind: ir.ExprNot, Loc: e.Loc, Type: e.Type, Left: &inner}, pure

	case ir.ExprSubscriptFixedArray, ir.ExprSubscriptDynamicArray:
		array, _ := f.expr(*e.Array)
		index, _ := f.expr(*e.Index)
		return ir.Expr{Kind: e.Kind, Loc: e.Loc, Type: e.Type, Array: &array, Index: &index}, false

	case ir.ExprDynamicArrayLength, ir.ExprStorageBytesLength:
		array, _ := f.expr(*e.Array)
		return ir.Expr{Kind: e.Kind, Loc: e.Loc, Type: e.Type, Array: &array}, false

	case ir.ExprSubscriptStorageBytes:
		array, _ := f.expr(*e.Array)
		index, _ := f.expr(*e.Index)
		return ir.Expr{Kind: e.Kind, Loc: e.Loc, Type: e.Type, Array: &array, Index: &index}, false

	case ir.ExprStructMember:
		strct, _ := f.expr(*e.Left)
		return ir.Expr{Kind: ir.ExprStructMember, Loc: e.Loc, Type: e.Type, Left: &strct, Member: e.Member}, false

	case ir.ExprStringCompare:
		left, leftConst := f.expr(*e.StrLeft)
		right, rightConst := f.expr(*e.StrRight)
		if leftConst && rightConst && left.Kind == ir.ExprBytesLiteral && right.Kind == ir.ExprBytesLiteral {
			eq := string(left.BytesValue) == string(right.BytesValue)
			return ir.Expr{Kind: ir.ExprBoolLiteral, Loc: e.Loc, Type: e.Type, BoolValue: eq}, true
		}
		return ir.Expr{Kind: ir.ExprStringCompare, Loc: e.Loc, Type: e.Type, StrLeft: &left, StrRight: &right}, false

	case ir.ExprStringConcat:
		left, leftConst := f.expr(*e.StrLeft)
		right, rightConst := f.expr(*e.StrRight)
		if leftConst && rightConst && left.Kind == ir.ExprBytesLiteral && right.Kind == ir.ExprBytesLiteral {
			bs := make([]byte, 0, len(left.BytesValue)+len(right.BytesValue))
			bs = append(bs, left.BytesValue...)
			bs = append(bs, right.BytesValue...)
			return ir.Expr{Kind: ir.ExprBytesLiteral, Loc: e.Loc, Type: e.Type, BytesValue: bs}, true
		}
		return ir.Expr{Kind: ir.ExprStringConcat, Loc: e.Loc, Type: e.Type, StrLeft: &left, StrRight: &right}, false

	case ir.ExprBuiltin:
		return f.builtin(e)
	case ir.ExprKeccak256Aggregate:
		return f.keccakAggregate(e)

	case ir.ExprExternalFunction:
		addr, pure := f.expr(*e.ExtAddress)
		return ir.Expr{Kind: ir.ExprExternalFunction, Loc: e.Loc, Type: e.Type, ExtSelector: e.ExtSelector, ExtAddress: &addr}, pure

	case ir.ExprBoolLiteral, ir.ExprBytesLiteral, ir.ExprNumberLiteral, ir.ExprCodeLiteral, ir.ExprFunctionArg:
		return e, true

	case ir.ExprAllocDynamicArray, ir.ExprReturnData, ir.ExprFormatString, ir.ExprInternalCall:
		return e, false

	default:
		return e, false
	}
}

// arith folds a strict binary arithmetic/bitwise operator when both
// operands reduce to number literals, narrowing the result into e.Type;
// otherwise it rebuilds the node with the operands folded and purity the
// conjunction of both sides' purity.
func (f *folder) arith(e ir.Expr, op func(a, b *big.Int) *big.Int) (ir.Expr, bool) {
	left, leftPure := f.expr(*e.Left)
	right, rightPure := f.expr(*e.Right)

	if left.Kind == ir.ExprNumberLiteral && right.Kind == ir.ExprNumberLiteral {
		return narrow(e.Loc, e.Type, op(left.NumberValue, right.NumberValue)), true
	}
	return ir.Expr{Kind: e.Kind, Loc: e.Loc, Type: e.Type, Left: &left, Right: &right}, leftPure && rightPure
}

// shift folds ShiftLeft/ShiftRight, reporting a range diagnostic (and
// leaving the expression unfolded) when the shift amount is negative or
// greater than or equal to the left operand's bit length.
func (f *folder) shift(e ir.Expr, isLeft bool) (ir.Expr, bool) {
	left, leftPure := f.expr(*e.Left)
	right, rightPure := f.expr(*e.Right)

	if left.Kind == ir.ExprNumberLiteral && right.Kind == ir.ExprNumberLiteral {
		shiftAmt := right.NumberValue
		bits := int64(left.NumberValue.BitLen())
		if shiftAmt.Sign() < 0 || shiftAmt.Cmp(big.NewInt(bits)) >= 0 {
			dir := "left"
			if !isLeft {
				dir = "right"
			}
			*f.diags = append(*f.diags, namespace.Diagnostic{
				Level:   namespace.LevelError,
				Kind:    namespace.KindShiftOutOfRange,
				Loc:     e.Loc,
				Message: fmt.Sprintf("%s shift by %s is not possible", dir, shiftAmt.String()),
			})
		} else {
			n := uint(shiftAmt.Uint64())
			var result *big.Int
			if isLeft {
				result = new(big.Int).Lsh(left.NumberValue, n)
			} else {
				result = new(big.Int).Rsh(left.NumberValue, n)
			}
			return narrow(e.Loc, e.Type, result), true
		}
	}
	return ir.Expr{Kind: e.Kind, Loc: e.Loc, Type: e.Type, Left: &left, Right: &right, Signed: e.Signed}, leftPure && rightPure
}

// power folds Power, reporting a range diagnostic when the exponent is
// negative or does not fit a uint32 (mirroring original_source's u32::MAX
// bound on the exponent).
func (f *folder) power(e ir.Expr) (ir.Expr, bool) {
	left, leftPure := f.expr(*e.Left)
	right, rightPure := f.expr(*e.Right)

	if left.Kind == ir.ExprNumberLiteral && right.Kind == ir.ExprNumberLiteral {
		exp := right.NumberValue
		if exp.Sign() < 0 || !exp.IsUint64() || exp.Uint64() >= 1<<32 {
			*f.diags = append(*f.diags, namespace.Diagnostic{
				Level:   namespace.LevelError,
				Kind:    namespace.KindPowerOutOfRange,
				Loc:     e.Loc,
				Message: fmt.Sprintf("power %s not possible", exp.String()),
			})
		} else {
			result := new(big.Int).Exp(left.NumberValue, exp, nil)
			return narrow(e.Loc, e.Type, result), true
		}
	}
	return ir.Expr{Kind: ir.ExprPower, Loc: e.Loc, Type: e.Type, Left: &left, Right: &right}, leftPure && rightPure
}

// divmod folds Divide/Modulo, reporting a divide/modulo-by-zero diagnostic
// when the divisor literal is zero. The expression is always rebuilt
// unfolded on a zero divisor, even though the diagnostic is an error —
// emission never proceeds once HasErrors is true, so the unfolded node
// never reaches a backend.
func (f *folder) divmod(e ir.Expr, zeroMsg string, op func(a, b *big.Int) *big.Int) (ir.Expr, bool) {
	left, leftPure := f.expr(*e.Left)
	right, rightPure := f.expr(*e.Right)

	if right.Kind == ir.ExprNumberLiteral {
		if right.NumberValue.Sign() == 0 {
			*f.diags = append(*f.diags, namespace.Diagnostic{
				Level:   namespace.LevelError,
				Kind:    namespace.KindDivideByZero,
				Loc:     e.Loc,
				Message: zeroMsg,
			})
		} else if left.Kind == ir.ExprNumberLiteral {
			return narrow(e.Loc, e.Type, op(left.NumberValue, right.NumberValue)), true
		}
	}
	return ir.Expr{Kind: e.Kind, Loc: e.Loc, Type: e.Type, Left: &left, Right: &right}, leftPure && rightPure
}

// variable substitutes a Variable read by the expression of its single
// reaching definition when exactly one reaches this program point and
// that definition's expression folds to a pure value. Ref/StorageRef
// typed reads are never substituted: a reference denotes an aliasable
// location, not a value (spec.md §4.2 "Variable substitution").
func (f *folder) variable(e ir.Expr) (ir.Expr, bool) {
	if e.Type.IsReference() {
		return e, false
	}

	defs, ok := f.vars[e.Slot]
	if ok && len(defs) == 1 {
		var def cfg.Def
		for d := range defs {
			def = d
		}
		if defExpr, ok := f.definitionExpr(def); ok {
			folded, pure := f.expr(defExpr)
			if pure {
				return folded, true
			}
		}
	}
	return e, false
}

// definitionExpr returns the right-hand-side expression of def, if def
// names a Set instruction (the only instruction kind that defines a slot
// with a substitutable expression).
func (f *folder) definitionExpr(def cfg.Def) (ir.Expr, bool) {
	if def.Block < 0 || def.Block >= len(f.c.Blocks) {
		return ir.Expr{}, false
	}
	instrs := f.c.Blocks[def.Block].Instrs
	if def.Instr < 0 || def.Instr >= len(instrs) {
		return ir.Expr{}, false
	}
	in := instrs[def.Instr]
	if in.Kind != cfg.InstrSet {
		return ir.Expr{}, false
	}
	return in.Expr, true
}

// builtin folds the single-argument hash builtins (Keccak256, Ripemd160,
// Sha256, Blake2_128, Blake2_256) when their argument reduces to a
// compile-time byte buffer, replacing the call with its precomputed
// digest (spec.md §4.2 "Hash precomputation").
func (f *folder) builtin(e ir.Expr) (ir.Expr, bool) {
	arg, _ := f.expr(e.Args[0])

	bs, ok := literalBytes(arg)
	if !ok {
		return ir.Expr{Kind: ir.ExprBuiltin, Loc: e.Loc, Type: e.Type, BuiltinKind: e.BuiltinKind, Args: []ir.Expr{arg}, ResultTypes: e.ResultTypes}, false
	}

	var digest []byte
	switch e.BuiltinKind {
	case ir.BuiltinKeccak256:
		digest = f.hp.Keccak256(bs)
	case ir.BuiltinRipemd160:
		digest = f.hp.Ripemd160(bs)
	case ir.BuiltinSha256:
		digest = f.hp.Sha256(bs)
	case ir.BuiltinBlake2_128:
		digest = f.hp.Blake2_128(bs)
	case ir.BuiltinBlake2_256:
		digest = f.hp.Blake2_256(bs)
	default:
		return ir.Expr{Kind: ir.ExprBuiltin, Loc: e.Loc, Type: e.Type, BuiltinKind: e.BuiltinKind, Args: []ir.Expr{arg}, ResultTypes: e.ResultTypes}, false
	}

	resultType := e.Type
	if len(e.ResultTypes) > 0 {
		resultType = e.ResultTypes[0]
	}
	return ir.Expr{Kind: ir.ExprBytesLiteral, Loc: e.Loc, Type: resultType, BytesValue: digest}, true
}

// keccakAggregate folds the variadic hash-aggregation form: every argument
// is serialized per its type (bytes as-is, numbers per serializeNumber)
// and concatenated into one Keccak256 message, only when every argument
// reduces to a compile-time value. The digest is byte-reversed before
// being wrapped in a BytesLiteral, matching original_source's output
// convention for this form.
func (f *folder) keccakAggregate(e ir.Expr) (ir.Expr, bool) {
	allConstant := true
	var msg []byte
	folded := make([]ir.Expr, len(e.Fields))

	for i, arg := range e.Fields {
		v, _ := f.expr(arg)
		folded[i] = v

		if !allConstant {
			continue
		}
		if bs, ok := literalBytes(v); ok {
			msg = append(msg, bs...)
		} else if v.Kind == ir.ExprNumberLiteral {
			msg = append(msg, serializeNumber(v.Type, v.NumberValue)...)
		} else {
			allConstant = false
		}
	}

	if !allConstant {
		return ir.Expr{Kind: ir.ExprKeccak256Aggregate, Loc: e.Loc, Type: e.Type, Fields: folded}, false
	}

	digest := f.hp.Keccak256(msg)
	reversed := make([]byte, len(digest))
	for i, b := range digest {
		reversed[len(digest)-1-i] = b
	}
	return ir.Expr{Kind: ir.ExprBytesLiteral, Loc: e.Loc, Type: e.Type, BytesValue: reversed}, true
}

// literalBytes returns the raw bytes of a folded AllocDynamicArray literal
// initializer or a BytesLiteral, the two shapes hash folding treats as a
// compile-time byte buffer.
func literalBytes(e ir.Expr) ([]byte, bool) {
	switch e.Kind {
	case ir.ExprAllocDynamicArray:
		if e.Init != nil {
			return e.Init, true
		}
	case ir.ExprBytesLiteral:
		return e.BytesValue, true
	}
	return nil, false
}
