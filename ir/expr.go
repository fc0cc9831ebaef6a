package ir

import "math/big"

// ExprKind tags the closed sum of expression node shapes. constfold,
// vecslice and undefvar switch over this (constfold leaves unlisted kinds
// unfolded through a default case); adding a variant means auditing them.
type ExprKind uint8

const (
	ExprAdd ExprKind = iota
	ExprSubtract
	ExprMultiply
	ExprDivide
	ExprModulo
	ExprPower

	ExprBitAnd
	ExprBitOr
	ExprBitXor
	ExprComplement
	ExprShiftLeft
	ExprShiftRight

	ExprMore
	ExprLess
	ExprMoreEqual
	ExprLessEqual
	ExprEqual
	ExprNotEqual

	ExprZeroExt
	ExprSignExt
	ExprTrunc

	ExprUnaryMinus
	ExprNot
	ExprTernary

	ExprVariable
	ExprFunctionArg

	ExprBoolLiteral
	ExprBytesLiteral
	ExprNumberLiteral
	ExprCodeLiteral

	ExprStructLiteral
	ExprArrayLiteral
	ExprConstArrayLiteral
	ExprAllocDynamicArray

	ExprSubscriptFixedArray
	ExprSubscriptDynamicArray
	ExprDynamicArrayLength
	ExprSubscriptStorageBytes
	ExprStorageBytesLength
	ExprStructMember

	ExprStringCompare
	ExprStringConcat

	ExprBuiltin
	ExprKeccak256Aggregate // variadic, type-aware hashing form

	ExprInternalCall
	ExprExternalFunction

	ExprLoad
	ExprStorageLoad

	ExprCast
	ExprBytesCast

	ExprFormatString

	ExprUndefined
	ExprReturnData
)

// Builtin is the closed set of compiler builtins that can appear in a
// Builtin expression. Only the hash builtins are given fold-time
// significance by pass/constfold; the rest are opaque to the middle end.
type Builtin uint8

const (
	BuiltinKeccak256 Builtin = iota
	BuiltinRipemd160
	BuiltinSha256
	BuiltinBlake2_128
	BuiltinBlake2_256
	BuiltinOther
)

// CallTarget is the closed sum of ways an Expr or Instr can name a callee.
type CallTarget struct {
	Static      int    // CFG index, valid when Kind == CallStatic
	HostName    string // valid when Kind == CallHost
	BuiltinFunc int    // function-index, valid when Kind == CallBuiltin
	Dynamic     *Expr  // valid when Kind == CallDynamic
	Kind        CallTargetKind
}

type CallTargetKind uint8

const (
	CallStatic CallTargetKind = iota
	CallDynamic
	CallBuiltin
	CallHost
)

// Expr is the closed sum of expression nodes. Expressions are immutable:
// passes build new Expr values rather than mutating one in place (spec.md
// §3 Lifecycles; §9 "Immutable expressions, replaceable instructions").
//
// Only the fields relevant to Kind are populated; the rest are zero values.
type Expr struct {
	Kind ExprKind
	Loc  Loc
	Type Type

	// Binary/unary arithmetic, bitwise, comparison, cast operators.
	Left  *Expr
	Right *Expr // nil for unary kinds

	Signed bool // ShiftRight signedness

	// ExprVariable / ExprFunctionArg
	Slot int

	// Literals
	BoolValue   bool
	BytesValue  []byte
	NumberValue *big.Int
	ContractIdx int // ExprCodeLiteral

	// Aggregates
	Fields []Expr // StructLiteral fields, ArrayLiteral/ConstArrayLiteral elements, Keccak256Aggregate args
	Dims   []Dim  // AllocDynamicArray dimensions
	Init   []byte // AllocDynamicArray literal byte-initializer, nil if none

	// Indexing
	Array  *Expr // subscript/length base
	Index  *Expr // subscript index
	Member int   // struct field index

	// StringCompare/StringConcat
	StrLeft  *Expr
	StrRight *Expr

	// Builtin
	BuiltinKind Builtin
	Args        []Expr
	ResultTypes []Type

	// Calls
	Target  CallTarget
	CallArg []Expr

	// Load/StorageLoad
	Addr *Expr

	// ExternalFunction
	ExtSelector [4]byte
	ExtAddress  *Expr

	// FormatString
	FormatParts []string
	FormatArgs  []Expr
}

// String returns the lower_snake_case name of k, used for diagnostic dumps
// and fixture snapshots — never parsed back, purely for human/JSON
// readability.
func (k ExprKind) String() string {
	switch k {
	case ExprAdd:
		return "add"
	case ExprSubtract:
		return "subtract"
	case ExprMultiply:
		return "multiply"
	case ExprDivide:
		return "divide"
	case ExprModulo:
		return "modulo"
	case ExprPower:
		return "power"
	case ExprBitAnd:
		return "bit_and"
	case ExprBitOr:
		return "bit_or"
	case ExprBitXor:
		return "bit_xor"
	case ExprComplement:
		return "complement"
	case ExprShiftLeft:
		return "shift_left"
	case ExprShiftRight:
		return "shift_right"
	case ExprMore:
		return "more"
	case ExprLess:
		return "less"
	case ExprMoreEqual:
		return "more_equal"
	case ExprLessEqual:
		return "less_equal"
	case ExprEqual:
		return "equal"
	case ExprNotEqual:
		return "not_equal"
	case ExprZeroExt:
		return "zero_ext"
	case ExprSignExt:
		return "sign_ext"
	case ExprTrunc:
		return "trunc"
	case ExprUnaryMinus:
		return "unary_minus"
	case ExprNot:
		return "not"
	case ExprTernary:
		return "ternary"
	case ExprVariable:
		return "variable"
	case ExprFunctionArg:
		return "function_arg"
	case ExprBoolLiteral:
		return "bool_literal"
	case ExprBytesLiteral:
		return "bytes_literal"
	case ExprNumberLiteral:
		return "number_literal"
	case ExprCodeLiteral:
		return "code_literal"
	case ExprStructLiteral:
		return "struct_literal"
	case ExprArrayLiteral:
		return "array_literal"
	case ExprConstArrayLiteral:
		return "const_array_literal"
	case ExprAllocDynamicArray:
		return "alloc_dynamic_array"
	case ExprSubscriptFixedArray:
		return "subscript_fixed_array"
	case ExprSubscriptDynamicArray:
		return "subscript_dynamic_array"
	case ExprDynamicArrayLength:
		return "dynamic_array_length"
	case ExprSubscriptStorageBytes:
		return "subscript_storage_bytes"
	case ExprStorageBytesLength:
		return "storage_bytes_length"
	case ExprStructMember:
		return "struct_member"
	case ExprStringCompare:
		return "string_compare"
	case ExprStringConcat:
		return "string_concat"
	case ExprBuiltin:
		return "builtin"
	case ExprKeccak256Aggregate:
		return "keccak256_aggregate"
	case ExprInternalCall:
		return "internal_call"
	case ExprExternalFunction:
		return "external_function"
	case ExprLoad:
		return "load"
	case ExprStorageLoad:
		return "storage_load"
	case ExprCast:
		return "cast"
	case ExprBytesCast:
		return "bytes_cast"
	case ExprFormatString:
		return "format_string"
	case ExprUndefined:
		return "undefined"
	case ExprReturnData:
		return "return_data"
	default:
		return "<unknown expr>"
	}
}

// IsUndefined reports whether e is the placeholder expression written by
// the front end for a not-yet-assigned variable slot. Legal only before
// pass/undefvar has run to completion (spec.md §3 Invariants).
func (e Expr) IsUndefined() bool {
	return e.Kind == ExprUndefined
}

// IsLiteral reports whether e is one of the literal kinds that
// pass/constfold treats as a fully reduced, substitutable value.
func (e Expr) IsLiteral() bool {
	switch e.Kind {
	case ExprBoolLiteral, ExprBytesLiteral, ExprNumberLiteral, ExprCodeLiteral:
		return true
	default:
		return false
	}
}
