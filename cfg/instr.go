// Package cfg defines the per-function control flow graph: basic blocks of
// typed instructions over the ir expression tree.
package cfg

import "solen.dev/compiler/ir"

// InstrKind is the closed sum of instruction shapes. Kinds below
// InstrBranch are non-terminators; InstrBranch and beyond are terminators.
// Every BasicBlock's instruction list ends with exactly one terminator
// (spec.md §3 Invariants).
type InstrKind uint8

const (
	InstrSet InstrKind = iota
	InstrStore
	InstrCall
	InstrClearStorage
	InstrSetStorage
	InstrSetStorageBytes
	InstrPushMemory
	InstrPopMemory
	InstrPushStorage
	InstrPopStorage
	InstrConstructor
	InstrExternalCall
	InstrAbiEncodeVector
	InstrAbiDecode
	InstrEmitEvent
	InstrSelfDestruct
	InstrPrint
	InstrAssertFailure
	InstrNop

	// Terminators. A block's last instruction is always one of these.
	InstrBranch
	InstrBranchCond
	InstrSwitch
	InstrReturn
	InstrUnreachable
)

// IsTerminator reports whether k ends a basic block.
func (k InstrKind) IsTerminator() bool {
	return k >= InstrBranch
}

func (k InstrKind) String() string {
	switch k {
	case InstrSet:
		return "set"
	case InstrStore:
		return "store"
	case InstrCall:
		return "call"
	case InstrClearStorage:
		return "clear_storage"
	case InstrSetStorage:
		return "set_storage"
	case InstrSetStorageBytes:
		return "set_storage_bytes"
	case InstrPushMemory:
		return "push_memory"
	case InstrPopMemory:
		return "pop_memory"
	case InstrPushStorage:
		return "push_storage"
	case InstrPopStorage:
		return "pop_storage"
	case InstrConstructor:
		return "constructor"
	case InstrExternalCall:
		return "external_call"
	case InstrAbiEncodeVector:
		return "abi_encode_vector"
	case InstrAbiDecode:
		return "abi_decode"
	case InstrEmitEvent:
		return "emit_event"
	case InstrSelfDestruct:
		return "self_destruct"
	case InstrPrint:
		return "print"
	case InstrAssertFailure:
		return "assert_failure"
	case InstrNop:
		return "nop"
	case InstrBranch:
		return "branch"
	case InstrBranchCond:
		return "branch_cond"
	case InstrSwitch:
		return "switch"
	case InstrReturn:
		return "return"
	case InstrUnreachable:
		return "unreachable"
	default:
		return "<unknown instr>"
	}
}

// SwitchCase pairs a selector value with the block dispatched to when the
// switch condition equals it.
type SwitchCase struct {
	Value uint64
	Block int
}

// Instr is the closed sum of instruction nodes. Only fields relevant to
// Kind are populated. Passes assign newly built Expr values into an Instr's
// operand fields (the Expr values themselves are never edited in place),
// and may replace a whole Instr, as constant folding does when it turns a
// BranchCond into a Branch.
type Instr struct {
	Kind InstrKind
	Loc  ir.Loc

	// Set (Res is also the result slot of PushMemory, AbiEncodeVector and
	// Constructor)
	Res  int
	Expr ir.Expr

	// Store
	Dest ir.Expr
	Src  int

	// Call / AbiDecode result slots.
	ResSlots []int

	// Call
	Callee ir.CallTarget
	Args   []ir.Expr

	// ClearStorage / SetStorage / SetStorageBytes
	StorageType ir.Type
	Storage     ir.Expr
	Value       ir.Expr
	Offset      ir.Expr

	// PushMemory / PopMemory / PushStorage / PopStorage
	ArrayExpr ir.Expr
	ElemType  ir.Type

	// Constructor
	ContractIdx    int
	ConstructorIdx int
	ConstructArgs  []ir.Expr
	ConstructValue *ir.Expr // optional
	Gas            ir.Expr
	Salt           *ir.Expr // optional

	// ExternalCall
	Success   int // result slot, meaningful when HasSuccess
	HasSuccess bool
	Address   ir.Expr
	Payload   ir.Expr
	CallValue ir.Expr
	CallGas   ir.Expr
	CallKind  ExternalCallKind
	// Solana-only: offset-based target parameters.
	Accounts []ir.Expr
	Seeds    []ir.Expr

	// AbiDecode
	Selector       *[4]byte
	ExceptionBlock *int
	DecodeTypes    []ir.Type
	Data           ir.Expr

	// EmitEvent
	EventIdx  int
	EventArgs []ir.Expr

	// SelfDestruct
	Beneficiary ir.Expr

	// Print / AssertFailure
	PrintExpr  ir.Expr
	AssertExpr *ir.Expr // optional, nil means "assert(false)" with no message

	// Terminators.
	BranchBlock   int    // Branch
	Cond          ir.Expr // BranchCond / Switch
	TrueBlock     int     // BranchCond
	FalseBlock    int     // BranchCond
	SwitchCases   []SwitchCase
	SwitchDefault int
	ReturnValues  []ir.Expr
}

// ExternalCallKind distinguishes call/delegatecall/staticcall-style
// external call semantics; the middle end treats it as opaque data handed
// to the emitter.
type ExternalCallKind uint8

const (
	ExternalCallRegular ExternalCallKind = iota
	ExternalCallDelegate
	ExternalCallStatic
)

// DefinedSlots returns every result slot this instruction assigns, in the
// order pass/reachingdefs' transfer generation expects them killed-then-
// regenerated (spec.md §4.1 "Transfer generation").
func (i Instr) DefinedSlots() []int {
	switch i.Kind {
	case InstrSet:
		return []int{i.Res}
	case InstrCall, InstrAbiDecode:
		return i.ResSlots
	case InstrPushMemory, InstrAbiEncodeVector:
		return []int{i.Res}
	case InstrExternalCall:
		if i.HasSuccess {
			return []int{i.Success}
		}
		return nil
	case InstrConstructor:
		if i.HasSuccess {
			return []int{i.Res, i.Success}
		}
		return []int{i.Res}
	default:
		return nil
	}
}
