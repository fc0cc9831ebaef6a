package cfg

import "solen.dev/compiler/ir"

// Def identifies a definition site: the (block, instruction) pair whose
// write to a slot may be the most recent visible write at some later
// program point.
type Def struct {
	Block int
	Instr int
}

// DefSet is the set of definition sites that may reach some program point
// for one slot. Kept as a map for convenient set semantics without pulling
// in a generic set type the rest of the corpus doesn't use.
type DefSet map[Def]struct{}

// Clone returns a shallow copy of d.
func (d DefSet) Clone() DefSet {
	out := make(DefSet, len(d))
	for k := range d {
		out[k] = struct{}{}
	}
	return out
}

// Equal reports whether d and o contain exactly the same definition sites.
func (d DefSet) Equal(o DefSet) bool {
	if len(d) != len(o) {
		return false
	}
	for k := range d {
		if _, ok := o[k]; !ok {
			return false
		}
	}
	return true
}

// VarDefs maps a variable slot to the set of definition sites reaching a
// program point. This is the lattice element pass/reachingdefs computes
// per block entry/exit.
type VarDefs map[int]DefSet

// Clone returns a deep-enough copy (DefSets are cloned, too) for use as a
// scratch value while walking a block.
func (v VarDefs) Clone() VarDefs {
	out := make(VarDefs, len(v))
	for slot, defs := range v {
		out[slot] = defs.Clone()
	}
	return out
}

// Equal reports whether v and o assign the same DefSet to every slot.
func (v VarDefs) Equal(o VarDefs) bool {
	if len(v) != len(o) {
		return false
	}
	for slot, defs := range v {
		odefs, ok := o[slot]
		if !ok || !defs.Equal(odefs) {
			return false
		}
	}
	return true
}

// Transfer is one gen/kill/copy/modify effect of an instruction on the
// reaching-definitions lattice. Gen and Kill are emitted by the base
// analysis (pass/reachingdefs). Copy and Mod are defined but no pass in
// this module emits them: pass/vecslice and pass/undefvar derive aliasing
// and in-place modification from the instructions themselves.
type Transfer struct {
	Kind TransferKind
	Slot int
	Def  Def // valid when Kind == TransferGen
	Src  int // valid when Kind == TransferCopy: defs of Src become defs of Slot
}

type TransferKind uint8

const (
	TransferKill TransferKind = iota
	TransferGen
	TransferCopy
	TransferMod
)

// Block is one basic block: a straight-line instruction sequence ending in
// exactly one terminator, plus the incoming-definitions map and parallel
// per-instruction transfer list that pass/reachingdefs (and the passes
// built on it) populate.
type Block struct {
	Instrs []Instr

	// Defs holds the reaching definitions live at block entry. Populated by
	// pass/reachingdefs.Run and consumed by every later pass.
	Defs VarDefs

	// Transfers[i] is the gen/kill list for Instrs[i], in application order.
	// Populated by pass/reachingdefs.Run.
	Transfers [][]Transfer
}

// Terminator returns the block's sole terminating instruction. A Block with
// no instructions, or whose last instruction is not a terminator, violates
// spec.md §3's invariant and is a compiler bug, not a user error — callers
// that cannot guarantee a well-formed CFG should check len(b.Instrs) > 0 and
// b.Instrs[len-1].Kind.IsTerminator() themselves before calling this.
func (b *Block) Terminator() *Instr {
	return &b.Instrs[len(b.Instrs)-1]
}

// Successors returns the block indices a block's terminator (and, for
// AbiDecode, an interior fallible instruction) can transfer control to.
// This is the edge-derivation rule used identically by pass/reachingdefs
// for the base analysis and by every pass built on top of it (spec.md
// §4.1 "Successor derivation").
func (b *Block) Successors() []int {
	var out []int
	for i := range b.Instrs {
		instr := &b.Instrs[i]
		switch instr.Kind {
		case InstrAbiDecode:
			if instr.ExceptionBlock != nil {
				out = append(out, *instr.ExceptionBlock)
			}
		case InstrBranch:
			out = append(out, instr.BranchBlock)
		case InstrBranchCond:
			out = append(out, instr.TrueBlock, instr.FalseBlock)
		case InstrSwitch:
			for _, c := range instr.SwitchCases {
				out = append(out, c.Block)
			}
			out = append(out, instr.SwitchDefault)
		}
	}
	return out
}

// FunctionKind is the closed sum of a CFG's role within its contract.
type FunctionKind uint8

const (
	FuncRegular FunctionKind = iota
	FuncConstructor
	FuncFallback
	FuncReceive
	FuncDispatch
)

// Param is a CFG's parameter (or return) slot declaration.
type Param struct {
	Name string
	Type ir.Type
	Loc  ir.Loc
}

// CFG is the per-function control flow graph. Block 0 is always the entry
// (spec.md §3 Basic Block and CFG).
type CFG struct {
	Name     string
	Kind     FunctionKind
	Public   bool
	Params   []Param
	Returns  []Param
	Selector [4]byte // valid when Public and externally callable
	HasSelector bool

	Blocks []Block

	// FunctionIdx is this CFG's index in Namespace.Functions, so passes that
	// need to consult the owning function's symbol table (pass/undefvar,
	// pass/vecslice) can find it without threading it through every call.
	FunctionIdx int
}

// Entry returns the entry block, block 0.
func (c *CFG) Entry() *Block {
	return &c.Blocks[0]
}
