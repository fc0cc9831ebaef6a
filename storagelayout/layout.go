// Package storagelayout computes the deterministic storage-slot keys a
// slot-based back end (WASM/substrate) assigns to a contract's storage
// variables (spec.md §6 "Storage layout"). Solana/BPF targets ignore this
// package entirely; their account-offset layout is computed by the back
// end from namespace.TargetDesc, not by slot hashing.
package storagelayout

import (
	"github.com/holiman/uint256"

	"solen.dev/compiler/hash"
)

// Slot is a 256-bit storage key. Arithmetic on it wraps modulo 2^256 by
// construction, which is exactly what derived slot keys need and is why
// this package uses a fixed-width integer instead of the arbitrary
// precision math/big uses everywhere else in this module.
type Slot = uint256.Int

// BaseSlot returns the slot assigned to the declaration-order index of a
// top-level storage variable, the starting point every other derivation
// in this package offsets or hashes from.
func BaseSlot(declIndex uint64) Slot {
	var s Slot
	s.SetUint64(declIndex)
	return s
}

// StructFieldSlot returns the slot of a struct field at wordOffset words
// past base, implementing "struct fields by ascending offset."
func StructFieldSlot(base Slot, wordOffset uint64) Slot {
	var off, out Slot
	off.SetUint64(wordOffset)
	out.Add(&base, &off)
	return out
}

// ArrayDataSlot returns the slot a dynamic array's element data begins
// at: keccak256(base), per spec.md §6 "dynamic arrays by hashing the base
// slot."
func ArrayDataSlot(base Slot, hp hash.Provider) Slot {
	b := base.Bytes32()
	digest := hp.Keccak256(b[:])
	var out Slot
	out.SetBytes(digest)
	return out
}

// ArrayElementSlot returns the slot of element index within a dynamic
// array whose data begins at dataSlot (the result of ArrayDataSlot),
// elemWords words wide.
func ArrayElementSlot(dataSlot Slot, index, elemWords uint64) Slot {
	var stride, idx, offset, out Slot
	stride.SetUint64(elemWords)
	idx.SetUint64(index)
	offset.Mul(&stride, &idx)
	out.Add(&dataSlot, &offset)
	return out
}

// MappingValueSlot returns the slot a mapping's value for key is stored
// at: keccak256(key ++ base), per spec.md §6 "mappings by hashing key ∥
// base-slot." key must already be the ABI-encoded, type-width-padded
// representation of the mapping key; this package does not encode keys
// itself.
func MappingValueSlot(base Slot, key []byte, hp hash.Provider) Slot {
	b := base.Bytes32()
	msg := make([]byte, 0, len(key)+32)
	msg = append(msg, key...)
	msg = append(msg, b[:]...)
	digest := hp.Keccak256(msg)
	var out Slot
	out.SetBytes(digest)
	return out
}

// Layout assigns a BaseSlot to every entry of a contract's declaration
// order storage variables and exposes the mapping from namespace slot
// number to storage Slot. One Layout covers one contract; the driver
// (compiler.Compile) does not build one.
type Layout struct {
	slots map[int]Slot
}

// New builds a Layout from declOrder, the storage-variable slot numbers
// in the order they were declared.
func New(declOrder []int) *Layout {
	l := &Layout{slots: make(map[int]Slot, len(declOrder))}
	for i, varSlot := range declOrder {
		l.slots[varSlot] = BaseSlot(uint64(i))
	}
	return l
}

// Base returns the base storage slot for a variable's namespace slot
// number, and whether that slot was declared storage-resident.
func (l *Layout) Base(varSlot int) (Slot, bool) {
	s, ok := l.slots[varSlot]
	return s, ok
}
