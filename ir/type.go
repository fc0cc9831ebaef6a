package ir

import "fmt"

// TypeKind tags the closed sum of types a Solen expression or slot can carry.
// Adding a variant here forces review of every exhaustive switch in the
// passes under pass/.
type TypeKind uint8

const (
	TypeBool TypeKind = iota
	TypeInt            // signed integer, Width bits
	TypeUint           // unsigned integer, Width bits
	TypeFixedBytes     // N-byte fixed string, Width bytes
	TypeBytes          // dynamic byte string
	TypeString         // UTF-8 string
	TypeAddress
	TypeContract // Index into Namespace.Contracts
	TypeEnum     // Index into Namespace.Enums
	TypeStruct   // Index into Namespace.Structs
	TypeArray    // Elem + Dims
	TypeMapping  // Key + Elem
	TypeRef      // memory pointer to Elem
	TypeStorageRef // storage key for Elem
	TypeSlice      // read-only view of a dynamic byte buffer; no payload
	TypeFunctionInternal
	TypeFunctionExternal
	TypeFunctionSelector
	TypeUserAlias // Index into Namespace.Aliases
)

// Dim is one dimension of a fixed array type. Fixed is the element count;
// Dynamic marks a dimension whose length is determined at runtime (e.g.
// uint[] within uint[3][]).
type Dim struct {
	Fixed   uint64
	Dynamic bool
}

// Type is a closed sum of Solen's value types. Only the fields relevant to
// Kind are meaningful; the rest are zero. Types are immutable values,
// compared by DeepEqual-style structural equality (Equal).
type Type struct {
	Kind  TypeKind
	Width uint16 // bit width for Int/Uint, byte width for FixedBytes
	Index int    // Contract/Enum/Struct/UserAlias arena index

	Elem *Type // Array/Mapping(value)/Ref/StorageRef element
	Key  *Type // Mapping key

	Dims []Dim // Array dimensions, outermost first

	Params  []Type // FunctionInternal/FunctionExternal parameter types
	Returns []Type // FunctionInternal/FunctionExternal return types

	Selector [4]byte // FunctionExternal selector
}

// Bits reports the bit width of an integer type, or of a fixed-bytes type
// (its byte width times 8), panicking on any other kind — callers that
// reach this without checking Kind first have a compiler bug, not a user
// error.
func (t Type) Bits() uint16 {
	switch t.Kind {
	case TypeInt, TypeUint:
		return t.Width
	case TypeFixedBytes:
		return t.Width * 8
	default:
		panic(fmt.Sprintf("ir: Bits() on non-integer type kind %d", t.Kind))
	}
}

// IsSigned reports whether narrowing and folding should treat the type's
// top bit as a sign bit.
func (t Type) IsSigned() bool {
	return t.Kind == TypeInt
}

// IsReference reports whether t is one of the two pointer-like kinds the
// language distinguishes (Ref, StorageRef). Per spec.md's Type invariants,
// these never nest: Ref(Ref(T)) and StorageRef(StorageRef(T)) cannot occur,
// and constant folding must never substitute a variable through either (see
// pass/constfold).
func (t Type) IsReference() bool {
	return t.Kind == TypeRef || t.Kind == TypeStorageRef
}

// Equal reports structural equality. Two FunctionInternal/External types are
// equal iff their signatures (params, returns) match; arena-indexed types
// (Contract, Enum, Struct, UserAlias) are equal iff their Index matches.
func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case TypeInt, TypeUint:
		return t.Width == o.Width
	case TypeFixedBytes:
		return t.Width == o.Width
	case TypeContract, TypeEnum, TypeStruct, TypeUserAlias:
		return t.Index == o.Index
	case TypeArray:
		if len(t.Dims) != len(o.Dims) || !t.Elem.Equal(*o.Elem) {
			return false
		}
		for i := range t.Dims {
			if t.Dims[i] != o.Dims[i] {
				return false
			}
		}
		return true
	case TypeMapping:
		return t.Key.Equal(*o.Key) && t.Elem.Equal(*o.Elem)
	case TypeRef, TypeStorageRef:
		return t.Elem.Equal(*o.Elem)
	case TypeSlice:
		return true
	case TypeFunctionInternal, TypeFunctionExternal:
		if len(t.Params) != len(o.Params) || len(t.Returns) != len(o.Returns) {
			return false
		}
		for i := range t.Params {
			if !t.Params[i].Equal(o.Params[i]) {
				return false
			}
		}
		for i := range t.Returns {
			if !t.Returns[i].Equal(o.Returns[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

func (t Type) String() string {
	switch t.Kind {
	case TypeBool:
		return "bool"
	case TypeInt:
		return fmt.Sprintf("int%d", t.Width)
	case TypeUint:
		return fmt.Sprintf("uint%d", t.Width)
	case TypeFixedBytes:
		return fmt.Sprintf("bytes%d", t.Width)
	case TypeBytes:
		return "bytes"
	case TypeString:
		return "string"
	case TypeAddress:
		return "address"
	case TypeContract:
		return fmt.Sprintf("contract#%d", t.Index)
	case TypeEnum:
		return fmt.Sprintf("enum#%d", t.Index)
	case TypeStruct:
		return fmt.Sprintf("struct#%d", t.Index)
	case TypeUserAlias:
		return fmt.Sprintf("alias#%d", t.Index)
	case TypeArray:
		return fmt.Sprintf("%s%v", t.Elem, t.Dims)
	case TypeMapping:
		return fmt.Sprintf("mapping(%s => %s)", t.Key, t.Elem)
	case TypeRef:
		return fmt.Sprintf("ref(%s)", t.Elem)
	case TypeStorageRef:
		return fmt.Sprintf("storageref(%s)", t.Elem)
	case TypeSlice:
		return "slice"
	case TypeFunctionInternal:
		return "function internal"
	case TypeFunctionExternal:
		return "function external"
	case TypeFunctionSelector:
		return "function selector"
	default:
		return "<unknown type>"
	}
}

// Uint256 is the common unsigned 256-bit integer type, used throughout
// storage-slot arithmetic (see storagelayout).
var Uint256 = Type{Kind: TypeUint, Width: 256}

// Bytes32 is the common fixed-bytes type used for hashes and storage slots.
var Bytes32 = Type{Kind: TypeFixedBytes, Width: 32}
