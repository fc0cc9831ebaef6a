package compiler

import (
	"fmt"

	"solen.dev/compiler/namespace"
)

// Target is the closed enumeration of backends the middle end's CFG
// contract is frozen against (spec.md §6 "Target identifier").
type Target uint8

const (
	TargetWasmSubstrate Target = iota
	TargetSolana
	TargetEVM // reserved
)

func (t Target) String() string {
	switch t {
	case TargetWasmSubstrate:
		return "wasm-substrate"
	case TargetSolana:
		return "solana"
	case TargetEVM:
		return "evm"
	default:
		return "unknown"
	}
}

// ParseTarget maps a manifest/flag target name to a Target.
func ParseTarget(name string) (Target, error) {
	switch name {
	case "wasm-substrate":
		return TargetWasmSubstrate, nil
	case "solana":
		return TargetSolana, nil
	case "evm":
		return TargetEVM, nil
	default:
		return 0, fmt.Errorf("compiler: unknown target %q", name)
	}
}

// Describe returns the fixed TargetDesc for t, optionally narrowed by an
// address-width choice for targets that support more than one (spec.md §6:
// "WebAssembly-substrate (with address-length N ∈ {20, 32} and value-length
// M)"). addressBytes is ignored for targets with a single fixed width.
func Describe(t Target, addressBytes, valueBytes int) (namespace.TargetDesc, error) {
	switch t {
	case TargetWasmSubstrate:
		if addressBytes == 0 {
			addressBytes = 32
		}
		if addressBytes != 20 && addressBytes != 32 {
			return namespace.TargetDesc{}, fmt.Errorf("compiler: wasm-substrate address_bytes must be 20 or 32, got %d", addressBytes)
		}
		if valueBytes == 0 {
			valueBytes = 16
		}
		return namespace.TargetDesc{
			Name:             t.String(),
			PointerBytes:     4,
			AddressBytes:     addressBytes,
			ValueBytes:       valueBytes,
			SelectorBytes:    4,
			DefaultIntWidth:  256,
			SlotBasedStorage: true,
		}, nil
	case TargetSolana:
		return namespace.TargetDesc{
			Name:             t.String(),
			PointerBytes:     8,
			AddressBytes:     32,
			ValueBytes:       8,
			SelectorBytes:    8,
			DefaultIntWidth:  64,
			SlotBasedStorage: false,
		}, nil
	case TargetEVM:
		return namespace.TargetDesc{
			Name:             t.String(),
			PointerBytes:     32,
			AddressBytes:     20,
			ValueBytes:       32,
			SelectorBytes:    4,
			DefaultIntWidth:  256,
			SlotBasedStorage: true,
		}, nil
	default:
		return namespace.TargetDesc{}, fmt.Errorf("compiler: unknown target %d", t)
	}
}
