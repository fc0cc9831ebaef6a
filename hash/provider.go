// Package hash wires the compile-time hash builtins (spec.md §3
// "Builtin", §4.2 "Hash precomputation") to concrete digest
// implementations, mirroring the teacher's narrow CryptoProvider
// interface so pass/constfold never imports a hash library directly.
package hash

import (
	"crypto/sha256"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/ripemd160" //lint:ignore SA1019 matches original_source digest choice
	"golang.org/x/crypto/sha3"
)

// Provider is the narrow hashing interface pass/constfold folds against.
// Every method takes the already-assembled message bytes and returns the
// full digest at the builtin's own output length (16 bytes for
// Blake2_128), so the fold site never reasons about digest lengths.
type Provider interface {
	Keccak256(msg []byte) []byte
	Ripemd160(msg []byte) []byte
	Sha256(msg []byte) []byte
	Blake2_128(msg []byte) []byte
	Blake2_256(msg []byte) []byte
}

type defaultProvider struct{}

// Default returns the Provider used by the driver unless a test overrides
// it: Keccak256 via golang.org/x/crypto/sha3's legacy Keccak flavor,
// Ripemd160 via golang.org/x/crypto/ripemd160, Sha256 via the standard
// library (there is no ecosystem replacement for a plain SHA-256 digest),
// and both Blake2 variants via blake2b at their respective output
// lengths — Blake2_128 is BLAKE2b configured for a 16-byte output (the
// output length is a BLAKE2b parameter, so this is not the first 16 bytes
// of the Blake2_256 digest), not blake2s.
func Default() Provider { return defaultProvider{} }

func (defaultProvider) Keccak256(msg []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(msg)
	return h.Sum(nil)
}

func (defaultProvider) Ripemd160(msg []byte) []byte {
	h := ripemd160.New()
	h.Write(msg)
	return h.Sum(nil)
}

func (defaultProvider) Sha256(msg []byte) []byte {
	sum := sha256.Sum256(msg)
	return sum[:]
}

func (defaultProvider) Blake2_128(msg []byte) []byte {
	h, err := blake2b.New(16, nil)
	if err != nil {
		panic(err)
	}
	h.Write(msg)
	return h.Sum(nil)
}

func (defaultProvider) Blake2_256(msg []byte) []byte {
	h, err := blake2b.New(32, nil)
	if err != nil {
		panic(err)
	}
	h.Write(msg)
	return h.Sum(nil)
}
