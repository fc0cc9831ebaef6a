package constfold

import (
	"math/big"

	"solen.dev/compiler/ir"
)

var bigOne = big.NewInt(1)

// narrow folds n into ty's representable range and returns the resulting
// NumberLiteral expression, always pure. For Uint it truncates to the low
// Width bits; for Int it sign-extends/truncates through the low Width bits
// so the result stays in [-2^(Width-1), 2^(Width-1)-1] (spec.md §8
// "Testable Properties", unsigned/signed narrowing formulas). Any other
// destination type is a front-end invariant violation and is not
// expected to reach this helper.
func narrow(loc ir.Loc, ty ir.Type, n *big.Int) ir.Expr {
	switch ty.Kind {
	case ir.TypeUint:
		mod := new(big.Int).Lsh(bigOne, uint(ty.Width))
		r := new(big.Int).Mod(n, mod)
		return ir.Expr{Kind: ir.ExprNumberLiteral, Loc: loc, Type: ty, NumberValue: r}
	case ir.TypeInt:
		mod := new(big.Int).Lsh(bigOne, uint(ty.Width))
		half := new(big.Int).Lsh(bigOne, uint(ty.Width-1))
		shifted := new(big.Int).Add(n, half)
		shifted.Mod(shifted, mod)
		shifted.Sub(shifted, half)
		return ir.Expr{Kind: ir.ExprNumberLiteral, Loc: loc, Type: ty, NumberValue: shifted}
	default:
		return ir.Expr{Kind: ir.ExprNumberLiteral, Loc: loc, Type: ty, NumberValue: n}
	}
}

// serializeNumber renders a folded NumberLiteral's value as the raw bytes
// the hash builtins consume, matching the per-type convention
// original_source uses for its variadic hashing form: unsigned values are
// little-endian and zero-padded up to the type's byte width; signed
// negative values are little-endian and padded with 0xff instead of 0x00;
// fixed-bytes values are left zero-padded up to their byte width.
func serializeNumber(ty ir.Type, n *big.Int) []byte {
	switch ty.Kind {
	case ir.TypeUint:
		bs := littleEndianBytes(n)
		return resizeLE(bs, int(ty.Width)/8, 0)
	case ir.TypeInt:
		bs := littleEndianBytes(n)
		pad := byte(0)
		if n.Sign() < 0 {
			pad = 0xff
		}
		return resizeLE(bs, int(ty.Width)/8, pad)
	case ir.TypeFixedBytes:
		bs := littleEndianBytes(n)
		for len(bs) < int(ty.Width) {
			bs = append([]byte{0}, bs...)
		}
		return bs
	default:
		return littleEndianBytes(n)
	}
}

// littleEndianBytes returns n's absolute value as little-endian bytes,
// mirroring num_bigint::BigInt::to_bytes_le's magnitude-only output.
func littleEndianBytes(n *big.Int) []byte {
	abs := new(big.Int).Abs(n)
	be := abs.Bytes()
	le := make([]byte, len(be))
	for i, b := range be {
		le[len(be)-1-i] = b
	}
	return le
}

// resizeLE grows or truncates a little-endian byte slice to exactly
// length bytes, appending pad at the high end when growing.
func resizeLE(bs []byte, length int, pad byte) []byte {
	if len(bs) >= length {
		return bs[:length]
	}
	out := make([]byte, length)
	copy(out, bs)
	for i := len(bs); i < length; i++ {
		out[i] = pad
	}
	return out
}
