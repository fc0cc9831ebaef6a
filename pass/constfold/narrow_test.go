package constfold

import (
	"math/big"
	"testing"

	"solen.dev/compiler/ir"
)

func TestNarrowSignedWraps(t *testing.T) {
	i8 := ir.Type{Kind: ir.TypeInt, Width: 8}
	got := narrow(ir.NoLoc, i8, big.NewInt(127+5))
	if got.NumberValue.Int64() != -124 {
		t.Errorf("narrow(132, int8) = %v, want -124", got.NumberValue)
	}
}

func TestNarrowUnsignedNegativeWraps(t *testing.T) {
	u8 := ir.Type{Kind: ir.TypeUint, Width: 8}
	got := narrow(ir.NoLoc, u8, big.NewInt(-1))
	if got.NumberValue.Int64() != 255 {
		t.Errorf("narrow(-1, uint8) = %v, want 255", got.NumberValue)
	}
}

func TestSerializeNumberUnsignedLittleEndianPadded(t *testing.T) {
	u32 := ir.Type{Kind: ir.TypeUint, Width: 32}
	got := serializeNumber(u32, big.NewInt(1))
	want := []byte{1, 0, 0, 0}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("serializeNumber(1, uint32) = %v, want %v", got, want)
	}
}

func TestSerializeNumberSignedNegativePadsWithFF(t *testing.T) {
	i16 := ir.Type{Kind: ir.TypeInt, Width: 16}
	got := serializeNumber(i16, big.NewInt(-1))
	if len(got) != 2 || got[1] != 0xff {
		t.Errorf("serializeNumber(-1, int16) = %v, want high byte 0xff", got)
	}
}
