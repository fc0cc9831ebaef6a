package storagelayout

import (
	"testing"

	"solen.dev/compiler/hash"
)

func TestLayoutBase(t *testing.T) {
	l := New([]int{10, 20, 30})

	base, ok := l.Base(20)
	if !ok {
		t.Fatal("Base(20) should be found, it was declared second")
	}
	want := BaseSlot(1)
	if base.Cmp(&want) != 0 {
		t.Errorf("Base(20) = %s, want %s", base.Hex(), want.Hex())
	}

	if _, ok := l.Base(99); ok {
		t.Error("Base on an undeclared slot should report not-found")
	}
}

func TestStructFieldSlot(t *testing.T) {
	base := BaseSlot(3)
	got := StructFieldSlot(base, 2)
	want := BaseSlot(5)
	if got.Cmp(&want) != 0 {
		t.Errorf("StructFieldSlot(3, 2) = %s, want %s", got.Hex(), want.Hex())
	}
}

func TestArrayDataSlotDeterministic(t *testing.T) {
	hp := hash.Default()
	base := BaseSlot(7)

	a := ArrayDataSlot(base, hp)
	b := ArrayDataSlot(base, hp)
	if a.Cmp(&b) != 0 {
		t.Error("ArrayDataSlot should be deterministic for the same base slot")
	}

	other := ArrayDataSlot(BaseSlot(8), hp)
	if a.Cmp(&other) == 0 {
		t.Error("ArrayDataSlot should differ across distinct base slots")
	}
}

func TestArrayElementSlot(t *testing.T) {
	dataSlot := BaseSlot(100)
	elem0 := ArrayElementSlot(dataSlot, 0, 2)
	elem1 := ArrayElementSlot(dataSlot, 1, 2)

	if elem0.Cmp(&dataSlot) != 0 {
		t.Errorf("element 0 should equal the data slot itself, got %s", elem0.Hex())
	}
	want1 := BaseSlot(102)
	if elem1.Cmp(&want1) != 0 {
		t.Errorf("ArrayElementSlot(dataSlot, 1, 2) = %s, want %s", elem1.Hex(), want1.Hex())
	}
}

func TestMappingValueSlotDeterministicAndKeySensitive(t *testing.T) {
	hp := hash.Default()
	base := BaseSlot(5)

	a := MappingValueSlot(base, []byte("key-a"), hp)
	aAgain := MappingValueSlot(base, []byte("key-a"), hp)
	if a.Cmp(&aAgain) != 0 {
		t.Error("MappingValueSlot should be deterministic for the same base and key")
	}

	b := MappingValueSlot(base, []byte("key-b"), hp)
	if a.Cmp(&b) == 0 {
		t.Error("MappingValueSlot should differ across distinct keys")
	}
}
