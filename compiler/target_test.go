package compiler

import "testing"

func TestParseTargetRoundTrip(t *testing.T) {
	for _, name := range []string{"wasm-substrate", "solana", "evm"} {
		tg, err := ParseTarget(name)
		if err != nil {
			t.Fatalf("ParseTarget(%q): %v", name, err)
		}
		if tg.String() != name {
			t.Errorf("ParseTarget(%q).String() = %q, want %q", name, tg.String(), name)
		}
	}
}

func TestParseTargetRejectsUnknown(t *testing.T) {
	if _, err := ParseTarget("bogus"); err == nil {
		t.Fatal("ParseTarget(\"bogus\") should fail")
	}
}

func TestDescribeWasmSubstrateDefaults(t *testing.T) {
	desc, err := Describe(TargetWasmSubstrate, 0, 0)
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if desc.AddressBytes != 32 || desc.ValueBytes != 16 || !desc.SlotBasedStorage {
		t.Errorf("Describe defaults = %+v, want AddressBytes=32 ValueBytes=16 SlotBasedStorage=true", desc)
	}
}

func TestDescribeWasmSubstrateRejectsBadAddressWidth(t *testing.T) {
	if _, err := Describe(TargetWasmSubstrate, 24, 16); err == nil {
		t.Fatal("Describe should reject an address width other than 20 or 32")
	}
}

func TestDescribeSolanaIsFixedWidth(t *testing.T) {
	desc, err := Describe(TargetSolana, 999, 999)
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if desc.AddressBytes != 32 || desc.SlotBasedStorage {
		t.Errorf("Describe(Solana) = %+v, want fixed 32-byte addresses and no slot-based storage", desc)
	}
}
