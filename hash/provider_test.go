package hash

import (
	"encoding/hex"
	"testing"
)

func TestDefaultProviderKnownVectors(t *testing.T) {
	p := Default()

	const emptySha256 = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got := hex.EncodeToString(p.Sha256(nil)); got != emptySha256 {
		t.Errorf("Sha256(\"\") = %s, want %s", got, emptySha256)
	}
	if got := hex.EncodeToString(p.Ripemd160(nil)); got != "9c1185a5c5e9fc54612808977ee8f548b2258d31" {
		t.Errorf("Ripemd160(\"\") = %s, want the well-known empty-string RIPEMD-160 digest", got)
	}
}

func TestDefaultProviderDigestShapes(t *testing.T) {
	p := Default()
	msg := []byte("solen")

	cases := []struct {
		name   string
		digest []byte
		want   int
	}{
		{"Keccak256", p.Keccak256(msg), 32},
		{"Ripemd160", p.Ripemd160(msg), 20},
		{"Sha256", p.Sha256(msg), 32},
		{"Blake2_128", p.Blake2_128(msg), 16},
		{"Blake2_256", p.Blake2_256(msg), 32},
	}
	for _, c := range cases {
		if len(c.digest) != c.want {
			t.Errorf("%s(%q) has length %d, want %d", c.name, msg, len(c.digest), c.want)
		}
	}
}

func TestDefaultProviderDeterministicAndDistinct(t *testing.T) {
	p := Default()
	msg := []byte("deterministic")

	if hex.EncodeToString(p.Keccak256(msg)) != hex.EncodeToString(p.Keccak256(msg)) {
		t.Error("Keccak256 should be deterministic for the same input")
	}
	if hex.EncodeToString(p.Keccak256(msg)) == hex.EncodeToString(p.Sha256(msg)) {
		t.Error("Keccak256 and Sha256 should not collide on a short distinguishing message")
	}
	if hex.EncodeToString(p.Blake2_128([]byte("a"))) == hex.EncodeToString(p.Blake2_128([]byte("b"))) {
		t.Error("Blake2_128 should differ for different inputs")
	}
}
