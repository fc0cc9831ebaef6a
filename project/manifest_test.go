package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValidOnceSourcesAreSet(t *testing.T) {
	m := Default()
	m.Sources = []string{"main.sol"}
	if err := m.Validate(); err != nil {
		t.Fatalf("Default + sources should validate cleanly, got %v", err)
	}
}

func TestValidateCollectsEveryError(t *testing.T) {
	m := Manifest{Name: "", Target: "not-a-target", LogLevel: "not-a-level"}
	err := m.Validate()
	if err == nil {
		t.Fatal("expected a validation error")
	}
	msg := err.Error()
	for _, want := range []string{"name is required", "sources must list", "invalid target", "invalid log_level"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Validate() error %q missing expected substring %q", msg, want)
		}
	}
}

func TestValidateTargetOverrides(t *testing.T) {
	m := Default()
	m.Sources = []string{"main.sol"}
	m.Targets = map[string]TargetOverride{
		"wasm-substrate": {AddressBytes: 24},
		"bogus":          {},
	}
	err := m.Validate()
	if err == nil {
		t.Fatal("expected a validation error for a bad override")
	}
	msg := err.Error()
	if !strings.Contains(msg, "address_bytes must be 20 or 32") {
		t.Errorf("missing address_bytes error: %q", msg)
	}
	if !strings.Contains(msg, `unknown target "bogus"`) {
		t.Errorf("missing unknown-target error: %q", msg)
	}
}

func TestLoadParsesTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solen.toml")
	contents := `
name = "token"
sources = ["token.sol", "lib.sol"]
target = "solana"
log_level = "debug"

[targets.evm]
address_bytes = 20
value_bytes = 32
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Name != "token" || m.Target != "solana" || len(m.Sources) != 2 {
		t.Errorf("Load mismatch: %+v", m)
	}
	ov, ok := m.Targets["evm"]
	if !ok || ov.AddressBytes != 20 || ov.ValueBytes != 32 {
		t.Errorf("Load did not parse target override: %+v", m.Targets)
	}
	if err := m.Validate(); err != nil {
		t.Errorf("parsed manifest should validate cleanly, got %v", err)
	}
}
