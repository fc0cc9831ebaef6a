// Package project parses the TOML project manifest a Solen compilation
// job is driven from: source files, the default compile target, and
// per-target overrides (SPEC_FULL.md §1.3 "Configuration"). This is the
// project-level analog of the teacher's node.Config, validated the same
// way: Validate aggregates every malformed field into one error instead
// of stopping at the first.
package project

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// TargetOverride holds per-target knobs a manifest can set to override the
// target description the driver would otherwise derive from the target
// name alone (spec.md §6 "Target identifier").
type TargetOverride struct {
	AddressBytes int `toml:"address_bytes"`
	ValueBytes   int `toml:"value_bytes"`
}

// Manifest is the parsed form of a solen.toml project file.
type Manifest struct {
	Name    string                     `toml:"name"`
	Sources []string                   `toml:"sources"`
	Target  string                     `toml:"target"`
	LogLevel string                    `toml:"log_level"`
	Targets map[string]TargetOverride  `toml:"targets"`
}

var allowedTargets = map[string]struct{}{
	"wasm-substrate": {},
	"solana":         {},
	"evm":            {},
}

var allowedLogLevels = map[string]struct{}{
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

// Default returns a Manifest with the fields a bare `solenc` invocation
// needs, mirroring node.DefaultConfig's role of seeding flag defaults.
func Default() Manifest {
	return Manifest{
		Name:     "untitled",
		Target:   "wasm-substrate",
		LogLevel: "info",
	}
}

// Load parses the TOML manifest at path.
func Load(path string) (Manifest, error) {
	m := Default()
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return Manifest{}, fmt.Errorf("project: decode %s: %w", path, err)
	}
	return m, nil
}

// Validate reports every malformed field of m joined into one error, the
// way node.ValidateConfig does for the teacher's node.Config.
func (m Manifest) Validate() error {
	var errs []error

	if strings.TrimSpace(m.Name) == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if len(m.Sources) == 0 {
		errs = append(errs, errors.New("sources must list at least one file"))
	}
	for _, s := range m.Sources {
		if strings.TrimSpace(s) == "" {
			errs = append(errs, errors.New("sources entries must not be blank"))
			break
		}
	}
	target := strings.ToLower(strings.TrimSpace(m.Target))
	if _, ok := allowedTargets[target]; !ok {
		errs = append(errs, fmt.Errorf("invalid target %q", m.Target))
	}
	logLevel := strings.ToLower(strings.TrimSpace(m.LogLevel))
	if _, ok := allowedLogLevels[logLevel]; !ok {
		errs = append(errs, fmt.Errorf("invalid log_level %q", m.LogLevel))
	}
	for name, ov := range m.Targets {
		if _, ok := allowedTargets[strings.ToLower(name)]; !ok {
			errs = append(errs, fmt.Errorf("targets: unknown target %q", name))
			continue
		}
		if ov.AddressBytes != 0 && ov.AddressBytes != 20 && ov.AddressBytes != 32 {
			errs = append(errs, fmt.Errorf("targets.%s: address_bytes must be 20 or 32", name))
		}
		if ov.ValueBytes < 0 {
			errs = append(errs, fmt.Errorf("targets.%s: value_bytes must be >= 0", name))
		}
	}

	return errors.Join(errs...)
}
