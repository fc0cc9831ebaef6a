package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"solen.dev/compiler/cfg"
	"solen.dev/compiler/diagdump"
	"solen.dev/compiler/hash"
	"solen.dev/compiler/ir"
	"solen.dev/compiler/namespace"
	"solen.dev/compiler/pass/constfold"
	"solen.dev/compiler/pass/reachingdefs"
	"solen.dev/compiler/pass/undefvar"
	"solen.dev/compiler/pass/vecslice"
)

// ExprSnapshot is the JSON-serializable shape of one folded expression: its
// kind, its type, and — for the literal kinds folding produces — the
// literal value itself, so a downstream conformance suite can assert an
// exact digest or narrowed integer without reaching into this repository's
// Go types.
type ExprSnapshot struct {
	Kind      string `json:"kind"`
	Type      string `json:"type"`
	BytesHex  string `json:"bytes_hex,omitempty"`
	Number    string `json:"number,omitempty"`
	BoolValue bool   `json:"bool_value,omitempty"`
	HasBool   bool   `json:"has_bool,omitempty"`
}

// InstrSnapshot is the JSON-serializable shape of one instruction,
// populated only with the fields relevant to its Kind.
type InstrSnapshot struct {
	Kind        string        `json:"kind"`
	ResultSlot  *int          `json:"result_slot,omitempty"`
	Expr        *ExprSnapshot `json:"expr,omitempty"`
	BranchBlock *int          `json:"branch_block,omitempty"`
}

// GoldenResult is what this generator writes per scenario: the scenario's
// own metadata, every diagnostic the pipeline raised, and the post-fold
// shape of block 0's first instruction — the minimum a downstream
// conformance suite needs to assert against (spec.md §8 "Concrete
// scenarios").
type GoldenResult struct {
	Scenario    string                 `json:"scenario"`
	Description string                 `json:"description"`
	Diagnostics []namespace.Diagnostic `json:"diagnostics"`
	FirstInstr  InstrSnapshot          `json:"first_instr"`
}

// snapshotExpr captures e's kind, type, and literal payload (if any).
func snapshotExpr(e ir.Expr) *ExprSnapshot {
	s := &ExprSnapshot{Kind: e.Kind.String(), Type: e.Type.String()}
	switch e.Kind {
	case ir.ExprBytesLiteral:
		s.BytesHex = hex.EncodeToString(e.BytesValue)
	case ir.ExprNumberLiteral:
		if e.NumberValue != nil {
			s.Number = e.NumberValue.String()
		}
	case ir.ExprBoolLiteral:
		s.HasBool = true
		s.BoolValue = e.BoolValue
	}
	return s
}

// snapshotInstr captures in's kind and the fields a conformance suite
// needs to assert against: the result slot and folded expression for a
// Set, the target block for a Branch.
func snapshotInstr(in cfg.Instr) InstrSnapshot {
	snap := InstrSnapshot{Kind: in.Kind.String()}
	switch in.Kind {
	case cfg.InstrSet:
		res := in.Res
		snap.ResultSlot = &res
		snap.Expr = snapshotExpr(in.Expr)
	case cfg.InstrBranch:
		block := in.BranchBlock
		snap.BranchBlock = &block
	}
	return snap
}

func runGeneratorCLI(fixturesDir, dumpPath string) {
	if err := os.MkdirAll(fixturesDir, 0o750); err != nil {
		fatalf("mkdir %s: %v", fixturesDir, err)
	}

	var dump *diagdump.Store
	if dumpPath != "" {
		d, err := diagdump.Open(dumpPath)
		if err != nil {
			fatalf("open dump: %v", err)
		}
		dump = d
		defer dump.Close()
	}

	hp := hash.Default()

	for _, sc := range Scenarios() {
		ns, st, c := sc.Build()

		reachingdefs.Run(c)
		diags := constfold.Run(c, hp)
		vecslice.Run(c, st)
		diags = append(diags, undefvar.Run(c, st)...)
		for _, d := range diags {
			ns.AddDiagnostic(d)
		}

		result := GoldenResult{
			Scenario:    sc.Name,
			Description: sc.Description,
			Diagnostics: ns.Diagnostics,
			FirstInstr:  snapshotInstr(c.Blocks[0].Instrs[0]),
		}

		path := filepath.Join(fixturesDir, sc.Name+".json")
		if err := writeGolden(path, result); err != nil {
			fatalf("write %s: %v", path, err)
		}

		if dump != nil {
			rec := diagdump.FromNamespace(ns, sc.Name, "wasm-substrate", time.Now())
			if err := dump.Put(rec); err != nil {
				fatalf("dump %s: %v", sc.Name, err)
			}
		}
	}
}

func writeGolden(path string, result GoldenResult) error {
	raw, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	raw = append(raw, '\n')
	return os.WriteFile(path, raw, 0o640)
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, "fatal: "+format+"\n", args...)
	os.Exit(1)
}
