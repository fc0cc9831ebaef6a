// Package compiler is the driver: it runs the middle end's fixed pass
// pipeline over every CFG in a namespace handed off by the front end, then
// — if no pass raised an error-level diagnostic — invokes a pluggable
// Emitter to produce per-contract artifacts (spec.md §6 "Driver entry").
// Emission itself is an external collaborator (spec.md §1); this package
// only defines the Emitter seam the back end implements.
package compiler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"solen.dev/compiler/hash"
	"solen.dev/compiler/ir"
	"solen.dev/compiler/namespace"
	"solen.dev/compiler/pass/constfold"
	"solen.dev/compiler/pass/reachingdefs"
	"solen.dev/compiler/pass/undefvar"
	"solen.dev/compiler/pass/vecslice"
)

// Artifact is one compiled contract's emitted output: bytecode plus
// metadata, the shape spec.md §6 promises the driver returns "if
// diagnostics contain no errors."
type Artifact struct {
	ContractName string
	Bytecode     []byte
	Metadata     map[string]string
}

// Emitter turns a namespace whose middle-end passes have all run clean
// into per-contract artifacts. The core never implements this itself —
// spec.md §1 calls the back end "the LLVM-based emitter and linker," an
// external collaborator the core only defines a contract for.
type Emitter interface {
	Emit(ns *namespace.Namespace) ([]Artifact, error)
}

// Options configures one Compile call.
type Options struct {
	Target  Target
	Emitter Emitter // nil skips emission; Compile then only returns diagnostics
	Logger  *slog.Logger
}

// Result is what Compile hands back: every accumulated diagnostic, plus
// artifacts when emission ran.
type Result struct {
	Diagnostics []namespace.Diagnostic
	Artifacts   []Artifact
}

// Compile runs reaching-definitions, constant folding, vector-to-slice,
// and undefined-variable checking over every function CFG in ns, in the
// fixed order spec.md §2 mandates, then emits if nothing failed. ns must
// already be sealed by the caller (the front end's responsibility; see
// namespace.Namespace.Seal).
func Compile(ctx context.Context, ns *namespace.Namespace, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	hp := hash.Default()

	start := time.Now()
	logger.Info("compile: starting", "target", opts.Target, "functions", len(ns.Functions))

	for idx, fn := range ns.Functions {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		if err := runFunction(ns, fn, hp, logger, idx); err != nil {
			return nil, err
		}
	}

	logger.Info("compile: passes complete", "elapsed", time.Since(start), "diagnostics", len(ns.Diagnostics), "errors", ns.HasErrors())

	if ns.HasErrors() {
		return &Result{Diagnostics: ns.Diagnostics}, nil
	}

	result := &Result{Diagnostics: ns.Diagnostics}
	if opts.Emitter != nil {
		artifacts, err := opts.Emitter.Emit(ns)
		if err != nil {
			return nil, fmt.Errorf("compiler: emit: %w", err)
		}
		result.Artifacts = artifacts
	}
	return result, nil
}

func runFunction(ns *namespace.Namespace, fn *namespace.Function, hp hash.Provider, logger *slog.Logger, idx int) error {
	if fn == nil || fn.CFG == nil {
		return namespace.Invariant(ir.NoLoc, "function %d has no CFG", idx)
	}
	c := fn.CFG
	phaseStart := time.Now()

	reachingdefs.Run(c)

	foldDiags := constfold.Run(c, hp)
	for _, d := range foldDiags {
		ns.AddDiagnostic(d)
	}

	// vector-to-slice and undefined-variable checking both depend only on
	// reaching-defs, which constant folding does not invalidate (folding
	// replaces expressions, never definitions); they may run in either
	// order relative to each other (spec.md §5 "Ordering guarantees").
	vecslice.Run(c, fn.Symtable)

	undefDiags := undefvar.Run(c, fn.Symtable)
	for _, d := range undefDiags {
		ns.AddDiagnostic(d)
	}

	if errs := CheckEmitContract(ns, c); len(errs) > 0 {
		logger.Error("compile: emit-contract violated", "function", c.Name, "violations", len(errs))
		return fmt.Errorf("compiler: function %q violates emit contract: %w", c.Name, errs[0])
	}

	logger.Debug("compile: function done", "function", c.Name, "elapsed", time.Since(phaseStart))
	return nil
}
