// Command solenc runs the middle end's pass pipeline over a namespace
// handed to it as JSON (the output a front end would otherwise hand the
// driver in process). Parsing Solen source text into a namespace is the
// front end's job and is out of scope for this repository (spec.md §1);
// this binary exists to drive the core end to end the way cmd/rubin-node
// drives the teacher's consensus and sync packages end to end.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"solen.dev/compiler/compiler"
	"solen.dev/compiler/diagdump"
	"solen.dev/compiler/namespace"
	"solen.dev/compiler/project"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("solenc", flag.ContinueOnError)
	fs.SetOutput(stderr)

	manifestPath := fs.String("project", "solen.toml", "path to the project manifest")
	namespacePath := fs.String("namespace", "", "path to a front-end-produced namespace JSON file")
	dumpPath := fs.String("dump", "", "bbolt diagnostic-dump path (empty disables dumping)")
	runID := fs.String("run-id", "", "identifier for this compilation run, required with -dump")
	logLevel := fs.String("log-level", "", "override the manifest's log level: debug|info|warn|error")
	dryRun := fs.Bool("dry-run", false, "load and validate the project manifest, then exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	manifest, err := project.Load(*manifestPath)
	if err != nil {
		fmt.Fprintf(stderr, "manifest load failed: %v\n", err)
		return 2
	}
	if *logLevel != "" {
		manifest.LogLevel = *logLevel
	}
	if err := manifest.Validate(); err != nil {
		fmt.Fprintf(stderr, "invalid project manifest: %v\n", err)
		return 2
	}

	logger := newLogger(stderr, manifest.LogLevel)

	if *dryRun {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(manifest)
		return 0
	}

	if *namespacePath == "" {
		fmt.Fprintln(stderr, "-namespace is required unless -dry-run is set")
		return 2
	}

	target, err := compiler.ParseTarget(manifest.Target)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 2
	}

	ns, err := loadNamespace(*namespacePath)
	if err != nil {
		fmt.Fprintf(stderr, "namespace load failed: %v\n", err)
		return 2
	}
	ns.Seal()

	result, err := compiler.Compile(context.Background(), ns, compiler.Options{
		Target: target,
		Logger: logger,
	})
	if err != nil {
		fmt.Fprintf(stderr, "compile failed: %v\n", err)
		return 2
	}

	if err := printDiagnostics(stdout, result.Diagnostics); err != nil {
		fmt.Fprintf(stderr, "diagnostic encode failed: %v\n", err)
		return 1
	}

	if *dumpPath != "" {
		if *runID == "" {
			fmt.Fprintln(stderr, "-run-id is required with -dump")
			return 2
		}
		if err := dumpResult(*dumpPath, *runID, manifest.Target, ns); err != nil {
			fmt.Fprintf(stderr, "diagnostic dump failed: %v\n", err)
			return 2
		}
	}

	if ns.HasErrors() {
		return 1
	}
	return 0
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

func loadNamespace(path string) (*namespace.Namespace, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var ns namespace.Namespace
	if err := json.Unmarshal(raw, &ns); err != nil {
		return nil, err
	}
	return &ns, nil
}

func printDiagnostics(w io.Writer, diags []namespace.Diagnostic) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(diags)
}

func dumpResult(path, runID, target string, ns *namespace.Namespace) error {
	store, err := diagdump.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()
	rec := diagdump.FromNamespace(ns, runID, target, time.Now())
	return store.Put(rec)
}
