// Command solenc-fixtures runs the concrete scenario battery from
// spec.md §8 through the middle-end pass pipeline and writes golden JSON
// fixtures (plus an optional bbolt diagnostic dump) for downstream
// conformance suites — the compiler's analog of the teacher's
// cmd/gen-conformance-fixtures generator.
package main

import (
	"flag"
	"os"
)

func main() {
	fixturesDir := flag.String("out", "fixtures/golden", "directory to write golden JSON fixtures into")
	dumpPath := flag.String("dump", "", "optional bbolt dump path")
	flag.Parse()

	runGeneratorCLI(*fixturesDir, *dumpPath)
	os.Exit(0)
}
