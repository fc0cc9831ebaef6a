// Package diagdump persists a compiled namespace's diagnostics and arena
// summary for IDE/tooling consumption after a batch compile. It is
// write-only from the driver's perspective and read-only from tooling's:
// nothing here feeds back into a later compile (spec.md §9, "namespace's
// arena-of-indices design makes it trivially serializable for diagnostic
// dumps"; Non-goals exclude incremental recompilation).
package diagdump

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"solen.dev/compiler/namespace"
)

var bucketRuns = []byte("runs_by_id")

// Record is what gets serialized for one compilation run.
type Record struct {
	RunID       string                  `json:"run_id"`
	Target      string                  `json:"target"`
	CompletedAt time.Time               `json:"completed_at"`
	Diagnostics []namespace.Diagnostic  `json:"diagnostics"`
	Contracts   []string                `json:"contracts"`
}

// Store is a bbolt-backed diagnostic dump keyed by compilation-run ID,
// laid out with the same bucket-per-concern convention and atomic-manifest
// pattern as the teacher's node/store package.
type Store struct {
	path string
	db   *bolt.DB
}

// Open opens (creating if absent) the dump database at path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("diagdump: path required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("diagdump: mkdir: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("diagdump: open: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketRuns)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("diagdump: init buckets: %w", err)
	}

	return &Store{path: path, db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put writes r under its RunID, overwriting any prior record for the same
// run.
func (s *Store) Put(r Record) error {
	if r.RunID == "" {
		return fmt.Errorf("diagdump: run id required")
	}
	b, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("diagdump: marshal: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketRuns).Put([]byte(r.RunID), b)
	})
}

// Get reads back the record for runID, returning (nil, nil) if absent.
func (s *Store) Get(runID string) (*Record, error) {
	var rec *Record
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketRuns).Get([]byte(runID))
		if b == nil {
			return nil
		}
		var r Record
		if err := json.Unmarshal(b, &r); err != nil {
			return fmt.Errorf("diagdump: unmarshal: %w", err)
		}
		rec = &r
		return nil
	})
	return rec, err
}

// FromNamespace builds a Record for runID/target from a sealed namespace.
func FromNamespace(ns *namespace.Namespace, runID, target string, completedAt time.Time) Record {
	contracts := make([]string, len(ns.Contracts))
	for i, c := range ns.Contracts {
		contracts[i] = c.Name
	}
	return Record{
		RunID:       runID,
		Target:      target,
		CompletedAt: completedAt,
		Diagnostics: append([]namespace.Diagnostic(nil), ns.Diagnostics...),
		Contracts:   contracts,
	}
}
