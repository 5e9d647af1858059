package database

import (
	"strings"

	"github.com/aleksaelezovic/rdfquery/pkg/rdf"
)

// Database owns an ordered collection of triples and the Summary
// computed over them. Both are immutable for the lifetime of a query;
// a query's operator tree only ever reads through a Scan (spec.md §3).
type Database struct {
	triples []rdf.Triple
	summary *Summary
}

// New returns an empty database.
func New() *Database {
	return &Database{summary: NewSummary()}
}

// FromTriples builds a database by adding each triple in order.
func FromTriples(triples []rdf.Triple) *Database {
	db := New()
	for _, t := range triples {
		db.Add(t)
	}
	return db
}

// Add appends t and folds it into the running summary.
func (db *Database) Add(t rdf.Triple) {
	db.summary.update(t)
	db.triples = append(db.triples, t)
}

// Triples returns the stored triples in insertion order.
func (db *Database) Triples() []rdf.Triple { return db.triples }

// Summary returns the database's statistics summary.
func (db *Database) Summary() *Summary { return db.summary }

// BuildStatistics runs the second statistics pass that the
// incremental Add calls can't perform on their own (S_P's sampled
// self-join, P_L's histograms already accumulate incrementally, so
// this only recomputes S_P). If persistPath is non-empty, the derived
// fields are also written to a sidecar file so a later run can skip
// the sampling pass (spec.md §6).
func (db *Database) BuildStatistics(persistPath string) error {
	db.summary.buildDerived(db.triples)
	if persistPath == "" {
		return nil
	}
	return SaveSummary(persistPath, db.summary)
}

// LoadStatistics restores previously persisted derived statistics
// (S_P, P_L) from a sidecar file built by BuildStatistics, skipping
// the sampling pass if the stored triple count matches the database's
// current triple count.
func (db *Database) LoadStatistics(persistPath string) error {
	snap, err := LoadSummary(persistPath)
	if err != nil {
		return err
	}
	if snap.TripleCount != uint64(len(db.triples)) {
		db.summary.buildDerived(db.triples)
		return nil
	}
	db.summary.RestoreDerived(snap)
	return nil
}

func (db *Database) String() string {
	var b strings.Builder
	for _, t := range db.triples {
		b.WriteString(t.String())
		b.WriteByte('\n')
	}
	return b.String()
}
