package database

import (
	"bytes"
	"encoding/gob"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
)

// summaryKey is the single key a sidecar database stores its blob
// under; one Summary per sidecar path.
var summaryKey = []byte("summary")

// SaveSummary persists s's derived fields (S_P, P_L) to an embedded
// Badger database at path, so a future run can call LoadSummary
// instead of repeating the self-join sampling pass.
func SaveSummary(path string, s *Summary) error {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return fmt.Errorf("database: opening summary sidecar: %w", err)
	}
	defer db.Close()

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s.Snapshot()); err != nil {
		return fmt.Errorf("database: encoding summary: %w", err)
	}

	return db.Update(func(txn *badger.Txn) error {
		return txn.Set(summaryKey, buf.Bytes())
	})
}

// LoadSummary reads a sidecar database written by SaveSummary.
func LoadSummary(path string) (Snapshot, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return Snapshot{}, fmt.Errorf("database: opening summary sidecar: %w", err)
	}
	defer db.Close()

	var snap Snapshot
	err = db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(summaryKey)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return gob.NewDecoder(bytes.NewReader(val)).Decode(&snap)
		})
	})
	if err != nil {
		return Snapshot{}, fmt.Errorf("database: reading summary sidecar: %w", err)
	}
	return snap, nil
}
