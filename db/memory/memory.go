// Package memory provides in-memory implementations of the database
// interfaces, primarily for use in tests.
package memory

import (
	"fmt"
	"sort"

	"github.com/keylattice/vrfkit/db"
)

// KeyStore implements the db.KeyStore interface in memory.
type KeyStore struct {
	Keys      map[string]db.KeyRecord
	ProofLogs map[string][]db.ProofRecord

	ReadOnly bool
}

var _ db.KeyStore = &KeyStore{}

func NewKeyStore() *KeyStore {
	return &KeyStore{
		Keys:      make(map[string]db.KeyRecord),
		ProofLogs: make(map[string][]db.ProofRecord),
	}
}

func (m *KeyStore) Clone() db.KeyStore {
	return &KeyStore{Keys: m.Keys, ProofLogs: m.ProofLogs, ReadOnly: true}
}

func (m *KeyStore) GetKey(name string) (*db.KeyRecord, error) {
	rec, ok := m.Keys[name]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (m *KeyStore) PutKey(rec *db.KeyRecord) error {
	if m.ReadOnly {
		panic("store is readonly")
	}
	if rec.Name == "" {
		return fmt.Errorf("key record has no name")
	}
	m.Keys[rec.Name] = *rec
	return nil
}

func (m *KeyStore) ListKeys() ([]string, error) {
	out := make([]string, 0, len(m.Keys))
	for name := range m.Keys {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

func (m *KeyStore) LogProof(rec *db.ProofRecord) error {
	if m.ReadOnly {
		panic("store is readonly")
	}
	if rec.Key == "" {
		return fmt.Errorf("proof record has no key name")
	}
	m.ProofLogs[rec.Key] = append(m.ProofLogs[rec.Key], *rec)
	return nil
}

func (m *KeyStore) Proofs(key string) ([]*db.ProofRecord, error) {
	logs := m.ProofLogs[key]
	out := make([]*db.ProofRecord, 0, len(logs))
	for i := range logs {
		rec := logs[i]
		out = append(out, &rec)
	}
	return out, nil
}

func (m *KeyStore) Commit() error { return nil }
