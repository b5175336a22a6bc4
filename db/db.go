// Package db implements key storage backends that match a common interface.
package db

// KeyRecord describes one named VRF key. Only the public half is stored;
// secret key material never enters the database.
type KeyRecord struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	PublicKey []byte `json:"public_key"`
	CreatedAt int64  `json:"created_at"`
}

// ProofRecord is the audit record of one issued proof. The input itself is
// not retained, only its digest.
type ProofRecord struct {
	Key       string `json:"key"`
	InputHash []byte `json:"input_hash"`
	Proof     []byte `json:"proof"`
	Output    []byte `json:"output"`
	CreatedAt int64  `json:"created_at"`
}

// KeyStore is the interface the VRF service uses to communicate with its
// database. Writes are batched until Commit.
type KeyStore interface {
	// Clone returns a read-only clone of the current store, suitable for
	// distributing to child goroutines.
	Clone() KeyStore

	// GetKey returns the named key record, or nil if there is none.
	GetKey(name string) (*KeyRecord, error)
	// PutKey stores the given key record, replacing any previous one with
	// the same name.
	PutKey(rec *KeyRecord) error
	// ListKeys returns the names of all stored keys.
	ListKeys() ([]string, error)

	// LogProof appends an audit record for an issued proof.
	LogProof(rec *ProofRecord) error
	// Proofs returns the audit records for the named key, oldest first.
	Proofs(key string) ([]*ProofRecord, error)

	Commit() error
}
