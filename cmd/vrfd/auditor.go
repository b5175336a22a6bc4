package main

import (
	"log"

	"github.com/keylattice/vrfkit/db"
)

// auditor sequences proof audit records into the database from a single
// goroutine, so request handlers never write to the store directly.
func auditor(tx db.KeyStore, ch <-chan db.ProofRecord) {
	for rec := range ch {
		if err := tx.LogProof(&rec); err != nil {
			log.Printf("Failed to record proof for key %q: %v", rec.Key, err)
			continue
		}
		if err := tx.Commit(); err != nil {
			log.Printf("Failed to commit audit record: %v", err)
		}
	}
}
