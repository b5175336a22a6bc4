package db

import (
	"bytes"
	"path/filepath"
	"reflect"
	"testing"
)

func TestKeyStoreRoundTrip(t *testing.T) {
	store, err := NewLDBKeyStore(filepath.Join(t.TempDir(), "keys"))
	if err != nil {
		t.Fatal(err)
	}

	rec := &KeyRecord{
		Name:      "primary",
		Type:      "RSA_FDH_VRF_RSA2048_SHA256",
		PublicKey: []byte{1, 2, 3},
		CreatedAt: 1000,
	}
	if err := store.PutKey(rec); err != nil {
		t.Fatal(err)
	}

	// Batched writes are visible before Commit.
	got, err := store.GetKey("primary")
	if err != nil {
		t.Fatal(err)
	} else if got == nil || !bytes.Equal(got.PublicKey, rec.PublicKey) {
		t.Fatalf("unexpected record before commit: %+v", got)
	}

	if err := store.Commit(); err != nil {
		t.Fatal(err)
	}
	got, err = store.GetKey("primary")
	if err != nil {
		t.Fatal(err)
	} else if !reflect.DeepEqual(got, rec) {
		t.Fatalf("got %+v, want %+v", got, rec)
	}

	if got, err := store.GetKey("absent"); err != nil || got != nil {
		t.Fatalf("expected nil record for an absent key, got %+v, %v", got, err)
	}

	names, err := store.ListKeys()
	if err != nil {
		t.Fatal(err)
	} else if !reflect.DeepEqual(names, []string{"primary"}) {
		t.Fatalf("unexpected key list: %v", names)
	}
}

func TestProofLogOrder(t *testing.T) {
	store, err := NewLDBKeyStore(filepath.Join(t.TempDir(), "keys"))
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		err := store.LogProof(&ProofRecord{
			Key:       "primary",
			InputHash: []byte{byte(i)},
			Proof:     []byte{0xaa, byte(i)},
			CreatedAt: int64(i),
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	if err := store.Commit(); err != nil {
		t.Fatal(err)
	}

	recs, err := store.Proofs("primary")
	if err != nil {
		t.Fatal(err)
	} else if len(recs) != 3 {
		t.Fatalf("got %d records, want 3", len(recs))
	}
	for i, rec := range recs {
		if rec.CreatedAt != int64(i) {
			t.Fatalf("records out of order: %+v", recs)
		}
	}

	if recs, err := store.Proofs("absent"); err != nil || len(recs) != 0 {
		t.Fatalf("expected no records for an absent key, got %v, %v", recs, err)
	}
}

func TestReadonlyClone(t *testing.T) {
	store, err := NewLDBKeyStore(filepath.Join(t.TempDir(), "keys"))
	if err != nil {
		t.Fatal(err)
	}
	if err := store.PutKey(&KeyRecord{Name: "primary"}); err != nil {
		t.Fatal(err)
	}
	if err := store.Commit(); err != nil {
		t.Fatal(err)
	}

	clone := store.Clone()
	if got, err := clone.GetKey("primary"); err != nil || got == nil {
		t.Fatalf("clone cannot read committed state: %+v, %v", got, err)
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected writing through a readonly clone to panic")
		}
	}()
	clone.PutKey(&KeyRecord{Name: "other"})
}
