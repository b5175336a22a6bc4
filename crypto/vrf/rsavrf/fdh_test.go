package rsavrf

import (
	"bytes"
	"crypto"
	"crypto/rand"
	"crypto/sha256"
	"math/big"
	"testing"

	"github.com/keylattice/vrfkit/crypto/vrf"
)

func TestModExp(t *testing.T) {
	for i := 0; i < 32; i++ {
		base, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 512))
		if err != nil {
			t.Fatal(err)
		}
		exp, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 512))
		if err != nil {
			t.Fatal(err)
		}
		mod, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 512))
		if err != nil {
			t.Fatal(err)
		}
		mod.Add(mod, big.NewInt(2))

		got := modExp(base, exp, mod)
		want := new(big.Int).Exp(base, exp, mod)
		if got.Cmp(want) != 0 {
			t.Fatalf("modExp(%v, %v, %v) = %v, want %v", base, exp, mod, got, want)
		}
	}
}

func TestI2OSP(t *testing.T) {
	out, err := i2osp(big.NewInt(0x0102), 4)
	if err != nil {
		t.Fatal(err)
	} else if !bytes.Equal(out, []byte{0, 0, 1, 2}) {
		t.Fatalf("unexpected encoding: %x", out)
	}

	if _, err := i2osp(big.NewInt(0x010000), 2); err == nil {
		t.Fatal("expected overflow to be rejected")
	}
	if _, err := i2osp(big.NewInt(0xffff), 2); err != nil {
		t.Fatal("expected exact fit to be accepted")
	}
}

func TestMGFCounterLayout(t *testing.T) {
	seed := []byte("seed")
	salt := []byte("salt")

	// Two full SHA-256 blocks plus a truncated third.
	out := mgfSalted(crypto.SHA256, seed, salt, 80)
	if len(out) != 80 {
		t.Fatalf("output is %d bytes, want 80", len(out))
	}

	block := func(ctr byte) []byte {
		d := sha256.New()
		d.Write(seed)
		d.Write(salt)
		d.Write([]byte{0, 0, 0, ctr})
		return d.Sum(nil)
	}
	want := append(block(0), block(1)...)
	want = append(want, block(2)[:16]...)
	if !bytes.Equal(out, want) {
		t.Fatal("mask blocks do not follow the seed || salt || counter layout")
	}
}

func TestHashToFullDomain(t *testing.T) {
	params, _ := vrf.ParamsFor(vrf.TypeRSAFDH2048SHA256)
	salt := digestAll(params.Hash, params.SuiteString)

	em := hashToFullDomain(params, salt, []byte("input"))
	if len(em) != params.ProofLen {
		t.Fatalf("output is %d bytes, want %d", len(em), params.ProofLen)
	}
	if em[0]&0x80 != 0 {
		t.Fatal("leading bit is not cleared")
	}
	if !bytes.Equal(em, hashToFullDomain(params, salt, []byte("input"))) {
		t.Fatal("full-domain hash is not deterministic")
	}
	if bytes.Equal(em, hashToFullDomain(params, salt, []byte("other"))) {
		t.Fatal("distinct inputs produced the same full-domain hash")
	}

	// The salt separates this hash from a generic unsalted FDH.
	if bytes.Equal(em, hashToFullDomain(params, digestAll(params.Hash, []byte("other suite")), []byte("input"))) {
		t.Fatal("salt does not affect the full-domain hash")
	}
}
