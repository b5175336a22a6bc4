package rsavrf

import (
	"crypto/sha256"
	"testing"

	"github.com/keylattice/vrfkit/crypto/vrf"
)

func pssParams(t *testing.T) vrf.Params {
	t.Helper()
	params, ok := vrf.ParamsFor(vrf.TypeRSAPSS2048SHA256)
	if !ok {
		t.Fatal("missing parameters")
	}
	return params
}

func TestPSSEncodeShape(t *testing.T) {
	params := pssParams(t)
	mHash := sha256.Sum256([]byte("message"))

	em := pssEncode(params, mHash[:])
	if len(em) != params.ProofLen {
		t.Fatalf("encoded message is %d bytes, want %d", len(em), params.ProofLen)
	}
	if em[len(em)-1] != 0xbc {
		t.Fatal("trailer byte is not 0xbc")
	}
	if em[0]&0x80 != 0 {
		t.Fatal("leading bit of maskedDB is not cleared")
	}

	if !pssVerify(params, mHash[:], em) {
		t.Fatal("expected a freshly encoded message to verify")
	}
}

func TestPSSVerifyRejections(t *testing.T) {
	params := pssParams(t)
	mHash := sha256.Sum256([]byte("message"))
	em := pssEncode(params, mHash[:])

	// Wrong message hash.
	otherHash := sha256.Sum256([]byte("other"))
	if pssVerify(params, otherHash[:], em) {
		t.Error("expected a different message to be rejected")
	}

	// Damaged trailer.
	mutated := append([]byte{}, em...)
	mutated[len(mutated)-1] = 0xbb
	if pssVerify(params, mHash[:], mutated) {
		t.Error("expected a damaged trailer to be rejected")
	}

	// Leading bit set.
	mutated = append([]byte{}, em...)
	mutated[0] |= 0x80
	if pssVerify(params, mHash[:], mutated) {
		t.Error("expected a set leading bit to be rejected")
	}

	// Damaged DB padding: any flip inside maskedDB breaks the
	// zeros-then-0x01 shape or the separator itself.
	dbLen := params.ProofLen - params.HashLen - 1
	for _, i := range []int{1, dbLen / 2, dbLen - 1} {
		mutated = append([]byte{}, em...)
		mutated[i] ^= 0x04
		if pssVerify(params, mHash[:], mutated) {
			t.Errorf("expected a flip at DB byte %d to be rejected", i)
		}
	}

	// Damaged hash segment.
	mutated = append([]byte{}, em...)
	mutated[dbLen+3] ^= 0x01
	if pssVerify(params, mHash[:], mutated) {
		t.Error("expected a damaged hash segment to be rejected")
	}

	// Truncated encoding.
	if pssVerify(params, mHash[:], em[:len(em)-1]) {
		t.Error("expected a truncated encoding to be rejected")
	}
}
