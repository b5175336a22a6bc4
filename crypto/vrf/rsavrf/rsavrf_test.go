package rsavrf

import (
	"bytes"
	"crypto/sha256"
	"testing"

	"github.com/keylattice/vrfkit/crypto/vrf"
)

func mustGenerate(t *testing.T, typ vrf.Type) *SecretKey {
	t.Helper()
	priv, err := GenerateSecretKey(typ)
	if err != nil {
		t.Fatal(err)
	}
	return priv
}

func mustProve(t *testing.T, priv *SecretKey, input []byte) []byte {
	t.Helper()
	proof, err := priv.Prove(input)
	if err != nil {
		t.Fatal(err)
	}
	raw, err := proof.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	return raw
}

func TestCorrectness(t *testing.T) {
	for _, typ := range []vrf.Type{vrf.TypeRSAFDH2048SHA256, vrf.TypeRSAPSS2048SHA256} {
		priv := mustGenerate(t, typ)
		pub, err := priv.PublicKey()
		if err != nil {
			t.Fatal(err)
		}

		input := []byte("Hello, World!")
		proof, err := priv.Prove(input)
		if err != nil {
			t.Fatal(err)
		}
		ok, output := pub.Verify(input, proof)
		if !ok {
			t.Fatalf("%v: expected verification to succeed", typ)
		}
		raw, _ := proof.Bytes()
		digest := sha256.Sum256(raw)
		if !bytes.Equal(output, digest[:]) {
			t.Fatalf("%v: output is not the digest of the proof", typ)
		}

		if ok, _ := pub.Verify([]byte("Something else"), proof); ok {
			t.Fatalf("%v: expected verification to fail for a different input", typ)
		}
	}
}

func TestAllTypes(t *testing.T) {
	for _, typ := range vrf.Types {
		if !vrf.IsRSAType(typ) {
			continue
		}
		params, _ := vrf.ParamsFor(typ)
		if testing.Short() && params.Bits > 2048 {
			continue
		}

		priv := mustGenerate(t, typ)
		pub, err := priv.PublicKey()
		if err != nil {
			t.Fatal(err)
		}
		proof, err := priv.Prove([]byte("input"))
		if err != nil {
			t.Fatal(err)
		}
		raw, _ := proof.Bytes()
		if len(raw) != params.ProofLen {
			t.Errorf("%v: proof is %d bytes, want %d", typ, len(raw), params.ProofLen)
		}
		if ok, output := pub.Verify([]byte("input"), proof); !ok {
			t.Errorf("%v: expected verification to succeed", typ)
		} else if len(output) != params.HashLen {
			t.Errorf("%v: output is %d bytes, want %d", typ, len(output), params.HashLen)
		}
	}
}

func TestDeterminism(t *testing.T) {
	priv := mustGenerate(t, vrf.TypeRSAPSS2048SHA256)
	input := []byte("determinism")

	if !bytes.Equal(mustProve(t, priv, input), mustProve(t, priv, input)) {
		t.Fatal("repeated proofs are not byte-identical")
	}
}

func TestEmptyInput(t *testing.T) {
	priv := mustGenerate(t, vrf.TypeRSAFDH2048SHA256)
	pub, err := priv.PublicKey()
	if err != nil {
		t.Fatal(err)
	}

	proof, err := priv.Prove([]byte{})
	if err != nil {
		t.Fatal(err)
	}
	raw, _ := proof.Bytes()
	if len(raw) != 256 {
		t.Fatalf("proof is %d bytes, want 256", len(raw))
	}

	ok, output := pub.Verify([]byte{}, proof)
	if !ok {
		t.Fatal("expected verification to succeed")
	}
	digest := sha256.Sum256(raw)
	if len(output) != 32 || !bytes.Equal(output, digest[:]) {
		t.Fatal("output is not the 32-byte digest of the proof")
	}
}

func TestTamperRejection(t *testing.T) {
	priv := mustGenerate(t, vrf.TypeRSAFDH2048SHA256)
	pub, err := priv.PublicKey()
	if err != nil {
		t.Fatal(err)
	}

	input := []byte("tamper")
	raw := mustProve(t, priv, input)

	for i := range raw {
		for bit := 0; bit < 8; bit++ {
			mutated := make([]byte, len(raw))
			copy(mutated, raw)
			mutated[i] ^= 1 << bit

			proof := NewProof()
			if err := proof.FromBytes(priv.Type(), mutated); err != nil {
				t.Fatal(err)
			}
			if ok, output := pub.Verify(input, proof); ok || output != nil {
				t.Fatalf("expected rejection after flipping bit %d of byte %d", bit, i)
			}
		}
	}
}

func TestPublicKeyRoundTrip(t *testing.T) {
	priv := mustGenerate(t, vrf.TypeRSAFDH2048SHA256)
	pub, err := priv.PublicKey()
	if err != nil {
		t.Fatal(err)
	}
	raw, err := pub.Bytes()
	if err != nil {
		t.Fatal(err)
	}

	imported := NewPublicKey()
	if err := imported.FromBytes(priv.Type(), raw); err != nil {
		t.Fatal(err)
	}
	raw2, err := imported.Bytes()
	if err != nil {
		t.Fatal(err)
	} else if !bytes.Equal(raw, raw2) {
		t.Fatal("re-serialized public key differs")
	}

	// A key imported from bytes verifies proofs on its own.
	proof, err := priv.Prove([]byte("round trip"))
	if err != nil {
		t.Fatal(err)
	}
	if ok, _ := imported.Verify([]byte("round trip"), proof); !ok {
		t.Fatal("imported public key failed to verify")
	}
}

func TestFromBytesFailureLeavesUninitialized(t *testing.T) {
	pub := NewPublicKey()
	if err := pub.FromBytes(vrf.TypeRSAFDH2048SHA256, []byte{0x30, 0x00}); err == nil {
		t.Fatal("expected import of garbage DER to fail")
	}
	if pub.IsInitialized() {
		t.Fatal("failed import left the key initialized")
	}
	if ok, _ := pub.Verify([]byte("x"), NewProof()); ok {
		t.Fatal("uninitialized key verified a proof")
	}

	proof := NewProof()
	if err := proof.FromBytes(vrf.TypeRSAFDH2048SHA256, []byte{1, 2, 3}); err == nil {
		t.Fatal("expected import of a short proof to fail")
	}
	if proof.IsInitialized() {
		t.Fatal("failed import left the proof initialized")
	}
}

func TestCloneIndependence(t *testing.T) {
	priv := mustGenerate(t, vrf.TypeRSAFDH2048SHA256)
	clone := priv.Clone()

	input := []byte("clone")
	if !bytes.Equal(mustProve(t, priv, input), mustProve(t, clone.(*SecretKey), input)) {
		t.Fatal("clone produces different proofs")
	}

	proof, _ := priv.Prove(input)
	raw, _ := proof.Bytes()
	raw[0] ^= 0xff
	raw2, _ := proof.Bytes()
	if raw2[0] == raw[0] {
		t.Fatal("Bytes aliases the proof's internal buffer")
	}
}
