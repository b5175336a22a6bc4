// Package ecvrf implements the simplified deterministic elliptic-curve VRF
// over P-256.
//
// This construction is not interoperable with a standards-compliant
// elliptic-curve VRF. The proof is a keyed digest stretched to a fixed
// buffer; there is no point arithmetic and no challenge/response structure.
// Full verification is only possible when the public key object still
// carries the secret scalar (as returned by SecretKey.PublicKey), which
// inverts the usual guarantee that verification needs only public material.
// A public key imported from bytes can perform only a degenerate structural
// check that provides no unforgeability. Do not deploy this family where
// real public-key-only verifiability is required.
package ecvrf

import (
	"bytes"
	"crypto/ecdh"
	"crypto/rand"
	"fmt"

	"filippo.io/nistec"

	"github.com/keylattice/vrfkit/crypto/vrf"
)

var curve = ecdh.P256()

func dup(in []byte) []byte {
	out := make([]byte, len(in))
	copy(out, in)
	return out
}

func digestAll(p vrf.Params, parts ...[]byte) []byte {
	d := p.Hash.New()
	for _, part := range parts {
		d.Write(part)
	}
	return d.Sum(nil)
}

// pointToString converts an *ecdh.PublicKey to compressed NIST format.
func pointToString(pt *ecdh.PublicKey) []byte {
	encoded := pt.Bytes()

	buf := make([]byte, 33)
	buf[0] = 2 | (encoded[64] & 1)
	copy(buf[1:33], encoded[1:33])

	return buf
}

// stretch fills a buffer of the given length by repeating the seed and
// truncating the final copy.
func stretch(seed []byte, length int) []byte {
	out := make([]byte, length)
	for off := 0; off < length; off += len(seed) {
		copy(out[off:], seed)
	}
	return out
}

// proofSeed computes the digest the proof buffer is stretched from.
func proofSeed(p vrf.Params, pk, input, sk []byte) []byte {
	return digestAll(p, p.SuiteString, []byte{0x01}, pk, input, sk)
}

// proofToHash computes the VRF output from the proof's point segment.
func proofToHash(p vrf.Params, proof []byte) []byte {
	return digestAll(p, p.SuiteString, []byte{0x03}, proof[:p.PtLen])
}

// SecretKey is a simplified EC VRF secret key: a P-256 scalar.
type SecretKey struct {
	typ    vrf.Type
	params vrf.Params
	key    *ecdh.PrivateKey
}

var _ vrf.SecretKey = &SecretKey{}

// GenerateSecretKey generates a fresh secret key for the given EC type.
func GenerateSecretKey(t vrf.Type) (*SecretKey, error) {
	params, ok := vrf.ParamsFor(t)
	if !ok {
		return nil, vrf.ErrUnknownType
	} else if params.Family != vrf.FamilyEC {
		return nil, fmt.Errorf("%w: not an EC type", vrf.ErrTypeMismatch)
	}
	key, err := curve.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generating ec key: %w", err)
	}
	return &SecretKey{typ: t, params: params, key: key}, nil
}

// NewSecretKey wraps an existing scalar as a secret key of the given type.
func NewSecretKey(t vrf.Type, scalar []byte) (*SecretKey, error) {
	params, ok := vrf.ParamsFor(t)
	if !ok {
		return nil, vrf.ErrUnknownType
	} else if params.Family != vrf.FamilyEC {
		return nil, fmt.Errorf("%w: not an EC type", vrf.ErrTypeMismatch)
	} else if len(scalar) != params.QLen {
		return nil, fmt.Errorf("%w: scalar is not %d bytes", vrf.ErrMalformed, params.QLen)
	}
	key, err := curve.NewPrivateKey(scalar)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", vrf.ErrMalformed, err)
	}
	return &SecretKey{typ: t, params: params, key: key}, nil
}

func (k *SecretKey) IsInitialized() bool { return k.key != nil }
func (k *SecretKey) Type() vrf.Type      { return k.typ }

// Scalar returns a copy of the secret scalar, for callers that need to
// export it.
func (k *SecretKey) Scalar() []byte { return dup(k.key.Bytes()) }

// Prove computes the VRF proof: the digest of the suite string, public key,
// input, and scalar, stretched to the fixed proof length.
func (k *SecretKey) Prove(input []byte) (vrf.Proof, error) {
	if !k.IsInitialized() {
		return nil, vrf.ErrNotInitialized
	}
	pk := pointToString(k.key.PublicKey())
	seed := proofSeed(k.params, pk, input, k.key.Bytes())
	return &Proof{typ: k.typ, params: k.params, data: stretch(seed, k.params.ProofLen)}, nil
}

// PublicKey derives the matching public key. The returned key retains the
// secret scalar so it can perform full verification; see the package doc.
func (k *SecretKey) PublicKey() (vrf.PublicKey, error) {
	if !k.IsInitialized() {
		return nil, vrf.ErrNotInitialized
	}
	return &PublicKey{
		typ:    k.typ,
		params: k.params,
		point:  pointToString(k.key.PublicKey()),
		scalar: dup(k.key.Bytes()),
	}, nil
}

func (k *SecretKey) Clone() vrf.SecretKey {
	if !k.IsInitialized() {
		return &SecretKey{typ: k.typ, params: k.params}
	}
	key, err := curve.NewPrivateKey(k.key.Bytes())
	if err != nil {
		panic(err)
	}
	return &SecretKey{typ: k.typ, params: k.params, key: key}
}

// PublicKey is a simplified EC VRF public key: a compressed P-256 point,
// optionally accompanied by the secret scalar when derived from a secret
// key rather than imported.
type PublicKey struct {
	typ    vrf.Type
	params vrf.Params
	point  []byte // 33-byte compressed point
	scalar []byte // present only in full-verification mode
}

var _ vrf.PublicKey = &PublicKey{}

// NewPublicKey returns an empty, uninitialized public key suitable for
// FromBytes.
func NewPublicKey() *PublicKey {
	return &PublicKey{typ: vrf.TypeUnknown}
}

func (k *PublicKey) IsInitialized() bool { return k.point != nil }
func (k *PublicKey) Type() vrf.Type      { return k.typ }

func (k *PublicKey) Bytes() ([]byte, error) {
	if !k.IsInitialized() {
		return nil, vrf.ErrNotInitialized
	}
	return dup(k.point), nil
}

func (k *PublicKey) FromBytes(t vrf.Type, raw []byte) error {
	k.typ, k.point, k.scalar = vrf.TypeUnknown, nil, nil

	params, ok := vrf.ParamsFor(t)
	if !ok {
		return vrf.ErrUnknownType
	} else if params.Family != vrf.FamilyEC {
		return fmt.Errorf("%w: not an EC type", vrf.ErrTypeMismatch)
	} else if len(raw) != params.PtLen {
		return fmt.Errorf("%w: public key is not %d bytes", vrf.ErrMalformed, params.PtLen)
	} else if raw[0] != 0x02 && raw[0] != 0x03 {
		return fmt.Errorf("%w: unexpected point prefix", vrf.ErrMalformed)
	}
	if _, err := nistec.NewP256Point().SetBytes(raw); err != nil {
		return fmt.Errorf("%w: %v", vrf.ErrMalformed, err)
	}

	k.typ, k.params, k.point = t, params, dup(raw)
	return nil
}

// Verify checks the proof against the input. With the secret scalar present
// the expected proof buffer is recomputed and compared byte for byte; an
// imported key can only confirm the buffer has the declared length and is
// not all zero.
func (k *PublicKey) Verify(input []byte, proof vrf.Proof) (bool, []byte) {
	if !k.IsInitialized() || proof == nil {
		return false, nil
	}
	p, ok := proof.(*Proof)
	if !ok || !p.IsInitialized() || p.typ != k.typ {
		return false, nil
	} else if len(p.data) != k.params.ProofLen {
		return false, nil
	}

	if k.scalar != nil {
		seed := proofSeed(k.params, k.point, input, k.scalar)
		if !bytes.Equal(p.data, stretch(seed, k.params.ProofLen)) {
			return false, nil
		}
	} else {
		nonzero := false
		for _, b := range p.data {
			if b != 0 {
				nonzero = true
				break
			}
		}
		if !nonzero {
			return false, nil
		}
	}
	return true, proofToHash(k.params, p.data)
}

func (k *PublicKey) Clone() vrf.PublicKey {
	out := &PublicKey{typ: k.typ, params: k.params}
	if k.point != nil {
		out.point = dup(k.point)
	}
	if k.scalar != nil {
		out.scalar = dup(k.scalar)
	}
	return out
}

// Proof is a simplified EC VRF proof: a fixed-length buffer laid out as
// point || challenge || response segments, filled from a stretched digest.
type Proof struct {
	typ    vrf.Type
	params vrf.Params
	data   []byte
}

var _ vrf.Proof = &Proof{}

// NewProof returns an empty, uninitialized proof suitable for FromBytes.
func NewProof() *Proof {
	return &Proof{typ: vrf.TypeUnknown}
}

func (p *Proof) IsInitialized() bool { return p.data != nil }
func (p *Proof) Type() vrf.Type      { return p.typ }

func (p *Proof) Bytes() ([]byte, error) {
	if !p.IsInitialized() {
		return nil, vrf.ErrNotInitialized
	}
	return dup(p.data), nil
}

func (p *Proof) FromBytes(t vrf.Type, raw []byte) error {
	p.typ, p.data = vrf.TypeUnknown, nil

	params, ok := vrf.ParamsFor(t)
	if !ok {
		return vrf.ErrUnknownType
	} else if params.Family != vrf.FamilyEC {
		return fmt.Errorf("%w: not an EC type", vrf.ErrTypeMismatch)
	} else if len(raw) != params.ProofLen {
		return fmt.Errorf("%w: proof is not %d bytes", vrf.ErrMalformed, params.ProofLen)
	}

	p.typ, p.params, p.data = t, params, dup(raw)
	return nil
}

// Hash recomputes the VRF output from the proof's point segment.
func (p *Proof) Hash() ([]byte, error) {
	if !p.IsInitialized() {
		return nil, vrf.ErrNotInitialized
	}
	return proofToHash(p.params, p.data), nil
}

func (p *Proof) Clone() vrf.Proof {
	if !p.IsInitialized() {
		return &Proof{typ: p.typ, params: p.params}
	}
	return &Proof{typ: p.typ, params: p.params, data: dup(p.data)}
}
