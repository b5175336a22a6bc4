// Package rsavrf implements the RSA VRF family: full-domain-hash proofs and
// RFC 8017-style PSS proofs with an empty salt. Both constructions raise a
// deterministic encoding of the input to the private exponent, so proofs are
// byte-identical across calls.
//
// The modular exponentiation is a plain square-and-multiply over math/big
// and is not constant time. This is a known limitation of the construction,
// not something callers can configure away; keys handled by this package
// should not be used where a local timing adversary is a concern.
package rsavrf

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"fmt"
	"math/big"

	"github.com/keylattice/vrfkit/crypto/vrf"
)

func dup(in []byte) []byte {
	out := make([]byte, len(in))
	copy(out, in)
	return out
}

// SecretKey is an RSA VRF secret key.
type SecretKey struct {
	typ    vrf.Type
	params vrf.Params
	key    *rsa.PrivateKey
	salt   []byte // digest of the suite string, fixed per key
}

var _ vrf.SecretKey = &SecretKey{}

// GenerateSecretKey generates a fresh secret key for the given RSA type.
func GenerateSecretKey(t vrf.Type) (*SecretKey, error) {
	params, ok := vrf.ParamsFor(t)
	if !ok {
		return nil, vrf.ErrUnknownType
	} else if params.Family != vrf.FamilyRSA {
		return nil, fmt.Errorf("%w: not an RSA type", vrf.ErrTypeMismatch)
	}
	key, err := rsa.GenerateKey(rand.Reader, params.Bits)
	if err != nil {
		return nil, fmt.Errorf("generating rsa key: %w", err)
	}
	return NewSecretKey(t, key)
}

// NewSecretKey wraps existing RSA key material as a secret key of the given
// type. The modulus size must match the type's declared bit length.
func NewSecretKey(t vrf.Type, key *rsa.PrivateKey) (*SecretKey, error) {
	params, ok := vrf.ParamsFor(t)
	if !ok {
		return nil, vrf.ErrUnknownType
	} else if params.Family != vrf.FamilyRSA {
		return nil, fmt.Errorf("%w: not an RSA type", vrf.ErrTypeMismatch)
	} else if key == nil || key.N.BitLen() != params.Bits {
		return nil, fmt.Errorf("%w: modulus is not %d bits", vrf.ErrMalformed, params.Bits)
	}
	return &SecretKey{
		typ:    t,
		params: params,
		key:    key,
		salt:   digestAll(params.Hash, params.SuiteString),
	}, nil
}

func (k *SecretKey) IsInitialized() bool { return k.key != nil }
func (k *SecretKey) Type() vrf.Type      { return k.typ }

// Key returns the underlying RSA key material, for callers that need to
// export it through the external key capability.
func (k *SecretKey) Key() *rsa.PrivateKey { return k.key }

// Prove computes the VRF proof for the given input: the encoded message is
// raised to the private exponent and emitted as a fixed-width integer.
func (k *SecretKey) Prove(input []byte) (vrf.Proof, error) {
	if !k.IsInitialized() {
		return nil, vrf.ErrNotInitialized
	}

	var em []byte
	if vrf.IsPSSType(k.typ) {
		mHash := digestAll(k.params.Hash, k.params.SuiteString, input)
		em = pssEncode(k.params, mHash)
	} else {
		em = hashToFullDomain(k.params, k.salt, input)
	}

	s := modExp(os2ip(em), k.key.D, k.key.N)
	raw, err := i2osp(s, k.params.ProofLen)
	if err != nil {
		return nil, fmt.Errorf("encoding proof: %w", err)
	}
	return &Proof{typ: k.typ, params: k.params, data: raw}, nil
}

// PublicKey derives the matching public key.
func (k *SecretKey) PublicKey() (vrf.PublicKey, error) {
	if !k.IsInitialized() {
		return nil, vrf.ErrNotInitialized
	}
	return &PublicKey{
		typ:    k.typ,
		params: k.params,
		key:    &rsa.PublicKey{N: new(big.Int).Set(k.key.N), E: k.key.E},
		salt:   dup(k.salt),
	}, nil
}

// Clone returns a deep copy of the secret key. Only the components the VRF
// uses are carried over; CRT values are not.
func (k *SecretKey) Clone() vrf.SecretKey {
	if !k.IsInitialized() {
		return &SecretKey{typ: k.typ, params: k.params}
	}
	key := &rsa.PrivateKey{
		PublicKey: rsa.PublicKey{N: new(big.Int).Set(k.key.N), E: k.key.E},
		D:         new(big.Int).Set(k.key.D),
	}
	return &SecretKey{typ: k.typ, params: k.params, key: key, salt: dup(k.salt)}
}

// PublicKey is an RSA VRF public key. It serializes as PKIX/SPKI DER.
type PublicKey struct {
	typ    vrf.Type
	params vrf.Params
	key    *rsa.PublicKey
	salt   []byte
}

var _ vrf.PublicKey = &PublicKey{}

// NewPublicKey returns an empty, uninitialized public key suitable for
// FromBytes.
func NewPublicKey() *PublicKey {
	return &PublicKey{typ: vrf.TypeUnknown}
}

func (k *PublicKey) IsInitialized() bool { return k.key != nil }
func (k *PublicKey) Type() vrf.Type      { return k.typ }

func (k *PublicKey) Bytes() ([]byte, error) {
	if !k.IsInitialized() {
		return nil, vrf.ErrNotInitialized
	}
	return x509.MarshalPKIXPublicKey(k.key)
}

func (k *PublicKey) FromBytes(t vrf.Type, raw []byte) error {
	k.typ, k.key, k.salt = vrf.TypeUnknown, nil, nil

	params, ok := vrf.ParamsFor(t)
	if !ok {
		return vrf.ErrUnknownType
	} else if params.Family != vrf.FamilyRSA {
		return fmt.Errorf("%w: not an RSA type", vrf.ErrTypeMismatch)
	} else if len(raw) == 0 {
		return fmt.Errorf("%w: empty public key", vrf.ErrMalformed)
	}
	parsed, err := x509.ParsePKIXPublicKey(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", vrf.ErrMalformed, err)
	}
	pub, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return fmt.Errorf("%w: not an RSA public key", vrf.ErrMalformed)
	} else if pub.N.BitLen() != params.Bits {
		return fmt.Errorf("%w: modulus is not %d bits", vrf.ErrMalformed, params.Bits)
	}

	k.typ, k.params, k.key = t, params, pub
	k.salt = digestAll(params.Hash, params.SuiteString)
	return nil
}

// Verify checks the proof against the input and returns the VRF output on
// success. Any rejection, structural or cryptographic, yields (false, nil).
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

	s := os2ip(p.data)
	if s.Cmp(k.key.N) >= 0 {
		return false, nil
	}
	m := modExp(s, big.NewInt(int64(k.key.E)), k.key.N)
	em, err := i2osp(m, k.params.ProofLen)
	if err != nil {
		return false, nil
	}

	if vrf.IsPSSType(k.typ) {
		mHash := digestAll(k.params.Hash, k.params.SuiteString, input)
		if !pssVerify(k.params, mHash, em) {
			return false, nil
		}
	} else {
		if !bytes.Equal(em, hashToFullDomain(k.params, k.salt, input)) {
			return false, nil
		}
	}
	return true, digestAll(k.params.Hash, p.data)
}

func (k *PublicKey) Clone() vrf.PublicKey {
	if !k.IsInitialized() {
		return &PublicKey{typ: k.typ, params: k.params}
	}
	return &PublicKey{
		typ:    k.typ,
		params: k.params,
		key:    &rsa.PublicKey{N: new(big.Int).Set(k.key.N), E: k.key.E},
		salt:   dup(k.salt),
	}
}

// Proof is an RSA VRF proof: a single modulus-length big-endian integer.
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
	} else if params.Family != vrf.FamilyRSA {
		return fmt.Errorf("%w: not an RSA type", vrf.ErrTypeMismatch)
	} else if len(raw) != params.ProofLen {
		return fmt.Errorf("%w: proof is not %d bytes", vrf.ErrMalformed, params.ProofLen)
	}

	p.typ, p.params, p.data = t, params, dup(raw)
	return nil
}

// Hash recomputes the VRF output from the proof: the digest of the proof
// bytes. The output is never stored.
func (p *Proof) Hash() ([]byte, error) {
	if !p.IsInitialized() {
		return nil, vrf.ErrNotInitialized
	}
	return digestAll(p.params.Hash, p.data), nil
}

func (p *Proof) Clone() vrf.Proof {
	if !p.IsInitialized() {
		return &Proof{typ: p.typ, params: p.params}
	}
	return &Proof{typ: p.typ, params: p.params, data: dup(p.data)}
}
