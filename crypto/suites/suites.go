// Package suites routes top-level VRF operations to the engine implementing
// each algorithm type.
package suites

import (
	"fmt"

	"github.com/keylattice/vrfkit/crypto/vrf"
	"github.com/keylattice/vrfkit/crypto/vrf/ecvrf"
	"github.com/keylattice/vrfkit/crypto/vrf/rsavrf"
)

// Create generates a fresh secret key for the given algorithm type.
func Create(t vrf.Type) (vrf.SecretKey, error) {
	params, ok := vrf.ParamsFor(t)
	if !ok {
		return nil, vrf.ErrUnknownType
	}
	switch params.Family {
	case vrf.FamilyRSA:
		return rsavrf.GenerateSecretKey(t)
	case vrf.FamilyEC:
		return ecvrf.GenerateSecretKey(t)
	}
	return nil, vrf.ErrUnknownType
}

// ProofFromBytes deserializes a proof of the given algorithm type. The
// result is returned only if the import fully succeeded.
func ProofFromBytes(t vrf.Type, raw []byte) (vrf.Proof, error) {
	params, ok := vrf.ParamsFor(t)
	if !ok {
		return nil, vrf.ErrUnknownType
	} else if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty proof", vrf.ErrMalformed)
	}

	var proof vrf.Proof
	switch params.Family {
	case vrf.FamilyRSA:
		proof = rsavrf.NewProof()
	case vrf.FamilyEC:
		proof = ecvrf.NewProof()
	default:
		return nil, vrf.ErrUnknownType
	}

	if err := proof.FromBytes(t, raw); err != nil {
		return nil, err
	} else if !proof.IsInitialized() {
		return nil, vrf.ErrNotInitialized
	}
	return proof, nil
}

// PublicKeyFromBytes deserializes a public key of the given algorithm type.
// The result is returned only if the import fully succeeded.
func PublicKeyFromBytes(t vrf.Type, raw []byte) (vrf.PublicKey, error) {
	params, ok := vrf.ParamsFor(t)
	if !ok {
		return nil, vrf.ErrUnknownType
	} else if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty public key", vrf.ErrMalformed)
	}

	var pub vrf.PublicKey
	switch params.Family {
	case vrf.FamilyRSA:
		pub = rsavrf.NewPublicKey()
	case vrf.FamilyEC:
		pub = ecvrf.NewPublicKey()
	default:
		return nil, vrf.ErrUnknownType
	}

	if err := pub.FromBytes(t, raw); err != nil {
		return nil, err
	} else if !pub.IsInitialized() {
		return nil, vrf.ErrNotInitialized
	}
	return pub, nil
}
