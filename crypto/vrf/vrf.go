// Package vrf defines the object model shared by every Verifiable Random
// Function implementation: the closed set of algorithm types, the per-type
// parameter registry, and the capability interfaces that concrete secret
// keys, public keys, and proofs satisfy.
package vrf

import "errors"

var (
	// ErrUnknownType is returned when an operation names an algorithm type
	// outside the closed enumeration.
	ErrUnknownType = errors.New("vrf: unknown algorithm type")

	// ErrTypeMismatch is returned when two objects that must share an
	// algorithm type do not.
	ErrTypeMismatch = errors.New("vrf: algorithm type mismatch")

	// ErrMalformed is returned when imported bytes are structurally invalid
	// for the declared algorithm type.
	ErrMalformed = errors.New("vrf: malformed input")

	// ErrNotInitialized is returned when an operation is invoked on an
	// object whose import never succeeded.
	ErrNotInitialized = errors.New("vrf: object not initialized")
)

// Object is the interface implemented by every VRF key and proof.
type Object interface {
	// IsInitialized reports whether the object holds usable material.
	IsInitialized() bool
	// Type returns the algorithm type the object is bound to.
	Type() Type
}

// Serializable is the interface implemented by objects that move to and from
// their fixed byte encoding. FromBytes replaces the receiver's contents; on
// any structural problem it returns an error and leaves the receiver
// uninitialized.
type Serializable interface {
	Bytes() ([]byte, error)
	FromBytes(t Type, raw []byte) error
}

// SecretKey represents a VRF secret key. Secret keys are never serialized
// through the public byte surface; only their derived public keys are.
type SecretKey interface {
	Object

	// Prove computes the proof for the given input. For a fixed key and
	// input the result is byte-identical across calls.
	Prove(input []byte) (Proof, error)
	// PublicKey derives the matching public key.
	PublicKey() (PublicKey, error)
	// Clone returns a deep copy with independent buffers.
	Clone() SecretKey
}

// PublicKey represents a VRF public key.
type PublicKey interface {
	Object
	Serializable

	// Verify checks the proof against the input. It returns the VRF output
	// on success and (false, nil) on any rejection: malformed proof, type
	// mismatch, or cryptographic failure. It never panics.
	Verify(input []byte, proof Proof) (bool, []byte)
	Clone() PublicKey
}

// Proof represents a VRF proof: an opaque byte buffer of the fixed length
// declared by its algorithm type.
type Proof interface {
	Object
	Serializable

	Clone() Proof
}
