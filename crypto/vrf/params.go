package vrf

import (
	"crypto"
	_ "crypto/sha256"
	_ "crypto/sha512"
)

// Family distinguishes the two algorithm families.
type Family int

const (
	FamilyRSA Family = iota + 1
	FamilyEC
)

// Params holds the fixed parameters of one algorithm type. A Params value is
// looked up once per operation and never mutated.
type Params struct {
	Family Family
	// Bits is the RSA modulus bit length, or the curve field size for EC.
	Bits int
	// Hash is the digest used everywhere the algorithm hashes.
	Hash crypto.Hash
	// SuiteString is the domain-separation constant mixed into all hashing.
	SuiteString []byte
	// HashLen is the digest output length in bytes.
	HashLen int
	// ProofLen is the exact proof encoding length in bytes.
	ProofLen int

	// EC segment lengths: compressed point, challenge, and response. Zero
	// for RSA types, where the proof is a single modulus-length integer.
	PtLen, CLen, QLen int
}

func rsaParams(t Type, bits int, h crypto.Hash) Params {
	return Params{
		Family:      FamilyRSA,
		Bits:        bits,
		Hash:        h,
		SuiteString: []byte(t),
		HashLen:     h.Size(),
		ProofLen:    bits / 8,
	}
}

func ecParams(t Type, h crypto.Hash) Params {
	return Params{
		Family:      FamilyEC,
		Bits:        256,
		Hash:        h,
		SuiteString: []byte(t),
		HashLen:     h.Size(),
		PtLen:       33,
		CLen:        16,
		QLen:        32,
		ProofLen:    33 + 16 + 32,
	}
}

// registry is built once at process start and never mutated.
var registry = map[Type]Params{
	TypeRSAFDH2048SHA256: rsaParams(TypeRSAFDH2048SHA256, 2048, crypto.SHA256),
	TypeRSAFDH3072SHA256: rsaParams(TypeRSAFDH3072SHA256, 3072, crypto.SHA256),
	TypeRSAFDH3072SHA384: rsaParams(TypeRSAFDH3072SHA384, 3072, crypto.SHA384),
	TypeRSAFDH4096SHA512: rsaParams(TypeRSAFDH4096SHA512, 4096, crypto.SHA512),
	TypeRSAPSS2048SHA256: rsaParams(TypeRSAPSS2048SHA256, 2048, crypto.SHA256),
	TypeRSAPSS3072SHA256: rsaParams(TypeRSAPSS3072SHA256, 3072, crypto.SHA256),
	TypeRSAPSS3072SHA384: rsaParams(TypeRSAPSS3072SHA384, 3072, crypto.SHA384),
	TypeRSAPSS4096SHA512: rsaParams(TypeRSAPSS4096SHA512, 4096, crypto.SHA512),
	TypeECP256SHA256:     ecParams(TypeECP256SHA256, crypto.SHA256),
}

// ParamsFor returns the fixed parameters for the given algorithm type, and
// false for TypeUnknown or any value outside the enumeration.
func ParamsFor(t Type) (Params, bool) {
	p, ok := registry[t]
	return p, ok
}

// IsPSSType reports whether t is one of the RSA-PSS algorithm types. The
// remaining RSA types use full-domain hashing.
func IsPSSType(t Type) bool {
	switch t {
	case TypeRSAPSS2048SHA256, TypeRSAPSS3072SHA256, TypeRSAPSS3072SHA384, TypeRSAPSS4096SHA512:
		return true
	}
	return false
}
