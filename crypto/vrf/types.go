package vrf

// Type identifies one concrete VRF algorithm. The enumeration is closed:
// exactly nine algorithms are defined, and every unrecognized string maps to
// TypeUnknown.
type Type string

const (
	TypeUnknown Type = "UNKNOWN"

	// RSA full-domain-hash variants.
	TypeRSAFDH2048SHA256 Type = "RSA_FDH_VRF_RSA2048_SHA256"
	TypeRSAFDH3072SHA256 Type = "RSA_FDH_VRF_RSA3072_SHA256"
	TypeRSAFDH3072SHA384 Type = "RSA_FDH_VRF_RSA3072_SHA384"
	TypeRSAFDH4096SHA512 Type = "RSA_FDH_VRF_RSA4096_SHA512"

	// RSA PSS variants with an empty salt.
	TypeRSAPSS2048SHA256 Type = "RSA_PSS_VRF_RSA2048_SHA256"
	TypeRSAPSS3072SHA256 Type = "RSA_PSS_VRF_RSA3072_SHA256"
	TypeRSAPSS3072SHA384 Type = "RSA_PSS_VRF_RSA3072_SHA384"
	TypeRSAPSS4096SHA512 Type = "RSA_PSS_VRF_RSA4096_SHA512"

	// Simplified elliptic-curve variant over P-256.
	TypeECP256SHA256 Type = "EC_VRF_P256_SHA256"
)

// Types lists every concrete algorithm type, in registry order.
var Types = []Type{
	TypeRSAFDH2048SHA256,
	TypeRSAFDH3072SHA256,
	TypeRSAFDH3072SHA384,
	TypeRSAFDH4096SHA512,
	TypeRSAPSS2048SHA256,
	TypeRSAPSS3072SHA256,
	TypeRSAPSS3072SHA384,
	TypeRSAPSS4096SHA512,
	TypeECP256SHA256,
}

// ParseType maps a string to its algorithm type. Unrecognized strings,
// including "UNKNOWN" itself, map to TypeUnknown.
func ParseType(s string) Type {
	t := Type(s)
	if _, ok := registry[t]; ok {
		return t
	}
	return TypeUnknown
}

// IsRSAType reports whether t is one of the RSA algorithm types.
func IsRSAType(t Type) bool {
	p, ok := registry[t]
	return ok && p.Family == FamilyRSA
}

// IsECType reports whether t is one of the elliptic-curve algorithm types.
func IsECType(t Type) bool {
	p, ok := registry[t]
	return ok && p.Family == FamilyEC
}
