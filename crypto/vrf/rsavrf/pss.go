package rsavrf

import (
	"bytes"

	"github.com/keylattice/vrfkit/crypto/vrf"
)

// PSS encoding per RFC 8017 with an empty salt. Because the salt is empty,
// DB is all zero padding followed by a single 0x01 separator, and the
// encoding is deterministic.

var pssZeroPrefix = make([]byte, 8)

// pssEncode builds the encoded message EM = maskedDB || H || 0xbc for the
// given message hash. The leading bit of maskedDB is cleared so EM fits in
// modBits - 1 bits.
func pssEncode(p vrf.Params, mHash []byte) []byte {
	emLen := p.ProofLen
	hLen := p.HashLen
	dbLen := emLen - hLen - 1

	h := digestAll(p.Hash, pssZeroPrefix, mHash)

	db := make([]byte, dbLen)
	db[dbLen-1] = 0x01

	dbMask := mgf1(p.Hash, h, dbLen)
	for i := range db {
		db[i] ^= dbMask[i]
	}
	db[0] &= 0x7f

	em := make([]byte, 0, emLen)
	em = append(em, db...)
	em = append(em, h...)
	em = append(em, 0xbc)
	return em
}

// pssVerify checks that em is a valid empty-salt PSS encoding of mHash.
func pssVerify(p vrf.Params, mHash, em []byte) bool {
	emLen := p.ProofLen
	hLen := p.HashLen
	dbLen := emLen - hLen - 1

	if len(em) != emLen || em[emLen-1] != 0xbc {
		return false
	}
	maskedDB := em[:dbLen]
	h := em[dbLen : dbLen+hLen]
	if maskedDB[0]&0x80 != 0 {
		return false
	}

	dbMask := mgf1(p.Hash, h, dbLen)
	db := make([]byte, dbLen)
	for i := range db {
		db[i] = maskedDB[i] ^ dbMask[i]
	}
	db[0] &= 0x7f

	// The empty salt means DB must be zero padding terminated by exactly
	// one 0x01 byte, with nothing after the separator.
	for i := 0; i < dbLen-1; i++ {
		if db[i] != 0 {
			return false
		}
	}
	if db[dbLen-1] != 0x01 {
		return false
	}

	expected := digestAll(p.Hash, pssZeroPrefix, mHash)
	return bytes.Equal(h, expected)
}
