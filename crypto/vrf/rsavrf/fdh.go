package rsavrf

import (
	"crypto"
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/keylattice/vrfkit/crypto/vrf"
)

func digestAll(h crypto.Hash, parts ...[]byte) []byte {
	d := h.New()
	for _, p := range parts {
		d.Write(p)
	}
	return d.Sum(nil)
}

// mgfSalted stretches seed to outLen bytes by concatenating digests of
// seed || salt || counter, with a 4-byte big-endian counter starting at 0.
// The salt is what domain-separates the VRF's full-domain hash from a
// generic RSA-FDH signature hash. With a nil salt this is standard MGF1.
func mgfSalted(h crypto.Hash, seed, salt []byte, outLen int) []byte {
	out := make([]byte, 0, outLen+h.Size())
	var ctr [4]byte
	for i := 0; len(out) < outLen; i++ {
		binary.BigEndian.PutUint32(ctr[:], uint32(i))
		out = append(out, digestAll(h, seed, salt, ctr[:])...)
	}
	return out[:outLen]
}

func mgf1(h crypto.Hash, seed []byte, outLen int) []byte {
	return mgfSalted(h, seed, nil, outLen)
}

// hashToFullDomain hashes the input to a modulus-length byte string: the
// digest of suiteString || input is stretched with the salted MGF. The
// leading bit is cleared so the resulting integer stays below the modulus.
func hashToFullDomain(p vrf.Params, salt, input []byte) []byte {
	seed := digestAll(p.Hash, p.SuiteString, input)
	em := mgfSalted(p.Hash, seed, salt, p.ProofLen)
	em[0] &= 0x7f
	return em
}

// modExp computes base^exp mod mod with binary square-and-multiply. It is
// not hardened against timing side channels.
func modExp(base, exp, mod *big.Int) *big.Int {
	result := big.NewInt(1)
	b := new(big.Int).Mod(base, mod)
	for i := exp.BitLen() - 1; i >= 0; i-- {
		result.Mul(result, result).Mod(result, mod)
		if exp.Bit(i) == 1 {
			result.Mul(result, b).Mod(result, mod)
		}
	}
	return result
}

// i2osp encodes x as a big-endian byte string of exactly the given length.
func i2osp(x *big.Int, length int) ([]byte, error) {
	if x.Sign() < 0 || x.BitLen() > 8*length {
		return nil, fmt.Errorf("%w: integer does not fit in %d bytes", vrf.ErrMalformed, length)
	}
	out := make([]byte, length)
	x.FillBytes(out)
	return out, nil
}

// os2ip interprets a byte string as a big-endian unsigned integer.
func os2ip(raw []byte) *big.Int {
	return new(big.Int).SetBytes(raw)
}
