// Package elgamal implements the twisted-ElGamal / Pedersen encrypted
// balance layer: ciphertexts of the form (C = rG + mH, D = rP) that are
// homomorphic in the encrypted amount, plus the Pedersen commitments the
// source-commitment equality proofs are built over.
package elgamal

import (
	"github.com/tos-network/terminos/crypto/curve"
)

// Ciphertext is the pair (C, D) described in spec §3: C commits to the
// amount under the shared generator H, D carries the randomness under
// the recipient's public key so the holder of the matching secret key
// can recover rG and hence mH.
type Ciphertext struct {
	C *curve.Point
	D *curve.Point
}

// Encrypt produces Encrypt(P, m) = (rG + mH, rP) for a fresh random r.
// The returned scalar is r, needed by the builder to later prove
// statements about this ciphertext without revealing m.
func Encrypt(pubkey *curve.Point, amount uint64) (Ciphertext, *curve.Scalar, error) {
	r, err := curve.RandomScalar()
	if err != nil {
		return Ciphertext{}, nil, err
	}
	ct := EncryptWithRandomness(pubkey, amount, r)
	return ct, r, nil
}

// EncryptWithRandomness builds the ciphertext for an explicit randomness
// scalar, used when the builder must later open a Sigma proof about r.
func EncryptWithRandomness(pubkey *curve.Point, amount uint64, r *curve.Scalar) Ciphertext {
	m := curve.ScalarFromUint64(amount)
	C := curve.Identity().Add(
		curve.Basepoint().ScalarMult(r, curve.Basepoint()),
		curve.H().ScalarMult(m, curve.H()),
	)
	D := curve.Identity().ScalarMult(r, pubkey)
	return Ciphertext{C: C, D: D}
}

// Add returns the componentwise sum of two ciphertexts: homomorphic
// addition of the encrypted amounts (both must be encrypted under the
// same public key for D to remain meaningful).
func Add(a, b Ciphertext) Ciphertext {
	return Ciphertext{
		C: curve.Identity().Add(a.C, b.C),
		D: curve.Identity().Add(a.D, b.D),
	}
}

// SubScalar subtracts a plaintext scalar amount s from a ciphertext's C
// component only: C' = C - sH. D is untouched since s is public (a fee
// or transfer amount already proven elsewhere), not itself encrypted.
func SubScalar(ct Ciphertext, s *curve.Scalar) Ciphertext {
	return Ciphertext{
		C: curve.Identity().Subtract(ct.C, curve.H().ScalarMult(s, curve.H())),
		D: ct.D,
	}
}

// AddScalar adds a plaintext scalar amount s to a ciphertext's C
// component only, the mirror image of SubScalar — used when TOS flows
// back into a balance (e.g. UnfreezeTos) rather than out of it.
func AddScalar(ct Ciphertext, s *curve.Scalar) Ciphertext {
	return Ciphertext{
		C: curve.Identity().Add(ct.C, curve.H().ScalarMult(s, curve.H())),
		D: ct.D,
	}
}

// Sub returns the componentwise difference a - b, used to homomorphically
// remove a transferred ciphertext from the sender's balance.
func Sub(a, b Ciphertext) Ciphertext {
	return Ciphertext{
		C: curve.Identity().Subtract(a.C, b.C),
		D: curve.Identity().Subtract(a.D, b.D),
	}
}

// Equal reports whether two ciphertexts encode the same (C, D) pair.
func Equal(a, b Ciphertext) bool {
	return a.C.Equal(b.C) == 1 && a.D.Equal(b.D) == 1
}

// Bytes returns the 64-byte compressed encoding (C ∥ D).
func (ct Ciphertext) Bytes() []byte {
	out := make([]byte, 64)
	copy(out[:32], ct.C.Bytes())
	copy(out[32:], ct.D.Bytes())
	return out
}

// DecodeCiphertext decompresses a 64-byte (C ∥ D) encoding.
func DecodeCiphertext(b []byte) (Ciphertext, error) {
	if len(b) != 64 {
		return Ciphertext{}, ErrMalformedCiphertext
	}
	c, err := curve.DecodePoint(b[:32])
	if err != nil {
		return Ciphertext{}, err
	}
	d, err := curve.DecodePoint(b[32:])
	if err != nil {
		return Ciphertext{}, err
	}
	return Ciphertext{C: c, D: d}, nil
}

// Commitment is a Pedersen commitment Com(m, r) = mH + rG.
type Commitment struct {
	Point *curve.Point
}

// Commit builds Com(m, r) for an explicit blinding scalar r.
func Commit(amount *curve.Scalar, r *curve.Scalar) Commitment {
	p := curve.Identity().Add(
		curve.H().ScalarMult(amount, curve.H()),
		curve.Basepoint().ScalarMult(r, curve.Basepoint()),
	)
	return Commitment{Point: p}
}

// Bytes returns the compressed 32-byte encoding of the commitment.
func (c Commitment) Bytes() []byte { return c.Point.Bytes() }

// DecodeCommitment decompresses a 32-byte Pedersen commitment.
func DecodeCommitment(b []byte) (Commitment, error) {
	p, err := curve.DecodePoint(b)
	if err != nil {
		return Commitment{}, err
	}
	return Commitment{Point: p}, nil
}
