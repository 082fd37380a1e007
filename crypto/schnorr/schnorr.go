// Package schnorr implements the outer transaction signature: a Schnorr
// signature over Ristretto255 using the account's existing ElGamal
// keypair as its signing key, the natural choice once every account key
// is already a Ristretto scalar/point pair (spec §6, "signature covers
// the hash of the canonical encoding").
package schnorr

import (
	"errors"

	"github.com/tos-network/terminos/crypto/curve"
)

// ErrInvalidSignature is returned by Verify on a failed check.
var ErrInvalidSignature = errors.New("schnorr: invalid signature")

// Signature is (R, s): a nonce commitment and the response scalar.
type Signature struct {
	R *curve.Point
	S *curve.Scalar
}

// Sign produces a Schnorr signature over msgHash (the Blake3 hash of the
// transaction's canonical encoding) under secret key sk.
func Sign(sk *curve.Scalar, msgHash []byte) (Signature, error) {
	k, err := curve.RandomScalar()
	if err != nil {
		return Signature{}, err
	}
	R := curve.PointMulScalar(k, curve.Basepoint())
	pk := curve.PointMulScalar(sk, curve.Basepoint())
	e := challenge(R, pk, msgHash)
	s := curve.ScalarAdd(k, curve.ScalarMul(e, sk))
	return Signature{R: R, S: s}, nil
}

// Verify checks sig against pk and msgHash.
func Verify(pk *curve.Point, msgHash []byte, sig Signature) error {
	e := challenge(sig.R, pk, msgHash)
	lhs := curve.PointMulScalar(sig.S, curve.Basepoint())
	rhs := curve.PointAdd(sig.R, curve.PointMulScalar(e, pk))
	if lhs.Equal(rhs) != 1 {
		return ErrInvalidSignature
	}
	return nil
}

func challenge(R, pk *curve.Point, msgHash []byte) *curve.Scalar {
	buf := make([]byte, 0, 32+32+len(msgHash))
	buf = append(buf, R.Bytes()...)
	buf = append(buf, pk.Bytes()...)
	buf = append(buf, msgHash...)
	return curve.HashToScalar(buf)
}

// Bytes encodes the signature as R ∥ S (64 bytes).
func (sig Signature) Bytes() []byte {
	out := make([]byte, 0, 64)
	out = append(out, sig.R.Bytes()...)
	out = append(out, sig.S.Bytes()...)
	return out
}

// Decode parses a 64-byte signature.
func Decode(b []byte) (Signature, error) {
	if len(b) != 64 {
		return Signature{}, ErrInvalidSignature
	}
	r, err := curve.DecodePoint(b[:32])
	if err != nil {
		return Signature{}, err
	}
	s, err := curve.DecodeScalar(b[32:])
	if err != nil {
		return Signature{}, err
	}
	return Signature{R: r, S: s}, nil
}
