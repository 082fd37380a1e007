// Package sigma implements the two Sigma-protocol proof families of
// spec §4.3.1–2: ciphertext validity (for transfer outputs) and
// source-commitment equality (tying a Pedersen commitment to the
// homomorphically-derived new balance ciphertext). Both are Schnorr-style
// proofs of knowledge over the shared Fiat-Shamir transcript.
package sigma

import (
	"github.com/tos-network/terminos/crypto/curve"
	"github.com/tos-network/terminos/crypto/elgamal"
	"github.com/tos-network/terminos/crypto/transcript"
)

// CiphertextValidityProof proves knowledge of (amount, randomness) such
// that a TransferOutput's three components — the shared commitment C and
// the two decryption handles under the recipient's and sender's keys —
// were built from the same (m, r) pair, without revealing either.
type CiphertextValidityProof struct {
	A1, A2, A3 *curve.Point
	Zm, Zr     *curve.Scalar
}

// ProveCiphertextValidity builds a proof that (C, DDest, DSource) encode
// amount under randomness r for the given recipient/sender keys.
func ProveCiphertextValidity(
	tr *transcript.Transcript,
	pDest, pSource *curve.Point,
	amount uint64,
	r *curve.Scalar,
) (CiphertextValidityProof, elgamal.Ciphertext, *curve.Point, *curve.Point, error) {
	m := curve.ScalarFromUint64(amount)
	C := curve.PointAdd(curve.PointMulScalar(r, curve.Basepoint()), curve.PointMulScalar(m, curve.H()))
	dDest := curve.PointMulScalar(r, pDest)
	dSource := curve.PointMulScalar(r, pSource)

	km, err := curve.RandomScalar()
	if err != nil {
		return CiphertextValidityProof{}, elgamal.Ciphertext{}, nil, nil, err
	}
	kr, err := curve.RandomScalar()
	if err != nil {
		return CiphertextValidityProof{}, elgamal.Ciphertext{}, nil, nil, err
	}

	A1 := curve.PointAdd(curve.PointMulScalar(kr, curve.Basepoint()), curve.PointMulScalar(km, curve.H()))
	A2 := curve.PointMulScalar(kr, pDest)
	A3 := curve.PointMulScalar(kr, pSource)

	tr.AppendPoint("ctv/C", C)
	tr.AppendPoint("ctv/Ddest", dDest)
	tr.AppendPoint("ctv/Dsource", dSource)
	tr.AppendPoint("ctv/A1", A1)
	tr.AppendPoint("ctv/A2", A2)
	tr.AppendPoint("ctv/A3", A3)
	e := tr.ChallengeScalar("ctv/challenge")

	zm := curve.ScalarAdd(km, curve.ScalarMul(e, m))
	zr := curve.ScalarAdd(kr, curve.ScalarMul(e, r))

	proof := CiphertextValidityProof{A1: A1, A2: A2, A3: A3, Zm: zm, Zr: zr}
	ct := elgamal.Ciphertext{C: C, D: dDest}
	return proof, ct, dDest, dSource, nil
}

// VerifyCiphertextValidity recomputes the challenge from the transcript
// and checks the three verification equations.
func VerifyCiphertextValidity(
	tr *transcript.Transcript,
	pDest, pSource *curve.Point,
	C, dDest, dSource *curve.Point,
	proof CiphertextValidityProof,
) bool {
	tr.AppendPoint("ctv/C", C)
	tr.AppendPoint("ctv/Ddest", dDest)
	tr.AppendPoint("ctv/Dsource", dSource)
	tr.AppendPoint("ctv/A1", proof.A1)
	tr.AppendPoint("ctv/A2", proof.A2)
	tr.AppendPoint("ctv/A3", proof.A3)
	e := tr.ChallengeScalar("ctv/challenge")

	lhs1 := curve.PointAdd(curve.PointMulScalar(proof.Zr, curve.Basepoint()), curve.PointMulScalar(proof.Zm, curve.H()))
	rhs1 := curve.PointAdd(proof.A1, curve.PointMulScalar(e, C))
	if lhs1.Equal(rhs1) != 1 {
		return false
	}

	lhs2 := curve.PointMulScalar(proof.Zr, pDest)
	rhs2 := curve.PointAdd(proof.A2, curve.PointMulScalar(e, dDest))
	if lhs2.Equal(rhs2) != 1 {
		return false
	}

	lhs3 := curve.PointMulScalar(proof.Zr, pSource)
	rhs3 := curve.PointAdd(proof.A3, curve.PointMulScalar(e, dSource))
	return lhs3.Equal(rhs3) == 1
}

// Bytes encodes the proof as A1 ∥ A2 ∥ A3 ∥ Zm ∥ Zr (160 bytes).
func (p CiphertextValidityProof) Bytes() []byte {
	out := make([]byte, 0, 160)
	out = append(out, p.A1.Bytes()...)
	out = append(out, p.A2.Bytes()...)
	out = append(out, p.A3.Bytes()...)
	out = append(out, p.Zm.Bytes()...)
	out = append(out, p.Zr.Bytes()...)
	return out
}

// DecodeCiphertextValidityProof decodes a 160-byte proof.
func DecodeCiphertextValidityProof(b []byte) (CiphertextValidityProof, error) {
	if len(b) != 160 {
		return CiphertextValidityProof{}, ErrMalformedProof
	}
	var p CiphertextValidityProof
	var err error
	if p.A1, err = curve.DecodePoint(b[0:32]); err != nil {
		return CiphertextValidityProof{}, err
	}
	if p.A2, err = curve.DecodePoint(b[32:64]); err != nil {
		return CiphertextValidityProof{}, err
	}
	if p.A3, err = curve.DecodePoint(b[64:96]); err != nil {
		return CiphertextValidityProof{}, err
	}
	if p.Zm, err = curve.DecodeScalar(b[96:128]); err != nil {
		return CiphertextValidityProof{}, err
	}
	if p.Zr, err = curve.DecodeScalar(b[128:160]); err != nil {
		return CiphertextValidityProof{}, err
	}
	return p, nil
}
