package sigma

import (
	"github.com/tos-network/terminos/crypto/curve"
	"github.com/tos-network/terminos/crypto/transcript"
)

// CommitmentEqualityProof proves that a fresh Pedersen commitment Com(m, r)
// encodes the same amount m as an independently-computed point
// newBalanceC (the C component of the homomorphically-derived new
// encrypted balance), without revealing m. Since Com and newBalanceC
// differ only in blinding when their messages agree, this reduces to a
// Schnorr proof of knowledge of delta = r - rTotal such that
// Com - newBalanceC = delta*G.
type CommitmentEqualityProof struct {
	A *curve.Point
	Z *curve.Scalar
}

// ProveCommitmentEquality proves Com and newBalanceC commit to the same
// amount, given the prover's knowledge of delta = r - rTotal.
func ProveCommitmentEquality(
	tr *transcript.Transcript,
	com, newBalanceC *curve.Point,
	delta *curve.Scalar,
) (CommitmentEqualityProof, error) {
	k, err := curve.RandomScalar()
	if err != nil {
		return CommitmentEqualityProof{}, err
	}
	A := curve.PointMulScalar(k, curve.Basepoint())

	tr.AppendPoint("ceq/com", com)
	tr.AppendPoint("ceq/newBalanceC", newBalanceC)
	tr.AppendPoint("ceq/A", A)
	e := tr.ChallengeScalar("ceq/challenge")

	z := curve.ScalarAdd(k, curve.ScalarMul(e, delta))
	return CommitmentEqualityProof{A: A, Z: z}, nil
}

// VerifyCommitmentEquality recomputes the challenge and checks
// z*G == A + e*(Com - newBalanceC).
func VerifyCommitmentEquality(
	tr *transcript.Transcript,
	com, newBalanceC *curve.Point,
	proof CommitmentEqualityProof,
) bool {
	tr.AppendPoint("ceq/com", com)
	tr.AppendPoint("ceq/newBalanceC", newBalanceC)
	tr.AppendPoint("ceq/A", proof.A)
	e := tr.ChallengeScalar("ceq/challenge")

	diff := curve.PointSub(com, newBalanceC)
	lhs := curve.PointMulScalar(proof.Z, curve.Basepoint())
	rhs := curve.PointAdd(proof.A, curve.PointMulScalar(e, diff))
	return lhs.Equal(rhs) == 1
}

// Bytes encodes the proof as A ∥ Z (64 bytes).
func (p CommitmentEqualityProof) Bytes() []byte {
	out := make([]byte, 0, 64)
	out = append(out, p.A.Bytes()...)
	out = append(out, p.Z.Bytes()...)
	return out
}

// DecodeCommitmentEqualityProof decodes a 64-byte proof.
func DecodeCommitmentEqualityProof(b []byte) (CommitmentEqualityProof, error) {
	if len(b) != 64 {
		return CommitmentEqualityProof{}, ErrMalformedProof
	}
	var p CommitmentEqualityProof
	var err error
	if p.A, err = curve.DecodePoint(b[0:32]); err != nil {
		return CommitmentEqualityProof{}, err
	}
	if p.Z, err = curve.DecodeScalar(b[32:64]); err != nil {
		return CommitmentEqualityProof{}, err
	}
	return p, nil
}
