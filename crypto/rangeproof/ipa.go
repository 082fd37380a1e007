package rangeproof

import (
	"github.com/tos-network/terminos/crypto/curve"
	"github.com/tos-network/terminos/crypto/transcript"
)

// innerProductProof is the logarithmic-size opening of a vector Pedersen
// commitment G^a H^b Q^{<a,b>}, the standard Bulletproofs inner-product
// argument (Bootle et al. / Bünz et al.), used here to avoid sending the
// O(n) witness vectors l, r of the range proof on the wire.
type innerProductProof struct {
	L, R []*curve.Point
	A, B *curve.Scalar
}

// proveInnerProduct recursively halves (G, H, a, b) until a single pair
// remains, folding a transcript challenge into each half at every round.
func proveInnerProduct(tr *transcript.Transcript, G, H []*curve.Point, Q *curve.Point, a, b []*curve.Scalar) innerProductProof {
	var Ls, Rs []*curve.Point
	for len(a) > 1 {
		n := len(a) / 2
		aL, aR := a[:n], a[n:]
		bL, bR := b[:n], b[n:]
		GL, GR := G[:n], G[n:]
		HL, HR := H[:n], H[n:]

		cL := innerProduct(aL, bR)
		cR := innerProduct(aR, bL)

		L := curve.PointAdd(curve.PointAdd(curve.MultiscalarMul(aL, GR), curve.MultiscalarMul(bR, HL)), curve.PointMulScalar(cL, Q))
		R := curve.PointAdd(curve.PointAdd(curve.MultiscalarMul(aR, GL), curve.MultiscalarMul(bL, HR)), curve.PointMulScalar(cR, Q))

		tr.AppendPoint("ipa/L", L)
		tr.AppendPoint("ipa/R", R)
		x := tr.ChallengeScalar("ipa/x")
		xInv := curve.ScalarInvert(x)

		a = vecAdd(vecScale(aL, x), vecScale(aR, xInv))
		b = vecAdd(vecScale(bL, xInv), vecScale(bR, x))
		G = pointFold(GL, GR, xInv, x)
		H = pointFold(HL, HR, x, xInv)

		Ls = append(Ls, L)
		Rs = append(Rs, R)
	}
	return innerProductProof{L: Ls, R: Rs, A: a[0], B: b[0]}
}

// verifyInnerProduct recomputes the same challenges and folds (G, H, P)
// the same way the prover folded (G, H, a, b), then checks the final
// single-generator opening.
func verifyInnerProduct(tr *transcript.Transcript, G, H []*curve.Point, Q *curve.Point, P *curve.Point, proof innerProductProof) bool {
	for k := 0; k < len(proof.L); k++ {
		n := len(G) / 2
		GL, GR := G[:n], G[n:]
		HL, HR := H[:n], H[n:]

		tr.AppendPoint("ipa/L", proof.L[k])
		tr.AppendPoint("ipa/R", proof.R[k])
		x := tr.ChallengeScalar("ipa/x")
		xInv := curve.ScalarInvert(x)

		G = pointFold(GL, GR, xInv, x)
		H = pointFold(HL, HR, x, xInv)

		x2 := curve.ScalarMul(x, x)
		x2Inv := curve.ScalarMul(xInv, xInv)
		P = curve.PointAdd(P, curve.PointAdd(curve.PointMulScalar(x2, proof.L[k]), curve.PointMulScalar(x2Inv, proof.R[k])))
	}
	if len(G) != 1 {
		return false
	}
	expected := curve.PointAdd(
		curve.PointAdd(curve.PointMulScalar(proof.A, G[0]), curve.PointMulScalar(proof.B, H[0])),
		curve.PointMulScalar(curve.ScalarMul(proof.A, proof.B), Q),
	)
	return expected.Equal(P) == 1
}

// pointFold returns left[i]^sLeft * right[i]^sRight pointwise.
func pointFold(left, right []*curve.Point, sLeft, sRight *curve.Scalar) []*curve.Point {
	out := make([]*curve.Point, len(left))
	for i := range left {
		out[i] = curve.PointAdd(curve.PointMulScalar(sLeft, left[i]), curve.PointMulScalar(sRight, right[i]))
	}
	return out
}

func (p innerProductProof) size() int {
	return len(p.L)*64 + 64
}

func (p innerProductProof) bytes() []byte {
	out := make([]byte, 0, p.size())
	for i := range p.L {
		out = append(out, p.L[i].Bytes()...)
		out = append(out, p.R[i].Bytes()...)
	}
	out = append(out, p.A.Bytes()...)
	out = append(out, p.B.Bytes()...)
	return out
}

func decodeInnerProductProof(b []byte, rounds int) (innerProductProof, error) {
	want := rounds*64 + 64
	if len(b) != want {
		return innerProductProof{}, ErrMalformedProof
	}
	p := innerProductProof{L: make([]*curve.Point, rounds), R: make([]*curve.Point, rounds)}
	off := 0
	for i := 0; i < rounds; i++ {
		l, err := curve.DecodePoint(b[off : off+32])
		if err != nil {
			return innerProductProof{}, err
		}
		p.L[i] = l
		off += 32
		r, err := curve.DecodePoint(b[off : off+32])
		if err != nil {
			return innerProductProof{}, err
		}
		p.R[i] = r
		off += 32
	}
	a, err := curve.DecodeScalar(b[off : off+32])
	if err != nil {
		return innerProductProof{}, err
	}
	off += 32
	bs, err := curve.DecodeScalar(b[off : off+32])
	if err != nil {
		return innerProductProof{}, err
	}
	p.A, p.B = a, bs
	return p, nil
}
