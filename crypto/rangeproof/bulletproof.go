// Package rangeproof implements the aggregated Bulletproofs range proof
// of spec §4.3.3: a single logarithmic-size proof that every committed
// amount in a transaction's commitment list (§4.3's per-variant table)
// lies in [0, 2^64). This is the pure-Go equivalent of the native
// Bulletproof backend the codebase's proof layer otherwise calls out to.
package rangeproof

import (
	"fmt"

	"github.com/tos-network/terminos/crypto/curve"
	"github.com/tos-network/terminos/crypto/transcript"
)

// BitLength is the fixed range-proof bit-length; every amount must fit
// in 64 bits (spec §6, "Range proof bit-length: 64").
const BitLength = 64

// Proof is an aggregated range proof over m values, each BitLength bits.
type Proof struct {
	A, S, T1, T2 *curve.Point
	TauX, Mu, THat *curve.Scalar
	ip           innerProductProof
}

// Prove builds an aggregated range proof that each values[i] (committed
// externally as commitments[i] = values[i]*H + gammas[i]*G, the same
// convention elgamal.Commit and the ciphertext C component use) lies in
// [0, 2^64). tr must already have every commitment appended by the
// caller's outer transcript discipline (§4.1); Prove only appends its
// own A/S/T1/T2 and the IPA rounds.
func Prove(tr *transcript.Transcript, values []uint64, gammas []*curve.Scalar) (*Proof, error) {
	m := len(values)
	if m == 0 {
		return nil, fmt.Errorf("rangeproof: no values to prove")
	}
	n := BitLength
	N := n * m
	gens := buildGenerators(N)
	g := curve.H()
	hBase := curve.Basepoint()

	aL := make([]*curve.Scalar, 0, N)
	for _, v := range values {
		aL = append(aL, bitsLE(v, n)...)
	}
	aR := vecSub(aL, scalarVector(N, curve.ScalarOne()))

	alpha, err := curve.RandomScalar()
	if err != nil {
		return nil, err
	}
	A := curve.PointAdd(curve.PointMulScalar(alpha, hBase), curve.PointAdd(curve.MultiscalarMul(aL, gens.G), curve.MultiscalarMul(aR, gens.H)))

	sL := randomVector(N)
	sR := randomVector(N)
	rho, err := curve.RandomScalar()
	if err != nil {
		return nil, err
	}
	S := curve.PointAdd(curve.PointMulScalar(rho, hBase), curve.PointAdd(curve.MultiscalarMul(sL, gens.G), curve.MultiscalarMul(sR, gens.H)))

	tr.AppendPoint("bp/A", A)
	tr.AppendPoint("bp/S", S)
	y := tr.ChallengeScalar("bp/y")
	z := tr.ChallengeScalar("bp/z")

	yPowers := powers(y, N)
	twoPowers := powers(curve.ScalarFromUint64(2), n)
	zPow := powers(z, m+2)

	l0 := vecAddScalar(aL, curve.ScalarNeg(z))
	r0 := make([]*curve.Scalar, N)
	for i := 0; i < N; i++ {
		block := i / n
		term := curve.ScalarAdd(aR[i], z)
		term = curve.ScalarMul(yPowers[i], term)
		term = curve.ScalarAdd(term, curve.ScalarMul(zPow[block+2], twoPowers[i%n]))
		r0[i] = term
	}
	r1 := vecHadamard(yPowers, sR)

	t1 := curve.ScalarAdd(innerProduct(l0, r1), innerProduct(sL, r0))
	t2 := innerProduct(sL, r1)

	tau1, err := curve.RandomScalar()
	if err != nil {
		return nil, err
	}
	tau2, err := curve.RandomScalar()
	if err != nil {
		return nil, err
	}
	T1 := curve.PointAdd(curve.PointMulScalar(t1, g), curve.PointMulScalar(tau1, hBase))
	T2 := curve.PointAdd(curve.PointMulScalar(t2, g), curve.PointMulScalar(tau2, hBase))

	tr.AppendPoint("bp/T1", T1)
	tr.AppendPoint("bp/T2", T2)
	x := tr.ChallengeScalar("bp/x")

	l := vecAdd(l0, vecScale(sL, x))
	r := vecAdd(r0, vecScale(r1, x))
	tHat := innerProduct(l, r)

	x2 := curve.ScalarMul(x, x)
	tauX := curve.ScalarAdd(curve.ScalarMul(tau2, x2), curve.ScalarMul(tau1, x))
	for b := 0; b < m; b++ {
		tauX = curve.ScalarAdd(tauX, curve.ScalarMul(zPow[b+2], gammas[b]))
	}
	mu := curve.ScalarAdd(alpha, curve.ScalarMul(rho, x))

	tr.AppendMessage("bp/taux", tauX.Bytes())
	tr.AppendMessage("bp/mu", mu.Bytes())
	tr.AppendMessage("bp/that", tHat.Bytes())
	Qbytes := tr.ChallengeBytes("bp/Q", 64)
	Q, err := curve.HashToPoint(Qbytes)
	if err != nil {
		return nil, err
	}

	yInvPowers := powers(curve.ScalarInvert(y), N)
	Hprime := make([]*curve.Point, N)
	for i := 0; i < N; i++ {
		Hprime[i] = curve.PointMulScalar(yInvPowers[i], gens.H[i])
	}

	ip := proveInnerProduct(tr, gens.G, Hprime, Q, l, r)

	return &Proof{A: A, S: S, T1: T1, T2: T2, TauX: tauX, Mu: mu, THat: tHat, ip: ip}, nil
}

// Verify checks an aggregated range proof against the claimed value
// commitments (the commitment list built per §4.3's data-variant table).
func Verify(tr *transcript.Transcript, commitments []*curve.Point, proof *Proof) error {
	m := len(commitments)
	if m == 0 {
		return fmt.Errorf("rangeproof: no commitments to verify")
	}
	n := BitLength
	N := n * m
	gens := buildGenerators(N)
	g := curve.H()
	hBase := curve.Basepoint()

	tr.AppendPoint("bp/A", proof.A)
	tr.AppendPoint("bp/S", proof.S)
	y := tr.ChallengeScalar("bp/y")
	z := tr.ChallengeScalar("bp/z")

	tr.AppendPoint("bp/T1", proof.T1)
	tr.AppendPoint("bp/T2", proof.T2)
	x := tr.ChallengeScalar("bp/x")

	tr.AppendMessage("bp/taux", proof.TauX.Bytes())
	tr.AppendMessage("bp/mu", proof.Mu.Bytes())
	tr.AppendMessage("bp/that", proof.THat.Bytes())
	Qbytes := tr.ChallengeBytes("bp/Q", 64)
	Q, err := curve.HashToPoint(Qbytes)
	if err != nil {
		return err
	}

	yPowers := powers(y, N)
	twoPowers := powers(curve.ScalarFromUint64(2), n)
	zPow := powers(z, m+3)

	sumY := curve.ScalarZero()
	for i := 0; i < N; i++ {
		sumY = curve.ScalarAdd(sumY, yPowers[i])
	}
	sumTwo := curve.ScalarZero()
	for i := 0; i < n; i++ {
		sumTwo = curve.ScalarAdd(sumTwo, twoPowers[i])
	}
	sumZpow := curve.ScalarZero()
	for b := 0; b < m; b++ {
		// Block b's bits are weighted by z^(b+2) in r0, so the -z*<1, w>
		// part of t0 contributes z^(b+3) per block.
		sumZpow = curve.ScalarAdd(sumZpow, zPow[b+3])
	}
	zMinusZ2 := curve.ScalarSub(z, curve.ScalarMul(z, z))
	delta := curve.ScalarSub(curve.ScalarMul(zMinusZ2, sumY), curve.ScalarMul(sumTwo, sumZpow))

	rhs := curve.MultiscalarMul(zPow[2:2+m], commitments)
	rhs = curve.PointAdd(rhs, curve.PointMulScalar(delta, g))
	rhs = curve.PointAdd(rhs, curve.PointMulScalar(x, proof.T1))
	rhs = curve.PointAdd(rhs, curve.PointMulScalar(curve.ScalarMul(x, x), proof.T2))

	lhs := curve.PointAdd(curve.PointMulScalar(proof.THat, g), curve.PointMulScalar(proof.TauX, hBase))
	if lhs.Equal(rhs) != 1 {
		return ErrRangeCheckFailed
	}

	yInvPowers := powers(curve.ScalarInvert(y), N)
	Hprime := make([]*curve.Point, N)
	for i := 0; i < N; i++ {
		Hprime[i] = curve.PointMulScalar(yInvPowers[i], gens.H[i])
	}

	sumG := curve.Identity()
	sumH := curve.Identity()
	for i := 0; i < N; i++ {
		sumG = curve.PointAdd(sumG, gens.G[i])
		sumH = curve.PointAdd(sumH, gens.H[i])
	}

	zTerms := make([]*curve.Scalar, N)
	for i := 0; i < N; i++ {
		block := i / n
		zTerms[i] = curve.ScalarMul(zPow[block+2], twoPowers[i%n])
	}

	P := curve.PointAdd(proof.A, curve.PointMulScalar(x, proof.S))
	P = curve.PointSub(P, curve.PointMulScalar(proof.Mu, hBase))
	P = curve.PointSub(P, curve.PointMulScalar(z, sumG))
	P = curve.PointAdd(P, curve.PointMulScalar(z, sumH))
	P = curve.PointAdd(P, curve.MultiscalarMul(zTerms, Hprime))
	P = curve.PointAdd(P, curve.PointMulScalar(proof.THat, Q))

	if !verifyInnerProduct(tr, gens.G, Hprime, Q, P, proof.ip) {
		return ErrRangeCheckFailed
	}
	return nil
}

func randomVector(n int) []*curve.Scalar {
	out := make([]*curve.Scalar, n)
	for i := range out {
		s, err := curve.RandomScalar()
		if err != nil {
			panic(err)
		}
		out[i] = s
	}
	return out
}
