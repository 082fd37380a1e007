package rangeproof

import (
	"math/bits"

	"github.com/tos-network/terminos/crypto/curve"
)

// roundsFor returns log2(n*BitLength), the number of IPA halving rounds
// for an aggregated proof over n values.
func roundsFor(numValues int) int {
	return bits.Len(uint(numValues*BitLength)) - 1
}

// Bytes encodes the proof as A ∥ S ∥ T1 ∥ T2 ∥ TauX ∥ Mu ∥ THat ∥ ipa-rounds.
func (p *Proof) Bytes() []byte {
	out := make([]byte, 0, 7*32+p.ip.size())
	for _, pt := range []*curve.Point{p.A, p.S, p.T1, p.T2} {
		out = append(out, pt.Bytes()...)
	}
	for _, s := range []*curve.Scalar{p.TauX, p.Mu, p.THat} {
		out = append(out, s.Bytes()...)
	}
	out = append(out, p.ip.bytes()...)
	return out
}

// Decode parses a proof produced for numValues aggregated amounts.
func Decode(b []byte, numValues int) (*Proof, error) {
	const head = 7 * 32
	if len(b) < head {
		return nil, ErrMalformedProof
	}
	pts := make([]*curve.Point, 4)
	for i := 0; i < 4; i++ {
		p, err := curve.DecodePoint(b[i*32 : i*32+32])
		if err != nil {
			return nil, err
		}
		pts[i] = p
	}
	off := 4 * 32
	scalars := make([]*curve.Scalar, 3)
	for i := 0; i < 3; i++ {
		s, err := curve.DecodeScalar(b[off+i*32 : off+i*32+32])
		if err != nil {
			return nil, err
		}
		scalars[i] = s
	}
	off += 3 * 32
	rounds := roundsFor(numValues)
	ip, err := decodeInnerProductProof(b[off:], rounds)
	if err != nil {
		return nil, err
	}
	return &Proof{
		A: pts[0], S: pts[1], T1: pts[2], T2: pts[3],
		TauX: scalars[0], Mu: scalars[1], THat: scalars[2],
		ip: ip,
	}, nil
}
