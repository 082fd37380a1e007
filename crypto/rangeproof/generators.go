package rangeproof

import (
	"fmt"

	"github.com/tos-network/terminos/crypto/curve"
)

// generators holds the deterministic, nothing-up-my-sleeve vector bases
// the inner-product argument commits against. They depend only on a
// position index, never on a secret, so no trusted setup is required —
// the same property spec §4.2 requires of G and H.
type generators struct {
	G []*curve.Point
	H []*curve.Point
}

func buildGenerators(n int) *generators {
	g := &generators{G: make([]*curve.Point, n), H: make([]*curve.Point, n)}
	for i := 0; i < n; i++ {
		p, err := curve.HashToPoint([]byte(fmt.Sprintf("terminos/bulletproofs/G/%d", i)))
		if err != nil {
			panic(err)
		}
		g.G[i] = p
		q, err := curve.HashToPoint([]byte(fmt.Sprintf("terminos/bulletproofs/H/%d", i)))
		if err != nil {
			panic(err)
		}
		g.H[i] = q
	}
	return g
}
