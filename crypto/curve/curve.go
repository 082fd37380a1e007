// Package curve wraps the Ristretto255 group operations the rest of the
// crypto stack builds on. It is a thin layer over github.com/gtank/ristretto255
// — the same call shape (NewIdentityElement, NewGeneratorElement,
// SetCanonicalBytes, ScalarBaseMult, Add, Subtract) the codebase's own
// curve bindings expose, kept external per the component table.
package curve

import (
	"crypto/rand"
	"fmt"

	"github.com/gtank/ristretto255"
	"lukechampine.com/blake3"
)

// Point is a Ristretto255 group element.
type Point = ristretto255.Element

// Scalar is a Ristretto255 scalar (mod the group order).
type Scalar = ristretto255.Scalar

// Identity returns the group identity element.
func Identity() *Point { return ristretto255.NewIdentityElement() }

// Basepoint returns the standard Ristretto255 generator G.
func Basepoint() *Point { return ristretto255.NewGeneratorElement() }

// NewScalar returns the zero scalar.
func NewScalar() *Scalar { return ristretto255.NewScalar() }

// hGenerator is the nothing-up-my-sleeve second generator H, derived once
// by mapping a fixed domain string through a uniform-bytes hash directly
// onto the curve (Elligator-style), never as a scalar multiple of G — a
// scalar relation between G and H would let a prover forge Pedersen
// commitments.
var hGenerator = func() *Point {
	p, err := HashToPoint([]byte("terminos/pedersen/H/v1"))
	if err != nil {
		panic(err)
	}
	return p
}()

// H returns the process-wide Pedersen blinding generator.
func H() *Point { return hGenerator }

// HashToPoint maps arbitrary bytes onto a uniformly-distributed curve
// point via Blake3-XOF uniform bytes, matching the 64-byte input that
// Element.SetUniformBytes expects.
func HashToPoint(msg []byte) (*Point, error) {
	h := blake3.New(64, nil)
	h.Write([]byte("terminos/hash-to-point/v1"))
	h.Write(msg)
	uniform := h.Sum(nil)
	p := ristretto255.NewElement()
	if err := setUniformBytesElement(p, uniform); err != nil {
		return nil, fmt.Errorf("curve: hash to point: %w", err)
	}
	return p, nil
}

// HashToScalar maps arbitrary bytes onto a uniformly-distributed scalar,
// used to derive Fiat-Shamir challenges from transcript state.
func HashToScalar(msg []byte) *Scalar {
	h := blake3.New(64, nil)
	h.Write([]byte("terminos/hash-to-scalar/v1"))
	h.Write(msg)
	uniform := h.Sum(nil)
	s := ristretto255.NewScalar()
	s.SetUniformBytes(uniform)
	return s
}

// RandomScalar returns a cryptographically random scalar, used for the
// blinding factor r in encrypt() and for proof nonces.
func RandomScalar() (*Scalar, error) {
	var buf [64]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return nil, fmt.Errorf("curve: random scalar: %w", err)
	}
	s := ristretto255.NewScalar()
	s.SetUniformBytes(buf[:])
	return s, nil
}

// DecodePoint decompresses a 32-byte canonical encoding into a Point.
func DecodePoint(b []byte) (*Point, error) {
	p := ristretto255.NewElement()
	if _, err := p.SetCanonicalBytes(b); err != nil {
		return nil, fmt.Errorf("curve: decode point: %w", err)
	}
	return p, nil
}

// DecodeScalar decodes a 32-byte little-endian canonical scalar.
func DecodeScalar(b []byte) (*Scalar, error) {
	s := ristretto255.NewScalar()
	if _, err := s.SetCanonicalBytes(b); err != nil {
		return nil, fmt.Errorf("curve: decode scalar: %w", err)
	}
	return s, nil
}

// ScalarFromUint64 builds a scalar from a little-endian u64 amount.
func ScalarFromUint64(v uint64) *Scalar {
	var buf [32]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(v >> (8 * i))
	}
	s := ristretto255.NewScalar()
	if _, err := s.SetCanonicalBytes(buf[:]); err != nil {
		// buf is a valid canonical little-endian encoding of a value < 2^64,
		// which is always < the group order; this cannot fail.
		panic(err)
	}
	return s
}

func setUniformBytesElement(p *Point, uniform []byte) error {
	_, err := p.SetUniformBytes(uniform)
	return err
}
