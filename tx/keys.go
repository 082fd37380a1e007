package tx

import (
	"github.com/tos-network/terminos/common"
	"github.com/tos-network/terminos/crypto/curve"
)

// AddressToPoint decompresses an account address into its Ristretto255
// public key point (spec §3: "Address is the 32-byte compressed
// Ristretto public key").
func AddressToPoint(a common.Address) (*curve.Point, error) {
	return curve.DecodePoint(a.Bytes())
}

// PointToAddress compresses a public key point into an account address.
func PointToAddress(p *curve.Point) common.Address {
	return common.BytesToAddress(p.Bytes())
}
