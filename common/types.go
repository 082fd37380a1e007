// Package common holds the small value types shared across the Terminos
// core: account addresses and content hashes, plus their hex codecs.
package common

import (
	"encoding/hex"
	"fmt"
)

// AddressLength is the size of a compressed Ristretto255 public key.
const AddressLength = 32

// HashLength is the size of a Blake3 digest.
const HashLength = 32

// Address is a Terminos account identifier: a compressed Ristretto255
// public key. Accounts are stealth-style ElGamal keys, not hashes of a
// signature key, so Address and public key share a representation.
type Address [AddressLength]byte

// Hash is a Blake3 digest, used for the canonical transaction hash.
type Hash [HashLength]byte

// Bytes returns a, as a freshly allocated slice.
func (a Address) Bytes() []byte { return append([]byte(nil), a[:]...) }

// Bytes returns h, as a freshly allocated slice.
func (h Hash) Bytes() []byte { return append([]byte(nil), h[:]...) }

// String renders a as 0x-prefixed lowercase hex.
func (a Address) String() string { return "0x" + hex.EncodeToString(a[:]) }

// String renders h as 0x-prefixed lowercase hex.
func (h Hash) String() string { return "0x" + hex.EncodeToString(h[:]) }

// IsZero reports whether a is the all-zero address.
func (a Address) IsZero() bool { return a == Address{} }

// BytesToAddress copies the trailing AddressLength bytes of b into an Address.
// Shorter input is left-zero-padded, matching the common.BytesToAddress idiom.
func BytesToAddress(b []byte) Address {
	var a Address
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
	return a
}

// HexToAddress parses a 0x-prefixed or bare hex string into an Address.
func HexToAddress(s string) Address {
	return BytesToAddress(FromHex(s))
}

// BytesToHash copies the trailing HashLength bytes of b into a Hash.
func BytesToHash(b []byte) Hash {
	var h Hash
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
	return h
}

// IsHexAddress reports whether s decodes to exactly AddressLength bytes.
func IsHexAddress(s string) bool {
	b := FromHex(s)
	return len(b) == AddressLength
}

// FromHex decodes a 0x-prefixed or bare hex string, returning nil on error
// rather than panicking — callers that need strict parsing use hex.DecodeString directly.
func FromHex(s string) []byte {
	if len(s) >= 2 && (s[0] == '0') && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil
	}
	return b
}

// MustFromHex is FromHex but panics on malformed input; used for constants.
func MustFromHex(s string) []byte {
	b := FromHex(s)
	if b == nil && s != "" && s != "0x" {
		panic(fmt.Sprintf("common: invalid hex string %q", s))
	}
	return b
}
