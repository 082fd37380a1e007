package elgamal

import "errors"

// ErrMalformedCiphertext is returned when a byte slice is not a valid
// 64-byte compressed (C ∥ D) ciphertext encoding.
var ErrMalformedCiphertext = errors.New("elgamal: malformed ciphertext encoding")
