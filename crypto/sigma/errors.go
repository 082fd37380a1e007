package sigma

import "errors"

// ErrMalformedProof is returned when a proof byte slice has the wrong length.
var ErrMalformedProof = errors.New("sigma: malformed proof encoding")
