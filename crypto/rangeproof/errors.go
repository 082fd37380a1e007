package rangeproof

import "errors"

// ErrMalformedProof is returned when a proof byte slice has the wrong length.
var ErrMalformedProof = errors.New("rangeproof: malformed proof encoding")

// ErrRangeCheckFailed is returned when either the polynomial-identity
// check or the inner-product argument fails to verify.
var ErrRangeCheckFailed = errors.New("rangeproof: range check failed")
