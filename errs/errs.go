// Package errs holds the sentinel and structured error values the core
// surfaces to its callers, in the plain-stdlib-errors idiom the proof
// and state packages use throughout the codebase (no wrapping library).
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFeeType is returned when fee_type=Energy is used outside Transfers.
	ErrInvalidFeeType = errors.New("invalid fee type for this transaction data variant")
	// ErrInvalidProof covers any ciphertext-validity, equality, or range proof failure.
	ErrInvalidProof = errors.New("invalid proof")
	// ErrInvalidCurvePoint is returned when a compressed point fails to decompress.
	ErrInvalidCurvePoint = errors.New("invalid curve point encoding")
	// ErrInvalidSignature is returned when the outer signature fails to verify.
	ErrInvalidSignature = errors.New("invalid signature")
	// ErrInvalidEnergyPayload covers malformed Energy data (missing duration, zero amount, unknown tag).
	ErrInvalidEnergyPayload = errors.New("invalid energy payload")
	// ErrUnknownDataVariant is returned for an unrecognised tx.Data tag.
	ErrUnknownDataVariant = errors.New("unknown transaction data variant")
	// ErrUnknownFreezeDuration is returned for a freeze duration tag outside {Day3,Day7,Day14}.
	ErrUnknownFreezeDuration = errors.New("unknown freeze duration")
	// ErrNoContractVM is returned when a contract variant is applied without a state.ContractVM collaborator.
	ErrNoContractVM = errors.New("no contract vm configured")
)

// InvalidNonceError reports a nonce mismatch between the transaction and
// the account's stored nonce.
type InvalidNonceError struct {
	Expected uint64
	Actual   uint64
}

func (e *InvalidNonceError) Error() string {
	return fmt.Sprintf("invalid nonce: expected %d, got %d", e.Expected, e.Actual)
}

// InsufficientBalanceError reports a detected pre-proof balance shortfall.
type InsufficientBalanceError struct {
	Asset     [32]byte
	Required  uint64
	Available uint64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: required %d, available %d", e.Required, e.Available)
}

// InsufficientEnergyError reports an energy shortfall in consume().
type InsufficientEnergyError struct {
	Required  uint64
	Available uint64
}

func (e *InsufficientEnergyError) Error() string {
	return fmt.Sprintf("insufficient energy: required %d, available %d", e.Required, e.Available)
}

// InsufficientUnlockedFrozenError reports an unfreeze request exceeding
// the unlocked frozen amount at the current topoheight.
type InsufficientUnlockedFrozenError struct {
	Requested        uint64
	AvailableUnlocked uint64
}

func (e *InsufficientUnlockedFrozenError) Error() string {
	return fmt.Sprintf("insufficient unlocked frozen tos: requested %d, unlocked %d", e.Requested, e.AvailableUnlocked)
}

// StateError wraps an opaque error returned by the state collaborator.
type StateError struct {
	Err error
}

func (e *StateError) Error() string { return fmt.Sprintf("state error: %v", e.Err) }
func (e *StateError) Unwrap() error { return e.Err }

// WrapState wraps a collaborator error as a StateError, or returns nil if err is nil.
func WrapState(err error) error {
	if err == nil {
		return nil
	}
	return &StateError{Err: err}
}
