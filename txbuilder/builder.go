// Package txbuilder assembles signed Transaction values: it computes the
// per-output ciphertexts and validity proofs, the per-asset source
// commitments and equality proofs, the aggregated range proof, and the
// outer signature, calling tx.AppendTransactionTranscript exactly once in
// builder order (spec §4.1, §4.7). txverify rebuilds the identical
// transcript to check what this package produced.
package txbuilder

import (
	"github.com/tos-network/terminos/crypto/curve"
	"github.com/tos-network/terminos/crypto/elgamal"
	"github.com/tos-network/terminos/crypto/sigma"
	"github.com/tos-network/terminos/crypto/transcript"
	"github.com/tos-network/terminos/errs"
	"github.com/tos-network/terminos/state"
	"github.com/tos-network/terminos/tx"
)

// checkSufficientBalance fails pre-proof, the way §7 of the spec allows,
// rather than letting an underflowed newBalance surface only as an
// opaque range-proof failure.
func checkSufficientBalance(asset state.AssetID, required, available uint64) error {
	if required > available {
		return &errs.InsufficientBalanceError{Asset: asset, Required: required, Available: available}
	}
	return nil
}

// Signer is the sender's key material. The same Ristretto255 scalar/point
// pair that owns the ElGamal balance also signs the transaction (spec §6).
type Signer struct {
	Secret *curve.Scalar
	Public *curve.Point
}

// Builder assembles transactions against a state snapshot. It only reads
// from the provided state.Provider — never writes — so building never
// competes with txapply's mutation (spec §5).
type Builder struct {
	State state.Provider
}

// New returns a Builder reading account state from p.
func New(p state.Provider) *Builder {
	return &Builder{State: p}
}

// SourceBalance is the caller's declaration of an account's current
// plaintext balance for one asset, plus the ElGamal randomness its
// on-chain ciphertext was encrypted under. The core never decrypts
// balances itself — that would mean solving a discrete log — so the
// wallet that owns the secret key supplies both; the equality proof ties
// this declaration to the on-chain ciphertext without revealing it
// (spec §4.2's SourceCommitment role).
type SourceBalance struct {
	Asset          state.AssetID
	CurrentBalance uint64
	Randomness     *curve.Scalar
}

// buildSourceCommitment builds a fresh Pedersen commitment to newBalance
// and proves it commits to the same amount as newCt's C component, the
// account's new balance ciphertext after whatever public or confidential
// operation the caller already applied to oldCt.
//
// Splitting the homomorphic update out of this function (rather than
// taking a plaintext delta) is deliberate: a Transfers debit must be
// removed from oldCt via ciphertext subtraction of the actual output
// ciphertexts (elgamal.Sub), since the transferred amount stays
// confidential and the verifier — who never sees it — has to be able to
// recompute the identical newCt from public transaction fields alone. A
// Burn or Energy delta, by contrast, is a declared public field of the
// transaction, so SubScalar/AddScalar is the right (and verifier-
// reproducible) operation there. Either way this function only ever
// sees the resulting ciphertext and the scalar randomness effectiveR
// that ciphertext's C component carries in its rG term, so one proof
// routine serves both cases.
func buildSourceCommitment(
	tr *transcript.Transcript,
	index int,
	asset state.AssetID,
	newCt elgamal.Ciphertext,
	effectiveR *curve.Scalar,
	newBalance uint64,
) (tx.SourceCommitment, *curve.Scalar, error) {
	newR, err := curve.RandomScalar()
	if err != nil {
		return tx.SourceCommitment{}, nil, err
	}
	com := elgamal.Commit(curve.ScalarFromUint64(newBalance), newR)

	eqDelta := curve.ScalarSub(newR, effectiveR)

	sub := tx.SourceCommitmentProofTranscript(tr, index)
	proof, err := sigma.ProveCommitmentEquality(sub, com.Point, newCt.C, eqDelta)
	if err != nil {
		return tx.SourceCommitment{}, nil, err
	}
	return tx.SourceCommitment{
		Asset:         asset,
		Commitment:    com,
		EqualityProof: proof,
	}, newR, nil
}
