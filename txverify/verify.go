// Package txverify implements the verify half of spec §4.7's
// verify-then-apply pipeline: it recomputes every proof a txbuilder
// transaction carries and fails closed on the first mismatch. Verify
// never mutates state — see txapply for the matching apply half, run
// only once Verify has returned nil.
package txverify

import (
	"github.com/tos-network/terminos/crypto/curve"
	"github.com/tos-network/terminos/crypto/elgamal"
	"github.com/tos-network/terminos/crypto/rangeproof"
	"github.com/tos-network/terminos/crypto/schnorr"
	"github.com/tos-network/terminos/crypto/sigma"
	"github.com/tos-network/terminos/crypto/transcript"
	"github.com/tos-network/terminos/energy"
	"github.com/tos-network/terminos/errs"
	"github.com/tos-network/terminos/log"
	"github.com/tos-network/terminos/paramset"
	"github.com/tos-network/terminos/state"
	"github.com/tos-network/terminos/tx"
)

// Verify checks t against the account snapshot p exposes, in the order
// spec §4.7 lists (nonce, fee-type legality, transcript, proofs,
// signature, energy-payload invariants). The per-output and per-source-
// commitment proof checks are interleaved ahead of the call to
// tx.AppendTransactionTranscript rather than strictly after it, because
// txbuilder forks those sub-transcripts from tr's state before it
// appends the transaction body — verify has to fork from the same
// pre-append state or the two sides' challenges diverge. The checks
// themselves still cover everything step 3 onward requires; only the
// bookkeeping order of the Go code differs from the prose numbering.
func Verify(t *tx.Transaction, p state.Provider) error {
	// 1. nonce.
	nonce, err := p.GetNonce(t.SourcePubkey)
	if err != nil {
		return errs.WrapState(err)
	}
	if nonce != t.Nonce {
		return &errs.InvalidNonceError{Expected: nonce, Actual: t.Nonce}
	}

	// 2. fee-type legality.
	if t.FeeType == tx.FeeEnergy && t.DataKind != tx.DataTransfers {
		return errs.ErrInvalidFeeType
	}

	// 9 (energy-payload invariants and the UnfreezeTos feasibility
	// simulation), resolved now so energyRemoved is ready before the
	// transcript append below needs it.
	var energyRemoved uint64
	if t.DataKind == tx.DataEnergy {
		if err := validateEnergyPayload(t.Energy); err != nil {
			return err
		}
		if !t.Energy.IsFreeze {
			res, err := p.GetEnergyResource(t.SourcePubkey)
			if err != nil {
				return errs.WrapState(err)
			}
			topoHeight, err := p.GetTopoHeight()
			if err != nil {
				return errs.WrapState(err)
			}
			if _, energyRemoved, err = energy.Unfreeze(res, t.Energy.Amount, topoHeight); err != nil {
				return err
			}
		}
	}

	// 4. decompress the source pubkey up front; every proof below needs it.
	sourcePK, err := tx.AddressToPoint(t.SourcePubkey)
	if err != nil {
		return errs.ErrInvalidCurvePoint
	}

	tr := transcript.New("tx/v1")

	// 4 & 5: per-output ciphertext validity.
	var outputs []tx.TransferOutput
	switch t.DataKind {
	case tx.DataTransfers:
		outputs = t.Transfers
	case tx.DataInvokeContract, tx.DataDeployContract:
		outputs = t.Contract.Deposits
	}
	for i, out := range outputs {
		if err := verifyTransferOutput(tr, i, sourcePK, out); err != nil {
			return err
		}
	}

	// 6: per-source-commitment equality against the homomorphically
	// reconstructed new balance ciphertext.
	if err := verifySourceCommitments(tr, t, p); err != nil {
		return err
	}

	// 3: rebuild the transaction body transcript in builder order.
	if err := tx.AppendTransactionTranscript(tr, t, energyRemoved); err != nil {
		return err
	}

	// 7: commitment list per §4.3 plus the aggregated range proof.
	if err := verifyRangeProof(tr, t); err != nil {
		return err
	}

	// 8: outer signature over the canonical encoding.
	hash := t.Hash()
	if err := schnorr.Verify(sourcePK, hash[:], t.Signature); err != nil {
		return errs.ErrInvalidSignature
	}

	log.Trace("txverify ok", "source", t.SourcePubkey, "nonce", t.Nonce, "data_kind", t.DataKind)
	return nil
}

func verifyTransferOutput(tr *transcript.Transcript, index int, sourcePK *curve.Point, out tx.TransferOutput) error {
	c, err := curve.DecodePoint(out.Commitment)
	if err != nil {
		return errs.ErrInvalidCurvePoint
	}
	dDest, err := curve.DecodePoint(out.DestHandle)
	if err != nil {
		return errs.ErrInvalidCurvePoint
	}
	dSource, err := curve.DecodePoint(out.SourceHandle)
	if err != nil {
		return errs.ErrInvalidCurvePoint
	}
	pDest, err := tx.AddressToPoint(out.Recipient)
	if err != nil {
		return errs.ErrInvalidCurvePoint
	}

	sub := tx.TransferProofTranscript(tr, index)
	if !sigma.VerifyCiphertextValidity(sub, pDest, sourcePK, c, dDest, dSource, out.ValidityProof) {
		return errs.ErrInvalidProof
	}
	return nil
}

func verifySourceCommitments(tr *transcript.Transcript, t *tx.Transaction, p state.Provider) error {
	for i, sc := range t.SourceCommitments {
		oldCt, err := p.GetEncryptedBalance(t.SourcePubkey, sc.Asset)
		if err != nil {
			return errs.WrapState(err)
		}
		newCt, err := expectedNewBalanceCiphertext(t, sc.Asset, oldCt, p)
		if err != nil {
			return err
		}

		sub := tx.SourceCommitmentProofTranscript(tr, i)
		if !sigma.VerifyCommitmentEquality(sub, sc.Commitment.Point, newCt.C, sc.EqualityProof) {
			return errs.ErrInvalidProof
		}
	}
	return nil
}

// expectedNewBalanceCiphertext dispatches to the single shared
// homomorphic-update routine tx.TransfersDebitCiphertext /
// BurnDebitCiphertext / EnergyBalanceCiphertext also calls from
// txbuilder, so the two sides can never compute a different answer.
func expectedNewBalanceCiphertext(t *tx.Transaction, asset state.AssetID, oldCt elgamal.Ciphertext, p state.Provider) (elgamal.Ciphertext, error) {
	switch t.DataKind {
	case tx.DataTransfers:
		newAddresses, err := countNewAddresses(t.Transfers, p)
		if err != nil {
			return elgamal.Ciphertext{}, err
		}
		return tx.TransfersDebitCiphertext(oldCt, t.Transfers, asset, t.Fee, t.FeeType, newAddresses)
	case tx.DataInvokeContract, tx.DataDeployContract:
		return tx.TransfersDebitCiphertext(oldCt, t.Contract.Deposits, asset, t.Fee, t.FeeType, 0)
	case tx.DataBurn:
		return tx.BurnDebitCiphertext(oldCt, t.Burn, t.Fee, t.FeeType), nil
	case tx.DataEnergy:
		return tx.EnergyBalanceCiphertext(oldCt, t.Energy, t.Fee, t.FeeType), nil
	case tx.DataMultiSig:
		if t.FeeType == tx.FeeTOS && t.Fee > 0 && asset == state.NativeAsset {
			return elgamal.SubScalar(oldCt, curve.ScalarFromUint64(t.Fee)), nil
		}
		return oldCt, nil
	default:
		return elgamal.Ciphertext{}, errs.ErrUnknownDataVariant
	}
}

func countNewAddresses(outputs []tx.TransferOutput, p state.Provider) (uint64, error) {
	var n uint64
	for _, out := range outputs {
		registered, err := p.IsRegistered(out.Recipient)
		if err != nil {
			return 0, errs.WrapState(err)
		}
		if !registered {
			n++
		}
	}
	return n, nil
}

func commitmentList(t *tx.Transaction) ([]*curve.Point, error) {
	list := make([]*curve.Point, 0, len(t.SourceCommitments)+len(t.Transfers)+1)
	for _, sc := range t.SourceCommitments {
		list = append(list, sc.Commitment.Point)
	}
	switch t.DataKind {
	case tx.DataTransfers:
		for _, out := range t.Transfers {
			p, err := curve.DecodePoint(out.Commitment)
			if err != nil {
				return nil, errs.ErrInvalidCurvePoint
			}
			list = append(list, p)
		}
	case tx.DataBurn:
		list = append(list, t.Burn.AmountCommitment.Point)
	case tx.DataInvokeContract, tx.DataDeployContract:
		for _, out := range t.Contract.Deposits {
			p, err := curve.DecodePoint(out.Commitment)
			if err != nil {
				return nil, errs.ErrInvalidCurvePoint
			}
			list = append(list, p)
		}
	case tx.DataEnergy, tx.DataMultiSig:
		// source_commitments only, per spec §4.3's table.
	}
	return list, nil
}

func verifyRangeProof(tr *transcript.Transcript, t *tx.Transaction) error {
	list, err := commitmentList(t)
	if err != nil {
		return err
	}
	proof, err := rangeproof.Decode(t.RangeProof, len(list))
	if err != nil {
		return errs.ErrInvalidProof
	}
	rpTr := tx.RangeProofTranscript(tr)
	if err := rangeproof.Verify(rpTr, list, proof); err != nil {
		return errs.ErrInvalidProof
	}
	return nil
}

// validateEnergyPayload checks the invariants spec §4.7 step 9 requires
// unconditionally (amount > 0; a recognised duration when freezing).
// Duration is meaningful only when IsFreeze, so it is not checked
// otherwise (tx.EnergyPayload's own doc comment records the same rule).
func validateEnergyPayload(e tx.EnergyPayload) error {
	if e.Amount == 0 {
		return errs.ErrInvalidEnergyPayload
	}
	if e.IsFreeze {
		if _, ok := paramset.DurationSeconds(e.Duration); !ok {
			return errs.ErrInvalidEnergyPayload
		}
	}
	return nil
}
