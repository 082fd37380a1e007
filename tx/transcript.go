package tx

import (
	"fmt"

	"github.com/tos-network/terminos/crypto/transcript"
	"github.com/tos-network/terminos/paramset"
)

// AppendTransactionTranscript appends a transaction's public fields to tr
// in a single, fixed order. This is the one routine that defines what the
// Fiat-Shamir transcript for a transaction looks like — txbuilder calls it
// while assembling the tx, txverify calls it while checking one, and
// nothing else is allowed to hand-roll an equivalent append sequence
// (spec §4.1, §4.5, §9: a duplicated or relocated append is a known
// consensus-breaking defect class; there is exactly one append routine).
//
// energyRemoved is only consulted for an UnfreezeTos payload, where the
// amount of energy removed depends on the sender's current FreezeRecord
// set and so cannot be derived from the transaction's own fields; the
// caller (builder or verifier) must compute it — by calling energy.Unfreeze
// on a snapshot, discarding the mutation — before appending. Every other
// variant ignores the parameter; callers outside the UnfreezeTos case pass 0.
//
// It appends the transaction's public fields, but not the proofs
// themselves, the range proof, or the outer signature. The range proof is
// layered on top via RangeProofTranscript, forked after this append.
// txbuilder and txverify fork the per-output and per-source-commitment
// sub-transcripts (TransferProofTranscript / SourceCommitmentProofTranscript)
// before calling this routine, so those proofs are not bound to the
// transaction body by the transcript; only the outer signature covers them.
func AppendTransactionTranscript(tr *transcript.Transcript, t *Transaction, energyRemoved uint64) error {
	// Preamble order is fixed by spec: version, source, fee, fee_type,
	// nonce. fee_type is always appended, even when fee is zero, so a
	// fee-type bait-and-switch between build and verify is impossible.
	tr.AppendU8("version", t.Version)
	tr.AppendMessage("source", t.SourcePubkey.Bytes())
	tr.AppendU64("fee", t.Fee)
	tr.AppendU8("fee_type", uint8(t.FeeType))
	tr.AppendU64("nonce", t.Nonce)
	tr.AppendU8("tx/data_kind", uint8(t.DataKind))

	switch t.DataKind {
	case DataTransfers:
		tr.AppendU64("tx/transfers/count", uint64(len(t.Transfers)))
		for i, out := range t.Transfers {
			appendTransferOutput(tr, "tx/transfer", i, out)
		}
	case DataBurn:
		tr.AppendMessage("tx/burn/asset", t.Burn.Asset[:])
		tr.AppendU64("tx/burn/amount", t.Burn.Amount)
		tr.AppendMessage("tx/burn/commitment", t.Burn.AmountCommitment.Bytes())
	case DataMultiSig:
		tr.AppendU8("tx/multisig/threshold", t.MultiSig.Threshold)
		tr.AppendU64("tx/multisig/signers/count", uint64(len(t.MultiSig.Signers)))
		for i, s := range t.MultiSig.Signers {
			tr.AppendMessage(fmt.Sprintf("tx/multisig/signer/%d", i), s.Bytes())
		}
	case DataInvokeContract, DataDeployContract:
		tr.AppendMessage("tx/contract/address", t.Contract.Contract.Bytes())
		tr.AppendMessage("tx/contract/payload", t.Contract.Payload)
		tr.AppendU64("tx/contract/deposits/count", uint64(len(t.Contract.Deposits)))
		for i, out := range t.Contract.Deposits {
			appendTransferOutput(tr, "tx/contract/deposit", i, out)
		}
	case DataEnergy:
		if err := appendEnergyTranscript(tr, t.Energy, energyRemoved); err != nil {
			return err
		}
	default:
		return ErrUnknownDataKind
	}

	tr.AppendU64("tx/source_commitments/count", uint64(len(t.SourceCommitments)))
	for i, sc := range t.SourceCommitments {
		tr.AppendMessage(fmt.Sprintf("tx/source_commitment/%d/asset", i), sc.Asset[:])
		tr.AppendMessage(fmt.Sprintf("tx/source_commitment/%d/commitment", i), sc.Commitment.Bytes())
	}
	return nil
}

// appendEnergyTranscript implements spec §4.5's energy-payload append
// sequence exactly, appending each label exactly once regardless of
// which branch is taken — the exact defect class (a duplicated
// energy_amount append) that S6 regression-tests against.
func appendEnergyTranscript(tr *transcript.Transcript, e EnergyPayload, energyRemoved uint64) error {
	tr.AppendU64("energy_amount", e.Amount)
	tr.AppendU8("energy_is_freeze", boolToU8(e.IsFreeze))
	if e.IsFreeze {
		seconds, ok := paramset.DurationSeconds(e.Duration)
		if !ok {
			return ErrUnknownFreezeDuration
		}
		tr.AppendU64("energy_freeze_duration", seconds)
	}
	tr.AppendU64("tos_balance_change", e.Amount)
	if e.IsFreeze {
		num, den, ok := paramset.Multiplier(e.Duration)
		if !ok {
			return ErrUnknownFreezeDuration
		}
		tr.AppendU64("energy_balance_change", e.Amount*num/den)
	} else {
		tr.AppendU64("energy_removed", energyRemoved)
	}
	return nil
}

func appendTransferOutput(tr *transcript.Transcript, prefix string, i int, out TransferOutput) {
	tr.AppendMessage(fmt.Sprintf("%s/%d/recipient", prefix, i), out.Recipient.Bytes())
	tr.AppendMessage(fmt.Sprintf("%s/%d/asset", prefix, i), out.Asset[:])
	tr.AppendMessage(fmt.Sprintf("%s/%d/commitment", prefix, i), out.Commitment)
	tr.AppendMessage(fmt.Sprintf("%s/%d/dest_handle", prefix, i), out.DestHandle)
	tr.AppendMessage(fmt.Sprintf("%s/%d/source_handle", prefix, i), out.SourceHandle)
	tr.AppendMessage(fmt.Sprintf("%s/%d/memo", prefix, i), out.EncryptedMemo)
}

func boolToU8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// TransferProofTranscript forks tr into the sub-transcript the validity
// proof for transfer output index i is bound to, so proofs don't perturb
// each other's challenge derivation. The fork carries whatever tr holds at
// the time of the call; txbuilder and txverify call it before
// AppendTransactionTranscript, so the proof depends on the output index
// and the points it appends itself, not on the rest of the transaction.
func TransferProofTranscript(tr *transcript.Transcript, index int) *transcript.Transcript {
	sub := tr.Clone()
	sub.AppendU64("tx/transfer-proof/index", uint64(index))
	return sub
}

// SourceCommitmentProofTranscript forks tr into the sub-transcript the
// equality proof for source commitment index i is bound to.
func SourceCommitmentProofTranscript(tr *transcript.Transcript, index int) *transcript.Transcript {
	sub := tr.Clone()
	sub.AppendU64("tx/source-commitment-proof/index", uint64(index))
	return sub
}

// RangeProofTranscript forks tr into the sub-transcript the aggregated
// range proof over every committed amount in this transaction is bound to.
func RangeProofTranscript(tr *transcript.Transcript) *transcript.Transcript {
	sub := tr.Clone()
	sub.AppendMessage("tx/range-proof", nil)
	return sub
}
