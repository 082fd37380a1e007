package txbuilder

import (
	"github.com/tos-network/terminos/crypto/curve"
	"github.com/tos-network/terminos/crypto/rangeproof"
	"github.com/tos-network/terminos/crypto/schnorr"
	"github.com/tos-network/terminos/crypto/transcript"
	"github.com/tos-network/terminos/energy"
	"github.com/tos-network/terminos/errs"
	"github.com/tos-network/terminos/log"
	"github.com/tos-network/terminos/paramset"
	"github.com/tos-network/terminos/state"
	"github.com/tos-network/terminos/tx"
)

// FreezeRequest asks to freeze amount of TOS for duration, earning
// energy at the fixed multiplier (spec §4.6).
type FreezeRequest struct {
	Signer   Signer
	Amount   uint64
	Duration paramset.FreezeDuration
	Fee      uint64
	FeeType  tx.FeeType
	Balance  SourceBalance // NativeAsset TOS balance
}

// UnfreezeRequest asks to unfreeze amount of TOS from the signer's
// eligible (already-unlocked) freeze records.
type UnfreezeRequest struct {
	Signer  Signer
	Amount  uint64
	Fee     uint64
	FeeType tx.FeeType
	Balance SourceBalance // NativeAsset TOS balance
}

// BuildFreeze assembles a signed Energy/FreezeTos transaction. Per spec
// §4.3's Energy row the range proof covers only source_commitments —
// freeze/unfreeze touch no recipient commitment.
func (b *Builder) BuildFreeze(req FreezeRequest) (*tx.Transaction, error) {
	debit := req.Amount
	if req.FeeType == tx.FeeTOS {
		debit += req.Fee
	}
	if err := checkSufficientBalance(state.NativeAsset, debit, req.Balance.CurrentBalance); err != nil {
		return nil, err
	}
	payload := tx.EnergyPayload{IsFreeze: true, Amount: req.Amount, Duration: req.Duration}
	return b.buildEnergy(req.Signer, req.Fee, req.FeeType, req.Balance, payload, req.Balance.CurrentBalance-debit, 0)
}

// BuildUnfreeze assembles a signed Energy/UnfreezeTos transaction. It
// simulates the records walk against the signer's current
// EnergyResource to learn energyRemoved before appending the transcript,
// exactly as the verifier must later re-simulate it (spec §4.5, §4.7
// step 9) — the simulation never mutates the state collaborator's copy.
func (b *Builder) BuildUnfreeze(req UnfreezeRequest) (*tx.Transaction, error) {
	sourceAddr := tx.PointToAddress(req.Signer.Public)
	res, err := b.State.GetEnergyResource(sourceAddr)
	if err != nil {
		return nil, errs.WrapState(err)
	}
	topoHeight, err := b.State.GetTopoHeight()
	if err != nil {
		return nil, errs.WrapState(err)
	}
	_, energyRemoved, err := energy.Unfreeze(res, req.Amount, topoHeight)
	if err != nil {
		return nil, err
	}

	var feeDebit uint64
	if req.FeeType == tx.FeeTOS {
		feeDebit = req.Fee
	}
	if err := checkSufficientBalance(state.NativeAsset, feeDebit, req.Balance.CurrentBalance+req.Amount); err != nil {
		return nil, err
	}
	newBalance := req.Balance.CurrentBalance + req.Amount - feeDebit

	payload := tx.EnergyPayload{IsFreeze: false, Amount: req.Amount}
	return b.buildEnergy(req.Signer, req.Fee, req.FeeType, req.Balance, payload, newBalance, energyRemoved)
}

func (b *Builder) buildEnergy(
	signer Signer,
	fee uint64,
	feeType tx.FeeType,
	bal SourceBalance,
	payload tx.EnergyPayload,
	newBalance uint64,
	energyRemoved uint64,
) (*tx.Transaction, error) {
	sourceAddr := tx.PointToAddress(signer.Public)
	nonce, err := b.State.GetNonce(sourceAddr)
	if err != nil {
		return nil, errs.WrapState(err)
	}

	t := &tx.Transaction{
		Version:      1,
		SourcePubkey: sourceAddr,
		Nonce:        nonce,
		Fee:          fee,
		FeeType:      feeType,
		DataKind:     tx.DataEnergy,
		Energy:       payload,
	}

	tr := transcript.New("tx/v1")

	oldCt, err := b.State.GetEncryptedBalance(sourceAddr, state.NativeAsset)
	if err != nil {
		return nil, errs.WrapState(err)
	}
	newCt := tx.EnergyBalanceCiphertext(oldCt, payload, fee, feeType)

	sc, newR, err := buildSourceCommitment(tr, 0, state.NativeAsset, newCt, bal.Randomness, newBalance)
	if err != nil {
		return nil, err
	}
	t.SourceCommitments = []tx.SourceCommitment{sc}

	if err := tx.AppendTransactionTranscript(tr, t, energyRemoved); err != nil {
		return nil, err
	}

	rpTr := tx.RangeProofTranscript(tr)
	rp, err := rangeproof.Prove(rpTr, []uint64{newBalance}, []*curve.Scalar{newR})
	if err != nil {
		return nil, err
	}
	t.RangeProof = rp.Bytes()

	hash := t.Hash()
	sig, err := schnorr.Sign(signer.Secret, hash[:])
	if err != nil {
		return nil, err
	}
	t.Signature = sig

	log.Trace("txbuilder energy built", "nonce", nonce, "is_freeze", payload.IsFreeze, "amount", payload.Amount)
	return t, nil
}
