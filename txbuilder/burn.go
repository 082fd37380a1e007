package txbuilder

import (
	"github.com/tos-network/terminos/crypto/curve"
	"github.com/tos-network/terminos/crypto/elgamal"
	"github.com/tos-network/terminos/crypto/rangeproof"
	"github.com/tos-network/terminos/crypto/schnorr"
	"github.com/tos-network/terminos/crypto/transcript"
	"github.com/tos-network/terminos/errs"
	"github.com/tos-network/terminos/log"
	"github.com/tos-network/terminos/state"
	"github.com/tos-network/terminos/tx"
)

// BurnRequest asks to permanently destroy amount of asset from the
// signer's balance.
type BurnRequest struct {
	Signer  Signer
	Asset   state.AssetID
	Amount  uint64
	Fee     uint64
	FeeType tx.FeeType
	Balance SourceBalance // must be for Asset; if FeeType=TOS and Asset != NativeAsset a second TOS-fee SourceBalance isn't modeled — callers burn the native asset when they also pay a TOS fee from it
}

// BuildBurn assembles a signed Burn transaction. Per spec §4.3's Burn
// row, the range proof covers source_commitments plus a single burn
// amount commitment. Burn.Amount is a public field of the transaction,
// so the sender's new balance ciphertext is a plain scalar subtraction
// (tx.BurnDebitCiphertext) — unlike Transfers, nothing here needs to
// hide from the verifier.
func (b *Builder) BuildBurn(req BurnRequest) (*tx.Transaction, error) {
	sourceAddr := tx.PointToAddress(req.Signer.Public)
	nonce, err := b.State.GetNonce(sourceAddr)
	if err != nil {
		return nil, errs.WrapState(err)
	}

	debit := req.Amount
	if req.FeeType == tx.FeeTOS && req.Asset == state.NativeAsset {
		debit += req.Fee
	}
	if err := checkSufficientBalance(req.Asset, debit, req.Balance.CurrentBalance); err != nil {
		return nil, err
	}

	t := &tx.Transaction{
		Version:      1,
		SourcePubkey: sourceAddr,
		Nonce:        nonce,
		Fee:          req.Fee,
		FeeType:      req.FeeType,
		DataKind:     tx.DataBurn,
		Burn: tx.BurnData{
			Asset:  req.Asset,
			Amount: req.Amount,
		},
	}

	tr := transcript.New("tx/v1")

	oldCt, err := b.State.GetEncryptedBalance(sourceAddr, req.Asset)
	if err != nil {
		return nil, errs.WrapState(err)
	}
	newCt := tx.BurnDebitCiphertext(oldCt, t.Burn, req.Fee, req.FeeType)
	newBalance := req.Balance.CurrentBalance - debit

	sc, newR, err := buildSourceCommitment(tr, 0, req.Asset, newCt, req.Balance.Randomness, newBalance)
	if err != nil {
		return nil, err
	}
	t.SourceCommitments = []tx.SourceCommitment{sc}

	burnR, err := curve.RandomScalar()
	if err != nil {
		return nil, err
	}
	t.Burn.AmountCommitment = elgamal.Commit(curve.ScalarFromUint64(req.Amount), burnR)

	if err := tx.AppendTransactionTranscript(tr, t, 0); err != nil {
		return nil, err
	}

	rpTr := tx.RangeProofTranscript(tr)
	rp, err := rangeproof.Prove(rpTr, []uint64{newBalance, req.Amount}, []*curve.Scalar{newR, burnR})
	if err != nil {
		return nil, err
	}
	t.RangeProof = rp.Bytes()

	hash := t.Hash()
	sig, err := schnorr.Sign(req.Signer.Secret, hash[:])
	if err != nil {
		return nil, err
	}
	t.Signature = sig

	log.Trace("txbuilder burn built", "nonce", nonce, "asset", req.Asset, "amount", req.Amount)
	return t, nil
}
