package txbuilder

import (
	"github.com/tos-network/terminos/common"
	"github.com/tos-network/terminos/crypto/curve"
	"github.com/tos-network/terminos/crypto/rangeproof"
	"github.com/tos-network/terminos/crypto/schnorr"
	"github.com/tos-network/terminos/crypto/sigma"
	"github.com/tos-network/terminos/crypto/transcript"
	"github.com/tos-network/terminos/errs"
	"github.com/tos-network/terminos/log"
	"github.com/tos-network/terminos/paramset"
	"github.com/tos-network/terminos/state"
	"github.com/tos-network/terminos/tx"
)

// TransferRecipient is one leg of a Transfers payload the caller wants
// to build.
type TransferRecipient struct {
	Address common.Address
	Asset   state.AssetID
	Amount  uint64
	Memo    []byte // opaque ciphertext bytes; the core never interprets memo contents
}

// TransferRequest is everything BuildTransfer needs beyond live state
// lookups: the signer, the outputs, the fee policy, and the signer's
// declared balances for every asset the transfer touches.
type TransferRequest struct {
	Signer     Signer
	Recipients []TransferRecipient
	Fee        uint64
	FeeType    tx.FeeType
	Balances   []SourceBalance
}

// BuildTransfer assembles a signed Transfers transaction: per-output
// ciphertexts and validity proofs, per-asset source commitments and
// equality proofs, the aggregated range proof over every committed
// amount (spec §4.3's Transfers row: source_commitments ∥ per-transfer
// commitments), and the outer signature.
//
// The new balance ciphertext each source commitment is proved against
// comes from tx.TransfersDebitCiphertext — the exact routine txverify
// calls too, so the confidential (ciphertext-subtraction) debit can
// never diverge between build and verify.
func (b *Builder) BuildTransfer(req TransferRequest) (*tx.Transaction, error) {
	sourceAddr := tx.PointToAddress(req.Signer.Public)
	nonce, err := b.State.GetNonce(sourceAddr)
	if err != nil {
		return nil, errs.WrapState(err)
	}

	balanceByAsset := make(map[state.AssetID]SourceBalance, len(req.Balances))
	for _, bal := range req.Balances {
		balanceByAsset[bal.Asset] = bal
	}

	t := &tx.Transaction{
		Version:      1,
		SourcePubkey: sourceAddr,
		Nonce:        nonce,
		Fee:          req.Fee,
		FeeType:      req.FeeType,
		DataKind:     tx.DataTransfers,
	}

	tr := transcript.New("tx/v1")

	outputs := make([]tx.TransferOutput, len(req.Recipients))
	outputRandomness := make([]*curve.Scalar, len(req.Recipients))
	totalsByAsset := map[state.AssetID]uint64{}
	var newAddressCount uint64

	for i, rcp := range req.Recipients {
		registered, err := b.State.IsRegistered(rcp.Address)
		if err != nil {
			return nil, errs.WrapState(err)
		}
		if !registered {
			newAddressCount++
		}

		recipientPK, err := tx.AddressToPoint(rcp.Address)
		if err != nil {
			return nil, err
		}

		r, err := curve.RandomScalar()
		if err != nil {
			return nil, err
		}
		outputRandomness[i] = r

		sub := tx.TransferProofTranscript(tr, i)
		proof, ct, dDest, dSource, err := sigma.ProveCiphertextValidity(sub, recipientPK, req.Signer.Public, rcp.Amount, r)
		if err != nil {
			return nil, err
		}
		outputs[i] = tx.TransferOutput{
			Recipient:     rcp.Address,
			Asset:         rcp.Asset,
			Commitment:    ct.C.Bytes(),
			DestHandle:    dDest.Bytes(),
			SourceHandle:  dSource.Bytes(),
			EncryptedMemo: rcp.Memo,
			ValidityProof: proof,
		}
		totalsByAsset[rcp.Asset] += rcp.Amount
	}
	t.Transfers = outputs

	if newAddressCount > 0 {
		totalsByAsset[state.NativeAsset] += newAddressCount * paramset.ACCOUNT_ACTIVATION_FEE
	}
	if req.FeeType == tx.FeeTOS && req.Fee > 0 {
		totalsByAsset[state.NativeAsset] += req.Fee
	}

	assets := sortedAssets(totalsByAsset)
	sourceCommitments := make([]tx.SourceCommitment, 0, len(assets))

	// rangeAmounts/rangeGammas accumulate in commitment-list order per
	// spec §4.3's Transfers row: source_commitments first, then every
	// per-transfer amount, each paired with the exact blinding scalar its
	// commitment was built under (the range proof reuses those openings,
	// it never re-derives them).
	var rangeAmounts []uint64
	var rangeGammas []*curve.Scalar

	for i, asset := range assets {
		bal, ok := balanceByAsset[asset]
		if !ok {
			return nil, &errs.InsufficientBalanceError{Asset: asset, Required: totalsByAsset[asset], Available: 0}
		}
		if err := checkSufficientBalance(asset, totalsByAsset[asset], bal.CurrentBalance); err != nil {
			return nil, err
		}

		oldCt, err := b.State.GetEncryptedBalance(sourceAddr, asset)
		if err != nil {
			return nil, errs.WrapState(err)
		}

		newCt, err := tx.TransfersDebitCiphertext(oldCt, outputs, asset, req.Fee, req.FeeType, newAddressCount)
		if err != nil {
			return nil, err
		}

		effectiveR := bal.Randomness
		for j, rcp := range req.Recipients {
			if rcp.Asset == asset {
				effectiveR = curve.ScalarSub(effectiveR, outputRandomness[j])
			}
		}

		newBalance := bal.CurrentBalance - totalsByAsset[asset]
		sc, newR, err := buildSourceCommitment(tr, i, asset, newCt, effectiveR, newBalance)
		if err != nil {
			return nil, err
		}
		sourceCommitments = append(sourceCommitments, sc)
		rangeAmounts = append(rangeAmounts, newBalance)
		rangeGammas = append(rangeGammas, newR)
	}
	t.SourceCommitments = sourceCommitments

	for i, rcp := range req.Recipients {
		rangeAmounts = append(rangeAmounts, rcp.Amount)
		rangeGammas = append(rangeGammas, outputRandomness[i])
	}

	if err := tx.AppendTransactionTranscript(tr, t, 0); err != nil {
		return nil, err
	}

	rpTr := tx.RangeProofTranscript(tr)
	rp, err := rangeproof.Prove(rpTr, rangeAmounts, rangeGammas)
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

	log.Trace("txbuilder transfer built", "nonce", nonce, "outputs", len(outputs), "fee_type", req.FeeType)
	return t, nil
}

func sortedAssets(m map[state.AssetID]uint64) []state.AssetID {
	out := make([]state.AssetID, 0, len(m))
	for a := range m {
		out = append(out, a)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && string(out[j-1][:]) > string(out[j][:]); j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
