package tx

import (
	"github.com/tos-network/terminos/crypto/curve"
	"github.com/tos-network/terminos/crypto/elgamal"
	"github.com/tos-network/terminos/paramset"
	"github.com/tos-network/terminos/state"
)

// TransfersDebitCiphertext computes the sender's expected new balance
// ciphertext for asset after a Transfers transaction, from public fields
// alone: oldCt minus the ciphertext of every output of asset (since the
// transferred amount stays confidential, this is a ciphertext
// subtraction, never a scalar one revealing the amount) minus the TOS
// fee and new-address activation fees when those are charged against
// asset, which are public scalars. Builder and verifier both call this
// single routine so the two homomorphic updates can never diverge
// (spec §4.2) — the same discipline AppendTransactionTranscript applies
// to the transcript.
func TransfersDebitCiphertext(
	oldCt elgamal.Ciphertext,
	outputs []TransferOutput,
	asset state.AssetID,
	fee uint64,
	feeType FeeType,
	newAddressCount uint64,
) (elgamal.Ciphertext, error) {
	newCt := oldCt
	for _, out := range outputs {
		if out.Asset != asset {
			continue
		}
		c, err := curve.DecodePoint(out.Commitment)
		if err != nil {
			return elgamal.Ciphertext{}, err
		}
		d, err := curve.DecodePoint(out.SourceHandle)
		if err != nil {
			return elgamal.Ciphertext{}, err
		}
		newCt = elgamal.Sub(newCt, elgamal.Ciphertext{C: c, D: d})
	}
	if asset == state.NativeAsset {
		var debit uint64
		if feeType == FeeTOS {
			debit += fee
		}
		debit += newAddressCount * paramset.ACCOUNT_ACTIVATION_FEE
		if debit > 0 {
			newCt = elgamal.SubScalar(newCt, curve.ScalarFromUint64(debit))
		}
	}
	return newCt, nil
}

// BurnDebitCiphertext computes the sender's expected new balance
// ciphertext after a Burn transaction. Burn.Amount is a public field
// (spec §3's data model declares Burn{asset, amount} plainly, unlike the
// confidential Transfers amounts), so this is a direct scalar
// subtraction, plus the TOS fee when it is charged against the same
// asset the burn touches.
func BurnDebitCiphertext(oldCt elgamal.Ciphertext, burn BurnData, fee uint64, feeType FeeType) elgamal.Ciphertext {
	debit := burn.Amount
	if feeType == FeeTOS && burn.Asset == state.NativeAsset {
		debit += fee
	}
	if debit == 0 {
		return oldCt
	}
	return elgamal.SubScalar(oldCt, curve.ScalarFromUint64(debit))
}

// EnergyBalanceCiphertext computes the sender's expected new TOS balance
// ciphertext after a Freeze/Unfreeze transaction. EnergyPayload.Amount is
// a public field (it is bound into the transcript in plaintext per
// §4.5), so this is a direct scalar operation: subtraction on freeze (TOS
// locks up), addition on unfreeze (TOS flows back), net of the TOS fee
// when one is charged.
func EnergyBalanceCiphertext(oldCt elgamal.Ciphertext, payload EnergyPayload, fee uint64, feeType FeeType) elgamal.Ciphertext {
	if payload.IsFreeze {
		debit := payload.Amount
		if feeType == FeeTOS {
			debit += fee
		}
		return elgamal.SubScalar(oldCt, curve.ScalarFromUint64(debit))
	}
	ct := elgamal.AddScalar(oldCt, curve.ScalarFromUint64(payload.Amount))
	if feeType == FeeTOS && fee > 0 {
		ct = elgamal.SubScalar(ct, curve.ScalarFromUint64(fee))
	}
	return ct
}
