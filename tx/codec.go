package tx

import (
	"github.com/tos-network/terminos/common"
	"github.com/tos-network/terminos/crypto/elgamal"
	"github.com/tos-network/terminos/crypto/schnorr"
	"github.com/tos-network/terminos/crypto/sigma"
	"github.com/tos-network/terminos/paramset"
	"github.com/tos-network/terminos/state"
)

// Encode produces the canonical, deterministic wire encoding of t,
// including its signature. This is the byte string broadcast between
// nodes; Hash's input (SigningBytes) is a prefix of this encoding minus
// the trailing signature.
func (t *Transaction) Encode() []byte {
	w := newWriter()
	t.encodeSignable(w)
	w.fixedBytes(t.Signature.Bytes())
	return w.bytes()
}

// SigningBytes returns the canonical encoding of every field the outer
// signature covers, i.e. everything except the signature itself.
func (t *Transaction) SigningBytes() []byte {
	w := newWriter()
	t.encodeSignable(w)
	return w.bytes()
}

func (t *Transaction) encodeSignable(w *writer) {
	w.u8(t.Version)
	w.address(t.SourcePubkey)
	w.u64(t.Nonce)
	w.u64(t.Fee)
	w.u8(uint8(t.FeeType))
	w.u8(uint8(t.DataKind))

	switch t.DataKind {
	case DataTransfers:
		encodeTransferOutputs(w, t.Transfers)
	case DataBurn:
		w.fixedBytes(t.Burn.Asset[:])
		w.u64(t.Burn.Amount)
		w.fixedBytes(t.Burn.AmountCommitment.Bytes())
	case DataMultiSig:
		w.u8(t.MultiSig.Threshold)
		w.u64(uint64(len(t.MultiSig.Signers)))
		for _, s := range t.MultiSig.Signers {
			w.address(s)
		}
	case DataInvokeContract, DataDeployContract:
		w.address(t.Contract.Contract)
		w.varBytes(t.Contract.Payload)
		encodeTransferOutputs(w, t.Contract.Deposits)
	case DataEnergy:
		w.u8(boolToU8(t.Energy.IsFreeze))
		w.u64(t.Energy.Amount)
		w.u8(uint8(t.Energy.Duration))
	}

	w.u64(uint64(len(t.SourceCommitments)))
	for _, sc := range t.SourceCommitments {
		w.fixedBytes(sc.Asset[:])
		w.fixedBytes(sc.Commitment.Bytes())
		w.fixedBytes(sc.EqualityProof.Bytes())
	}

	w.varBytes(t.RangeProof)
}

func encodeTransferOutputs(w *writer, outs []TransferOutput) {
	w.u64(uint64(len(outs)))
	for _, out := range outs {
		w.address(out.Recipient)
		w.fixedBytes(out.Asset[:])
		w.fixedBytes(out.Commitment)
		w.fixedBytes(out.DestHandle)
		w.fixedBytes(out.SourceHandle)
		w.varBytes(out.EncryptedMemo)
		w.fixedBytes(out.ValidityProof.Bytes())
	}
}

// Decode parses a Transaction from its canonical wire encoding.
func Decode(b []byte) (*Transaction, error) {
	r := newReader(b)
	t, err := decodeSignable(r)
	if err != nil {
		return nil, err
	}
	sigBytes, err := r.fixedBytes(64)
	if err != nil {
		return nil, err
	}
	sig, err := schnorr.Decode(sigBytes)
	if err != nil {
		return nil, err
	}
	t.Signature = sig
	if !r.done() {
		return nil, ErrShortBuffer
	}
	return t, nil
}

func decodeSignable(r *reader) (*Transaction, error) {
	t := &Transaction{}
	var err error
	if t.Version, err = r.u8(); err != nil {
		return nil, err
	}
	if t.SourcePubkey, err = r.address(); err != nil {
		return nil, err
	}
	if t.Nonce, err = r.u64(); err != nil {
		return nil, err
	}
	if t.Fee, err = r.u64(); err != nil {
		return nil, err
	}
	feeType, err := r.u8()
	if err != nil {
		return nil, err
	}
	t.FeeType = FeeType(feeType)
	dataKind, err := r.u8()
	if err != nil {
		return nil, err
	}
	t.DataKind = DataKind(dataKind)

	switch t.DataKind {
	case DataTransfers:
		if t.Transfers, err = decodeTransferOutputs(r); err != nil {
			return nil, err
		}
	case DataBurn:
		asset, err := r.fixedBytes(32)
		if err != nil {
			return nil, err
		}
		copy(t.Burn.Asset[:], asset)
		if t.Burn.Amount, err = r.u64(); err != nil {
			return nil, err
		}
		com, err := r.fixedBytes(32)
		if err != nil {
			return nil, err
		}
		if t.Burn.AmountCommitment, err = elgamal.DecodeCommitment(com); err != nil {
			return nil, err
		}
	case DataMultiSig:
		if t.MultiSig.Threshold, err = r.u8(); err != nil {
			return nil, err
		}
		n, err := r.u64()
		if err != nil {
			return nil, err
		}
		t.MultiSig.Signers = make([]common.Address, n)
		for i := range t.MultiSig.Signers {
			if t.MultiSig.Signers[i], err = r.address(); err != nil {
				return nil, err
			}
		}
	case DataInvokeContract, DataDeployContract:
		if t.Contract.Contract, err = r.address(); err != nil {
			return nil, err
		}
		if t.Contract.Payload, err = r.varBytes(); err != nil {
			return nil, err
		}
		if t.Contract.Deposits, err = decodeTransferOutputs(r); err != nil {
			return nil, err
		}
	case DataEnergy:
		isFreeze, err := r.u8()
		if err != nil {
			return nil, err
		}
		t.Energy.IsFreeze = isFreeze != 0
		if t.Energy.Amount, err = r.u64(); err != nil {
			return nil, err
		}
		duration, err := r.u8()
		if err != nil {
			return nil, err
		}
		t.Energy.Duration = paramset.FreezeDuration(duration)
	default:
		return nil, ErrUnknownDataKind
	}

	n, err := r.u64()
	if err != nil {
		return nil, err
	}
	t.SourceCommitments = make([]SourceCommitment, n)
	for i := range t.SourceCommitments {
		asset, err := r.fixedBytes(32)
		if err != nil {
			return nil, err
		}
		copy(t.SourceCommitments[i].Asset[:], asset)
		com, err := r.fixedBytes(32)
		if err != nil {
			return nil, err
		}
		if t.SourceCommitments[i].Commitment, err = elgamal.DecodeCommitment(com); err != nil {
			return nil, err
		}
		proof, err := r.fixedBytes(64)
		if err != nil {
			return nil, err
		}
		if t.SourceCommitments[i].EqualityProof, err = sigma.DecodeCommitmentEqualityProof(proof); err != nil {
			return nil, err
		}
	}

	if t.RangeProof, err = r.varBytes(); err != nil {
		return nil, err
	}
	return t, nil
}

func decodeTransferOutputs(r *reader) ([]TransferOutput, error) {
	n, err := r.u64()
	if err != nil {
		return nil, err
	}
	outs := make([]TransferOutput, n)
	for i := range outs {
		recipient, err := r.address()
		if err != nil {
			return nil, err
		}
		asset, err := r.fixedBytes(32)
		if err != nil {
			return nil, err
		}
		commitment, err := r.fixedBytes(32)
		if err != nil {
			return nil, err
		}
		destHandle, err := r.fixedBytes(32)
		if err != nil {
			return nil, err
		}
		sourceHandle, err := r.fixedBytes(32)
		if err != nil {
			return nil, err
		}
		memo, err := r.varBytes()
		if err != nil {
			return nil, err
		}
		proofBytes, err := r.fixedBytes(160)
		if err != nil {
			return nil, err
		}
		proof, err := sigma.DecodeCiphertextValidityProof(proofBytes)
		if err != nil {
			return nil, err
		}
		var asset32 state.AssetID
		copy(asset32[:], asset)
		outs[i] = TransferOutput{
			Recipient:     recipient,
			Asset:         asset32,
			Commitment:    commitment,
			DestHandle:    destHandle,
			SourceHandle:  sourceHandle,
			EncryptedMemo: memo,
			ValidityProof: proof,
		}
	}
	return outs, nil
}
