package tx

import (
	"bytes"
	"testing"

	"github.com/tos-network/terminos/common"
	"github.com/tos-network/terminos/crypto/curve"
	"github.com/tos-network/terminos/crypto/elgamal"
	"github.com/tos-network/terminos/crypto/schnorr"
	"github.com/tos-network/terminos/crypto/sigma"
	"github.com/tos-network/terminos/crypto/transcript"
	"github.com/tos-network/terminos/paramset"
	"github.com/tos-network/terminos/state"
)

func dummyTransferOutput(t *testing.T, recipient common.Address, amount uint64) TransferOutput {
	t.Helper()
	sk, err := curve.RandomScalar()
	if err != nil {
		t.Fatalf("random scalar: %v", err)
	}
	pSource := curve.PointMulScalar(sk, curve.Basepoint())
	pDest := curve.PointMulScalar(sk, curve.Basepoint())
	r, err := curve.RandomScalar()
	if err != nil {
		t.Fatalf("random scalar: %v", err)
	}
	tr := transcript.New("codec-test")
	proof, ct, dDest, dSource, err := sigma.ProveCiphertextValidity(tr, pDest, pSource, amount, r)
	if err != nil {
		t.Fatalf("prove ciphertext validity: %v", err)
	}
	return TransferOutput{
		Recipient:     recipient,
		Asset:         state.NativeAsset,
		Commitment:    ct.C.Bytes(),
		DestHandle:    dDest.Bytes(),
		SourceHandle:  dSource.Bytes(),
		EncryptedMemo: []byte("memo"),
		ValidityProof: proof,
	}
}

func dummySourceCommitment(t *testing.T, asset state.AssetID) SourceCommitment {
	t.Helper()
	r, err := curve.RandomScalar()
	if err != nil {
		t.Fatalf("random scalar: %v", err)
	}
	com := elgamal.Commit(curve.ScalarFromUint64(42), r)
	tr := transcript.New("codec-test")
	proof, err := sigma.ProveCommitmentEquality(tr, com.Point, curve.Identity(), r)
	if err != nil {
		t.Fatalf("prove commitment equality: %v", err)
	}
	return SourceCommitment{Asset: asset, Commitment: com, EqualityProof: proof}
}

func signedCopy(t *testing.T, txn *Transaction) *Transaction {
	t.Helper()
	sk, err := curve.RandomScalar()
	if err != nil {
		t.Fatalf("random scalar: %v", err)
	}
	hash := txn.Hash()
	sig, err := schnorr.Sign(sk, hash[:])
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	txn.Signature = sig
	return txn
}

func assertRoundTrip(t *testing.T, txn *Transaction) {
	t.Helper()
	encoded := txn.Encode()
	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(decoded.Encode(), encoded) {
		t.Fatalf("round trip mismatch: decode(encode(tx)).encode() != encode(tx)")
	}
}

func TestCodecRoundTripTransfers(t *testing.T) {
	txn := &Transaction{
		Version:      1,
		SourcePubkey: common.Address{0xAA},
		Nonce:        3,
		Fee:          10,
		FeeType:      FeeTOS,
		DataKind:     DataTransfers,
		Transfers: []TransferOutput{
			dummyTransferOutput(t, common.Address{0xBB}, 25),
			dummyTransferOutput(t, common.Address{0xCC}, 5),
		},
		SourceCommitments: []SourceCommitment{dummySourceCommitment(t, state.NativeAsset)},
		RangeProof:        []byte{1, 2, 3, 4},
	}
	assertRoundTrip(t, signedCopy(t, txn))
}

func TestCodecRoundTripBurn(t *testing.T) {
	r, err := curve.RandomScalar()
	if err != nil {
		t.Fatalf("random scalar: %v", err)
	}
	txn := &Transaction{
		Version:      1,
		SourcePubkey: common.Address{0x01},
		Nonce:        1,
		Fee:          2,
		FeeType:      FeeTOS,
		DataKind:     DataBurn,
		Burn: BurnData{
			Asset:            state.NativeAsset,
			Amount:           99,
			AmountCommitment: elgamal.Commit(curve.ScalarFromUint64(99), r),
		},
		SourceCommitments: []SourceCommitment{dummySourceCommitment(t, state.NativeAsset)},
		RangeProof:        []byte{9, 9},
	}
	assertRoundTrip(t, signedCopy(t, txn))
}

func TestCodecRoundTripEnergy(t *testing.T) {
	txn := &Transaction{
		Version:      1,
		SourcePubkey: common.Address{0x02},
		Nonce:        4,
		Fee:          0,
		FeeType:      FeeTOS,
		DataKind:     DataEnergy,
		Energy:       EnergyPayload{IsFreeze: true, Amount: 100, Duration: paramset.Day14},
		SourceCommitments: []SourceCommitment{dummySourceCommitment(t, state.NativeAsset)},
		RangeProof:        []byte{7},
	}
	assertRoundTrip(t, signedCopy(t, txn))
}

func TestCodecRoundTripMultiSig(t *testing.T) {
	txn := &Transaction{
		Version:      1,
		SourcePubkey: common.Address{0x03},
		Nonce:        0,
		FeeType:      FeeTOS,
		DataKind:     DataMultiSig,
		MultiSig: MultiSigData{
			Threshold: 2,
			Signers:   []common.Address{{0x10}, {0x11}, {0x12}},
		},
		RangeProof: nil,
	}
	assertRoundTrip(t, signedCopy(t, txn))
}

func TestCodecRoundTripInvokeContract(t *testing.T) {
	txn := &Transaction{
		Version:      1,
		SourcePubkey: common.Address{0x04},
		Nonce:        2,
		FeeType:      FeeTOS,
		DataKind:     DataInvokeContract,
		Contract: ContractData{
			Contract: common.Address{0x20},
			Payload:  []byte("invoke-payload"),
			Deposits: []TransferOutput{dummyTransferOutput(t, common.Address{0x20}, 7)},
		},
		SourceCommitments: []SourceCommitment{dummySourceCommitment(t, state.NativeAsset)},
		RangeProof:        []byte{3, 3, 3},
	}
	assertRoundTrip(t, signedCopy(t, txn))
}

// Invariant 3 — signature cover: modifying any field after signing
// invalidates the signature (here, the signed bytes change, so a later
// re-verification against the original hash must fail).
func TestSignatureCoversAllFields(t *testing.T) {
	txn := &Transaction{
		Version:      1,
		SourcePubkey: common.Address{0x05},
		Nonce:        1,
		Fee:          1,
		FeeType:      FeeTOS,
		DataKind:     DataBurn,
		Burn: BurnData{
			Asset:            state.NativeAsset,
			Amount:           10,
			AmountCommitment: elgamal.Commit(curve.ScalarFromUint64(10), curve.ScalarZero()),
		},
	}
	before := txn.Hash()
	txn.Nonce = 2
	after := txn.Hash()
	if before == after {
		t.Fatalf("modifying nonce after signing must change the signed hash")
	}
}
