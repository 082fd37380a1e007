// Package tx defines the Terminos transaction data model (spec §3) and
// the canonical wire codec and transcript-append routine every builder
// and verifier must share (spec §4.1, §4.5, §9). Nothing here performs
// verification or state mutation — see txverify and txapply.
package tx

import (
	"github.com/tos-network/terminos/common"
	"github.com/tos-network/terminos/crypto/elgamal"
	"github.com/tos-network/terminos/crypto/schnorr"
	"github.com/tos-network/terminos/crypto/sigma"
	"github.com/tos-network/terminos/paramset"
	"github.com/tos-network/terminos/state"
)

// FeeType selects whether fee is paid in TOS or consumed as Energy.
type FeeType uint8

const (
	FeeTOS    FeeType = 0
	FeeEnergy FeeType = 1
)

// DataKind tags the Transaction.Data variant.
type DataKind uint8

const (
	DataTransfers DataKind = iota
	DataBurn
	DataMultiSig
	DataInvokeContract
	DataDeployContract
	DataEnergy
)

// TransferOutput is one recipient leg of a Transfers payload (spec §3).
type TransferOutput struct {
	Recipient common.Address
	Asset     state.AssetID
	// Commitment is the shared C component; DestHandle decrypts under
	// Recipient, SourceHandle preserves homomorphic consistency for the
	// sender's own bookkeeping (spec §3's "sender component").
	Commitment  []byte // compressed point, 32 bytes
	DestHandle  []byte // compressed point, 32 bytes
	SourceHandle []byte // compressed point, 32 bytes
	EncryptedMemo []byte
	ValidityProof sigma.CiphertextValidityProof
}

// SourceCommitment is the per-touched-asset Pedersen commitment to the
// sender's new balance plus its equality proof (spec §3).
type SourceCommitment struct {
	Asset         state.AssetID
	Commitment    elgamal.Commitment
	EqualityProof sigma.CommitmentEqualityProof
}

// EnergyPayload is either FreezeTos or UnfreezeTos (spec §3). Duration
// is meaningful only when IsFreeze is true.
type EnergyPayload struct {
	IsFreeze bool
	Amount   uint64
	Duration paramset.FreezeDuration
}

// BurnData is the Burn variant's payload.
type BurnData struct {
	Asset  state.AssetID
	Amount uint64
	// AmountCommitment is the Pedersen commitment to Amount fed into the
	// aggregated range proof (spec §4.3's Burn row).
	AmountCommitment elgamal.Commitment
}

// ContractData is the shared payload shape for InvokeContract and
// DeployContract: opaque VM bytes plus optional confidential deposits.
type ContractData struct {
	Contract common.Address // zero for DeployContract
	Payload  []byte
	Deposits []TransferOutput // per-deposit commitments, range-proved like transfers
}

// MultiSigData declares a multisig policy change or co-signature set;
// the core only needs enough of it to build the commitment list (none —
// MultiSig carries no extra amount commitments per spec §4.3) and to
// bind it into the transcript.
type MultiSigData struct {
	Threshold uint8
	Signers   []common.Address
}

// Transaction is the full signed transaction (spec §3).
type Transaction struct {
	Version        uint8
	SourcePubkey   common.Address
	Nonce          uint64
	Fee            uint64
	FeeType        FeeType
	DataKind       DataKind
	Transfers      []TransferOutput // DataTransfers
	Burn           BurnData         // DataBurn
	MultiSig       MultiSigData     // DataMultiSig
	Contract       ContractData     // DataInvokeContract / DataDeployContract
	Energy         EnergyPayload    // DataEnergy
	SourceCommitments []SourceCommitment
	RangeProof     []byte // encoded rangeproof.Proof
	Signature      schnorr.Signature
}
