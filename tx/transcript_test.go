package tx

import (
	"bytes"
	"testing"

	"github.com/tos-network/terminos/common"
	"github.com/tos-network/terminos/crypto/transcript"
	"github.com/tos-network/terminos/paramset"
)

func sampleEnergyTx() *Transaction {
	return &Transaction{
		Version:      1,
		SourcePubkey: common.Address{0x01},
		Nonce:        7,
		Fee:          3,
		FeeType:      FeeTOS,
		DataKind:     DataEnergy,
		Energy:       EnergyPayload{IsFreeze: true, Amount: 100, Duration: paramset.Day7},
	}
}

// Invariant 4 — transcript symmetry: two independent calls to
// AppendTransactionTranscript over the same transaction produce byte-
// identical challenges.
func TestTranscriptSymmetry(t *testing.T) {
	txn := sampleEnergyTx()

	tr1 := transcript.New("tx/v1")
	if err := AppendTransactionTranscript(tr1, txn, 0); err != nil {
		t.Fatalf("append 1: %v", err)
	}
	c1 := tr1.ChallengeBytes("test", 32)

	tr2 := transcript.New("tx/v1")
	if err := AppendTransactionTranscript(tr2, txn, 0); err != nil {
		t.Fatalf("append 2: %v", err)
	}
	c2 := tr2.ChallengeBytes("test", 32)

	if !bytes.Equal(c1, c2) {
		t.Fatalf("transcript diverged across two builder-order appends of the same tx")
	}
}

// S6 — transcript duplication regression: a mutant that appends
// energy_amount twice must diverge from the canonical single append.
func TestTranscriptDuplicationRegression(t *testing.T) {
	txn := sampleEnergyTx()

	canonical := transcript.New("tx/v1")
	if err := AppendTransactionTranscript(canonical, txn, 0); err != nil {
		t.Fatalf("canonical append: %v", err)
	}
	canonicalChallenge := canonical.ChallengeBytes("test", 32)

	mutant := transcript.New("tx/v1")
	mutant.AppendU8("version", txn.Version)
	mutant.AppendMessage("source", txn.SourcePubkey.Bytes())
	mutant.AppendU64("fee", txn.Fee)
	mutant.AppendU8("fee_type", uint8(txn.FeeType))
	mutant.AppendU64("nonce", txn.Nonce)
	mutant.AppendU8("tx/data_kind", uint8(txn.DataKind))
	mutant.AppendU64("energy_amount", txn.Energy.Amount) // duplicated below
	if err := appendEnergyTranscript(mutant, txn.Energy, 0); err != nil {
		t.Fatalf("mutant energy append: %v", err)
	}
	mutant.AppendU64("tx/source_commitments/count", 0)
	mutantChallenge := mutant.ChallengeBytes("test", 32)

	if bytes.Equal(canonicalChallenge, mutantChallenge) {
		t.Fatalf("mutant transcript with duplicated energy_amount must diverge from canonical")
	}
}

func TestTranscriptDivergesOnFeeTypeBaitAndSwitch(t *testing.T) {
	txn := sampleEnergyTx()

	tr1 := transcript.New("tx/v1")
	if err := AppendTransactionTranscript(tr1, txn, 0); err != nil {
		t.Fatalf("append: %v", err)
	}
	c1 := tr1.ChallengeBytes("test", 32)

	swapped := *txn
	swapped.FeeType = FeeEnergy
	tr2 := transcript.New("tx/v1")
	if err := AppendTransactionTranscript(tr2, &swapped, 0); err != nil {
		t.Fatalf("append: %v", err)
	}
	c2 := tr2.ChallengeBytes("test", 32)

	if bytes.Equal(c1, c2) {
		t.Fatalf("fee_type bait-and-switch must change the transcript even though fee is unaffected")
	}
}
