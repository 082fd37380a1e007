package txapply_test

// End-to-end coverage of spec §8's worked scenarios: build via txbuilder,
// check via txverify, mutate via txapply, against a state.Memory. Placed
// as an external test package here (rather than inside txbuilder or
// txverify) since txapply imports neither of its siblings, so only this
// package can import all three without a cycle.

import (
	"testing"

	"github.com/tos-network/terminos/common"
	"github.com/tos-network/terminos/crypto/curve"
	"github.com/tos-network/terminos/crypto/elgamal"
	"github.com/tos-network/terminos/energy"
	"github.com/tos-network/terminos/errs"
	"github.com/tos-network/terminos/paramset"
	"github.com/tos-network/terminos/state"
	"github.com/tos-network/terminos/tx"
	"github.com/tos-network/terminos/txapply"
	"github.com/tos-network/terminos/txbuilder"
	"github.com/tos-network/terminos/txverify"
)

type keypair struct {
	secret *curve.Scalar
	public *curve.Point
	addr   common.Address
}

func newKeypair(t *testing.T) keypair {
	t.Helper()
	sk, err := curve.RandomScalar()
	if err != nil {
		t.Fatalf("random scalar: %v", err)
	}
	pk := curve.PointMulScalar(sk, curve.Basepoint())
	return keypair{secret: sk, public: pk, addr: tx.PointToAddress(pk)}
}

// fundNativeBalance sets account's stored TOS ciphertext to amount under a
// known randomness, returning that randomness for the builder's
// SourceBalance declaration.
func fundNativeBalance(t *testing.T, p *state.Memory, kp keypair, amount uint64) *curve.Scalar {
	t.Helper()
	r, err := curve.RandomScalar()
	if err != nil {
		t.Fatalf("random scalar: %v", err)
	}
	ct := elgamal.EncryptWithRandomness(kp.public, amount, r)
	if err := p.SetEncryptedBalance(kp.addr, state.NativeAsset, ct); err != nil {
		t.Fatalf("set balance: %v", err)
	}
	return r
}

// S1 — a plain TOS-fee transfer: Alice sends 25 to an already-registered
// Bob with fee=1, and both balances land exactly where the homomorphic
// update formula says they should.
func TestScenarioTransferTOSFee(t *testing.T) {
	p := state.NewMemory(0)
	alice := newKeypair(t)
	bob := newKeypair(t)
	if err := p.Register(bob.addr); err != nil {
		t.Fatalf("register bob: %v", err)
	}

	aliceR := fundNativeBalance(t, p, alice, 100)
	oldCt, err := p.GetEncryptedBalance(alice.addr, state.NativeAsset)
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}

	b := txbuilder.New(p)
	txn, err := b.BuildTransfer(txbuilder.TransferRequest{
		Signer: txbuilder.Signer{Secret: alice.secret, Public: alice.public},
		Recipients: []txbuilder.TransferRecipient{
			{Address: bob.addr, Asset: state.NativeAsset, Amount: 25},
		},
		Fee:     1,
		FeeType: tx.FeeTOS,
		Balances: []txbuilder.SourceBalance{
			{Asset: state.NativeAsset, CurrentBalance: 100, Randomness: aliceR},
		},
	})
	if err != nil {
		t.Fatalf("build transfer: %v", err)
	}

	if err := txverify.Verify(txn, p); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if err := txapply.Apply(txn, p, nil); err != nil {
		t.Fatalf("apply: %v", err)
	}

	nonce, err := p.GetNonce(alice.addr)
	if err != nil || nonce != 1 {
		t.Fatalf("expected alice nonce=1, got %d (err=%v)", nonce, err)
	}

	wantAliceCt, err := tx.TransfersDebitCiphertext(oldCt, txn.Transfers, state.NativeAsset, txn.Fee, txn.FeeType, 0)
	if err != nil {
		t.Fatalf("compute expected ciphertext: %v", err)
	}
	gotAliceCt, err := p.GetEncryptedBalance(alice.addr, state.NativeAsset)
	if err != nil {
		t.Fatalf("get alice balance: %v", err)
	}
	if !elgamal.Equal(gotAliceCt, wantAliceCt) {
		t.Fatalf("alice's post-apply balance does not equal old - 25 - 1")
	}

	out := txn.Transfers[0]
	c, err := curve.DecodePoint(out.Commitment)
	if err != nil {
		t.Fatalf("decode commitment: %v", err)
	}
	d, err := curve.DecodePoint(out.DestHandle)
	if err != nil {
		t.Fatalf("decode dest handle: %v", err)
	}
	wantBobCt := elgamal.Ciphertext{C: c, D: d}
	gotBobCt, err := p.GetEncryptedBalance(bob.addr, state.NativeAsset)
	if err != nil {
		t.Fatalf("get bob balance: %v", err)
	}
	if !elgamal.Equal(gotBobCt, wantBobCt) {
		t.Fatalf("bob's post-apply balance does not equal the credited output ciphertext")
	}
}

// S2 — an Energy-fee transfer: the TOS balance moves by the transferred
// amount alone, and the energy resource's UsedEnergy grows by exactly
// ENERGY_PER_TRANSFER*|outputs| + ENERGY_PER_KB*ceil(size/1024).
func TestScenarioTransferEnergyFee(t *testing.T) {
	p := state.NewMemory(0)
	alice := newKeypair(t)
	bob := newKeypair(t)
	if err := p.Register(bob.addr); err != nil {
		t.Fatalf("register bob: %v", err)
	}

	aliceR := fundNativeBalance(t, p, alice, 100)

	res := energy.New()
	res, _, err := energy.Freeze(res, 100_000, paramset.Day14, 0)
	if err != nil {
		t.Fatalf("freeze: %v", err)
	}
	if err := p.UpdateEnergyResource(alice.addr, res); err != nil {
		t.Fatalf("seed energy: %v", err)
	}
	energyBefore, err := p.GetEnergyResource(alice.addr)
	if err != nil {
		t.Fatalf("get energy: %v", err)
	}

	b := txbuilder.New(p)
	txn, err := b.BuildTransfer(txbuilder.TransferRequest{
		Signer: txbuilder.Signer{Secret: alice.secret, Public: alice.public},
		Recipients: []txbuilder.TransferRecipient{
			{Address: bob.addr, Asset: state.NativeAsset, Amount: 5},
		},
		Fee:     0,
		FeeType: tx.FeeEnergy,
		Balances: []txbuilder.SourceBalance{
			{Asset: state.NativeAsset, CurrentBalance: 100, Randomness: aliceR},
		},
	})
	if err != nil {
		t.Fatalf("build transfer: %v", err)
	}

	if err := txverify.Verify(txn, p); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if err := txapply.Apply(txn, p, nil); err != nil {
		t.Fatalf("apply: %v", err)
	}

	gotCt, err := p.GetEncryptedBalance(alice.addr, state.NativeAsset)
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	oldCt := elgamal.EncryptWithRandomness(alice.public, 100, aliceR)
	expectCt, err := tx.TransfersDebitCiphertext(oldCt, txn.Transfers, state.NativeAsset, txn.Fee, txn.FeeType, 0)
	if err != nil {
		t.Fatalf("compute expected ciphertext: %v", err)
	}
	if !elgamal.Equal(gotCt, expectCt) {
		t.Fatalf("alice's post-apply TOS balance does not reflect the transferred amount alone")
	}

	size := uint64(len(txn.Encode()))
	kb := (size + paramset.BYTES_PER_KB - 1) / paramset.BYTES_PER_KB
	wantCost := paramset.ENERGY_PER_TRANSFER*uint64(len(txn.Transfers)) + paramset.ENERGY_PER_KB*kb

	energyAfter, err := p.GetEnergyResource(alice.addr)
	if err != nil {
		t.Fatalf("get energy: %v", err)
	}
	if energyAfter.UsedEnergy-energyBefore.UsedEnergy != wantCost {
		t.Fatalf("expected energy debit %d, got %d", wantCost, energyAfter.UsedEnergy-energyBefore.UsedEnergy)
	}
}

// S3 — fee_type=Energy is illegal outside Transfers; a Freeze built with
// it must be rejected by Verify, never silently accepted or miscosted.
func TestScenarioEnergyFeeRejectedOnFreeze(t *testing.T) {
	p := state.NewMemory(0)
	alice := newKeypair(t)
	aliceR := fundNativeBalance(t, p, alice, 100)

	b := txbuilder.New(p)
	txn, err := b.BuildFreeze(txbuilder.FreezeRequest{
		Signer:   txbuilder.Signer{Secret: alice.secret, Public: alice.public},
		Amount:   10,
		Duration: paramset.Day3,
		Fee:      0,
		FeeType:  tx.FeeEnergy,
		Balance:  txbuilder.SourceBalance{Asset: state.NativeAsset, CurrentBalance: 100, Randomness: aliceR},
	})
	if err != nil {
		t.Fatalf("build freeze: %v", err)
	}

	err = txverify.Verify(txn, p)
	if err != errs.ErrInvalidFeeType {
		t.Fatalf("expected ErrInvalidFeeType, got %v", err)
	}
}
