// Package state declares the external state-collaborator interfaces the
// core consumes (spec §6): persistence for nonces, encrypted balances,
// and energy resources, plus the contract-VM capability interface
// InvokeContract/DeployContract dispatch to. The core never touches
// persistence directly — every package here is a consumer contract, not
// an implementation, except the in-memory reference (Memory) that the
// txapply integration tests run txbuilder, txverify and txapply against.
package state

import (
	"github.com/tos-network/terminos/common"
	"github.com/tos-network/terminos/crypto/elgamal"
	"github.com/tos-network/terminos/energy"
)

// AssetID identifies a confidential asset; the native TOS asset is the
// all-zero AssetID.
type AssetID [32]byte

// NativeAsset is the TOS asset identifier.
var NativeAsset AssetID

// Provider is the state collaborator verify and apply read from and
// (apply only) write to. An implementation owns persistence; the core
// never opens a store or takes a lock itself.
type Provider interface {
	GetNonce(account common.Address) (uint64, error)
	SetNonce(account common.Address, nonce uint64) error

	GetEncryptedBalance(account common.Address, asset AssetID) (elgamal.Ciphertext, error)
	SetEncryptedBalance(account common.Address, asset AssetID, ct elgamal.Ciphertext) error

	GetEnergyResource(account common.Address) (energy.EnergyResource, error)
	UpdateEnergyResource(account common.Address, r energy.EnergyResource) error

	GetTopoHeight() (uint64, error)

	// IsRegistered reports whether account has ever received a balance,
	// used for new-address account-activation fee accounting (spec §9's
	// resolved open question).
	IsRegistered(account common.Address) (bool, error)
	// Register marks account as registered, called once by apply the
	// first time a transfer credits it.
	Register(account common.Address) error
}

// ContractVM is the capability interface contract variants delegate to;
// the VM itself is out of scope (spec §1) and never imported by the core.
type ContractVM interface {
	Invoke(source common.Address, payload []byte, p Provider) ([]byte, error)
	Deploy(source common.Address, payload []byte, p Provider) (common.Address, error)
}
