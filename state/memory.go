package state

import (
	"github.com/tos-network/terminos/common"
	"github.com/tos-network/terminos/crypto/curve"
	"github.com/tos-network/terminos/crypto/elgamal"
	"github.com/tos-network/terminos/energy"
)

type balanceKey struct {
	account common.Address
	asset   AssetID
}

// Memory is an in-memory Provider, used by the core's own tests in place
// of a real storage engine (mirroring the codebase's own pattern of
// constructing a fresh state.New(...) per test rather than a database).
type Memory struct {
	nonces     map[common.Address]uint64
	balances   map[balanceKey]elgamal.Ciphertext
	energies   map[common.Address]energy.EnergyResource
	registered map[common.Address]bool
	topoHeight uint64
}

// NewMemory returns an empty Memory provider at the given topoheight.
func NewMemory(topoHeight uint64) *Memory {
	return &Memory{
		nonces:     make(map[common.Address]uint64),
		balances:   make(map[balanceKey]elgamal.Ciphertext),
		energies:   make(map[common.Address]energy.EnergyResource),
		registered: make(map[common.Address]bool),
		topoHeight: topoHeight,
	}
}

func (m *Memory) GetNonce(account common.Address) (uint64, error) {
	return m.nonces[account], nil
}

func (m *Memory) SetNonce(account common.Address, nonce uint64) error {
	m.nonces[account] = nonce
	return nil
}

func (m *Memory) GetEncryptedBalance(account common.Address, asset AssetID) (elgamal.Ciphertext, error) {
	ct, ok := m.balances[balanceKey{account, asset}]
	if !ok {
		return elgamal.Ciphertext{C: curve.Identity(), D: curve.Identity()}, nil
	}
	return ct, nil
}

func (m *Memory) SetEncryptedBalance(account common.Address, asset AssetID, ct elgamal.Ciphertext) error {
	m.balances[balanceKey{account, asset}] = ct
	return nil
}

func (m *Memory) GetEnergyResource(account common.Address) (energy.EnergyResource, error) {
	return m.energies[account], nil
}

func (m *Memory) UpdateEnergyResource(account common.Address, r energy.EnergyResource) error {
	m.energies[account] = r
	return nil
}

func (m *Memory) GetTopoHeight() (uint64, error) { return m.topoHeight, nil }

// SetTopoHeight lets a test advance the logical clock between operations.
func (m *Memory) SetTopoHeight(h uint64) { m.topoHeight = h }

func (m *Memory) IsRegistered(account common.Address) (bool, error) {
	return m.registered[account], nil
}

func (m *Memory) Register(account common.Address) error {
	m.registered[account] = true
	return nil
}
