package energy

import "github.com/tos-network/terminos/common"

// Lease is an off-chain-settled agreement letting a lessor sell a fixed
// amount of surplus energy to a lessee for a bounded number of blocks.
// Supplemented from the reference EnergyLease type the distilled
// specification dropped; it does not itself mutate an EnergyResource —
// settlement (debiting TOS from the lessee, crediting the lessor) is the
// state collaborator's concern, not a consensus-visible energy mutation.
type Lease struct {
	Lessor         common.Address
	Lessee         common.Address
	Amount         uint64
	DurationBlocks uint64
	StartTopoHeight uint64
	PricePerEnergy uint64
}

// IsValid reports whether the lease has not yet expired at now.
func (l Lease) IsValid(now uint64) bool {
	return now < l.StartTopoHeight+l.DurationBlocks
}

// TotalCost returns the lease's total price in base units.
func (l Lease) TotalCost() uint64 { return l.Amount * l.PricePerEnergy }
