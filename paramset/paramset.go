// Package paramset holds the consensus-fixed constants of the Terminos
// fee and energy model: every value here is part of the wire contract
// between builder and verifier and must never be read from configuration.
package paramset

// BaseUnitsPerTOS is the number of base units ("tosh") in one TOS.
const BaseUnitsPerTOS uint64 = 100_000_000

// ACCOUNT_ACTIVATION_FEE is charged, in base units, by the payer of a
// transfer to a not-yet-registered recipient.
const ACCOUNT_ACTIVATION_FEE uint64 = BaseUnitsPerTOS / 10 // 0.1 TOS

// BYTES_PER_KB is the unit the energy-per-size cost is measured against.
const BYTES_PER_KB = 1024

// Energy cost constants, fixed per spec and never read from an oracle.
const (
	ENERGY_PER_TRANSFER           uint64 = 1
	ENERGY_PER_KB                 uint64 = 10
	ENERGY_PER_CONTRACT_DEPLOY    uint64 = 1000
	ENERGY_PER_CONTRACT_CALL      uint64 = 100
	ENERGY_PER_BYTE_STORED        uint64 = 1
	ENERGY_PER_MULTISIG_SIGNATURE uint64 = 5

	// ENERGY_TO_TOS_RATE is the price of one unit of energy in base
	// units. The core does not consult it: energy.Consume fails with
	// InsufficientEnergyError rather than converting TOS into energy.
	ENERGY_TO_TOS_RATE uint64 = 10_000
)

// RangeProofBitLength is the bit-length every committed amount is proven
// to lie within: [0, 2^64).
const RangeProofBitLength = 64

// FreezeDuration is the set of fixed freeze-period choices (TRON-inspired);
// the set is closed by design — Non-goal: programmable freeze durations.
type FreezeDuration uint8

const (
	Day3 FreezeDuration = iota
	Day7
	Day14
)

// String names the duration for logs and display.
func (d FreezeDuration) String() string {
	switch d {
	case Day3:
		return "3 days"
	case Day7:
		return "7 days"
	case Day14:
		return "14 days"
	default:
		return "unknown"
	}
}

// DurationSeconds returns the freeze length in seconds (one block ≈ one
// second, so this doubles as the unlock-topoheight delta).
func DurationSeconds(d FreezeDuration) (uint64, bool) {
	switch d {
	case Day3:
		return 259_200, true
	case Day7:
		return 604_800, true
	case Day14:
		return 1_209_600, true
	default:
		return 0, false
	}
}

// Multiplier returns the (numerator, denominator) reward multiplier for a
// freeze duration. Energy gained is always floor(amount * num / den):
// never float64, so the result is identical on every machine.
func Multiplier(d FreezeDuration) (num, den uint64, ok bool) {
	switch d {
	case Day3:
		return 1, 1, true
	case Day7:
		return 11, 10, true
	case Day14:
		return 12, 10, true
	default:
		return 0, 0, false
	}
}
