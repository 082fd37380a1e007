// Package energy implements the freeze/unfreeze/consume resource engine
// of spec §4.6: a TRON-inspired non-transferable resource an account
// earns by freezing TOS for a fixed duration, consumed only by transfer
// transactions electing fee_type=Energy. Every mutator is a pure
// function over an EnergyResource value; the state collaborator owns
// persistence (state.Provider.GetEnergyResource / UpdateEnergyResource).
package energy

import (
	"sort"

	"github.com/tos-network/terminos/errs"
	"github.com/tos-network/terminos/log"
	"github.com/tos-network/terminos/paramset"
)

// FreezeRecord is an immutable receipt of a single freeze operation,
// amortized (partially or fully) only by Unfreeze.
type FreezeRecord struct {
	Amount           uint64
	Duration         paramset.FreezeDuration
	FreezeTopoHeight uint64
	UnlockTopoHeight uint64
	EnergyGained     uint64
}

// EnergyResource is the per-account energy ledger (spec §3).
type EnergyResource struct {
	FrozenTos      uint64
	TotalEnergy    uint64
	UsedEnergy     uint64
	LastUpdate     uint64
	Records        []FreezeRecord // kept ordered by UnlockTopoHeight ascending
}

// New returns a zeroed EnergyResource, as a newly-registered account has.
func New() EnergyResource { return EnergyResource{} }

// Available returns the energy an account can still spend.
func (r EnergyResource) Available() uint64 {
	if r.UsedEnergy >= r.TotalEnergy {
		return 0
	}
	return r.TotalEnergy - r.UsedEnergy
}

// HasEnough reports whether the resource can cover cost.
func (r EnergyResource) HasEnough(cost uint64) bool { return r.Available() >= cost }

// gainedFor computes floor(amount * multiplier(duration)) using the
// exact integer ratio from paramset — never float64, per spec §5's
// determinism requirement.
func gainedFor(amount uint64, d paramset.FreezeDuration) (uint64, error) {
	num, den, ok := paramset.Multiplier(d)
	if !ok {
		return 0, errs.ErrUnknownFreezeDuration
	}
	return amount * num / den, nil
}

// Freeze appends a new FreezeRecord for amount locked under duration at
// topoheight now, returning the energy gained. The record is inserted
// keeping Records ordered by UnlockTopoHeight ascending so Unfreeze can
// walk eligible records as a prefix scan.
func Freeze(r EnergyResource, amount uint64, d paramset.FreezeDuration, now uint64) (EnergyResource, uint64, error) {
	if amount == 0 {
		return r, 0, errs.ErrInvalidEnergyPayload
	}
	seconds, ok := paramset.DurationSeconds(d)
	if !ok {
		return r, 0, errs.ErrUnknownFreezeDuration
	}
	gained, err := gainedFor(amount, d)
	if err != nil {
		return r, 0, err
	}
	rec := FreezeRecord{
		Amount:           amount,
		Duration:         d,
		FreezeTopoHeight: now,
		UnlockTopoHeight: now + seconds,
		EnergyGained:     gained,
	}
	records := append([]FreezeRecord(nil), r.Records...)
	idx := sort.Search(len(records), func(i int) bool { return records[i].UnlockTopoHeight > rec.UnlockTopoHeight })
	records = append(records, FreezeRecord{})
	copy(records[idx+1:], records[idx:])
	records[idx] = rec

	r.Records = records
	r.FrozenTos += amount
	r.TotalEnergy += gained
	r.LastUpdate = now
	log.Trace("energy freeze", "amount", amount, "duration", d.String(), "gained", gained)
	return r, gained, nil
}

// Unfreeze consumes amount TOS from the earliest-unlocked eligible
// records (ascending UnlockTopoHeight), removing the prorated energy of
// each, and returns the total energy removed.
func Unfreeze(r EnergyResource, amount uint64, now uint64) (EnergyResource, uint64, error) {
	if amount == 0 {
		return r, 0, errs.ErrInvalidEnergyPayload
	}
	var availableUnlocked uint64
	for _, rec := range r.Records {
		if rec.UnlockTopoHeight <= now {
			availableUnlocked += rec.Amount
		}
	}
	if availableUnlocked < amount {
		return r, 0, &errs.InsufficientUnlockedFrozenError{Requested: amount, AvailableUnlocked: availableUnlocked}
	}

	remaining := amount
	var energyRemoved uint64
	next := make([]FreezeRecord, 0, len(r.Records))
	for _, rec := range r.Records {
		if remaining == 0 || rec.UnlockTopoHeight > now {
			next = append(next, rec)
			continue
		}
		take := rec.Amount
		if take > remaining {
			take = remaining
		}
		removedEnergy := take * rec.EnergyGained / rec.Amount
		energyRemoved += removedEnergy
		remaining -= take

		if take == rec.Amount {
			continue // record fully unfrozen, drop it
		}
		rec.Amount -= take
		rec.EnergyGained -= removedEnergy
		next = append(next, rec)
	}

	r.Records = next
	r.FrozenTos -= amount
	if energyRemoved > r.TotalEnergy {
		energyRemoved = r.TotalEnergy
	}
	r.TotalEnergy -= energyRemoved
	if r.UsedEnergy > r.TotalEnergy {
		r.UsedEnergy = r.TotalEnergy
	}
	r.LastUpdate = now
	log.Trace("energy unfreeze", "amount", amount, "removed", energyRemoved)
	return r, energyRemoved, nil
}

// Consume deducts cost from available energy, failing InsufficientEnergy
// if the account cannot cover it.
func Consume(r EnergyResource, cost uint64) (EnergyResource, error) {
	if !r.HasEnough(cost) {
		return r, &errs.InsufficientEnergyError{Required: cost, Available: r.Available()}
	}
	r.UsedEnergy += cost
	return r, nil
}
