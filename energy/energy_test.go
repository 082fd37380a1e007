package energy

import (
	"testing"

	"github.com/tos-network/terminos/errs"
	"github.com/tos-network/terminos/paramset"
)

func totalEnergyFromRecords(r EnergyResource) uint64 {
	var sum uint64
	for _, rec := range r.Records {
		sum += rec.EnergyGained
	}
	return sum
}

func totalFrozenFromRecords(r EnergyResource) uint64 {
	var sum uint64
	for _, rec := range r.Records {
		sum += rec.Amount
	}
	return sum
}

// S4 — unfreeze before unlock.
func TestUnfreezeBeforeUnlock(t *testing.T) {
	r := New()
	r, _, err := Freeze(r, 100, paramset.Day14, 1000)
	if err != nil {
		t.Fatalf("freeze: %v", err)
	}

	_, _, err = Unfreeze(r, 100, 1000+1_000_000)
	var insufficient *errs.InsufficientUnlockedFrozenError
	if !asInsufficientUnlocked(err, &insufficient) {
		t.Fatalf("expected InsufficientUnlockedFrozen, got %v", err)
	}
	if insufficient.Requested != 100 || insufficient.AvailableUnlocked != 0 {
		t.Fatalf("unexpected error fields: %+v", insufficient)
	}
}

// S5 — partial unfreeze across multiple records with different durations.
func TestPartialUnfreezeMultiRecord(t *testing.T) {
	r := New()
	r, _, err := Freeze(r, 100, paramset.Day3, 0)
	if err != nil {
		t.Fatalf("freeze day3: %v", err)
	}
	r, _, err = Freeze(r, 200, paramset.Day7, 0)
	if err != nil {
		t.Fatalf("freeze day7: %v", err)
	}

	_, _, err = Unfreeze(r, 150, 259_200)
	var insufficient *errs.InsufficientUnlockedFrozenError
	if !asInsufficientUnlocked(err, &insufficient) {
		t.Fatalf("expected InsufficientUnlockedFrozen at T=259200, got %v", err)
	}
	if insufficient.Requested != 150 || insufficient.AvailableUnlocked != 100 {
		t.Fatalf("unexpected error fields: %+v", insufficient)
	}

	r2, removed, err := Unfreeze(r, 150, 604_800)
	if err != nil {
		t.Fatalf("unfreeze at T=604800: %v", err)
	}
	if removed != 155 {
		t.Fatalf("expected energy_removed=155, got %d", removed)
	}
	if r2.FrozenTos != 150 {
		t.Fatalf("expected 150 tos still frozen, got %d", r2.FrozenTos)
	}
}

// Invariant 5 — energy conservation across a sequence of operations.
func TestEnergyConservation(t *testing.T) {
	r := New()
	r, _, err := Freeze(r, 100, paramset.Day3, 0)
	if err != nil {
		t.Fatalf("freeze: %v", err)
	}
	r, _, err = Freeze(r, 200, paramset.Day7, 0)
	if err != nil {
		t.Fatalf("freeze: %v", err)
	}
	r, err = Consume(r, 5)
	if err != nil {
		t.Fatalf("consume: %v", err)
	}

	if r.TotalEnergy != totalEnergyFromRecords(r) {
		t.Fatalf("total_energy=%d != sum(records.energy_gained)=%d", r.TotalEnergy, totalEnergyFromRecords(r))
	}
	if r.FrozenTos != totalFrozenFromRecords(r) {
		t.Fatalf("frozen_tos=%d != sum(records.amount)=%d", r.FrozenTos, totalFrozenFromRecords(r))
	}

	r, removed, err := Unfreeze(r, 100, 259_200)
	if err != nil {
		t.Fatalf("unfreeze: %v", err)
	}
	if removed != 100 {
		t.Fatalf("expected removed=100, got %d", removed)
	}
	if r.TotalEnergy != totalEnergyFromRecords(r) {
		t.Fatalf("total_energy=%d != sum(records.energy_gained)=%d", r.TotalEnergy, totalEnergyFromRecords(r))
	}
	if r.FrozenTos != totalFrozenFromRecords(r) {
		t.Fatalf("frozen_tos=%d != sum(records.amount)=%d", r.FrozenTos, totalFrozenFromRecords(r))
	}
}

// Invariant 6 — unfreezing x then y from the same snapshot equals
// unfreezing x+y atomically, when both are eligible and drawn from a
// single same-duration record (no cross-duration rounding to diverge on).
func TestUnfreezeMonotonicity(t *testing.T) {
	base := New()
	base, _, err := Freeze(base, 300, paramset.Day3, 0)
	if err != nil {
		t.Fatalf("freeze: %v", err)
	}

	sequential := base
	sequential, removed1, err := Unfreeze(sequential, 100, 259_200)
	if err != nil {
		t.Fatalf("unfreeze x: %v", err)
	}
	sequential, removed2, err := Unfreeze(sequential, 50, 259_200)
	if err != nil {
		t.Fatalf("unfreeze y: %v", err)
	}

	atomic, removedAtomic, err := Unfreeze(base, 150, 259_200)
	if err != nil {
		t.Fatalf("unfreeze x+y: %v", err)
	}

	if removed1+removed2 != removedAtomic {
		t.Fatalf("sequential removed %d+%d != atomic removed %d", removed1, removed2, removedAtomic)
	}
	if sequential.FrozenTos != atomic.FrozenTos {
		t.Fatalf("sequential frozen %d != atomic frozen %d", sequential.FrozenTos, atomic.FrozenTos)
	}
	if sequential.TotalEnergy != atomic.TotalEnergy {
		t.Fatalf("sequential total_energy %d != atomic total_energy %d", sequential.TotalEnergy, atomic.TotalEnergy)
	}
}

func TestConsumeInsufficientEnergy(t *testing.T) {
	r := New()
	r, _, err := Freeze(r, 1, paramset.Day3, 0)
	if err != nil {
		t.Fatalf("freeze: %v", err)
	}
	_, err = Consume(r, r.TotalEnergy+1)
	var insufficient *errs.InsufficientEnergyError
	if !asInsufficientEnergy(err, &insufficient) {
		t.Fatalf("expected InsufficientEnergyError, got %v", err)
	}
}

func asInsufficientUnlocked(err error, target **errs.InsufficientUnlockedFrozenError) bool {
	e, ok := err.(*errs.InsufficientUnlockedFrozenError)
	if ok {
		*target = e
	}
	return ok
}

func asInsufficientEnergy(err error, target **errs.InsufficientEnergyError) bool {
	e, ok := err.(*errs.InsufficientEnergyError)
	if ok {
		*target = e
	}
	return ok
}
