package energy

import (
	"testing"

	"github.com/tos-network/terminos/common"
)

func TestLeaseIsValid(t *testing.T) {
	l := Lease{
		Lessor:          common.Address{0x01},
		Lessee:          common.Address{0x02},
		Amount:          100,
		DurationBlocks:  50,
		StartTopoHeight: 1000,
		PricePerEnergy:  2,
	}

	if !l.IsValid(1049) {
		t.Fatalf("lease should still be valid one block before expiry")
	}
	if l.IsValid(1050) {
		t.Fatalf("lease should have expired exactly at start+duration")
	}
	if want, got := uint64(200), l.TotalCost(); got != want {
		t.Fatalf("expected total cost %d, got %d", want, got)
	}
}
