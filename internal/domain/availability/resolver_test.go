package availability

import (
	"testing"
	"time"

	"github.com/quantum-brackets/45group-sub001/internal/domain/listing"
	"github.com/quantum-brackets/45group-sub001/internal/domain/shared/daterange"
)

func span(t *testing.T, startDay, endDay int) daterange.DateRange {
	t.Helper()
	dr, err := daterange.New(
		time.Date(2026, time.September, startDay, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.September, endDay, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatal(err)
	}
	return dr
}

func units(ids ...string) []listing.UnitID {
	out := make([]listing.UnitID, len(ids))
	for i, id := range ids {
		out[i] = listing.UnitID(id)
	}
	return out
}

func TestResolveExcludesOverlappingUnits(t *testing.T) {
	inventory := units("A", "B", "C")
	existing := []Window{
		{BookingID: "bk-1", Range: span(t, 10, 12), UnitIDs: units("A", "B")},
	}

	got := Resolve(span(t, 11, 14), existing, inventory, "")
	if got.Count != 1 {
		t.Fatalf("Count = %d, want 1", got.Count)
	}
	if got.UnitIDs[0] != "C" {
		t.Errorf("UnitIDs = %v, want [C]", got.UnitIDs)
	}
}

func TestResolveIgnoresNonOverlappingWindows(t *testing.T) {
	inventory := units("A", "B", "C")
	existing := []Window{
		{BookingID: "bk-1", Range: span(t, 1, 5), UnitIDs: units("A", "B")},
	}

	got := Resolve(span(t, 6, 9), existing, inventory, "")
	if got.Count != 3 {
		t.Fatalf("Count = %d, want 3; units %v", got.Count, got.UnitIDs)
	}
}

func TestResolveSharedBoundaryDayConflicts(t *testing.T) {
	// ranges are inclusive, so a booking ending on the 5th still holds
	// its units for a request starting on the 5th
	inventory := units("A")
	existing := []Window{
		{BookingID: "bk-1", Range: span(t, 1, 5), UnitIDs: units("A")},
	}

	got := Resolve(span(t, 5, 8), existing, inventory, "")
	if got.Count != 0 {
		t.Fatalf("Count = %d, want 0", got.Count)
	}
}

func TestResolveExcludeBookingID(t *testing.T) {
	inventory := units("A", "B")
	existing := []Window{
		{BookingID: "bk-self", Range: span(t, 10, 12), UnitIDs: units("A")},
		{BookingID: "bk-other", Range: span(t, 10, 12), UnitIDs: units("B")},
	}

	got := Resolve(span(t, 10, 12), existing, inventory, "bk-self")
	if got.Count != 1 || got.UnitIDs[0] != "A" {
		t.Fatalf("got %v, want [A]: a reschedule must not conflict with its own booking", got.UnitIDs)
	}
}

func TestResolveConservation(t *testing.T) {
	inventory := units("A", "B", "C", "D")
	existing := []Window{
		{BookingID: "bk-1", Range: span(t, 10, 12), UnitIDs: units("A")},
		{BookingID: "bk-2", Range: span(t, 11, 13), UnitIDs: units("C", "D")},
	}

	got := Resolve(span(t, 12, 12), existing, inventory, "")
	booked := len(inventory) - got.Count
	if booked != 3 {
		t.Errorf("booked = %d, want 3", booked)
	}
	for _, id := range got.UnitIDs {
		if id != "B" {
			t.Errorf("unit %s should be booked", id)
		}
	}
}

func TestResolveDeduplicatesInventory(t *testing.T) {
	inventory := units("A", "A", "B")
	got := Resolve(span(t, 1, 2), nil, inventory, "")
	if got.Count != 2 {
		t.Fatalf("Count = %d, want 2; duplicate inventory rows must collapse", got.Count)
	}
}

func TestResolveSortsResult(t *testing.T) {
	inventory := units("C", "A", "B")
	got := Resolve(span(t, 1, 2), nil, inventory, "")
	want := units("A", "B", "C")
	for i := range want {
		if got.UnitIDs[i] != want[i] {
			t.Fatalf("UnitIDs = %v, want %v", got.UnitIDs, want)
		}
	}
}
