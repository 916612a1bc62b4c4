package listing

import (
	"errors"
	"testing"
	"time"

	"github.com/quantum-brackets/45group-sub001/internal/domain/shared/money"
)

var testNow = time.Date(2026, time.April, 1, 9, 0, 0, 0, time.UTC)

func validParams() CreateParams {
	return CreateParams{
		ID:        "lst-1",
		Name:      "Harbor Hotel",
		Location:  "Calabar",
		Type:      TypeHotel,
		Rate:      money.Must(12000, "USD"),
		RateUnit:  PerNight,
		MaxGuests: 4,
		Units:     []UnitSeed{{ID: "room-101"}, {ID: "room-102", Name: "Deluxe"}},
		Now:       testNow,
	}
}

func TestNewListingValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*CreateParams)
		want   error
	}{
		{"missing id", func(p *CreateParams) { p.ID = "" }, ErrIDRequired},
		{"missing name", func(p *CreateParams) { p.Name = "  " }, ErrNameRequired},
		{"unknown type", func(p *CreateParams) { p.Type = Type("cinema") }, ErrInvalidType},
		{"unknown price unit", func(p *CreateParams) { p.RateUnit = PriceUnit("per_km") }, ErrInvalidUnit},
		{"zero rate", func(p *CreateParams) { p.Rate = money.Zero("USD") }, ErrRateNotPositive},
		{"zero guests", func(p *CreateParams) { p.MaxGuests = 0 }, ErrGuestsLimit},
		{"blank unit id", func(p *CreateParams) { p.Units = []UnitSeed{{ID: " "}} }, ErrUnitIDRequired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			params := validParams()
			tc.mutate(&params)
			if _, err := NewListing(params); !errors.Is(err, tc.want) {
				t.Errorf("NewListing() error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestNewListingStartsDraft(t *testing.T) {
	l, err := NewListing(validParams())
	if err != nil {
		t.Fatal(err)
	}
	if l.State != StateDraft {
		t.Errorf("State = %s, want DRAFT", l.State)
	}
	if l.InventoryCount() != 2 {
		t.Errorf("InventoryCount() = %d, want 2", l.InventoryCount())
	}
	ids := l.UnitIDs()
	if len(ids) != 2 || ids[0] != "room-101" || ids[1] != "room-102" {
		t.Errorf("UnitIDs() = %v", ids)
	}
	// unnamed units take their id as display name
	if l.Units[0].Name != "room-101" {
		t.Errorf("Units[0].Name = %q", l.Units[0].Name)
	}
}

func TestBuildUnitsDeduplicates(t *testing.T) {
	params := validParams()
	params.Units = []UnitSeed{{ID: "room-101"}, {ID: "room-101", Name: "dup"}, {ID: "room-103"}}
	l, err := NewListing(params)
	if err != nil {
		t.Fatal(err)
	}
	if l.InventoryCount() != 2 {
		t.Errorf("InventoryCount() = %d, want 2", l.InventoryCount())
	}
}

func TestStateTransitions(t *testing.T) {
	l, err := NewListing(validParams())
	if err != nil {
		t.Fatal(err)
	}

	if err := l.Suspend("maintenance", testNow); !errors.Is(err, ErrInvalidState) {
		t.Errorf("suspend from draft: want ErrInvalidState, got %v", err)
	}
	if err := l.Activate(testNow); err != nil {
		t.Fatal(err)
	}
	if l.State != StateActive {
		t.Fatalf("State = %s", l.State)
	}
	// activating twice is a no-op
	if err := l.Activate(testNow); err != nil {
		t.Fatal(err)
	}
	if err := l.Suspend("maintenance", testNow); err != nil {
		t.Fatal(err)
	}
	if l.State != StateSuspended {
		t.Errorf("State = %s, want SUSPENDED", l.State)
	}
	if err := l.Activate(testNow); err != nil {
		t.Fatalf("reactivation: %v", err)
	}
}

func TestUpdateAttributes(t *testing.T) {
	l, err := NewListing(validParams())
	if err != nil {
		t.Fatal(err)
	}
	err = l.UpdateAttributes(UpdateParams{
		Name:      "Harbor Hotel & Spa",
		Location:  "Calabar",
		Rate:      money.Must(15000, "USD"),
		RateUnit:  PerNight,
		MaxGuests: 6,
		Now:       testNow,
	})
	if err != nil {
		t.Fatal(err)
	}
	if l.Rate.Amount != 15000 || l.MaxGuests != 6 {
		t.Errorf("attributes not applied: %+v", l)
	}

	err = l.UpdateAttributes(UpdateParams{Name: "x", Rate: money.Must(1, "USD"), RateUnit: PriceUnit("bad"), MaxGuests: 1, Now: testNow})
	if !errors.Is(err, ErrInvalidUnit) {
		t.Errorf("want ErrInvalidUnit, got %v", err)
	}
}

func TestResizeInventory(t *testing.T) {
	l, err := NewListing(validParams())
	if err != nil {
		t.Fatal(err)
	}
	if err := l.ResizeInventory([]UnitSeed{{ID: "room-201"}, {ID: "room-202"}, {ID: "room-203"}}, testNow); err != nil {
		t.Fatal(err)
	}
	if l.InventoryCount() != 3 {
		t.Errorf("InventoryCount() = %d, want 3", l.InventoryCount())
	}
	if err := l.ResizeInventory([]UnitSeed{{ID: ""}}, testNow); !errors.Is(err, ErrUnitIDRequired) {
		t.Errorf("want ErrUnitIDRequired, got %v", err)
	}
}
