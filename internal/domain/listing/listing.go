package listing

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/quantum-brackets/45group-sub001/internal/domain/shared/events"
	"github.com/quantum-brackets/45group-sub001/internal/domain/shared/money"
)

var (
	ErrIDRequired      = errors.New("listing: id is required")
	ErrNameRequired    = errors.New("listing: name is required")
	ErrInvalidType     = errors.New("listing: unknown listing type")
	ErrInvalidUnit     = errors.New("listing: unknown price unit")
	ErrRateNotPositive = errors.New("listing: rate must be positive")
	ErrGuestsLimit     = errors.New("listing: max guests must be at least 1")
	ErrUnitIDRequired  = errors.New("listing: inventory unit id is required")
	ErrInvalidState    = errors.New("listing: invalid state transition")
	ErrNotFound        = errors.New("listing: not found")
)

type ListingID string
type UnitID string

type Type string

const (
	TypeHotel      Type = "hotel"
	TypeEvents     Type = "events"
	TypeRestaurant Type = "restaurant"
)

// PriceUnit determines which booking quantity multiplies the listing rate.
type PriceUnit string

const (
	PerNight  PriceUnit = "night"
	PerHour   PriceUnit = "hour"
	PerPerson PriceUnit = "person"
)

type State string

const (
	StateDraft     State = "DRAFT"
	StateActive    State = "ACTIVE"
	StateSuspended State = "SUSPENDED"
)

// InventoryUnit is one physically bookable sub-unit of a listing: a room,
// a table, a hall. Units are owned by the listing and live or die with its
// inventory edits.
type InventoryUnit struct {
	ID   UnitID
	Name string
}

type Listing struct {
	ID        ListingID
	Name      string
	Location  string
	Type      Type
	Rate      money.Money
	RateUnit  PriceUnit
	MaxGuests int
	Units     []InventoryUnit
	State     State
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id ListingID) (*Listing, error)
	Save(ctx context.Context, listing *Listing) error
	List(ctx context.Context) ([]*Listing, error)
}

type UnitSeed struct {
	ID   UnitID
	Name string
}

type CreateParams struct {
	ID        ListingID
	Name      string
	Location  string
	Type      Type
	Rate      money.Money
	RateUnit  PriceUnit
	MaxGuests int
	Units     []UnitSeed
	Now       time.Time
}

func NewListing(params CreateParams) (*Listing, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, ErrIDRequired
	}
	if strings.TrimSpace(params.Name) == "" {
		return nil, ErrNameRequired
	}
	if !validType(params.Type) {
		return nil, ErrInvalidType
	}
	if !ValidPriceUnit(params.RateUnit) {
		return nil, ErrInvalidUnit
	}
	if !params.Rate.IsPositive() {
		return nil, ErrRateNotPositive
	}
	if params.MaxGuests < 1 {
		return nil, ErrGuestsLimit
	}
	units, err := buildUnits(params.Units)
	if err != nil {
		return nil, err
	}
	now := params.Now.UTC()
	l := &Listing{
		ID:        params.ID,
		Name:      strings.TrimSpace(params.Name),
		Location:  strings.TrimSpace(params.Location),
		Type:      params.Type,
		Rate:      params.Rate,
		RateUnit:  params.RateUnit,
		MaxGuests: params.MaxGuests,
		Units:     units,
		State:     StateDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	l.Record(ListingCreatedEvent{ListingID: l.ID, ListingType: l.Type, Inventory: len(l.Units), At: now})
	return l, nil
}

// InventoryCount reports the number of physically bookable units.
func (l *Listing) InventoryCount() int {
	return len(l.Units)
}

// UnitIDs returns the identifiers of every unit in declaration order.
func (l *Listing) UnitIDs() []UnitID {
	ids := make([]UnitID, len(l.Units))
	for i, unit := range l.Units {
		ids[i] = unit.ID
	}
	return ids
}

func (l *Listing) Activate(now time.Time) error {
	if l.State == StateActive {
		return nil
	}
	l.State = StateActive
	l.UpdatedAt = now.UTC()
	l.Record(ListingActivatedEvent{ListingID: l.ID, At: l.UpdatedAt})
	return nil
}

func (l *Listing) Suspend(reason string, now time.Time) error {
	if l.State != StateActive {
		return ErrInvalidState
	}
	l.State = StateSuspended
	l.UpdatedAt = now.UTC()
	l.Record(ListingSuspendedEvent{ListingID: l.ID, Reason: reason, At: l.UpdatedAt})
	return nil
}

type UpdateParams struct {
	Name      string
	Location  string
	Rate      money.Money
	RateUnit  PriceUnit
	MaxGuests int
	Now       time.Time
}

func (l *Listing) UpdateAttributes(params UpdateParams) error {
	if strings.TrimSpace(params.Name) == "" {
		return ErrNameRequired
	}
	if !ValidPriceUnit(params.RateUnit) {
		return ErrInvalidUnit
	}
	if !params.Rate.IsPositive() {
		return ErrRateNotPositive
	}
	if params.MaxGuests < 1 {
		return ErrGuestsLimit
	}
	l.Name = strings.TrimSpace(params.Name)
	l.Location = strings.TrimSpace(params.Location)
	l.Rate = params.Rate
	l.RateUnit = params.RateUnit
	l.MaxGuests = params.MaxGuests
	l.UpdatedAt = params.Now.UTC()
	l.Record(ListingUpdatedEvent{ListingID: l.ID, At: l.UpdatedAt})
	return nil
}

// ResizeInventory replaces the unit roster. Removed units stop conflicting
// with new bookings; existing bookings keep their assigned unit ids.
func (l *Listing) ResizeInventory(units []UnitSeed, now time.Time) error {
	built, err := buildUnits(units)
	if err != nil {
		return err
	}
	l.Units = built
	l.UpdatedAt = now.UTC()
	l.Record(InventoryResizedEvent{ListingID: l.ID, Inventory: len(l.Units), At: l.UpdatedAt})
	return nil
}

func buildUnits(seeds []UnitSeed) ([]InventoryUnit, error) {
	units := make([]InventoryUnit, 0, len(seeds))
	seen := make(map[UnitID]struct{}, len(seeds))
	for _, seed := range seeds {
		id := UnitID(strings.TrimSpace(string(seed.ID)))
		if id == "" {
			return nil, ErrUnitIDRequired
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		name := strings.TrimSpace(seed.Name)
		if name == "" {
			name = string(id)
		}
		units = append(units, InventoryUnit{ID: id, Name: name})
	}
	return units, nil
}

func validType(t Type) bool {
	switch t {
	case TypeHotel, TypeEvents, TypeRestaurant:
		return true
	}
	return false
}

// ValidPriceUnit reports whether the price unit is one the calculator knows.
func ValidPriceUnit(u PriceUnit) bool {
	switch u {
	case PerNight, PerHour, PerPerson:
		return true
	}
	return false
}
