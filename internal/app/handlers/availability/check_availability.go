package availability

import (
	"context"
	"errors"
	"time"

	"github.com/quantum-brackets/45group-sub001/internal/app/dto"
	"github.com/quantum-brackets/45group-sub001/internal/app/queries"
	"github.com/quantum-brackets/45group-sub001/internal/app/uow"
	domainavailability "github.com/quantum-brackets/45group-sub001/internal/domain/availability"
	domainbooking "github.com/quantum-brackets/45group-sub001/internal/domain/booking"
	domainlisting "github.com/quantum-brackets/45group-sub001/internal/domain/listing"
	domainrange "github.com/quantum-brackets/45group-sub001/internal/domain/shared/daterange"
)

const checkAvailabilityKey = "availability.check"

var ErrUnitOfWorkRequired = errors.New("availability: unit of work required")

// CheckAvailabilityQuery reports which inventory units of a listing are free
// over an inclusive date range.
type CheckAvailabilityQuery struct {
	ListingID        string
	Start            time.Time
	End              time.Time
	ExcludeBookingID string
}

func (q CheckAvailabilityQuery) Key() string { return checkAvailabilityKey }

type CheckAvailabilityHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *CheckAvailabilityHandler) Handle(ctx context.Context, q CheckAvailabilityQuery) (dto.AvailabilityDTO, error) {
	unit, ok := uow.FromContext(ctx)
	managed := false
	if !ok {
		if h.UoWFactory == nil {
			return dto.AvailabilityDTO{}, ErrUnitOfWorkRequired
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{ReadOnly: true})
		if err != nil {
			return dto.AvailabilityDTO{}, err
		}
		ctx = uow.BindContext(ctx, unit)
		managed = true
	}
	if managed {
		defer unit.Rollback(ctx)
	}

	dr, err := domainrange.New(q.Start, q.End)
	if err != nil {
		return dto.AvailabilityDTO{}, err
	}
	lst, err := unit.Listings().ByID(ctx, domainlisting.ListingID(q.ListingID))
	if err != nil {
		return dto.AvailabilityDTO{}, err
	}
	active, err := unit.Bookings().ActiveByListing(ctx, lst.ID)
	if err != nil {
		return dto.AvailabilityDTO{}, err
	}

	res := domainavailability.Resolve(dr, windows(active), lst.UnitIDs(), q.ExcludeBookingID)
	return dto.MapAvailability(res), nil
}

func windows(bookings []*domainbooking.Booking) []domainavailability.Window {
	ws := make([]domainavailability.Window, 0, len(bookings))
	for _, b := range bookings {
		ws = append(ws, domainavailability.Window{
			BookingID: string(b.ID),
			Range:     b.Range,
			UnitIDs:   b.UnitIDs,
		})
	}
	return ws
}

var _ queries.Handler[CheckAvailabilityQuery, dto.AvailabilityDTO] = (*CheckAvailabilityHandler)(nil)
