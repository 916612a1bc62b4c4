package booking

import (
	"context"
	"time"

	"github.com/quantum-brackets/45group-sub001/internal/app/dto"
	"github.com/quantum-brackets/45group-sub001/internal/app/policies"
	"github.com/quantum-brackets/45group-sub001/internal/app/queries"
	"github.com/quantum-brackets/45group-sub001/internal/app/uow"
	"github.com/quantum-brackets/45group-sub001/internal/domain/availability"
	domainlisting "github.com/quantum-brackets/45group-sub001/internal/domain/listing"
	"github.com/quantum-brackets/45group-sub001/internal/domain/pricing"
	domainrange "github.com/quantum-brackets/45group-sub001/internal/domain/shared/daterange"
)

const quoteBookingKey = "booking.quote"

// QuoteBookingQuery previews availability, estimated cost and required
// deposit for a candidate booking without writing anything. The booking
// form calls this before submitting.
type QuoteBookingQuery struct {
	ListingID string
	Start     time.Time
	End       time.Time
	Guests    int
	UnitCount int
	// ExcludeBookingID removes one booking from conflict consideration when
	// quoting a date change on an existing booking.
	ExcludeBookingID string
}

func (q QuoteBookingQuery) Key() string { return quoteBookingKey }

type QuoteBookingHandler struct {
	UoWFactory uow.UoWFactory
	Pricing    policies.PricingPort
}

func (h *QuoteBookingHandler) Handle(ctx context.Context, q QuoteBookingQuery) (dto.QuoteDTO, error) {
	ctx, unit, managed, err := acquireUnit(ctx, h.UoWFactory, true)
	if err != nil {
		return dto.QuoteDTO{}, err
	}
	if managed {
		defer unit.Rollback(ctx)
	}

	dr, err := domainrange.New(q.Start, q.End)
	if err != nil {
		return dto.QuoteDTO{}, err
	}
	lst, err := unit.Listings().ByID(ctx, domainlisting.ListingID(q.ListingID))
	if err != nil {
		return dto.QuoteDTO{}, err
	}
	active, err := unit.Bookings().ActiveByListing(ctx, lst.ID)
	if err != nil {
		return dto.QuoteDTO{}, err
	}

	res := availability.Resolve(dr, bookingWindows(active), lst.UnitIDs(), q.ExcludeBookingID)
	unitCount := q.UnitCount
	if unitCount < 1 {
		unitCount = 1
	}
	cost := h.Pricing.Cost(pricing.QuoteInput{
		Rate:      lst.Rate,
		RateUnit:  lst.RateUnit,
		Range:     dr,
		Guests:    q.Guests,
		UnitCount: unitCount,
	})
	deposit := h.Pricing.Deposit(lst.Rate, lst.RateUnit, unitCount)

	return dto.QuoteDTO{
		Availability:    dto.MapAvailability(res),
		EstimatedCost:   dto.MapMoney(cost),
		DepositRequired: dto.MapMoney(deposit),
	}, nil
}

var _ queries.Handler[QuoteBookingQuery, dto.QuoteDTO] = (*QuoteBookingHandler)(nil)
