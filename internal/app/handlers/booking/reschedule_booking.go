package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/quantum-brackets/45group-sub001/internal/app/commands"
	"github.com/quantum-brackets/45group-sub001/internal/app/outbox"
	"github.com/quantum-brackets/45group-sub001/internal/app/policies"
	"github.com/quantum-brackets/45group-sub001/internal/app/uow"
	"github.com/quantum-brackets/45group-sub001/internal/domain/availability"
	domainbooking "github.com/quantum-brackets/45group-sub001/internal/domain/booking"
	"github.com/quantum-brackets/45group-sub001/internal/domain/pricing"
	domainrange "github.com/quantum-brackets/45group-sub001/internal/domain/shared/daterange"
)

const rescheduleBookingKey = "booking.reschedule"

type RescheduleBookingCommand struct {
	BookingID string
	Start     time.Time
	End       time.Time
	UnitCount int
}

func (c RescheduleBookingCommand) Key() string { return rescheduleBookingKey }

type RescheduleBookingResult struct {
	Status string `json:"status"`
}

// RescheduleBookingHandler moves an active booking to new dates or a new
// unit count. Availability is re-checked with the booking itself excluded
// from conflict consideration and the base cost is re-quoted.
type RescheduleBookingHandler struct {
	UoWFactory uow.UoWFactory
	Pricing    policies.PricingPort
	Authz      policies.Authorizer
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *RescheduleBookingHandler) Handle(ctx context.Context, cmd RescheduleBookingCommand) (*RescheduleBookingResult, error) {
	var status string
	err := mutateBooking(ctx, h.UoWFactory, h.Outbox, h.Encoder, domainbooking.BookingID(cmd.BookingID),
		func(ctx context.Context, unit uow.UnitOfWork, actor policies.Actor, b *domainbooking.Booking) error {
			if !h.Authz.Check(ctx, actor, rescheduleBookingKey, bookingResource(b)) {
				return policies.ErrForbidden
			}
			dr, err := domainrange.New(cmd.Start, cmd.End)
			if err != nil {
				return err
			}
			unitCount := cmd.UnitCount
			if unitCount < 1 {
				unitCount = len(b.UnitIDs)
			}

			lst, err := unit.Listings().ByID(ctx, b.ListingID)
			if err != nil {
				return err
			}
			active, err := unit.Bookings().ActiveByListing(ctx, lst.ID)
			if err != nil {
				return err
			}
			res := availability.Resolve(dr, bookingWindows(active), lst.UnitIDs(), string(b.ID))
			if res.Count < unitCount {
				return fmt.Errorf("%w: requested %d, available %d", ErrNotEnoughUnits, unitCount, res.Count)
			}

			cost := h.Pricing.Cost(pricing.QuoteInput{
				Rate:      lst.Rate,
				RateUnit:  lst.RateUnit,
				Range:     dr,
				Guests:    b.Guests,
				UnitCount: unitCount,
			})
			if err := b.Reschedule(actor.ID, dr, res.UnitIDs[:unitCount], cost, time.Now()); err != nil {
				return err
			}
			status = string(b.Status)
			return nil
		})
	if err != nil {
		return nil, err
	}
	return &RescheduleBookingResult{Status: status}, nil
}

var _ commands.Handler[RescheduleBookingCommand, *RescheduleBookingResult] = (*RescheduleBookingHandler)(nil)
