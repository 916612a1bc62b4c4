package booking

import (
	"context"
	"time"

	"github.com/quantum-brackets/45group-sub001/internal/app/commands"
	"github.com/quantum-brackets/45group-sub001/internal/app/outbox"
	"github.com/quantum-brackets/45group-sub001/internal/app/policies"
	"github.com/quantum-brackets/45group-sub001/internal/app/uow"
	domainbooking "github.com/quantum-brackets/45group-sub001/internal/domain/booking"
)

const confirmBookingKey = "booking.confirm"

type ConfirmBookingCommand struct {
	BookingID string
}

func (c ConfirmBookingCommand) Key() string { return confirmBookingKey }

type ConfirmBookingResult struct {
	Status string `json:"status"`
}

// ConfirmBookingHandler moves a pending booking to confirmed once the
// credited total covers one unit of the listing's base rate.
type ConfirmBookingHandler struct {
	UoWFactory uow.UoWFactory
	Pricing    policies.PricingPort
	Authz      policies.Authorizer
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *ConfirmBookingHandler) Handle(ctx context.Context, cmd ConfirmBookingCommand) (*ConfirmBookingResult, error) {
	var status string
	err := mutateBooking(ctx, h.UoWFactory, h.Outbox, h.Encoder, domainbooking.BookingID(cmd.BookingID),
		func(ctx context.Context, unit uow.UnitOfWork, actor policies.Actor, b *domainbooking.Booking) error {
			if !h.Authz.Check(ctx, actor, confirmBookingKey, bookingResource(b)) {
				return policies.ErrForbidden
			}
			lst, err := unit.Listings().ByID(ctx, b.ListingID)
			if err != nil {
				return err
			}
			deposit := h.Pricing.Deposit(lst.Rate, lst.RateUnit, len(b.UnitIDs))
			if err := b.Confirm(actor.ID, deposit, time.Now()); err != nil {
				return err
			}
			status = string(b.Status)
			return nil
		})
	if err != nil {
		return nil, err
	}
	return &ConfirmBookingResult{Status: status}, nil
}

var _ commands.Handler[ConfirmBookingCommand, *ConfirmBookingResult] = (*ConfirmBookingHandler)(nil)
