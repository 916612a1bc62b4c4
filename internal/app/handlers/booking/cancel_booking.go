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

const cancelBookingKey = "booking.cancel"

type CancelBookingCommand struct {
	BookingID string
	Reason    string
}

func (c CancelBookingCommand) Key() string { return cancelBookingKey }

type CancelBookingResult struct {
	Status string `json:"status"`
}

// CancelBookingHandler cancels a pending or confirmed booking. Owners may
// cancel their own bookings; balance does not gate cancellation.
type CancelBookingHandler struct {
	UoWFactory uow.UoWFactory
	Authz      policies.Authorizer
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *CancelBookingHandler) Handle(ctx context.Context, cmd CancelBookingCommand) (*CancelBookingResult, error) {
	var status string
	err := mutateBooking(ctx, h.UoWFactory, h.Outbox, h.Encoder, domainbooking.BookingID(cmd.BookingID),
		func(ctx context.Context, unit uow.UnitOfWork, actor policies.Actor, b *domainbooking.Booking) error {
			if !h.Authz.Check(ctx, actor, cancelBookingKey, bookingResource(b)) {
				return policies.ErrForbidden
			}
			if err := b.Cancel(actor.ID, cmd.Reason, time.Now()); err != nil {
				return err
			}
			status = string(b.Status)
			return nil
		})
	if err != nil {
		return nil, err
	}
	return &CancelBookingResult{Status: status}, nil
}

var _ commands.Handler[CancelBookingCommand, *CancelBookingResult] = (*CancelBookingHandler)(nil)
