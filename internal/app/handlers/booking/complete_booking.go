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

const completeBookingKey = "booking.complete"

type CompleteBookingCommand struct {
	BookingID string
}

func (c CompleteBookingCommand) Key() string { return completeBookingKey }

type CompleteBookingResult struct {
	Status string `json:"status"`
}

// CompleteBookingHandler closes out a confirmed booking once nothing is owed.
type CompleteBookingHandler struct {
	UoWFactory uow.UoWFactory
	Authz      policies.Authorizer
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *CompleteBookingHandler) Handle(ctx context.Context, cmd CompleteBookingCommand) (*CompleteBookingResult, error) {
	var status string
	err := mutateBooking(ctx, h.UoWFactory, h.Outbox, h.Encoder, domainbooking.BookingID(cmd.BookingID),
		func(ctx context.Context, unit uow.UnitOfWork, actor policies.Actor, b *domainbooking.Booking) error {
			if !h.Authz.Check(ctx, actor, completeBookingKey, bookingResource(b)) {
				return policies.ErrForbidden
			}
			if err := b.Complete(actor.ID, time.Now()); err != nil {
				return err
			}
			status = string(b.Status)
			return nil
		})
	if err != nil {
		return nil, err
	}
	return &CompleteBookingResult{Status: status}, nil
}

var _ commands.Handler[CompleteBookingCommand, *CompleteBookingResult] = (*CompleteBookingHandler)(nil)
