package booking

import (
	"context"
	"time"

	"github.com/quantum-brackets/45group-sub001/internal/app/commands"
	"github.com/quantum-brackets/45group-sub001/internal/app/dto"
	"github.com/quantum-brackets/45group-sub001/internal/app/outbox"
	"github.com/quantum-brackets/45group-sub001/internal/app/policies"
	"github.com/quantum-brackets/45group-sub001/internal/app/uow"
	domainbooking "github.com/quantum-brackets/45group-sub001/internal/domain/booking"
)

const setDiscountKey = "booking.set_discount"

type SetDiscountCommand struct {
	BookingID string
	Percent   int64
}

func (c SetDiscountCommand) Key() string { return setDiscountKey }

type SetDiscountResult struct {
	Statement dto.StatementDTO `json:"statement"`
}

// SetDiscountHandler applies a discount percentage capped by MaxPercent.
type SetDiscountHandler struct {
	UoWFactory uow.UoWFactory
	Authz      policies.Authorizer
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	MaxPercent int64
}

func (h *SetDiscountHandler) Handle(ctx context.Context, cmd SetDiscountCommand) (*SetDiscountResult, error) {
	var result SetDiscountResult
	err := mutateBooking(ctx, h.UoWFactory, h.Outbox, h.Encoder, domainbooking.BookingID(cmd.BookingID),
		func(ctx context.Context, unit uow.UnitOfWork, actor policies.Actor, b *domainbooking.Booking) error {
			if !h.Authz.Check(ctx, actor, setDiscountKey, bookingResource(b)) {
				return policies.ErrForbidden
			}
			if err := b.SetDiscount(actor.ID, cmd.Percent, h.MaxPercent, time.Now()); err != nil {
				return err
			}
			result.Statement = dto.MapStatement(b.Statement())
			return nil
		})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

var _ commands.Handler[SetDiscountCommand, *SetDiscountResult] = (*SetDiscountHandler)(nil)
