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
	"github.com/quantum-brackets/45group-sub001/internal/domain/shared/money"
)

const recordPaymentKey = "booking.record_payment"

type RecordPaymentCommand struct {
	BookingID string
	Amount    int64
	Currency  string
	Method    string
	Note      string
}

func (c RecordPaymentCommand) Key() string { return recordPaymentKey }

type RecordPaymentResult struct {
	Statement dto.StatementDTO `json:"statement"`
}

// RecordPaymentHandler records a payment against a booking. Payments are
// recorded, not processed.
type RecordPaymentHandler struct {
	UoWFactory uow.UoWFactory
	Authz      policies.Authorizer
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *RecordPaymentHandler) Handle(ctx context.Context, cmd RecordPaymentCommand) (*RecordPaymentResult, error) {
	var result RecordPaymentResult
	err := mutateBooking(ctx, h.UoWFactory, h.Outbox, h.Encoder, domainbooking.BookingID(cmd.BookingID),
		func(ctx context.Context, unit uow.UnitOfWork, actor policies.Actor, b *domainbooking.Booking) error {
			if !h.Authz.Check(ctx, actor, recordPaymentKey, bookingResource(b)) {
				return policies.ErrForbidden
			}
			amount, err := money.New(cmd.Amount, cmd.Currency)
			if err != nil {
				return err
			}
			if err := b.RecordPayment(actor.ID, amount, domainbooking.PaymentMethod(cmd.Method), cmd.Note, time.Now()); err != nil {
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

var _ commands.Handler[RecordPaymentCommand, *RecordPaymentResult] = (*RecordPaymentHandler)(nil)
