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

const addBillKey = "booking.add_bill"

type AddBillCommand struct {
	BookingID   string
	Description string
	Amount      int64
	Currency    string
}

func (c AddBillCommand) Key() string { return addBillKey }

type AddBillResult struct {
	Statement dto.StatementDTO `json:"statement"`
}

// AddBillHandler records an ad-hoc charge and returns the refreshed
// statement so dashboards can re-render the balance.
type AddBillHandler struct {
	UoWFactory uow.UoWFactory
	Authz      policies.Authorizer
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *AddBillHandler) Handle(ctx context.Context, cmd AddBillCommand) (*AddBillResult, error) {
	var result AddBillResult
	err := mutateBooking(ctx, h.UoWFactory, h.Outbox, h.Encoder, domainbooking.BookingID(cmd.BookingID),
		func(ctx context.Context, unit uow.UnitOfWork, actor policies.Actor, b *domainbooking.Booking) error {
			if !h.Authz.Check(ctx, actor, addBillKey, bookingResource(b)) {
				return policies.ErrForbidden
			}
			amount, err := money.New(cmd.Amount, cmd.Currency)
			if err != nil {
				return err
			}
			if err := b.AddBill(actor.ID, cmd.Description, amount, time.Now()); err != nil {
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

var _ commands.Handler[AddBillCommand, *AddBillResult] = (*AddBillHandler)(nil)
