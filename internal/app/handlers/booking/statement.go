package booking

import (
	"context"

	"github.com/quantum-brackets/45group-sub001/internal/app/dto"
	"github.com/quantum-brackets/45group-sub001/internal/app/policies"
	"github.com/quantum-brackets/45group-sub001/internal/app/queries"
	"github.com/quantum-brackets/45group-sub001/internal/app/uow"
	domainbooking "github.com/quantum-brackets/45group-sub001/internal/domain/booking"
)

const bookingStatementKey = "booking.statement"

// BookingStatementQuery returns the full booking detail: ledger statement,
// bills, payments and the audit trail.
type BookingStatementQuery struct {
	BookingID string
}

func (q BookingStatementQuery) Key() string { return bookingStatementKey }

type BookingStatementHandler struct {
	UoWFactory uow.UoWFactory
	Authz      policies.Authorizer
}

func (h *BookingStatementHandler) Handle(ctx context.Context, q BookingStatementQuery) (dto.BookingDetail, error) {
	ctx, unit, managed, err := acquireUnit(ctx, h.UoWFactory, true)
	if err != nil {
		return dto.BookingDetail{}, err
	}
	if managed {
		defer unit.Rollback(ctx)
	}

	actor, err := requireActor(ctx)
	if err != nil {
		return dto.BookingDetail{}, err
	}
	b, err := unit.Bookings().ByID(ctx, domainbooking.BookingID(q.BookingID))
	if err != nil {
		return dto.BookingDetail{}, err
	}
	if !h.Authz.Check(ctx, actor, "booking.view", bookingResource(b)) {
		return dto.BookingDetail{}, policies.ErrForbidden
	}
	return dto.MapBookingDetail(b), nil
}

var _ queries.Handler[BookingStatementQuery, dto.BookingDetail] = (*BookingStatementHandler)(nil)
