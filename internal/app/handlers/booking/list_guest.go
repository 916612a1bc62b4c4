package booking

import (
	"context"

	"github.com/quantum-brackets/45group-sub001/internal/app/dto"
	"github.com/quantum-brackets/45group-sub001/internal/app/policies"
	"github.com/quantum-brackets/45group-sub001/internal/app/queries"
	"github.com/quantum-brackets/45group-sub001/internal/app/uow"
)

const listGuestBookingsKey = "booking.by_guest"

type ListGuestBookingsQuery struct {
	GuestID string
}

func (q ListGuestBookingsQuery) Key() string { return listGuestBookingsKey }

type ListGuestBookingsHandler struct {
	UoWFactory uow.UoWFactory
	Authz      policies.Authorizer
}

func (h *ListGuestBookingsHandler) Handle(ctx context.Context, q ListGuestBookingsQuery) (dto.BookingCollection, error) {
	ctx, unit, managed, err := acquireUnit(ctx, h.UoWFactory, true)
	if err != nil {
		return dto.BookingCollection{}, err
	}
	if managed {
		defer unit.Rollback(ctx)
	}

	actor, err := requireActor(ctx)
	if err != nil {
		return dto.BookingCollection{}, err
	}
	guestID := q.GuestID
	if guestID == "" {
		guestID = actor.ID
	}
	// guests may only enumerate their own bookings; staff and admin see any
	resource := policies.Resource{Kind: "booking", OwnerID: guestID}
	if !h.Authz.Check(ctx, actor, "booking.view", resource) {
		return dto.BookingCollection{}, policies.ErrForbidden
	}

	bookings, err := unit.Bookings().ListByGuest(ctx, guestID)
	if err != nil {
		return dto.BookingCollection{}, err
	}
	items := make([]dto.BookingSummary, 0, len(bookings))
	for _, b := range bookings {
		items = append(items, dto.MapBookingSummary(b))
	}
	return dto.BookingCollection{Items: items}, nil
}

var _ queries.Handler[ListGuestBookingsQuery, dto.BookingCollection] = (*ListGuestBookingsHandler)(nil)
