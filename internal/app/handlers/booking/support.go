package booking

import (
	"context"
	"errors"

	"github.com/quantum-brackets/45group-sub001/internal/app/outbox"
	"github.com/quantum-brackets/45group-sub001/internal/app/policies"
	"github.com/quantum-brackets/45group-sub001/internal/app/uow"
	"github.com/quantum-brackets/45group-sub001/internal/domain/availability"
	domainbooking "github.com/quantum-brackets/45group-sub001/internal/domain/booking"
)

var (
	ErrUnitOfWorkRequired   = errors.New("booking: unit of work required")
	ErrNotEnoughUnits       = errors.New("booking: requested units exceed availability")
	ErrListingNotActive     = errors.New("booking: listing is not accepting bookings")
	ErrGuestsExceedCapacity = errors.New("booking: guests exceed listing capacity")
	ErrActorUnknown         = errors.New("booking: no authenticated actor")
)

// acquireUnit returns the ambient unit of work or begins a managed one.
// The caller must commit managed units; rollback of uncommitted units is
// handled by the returned release func.
func acquireUnit(ctx context.Context, factory uow.UoWFactory, readOnly bool) (context.Context, uow.UnitOfWork, bool, error) {
	if unit, ok := uow.FromContext(ctx); ok {
		return ctx, unit, false, nil
	}
	if factory == nil {
		return ctx, nil, false, ErrUnitOfWorkRequired
	}
	unit, err := factory.Begin(ctx, uow.TxOptions{ReadOnly: readOnly})
	if err != nil {
		return ctx, nil, false, err
	}
	return uow.BindContext(ctx, unit), unit, true, nil
}

func requireActor(ctx context.Context) (policies.Actor, error) {
	actor, ok := policies.ActorFromContext(ctx)
	if !ok || actor.ID == "" {
		return policies.Actor{}, ErrActorUnknown
	}
	return actor, nil
}

// bookingWindows projects active bookings into the resolver's input shape.
// The repository contract guarantees only pending and confirmed bookings
// reach this point.
func bookingWindows(bookings []*domainbooking.Booking) []availability.Window {
	windows := make([]availability.Window, 0, len(bookings))
	for _, b := range bookings {
		windows = append(windows, availability.Window{
			BookingID: string(b.ID),
			Range:     b.Range,
			UnitIDs:   b.UnitIDs,
		})
	}
	return windows
}

func drainEvents(ctx context.Context, box outbox.Outbox, encoder outbox.EventEncoder, b *domainbooking.Booking) error {
	pending := b.PendingEvents()
	b.ClearEvents()
	return outbox.RecordDomainEvents(ctx, box, encoder, pending)
}

func bookingResource(b *domainbooking.Booking) policies.Resource {
	return policies.Resource{Kind: "booking", ID: string(b.ID), OwnerID: b.GuestID}
}

// mutateBooking runs fn against a loaded booking inside a unit of work,
// persisting the aggregate and draining its events when fn succeeds.
func mutateBooking(
	ctx context.Context,
	factory uow.UoWFactory,
	box outbox.Outbox,
	encoder outbox.EventEncoder,
	id domainbooking.BookingID,
	fn func(ctx context.Context, unit uow.UnitOfWork, actor policies.Actor, b *domainbooking.Booking) error,
) error {
	ctx, unit, managed, err := acquireUnit(ctx, factory, false)
	if err != nil {
		return err
	}
	committed := false
	if managed {
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	actor, err := requireActor(ctx)
	if err != nil {
		return err
	}
	b, err := unit.Bookings().ByID(ctx, id)
	if err != nil {
		return err
	}
	if err := fn(ctx, unit, actor, b); err != nil {
		return err
	}
	if err := unit.Bookings().Save(ctx, b); err != nil {
		return err
	}
	if err := drainEvents(ctx, box, encoder, b); err != nil {
		return err
	}
	if managed {
		if err := unit.Commit(ctx); err != nil {
			return err
		}
		committed = true
	}
	return nil
}
