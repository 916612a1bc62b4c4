package listing

import (
	"context"
	"errors"

	"github.com/quantum-brackets/45group-sub001/internal/app/outbox"
	"github.com/quantum-brackets/45group-sub001/internal/app/policies"
	"github.com/quantum-brackets/45group-sub001/internal/app/uow"
	domainlisting "github.com/quantum-brackets/45group-sub001/internal/domain/listing"
)

var (
	ErrUnitOfWorkRequired = errors.New("listing: unit of work required")
	ErrActorUnknown       = errors.New("listing: no authenticated actor")
)

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

func listingResource(id domainlisting.ListingID) policies.Resource {
	return policies.Resource{Kind: "listing", ID: string(id)}
}

func drainEvents(ctx context.Context, box outbox.Outbox, encoder outbox.EventEncoder, l *domainlisting.Listing) error {
	pending := l.PendingEvents()
	l.ClearEvents()
	return outbox.RecordDomainEvents(ctx, box, encoder, pending)
}

// mutateListing runs fn against a loaded listing inside a unit of work,
// persisting the aggregate and draining its events when fn succeeds.
func mutateListing(
	ctx context.Context,
	factory uow.UoWFactory,
	box outbox.Outbox,
	encoder outbox.EventEncoder,
	id domainlisting.ListingID,
	fn func(ctx context.Context, unit uow.UnitOfWork, actor policies.Actor, l *domainlisting.Listing) error,
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
	l, err := unit.Listings().ByID(ctx, id)
	if err != nil {
		return err
	}
	if err := fn(ctx, unit, actor, l); err != nil {
		return err
	}
	if err := unit.Listings().Save(ctx, l); err != nil {
		return err
	}
	if err := drainEvents(ctx, box, encoder, l); err != nil {
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
