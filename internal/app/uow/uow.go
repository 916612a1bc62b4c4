package uow

import (
	"context"

	domainbooking "github.com/quantum-brackets/45group-sub001/internal/domain/booking"
	domainlisting "github.com/quantum-brackets/45group-sub001/internal/domain/listing"
	domainuser "github.com/quantum-brackets/45group-sub001/internal/domain/user"
)

// UnitOfWork coordinates repositories inside a transaction boundary.
type UnitOfWork interface {
	Listings() domainlisting.Repository
	Bookings() domainbooking.Repository
	Users() domainuser.Repository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UoWFactory starts unit of work instances.
type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// BindContext makes the unit ambient and, when the unit binds a driver
// session (Mongo transactions), runs downstream repository calls under it.
// Without the injection the session would commit an empty transaction while
// the repositories write auto-committed outside of it.
func BindContext(ctx context.Context, unit UnitOfWork) context.Context {
	if injector, ok := unit.(interface {
		InjectContext(context.Context) context.Context
	}); ok {
		ctx = injector.InjectContext(ctx)
	}
	return ContextWithUnitOfWork(ctx, unit)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}
