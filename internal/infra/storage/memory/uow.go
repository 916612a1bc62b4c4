package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/quantum-brackets/45group-sub001/internal/app/uow"
	domainbooking "github.com/quantum-brackets/45group-sub001/internal/domain/booking"
	domainlisting "github.com/quantum-brackets/45group-sub001/internal/domain/listing"
	domainuser "github.com/quantum-brackets/45group-sub001/internal/domain/user"
)

// ErrFactoryMisconfigured indicates missing repositories.
var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// Factory wires in-memory repositories into a unit-of-work boundary.
// Writing units hold a process-wide mutex from Begin to Commit/Rollback,
// which serializes availability checks against booking saves.
type Factory struct {
	ListingsRepo domainlisting.Repository
	BookingsRepo domainbooking.Repository
	UsersRepo    domainuser.Repository

	writeMu sync.Mutex
}

// Begin starts a lightweight transaction boundary.
func (f *Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.ListingsRepo == nil || f.BookingsRepo == nil || f.UsersRepo == nil {
		return nil, ErrFactoryMisconfigured
	}
	unit := &Unit{
		listings: f.ListingsRepo,
		bookings: f.BookingsRepo,
		users:    f.UsersRepo,
	}
	if !opts.ReadOnly {
		f.writeMu.Lock()
		unit.release = f.writeMu.Unlock
	}
	return unit, nil
}

// Unit is a lightweight uow.UnitOfWork backed by in-memory stores.
type Unit struct {
	listings domainlisting.Repository
	bookings domainbooking.Repository
	users    domainuser.Repository

	releaseOnce sync.Once
	release     func()
}

func (u *Unit) Listings() domainlisting.Repository { return u.listings }

func (u *Unit) Bookings() domainbooking.Repository { return u.bookings }

func (u *Unit) Users() domainuser.Repository { return u.users }

func (u *Unit) Commit(ctx context.Context) error {
	u.done()
	return nil
}

func (u *Unit) Rollback(ctx context.Context) error {
	u.done()
	return nil
}

func (u *Unit) done() {
	if u.release == nil {
		return
	}
	u.releaseOnce.Do(u.release)
}

var _ uow.UoWFactory = (*Factory)(nil)
var _ uow.UnitOfWork = (*Unit)(nil)
