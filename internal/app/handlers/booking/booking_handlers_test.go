package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/quantum-brackets/45group-sub001/internal/app/policies"
	"github.com/quantum-brackets/45group-sub001/internal/app/uow"
	domainbooking "github.com/quantum-brackets/45group-sub001/internal/domain/booking"
	domainlisting "github.com/quantum-brackets/45group-sub001/internal/domain/listing"
	"github.com/quantum-brackets/45group-sub001/internal/domain/pricing"
	"github.com/quantum-brackets/45group-sub001/internal/domain/shared/money"
	infraoutbox "github.com/quantum-brackets/45group-sub001/internal/infra/outbox"
	"github.com/quantum-brackets/45group-sub001/internal/infra/storage/memory"
)

var (
	guestActor = policies.Actor{ID: "usr-guest", Name: "Ada", Roles: []string{"guest"}}
	staffActor = policies.Actor{ID: "usr-frontdesk", Name: "Bea", Roles: []string{"staff"}}

	stayStart = time.Date(2027, time.March, 10, 0, 0, 0, 0, time.UTC)
	stayEnd   = time.Date(2027, time.March, 12, 0, 0, 0, 0, time.UTC)
)

type fixture struct {
	factory  uow.UoWFactory
	listings *memory.ListingRepository
	bookings *memory.BookingRepository
	store    *infraoutbox.MemoryStore
	box      *memory.Outbox
	pricing  pricing.Calculator
	authz    policies.Authorizer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		listings: memory.NewListingRepository(),
		bookings: memory.NewBookingRepository(),
		store:    infraoutbox.NewMemoryStore(),
		pricing:  pricing.Calculator{},
		authz:    policies.NewRoleAuthorizer(),
	}
	f.box = memory.NewOutbox(f.store)
	f.factory = &memory.Factory{
		ListingsRepo: f.listings,
		BookingsRepo: f.bookings,
		UsersRepo:    memory.NewUserRepository(),
	}
	return f
}

// seedListing stores an active per-night listing with three rooms at 100 USD.
func (f *fixture) seedListing(t *testing.T) *domainlisting.Listing {
	t.Helper()
	l, err := domainlisting.NewListing(domainlisting.CreateParams{
		ID:        "lst-1",
		Name:      "Harbor Hotel",
		Location:  "Calabar",
		Type:      domainlisting.TypeHotel,
		Rate:      money.Must(100, "USD"),
		RateUnit:  domainlisting.PerNight,
		MaxGuests: 2,
		Units: []domainlisting.UnitSeed{
			{ID: "room-101"}, {ID: "room-102"}, {ID: "room-103"},
		},
		Now: time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, l.Activate(time.Now()))
	l.ClearEvents()
	require.NoError(t, f.listings.Save(context.Background(), l))
	return l
}

func (f *fixture) ctx(actor policies.Actor) context.Context {
	return policies.ContextWithActor(context.Background(), actor)
}

func (f *fixture) requestHandler() *RequestBookingHandler {
	return &RequestBookingHandler{
		UoWFactory: f.factory,
		Pricing:    f.pricing,
		Authz:      f.authz,
		Outbox:     f.box,
	}
}

func (f *fixture) request(t *testing.T, actor policies.Actor, cmd RequestBookingCommand) *RequestBookingResult {
	t.Helper()
	res, err := f.requestHandler().Handle(f.ctx(actor), cmd)
	require.NoError(t, err)
	require.NoError(t, f.box.Flush(context.Background()))
	return res
}

func baseCommand(id string) RequestBookingCommand {
	return RequestBookingCommand{
		CommandID: id,
		ListingID: "lst-1",
		Start:     stayStart,
		End:       stayEnd,
		Guests:    2,
		UnitCount: 1,
	}
}

func TestRequestBooking(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t)

	cmd := baseCommand("bk-1")
	cmd.Guests = 4
	cmd.UnitCount = 2
	res := f.request(t, guestActor, cmd)
	require.Equal(t, "bk-1", res.BookingID)

	b, err := f.bookings.ByID(context.Background(), "bk-1")
	require.NoError(t, err)
	require.Equal(t, domainbooking.StatusPending, b.Status)
	require.Equal(t, guestActor.ID, b.GuestID)
	require.Len(t, b.UnitIDs, 2)
	// 100 per night x 2 nights x 2 rooms
	require.EqualValues(t, 400, b.BaseCost.Amount)

	// the requested event reached the relay store
	doc, err := f.store.Claim(context.Background(), "worker-test")
	require.NoError(t, err)
	require.NotNil(t, doc)
}

func TestRequestBookingShortOnUnits(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t)
	f.request(t, guestActor, func() RequestBookingCommand {
		cmd := baseCommand("bk-1")
		cmd.UnitCount = 2
		return cmd
	}())

	cmd := baseCommand("bk-2")
	cmd.UnitCount = 2
	_, err := f.requestHandler().Handle(f.ctx(guestActor), cmd)
	require.ErrorIs(t, err, ErrNotEnoughUnits)
}

func TestRequestBookingInactiveListing(t *testing.T) {
	f := newFixture(t)
	l := f.seedListing(t)
	require.NoError(t, l.Suspend("renovation", time.Now()))
	l.ClearEvents()
	require.NoError(t, f.listings.Save(context.Background(), l))

	_, err := f.requestHandler().Handle(f.ctx(guestActor), baseCommand("bk-1"))
	require.ErrorIs(t, err, ErrListingNotActive)
}

func TestRequestBookingCapacity(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t)

	cmd := baseCommand("bk-1")
	cmd.Guests = 5
	cmd.UnitCount = 2 // 2 rooms x 2 guests = 4 max
	_, err := f.requestHandler().Handle(f.ctx(guestActor), cmd)
	require.ErrorIs(t, err, ErrGuestsExceedCapacity)
}

func TestRequestBookingRejectsPastStart(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t)

	cmd := baseCommand("bk-1")
	cmd.Start = time.Now().AddDate(0, 0, -3)
	cmd.End = time.Now().AddDate(0, 0, -1)
	_, err := f.requestHandler().Handle(f.ctx(guestActor), cmd)
	require.ErrorIs(t, err, domainbooking.ErrStartInPast)
}

func TestWalkInRequiresStaff(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t)

	cmd := baseCommand("bk-1")
	cmd.WalkIn = true
	_, err := f.requestHandler().Handle(f.ctx(guestActor), cmd)
	require.ErrorIs(t, err, policies.ErrForbidden)

	cmd.GuestID = "usr-guest"
	res, err := f.requestHandler().Handle(f.ctx(staffActor), cmd)
	require.NoError(t, err)

	b, err := f.bookings.ByID(context.Background(), domainbooking.BookingID(res.BookingID))
	require.NoError(t, err)
	require.Equal(t, domainbooking.StatusConfirmed, b.Status)
	require.Equal(t, "usr-guest", b.GuestID)
}

func TestConfirmGatedOnDeposit(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t)
	cmd := baseCommand("bk-1")
	cmd.UnitCount = 2
	cmd.Guests = 4
	f.request(t, guestActor, cmd) // base cost 400, deposit 200

	payments := &RecordPaymentHandler{UoWFactory: f.factory, Authz: f.authz, Outbox: f.box}
	confirm := &ConfirmBookingHandler{UoWFactory: f.factory, Pricing: f.pricing, Authz: f.authz, Outbox: f.box}

	_, err := payments.Handle(f.ctx(staffActor), RecordPaymentCommand{
		BookingID: "bk-1", Amount: 150, Currency: "USD", Method: "CASH",
	})
	require.NoError(t, err)

	_, err = confirm.Handle(f.ctx(staffActor), ConfirmBookingCommand{BookingID: "bk-1"})
	var gate *domainbooking.GateError
	require.ErrorAs(t, err, &gate)
	require.EqualValues(t, 200, gate.Required.Amount)
	require.EqualValues(t, 150, gate.Actual.Amount)

	result, err := payments.Handle(f.ctx(staffActor), RecordPaymentCommand{
		BookingID: "bk-1", Amount: 50, Currency: "USD", Method: "TRANSFER",
	})
	require.NoError(t, err)
	require.EqualValues(t, 200, result.Statement.TotalCredited.Amount)

	res, err := confirm.Handle(f.ctx(staffActor), ConfirmBookingCommand{BookingID: "bk-1"})
	require.NoError(t, err)
	require.Equal(t, string(domainbooking.StatusConfirmed), res.Status)
}

func TestCompleteRequiresSettledBalance(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t)
	f.request(t, guestActor, baseCommand("bk-1")) // base cost 200

	payments := &RecordPaymentHandler{UoWFactory: f.factory, Authz: f.authz, Outbox: f.box}
	confirm := &ConfirmBookingHandler{UoWFactory: f.factory, Pricing: f.pricing, Authz: f.authz, Outbox: f.box}
	complete := &CompleteBookingHandler{UoWFactory: f.factory, Authz: f.authz, Outbox: f.box}

	_, err := payments.Handle(f.ctx(staffActor), RecordPaymentCommand{BookingID: "bk-1", Amount: 100, Currency: "USD", Method: "CASH"})
	require.NoError(t, err)
	_, err = confirm.Handle(f.ctx(staffActor), ConfirmBookingCommand{BookingID: "bk-1"})
	require.NoError(t, err)

	_, err = complete.Handle(f.ctx(staffActor), CompleteBookingCommand{BookingID: "bk-1"})
	var gate *domainbooking.GateError
	require.ErrorAs(t, err, &gate)
	require.EqualValues(t, 100, gate.Actual.Amount)

	_, err = payments.Handle(f.ctx(staffActor), RecordPaymentCommand{BookingID: "bk-1", Amount: 100, Currency: "USD", Method: "DEBIT"})
	require.NoError(t, err)
	res, err := complete.Handle(f.ctx(staffActor), CompleteBookingCommand{BookingID: "bk-1"})
	require.NoError(t, err)
	require.Equal(t, string(domainbooking.StatusCompleted), res.Status)
}

func TestCancelOwnBooking(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t)
	f.request(t, guestActor, baseCommand("bk-1"))

	cancel := &CancelBookingHandler{UoWFactory: f.factory, Authz: f.authz, Outbox: f.box}

	// a different guest may not cancel someone else's booking
	stranger := policies.Actor{ID: "usr-other", Roles: []string{"guest"}}
	_, err := cancel.Handle(f.ctx(stranger), CancelBookingCommand{BookingID: "bk-1", Reason: "nope"})
	require.ErrorIs(t, err, policies.ErrForbidden)

	res, err := cancel.Handle(f.ctx(guestActor), CancelBookingCommand{BookingID: "bk-1", Reason: "change of plans"})
	require.NoError(t, err)
	require.Equal(t, string(domainbooking.StatusCancelled), res.Status)

	// cancelled bookings free their units
	cmd := baseCommand("bk-2")
	cmd.UnitCount = 3
	cmd.Guests = 6
	_, err = f.requestHandler().Handle(f.ctx(guestActor), cmd)
	require.NoError(t, err)
}

func TestSetDiscountCapFromConfig(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t)
	f.request(t, guestActor, baseCommand("bk-1"))

	discount := &SetDiscountHandler{UoWFactory: f.factory, Authz: f.authz, Outbox: f.box, MaxPercent: 50}

	_, err := discount.Handle(f.ctx(staffActor), SetDiscountCommand{BookingID: "bk-1", Percent: 60})
	require.ErrorIs(t, err, domainbooking.ErrDiscountOutOfRange)

	res, err := discount.Handle(f.ctx(staffActor), SetDiscountCommand{BookingID: "bk-1", Percent: 10})
	require.NoError(t, err)
	require.EqualValues(t, 20, res.Statement.DiscountAmount.Amount)

	// guests may not grant themselves discounts
	_, err = discount.Handle(f.ctx(guestActor), SetDiscountCommand{BookingID: "bk-1", Percent: 10})
	require.ErrorIs(t, err, policies.ErrForbidden)
}

func TestAddBillGrowsStatement(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t)
	f.request(t, guestActor, baseCommand("bk-1")) // base cost 200

	bills := &AddBillHandler{UoWFactory: f.factory, Authz: f.authz, Outbox: f.box}
	res, err := bills.Handle(f.ctx(staffActor), AddBillCommand{
		BookingID: "bk-1", Description: "minibar", Amount: 50, Currency: "USD",
	})
	require.NoError(t, err)
	require.EqualValues(t, 250, res.Statement.TotalBill.Amount)
	require.EqualValues(t, 250, res.Statement.Balance.Amount)
}

func TestRescheduleExcludesOwnBooking(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t)
	cmd := baseCommand("bk-1")
	cmd.UnitCount = 2
	cmd.Guests = 4
	f.request(t, guestActor, cmd)

	reschedule := &RescheduleBookingHandler{UoWFactory: f.factory, Pricing: f.pricing, Authz: f.authz, Outbox: f.box}

	// moving within the same dates must not conflict with itself
	res, err := reschedule.Handle(f.ctx(staffActor), RescheduleBookingCommand{
		BookingID: "bk-1",
		Start:     stayStart.AddDate(0, 0, 1),
		End:       stayEnd.AddDate(0, 0, 1),
	})
	require.NoError(t, err)
	require.Equal(t, string(domainbooking.StatusPending), res.Status)

	b, err := f.bookings.ByID(context.Background(), "bk-1")
	require.NoError(t, err)
	require.True(t, b.Range.Start.Equal(stayStart.AddDate(0, 0, 1)))
	// cost re-quoted for the new window, still 2 nights x 2 rooms
	require.EqualValues(t, 400, b.BaseCost.Amount)
}

func TestRescheduleBlockedByOtherBooking(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t)
	first := baseCommand("bk-1")
	first.UnitCount = 3
	first.Guests = 6
	f.request(t, guestActor, first)

	later := baseCommand("bk-2")
	later.Start = stayStart.AddDate(0, 1, 0)
	later.End = stayEnd.AddDate(0, 1, 0)
	f.request(t, guestActor, later)

	reschedule := &RescheduleBookingHandler{UoWFactory: f.factory, Pricing: f.pricing, Authz: f.authz, Outbox: f.box}
	_, err := reschedule.Handle(f.ctx(staffActor), RescheduleBookingCommand{
		BookingID: "bk-2",
		Start:     stayStart,
		End:       stayEnd,
	})
	require.ErrorIs(t, err, ErrNotEnoughUnits)
}

func TestQuoteBooking(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t)
	cmd := baseCommand("bk-1")
	cmd.UnitCount = 2
	cmd.Guests = 4
	f.request(t, guestActor, cmd)

	quote := &QuoteBookingHandler{UoWFactory: f.factory, Pricing: f.pricing}
	result, err := quote.Handle(f.ctx(guestActor), QuoteBookingQuery{
		ListingID: "lst-1",
		Start:     stayStart,
		End:       stayEnd,
		Guests:    2,
		UnitCount: 1,
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.Availability.Count)
	require.EqualValues(t, 200, result.EstimatedCost.Amount)
	require.EqualValues(t, 100, result.DepositRequired.Amount)
}

func TestBookingStatementOwnership(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t)
	f.request(t, guestActor, baseCommand("bk-1"))

	statement := &BookingStatementHandler{UoWFactory: f.factory, Authz: f.authz}

	detail, err := statement.Handle(f.ctx(guestActor), BookingStatementQuery{BookingID: "bk-1"})
	require.NoError(t, err)
	require.Equal(t, "bk-1", detail.ID)
	require.EqualValues(t, 200, detail.Statement.Balance.Amount)

	stranger := policies.Actor{ID: "usr-other", Roles: []string{"guest"}}
	_, err = statement.Handle(f.ctx(stranger), BookingStatementQuery{BookingID: "bk-1"})
	require.ErrorIs(t, err, policies.ErrForbidden)

	// staff can always view
	_, err = statement.Handle(f.ctx(staffActor), BookingStatementQuery{BookingID: "bk-1"})
	require.NoError(t, err)
}

func TestListGuestBookings(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t)
	f.request(t, guestActor, baseCommand("bk-1"))
	second := baseCommand("bk-2")
	second.Start = stayStart.AddDate(0, 1, 0)
	second.End = stayEnd.AddDate(0, 1, 0)
	f.request(t, guestActor, second)

	list := &ListGuestBookingsHandler{UoWFactory: f.factory, Authz: f.authz}
	result, err := list.Handle(f.ctx(guestActor), ListGuestBookingsQuery{GuestID: guestActor.ID})
	require.NoError(t, err)
	require.Len(t, result.Items, 2)

	// a blank guest id defaults to the caller
	result, err = list.Handle(f.ctx(guestActor), ListGuestBookingsQuery{})
	require.NoError(t, err)
	require.Len(t, result.Items, 2)
}

func TestListGuestBookingsOwnership(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t)
	f.request(t, guestActor, baseCommand("bk-1"))

	list := &ListGuestBookingsHandler{UoWFactory: f.factory, Authz: f.authz}

	// another guest cannot enumerate someone else's bookings
	stranger := policies.Actor{ID: "usr-other", Roles: []string{"guest"}}
	_, err := list.Handle(f.ctx(stranger), ListGuestBookingsQuery{GuestID: guestActor.ID})
	require.ErrorIs(t, err, policies.ErrForbidden)

	// staff can list any guest
	result, err := list.Handle(f.ctx(staffActor), ListGuestBookingsQuery{GuestID: guestActor.ID})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)

	_, err = list.Handle(context.Background(), ListGuestBookingsQuery{GuestID: guestActor.ID})
	require.ErrorIs(t, err, ErrActorUnknown)
}

func TestRequestBookingNeedsActor(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t)
	_, err := f.requestHandler().Handle(context.Background(), baseCommand("bk-1"))
	require.ErrorIs(t, err, ErrActorUnknown)
}

type sessionCtxKey struct{}

type sessionUnit struct {
	uow.UnitOfWork
}

func (u sessionUnit) InjectContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, "session")
}

type sessionFactory struct {
	inner uow.UoWFactory
}

func (f sessionFactory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	unit, err := f.inner.Begin(ctx, opts)
	if err != nil {
		return nil, err
	}
	return sessionUnit{UnitOfWork: unit}, nil
}

// Units that carry a driver session (Mongo transactions) must see their
// session context on every repository call made through the acquired unit.
func TestAcquireUnitBindsSessionContext(t *testing.T) {
	f := newFixture(t)

	ctx, unit, managed, err := acquireUnit(context.Background(), sessionFactory{inner: f.factory}, false)
	require.NoError(t, err)
	require.True(t, managed)
	require.Equal(t, "session", ctx.Value(sessionCtxKey{}))

	ambient, ok := uow.FromContext(ctx)
	require.True(t, ok)
	require.Equal(t, unit, ambient)
	require.NoError(t, unit.Rollback(ctx))
}
