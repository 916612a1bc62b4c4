package listing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/quantum-brackets/45group-sub001/internal/app/policies"
	"github.com/quantum-brackets/45group-sub001/internal/app/uow"
	domainlisting "github.com/quantum-brackets/45group-sub001/internal/domain/listing"
	"github.com/quantum-brackets/45group-sub001/internal/infra/storage/memory"
)

var (
	managerActor = policies.Actor{ID: "usr-manager", Name: "Mia", Roles: []string{"staff"}}
	plainGuest   = policies.Actor{ID: "usr-guest", Roles: []string{"guest"}}
)

type fixture struct {
	factory  uow.UoWFactory
	listings *memory.ListingRepository
	box      *memory.Outbox
	authz    policies.Authorizer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		listings: memory.NewListingRepository(),
		box:      memory.NewOutbox(nil),
		authz:    policies.NewRoleAuthorizer(),
	}
	f.factory = &memory.Factory{
		ListingsRepo: f.listings,
		BookingsRepo: memory.NewBookingRepository(),
		UsersRepo:    memory.NewUserRepository(),
	}
	return f
}

func (f *fixture) ctx(actor policies.Actor) context.Context {
	return policies.ContextWithActor(context.Background(), actor)
}

func (f *fixture) create(t *testing.T, cmd CreateListingCommand) *CreateListingResult {
	t.Helper()
	h := &CreateListingHandler{UoWFactory: f.factory, Authz: f.authz, Outbox: f.box}
	res, err := h.Handle(f.ctx(managerActor), cmd)
	require.NoError(t, err)
	return res
}

func validCreate() CreateListingCommand {
	return CreateListingCommand{
		Name:      "Garden Hall",
		Location:  "Uyo",
		Type:      "events",
		Rate:      5000,
		Currency:  "USD",
		RateUnit:  "hour",
		MaxGuests: 150,
		Units:     []UnitSeedInput{{ID: "hall-main", Name: "Main Hall"}},
	}
}

func TestCreateListing(t *testing.T) {
	f := newFixture(t)
	res := f.create(t, validCreate())
	require.NotEmpty(t, res.ListingID)
	require.Equal(t, string(domainlisting.StateDraft), res.State)

	l, err := f.listings.ByID(context.Background(), domainlisting.ListingID(res.ListingID))
	require.NoError(t, err)
	require.Equal(t, "Garden Hall", l.Name)
	require.Equal(t, 1, l.InventoryCount())
}

func TestCreateListingImmediateActivate(t *testing.T) {
	f := newFixture(t)
	cmd := validCreate()
	cmd.Activate = true
	res := f.create(t, cmd)
	require.Equal(t, string(domainlisting.StateActive), res.State)
}

func TestCreateListingRequiresStaff(t *testing.T) {
	f := newFixture(t)
	h := &CreateListingHandler{UoWFactory: f.factory, Authz: f.authz, Outbox: f.box}
	_, err := h.Handle(f.ctx(plainGuest), validCreate())
	require.ErrorIs(t, err, policies.ErrForbidden)
}

func TestUpdateListing(t *testing.T) {
	f := newFixture(t)
	created := f.create(t, validCreate())

	h := &UpdateListingHandler{UoWFactory: f.factory, Authz: f.authz, Outbox: f.box}
	res, err := h.Handle(f.ctx(managerActor), UpdateListingCommand{
		ListingID: created.ListingID,
		Name:      "Garden Hall West",
		Location:  "Uyo",
		Rate:      6000,
		Currency:  "USD",
		RateUnit:  "hour",
		MaxGuests: 200,
	})
	require.NoError(t, err)
	require.Equal(t, "Garden Hall West", res.Listing.Name)
	require.EqualValues(t, 6000, res.Listing.Rate.Amount)
	require.Equal(t, 200, res.Listing.MaxGuests)
}

func TestResizeInventory(t *testing.T) {
	f := newFixture(t)
	created := f.create(t, validCreate())

	h := &ResizeInventoryHandler{UoWFactory: f.factory, Authz: f.authz, Outbox: f.box}
	res, err := h.Handle(f.ctx(managerActor), ResizeInventoryCommand{
		ListingID: created.ListingID,
		Units: []UnitSeedInput{
			{ID: "hall-main"}, {ID: "hall-annex"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 2, res.Listing.InventoryCount)
}

func TestActivateSuspendCycle(t *testing.T) {
	f := newFixture(t)
	created := f.create(t, validCreate())

	activate := &ActivateListingHandler{UoWFactory: f.factory, Authz: f.authz, Outbox: f.box}
	suspend := &SuspendListingHandler{UoWFactory: f.factory, Authz: f.authz, Outbox: f.box}

	res, err := activate.Handle(f.ctx(managerActor), ActivateListingCommand{ListingID: created.ListingID})
	require.NoError(t, err)
	require.Equal(t, string(domainlisting.StateActive), res.Listing.State)

	res, err = suspend.Handle(f.ctx(managerActor), SuspendListingCommand{ListingID: created.ListingID, Reason: "flood damage"})
	require.NoError(t, err)
	require.Equal(t, string(domainlisting.StateSuspended), res.Listing.State)

	// suspending twice fails: only active listings suspend
	_, err = suspend.Handle(f.ctx(managerActor), SuspendListingCommand{ListingID: created.ListingID})
	require.ErrorIs(t, err, domainlisting.ErrInvalidState)
}

func TestGetAndListListings(t *testing.T) {
	f := newFixture(t)
	first := f.create(t, validCreate())
	time.Sleep(2 * time.Millisecond) // keep creation order distinct
	cmd := validCreate()
	cmd.Name = "Corner Bistro"
	cmd.Type = "restaurant"
	cmd.RateUnit = "person"
	cmd.Activate = true
	f.create(t, cmd)

	get := &GetListingHandler{UoWFactory: f.factory}
	dtoOut, err := get.Handle(context.Background(), GetListingQuery{ListingID: first.ListingID})
	require.NoError(t, err)
	require.Equal(t, "Garden Hall", dtoOut.Name)

	list := &ListListingsHandler{UoWFactory: f.factory}
	all, err := list.Handle(context.Background(), ListListingsQuery{})
	require.NoError(t, err)
	require.Len(t, all.Items, 2)

	active, err := list.Handle(context.Background(), ListListingsQuery{OnlyActive: true})
	require.NoError(t, err)
	require.Len(t, active.Items, 1)
	require.Equal(t, "Corner Bistro", active.Items[0].Name)
}
