package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/quantum-brackets/45group-sub001/internal/app/policies"
	domainbooking "github.com/quantum-brackets/45group-sub001/internal/domain/booking"
	domainlisting "github.com/quantum-brackets/45group-sub001/internal/domain/listing"
	"github.com/quantum-brackets/45group-sub001/internal/domain/shared/daterange"
	"github.com/quantum-brackets/45group-sub001/internal/domain/shared/money"
	"github.com/quantum-brackets/45group-sub001/internal/infra/storage/memory"
)

func seed(t *testing.T) (*CheckAvailabilityHandler, *memory.BookingRepository) {
	t.Helper()
	listings := memory.NewListingRepository()
	bookings := memory.NewBookingRepository()

	l, err := domainlisting.NewListing(domainlisting.CreateParams{
		ID:        "lst-1",
		Name:      "Harbor Hotel",
		Type:      domainlisting.TypeHotel,
		Rate:      money.Must(100, "USD"),
		RateUnit:  domainlisting.PerNight,
		MaxGuests: 2,
		Units:     []domainlisting.UnitSeed{{ID: "A"}, {ID: "B"}, {ID: "C"}},
		Now:       time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, l.Activate(time.Now()))
	l.ClearEvents()
	require.NoError(t, listings.Save(context.Background(), l))

	handler := &CheckAvailabilityHandler{UoWFactory: &memory.Factory{
		ListingsRepo: listings,
		BookingsRepo: bookings,
		UsersRepo:    memory.NewUserRepository(),
	}}
	return handler, bookings
}

func saveBooking(t *testing.T, repo *memory.BookingRepository, id string, start, end time.Time, units ...string) {
	t.Helper()
	dr, err := daterange.New(start, end)
	require.NoError(t, err)
	unitIDs := make([]domainlisting.UnitID, len(units))
	for i, u := range units {
		unitIDs[i] = domainlisting.UnitID(u)
	}
	b, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:        domainbooking.BookingID(id),
		ListingID: "lst-1",
		GuestID:   "usr-guest",
		Range:     dr,
		Guests:    1,
		UnitIDs:   unitIDs,
		BaseCost:  money.Must(100, "USD"),
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	b.ClearEvents()
	require.NoError(t, repo.Save(context.Background(), b))
}

func TestCheckAvailability(t *testing.T) {
	handler, bookings := seed(t)
	start := time.Date(2027, time.June, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2027, time.June, 12, 0, 0, 0, 0, time.UTC)
	saveBooking(t, bookings, "bk-1", start, end, "A", "B")

	ctx := policies.ContextWithActor(context.Background(), policies.Actor{ID: "usr-guest"})

	res, err := handler.Handle(ctx, CheckAvailabilityQuery{
		ListingID: "lst-1",
		Start:     start.AddDate(0, 0, 1),
		End:       end.AddDate(0, 0, 2),
	})
	require.NoError(t, err)
	require.Equal(t, 1, res.Count)
	require.Equal(t, []string{"C"}, res.UnitIDs)

	// outside the booked window everything is free
	res, err = handler.Handle(ctx, CheckAvailabilityQuery{
		ListingID: "lst-1",
		Start:     end.AddDate(0, 0, 5),
		End:       end.AddDate(0, 0, 7),
	})
	require.NoError(t, err)
	require.Equal(t, 3, res.Count)

	// excluding the conflicting booking frees its units
	res, err = handler.Handle(ctx, CheckAvailabilityQuery{
		ListingID:        "lst-1",
		Start:            start,
		End:              end,
		ExcludeBookingID: "bk-1",
	})
	require.NoError(t, err)
	require.Equal(t, 3, res.Count)
}

func TestCheckAvailabilityUnknownListing(t *testing.T) {
	handler, _ := seed(t)
	_, err := handler.Handle(context.Background(), CheckAvailabilityQuery{
		ListingID: "lst-missing",
		Start:     time.Date(2027, time.June, 10, 0, 0, 0, 0, time.UTC),
		End:       time.Date(2027, time.June, 11, 0, 0, 0, 0, time.UTC),
	})
	require.ErrorIs(t, err, domainlisting.ErrNotFound)
}

func TestCheckAvailabilityInvalidRange(t *testing.T) {
	handler, _ := seed(t)
	_, err := handler.Handle(context.Background(), CheckAvailabilityQuery{
		ListingID: "lst-1",
		Start:     time.Date(2027, time.June, 12, 0, 0, 0, 0, time.UTC),
		End:       time.Date(2027, time.June, 10, 0, 0, 0, 0, time.UTC),
	})
	require.ErrorIs(t, err, daterange.ErrInvalidRange)
}
