package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/quantum-brackets/45group-sub001/internal/app/commands"
	"github.com/quantum-brackets/45group-sub001/internal/app/middleware"
	"github.com/quantum-brackets/45group-sub001/internal/app/outbox"
	"github.com/quantum-brackets/45group-sub001/internal/app/policies"
	"github.com/quantum-brackets/45group-sub001/internal/app/uow"
	"github.com/quantum-brackets/45group-sub001/internal/domain/availability"
	domainbooking "github.com/quantum-brackets/45group-sub001/internal/domain/booking"
	domainlisting "github.com/quantum-brackets/45group-sub001/internal/domain/listing"
	"github.com/quantum-brackets/45group-sub001/internal/domain/pricing"
	domainrange "github.com/quantum-brackets/45group-sub001/internal/domain/shared/daterange"
)

const requestBookingKey = "booking.request"

type RequestBookingCommand struct {
	CommandID string
	ListingID string
	GuestID   string
	Start     time.Time
	End       time.Time
	Guests    int
	UnitCount int
	// WalkIn marks a staff-created booking that starts CONFIRMED and may
	// begin in the past.
	WalkIn          bool
	IdempotencyKeyV string
}

func (c RequestBookingCommand) Key() string { return requestBookingKey }

func (c RequestBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c RequestBookingCommand) ResultPrototype() any { return &RequestBookingResult{} }

func (c RequestBookingCommand) Validate() error {
	if c.ListingID == "" {
		return fmt.Errorf("%w: listing id required", commands.ErrInvalidCommand)
	}
	if c.Guests < 1 {
		return domainbooking.ErrInvalidGuests
	}
	if c.UnitCount < 1 {
		return fmt.Errorf("%w: unit count must be at least 1", commands.ErrInvalidCommand)
	}
	return nil
}

type RequestBookingResult struct {
	BookingID string `json:"booking_id"`
}

type RequestBookingHandler struct {
	UoWFactory uow.UoWFactory
	Pricing    policies.PricingPort
	Authz      policies.Authorizer
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *RequestBookingHandler) Handle(ctx context.Context, cmd RequestBookingCommand) (*RequestBookingResult, error) {
	ctx, unit, managed, err := acquireUnit(ctx, h.UoWFactory, false)
	if err != nil {
		return nil, err
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
		return nil, err
	}
	guestID := cmd.GuestID
	if guestID == "" {
		guestID = actor.ID
	}

	action := requestBookingKey
	if cmd.WalkIn {
		action = "booking.walkin"
	}
	if !h.Authz.Check(ctx, actor, action, policies.Resource{Kind: "booking", OwnerID: guestID}) {
		return nil, policies.ErrForbidden
	}

	dr, err := domainrange.New(cmd.Start, cmd.End)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if !cmd.WalkIn {
		if err := domainbooking.ValidateDateRange(dr, now); err != nil {
			return nil, err
		}
	}

	lst, err := unit.Listings().ByID(ctx, domainlisting.ListingID(cmd.ListingID))
	if err != nil {
		return nil, err
	}
	if lst.State != domainlisting.StateActive {
		return nil, ErrListingNotActive
	}
	if cmd.Guests > lst.MaxGuests*cmd.UnitCount {
		return nil, fmt.Errorf("%w: %d guests across %d unit(s), limit %d per unit",
			ErrGuestsExceedCapacity, cmd.Guests, cmd.UnitCount, lst.MaxGuests)
	}

	active, err := unit.Bookings().ActiveByListing(ctx, lst.ID)
	if err != nil {
		return nil, err
	}
	res := availability.Resolve(dr, bookingWindows(active), lst.UnitIDs(), "")
	if res.Count < cmd.UnitCount {
		return nil, fmt.Errorf("%w: requested %d, available %d", ErrNotEnoughUnits, cmd.UnitCount, res.Count)
	}

	cost := h.Pricing.Cost(pricing.QuoteInput{
		Rate:      lst.Rate,
		RateUnit:  lst.RateUnit,
		Range:     dr,
		Guests:    cmd.Guests,
		UnitCount: cmd.UnitCount,
	})

	b, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:             domainbooking.BookingID(cmd.CommandID),
		ListingID:      lst.ID,
		GuestID:        guestID,
		Range:          dr,
		Guests:         cmd.Guests,
		UnitIDs:        res.UnitIDs[:cmd.UnitCount],
		BaseCost:       cost,
		Actor:          actor.ID,
		StartConfirmed: cmd.WalkIn,
		CreatedAt:      now,
	})
	if err != nil {
		return nil, err
	}

	if err := unit.Bookings().Save(ctx, b); err != nil {
		return nil, err
	}
	if err := drainEvents(ctx, h.Outbox, h.encoder(), b); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}

	return &RequestBookingResult{BookingID: string(b.ID)}, nil
}

func (h *RequestBookingHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

var _ commands.Handler[RequestBookingCommand, *RequestBookingResult] = (*RequestBookingHandler)(nil)
var _ middleware.IdempotentCommand = RequestBookingCommand{}
var _ middleware.Validatable = RequestBookingCommand{}
