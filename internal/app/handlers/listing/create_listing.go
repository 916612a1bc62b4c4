package listing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/quantum-brackets/45group-sub001/internal/app/commands"
	"github.com/quantum-brackets/45group-sub001/internal/app/middleware"
	"github.com/quantum-brackets/45group-sub001/internal/app/outbox"
	"github.com/quantum-brackets/45group-sub001/internal/app/policies"
	"github.com/quantum-brackets/45group-sub001/internal/app/uow"
	domainlisting "github.com/quantum-brackets/45group-sub001/internal/domain/listing"
	"github.com/quantum-brackets/45group-sub001/internal/domain/shared/money"
)

const createListingKey = "listing.create"

type UnitSeedInput struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CreateListingCommand struct {
	Name      string
	Location  string
	Type      string
	Rate      int64
	Currency  string
	RateUnit  string
	MaxGuests int
	Units     []UnitSeedInput
	// Activate publishes the listing immediately instead of leaving it in
	// draft.
	Activate bool
}

func (c CreateListingCommand) Key() string { return createListingKey }

func (c CreateListingCommand) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: name required", commands.ErrInvalidCommand)
	}
	if len(c.Units) == 0 {
		return fmt.Errorf("%w: at least one inventory unit required", commands.ErrInvalidCommand)
	}
	return nil
}

type CreateListingResult struct {
	ListingID string `json:"listing_id"`
	State     string `json:"state"`
}

type CreateListingHandler struct {
	UoWFactory uow.UoWFactory
	Authz      policies.Authorizer
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *CreateListingHandler) Handle(ctx context.Context, cmd CreateListingCommand) (*CreateListingResult, error) {
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
	if !h.Authz.Check(ctx, actor, createListingKey, policies.Resource{Kind: "listing"}) {
		return nil, policies.ErrForbidden
	}

	rate, err := money.New(cmd.Rate, cmd.Currency)
	if err != nil {
		return nil, err
	}
	seeds := make([]domainlisting.UnitSeed, len(cmd.Units))
	for i, seed := range cmd.Units {
		seeds[i] = domainlisting.UnitSeed{ID: domainlisting.UnitID(seed.ID), Name: seed.Name}
	}

	now := time.Now()
	l, err := domainlisting.NewListing(domainlisting.CreateParams{
		ID:        domainlisting.ListingID(uuid.NewString()),
		Name:      cmd.Name,
		Location:  cmd.Location,
		Type:      domainlisting.Type(cmd.Type),
		Rate:      rate,
		RateUnit:  domainlisting.PriceUnit(cmd.RateUnit),
		MaxGuests: cmd.MaxGuests,
		Units:     seeds,
		Now:       now,
	})
	if err != nil {
		return nil, err
	}
	if cmd.Activate {
		if err := l.Activate(now); err != nil {
			return nil, err
		}
	}

	if err := unit.Listings().Save(ctx, l); err != nil {
		return nil, err
	}
	if err := drainEvents(ctx, h.Outbox, h.Encoder, l); err != nil {
		return nil, err
	}
	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}
	return &CreateListingResult{ListingID: string(l.ID), State: string(l.State)}, nil
}

var _ commands.Handler[CreateListingCommand, *CreateListingResult] = (*CreateListingHandler)(nil)
var _ middleware.Validatable = CreateListingCommand{}
