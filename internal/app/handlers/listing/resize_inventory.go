package listing

import (
	"context"
	"fmt"
	"time"

	"github.com/quantum-brackets/45group-sub001/internal/app/commands"
	"github.com/quantum-brackets/45group-sub001/internal/app/dto"
	"github.com/quantum-brackets/45group-sub001/internal/app/middleware"
	"github.com/quantum-brackets/45group-sub001/internal/app/outbox"
	"github.com/quantum-brackets/45group-sub001/internal/app/policies"
	"github.com/quantum-brackets/45group-sub001/internal/app/uow"
	domainlisting "github.com/quantum-brackets/45group-sub001/internal/domain/listing"
)

const resizeInventoryKey = "listing.resize_inventory"

type ResizeInventoryCommand struct {
	ListingID string
	Units     []UnitSeedInput
}

func (c ResizeInventoryCommand) Key() string { return resizeInventoryKey }

func (c ResizeInventoryCommand) Validate() error {
	if len(c.Units) == 0 {
		return fmt.Errorf("%w: at least one inventory unit required", commands.ErrInvalidCommand)
	}
	return nil
}

type ResizeInventoryResult struct {
	Listing dto.ListingDTO `json:"listing"`
}

// ResizeInventoryHandler replaces a listing's unit roster. Bookings that
// reference removed units keep their assignments; removed units simply stop
// appearing in availability results.
type ResizeInventoryHandler struct {
	UoWFactory uow.UoWFactory
	Authz      policies.Authorizer
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *ResizeInventoryHandler) Handle(ctx context.Context, cmd ResizeInventoryCommand) (*ResizeInventoryResult, error) {
	var result ResizeInventoryResult
	err := mutateListing(ctx, h.UoWFactory, h.Outbox, h.Encoder, domainlisting.ListingID(cmd.ListingID),
		func(ctx context.Context, unit uow.UnitOfWork, actor policies.Actor, l *domainlisting.Listing) error {
			if !h.Authz.Check(ctx, actor, resizeInventoryKey, listingResource(l.ID)) {
				return policies.ErrForbidden
			}
			seeds := make([]domainlisting.UnitSeed, len(cmd.Units))
			for i, seed := range cmd.Units {
				seeds[i] = domainlisting.UnitSeed{ID: domainlisting.UnitID(seed.ID), Name: seed.Name}
			}
			if err := l.ResizeInventory(seeds, time.Now()); err != nil {
				return err
			}
			result.Listing = dto.MapListing(l)
			return nil
		})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

var _ commands.Handler[ResizeInventoryCommand, *ResizeInventoryResult] = (*ResizeInventoryHandler)(nil)
var _ middleware.Validatable = ResizeInventoryCommand{}
