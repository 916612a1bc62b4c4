package listing

import (
	"context"
	"time"

	"github.com/quantum-brackets/45group-sub001/internal/app/commands"
	"github.com/quantum-brackets/45group-sub001/internal/app/dto"
	"github.com/quantum-brackets/45group-sub001/internal/app/outbox"
	"github.com/quantum-brackets/45group-sub001/internal/app/policies"
	"github.com/quantum-brackets/45group-sub001/internal/app/uow"
	domainlisting "github.com/quantum-brackets/45group-sub001/internal/domain/listing"
)

const (
	activateListingKey = "listing.activate"
	suspendListingKey  = "listing.suspend"
)

type ActivateListingCommand struct {
	ListingID string
}

func (c ActivateListingCommand) Key() string { return activateListingKey }

type SuspendListingCommand struct {
	ListingID string
	Reason    string
}

func (c SuspendListingCommand) Key() string { return suspendListingKey }

type SetStateResult struct {
	Listing dto.ListingDTO `json:"listing"`
}

type ActivateListingHandler struct {
	UoWFactory uow.UoWFactory
	Authz      policies.Authorizer
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *ActivateListingHandler) Handle(ctx context.Context, cmd ActivateListingCommand) (*SetStateResult, error) {
	return setState(ctx, h.UoWFactory, h.Authz, h.Outbox, h.Encoder,
		domainlisting.ListingID(cmd.ListingID), activateListingKey,
		func(l *domainlisting.Listing) error { return l.Activate(time.Now()) })
}

type SuspendListingHandler struct {
	UoWFactory uow.UoWFactory
	Authz      policies.Authorizer
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *SuspendListingHandler) Handle(ctx context.Context, cmd SuspendListingCommand) (*SetStateResult, error) {
	return setState(ctx, h.UoWFactory, h.Authz, h.Outbox, h.Encoder,
		domainlisting.ListingID(cmd.ListingID), suspendListingKey,
		func(l *domainlisting.Listing) error { return l.Suspend(cmd.Reason, time.Now()) })
}

func setState(
	ctx context.Context,
	factory uow.UoWFactory,
	authz policies.Authorizer,
	box outbox.Outbox,
	encoder outbox.EventEncoder,
	id domainlisting.ListingID,
	action string,
	fn func(l *domainlisting.Listing) error,
) (*SetStateResult, error) {
	var result SetStateResult
	err := mutateListing(ctx, factory, box, encoder, id,
		func(ctx context.Context, unit uow.UnitOfWork, actor policies.Actor, l *domainlisting.Listing) error {
			if !authz.Check(ctx, actor, action, listingResource(l.ID)) {
				return policies.ErrForbidden
			}
			if err := fn(l); err != nil {
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

var _ commands.Handler[ActivateListingCommand, *SetStateResult] = (*ActivateListingHandler)(nil)
var _ commands.Handler[SuspendListingCommand, *SetStateResult] = (*SuspendListingHandler)(nil)
