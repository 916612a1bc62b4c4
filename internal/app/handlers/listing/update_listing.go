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
	"github.com/quantum-brackets/45group-sub001/internal/domain/shared/money"
)

const updateListingKey = "listing.update"

type UpdateListingCommand struct {
	ListingID string
	Name      string
	Location  string
	Rate      int64
	Currency  string
	RateUnit  string
	MaxGuests int
}

func (c UpdateListingCommand) Key() string { return updateListingKey }

type UpdateListingResult struct {
	Listing dto.ListingDTO `json:"listing"`
}

type UpdateListingHandler struct {
	UoWFactory uow.UoWFactory
	Authz      policies.Authorizer
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *UpdateListingHandler) Handle(ctx context.Context, cmd UpdateListingCommand) (*UpdateListingResult, error) {
	var result UpdateListingResult
	err := mutateListing(ctx, h.UoWFactory, h.Outbox, h.Encoder, domainlisting.ListingID(cmd.ListingID),
		func(ctx context.Context, unit uow.UnitOfWork, actor policies.Actor, l *domainlisting.Listing) error {
			if !h.Authz.Check(ctx, actor, updateListingKey, listingResource(l.ID)) {
				return policies.ErrForbidden
			}
			rate, err := money.New(cmd.Rate, cmd.Currency)
			if err != nil {
				return err
			}
			if err := l.UpdateAttributes(domainlisting.UpdateParams{
				Name:      cmd.Name,
				Location:  cmd.Location,
				Rate:      rate,
				RateUnit:  domainlisting.PriceUnit(cmd.RateUnit),
				MaxGuests: cmd.MaxGuests,
				Now:       time.Now(),
			}); err != nil {
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

var _ commands.Handler[UpdateListingCommand, *UpdateListingResult] = (*UpdateListingHandler)(nil)
