package listing

import (
	"context"

	"github.com/quantum-brackets/45group-sub001/internal/app/dto"
	"github.com/quantum-brackets/45group-sub001/internal/app/queries"
	"github.com/quantum-brackets/45group-sub001/internal/app/uow"
	domainlisting "github.com/quantum-brackets/45group-sub001/internal/domain/listing"
)

const getListingKey = "listing.get"

type GetListingQuery struct {
	ListingID string
}

func (q GetListingQuery) Key() string { return getListingKey }

type GetListingHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetListingHandler) Handle(ctx context.Context, q GetListingQuery) (dto.ListingDTO, error) {
	ctx, unit, managed, err := acquireUnit(ctx, h.UoWFactory, true)
	if err != nil {
		return dto.ListingDTO{}, err
	}
	if managed {
		defer unit.Rollback(ctx)
	}

	l, err := unit.Listings().ByID(ctx, domainlisting.ListingID(q.ListingID))
	if err != nil {
		return dto.ListingDTO{}, err
	}
	return dto.MapListing(l), nil
}

var _ queries.Handler[GetListingQuery, dto.ListingDTO] = (*GetListingHandler)(nil)
