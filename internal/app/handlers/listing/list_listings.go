package listing

import (
	"context"

	"github.com/quantum-brackets/45group-sub001/internal/app/dto"
	"github.com/quantum-brackets/45group-sub001/internal/app/queries"
	"github.com/quantum-brackets/45group-sub001/internal/app/uow"
	domainlisting "github.com/quantum-brackets/45group-sub001/internal/domain/listing"
)

const listListingsKey = "listing.list"

type ListListingsQuery struct {
	// OnlyActive filters the catalog down to bookable listings.
	OnlyActive bool
}

func (q ListListingsQuery) Key() string { return listListingsKey }

type ListListingsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListListingsHandler) Handle(ctx context.Context, q ListListingsQuery) (dto.ListingCollection, error) {
	ctx, unit, managed, err := acquireUnit(ctx, h.UoWFactory, true)
	if err != nil {
		return dto.ListingCollection{}, err
	}
	if managed {
		defer unit.Rollback(ctx)
	}

	listings, err := unit.Listings().List(ctx)
	if err != nil {
		return dto.ListingCollection{}, err
	}
	items := make([]dto.ListingDTO, 0, len(listings))
	for _, l := range listings {
		if q.OnlyActive && l.State != domainlisting.StateActive {
			continue
		}
		items = append(items, dto.MapListing(l))
	}
	return dto.ListingCollection{Items: items}, nil
}

var _ queries.Handler[ListListingsQuery, dto.ListingCollection] = (*ListListingsHandler)(nil)
