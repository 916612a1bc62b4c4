package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainlisting "github.com/quantum-brackets/45group-sub001/internal/domain/listing"
)

type ListingRepository struct {
	col *mongo.Collection
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	col := db.Collection("agg_listing")
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "state", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return &ListingRepository{col: col}
}

func (r *ListingRepository) ByID(ctx context.Context, id domainlisting.ListingID) (*domainlisting.Listing, error) {
	var doc listingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domainlisting.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *ListingRepository) Save(ctx context.Context, l *domainlisting.Listing) error {
	doc := newListingDocument(l)
	filter := bson.M{"_id": doc.ID, "version": l.Version}
	doc.Version = l.Version + 1
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	l.Version = doc.Version
	return nil
}

func (r *ListingRepository) List(ctx context.Context) ([]*domainlisting.Listing, error) {
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := make([]*domainlisting.Listing, 0)
	for cur.Next(ctx) {
		var doc listingDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cur.Err()
}

type listingDocument struct {
	ID        string         `bson:"_id"`
	Name      string         `bson:"name"`
	Location  string         `bson:"location"`
	Type      string         `bson:"type"`
	Rate      moneyDocument  `bson:"rate"`
	RateUnit  string         `bson:"rate_unit"`
	MaxGuests int            `bson:"max_guests"`
	Units     []unitDocument `bson:"units"`
	State     string         `bson:"state"`
	CreatedAt int64          `bson:"created_at"`
	UpdatedAt int64          `bson:"updated_at"`
	Version   int64          `bson:"version"`
}

type unitDocument struct {
	ID   string `bson:"id"`
	Name string `bson:"name"`
}

func newListingDocument(l *domainlisting.Listing) listingDocument {
	units := make([]unitDocument, len(l.Units))
	for i, unit := range l.Units {
		units[i] = unitDocument{ID: string(unit.ID), Name: unit.Name}
	}
	return listingDocument{
		ID:        string(l.ID),
		Name:      l.Name,
		Location:  l.Location,
		Type:      string(l.Type),
		Rate:      newMoneyDocument(l.Rate),
		RateUnit:  string(l.RateUnit),
		MaxGuests: l.MaxGuests,
		Units:     units,
		State:     string(l.State),
		CreatedAt: l.CreatedAt.UnixMilli(),
		UpdatedAt: l.UpdatedAt.UnixMilli(),
		Version:   l.Version,
	}
}

func (d listingDocument) toAggregate() *domainlisting.Listing {
	units := make([]domainlisting.InventoryUnit, len(d.Units))
	for i, unit := range d.Units {
		units[i] = domainlisting.InventoryUnit{ID: domainlisting.UnitID(unit.ID), Name: unit.Name}
	}
	return &domainlisting.Listing{
		ID:        domainlisting.ListingID(d.ID),
		Name:      d.Name,
		Location:  d.Location,
		Type:      domainlisting.Type(d.Type),
		Rate:      d.Rate.toMoney(),
		RateUnit:  domainlisting.PriceUnit(d.RateUnit),
		MaxGuests: d.MaxGuests,
		Units:     units,
		State:     domainlisting.State(d.State),
		CreatedAt: timestampToTime(d.CreatedAt),
		UpdatedAt: timestampToTime(d.UpdatedAt),
		Version:   d.Version,
	}
}

var _ domainlisting.Repository = (*ListingRepository)(nil)
