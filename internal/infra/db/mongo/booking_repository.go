package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "github.com/quantum-brackets/45group-sub001/internal/domain/booking"
	domainlisting "github.com/quantum-brackets/45group-sub001/internal/domain/listing"
	domainrange "github.com/quantum-brackets/45group-sub001/internal/domain/shared/daterange"
	"github.com/quantum-brackets/45group-sub001/internal/domain/shared/money"
)

var (
	ErrConcurrentUpdate = errors.New("mongo: concurrent update detected")
	// ErrUnitConflict is returned when a save would double-assign an
	// inventory unit over overlapping dates.
	ErrUnitConflict = errors.New("mongo: inventory unit already booked for overlapping dates")
)

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	col := db.Collection("agg_booking")
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "listing_id", Value: 1}, {Key: "status", Value: 1}},
	})
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "guest_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return &BookingRepository{col: col}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domainbooking.ErrBookingNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

// Save persists the booking with an optimistic version check. Active
// bookings are additionally checked against concurrent unit assignments:
// inside a transaction the conflict read and the write commit or abort
// together, which is the final word on double bookings.
func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	if b.Status.Active() {
		if err := r.checkConflicts(ctx, b); err != nil {
			return err
		}
	}
	doc := newBookingDocument(b)
	filter := bson.M{"_id": doc.ID, "version": b.Version}
	doc.Version = b.Version + 1
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
	b.Version = doc.Version
	return nil
}

func (r *BookingRepository) checkConflicts(ctx context.Context, b *domainbooking.Booking) error {
	units := make([]string, len(b.UnitIDs))
	for i, id := range b.UnitIDs {
		units[i] = string(id)
	}
	filter := bson.M{
		"_id":         bson.M{"$ne": string(b.ID)},
		"listing_id":  string(b.ListingID),
		"status":      bson.M{"$in": []string{string(domainbooking.StatusPending), string(domainbooking.StatusConfirmed)}},
		"unit_ids":    bson.M{"$in": units},
		"range.start": bson.M{"$lte": b.Range.End.UnixMilli()},
		"range.end":   bson.M{"$gte": b.Range.Start.UnixMilli()},
	}
	count, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrUnitConflict
	}
	return nil
}

func (r *BookingRepository) ListByGuest(ctx context.Context, guestID string) ([]*domainbooking.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"guest_id": guestID}, opts)
	if err != nil {
		return nil, err
	}
	return decodeBookings(ctx, cur)
}

func (r *BookingRepository) ActiveByListing(ctx context.Context, id domainlisting.ListingID) ([]*domainbooking.Booking, error) {
	filter := bson.M{
		"listing_id": string(id),
		"status":     bson.M{"$in": []string{string(domainbooking.StatusPending), string(domainbooking.StatusConfirmed)}},
	}
	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	return decodeBookings(ctx, cur)
}

func decodeBookings(ctx context.Context, cur *mongo.Cursor) ([]*domainbooking.Booking, error) {
	defer cur.Close(ctx)
	out := make([]*domainbooking.Booking, 0)
	for cur.Next(ctx) {
		var doc bookingDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cur.Err()
}

type bookingDocument struct {
	ID              string            `bson:"_id"`
	ListingID       string            `bson:"listing_id"`
	GuestID         string            `bson:"guest_id"`
	Range           rangeDocument     `bson:"range"`
	Guests          int               `bson:"guests"`
	UnitIDs         []string          `bson:"unit_ids"`
	Status          string            `bson:"status"`
	DiscountPercent int64             `bson:"discount_percent"`
	BaseCost        moneyDocument     `bson:"base_cost"`
	Bills           []billDocument    `bson:"bills"`
	Payments        []paymentDocument `bson:"payments"`
	Audit           []auditDocument   `bson:"audit"`
	CreatedAt       int64             `bson:"created_at"`
	UpdatedAt       int64             `bson:"updated_at"`
	Version         int64             `bson:"version"`
}

type rangeDocument struct {
	Start int64 `bson:"start"`
	End   int64 `bson:"end"`
}

type moneyDocument struct {
	Amount   int64  `bson:"amount"`
	Currency string `bson:"currency"`
}

type billDocument struct {
	Description string        `bson:"description"`
	Amount      moneyDocument `bson:"amount"`
	Actor       string        `bson:"actor"`
	CreatedAt   int64         `bson:"created_at"`
}

type paymentDocument struct {
	Amount moneyDocument `bson:"amount"`
	Method string        `bson:"method"`
	Note   string        `bson:"note"`
	Actor  string        `bson:"actor"`
	At     int64         `bson:"at"`
}

type auditDocument struct {
	Actor   string `bson:"actor"`
	Action  string `bson:"action"`
	Message string `bson:"message"`
	At      int64  `bson:"at"`
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	units := make([]string, len(b.UnitIDs))
	for i, id := range b.UnitIDs {
		units[i] = string(id)
	}
	bills := make([]billDocument, len(b.Bills))
	for i, bill := range b.Bills {
		bills[i] = billDocument{
			Description: bill.Description,
			Amount:      newMoneyDocument(bill.Amount),
			Actor:       bill.Actor,
			CreatedAt:   bill.CreatedAt.UnixMilli(),
		}
	}
	payments := make([]paymentDocument, len(b.Payments))
	for i, payment := range b.Payments {
		payments[i] = paymentDocument{
			Amount: newMoneyDocument(payment.Amount),
			Method: string(payment.Method),
			Note:   payment.Note,
			Actor:  payment.Actor,
			At:     payment.At.UnixMilli(),
		}
	}
	audit := make([]auditDocument, len(b.Audit))
	for i, entry := range b.Audit {
		audit[i] = auditDocument{Actor: entry.Actor, Action: entry.Action, Message: entry.Message, At: entry.At.UnixMilli()}
	}
	return bookingDocument{
		ID:              string(b.ID),
		ListingID:       string(b.ListingID),
		GuestID:         b.GuestID,
		Range:           rangeDocument{Start: b.Range.Start.UnixMilli(), End: b.Range.End.UnixMilli()},
		Guests:          b.Guests,
		UnitIDs:         units,
		Status:          string(b.Status),
		DiscountPercent: b.DiscountPercent,
		BaseCost:        newMoneyDocument(b.BaseCost),
		Bills:           bills,
		Payments:        payments,
		Audit:           audit,
		CreatedAt:       b.CreatedAt.UnixMilli(),
		UpdatedAt:       b.UpdatedAt.UnixMilli(),
		Version:         b.Version,
	}
}

func (d bookingDocument) toAggregate() *domainbooking.Booking {
	units := make([]domainlisting.UnitID, len(d.UnitIDs))
	for i, id := range d.UnitIDs {
		units[i] = domainlisting.UnitID(id)
	}
	bills := make([]domainbooking.Bill, len(d.Bills))
	for i, bill := range d.Bills {
		bills[i] = domainbooking.Bill{
			Description: bill.Description,
			Amount:      bill.Amount.toMoney(),
			Actor:       bill.Actor,
			CreatedAt:   timestampToTime(bill.CreatedAt),
		}
	}
	payments := make([]domainbooking.Payment, len(d.Payments))
	for i, payment := range d.Payments {
		payments[i] = domainbooking.Payment{
			Amount: payment.Amount.toMoney(),
			Method: domainbooking.PaymentMethod(payment.Method),
			Note:   payment.Note,
			Actor:  payment.Actor,
			At:     timestampToTime(payment.At),
		}
	}
	audit := make([]domainbooking.AuditEntry, len(d.Audit))
	for i, entry := range d.Audit {
		audit[i] = domainbooking.AuditEntry{Actor: entry.Actor, Action: entry.Action, Message: entry.Message, At: timestampToTime(entry.At)}
	}
	return &domainbooking.Booking{
		ID:              domainbooking.BookingID(d.ID),
		ListingID:       domainlisting.ListingID(d.ListingID),
		GuestID:         d.GuestID,
		Range:           domainrange.DateRange{Start: timestampToTime(d.Range.Start), End: timestampToTime(d.Range.End)},
		Guests:          d.Guests,
		UnitIDs:         units,
		Status:          domainbooking.Status(d.Status),
		DiscountPercent: d.DiscountPercent,
		BaseCost:        d.BaseCost.toMoney(),
		Bills:           bills,
		Payments:        payments,
		Audit:           audit,
		CreatedAt:       timestampToTime(d.CreatedAt),
		UpdatedAt:       timestampToTime(d.UpdatedAt),
		Version:         d.Version,
	}
}

func newMoneyDocument(m money.Money) moneyDocument {
	return moneyDocument{Amount: m.Amount, Currency: m.Currency}
}

func (d moneyDocument) toMoney() money.Money {
	return money.Money{Amount: d.Amount, Currency: d.Currency}
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

var _ domainbooking.Repository = (*BookingRepository)(nil)
