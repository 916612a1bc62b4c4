package booking

import (
	"time"

	"github.com/quantum-brackets/45group-sub001/internal/domain/listing"
	"github.com/quantum-brackets/45group-sub001/internal/domain/shared/daterange"
	"github.com/quantum-brackets/45group-sub001/internal/domain/shared/money"
)

type BookingRequested struct {
	BookingID BookingID           `json:"booking_id"`
	ListingID listing.ListingID   `json:"listing_id"`
	GuestID   string              `json:"guest_id"`
	Range     daterange.DateRange `json:"range"`
	Units     int                 `json:"units"`
	Status    Status              `json:"status"`
	At        time.Time           `json:"at"`
}

func (e BookingRequested) EventName() string     { return "booking.requested" }
func (e BookingRequested) AggregateID() string   { return string(e.BookingID) }
func (e BookingRequested) OccurredAt() time.Time { return e.At }

type BookingConfirmed struct {
	BookingID BookingID         `json:"booking_id"`
	ListingID listing.ListingID `json:"listing_id"`
	At        time.Time         `json:"at"`
}

func (e BookingConfirmed) EventName() string     { return "booking.confirmed" }
func (e BookingConfirmed) AggregateID() string   { return string(e.BookingID) }
func (e BookingConfirmed) OccurredAt() time.Time { return e.At }

type BookingCompleted struct {
	BookingID BookingID         `json:"booking_id"`
	ListingID listing.ListingID `json:"listing_id"`
	At        time.Time         `json:"at"`
}

func (e BookingCompleted) EventName() string     { return "booking.completed" }
func (e BookingCompleted) AggregateID() string   { return string(e.BookingID) }
func (e BookingCompleted) OccurredAt() time.Time { return e.At }

type BookingCancelled struct {
	BookingID BookingID         `json:"booking_id"`
	ListingID listing.ListingID `json:"listing_id"`
	Reason    string            `json:"reason"`
	At        time.Time         `json:"at"`
}

func (e BookingCancelled) EventName() string     { return "booking.cancelled" }
func (e BookingCancelled) AggregateID() string   { return string(e.BookingID) }
func (e BookingCancelled) OccurredAt() time.Time { return e.At }

type BillAdded struct {
	BookingID   BookingID   `json:"booking_id"`
	Description string      `json:"description"`
	Amount      money.Money `json:"amount"`
	At          time.Time   `json:"at"`
}

func (e BillAdded) EventName() string     { return "booking.bill_added" }
func (e BillAdded) AggregateID() string   { return string(e.BookingID) }
func (e BillAdded) OccurredAt() time.Time { return e.At }

type PaymentRecorded struct {
	BookingID BookingID     `json:"booking_id"`
	Amount    money.Money   `json:"amount"`
	Method    PaymentMethod `json:"method"`
	At        time.Time     `json:"at"`
}

func (e PaymentRecorded) EventName() string     { return "booking.payment_recorded" }
func (e PaymentRecorded) AggregateID() string   { return string(e.BookingID) }
func (e PaymentRecorded) OccurredAt() time.Time { return e.At }

type DiscountApplied struct {
	BookingID BookingID `json:"booking_id"`
	Percent   int64     `json:"percent"`
	At        time.Time `json:"at"`
}

func (e DiscountApplied) EventName() string     { return "booking.discount_applied" }
func (e DiscountApplied) AggregateID() string   { return string(e.BookingID) }
func (e DiscountApplied) OccurredAt() time.Time { return e.At }

type BookingRescheduled struct {
	BookingID BookingID           `json:"booking_id"`
	ListingID listing.ListingID   `json:"listing_id"`
	Range     daterange.DateRange `json:"range"`
	Units     int                 `json:"units"`
	At        time.Time           `json:"at"`
}

func (e BookingRescheduled) EventName() string     { return "booking.rescheduled" }
func (e BookingRescheduled) AggregateID() string   { return string(e.BookingID) }
func (e BookingRescheduled) OccurredAt() time.Time { return e.At }
