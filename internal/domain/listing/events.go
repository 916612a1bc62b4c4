package listing

import "time"

type ListingCreatedEvent struct {
	ListingID   ListingID `json:"listing_id"`
	ListingType Type      `json:"listing_type"`
	Inventory   int       `json:"inventory"`
	At          time.Time `json:"at"`
}

func (e ListingCreatedEvent) EventName() string     { return "listing.created" }
func (e ListingCreatedEvent) AggregateID() string   { return string(e.ListingID) }
func (e ListingCreatedEvent) OccurredAt() time.Time { return e.At }

type ListingActivatedEvent struct {
	ListingID ListingID `json:"listing_id"`
	At        time.Time `json:"at"`
}

func (e ListingActivatedEvent) EventName() string     { return "listing.activated" }
func (e ListingActivatedEvent) AggregateID() string   { return string(e.ListingID) }
func (e ListingActivatedEvent) OccurredAt() time.Time { return e.At }

type ListingSuspendedEvent struct {
	ListingID ListingID `json:"listing_id"`
	Reason    string    `json:"reason"`
	At        time.Time `json:"at"`
}

func (e ListingSuspendedEvent) EventName() string     { return "listing.suspended" }
func (e ListingSuspendedEvent) AggregateID() string   { return string(e.ListingID) }
func (e ListingSuspendedEvent) OccurredAt() time.Time { return e.At }

type ListingUpdatedEvent struct {
	ListingID ListingID `json:"listing_id"`
	At        time.Time `json:"at"`
}

func (e ListingUpdatedEvent) EventName() string     { return "listing.updated" }
func (e ListingUpdatedEvent) AggregateID() string   { return string(e.ListingID) }
func (e ListingUpdatedEvent) OccurredAt() time.Time { return e.At }

type InventoryResizedEvent struct {
	ListingID ListingID `json:"listing_id"`
	Inventory int       `json:"inventory"`
	At        time.Time `json:"at"`
}

func (e InventoryResizedEvent) EventName() string     { return "listing.inventory_resized" }
func (e InventoryResizedEvent) AggregateID() string   { return string(e.ListingID) }
func (e InventoryResizedEvent) OccurredAt() time.Time { return e.At }
