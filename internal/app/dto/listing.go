package dto

import (
	"time"

	domainlisting "github.com/quantum-brackets/45group-sub001/internal/domain/listing"
)

type InventoryUnitDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ListingDTO struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Location       string             `json:"location"`
	Type           string             `json:"type"`
	Rate           MoneyDTO           `json:"rate"`
	RateUnit       string             `json:"rate_unit"`
	MaxGuests      int                `json:"max_guests"`
	InventoryCount int                `json:"inventory_count"`
	Units          []InventoryUnitDTO `json:"units"`
	State          string             `json:"state"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

type ListingCollection struct {
	Items []ListingDTO `json:"items"`
}

func MapListing(l *domainlisting.Listing) ListingDTO {
	units := make([]InventoryUnitDTO, len(l.Units))
	for i, unit := range l.Units {
		units[i] = InventoryUnitDTO{ID: string(unit.ID), Name: unit.Name}
	}
	return ListingDTO{
		ID:             string(l.ID),
		Name:           l.Name,
		Location:       l.Location,
		Type:           string(l.Type),
		Rate:           MapMoney(l.Rate),
		RateUnit:       string(l.RateUnit),
		MaxGuests:      l.MaxGuests,
		InventoryCount: l.InventoryCount(),
		Units:          units,
		State:          string(l.State),
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
}
