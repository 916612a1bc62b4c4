package dto

import (
	"github.com/quantum-brackets/45group-sub001/internal/domain/availability"
)

type AvailabilityDTO struct {
	UnitIDs []string `json:"unit_ids"`
	Count   int      `json:"count"`
}

func MapAvailability(res availability.Result) AvailabilityDTO {
	ids := make([]string, len(res.UnitIDs))
	for i, id := range res.UnitIDs {
		ids[i] = string(id)
	}
	return AvailabilityDTO{UnitIDs: ids, Count: res.Count}
}

type QuoteDTO struct {
	Availability    AvailabilityDTO `json:"availability"`
	EstimatedCost   MoneyDTO        `json:"estimated_cost"`
	DepositRequired MoneyDTO        `json:"deposit_required"`
}
