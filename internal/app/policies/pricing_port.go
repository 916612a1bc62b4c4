package policies

import (
	"github.com/quantum-brackets/45group-sub001/internal/domain/listing"
	"github.com/quantum-brackets/45group-sub001/internal/domain/pricing"
	"github.com/quantum-brackets/45group-sub001/internal/domain/shared/money"
)

// PricingPort exposes the price calculator to application handlers.
type PricingPort interface {
	Cost(input pricing.QuoteInput) money.Money
	Deposit(rate money.Money, rateUnit listing.PriceUnit, unitCount int) money.Money
}

var _ PricingPort = pricing.Calculator{}
