package pricing

import (
	"github.com/quantum-brackets/45group-sub001/internal/domain/listing"
	"github.com/quantum-brackets/45group-sub001/internal/domain/shared/daterange"
	"github.com/quantum-brackets/45group-sub001/internal/domain/shared/money"
)

// DefaultEventDailyHours is the number of billable hours a single event day
// covers when a listing charges per hour.
const DefaultEventDailyHours = 8

// Calculator computes base booking costs from listing pricing rules. It is a
// pure value: identical inputs always yield identical output.
type Calculator struct {
	// EventDailyHours overrides DefaultEventDailyHours when positive.
	EventDailyHours int
}

type QuoteInput struct {
	Rate      money.Money
	RateUnit  listing.PriceUnit
	Range     daterange.DateRange
	Guests    int
	UnitCount int
}

// Cost returns the base booking cost before bills, discounts and payments.
//
// A stay across N calendar days bills N-1 nights, floored at one, so a
// same-day range still bills a single night. Hourly listings bill every
// calendar day at the daily-hours block. Unknown price units cost zero
// rather than failing: the rate rows are operator-maintained data.
func (c Calculator) Cost(input QuoteInput) money.Money {
	unitCount := input.UnitCount
	if unitCount < 1 {
		unitCount = 1
	}
	switch input.RateUnit {
	case listing.PerNight:
		return input.Rate.Multiply(int64(input.Range.Nights()) * int64(unitCount))
	case listing.PerHour:
		hours := int64(input.Range.Days()) * int64(c.hoursPerDay())
		return input.Rate.Multiply(hours * int64(unitCount))
	case listing.PerPerson:
		guests := input.Guests
		if guests < 1 {
			guests = 1
		}
		return input.Rate.Multiply(int64(guests) * int64(unitCount))
	default:
		return money.Zero(input.Rate.Currency)
	}
}

// Deposit returns the minimum credit needed before a booking may be
// confirmed: one night, one hour, or one person charge per reserved unit.
func (c Calculator) Deposit(rate money.Money, rateUnit listing.PriceUnit, unitCount int) money.Money {
	if unitCount < 1 {
		unitCount = 1
	}
	switch rateUnit {
	case listing.PerNight, listing.PerHour, listing.PerPerson:
		return rate.Multiply(int64(unitCount))
	default:
		return money.Zero(rate.Currency)
	}
}

func (c Calculator) hoursPerDay() int {
	if c.EventDailyHours > 0 {
		return c.EventDailyHours
	}
	return DefaultEventDailyHours
}
