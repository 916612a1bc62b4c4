package booking

import (
	"errors"
	"time"

	"github.com/quantum-brackets/45group-sub001/internal/domain/shared/daterange"
)

var ErrStartInPast = errors.New("booking: start date is in the past")

// ValidateDateRange rejects ranges that begin before today. Staff tooling
// that backfills historical bookings skips this check.
func ValidateDateRange(dr daterange.DateRange, now time.Time) error {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if dr.Start.Before(today) {
		return ErrStartInPast
	}
	return nil
}
