package daterange

import (
	"errors"
	"time"
)

var ErrInvalidRange = errors.New("daterange: end date must not be before start date")

// DateRange represents an inclusive interval of calendar days [Start, End].
// A same-day range (Start == End) is valid and spans a single day.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func New(start, end time.Time) (DateRange, error) {
	dr := DateRange{Start: truncateToDay(start), End: truncateToDay(end)}
	if err := dr.Validate(); err != nil {
		return DateRange{}, err
	}
	return dr, nil
}

func (dr DateRange) Validate() error {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return ErrInvalidRange
	}
	if dr.End.Before(dr.Start) {
		return ErrInvalidRange
	}
	return nil
}

// Days returns the number of calendar days the range touches, counting both
// endpoints. A same-day range counts as one day.
func (dr DateRange) Days() int {
	return int(dr.End.Sub(dr.Start).Hours()/24) + 1
}

// Nights returns the number of billable nights. A stay across N calendar days
// has N-1 nights, floored at one so single-day ranges still bill one night.
func (dr DateRange) Nights() int {
	days := dr.Days()
	if days > 1 {
		return days - 1
	}
	return 1
}

// Overlaps reports whether both inclusive ranges share at least one calendar
// day: s1 <= e2 && s2 <= e1.
func (dr DateRange) Overlaps(other DateRange) bool {
	return !dr.Start.After(other.End) && !other.Start.After(dr.End)
}

func (dr DateRange) Contains(other DateRange) bool {
	return !dr.Start.After(other.Start) && !dr.End.Before(other.End)
}

func (dr DateRange) ContainsDate(t time.Time) bool {
	day := truncateToDay(t)
	return !day.Before(dr.Start) && !day.After(dr.End)
}

func (dr DateRange) Equal(other DateRange) bool {
	return dr.Start.Equal(other.Start) && dr.End.Equal(other.End)
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
