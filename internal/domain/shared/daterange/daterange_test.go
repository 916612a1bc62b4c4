package daterange

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustRange(t *testing.T, start, end time.Time) DateRange {
	t.Helper()
	dr, err := New(start, end)
	if err != nil {
		t.Fatalf("New(%v, %v): %v", start, end, err)
	}
	return dr
}

func TestNewTruncatesToCalendarDay(t *testing.T) {
	start := time.Date(2026, time.March, 10, 15, 45, 12, 0, time.FixedZone("WAT", 3600))
	end := time.Date(2026, time.March, 12, 1, 0, 0, 0, time.UTC)
	dr, err := New(start, end)
	if err != nil {
		t.Fatal(err)
	}
	if !dr.Start.Equal(day(2026, time.March, 10)) {
		t.Errorf("start not truncated: %v", dr.Start)
	}
	if !dr.End.Equal(day(2026, time.March, 12)) {
		t.Errorf("end not truncated: %v", dr.End)
	}
}

func TestNewRejectsReversedRange(t *testing.T) {
	if _, err := New(day(2026, time.March, 12), day(2026, time.March, 10)); err != ErrInvalidRange {
		t.Fatalf("want ErrInvalidRange, got %v", err)
	}
}

func TestDaysAndNights(t *testing.T) {
	cases := []struct {
		name   string
		start  time.Time
		end    time.Time
		days   int
		nights int
	}{
		{"same day", day(2026, time.May, 1), day(2026, time.May, 1), 1, 1},
		{"two days", day(2026, time.May, 1), day(2026, time.May, 2), 2, 1},
		{"three days", day(2026, time.May, 1), day(2026, time.May, 3), 3, 2},
		{"week", day(2026, time.May, 1), day(2026, time.May, 7), 7, 6},
		{"across month boundary", day(2026, time.May, 30), day(2026, time.June, 2), 4, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dr := mustRange(t, tc.start, tc.end)
			if got := dr.Days(); got != tc.days {
				t.Errorf("Days() = %d, want %d", got, tc.days)
			}
			if got := dr.Nights(); got != tc.nights {
				t.Errorf("Nights() = %d, want %d", got, tc.nights)
			}
		})
	}
}

func TestOverlaps(t *testing.T) {
	base := mustRange(t, day(2026, time.July, 10), day(2026, time.July, 15))
	cases := []struct {
		name  string
		other DateRange
		want  bool
	}{
		{"identical", base, true},
		{"contained", mustRange(t, day(2026, time.July, 11), day(2026, time.July, 12)), true},
		{"shares start day", mustRange(t, day(2026, time.July, 5), day(2026, time.July, 10)), true},
		{"shares end day", mustRange(t, day(2026, time.July, 15), day(2026, time.July, 20)), true},
		{"before", mustRange(t, day(2026, time.July, 1), day(2026, time.July, 9)), false},
		{"after", mustRange(t, day(2026, time.July, 16), day(2026, time.July, 20)), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := base.Overlaps(tc.other); got != tc.want {
				t.Errorf("Overlaps() = %v, want %v", got, tc.want)
			}
			// overlap is symmetric
			if got := tc.other.Overlaps(base); got != tc.want {
				t.Errorf("reverse Overlaps() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestContainsDate(t *testing.T) {
	dr := mustRange(t, day(2026, time.July, 10), day(2026, time.July, 15))
	if !dr.ContainsDate(day(2026, time.July, 10)) || !dr.ContainsDate(day(2026, time.July, 15)) {
		t.Error("endpoints must be contained")
	}
	if dr.ContainsDate(day(2026, time.July, 16)) {
		t.Error("day after end must not be contained")
	}
	if !dr.ContainsDate(time.Date(2026, time.July, 12, 23, 59, 0, 0, time.UTC)) {
		t.Error("any instant within a contained day must count")
	}
}
