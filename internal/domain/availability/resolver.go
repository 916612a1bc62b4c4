package availability

import (
	"sort"

	"github.com/quantum-brackets/45group-sub001/internal/domain/listing"
	"github.com/quantum-brackets/45group-sub001/internal/domain/shared/daterange"
)

// Window is the slice of an existing booking the resolver needs: its date
// range and the inventory units it holds. Callers must pass only bookings
// that still consume inventory (pending or confirmed); cancelled and
// completed bookings are filtered out before the resolver ever sees them.
type Window struct {
	BookingID string
	Range     daterange.DateRange
	UnitIDs   []listing.UnitID
}

type Result struct {
	UnitIDs []listing.UnitID
	Count   int
}

// Resolve determines which inventory units are free for the requested range.
// Every window overlapping the request contributes its units to the booked
// set; the available units are the total inventory minus that set. Passing
// excludeBookingID skips one booking's own windows, which lets a reschedule
// re-check availability without conflicting with itself.
//
// Resolve is a pure function of its inputs: it performs no I/O and trusts
// the caller to supply a consistent snapshot of existing bookings.
func Resolve(requested daterange.DateRange, existing []Window, totalInventory []listing.UnitID, excludeBookingID string) Result {
	booked := make(map[listing.UnitID]struct{})
	for _, window := range existing {
		if excludeBookingID != "" && window.BookingID == excludeBookingID {
			continue
		}
		if !window.Range.Overlaps(requested) {
			continue
		}
		for _, id := range window.UnitIDs {
			booked[id] = struct{}{}
		}
	}

	available := make([]listing.UnitID, 0, len(totalInventory))
	seen := make(map[listing.UnitID]struct{}, len(totalInventory))
	for _, id := range totalInventory {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, taken := booked[id]; taken {
			continue
		}
		available = append(available, id)
	}
	sort.Slice(available, func(i, j int) bool { return available[i] < available[j] })

	return Result{UnitIDs: available, Count: len(available)}
}
