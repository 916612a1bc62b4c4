package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	domainbooking "github.com/quantum-brackets/45group-sub001/internal/domain/booking"
	domainlisting "github.com/quantum-brackets/45group-sub001/internal/domain/listing"
	domainuser "github.com/quantum-brackets/45group-sub001/internal/domain/user"
)

var (
	// ErrUnitConflict is returned when a save would double-assign an
	// inventory unit over overlapping dates.
	ErrUnitConflict = errors.New("memory: inventory unit already booked for overlapping dates")
	// ErrStaleVersion is returned when the aggregate was modified since it
	// was loaded.
	ErrStaleVersion = errors.New("memory: stale aggregate version")
)

// ListingRepository is an in-memory implementation for tests and demos.
type ListingRepository struct {
	mu    sync.RWMutex
	items map[domainlisting.ListingID]*domainlisting.Listing
}

// NewListingRepository builds an empty repository.
func NewListingRepository() *ListingRepository {
	return &ListingRepository{
		items: make(map[domainlisting.ListingID]*domainlisting.Listing),
	}
}

// ByID returns a listing or listing.ErrNotFound.
func (r *ListingRepository) ByID(ctx context.Context, id domainlisting.ListingID) (*domainlisting.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.items[id]
	if !ok {
		return nil, domainlisting.ErrNotFound
	}
	return l, nil
}

// Save stores/updates a listing entry.
func (r *ListingRepository) Save(ctx context.Context, l *domainlisting.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l.Version++
	r.items[l.ID] = l
	return nil
}

// List returns every listing ordered by creation time, newest first.
func (r *ListingRepository) List(ctx context.Context) ([]*domainlisting.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainlisting.Listing, 0, len(r.items))
	for _, l := range r.items {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// BookingRepository stores bookings in memory.
type BookingRepository struct {
	mu    sync.RWMutex
	items map[domainbooking.BookingID]*domainbooking.Booking
}

// NewBookingRepository builds an empty booking repo.
func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: make(map[domainbooking.BookingID]*domainbooking.Booking)}
}

// ByID fetches a booking.
func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrBookingNotFound
	}
	return b, nil
}

// Save stores the current booking state after checking that none of its
// inventory units collide with another active booking over overlapping
// dates. The check runs under the write lock so concurrent saves cannot
// both pass it.
func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.Status.Active() {
		if err := r.checkConflicts(b); err != nil {
			return err
		}
	}
	b.Version++
	r.items[b.ID] = b
	return nil
}

func (r *BookingRepository) checkConflicts(b *domainbooking.Booking) error {
	claimed := make(map[domainlisting.UnitID]struct{}, len(b.UnitIDs))
	for _, id := range b.UnitIDs {
		claimed[id] = struct{}{}
	}
	for _, other := range r.items {
		if other.ID == b.ID || other.ListingID != b.ListingID || !other.Status.Active() {
			continue
		}
		if !b.Range.Overlaps(other.Range) {
			continue
		}
		for _, id := range other.UnitIDs {
			if _, ok := claimed[id]; ok {
				return ErrUnitConflict
			}
		}
	}
	return nil
}

// ListByGuest returns a guest's bookings, newest first.
func (r *BookingRepository) ListByGuest(ctx context.Context, guestID string) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id := strings.TrimSpace(guestID)
	if id == "" {
		return nil, errors.New("memory: guest id required")
	}
	matches := make([]*domainbooking.Booking, 0)
	for _, b := range r.items {
		if b.GuestID == id {
			matches = append(matches, b)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	return matches, nil
}

// ActiveByListing returns only pending and confirmed bookings; cancelled and
// completed bookings never block availability.
func (r *BookingRepository) ActiveByListing(ctx context.Context, listingID domainlisting.ListingID) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*domainbooking.Booking, 0)
	for _, b := range r.items {
		if b.ListingID == listingID && b.Status.Active() {
			matches = append(matches, b)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.Before(matches[j].CreatedAt)
	})
	return matches, nil
}

// UserRepository stores users in memory. Not suitable for production.
type UserRepository struct {
	mu   sync.RWMutex
	byID map[domainuser.ID]*domainuser.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{byID: make(map[domainuser.ID]*domainuser.User)}
}

func (r *UserRepository) ByID(ctx context.Context, id domainuser.ID) (*domainuser.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if u, ok := r.byID[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domainuser.ErrNotFound
}

func (r *UserRepository) Save(ctx context.Context, u *domainuser.User) error {
	if u == nil || strings.TrimSpace(string(u.ID)) == "" {
		return domainuser.ErrIDRequired
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[u.ID] = cloneUser(u)
	return nil
}

func cloneUser(u *domainuser.User) *domainuser.User {
	if u == nil {
		return nil
	}
	copyUser := *u
	copyUser.Roles = append([]domainuser.Role(nil), u.Roles...)
	return &copyUser
}

var _ domainlisting.Repository = (*ListingRepository)(nil)
var _ domainbooking.Repository = (*BookingRepository)(nil)
var _ domainuser.Repository = (*UserRepository)(nil)
