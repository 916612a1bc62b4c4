package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/quantum-brackets/45group-sub001/internal/domain/ledger"
	"github.com/quantum-brackets/45group-sub001/internal/domain/listing"
	"github.com/quantum-brackets/45group-sub001/internal/domain/shared/daterange"
	"github.com/quantum-brackets/45group-sub001/internal/domain/shared/events"
	"github.com/quantum-brackets/45group-sub001/internal/domain/shared/money"
)

var (
	ErrInvalidGuests      = errors.New("booking: guests count must be positive")
	ErrGuestIDRequired    = errors.New("booking: guest id required")
	ErrActorRequired      = errors.New("booking: actor required")
	ErrNoUnitsAssigned    = errors.New("booking: at least one inventory unit must be assigned")
	ErrInvalidState       = errors.New("booking: invalid state transition")
	ErrAmountNotPositive  = errors.New("booking: amount must be positive")
	ErrInvalidMethod      = errors.New("booking: unknown payment method")
	ErrDiscountOutOfRange = errors.New("booking: discount percent out of range")
	ErrBookingNotFound    = errors.New("booking: not found")
)

type BookingID string

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
)

// Active reports whether the booking still consumes inventory.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

type PaymentMethod string

const (
	MethodCash     PaymentMethod = "CASH"
	MethodTransfer PaymentMethod = "TRANSFER"
	MethodDebit    PaymentMethod = "DEBIT"
	MethodCredit   PaymentMethod = "CREDIT"
)

func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case MethodCash, MethodTransfer, MethodDebit, MethodCredit:
		return true
	}
	return false
}

// Bill is an ad-hoc charge added after booking creation.
type Bill struct {
	Description string
	Amount      money.Money
	Actor       string
	CreatedAt   time.Time
}

// Payment is a recorded payment against a booking. Payments are recorded,
// not processed: gateway integration lives outside this service.
type Payment struct {
	Amount money.Money
	Method PaymentMethod
	Note   string
	Actor  string
	At     time.Time
}

// AuditEntry records who did what to a booking and when.
type AuditEntry struct {
	Actor   string
	Action  string
	Message string
	At      time.Time
}

const (
	ActionCreate        = "create"
	ActionConfirm       = "confirm"
	ActionComplete      = "complete"
	ActionCancel        = "cancel"
	ActionAddBill       = "add_bill"
	ActionRecordPayment = "record_payment"
	ActionSetDiscount   = "set_discount"
	ActionReschedule    = "reschedule"
)

// GateError is a blocked state transition: a policy threshold was not met.
// It is a user-visible validation failure carrying the unmet numbers, never
// a system error, and it is not retried.
type GateError struct {
	Action   string
	Required money.Money
	Actual   money.Money
}

func (e *GateError) Error() string {
	return fmt.Sprintf("booking: %s blocked, requires %d %s but has %d",
		e.Action, e.Required.Amount, e.Required.Currency, e.Actual.Amount)
}

type Booking struct {
	ID              BookingID
	ListingID       listing.ListingID
	GuestID         string
	Range           daterange.DateRange
	Guests          int
	UnitIDs         []listing.UnitID
	Status          Status
	DiscountPercent int64
	BaseCost        money.Money
	Bills           []Bill
	Payments        []Payment
	Audit           []AuditEntry
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Version         int64
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	Save(ctx context.Context, booking *Booking) error
	ListByGuest(ctx context.Context, guestID string) ([]*Booking, error)
	// ActiveByListing returns only bookings whose status still consumes
	// inventory (pending or confirmed), satisfying the resolver's input
	// contract.
	ActiveByListing(ctx context.Context, id listing.ListingID) ([]*Booking, error)
}

type CreateParams struct {
	ID             BookingID
	ListingID      listing.ListingID
	GuestID        string
	Range          daterange.DateRange
	Guests         int
	UnitIDs        []listing.UnitID
	BaseCost       money.Money
	Actor          string
	StartConfirmed bool
	CreatedAt      time.Time
}

// NewBooking creates a booking in PENDING, or directly in CONFIRMED for
// staff walk-ins when StartConfirmed is set.
func NewBooking(params CreateParams) (*Booking, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, errors.New("booking: id is required")
	}
	if strings.TrimSpace(params.GuestID) == "" {
		return nil, ErrGuestIDRequired
	}
	if params.Guests < 1 {
		return nil, ErrInvalidGuests
	}
	if len(params.UnitIDs) == 0 {
		return nil, ErrNoUnitsAssigned
	}
	if err := params.Range.Validate(); err != nil {
		return nil, err
	}
	actor := strings.TrimSpace(params.Actor)
	if actor == "" {
		actor = params.GuestID
	}
	now := params.CreatedAt.UTC()
	status := StatusPending
	if params.StartConfirmed {
		status = StatusConfirmed
	}
	b := &Booking{
		ID:        params.ID,
		ListingID: params.ListingID,
		GuestID:   params.GuestID,
		Range:     params.Range,
		Guests:    params.Guests,
		UnitIDs:   append([]listing.UnitID(nil), params.UnitIDs...),
		Status:    status,
		BaseCost:  params.BaseCost,
		CreatedAt: now,
		UpdatedAt: now,
	}
	b.appendAudit(actor, ActionCreate, fmt.Sprintf("booking created in %s", status), now)
	b.Record(BookingRequested{BookingID: b.ID, ListingID: b.ListingID, GuestID: b.GuestID, Range: b.Range, Units: len(b.UnitIDs), Status: status, At: now})
	return b, nil
}

// Statement reconciles the booking's financial records against its base cost.
func (b *Booking) Statement() ledger.Statement {
	bills := make([]money.Money, len(b.Bills))
	for i, bill := range b.Bills {
		bills[i] = bill.Amount
	}
	payments := make([]money.Money, len(b.Payments))
	for i, payment := range b.Payments {
		payments[i] = payment.Amount
	}
	return ledger.Reconcile(b.BaseCost, b.DiscountPercent, bills, payments)
}

// Confirm moves PENDING to CONFIRMED once the credited total covers the
// required deposit.
func (b *Booking) Confirm(actor string, deposit money.Money, now time.Time) error {
	if strings.TrimSpace(actor) == "" {
		return ErrActorRequired
	}
	if b.Status != StatusPending {
		return ErrInvalidState
	}
	credited := b.Statement().TotalCredited
	if credited.Amount < deposit.Amount {
		return &GateError{Action: ActionConfirm, Required: deposit, Actual: credited}
	}
	b.Status = StatusConfirmed
	b.UpdatedAt = now.UTC()
	b.appendAudit(actor, ActionConfirm, fmt.Sprintf("deposit covered: %d of %d %s", credited.Amount, deposit.Amount, deposit.Currency), b.UpdatedAt)
	b.Record(BookingConfirmed{BookingID: b.ID, ListingID: b.ListingID, At: b.UpdatedAt})
	return nil
}

// Complete moves CONFIRMED to COMPLETED once nothing is owed.
func (b *Booking) Complete(actor string, now time.Time) error {
	if strings.TrimSpace(actor) == "" {
		return ErrActorRequired
	}
	if b.Status != StatusConfirmed {
		return ErrInvalidState
	}
	stmt := b.Statement()
	if stmt.Owing() {
		return &GateError{Action: ActionComplete, Required: money.Zero(stmt.Balance.Currency), Actual: stmt.Balance}
	}
	b.Status = StatusCompleted
	b.UpdatedAt = now.UTC()
	b.appendAudit(actor, ActionComplete, "booking settled and completed", b.UpdatedAt)
	b.Record(BookingCompleted{BookingID: b.ID, ListingID: b.ListingID, At: b.UpdatedAt})
	return nil
}

// Cancel is allowed from PENDING or CONFIRMED regardless of balance.
func (b *Booking) Cancel(actor, reason string, now time.Time) error {
	if strings.TrimSpace(actor) == "" {
		return ErrActorRequired
	}
	if !b.Status.Active() {
		return ErrInvalidState
	}
	b.Status = StatusCancelled
	b.UpdatedAt = now.UTC()
	message := "booking cancelled"
	if strings.TrimSpace(reason) != "" {
		message = "booking cancelled: " + strings.TrimSpace(reason)
	}
	b.appendAudit(actor, ActionCancel, message, b.UpdatedAt)
	b.Record(BookingCancelled{BookingID: b.ID, ListingID: b.ListingID, Reason: reason, At: b.UpdatedAt})
	return nil
}

// AddBill appends an ad-hoc charge. Only active bookings accumulate charges.
func (b *Booking) AddBill(actor, description string, amount money.Money, now time.Time) error {
	if strings.TrimSpace(actor) == "" {
		return ErrActorRequired
	}
	if !b.Status.Active() {
		return ErrInvalidState
	}
	if !amount.IsPositive() {
		return ErrAmountNotPositive
	}
	if _, err := b.BaseCost.Add(amount); err != nil {
		return err
	}
	at := now.UTC()
	b.Bills = append(b.Bills, Bill{
		Description: strings.TrimSpace(description),
		Amount:      amount,
		Actor:       actor,
		CreatedAt:   at,
	})
	b.UpdatedAt = at
	b.appendAudit(actor, ActionAddBill, fmt.Sprintf("bill added: %s (%d %s)", description, amount.Amount, amount.Currency), at)
	b.Record(BillAdded{BookingID: b.ID, Description: description, Amount: amount, At: at})
	return nil
}

// RecordPayment appends a payment record.
func (b *Booking) RecordPayment(actor string, amount money.Money, method PaymentMethod, note string, now time.Time) error {
	if strings.TrimSpace(actor) == "" {
		return ErrActorRequired
	}
	if !b.Status.Active() {
		return ErrInvalidState
	}
	if !amount.IsPositive() {
		return ErrAmountNotPositive
	}
	if !ValidPaymentMethod(method) {
		return ErrInvalidMethod
	}
	if _, err := b.BaseCost.Add(amount); err != nil {
		return err
	}
	at := now.UTC()
	b.Payments = append(b.Payments, Payment{
		Amount: amount,
		Method: method,
		Note:   strings.TrimSpace(note),
		Actor:  actor,
		At:     at,
	})
	b.UpdatedAt = at
	b.appendAudit(actor, ActionRecordPayment, fmt.Sprintf("payment recorded: %d %s via %s", amount.Amount, amount.Currency, method), at)
	b.Record(PaymentRecorded{BookingID: b.ID, Amount: amount, Method: method, At: at})
	return nil
}

// SetDiscount sets the discount percentage, capped at maxPercent.
func (b *Booking) SetDiscount(actor string, percent, maxPercent int64, now time.Time) error {
	if strings.TrimSpace(actor) == "" {
		return ErrActorRequired
	}
	if !b.Status.Active() {
		return ErrInvalidState
	}
	if percent < 0 || percent > maxPercent {
		return fmt.Errorf("%w: %d%% (cap %d%%)", ErrDiscountOutOfRange, percent, maxPercent)
	}
	b.DiscountPercent = percent
	b.UpdatedAt = now.UTC()
	b.appendAudit(actor, ActionSetDiscount, fmt.Sprintf("discount set to %d%%", percent), b.UpdatedAt)
	b.Record(DiscountApplied{BookingID: b.ID, Percent: percent, At: b.UpdatedAt})
	return nil
}

// Reschedule moves the booking to a new range and unit assignment, with the
// base cost re-quoted by the caller. Availability for the new range must be
// resolved with this booking excluded from conflict consideration.
func (b *Booking) Reschedule(actor string, newRange daterange.DateRange, unitIDs []listing.UnitID, newBaseCost money.Money, now time.Time) error {
	if strings.TrimSpace(actor) == "" {
		return ErrActorRequired
	}
	if !b.Status.Active() {
		return ErrInvalidState
	}
	if err := newRange.Validate(); err != nil {
		return err
	}
	if len(unitIDs) == 0 {
		return ErrNoUnitsAssigned
	}
	b.Range = newRange
	b.UnitIDs = append([]listing.UnitID(nil), unitIDs...)
	b.BaseCost = newBaseCost
	b.UpdatedAt = now.UTC()
	b.appendAudit(actor, ActionReschedule, fmt.Sprintf("moved to %s..%s across %d unit(s)",
		newRange.Start.Format("2006-01-02"), newRange.End.Format("2006-01-02"), len(unitIDs)), b.UpdatedAt)
	b.Record(BookingRescheduled{BookingID: b.ID, ListingID: b.ListingID, Range: newRange, Units: len(unitIDs), At: b.UpdatedAt})
	return nil
}

func (b *Booking) appendAudit(actor, action, message string, at time.Time) {
	b.Audit = append(b.Audit, AuditEntry{Actor: actor, Action: action, Message: message, At: at})
}
