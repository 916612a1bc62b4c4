package dto

import (
	"time"

	domainbooking "github.com/quantum-brackets/45group-sub001/internal/domain/booking"
	"github.com/quantum-brackets/45group-sub001/internal/domain/ledger"
	"github.com/quantum-brackets/45group-sub001/internal/domain/shared/money"
)

type MoneyDTO struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func MapMoney(value money.Money) MoneyDTO {
	return MoneyDTO{Amount: value.Amount, Currency: value.Currency}
}

type BillDTO struct {
	Description string    `json:"description"`
	Amount      MoneyDTO  `json:"amount"`
	Actor       string    `json:"actor"`
	CreatedAt   time.Time `json:"created_at"`
}

type PaymentDTO struct {
	Amount MoneyDTO  `json:"amount"`
	Method string    `json:"method"`
	Note   string    `json:"note,omitempty"`
	Actor  string    `json:"actor"`
	At     time.Time `json:"at"`
}

type AuditEntryDTO struct {
	Actor   string    `json:"actor"`
	Action  string    `json:"action"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

type StatementDTO struct {
	BaseCost        MoneyDTO `json:"base_cost"`
	DiscountAmount  MoneyDTO `json:"discount_amount"`
	AddedBillsTotal MoneyDTO `json:"added_bills_total"`
	TotalBill       MoneyDTO `json:"total_bill"`
	TotalCredited   MoneyDTO `json:"total_credited"`
	Balance         MoneyDTO `json:"balance"`
}

func MapStatement(s ledger.Statement) StatementDTO {
	return StatementDTO{
		BaseCost:        MapMoney(s.BaseCost),
		DiscountAmount:  MapMoney(s.DiscountAmount),
		AddedBillsTotal: MapMoney(s.AddedBillsTotal),
		TotalBill:       MapMoney(s.TotalBill),
		TotalCredited:   MapMoney(s.TotalCredited),
		Balance:         MapMoney(s.Balance),
	}
}

type BookingSummary struct {
	ID              string    `json:"id"`
	ListingID       string    `json:"listing_id"`
	GuestID         string    `json:"guest_id"`
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	Guests          int       `json:"guests"`
	UnitIDs         []string  `json:"unit_ids"`
	Status          string    `json:"status"`
	DiscountPercent int64     `json:"discount_percent"`
	BaseCost        MoneyDTO  `json:"base_cost"`
	Balance         MoneyDTO  `json:"balance"`
	CreatedAt       time.Time `json:"created_at"`
}

type BookingDetail struct {
	BookingSummary
	Statement StatementDTO    `json:"statement"`
	Bills     []BillDTO       `json:"bills"`
	Payments  []PaymentDTO    `json:"payments"`
	Audit     []AuditEntryDTO `json:"audit"`
}

type BookingCollection struct {
	Items []BookingSummary `json:"items"`
}

func MapBookingSummary(b *domainbooking.Booking) BookingSummary {
	units := make([]string, len(b.UnitIDs))
	for i, id := range b.UnitIDs {
		units[i] = string(id)
	}
	return BookingSummary{
		ID:              string(b.ID),
		ListingID:       string(b.ListingID),
		GuestID:         b.GuestID,
		Start:           b.Range.Start,
		End:             b.Range.End,
		Guests:          b.Guests,
		UnitIDs:         units,
		Status:          string(b.Status),
		DiscountPercent: b.DiscountPercent,
		BaseCost:        MapMoney(b.BaseCost),
		Balance:         MapMoney(b.Statement().Balance),
		CreatedAt:       b.CreatedAt,
	}
}

func MapBookingDetail(b *domainbooking.Booking) BookingDetail {
	bills := make([]BillDTO, len(b.Bills))
	for i, bill := range b.Bills {
		bills[i] = BillDTO{
			Description: bill.Description,
			Amount:      MapMoney(bill.Amount),
			Actor:       bill.Actor,
			CreatedAt:   bill.CreatedAt,
		}
	}
	payments := make([]PaymentDTO, len(b.Payments))
	for i, payment := range b.Payments {
		payments[i] = PaymentDTO{
			Amount: MapMoney(payment.Amount),
			Method: string(payment.Method),
			Note:   payment.Note,
			Actor:  payment.Actor,
			At:     payment.At,
		}
	}
	audit := make([]AuditEntryDTO, len(b.Audit))
	for i, entry := range b.Audit {
		audit[i] = AuditEntryDTO{Actor: entry.Actor, Action: entry.Action, Message: entry.Message, At: entry.At}
	}
	return BookingDetail{
		BookingSummary: MapBookingSummary(b),
		Statement:      MapStatement(b.Statement()),
		Bills:          bills,
		Payments:       payments,
		Audit:          audit,
	}
}
