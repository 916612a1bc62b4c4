package ledger

import (
	"github.com/quantum-brackets/45group-sub001/internal/domain/shared/money"
)

// Statement aggregates a booking's financial records into a displayable and
// enforceable balance. The discount is modeled as a credit against the bill,
// not a reduction of it, so the full charge stays visible on statements.
type Statement struct {
	BaseCost        money.Money
	DiscountAmount  money.Money
	AddedBillsTotal money.Money
	TotalBill       money.Money
	TotalCredited   money.Money
	Balance         money.Money
}

// Owing reports whether any amount remains outstanding.
func (s Statement) Owing() bool {
	return s.Balance.Amount > 0
}

// Reconcile folds base cost, discount, ad-hoc bills and payments into a
// statement. All terms are additive, so ordering of bills and payments does
// not change the result. Amounts are assumed to share the base currency;
// that invariant is enforced where bills and payments are recorded.
func Reconcile(base money.Money, discountPercent int64, bills, payments []money.Money) Statement {
	currency := base.Currency
	add := func(total money.Money, amount money.Money) money.Money {
		sum, err := total.Add(amount)
		if err != nil {
			return total
		}
		return sum
	}

	discount := base.Percent(discountPercent)

	billsTotal := money.Zero(currency)
	for _, bill := range bills {
		billsTotal = add(billsTotal, bill)
	}

	credited := discount
	for _, payment := range payments {
		credited = add(credited, payment)
	}

	totalBill := add(base, billsTotal)
	balance, err := totalBill.Sub(credited)
	if err != nil {
		balance = totalBill
	}

	return Statement{
		BaseCost:        base,
		DiscountAmount:  discount,
		AddedBillsTotal: billsTotal,
		TotalBill:       totalBill,
		TotalCredited:   credited,
		Balance:         balance,
	}
}
