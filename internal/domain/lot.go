package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lot is a discrete batch of shares acquired in one purchase, tracked
// separately for cost-basis and holding-period purposes. A lot is created by
// a BUY transaction and its RemainingQuantity only ever decreases as sales
// are matched against it; it is never re-created once opened.
type Lot struct {
	SecurityID        string
	PurchaseDate      time.Time
	OriginalQuantity  decimal.Decimal
	RemainingQuantity decimal.Decimal
	PurchasePrice     decimal.Decimal // per-unit
	TotalCost         decimal.Decimal // OriginalQuantity * PurchasePrice
}

// IsOpen reports whether the lot still has unsold shares.
func (l *Lot) IsOpen() bool {
	return l.RemainingQuantity.GreaterThan(decimal.Zero)
}

// RemainingCost returns the cost basis of the unsold portion of the lot.
func (l *Lot) RemainingCost() decimal.Decimal {
	if l.OriginalQuantity.IsZero() {
		return decimal.Zero
	}
	return l.TotalCost.Mul(l.RemainingQuantity).Div(l.OriginalQuantity)
}
