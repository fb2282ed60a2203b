// Package lots tracks tax lots: lot creation from purchases, sale matching
// under FIFO/LIFO/high-cost/low-cost ordering, realized P&L, wash-sale
// disallowance, and tax reporting summaries.
package lots

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/harborpoint/reporting-backend/internal/domain"
)

// Method defines the lot selection order for matching sales to purchases.
type Method int

const (
	// FIFO matches the oldest purchase lots first.
	FIFO Method = iota
	// LIFO matches the newest purchase lots first.
	LIFO
	// HighCost matches the highest purchase price first.
	HighCost
	// LowCost matches the lowest purchase price first.
	LowCost
)

func (m Method) String() string {
	switch m {
	case FIFO:
		return "fifo"
	case LIFO:
		return "lifo"
	case HighCost:
		return "high-cost"
	case LowCost:
		return "low-cost"
	default:
		return "unknown"
	}
}

// ParseMethod parses a string into a lot selection Method.
func ParseMethod(s string) (Method, error) {
	switch s {
	case "fifo":
		return FIFO, nil
	case "lifo":
		return LIFO, nil
	case "high-cost":
		return HighCost, nil
	case "low-cost":
		return LowCost, nil
	default:
		return 0, fmt.Errorf("unknown lot method: %q", s)
	}
}

func (m Method) valid() bool {
	return m >= FIFO && m <= LowCost
}

// Track replays transactions in chronological order, creating a lot per BUY
// and consuming open lots per SELL under the method's ordering. A sale may
// span multiple lots; each match decrements the lot's remaining quantity.
// The returned lots are fresh records owned by the caller; the input is
// never mutated.
func Track(transactions []domain.Transaction, method Method) ([]domain.Lot, error) {
	if !method.valid() {
		return nil, domain.NewInvalidInput("unknown lot method %d", method)
	}

	trades := chronologicalTrades(transactions)
	var allLots []*domain.Lot

	for i := range trades {
		tx := &trades[i]
		switch {
		case tx.IsBuy():
			allLots = append(allLots, newLot(tx))
		case tx.IsSell():
			open := openLots(allLots, tx.SecurityID)
			orderLots(open, method)
			consume(open, tx.Quantity)
		}
	}

	result := make([]domain.Lot, 0, len(allLots))
	for _, l := range allLots {
		result = append(result, *l)
	}
	return result, nil
}

func newLot(tx *domain.Transaction) *domain.Lot {
	return &domain.Lot{
		SecurityID:        tx.SecurityID,
		PurchaseDate:      domain.Day(tx.Date),
		OriginalQuantity:  tx.Quantity,
		RemainingQuantity: tx.Quantity,
		PurchasePrice:     tx.Price,
		TotalCost:         tx.Quantity.Mul(tx.Price),
	}
}

// chronologicalTrades copies the trade transactions sorted by date so the
// caller's slice order is preserved.
func chronologicalTrades(transactions []domain.Transaction) []domain.Transaction {
	trades := make([]domain.Transaction, 0, len(transactions))
	for _, tx := range transactions {
		if tx.IsTrade() {
			trades = append(trades, tx)
		}
	}
	sort.SliceStable(trades, func(i, j int) bool {
		return domain.Day(trades[i].Date).Before(domain.Day(trades[j].Date))
	})
	return trades
}

func openLots(all []*domain.Lot, securityID string) []*domain.Lot {
	var open []*domain.Lot
	for _, l := range all {
		if l.SecurityID == securityID && l.IsOpen() {
			open = append(open, l)
		}
	}
	return open
}

// orderLots sorts open lots into the method's consumption order.
func orderLots(open []*domain.Lot, method Method) {
	sort.SliceStable(open, func(i, j int) bool {
		a, b := open[i], open[j]
		switch method {
		case LIFO:
			return a.PurchaseDate.After(b.PurchaseDate)
		case HighCost:
			return a.PurchasePrice.GreaterThan(b.PurchasePrice)
		case LowCost:
			return a.PurchasePrice.LessThan(b.PurchasePrice)
		default: // FIFO
			return a.PurchaseDate.Before(b.PurchaseDate)
		}
	})
}

// consume greedily decrements remaining quantities until the sale quantity
// is exhausted. Oversells simply exhaust the available lots; the engine does
// not fail on suspicious data.
func consume(open []*domain.Lot, quantity decimal.Decimal) {
	remaining := quantity
	for _, l := range open {
		if remaining.LessThanOrEqual(decimal.Zero) {
			return
		}
		matched := decimal.Min(remaining, l.RemainingQuantity)
		l.RemainingQuantity = l.RemainingQuantity.Sub(matched)
		remaining = remaining.Sub(matched)
	}
}
