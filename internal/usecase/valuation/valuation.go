// Package valuation derives point-in-time account values and flow aggregates
// from raw position and transaction records. All functions are pure and never
// mutate their inputs.
package valuation

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/harborpoint/reporting-backend/internal/domain"
)

// LatestPerSecurity selects, per security, the single most recent position
// for the account dated at or before asOf. When duplicate rows exist for a
// security the most recent date wins.
func LatestPerSecurity(accountID uuid.UUID, asOf time.Time, positions []domain.Position) map[string]domain.Position {
	latest := make(map[string]domain.Position)
	for _, p := range positions {
		if p.AccountID != accountID || !domain.OnOrBefore(p.Date, asOf) {
			continue
		}
		current, ok := latest[p.SecurityID]
		if !ok || domain.Day(p.Date).After(domain.Day(current.Date)) {
			latest[p.SecurityID] = p
		}
	}
	return latest
}

// ValueAt returns the total account value at asOf: the sum of market values
// of the most recent position per security at or before that day. Returns
// zero when no positions exist.
func ValueAt(accountID uuid.UUID, asOf time.Time, positions []domain.Position) decimal.Decimal {
	total := decimal.Zero
	for _, p := range LatestPerSecurity(accountID, asOf, positions) {
		total = total.Add(p.MarketValue)
	}
	return total
}

// HasPositionOnOrBefore reports whether the account has any position row
// dated at or before asOf.
func HasPositionOnOrBefore(accountID uuid.UUID, asOf time.Time, positions []domain.Position) bool {
	for _, p := range positions {
		if p.AccountID == accountID && domain.OnOrBefore(p.Date, asOf) {
			return true
		}
	}
	return false
}

// FlowsInWindow aggregates external cash flows for the account within
// [start, end]. Contributions are summed as stored; withdrawal magnitudes
// are summed as positive amounts regardless of stored sign.
func FlowsInWindow(accountID uuid.UUID, start, end time.Time, transactions []domain.Transaction) (contributions, withdrawals decimal.Decimal) {
	contributions = decimal.Zero
	withdrawals = decimal.Zero
	for _, tx := range transactions {
		if tx.AccountID != accountID || !domain.InRange(tx.Date, start, end) {
			continue
		}
		switch {
		case tx.IsContribution():
			contributions = contributions.Add(tx.Amount)
		case tx.IsWithdrawal():
			withdrawals = withdrawals.Add(tx.Amount.Abs())
		}
	}
	return contributions, withdrawals
}

// NetFlowsOn returns the net external flow for a single calendar day:
// contributions minus withdrawal magnitudes.
func NetFlowsOn(accountID uuid.UUID, day time.Time, transactions []domain.Transaction) decimal.Decimal {
	contributions, withdrawals := FlowsInWindow(accountID, day, day, transactions)
	return contributions.Sub(withdrawals)
}
