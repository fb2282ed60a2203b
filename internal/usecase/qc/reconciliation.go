package qc

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/harborpoint/reporting-backend/internal/domain"
)

const checkPositionReconciliation = "position_reconciliation"

var (
	quantityTolerance = decimal.NewFromFloat(0.001)
	costTolerance     = decimal.NewFromFloat(0.01)
	quantityHighLimit = decimal.NewFromInt(1)
	costHighLimit     = decimal.NewFromInt(10)
)

// ReconciliationMismatch is one security whose stored position disagrees
// with the quantity or cost basis derived from its trade history.
type ReconciliationMismatch struct {
	SecurityID       string
	ExpectedQuantity decimal.Decimal
	StoredQuantity   decimal.Decimal
	QuantityDiff     decimal.Decimal
	ExpectedCost     decimal.Decimal
	StoredCost       decimal.Decimal
	CostDiff         decimal.Decimal
	Severity         Severity
}

// ReconciliationData is the diagnostic payload of the reconciliation check.
type ReconciliationData struct {
	SecuritiesChecked int
	Mismatches        []ReconciliationMismatch
}

// ValidatePositionReconciliation replays each security's BUY/SELL history
// into an expected quantity and cost basis, then compares against the latest
// stored position. Sales remove cost proportionally to quantity sold; this
// is an average-cost model, deliberately simpler than lot matching. Quantity
// gaps over one share or cost gaps over $10 are HIGH and fail the check;
// gaps above tolerance (0.001 shares, $0.01) warn.
func ValidatePositionReconciliation(positions []domain.Position, transactions []domain.Transaction, accountID uuid.UUID) CheckResult {
	expected := replayTrades(transactions, accountID)
	stored := latestPositions(positions, accountID)

	securities := make(map[string]bool)
	for sec := range expected {
		securities[sec] = true
	}
	for sec := range stored {
		securities[sec] = true
	}
	ordered := make([]string, 0, len(securities))
	for sec := range securities {
		ordered = append(ordered, sec)
	}
	sort.Strings(ordered)

	data := ReconciliationData{SecuritiesChecked: len(ordered)}
	for _, sec := range ordered {
		exp := expected[sec]
		pos, ok := stored[sec]

		storedQty := decimal.Zero
		storedCost := decimal.Zero
		if ok {
			storedQty = pos.Quantity
			storedCost = pos.Quantity.Mul(pos.AverageCost)
		}

		qtyDiff := exp.quantity.Sub(storedQty).Abs()
		costDiff := exp.cost.Sub(storedCost).Abs()
		if qtyDiff.LessThanOrEqual(quantityTolerance) && costDiff.LessThanOrEqual(costTolerance) {
			continue
		}

		severity := SeverityMedium
		if qtyDiff.GreaterThan(quantityHighLimit) || costDiff.GreaterThan(costHighLimit) {
			severity = SeverityHigh
		}
		data.Mismatches = append(data.Mismatches, ReconciliationMismatch{
			SecurityID:       sec,
			ExpectedQuantity: exp.quantity,
			StoredQuantity:   storedQty,
			QuantityDiff:     qtyDiff,
			ExpectedCost:     exp.cost,
			StoredCost:       storedCost,
			CostDiff:         costDiff,
			Severity:         severity,
		})
	}

	status := StatusPass
	var messages []string
	highs := 0
	for _, m := range data.Mismatches {
		if m.Severity == SeverityHigh {
			highs++
		}
	}
	switch {
	case highs > 0:
		status = StatusFail
		messages = append(messages, fmt.Sprintf("%d securities with material position mismatches", highs))
	case len(data.Mismatches) > 0:
		status = StatusWarn
		messages = append(messages, fmt.Sprintf("%d securities with minor position mismatches", len(data.Mismatches)))
	default:
		messages = append(messages, "positions reconcile with transaction history")
	}

	return CheckResult{
		Check:    checkPositionReconciliation,
		Status:   status,
		Messages: messages,
		Data:     data,
	}
}

type expectedHolding struct {
	quantity decimal.Decimal
	cost     decimal.Decimal
}

// replayTrades folds the account's trades in chronological order into an
// expected quantity and cost basis per security.
func replayTrades(transactions []domain.Transaction, accountID uuid.UUID) map[string]expectedHolding {
	trades := make([]domain.Transaction, 0, len(transactions))
	for _, tx := range transactions {
		if tx.AccountID == accountID && tx.IsTrade() && tx.SecurityID != "" {
			trades = append(trades, tx)
		}
	}
	sort.SliceStable(trades, func(i, j int) bool {
		return domain.Day(trades[i].Date).Before(domain.Day(trades[j].Date))
	})

	expected := make(map[string]expectedHolding)
	for _, tx := range trades {
		h := expected[tx.SecurityID]
		switch {
		case tx.IsBuy():
			h.quantity = h.quantity.Add(tx.Quantity)
			h.cost = h.cost.Add(tx.Quantity.Mul(tx.Price))
		case tx.IsSell():
			if h.quantity.IsPositive() {
				ratio := decimal.Min(tx.Quantity, h.quantity).Div(h.quantity)
				h.cost = h.cost.Sub(h.cost.Mul(ratio))
			}
			h.quantity = decimal.Max(decimal.Zero, h.quantity.Sub(tx.Quantity))
		}
		expected[tx.SecurityID] = h
	}
	return expected
}

// latestPositions keeps the most recent stored position row per security.
func latestPositions(positions []domain.Position, accountID uuid.UUID) map[string]domain.Position {
	latest := make(map[string]domain.Position)
	for _, p := range positions {
		if p.AccountID != accountID {
			continue
		}
		if cur, ok := latest[p.SecurityID]; !ok || domain.Day(p.Date).After(domain.Day(cur.Date)) {
			latest[p.SecurityID] = p
		}
	}
	return latest
}
