// Package aum computes assets-under-management summaries: beginning and
// ending period values, external flows, and market P&L bound together by the
// accounting identity EOP - BOP = NetFlows + MarketPnL.
package aum

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/harborpoint/reporting-backend/internal/domain"
	"github.com/harborpoint/reporting-backend/internal/usecase/valuation"
)

var hundred = decimal.NewFromInt(100)

// Input carries the raw records an AUM calculation consumes. Slices are
// caller-owned and never mutated.
type Input struct {
	Positions    []domain.Position
	Transactions []domain.Transaction
}

// Result is the AUM summary for one account (or one aggregate) over a window.
// MarketPnL is derived, not independently measured, so the accounting
// identity holds by construction; IdentityDifference is reported for caller
// transparency and is only non-zero when a caller feeds inconsistent
// pre-aggregated figures.
type Result struct {
	AccountID          uuid.UUID
	StartDate          time.Time
	EndDate            time.Time
	BeginningValue     decimal.Decimal
	EndingValue        decimal.Decimal
	Contributions      decimal.Decimal
	Withdrawals        decimal.Decimal // always >= 0
	NetFlows           decimal.Decimal
	MarketPnL          decimal.Decimal
	TotalReturnPercent decimal.Decimal // MarketPnL / BOP * 100
	NetReturnPercent   decimal.Decimal // (EOP - BOP) / BOP * 100
	IdentityDifference decimal.Decimal
	IdentityOK         bool
}

// DailyValue is one day of an AUM series.
type DailyValue struct {
	Date   time.Time
	Result *Result
}

// Calculate computes the AUM summary for a single account over [start, end].
func Calculate(accountID uuid.UUID, start, end time.Time, in Input) (*Result, error) {
	if accountID == uuid.Nil {
		return nil, domain.NewInvalidInput("account ID is required")
	}
	if start.IsZero() || end.IsZero() {
		return nil, domain.NewInvalidInput("start and end dates are required")
	}
	if domain.Day(end).Before(domain.Day(start)) {
		return nil, domain.NewInvalidInput("end date %s precedes start date %s", end.Format(time.DateOnly), start.Format(time.DateOnly))
	}

	bop := valuation.ValueAt(accountID, start, in.Positions)
	eop := valuation.ValueAt(accountID, end, in.Positions)
	contributions, withdrawals := valuation.FlowsInWindow(accountID, start, end, in.Transactions)

	return assemble(accountID, start, end, bop, eop, contributions, withdrawals), nil
}

// CalculateMultiple maps Calculate over a list of account IDs.
func CalculateMultiple(accountIDs []uuid.UUID, start, end time.Time, in Input) ([]*Result, error) {
	results := make([]*Result, 0, len(accountIDs))
	for _, id := range accountIDs {
		r, err := Calculate(id, start, end, in)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}

// CalculateAggregate sums BOP/EOP/flows across accounts and recomputes
// returns on the aggregate figures. This is not a weighted average of the
// per-account returns.
func CalculateAggregate(accountIDs []uuid.UUID, start, end time.Time, in Input) (*Result, error) {
	perAccount, err := CalculateMultiple(accountIDs, start, end, in)
	if err != nil {
		return nil, err
	}

	bop, eop := decimal.Zero, decimal.Zero
	contributions, withdrawals := decimal.Zero, decimal.Zero
	for _, r := range perAccount {
		bop = bop.Add(r.BeginningValue)
		eop = eop.Add(r.EndingValue)
		contributions = contributions.Add(r.Contributions)
		withdrawals = withdrawals.Add(r.Withdrawals)
	}

	return assemble(uuid.Nil, start, end, bop, eop, contributions, withdrawals), nil
}

// CalculateDaily re-invokes the single-account calculation once per calendar
// day in [start, end], returning a day-indexed series. Each day's window runs
// from start to that day. Cost grows with days x records; reporting-horizon
// windows keep this acceptable.
func CalculateDaily(accountID uuid.UUID, start, end time.Time, in Input) ([]DailyValue, error) {
	if domain.Day(end).Before(domain.Day(start)) {
		return nil, domain.NewInvalidInput("end date precedes start date")
	}

	var series []DailyValue
	for d := domain.Day(start); !d.After(domain.Day(end)); d = d.AddDate(0, 0, 1) {
		r, err := Calculate(accountID, start, d, in)
		if err != nil {
			return nil, err
		}
		series = append(series, DailyValue{Date: d, Result: r})
	}
	return series, nil
}

// assemble derives the dependent fields from the four measured quantities.
func assemble(accountID uuid.UUID, start, end time.Time, bop, eop, contributions, withdrawals decimal.Decimal) *Result {
	netFlows := contributions.Sub(withdrawals)
	marketPnL := eop.Sub(bop).Sub(netFlows)

	totalReturn := decimal.Zero
	netReturn := decimal.Zero
	if !bop.IsZero() {
		totalReturn = marketPnL.Div(bop).Mul(hundred)
		netReturn = eop.Sub(bop).Div(bop).Mul(hundred)
	}

	identityDiff := eop.Sub(bop).Sub(netFlows.Add(marketPnL))

	return &Result{
		AccountID:          accountID,
		StartDate:          domain.Day(start),
		EndDate:            domain.Day(end),
		BeginningValue:     bop,
		EndingValue:        eop,
		Contributions:      contributions,
		Withdrawals:        withdrawals,
		NetFlows:           netFlows,
		MarketPnL:          marketPnL,
		TotalReturnPercent: totalReturn,
		NetReturnPercent:   netReturn,
		IdentityDifference: identityDiff,
		IdentityOK:         identityDiff.IsZero(),
	}
}
