// Package fees computes management fee accruals, high-water-mark performance
// fees, marginal tiered schedules, and multi-account fee aggregation.
package fees

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/harborpoint/reporting-backend/internal/domain"
	"github.com/harborpoint/reporting-backend/internal/usecase/valuation"
)

var (
	two         = decimal.NewFromInt(2)
	daysPerYear = decimal.NewFromInt(365)
)

// AccrualInput carries the records a fee accrual consumes. Adjustments are
// signed flat amounts keyed by calendar day (YYYY-MM-DD) for the account.
type AccrualInput struct {
	Positions   []domain.Position
	Schedule    domain.FeeSchedule
	Adjustments map[string]decimal.Decimal
}

// DailyFee is one day of a management fee accrual.
type DailyFee struct {
	Date          time.Time
	AUMForFee     decimal.Decimal
	Fee           decimal.Decimal // aum * annualRate/365 + adjustment
	Adjustment    decimal.Decimal
	CumulativeFee decimal.Decimal
}

// AccrualResult is a management fee accrual over a window.
type AccrualResult struct {
	AccountID           uuid.UUID
	StartDate           time.Time
	EndDate             time.Time
	DailyFees           []DailyFee
	TotalFees           decimal.Decimal
	AverageAUM          decimal.Decimal
	EffectiveAnnualRate decimal.Decimal // back-solved: totalFees/averageAUM * 365/days
	Days                int
}

// Accrue iterates each calendar day in [start, end], values the account per
// the schedule's AUM basis, and accrues annualRate/365 of that value plus
// any manual adjustment for the day.
func Accrue(accountID uuid.UUID, start, end time.Time, in AccrualInput) (*AccrualResult, error) {
	if accountID == uuid.Nil {
		return nil, domain.NewInvalidInput("account ID is required")
	}
	if start.IsZero() || end.IsZero() || domain.Day(end).Before(domain.Day(start)) {
		return nil, domain.NewInvalidInput("invalid date range")
	}
	if err := validateBasis(in.Schedule.Basis); err != nil {
		return nil, err
	}

	cumulative := decimal.Zero
	aumSum := decimal.Zero

	result := &AccrualResult{
		AccountID: accountID,
		StartDate: domain.Day(start),
		EndDate:   domain.Day(end),
	}

	for d := domain.Day(start); !d.After(domain.Day(end)); d = d.AddDate(0, 0, 1) {
		aum := aumForFee(accountID, d, in.Positions, in.Schedule.Basis)
		fee := aum.Mul(in.Schedule.AnnualRate).Div(daysPerYear)

		adjustment := decimal.Zero
		if in.Adjustments != nil {
			if amt, ok := in.Adjustments[d.Format(time.DateOnly)]; ok {
				adjustment = amt
			}
		}
		fee = fee.Add(adjustment)
		cumulative = cumulative.Add(fee)
		aumSum = aumSum.Add(aum)

		result.DailyFees = append(result.DailyFees, DailyFee{
			Date:          d,
			AUMForFee:     aum,
			Fee:           fee,
			Adjustment:    adjustment,
			CumulativeFee: cumulative,
		})
	}

	result.Days = len(result.DailyFees)
	result.TotalFees = cumulative
	if result.Days > 0 {
		result.AverageAUM = aumSum.Div(decimal.NewFromInt(int64(result.Days)))
	} else {
		result.AverageAUM = decimal.Zero
	}
	result.EffectiveAnnualRate = effectiveRate(result.TotalFees, result.AverageAUM, result.Days)
	return result, nil
}

// aumForFee values the account for one fee day. The beginning basis uses the
// prior day's value, the ending basis the day's own value, and the average
// basis the mean of the two. Each is a lookup against the position series,
// not a separate valuation.
func aumForFee(accountID uuid.UUID, day time.Time, positions []domain.Position, basis domain.AUMBasis) decimal.Decimal {
	switch basis {
	case domain.AUMBasisBeginning:
		return valuation.ValueAt(accountID, day.AddDate(0, 0, -1), positions)
	case domain.AUMBasisEnding:
		return valuation.ValueAt(accountID, day, positions)
	default: // average
		begin := valuation.ValueAt(accountID, day.AddDate(0, 0, -1), positions)
		endVal := valuation.ValueAt(accountID, day, positions)
		return begin.Add(endVal).Div(two)
	}
}

func validateBasis(basis domain.AUMBasis) error {
	switch basis {
	case domain.AUMBasisAverage, domain.AUMBasisBeginning, domain.AUMBasisEnding:
		return nil
	case "":
		return domain.NewInvalidInput("fee schedule basis is required")
	default:
		return domain.NewInvalidInput("unknown AUM basis %q", basis)
	}
}

func effectiveRate(totalFees, averageAUM decimal.Decimal, days int) decimal.Decimal {
	if averageAUM.IsZero() || days == 0 {
		return decimal.Zero
	}
	return totalFees.Div(averageAUM).Mul(daysPerYear).Div(decimal.NewFromInt(int64(days)))
}

// MultiAccountResult aggregates accruals across accounts.
type MultiAccountResult struct {
	Accounts            []*AccrualResult
	TotalFees           decimal.Decimal
	TotalAverageAUM     decimal.Decimal
	WeightedAverageRate decimal.Decimal
}

// MultiAccount runs Accrue per account and sums the results. The weighted
// average rate is back-solved from total fees over total average AUM.
func MultiAccount(accountIDs []uuid.UUID, start, end time.Time, inputs map[uuid.UUID]AccrualInput) (*MultiAccountResult, error) {
	result := &MultiAccountResult{
		TotalFees:           decimal.Zero,
		TotalAverageAUM:     decimal.Zero,
		WeightedAverageRate: decimal.Zero,
	}

	days := 0
	for _, id := range accountIDs {
		in, ok := inputs[id]
		if !ok {
			return nil, domain.NewInvalidInput("no accrual input for account %s", id)
		}
		accrual, err := Accrue(id, start, end, in)
		if err != nil {
			return nil, err
		}
		result.Accounts = append(result.Accounts, accrual)
		result.TotalFees = result.TotalFees.Add(accrual.TotalFees)
		result.TotalAverageAUM = result.TotalAverageAUM.Add(accrual.AverageAUM)
		days = accrual.Days
	}

	result.WeightedAverageRate = effectiveRate(result.TotalFees, result.TotalAverageAUM, days)
	return result, nil
}
