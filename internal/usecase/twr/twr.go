// Package twr computes time-weighted returns: flow-neutral daily returns,
// geometric compounding, annualization, fee-adjusted net returns, rolling
// windows, and risk statistics.
package twr

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/harborpoint/reporting-backend/internal/domain"
	"github.com/harborpoint/reporting-backend/internal/usecase/valuation"
)

var (
	one         = decimal.NewFromInt(1)
	negativeOne = decimal.NewFromInt(-1)
	hundred     = decimal.NewFromInt(100)
	daysPerYear = decimal.NewFromInt(365)
)

// Input carries the raw records a daily-return calculation consumes.
type Input struct {
	Positions    []domain.Position
	Transactions []domain.Transaction
}

// DailyReturn is one day of a flow-neutral return series. A Return of
// exactly -1 on a day with no prior position baseline is a sentinel meaning
// "undefined / no prior baseline", not a genuine -100% loss.
type DailyReturn struct {
	Date       time.Time
	BeginValue decimal.Decimal
	EndValue   decimal.Decimal
	Flows      decimal.Decimal
	Return     decimal.Decimal
}

// Options controls compounding behavior.
type Options struct {
	Annualize         bool
	CompoundingPeriod int // days per year; 0 defaults to 365
}

// Result is a compounded time-weighted return. Dates are nil for empty input.
type Result struct {
	TotalReturn             decimal.Decimal
	TotalReturnPercent      decimal.Decimal
	AnnualizedReturn        decimal.Decimal
	AnnualizedReturnPercent decimal.Decimal
	Periods                 int
	StartDate               *time.Time
	EndDate                 *time.Time
}

// RollingReturn is the trailing-window TWR ending on Date.
type RollingReturn struct {
	Date          time.Time
	WindowDays    int
	Return        decimal.Decimal
	ReturnPercent decimal.Decimal
}

// DailyReturns computes flow-neutral daily returns for every calendar day in
// [start, end]. The begin value of each day is the previous day's end value,
// seeded from the latest position at or before start; days without a new
// position row carry the prior value forward. Flows are backed out of the
// ending value so cash movement does not distort the measured return.
func DailyReturns(accountID uuid.UUID, start, end time.Time, in Input) ([]DailyReturn, error) {
	if accountID == uuid.Nil {
		return nil, domain.NewInvalidInput("account ID is required")
	}
	if start.IsZero() || end.IsZero() || domain.Day(end).Before(domain.Day(start)) {
		return nil, domain.NewInvalidInput("invalid date range")
	}

	var returns []DailyReturn
	prevEnd := valuation.ValueAt(accountID, start, in.Positions)

	for d := domain.Day(start); !d.After(domain.Day(end)); d = d.AddDate(0, 0, 1) {
		endValue := valuation.ValueAt(accountID, d, in.Positions)
		flows := valuation.NetFlowsOn(accountID, d, in.Transactions)

		hasBaseline := valuation.HasPositionOnOrBefore(accountID, d.AddDate(0, 0, -1), in.Positions)
		hasValue := valuation.HasPositionOnOrBefore(accountID, d, in.Positions)

		var beginValue, dailyReturn decimal.Decimal
		switch {
		case !hasBaseline && hasValue:
			// All-new account: no prior baseline exists, so the return is
			// undefined. The begin value is reported as the day's own value
			// and the return as the documented -1 sentinel.
			beginValue = endValue
			dailyReturn = negativeOne
		case prevEnd.LessThanOrEqual(decimal.Zero):
			beginValue = prevEnd
			dailyReturn = decimal.Zero
		default:
			beginValue = prevEnd
			dailyReturn = endValue.Sub(flows).Div(beginValue).Sub(one)
		}

		returns = append(returns, DailyReturn{
			Date:       d,
			BeginValue: beginValue,
			EndValue:   endValue,
			Flows:      flows,
			Return:     dailyReturn,
		})
		prevEnd = endValue
	}

	return returns, nil
}

// Compound folds a daily return series into a total (and optionally
// annualized) time-weighted return via the product of (1 + r_i). Empty input
// yields an all-zero result with nil dates.
func Compound(returns []DailyReturn, opts Options) *Result {
	if len(returns) == 0 {
		return &Result{
			TotalReturn:             decimal.Zero,
			TotalReturnPercent:      decimal.Zero,
			AnnualizedReturn:        decimal.Zero,
			AnnualizedReturnPercent: decimal.Zero,
		}
	}

	growth := one
	for _, r := range returns {
		growth = growth.Mul(one.Add(r.Return))
	}
	total := growth.Sub(one)

	result := &Result{
		TotalReturn:             total,
		TotalReturnPercent:      total.Mul(hundred),
		AnnualizedReturn:        decimal.Zero,
		AnnualizedReturnPercent: decimal.Zero,
		Periods:                 len(returns),
	}
	startDate := domain.Day(returns[0].Date)
	endDate := domain.Day(returns[len(returns)-1].Date)
	result.StartDate = &startDate
	result.EndDate = &endDate

	if opts.Annualize && result.Periods > 1 {
		period := opts.CompoundingPeriod
		if period == 0 {
			period = 365
		}
		// Fractional exponent requires float math; the result converts back
		// to decimal immediately.
		annualized := math.Pow(growth.InexactFloat64(), float64(period)/float64(result.Periods)) - 1
		result.AnnualizedReturn = decimal.NewFromFloat(annualized)
		result.AnnualizedReturnPercent = result.AnnualizedReturn.Mul(hundred)
	}

	return result
}

// CompoundWithFees computes the gross TWR from the raw daily returns and a
// net TWR with a constant annualRate/365 drag subtracted from every daily
// return before compounding. The drag is flat; it does not scale with each
// day's AUM the way fee accrual does.
func CompoundWithFees(returns []DailyReturn, annualFeeRate decimal.Decimal, opts Options) (gross, net *Result) {
	gross = Compound(returns, opts)

	dailyDrag := annualFeeRate.Div(daysPerYear)
	netReturns := make([]DailyReturn, len(returns))
	for i, r := range returns {
		adjusted := r
		adjusted.Return = r.Return.Sub(dailyDrag)
		netReturns[i] = adjusted
	}
	net = Compound(netReturns, opts)
	return gross, net
}

// Rolling computes the trailing-window TWR at every position with a full
// window of history. Returns an empty slice when the series is shorter than
// the window.
func Rolling(returns []DailyReturn, windowDays int) []RollingReturn {
	if windowDays <= 0 || len(returns) < windowDays {
		return nil
	}

	rolling := make([]RollingReturn, 0, len(returns)-windowDays+1)
	for i := windowDays - 1; i < len(returns); i++ {
		window := returns[i-windowDays+1 : i+1]
		compounded := Compound(window, Options{})
		rolling = append(rolling, RollingReturn{
			Date:          domain.Day(returns[i].Date),
			WindowDays:    windowDays,
			Return:        compounded.TotalReturn,
			ReturnPercent: compounded.TotalReturnPercent,
		})
	}
	return rolling
}
