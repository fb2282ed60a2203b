package fees

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/harborpoint/reporting-backend/internal/domain"
)

// PerformanceInput configures a performance fee calculation for one period.
type PerformanceInput struct {
	StartValue       decimal.Decimal
	EndValue         decimal.Decimal
	NetFlows         decimal.Decimal
	HighWaterMark    decimal.Decimal
	UseHighWaterMark bool
	Rate             decimal.Decimal // e.g. 0.20 for 20% of outperformance
	Crystallization  domain.CrystallizationPeriod
	PeriodEnd        time.Time
}

// PerformanceResult is a performance fee for one period. Crystallized is
// advisory: it flags whether the period end falls on the schedule's calendar
// boundary, and does not gate the fee amount itself.
type PerformanceResult struct {
	Outperformance   decimal.Decimal
	Fee              decimal.Decimal
	NewHighWaterMark decimal.Decimal
	HurdleValue      decimal.Decimal
	Crystallized     bool
}

// Performance computes a high-water-mark performance fee. Outperformance is
// the ending value over the greater of the starting value and the high-water
// mark (when enabled), net of external flows; only positive outperformance
// is charged.
func Performance(in PerformanceInput) *PerformanceResult {
	hurdle := in.StartValue
	if in.UseHighWaterMark && in.HighWaterMark.GreaterThan(hurdle) {
		hurdle = in.HighWaterMark
	}

	outperformance := in.EndValue.Sub(hurdle).Sub(in.NetFlows)

	fee := decimal.Zero
	if outperformance.IsPositive() {
		fee = outperformance.Mul(in.Rate)
	}

	newHWM := in.EndValue
	if in.UseHighWaterMark && in.HighWaterMark.GreaterThan(in.EndValue) {
		newHWM = in.HighWaterMark
	}

	return &PerformanceResult{
		Outperformance:   outperformance,
		Fee:              fee,
		NewHighWaterMark: newHWM,
		HurdleValue:      hurdle,
		Crystallized:     crystallizes(in.Crystallization, in.PeriodEnd),
	}
}

func crystallizes(period domain.CrystallizationPeriod, end time.Time) bool {
	if end.IsZero() {
		return false
	}
	switch period {
	case domain.CrystallizationAnnual:
		return domain.IsYearEnd(end)
	case domain.CrystallizationQuarterly:
		return domain.IsQuarterEnd(end)
	case domain.CrystallizationMonthly:
		return domain.IsMonthEnd(end)
	default:
		return false
	}
}
