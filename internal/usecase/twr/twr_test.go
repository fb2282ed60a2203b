package twr

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborpoint/reporting-backend/internal/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func returnsFromFloats(values []float64) []DailyReturn {
	out := make([]DailyReturn, len(values))
	start := day(2024, 1, 1)
	for i, v := range values {
		out[i] = DailyReturn{Date: start.AddDate(0, 0, i), Return: decimal.NewFromFloat(v)}
	}
	return out
}

func TestCompound_KnownSeries(t *testing.T) {
	returns := returnsFromFloats([]float64{0.01, 0.005, 0.02, -0.01, 0.015})

	result := Compound(returns, Options{})

	// (1.01)(1.005)(1.02)(0.99)(1.015) - 1 = 4.0378...%
	assert.InDelta(t, 4.04, result.TotalReturnPercent.InexactFloat64(), 0.1)
	assert.Equal(t, 5, result.Periods)
	require.NotNil(t, result.StartDate)
	require.NotNil(t, result.EndDate)
	assert.Equal(t, day(2024, 1, 1), *result.StartDate)
	assert.Equal(t, day(2024, 1, 5), *result.EndDate)
}

func TestCompound_EmptyInput(t *testing.T) {
	result := Compound(nil, Options{Annualize: true})

	assert.True(t, result.TotalReturn.IsZero())
	assert.True(t, result.AnnualizedReturn.IsZero())
	assert.Equal(t, 0, result.Periods)
	assert.Nil(t, result.StartDate)
	assert.Nil(t, result.EndDate)
}

func TestCompound_AnnualizationRequiresMultiplePeriods(t *testing.T) {
	single := returnsFromFloats([]float64{0.10})
	result := Compound(single, Options{Annualize: true})
	assert.True(t, result.AnnualizedReturn.IsZero())

	// 30 days at ~0.1% daily annualizes well above the raw total
	series := returnsFromFloats(make([]float64, 30))
	for i := range series {
		series[i].Return = decimal.NewFromFloat(0.001)
	}
	result = Compound(series, Options{Annualize: true, CompoundingPeriod: 365})
	assert.Greater(t, result.AnnualizedReturn.InexactFloat64(), result.TotalReturn.InexactFloat64())
}

func TestDailyReturns_FlowNeutral(t *testing.T) {
	accountID := uuid.New()
	in := Input{
		Positions: []domain.Position{
			{AccountID: accountID, SecurityID: "SPY", Date: day(2023, 12, 31), MarketValue: decimal.NewFromInt(10000)},
			{AccountID: accountID, SecurityID: "SPY", Date: day(2024, 1, 1), MarketValue: decimal.NewFromInt(10100)},
			// Jan 2: contribution of 1000 lands the same day the value jumps
			{AccountID: accountID, SecurityID: "SPY", Date: day(2024, 1, 2), MarketValue: decimal.NewFromInt(11201)},
		},
		Transactions: []domain.Transaction{
			{AccountID: accountID, Date: day(2024, 1, 2), Type: domain.TransactionTypeContribution, Amount: decimal.NewFromInt(1000)},
		},
	}

	returns, err := DailyReturns(accountID, day(2024, 1, 1), day(2024, 1, 2), in)
	require.NoError(t, err)
	require.Len(t, returns, 2)

	// Jan 1: begin = seeded 10100 (latest at/before start), end = 10100, r = 0
	assert.True(t, returns[0].Return.IsZero(), "got %s", returns[0].Return)

	// Jan 2: (11201 - 1000) / 10100 - 1 = 0.01, the flow is backed out
	assert.InDelta(t, 0.01, returns[1].Return.InexactFloat64(), 1e-9)
	assert.True(t, returns[1].Flows.Equal(decimal.NewFromInt(1000)))
}

func TestDailyReturns_CarriesValueForward(t *testing.T) {
	accountID := uuid.New()
	in := Input{
		Positions: []domain.Position{
			{AccountID: accountID, SecurityID: "SPY", Date: day(2024, 1, 1), MarketValue: decimal.NewFromInt(5000)},
		},
	}

	returns, err := DailyReturns(accountID, day(2024, 1, 1), day(2024, 1, 3), in)
	require.NoError(t, err)
	require.Len(t, returns, 3)

	// No new rows on Jan 2-3: value carries forward, returns are zero
	assert.True(t, returns[1].EndValue.Equal(decimal.NewFromInt(5000)))
	assert.True(t, returns[1].Return.IsZero())
	assert.True(t, returns[2].Return.IsZero())
}

func TestDailyReturns_NoBaselineSentinel(t *testing.T) {
	accountID := uuid.New()
	in := Input{
		Positions: []domain.Position{
			// First position appears mid-window with nothing before it
			{AccountID: accountID, SecurityID: "SPY", Date: day(2024, 1, 3), MarketValue: decimal.NewFromInt(20000)},
		},
	}

	returns, err := DailyReturns(accountID, day(2024, 1, 1), day(2024, 1, 4), in)
	require.NoError(t, err)
	require.Len(t, returns, 4)

	// Days before any position: zeros
	assert.True(t, returns[0].Return.IsZero())
	assert.True(t, returns[1].Return.IsZero())

	// First day with a value but no prior baseline: begin reported as the
	// day's own value and the -1 sentinel return
	assert.True(t, returns[2].BeginValue.Equal(decimal.NewFromInt(20000)))
	assert.True(t, returns[2].Return.Equal(decimal.NewFromInt(-1)))

	// The following day has a baseline again
	assert.True(t, returns[3].Return.IsZero())
}

func TestCompoundWithFees_FlatDailyDrag(t *testing.T) {
	returns := returnsFromFloats([]float64{0.001, 0.001, 0.001, 0.001, 0.001})

	gross, net := CompoundWithFees(returns, decimal.NewFromFloat(0.01), Options{})

	assert.Greater(t, gross.TotalReturn.InexactFloat64(), net.TotalReturn.InexactFloat64())
	// Drag is annualRate/365 per day regardless of AUM
	expectedDailyDrag := 0.01 / 365
	diff := gross.TotalReturn.InexactFloat64() - net.TotalReturn.InexactFloat64()
	assert.InDelta(t, expectedDailyDrag*5, diff, 2e-6)
}

func TestRolling_InsufficientHistory(t *testing.T) {
	returns := returnsFromFloats([]float64{0.01, 0.02})
	assert.Empty(t, Rolling(returns, 5))
}

func TestRolling_TrailingWindows(t *testing.T) {
	returns := returnsFromFloats([]float64{0.01, 0.02, -0.01, 0.005})

	rolling := Rolling(returns, 3)
	require.Len(t, rolling, 2)

	assert.Equal(t, day(2024, 1, 3), rolling[0].Date)
	// (1.01)(1.02)(0.99) - 1
	assert.InDelta(t, 0.0199, rolling[0].Return.InexactFloat64(), 1e-3)
	assert.Equal(t, day(2024, 1, 4), rolling[1].Date)
}

func TestStatistics_EmptyInput(t *testing.T) {
	stats := Statistics(nil)
	assert.True(t, stats.MeanDailyReturn.IsZero())
	assert.True(t, stats.SharpeRatio.IsZero())
	assert.True(t, stats.MaxDrawdown.IsZero())
}

func TestStatistics_ZeroVolatilityYieldsZeroSharpe(t *testing.T) {
	returns := returnsFromFloats([]float64{0.01, 0.01, 0.01})
	stats := Statistics(returns)
	assert.True(t, stats.DailyVolatility.IsZero())
	assert.True(t, stats.SharpeRatio.IsZero())
}

func TestStatistics_Drawdown(t *testing.T) {
	// Up 10%, down 20%, up 5%: worst drawdown is 20% off the peak
	returns := returnsFromFloats([]float64{0.10, -0.20, 0.05})
	stats := Statistics(returns)
	assert.InDelta(t, 0.20, stats.MaxDrawdown.InexactFloat64(), 1e-9)

	assert.Greater(t, stats.AnnualizedVolatility.InexactFloat64(), stats.DailyVolatility.InexactFloat64())
	assert.Equal(t, 3, stats.Periods)
}
