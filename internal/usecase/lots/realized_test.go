package lots

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborpoint/reporting-backend/internal/domain"
)

func TestRealizedPnL_FIFOAssignsOldestFirst(t *testing.T) {
	transactions := []domain.Transaction{
		buy(day(2024, 1, 10), "AAPL", 100, 150),
		buy(day(2024, 2, 10), "AAPL", 50, 160),
		sell(day(2024, 3, 10), "AAPL", 120, 170),
	}

	result, err := RealizedPnL(transactions, FIFO)
	require.NoError(t, err)
	require.Len(t, result.Rows, 2)

	first := result.Rows[0]
	assert.True(t, first.Quantity.Equal(decimal.NewFromInt(100)))
	assert.True(t, first.GainLoss.Equal(decimal.NewFromInt(2000)), "got %s", first.GainLoss)
	assert.False(t, first.IsLongTerm)

	second := result.Rows[1]
	assert.True(t, second.Quantity.Equal(decimal.NewFromInt(20)))
	assert.True(t, second.GainLoss.Equal(decimal.NewFromInt(200)))

	assert.True(t, result.Summary.TotalGainLoss.Equal(decimal.NewFromInt(2200)))
	assert.True(t, result.Summary.ShortTermGainLoss.Equal(decimal.NewFromInt(2200)))
	assert.True(t, result.Summary.LongTermGainLoss.IsZero())
}

func TestRealizedPnL_LongTermClassification(t *testing.T) {
	transactions := []domain.Transaction{
		buy(day(2023, 1, 10), "AAPL", 100, 150),
		sell(day(2024, 6, 10), "AAPL", 100, 170),
	}

	result, err := RealizedPnL(transactions, FIFO)
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)

	assert.True(t, result.Rows[0].IsLongTerm)
	assert.GreaterOrEqual(t, result.Rows[0].HoldingPeriod, longTermThresholdDays)
	assert.True(t, result.Summary.LongTermGainLoss.Equal(decimal.NewFromInt(2000)))
	assert.True(t, result.Summary.ShortTermGainLoss.IsZero())
}

func TestRealizedPnL_SummaryStatistics(t *testing.T) {
	transactions := []domain.Transaction{
		buy(day(2024, 1, 10), "AAPL", 10, 100),
		sell(day(2024, 2, 10), "AAPL", 10, 130), // +300
		buy(day(2024, 3, 10), "MSFT", 10, 200),
		sell(day(2024, 4, 10), "MSFT", 10, 190), // -100
	}

	result, err := RealizedPnL(transactions, FIFO)
	require.NoError(t, err)

	s := result.Summary
	assert.Equal(t, 1, s.GainsCount)
	assert.Equal(t, 1, s.LossesCount)
	assert.True(t, s.TotalGains.Equal(decimal.NewFromInt(300)))
	assert.True(t, s.TotalLosses.Equal(decimal.NewFromInt(100)))
	assert.True(t, s.WinRatePercent.Equal(decimal.NewFromInt(50)))
	assert.True(t, s.AverageGain.Equal(decimal.NewFromInt(300)))
	assert.True(t, s.AverageLoss.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "3", s.ProfitFactor)
}

func TestRealizedPnL_ProfitFactorInfinity(t *testing.T) {
	transactions := []domain.Transaction{
		buy(day(2024, 1, 10), "AAPL", 10, 100),
		sell(day(2024, 2, 10), "AAPL", 10, 130),
	}

	result, err := RealizedPnL(transactions, FIFO)
	require.NoError(t, err)
	assert.Equal(t, ProfitFactorInfinite, result.Summary.ProfitFactor)
}

func TestRealizedPnL_NoSales(t *testing.T) {
	transactions := []domain.Transaction{
		buy(day(2024, 1, 10), "AAPL", 10, 100),
	}

	result, err := RealizedPnL(transactions, FIFO)
	require.NoError(t, err)
	assert.Empty(t, result.Rows)
	assert.True(t, result.Summary.TotalGainLoss.IsZero())
	assert.Equal(t, "0", result.Summary.ProfitFactor)
}
