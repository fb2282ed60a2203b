package lots

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborpoint/reporting-backend/internal/domain"
)

func TestWashSales_PartialRepurchase(t *testing.T) {
	transactions := []domain.Transaction{
		buy(day(2024, 1, 10), "AAPL", 100, 150),
		sell(day(2024, 3, 1), "AAPL", 100, 140), // -1000 loss
		buy(day(2024, 3, 15), "AAPL", 50, 135),  // repurchase within 30 days
	}

	result, err := RealizedPnL(transactions, FIFO)
	require.NoError(t, err)

	washSales := WashSales(result.Rows, transactions)
	require.Len(t, washSales, 1)

	ws := washSales[0]
	assert.True(t, ws.WashSaleRatio.Equal(decimal.NewFromFloat(0.5)), "got %s", ws.WashSaleRatio)
	assert.True(t, ws.DisallowedLoss.Equal(decimal.NewFromInt(-500)), "got %s", ws.DisallowedLoss)
	assert.True(t, ws.AllowedLoss.Equal(decimal.NewFromInt(-500)))
	assert.True(t, ws.RepurchaseQuantity.Equal(decimal.NewFromInt(50)))
}

func TestWashSales_FullRepurchaseCapsRatio(t *testing.T) {
	transactions := []domain.Transaction{
		buy(day(2024, 1, 10), "AAPL", 100, 150),
		sell(day(2024, 3, 1), "AAPL", 100, 140),
		buy(day(2024, 3, 10), "AAPL", 200, 135), // more than the loss quantity
	}

	result, err := RealizedPnL(transactions, FIFO)
	require.NoError(t, err)

	washSales := WashSales(result.Rows, transactions)
	require.Len(t, washSales, 1)
	assert.True(t, washSales[0].WashSaleRatio.Equal(decimal.NewFromInt(1)))
	assert.True(t, washSales[0].DisallowedLoss.Equal(decimal.NewFromInt(-1000)))
	assert.True(t, washSales[0].AllowedLoss.IsZero())
}

func TestWashSales_RepurchaseBeforeSaleCounts(t *testing.T) {
	transactions := []domain.Transaction{
		buy(day(2024, 1, 10), "AAPL", 100, 150),
		buy(day(2024, 2, 20), "AAPL", 30, 145), // within 30 days before the sale
		sell(day(2024, 3, 1), "AAPL", 100, 140),
	}

	result, err := RealizedPnL(transactions, FIFO)
	require.NoError(t, err)

	// Only the first lot's assignment is a loss at 140 vs 150
	var lossRows []Realized
	for _, r := range result.Rows {
		if r.GainLoss.IsNegative() {
			lossRows = append(lossRows, r)
		}
	}
	require.NotEmpty(t, lossRows)

	washSales := WashSales(lossRows, transactions)
	require.Len(t, washSales, 1)
	assert.True(t, washSales[0].RepurchaseQuantity.Equal(decimal.NewFromInt(30)))
}

func TestWashSales_OutsideWindowIgnored(t *testing.T) {
	transactions := []domain.Transaction{
		buy(day(2024, 1, 10), "AAPL", 100, 150),
		sell(day(2024, 3, 1), "AAPL", 100, 140),
		buy(day(2024, 4, 1), "AAPL", 50, 135), // day 31, outside the window
	}

	result, err := RealizedPnL(transactions, FIFO)
	require.NoError(t, err)
	assert.Empty(t, WashSales(result.Rows, transactions))
}

func TestWashSales_GainsNeverAdjusted(t *testing.T) {
	transactions := []domain.Transaction{
		buy(day(2024, 1, 10), "AAPL", 100, 150),
		sell(day(2024, 3, 1), "AAPL", 100, 160), // gain
		buy(day(2024, 3, 5), "AAPL", 100, 155),
	}

	result, err := RealizedPnL(transactions, FIFO)
	require.NoError(t, err)
	assert.Empty(t, WashSales(result.Rows, transactions))
}

func TestWashSales_DifferentSecurityIgnored(t *testing.T) {
	transactions := []domain.Transaction{
		buy(day(2024, 1, 10), "AAPL", 100, 150),
		sell(day(2024, 3, 1), "AAPL", 100, 140),
		buy(day(2024, 3, 5), "MSFT", 100, 300),
	}

	result, err := RealizedPnL(transactions, FIFO)
	require.NoError(t, err)
	assert.Empty(t, WashSales(result.Rows, transactions))
}

func TestGenerateTaxSummary_AdjustsShortTermOnly(t *testing.T) {
	transactions := []domain.Transaction{
		buy(day(2022, 1, 10), "MSFT", 10, 100),
		sell(day(2024, 1, 10), "MSFT", 10, 150), // +500 long-term
		buy(day(2024, 1, 10), "AAPL", 100, 150),
		sell(day(2024, 3, 1), "AAPL", 100, 140), // -1000 short-term loss
		buy(day(2024, 3, 15), "AAPL", 50, 135),  // 50% wash sale
	}

	result, err := RealizedPnL(transactions, FIFO)
	require.NoError(t, err)
	washSales := WashSales(result.Rows, transactions)
	require.Len(t, washSales, 1)

	summary := GenerateTaxSummary(result, washSales)
	assert.True(t, summary.ShortTermGainLoss.Equal(decimal.NewFromInt(-1000)))
	assert.True(t, summary.LongTermGainLoss.Equal(decimal.NewFromInt(500)))
	assert.True(t, summary.TotalDisallowedLoss.Equal(decimal.NewFromInt(-500)))
	// Disallowing half the loss moves short-term from -1000 to -500
	assert.True(t, summary.AdjustedShortTermGainLoss.Equal(decimal.NewFromInt(-500)), "got %s", summary.AdjustedShortTermGainLoss)
	assert.True(t, summary.AdjustedTotalGainLoss.IsZero())
	assert.Equal(t, 1, summary.WashSaleCount)
}

func TestGenerateTaxSummary_NoWashSales(t *testing.T) {
	transactions := []domain.Transaction{
		buy(day(2024, 1, 10), "AAPL", 100, 150),
		sell(day(2024, 3, 1), "AAPL", 100, 140),
	}

	result, err := RealizedPnL(transactions, FIFO)
	require.NoError(t, err)

	summary := GenerateTaxSummary(result, nil)
	assert.True(t, summary.TotalDisallowedLoss.IsZero())
	assert.True(t, summary.AdjustedShortTermGainLoss.Equal(summary.ShortTermGainLoss))
}
