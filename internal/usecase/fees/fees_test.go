package fees

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

func flatPositions(accountID uuid.UUID, value int64) []domain.Position {
	return []domain.Position{
		{AccountID: accountID, SecurityID: "SPY", Date: day(2023, 12, 1), MarketValue: decimal.NewFromInt(value)},
	}
}

func TestAccrue_DailyManagementFee(t *testing.T) {
	accountID := uuid.New()
	in := AccrualInput{
		Positions: flatPositions(accountID, 1000000),
		Schedule: domain.FeeSchedule{
			AccountID:  accountID,
			AnnualRate: decimal.NewFromFloat(0.01),
			Basis:      domain.AUMBasisEnding,
		},
	}

	result, err := Accrue(accountID, day(2024, 1, 1), day(2024, 1, 10), in)
	require.NoError(t, err)
	require.Len(t, result.DailyFees, 10)

	// Each day: 1,000,000 * 0.01/365
	expectedDaily := decimal.NewFromInt(1000000).Mul(decimal.NewFromFloat(0.01)).Div(decimal.NewFromInt(365))
	assert.True(t, result.DailyFees[0].Fee.Equal(expectedDaily), "got %s want %s", result.DailyFees[0].Fee, expectedDaily)

	// Cumulative fee carries across days
	assert.True(t, result.DailyFees[9].CumulativeFee.Equal(expectedDaily.Mul(decimal.NewFromInt(10))))
	assert.True(t, result.TotalFees.Equal(result.DailyFees[9].CumulativeFee))

	// Flat AUM: average equals the constant value, effective rate ~1%
	assert.True(t, result.AverageAUM.Equal(decimal.NewFromInt(1000000)))
	assert.InDelta(t, 0.01, result.EffectiveAnnualRate.InexactFloat64(), 1e-9)
}

func TestAccrue_ManualAdjustment(t *testing.T) {
	accountID := uuid.New()
	in := AccrualInput{
		Positions: flatPositions(accountID, 365000),
		Schedule: domain.FeeSchedule{
			AccountID:  accountID,
			AnnualRate: decimal.NewFromFloat(0.01),
			Basis:      domain.AUMBasisEnding,
		},
		Adjustments: map[string]decimal.Decimal{
			"2024-01-02": decimal.NewFromInt(-5),
		},
	}

	result, err := Accrue(accountID, day(2024, 1, 1), day(2024, 1, 3), in)
	require.NoError(t, err)

	// Base daily fee: 365000 * 0.01/365 = 10
	assert.True(t, result.DailyFees[0].Fee.Equal(decimal.NewFromInt(10)), "got %s", result.DailyFees[0].Fee)
	assert.True(t, result.DailyFees[1].Fee.Equal(decimal.NewFromInt(5)), "got %s", result.DailyFees[1].Fee)
	assert.True(t, result.DailyFees[1].Adjustment.Equal(decimal.NewFromInt(-5)))
	assert.True(t, result.TotalFees.Equal(decimal.NewFromInt(25)))
}

func TestAccrue_AverageBasis(t *testing.T) {
	accountID := uuid.New()
	in := AccrualInput{
		Positions: []domain.Position{
			{AccountID: accountID, SecurityID: "SPY", Date: day(2024, 1, 1), MarketValue: decimal.NewFromInt(1000)},
			{AccountID: accountID, SecurityID: "SPY", Date: day(2024, 1, 2), MarketValue: decimal.NewFromInt(2000)},
		},
		Schedule: domain.FeeSchedule{
			AccountID:  accountID,
			AnnualRate: decimal.NewFromFloat(0.01),
			Basis:      domain.AUMBasisAverage,
		},
	}

	result, err := Accrue(accountID, day(2024, 1, 2), day(2024, 1, 2), in)
	require.NoError(t, err)
	require.Len(t, result.DailyFees, 1)

	// Start-of-day 1000, end-of-day 2000: mean 1500
	assert.True(t, result.DailyFees[0].AUMForFee.Equal(decimal.NewFromInt(1500)), "got %s", result.DailyFees[0].AUMForFee)
}

func TestAccrue_BeginningBasis(t *testing.T) {
	accountID := uuid.New()
	in := AccrualInput{
		Positions: []domain.Position{
			{AccountID: accountID, SecurityID: "SPY", Date: day(2024, 1, 1), MarketValue: decimal.NewFromInt(1000)},
			{AccountID: accountID, SecurityID: "SPY", Date: day(2024, 1, 2), MarketValue: decimal.NewFromInt(2000)},
		},
		Schedule: domain.FeeSchedule{
			AccountID:  accountID,
			AnnualRate: decimal.NewFromFloat(0.01),
			Basis:      domain.AUMBasisBeginning,
		},
	}

	result, err := Accrue(accountID, day(2024, 1, 2), day(2024, 1, 2), in)
	require.NoError(t, err)
	assert.True(t, result.DailyFees[0].AUMForFee.Equal(decimal.NewFromInt(1000)))
}

func TestAccrue_InvalidBasis(t *testing.T) {
	accountID := uuid.New()
	in := AccrualInput{Schedule: domain.FeeSchedule{AccountID: accountID, Basis: "hourly"}}

	_, err := Accrue(accountID, day(2024, 1, 1), day(2024, 1, 2), in)
	assert.True(t, domain.IsInvalidInput(err))
}

func TestMultiAccount_SumsAndBackSolvesRate(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	schedule := func(id uuid.UUID, rate float64) domain.FeeSchedule {
		return domain.FeeSchedule{AccountID: id, AnnualRate: decimal.NewFromFloat(rate), Basis: domain.AUMBasisEnding}
	}
	inputs := map[uuid.UUID]AccrualInput{
		a: {Positions: flatPositions(a, 1000000), Schedule: schedule(a, 0.01)},
		b: {Positions: flatPositions(b, 1000000), Schedule: schedule(b, 0.02)},
	}

	result, err := MultiAccount([]uuid.UUID{a, b}, day(2024, 1, 1), day(2024, 1, 31), inputs)
	require.NoError(t, err)
	require.Len(t, result.Accounts, 2)

	assert.True(t, result.TotalFees.Equal(result.Accounts[0].TotalFees.Add(result.Accounts[1].TotalFees)))
	assert.True(t, result.TotalAverageAUM.Equal(decimal.NewFromInt(2000000)))
	// Equal AUM at 1% and 2%: weighted average 1.5%
	assert.InDelta(t, 0.015, result.WeightedAverageRate.InexactFloat64(), 1e-9)
}

func TestMultiAccount_MissingInput(t *testing.T) {
	_, err := MultiAccount([]uuid.UUID{uuid.New()}, day(2024, 1, 1), day(2024, 1, 2), nil)
	assert.True(t, domain.IsInvalidInput(err))
}
