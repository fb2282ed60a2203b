package fees

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborpoint/reporting-backend/internal/domain"
)

func standardTiers() []domain.FeeTier {
	return []domain.FeeTier{
		{Minimum: decimal.Zero, Rate: decimal.NewFromFloat(0.015)},
		{Minimum: decimal.NewFromInt(1000000), Rate: decimal.NewFromFloat(0.01)},
		{Minimum: decimal.NewFromInt(5000000), Rate: decimal.NewFromFloat(0.005)},
	}
}

func TestTiered_MarginalBrackets(t *testing.T) {
	result := Tiered(decimal.NewFromInt(2500000), standardTiers())

	require.Len(t, result.Tiers, 2)
	// First 1M at 1.5%
	assert.True(t, result.Tiers[0].ApplicableAUM.Equal(decimal.NewFromInt(1000000)))
	assert.True(t, result.Tiers[0].Fee.Equal(decimal.NewFromInt(15000)), "got %s", result.Tiers[0].Fee)
	// Next 1.5M at 1.0%
	assert.True(t, result.Tiers[1].ApplicableAUM.Equal(decimal.NewFromInt(1500000)))
	assert.True(t, result.Tiers[1].Fee.Equal(decimal.NewFromInt(15000)))

	assert.True(t, result.TotalFee.Equal(decimal.NewFromInt(30000)))
	// Effective rate 30,000 / 2,500,000 = 1.2%
	assert.True(t, result.EffectiveRate.Equal(decimal.NewFromFloat(0.012)), "got %s", result.EffectiveRate)
}

func TestTiered_SpansAllBrackets(t *testing.T) {
	result := Tiered(decimal.NewFromInt(6000000), standardTiers())

	require.Len(t, result.Tiers, 3)
	// 1M*1.5% + 4M*1.0% + 1M*0.5% = 15000 + 40000 + 5000
	assert.True(t, result.TotalFee.Equal(decimal.NewFromInt(60000)), "got %s", result.TotalFee)
}

func TestTiered_BelowFirstMinimum(t *testing.T) {
	tiers := []domain.FeeTier{
		{Minimum: decimal.NewFromInt(100000), Rate: decimal.NewFromFloat(0.01)},
	}

	result := Tiered(decimal.NewFromInt(50000), tiers)
	assert.Empty(t, result.Tiers)
	assert.True(t, result.TotalFee.IsZero())
	assert.True(t, result.EffectiveRate.IsZero())
}

func TestTiered_UnsortedTiersAreSorted(t *testing.T) {
	tiers := []domain.FeeTier{
		{Minimum: decimal.NewFromInt(1000000), Rate: decimal.NewFromFloat(0.01)},
		{Minimum: decimal.Zero, Rate: decimal.NewFromFloat(0.015)},
	}

	result := Tiered(decimal.NewFromInt(1500000), tiers)
	require.Len(t, result.Tiers, 2)
	// 1M*1.5% + 0.5M*1.0%
	assert.True(t, result.TotalFee.Equal(decimal.NewFromInt(20000)), "got %s", result.TotalFee)
}

func TestTiered_EmptyTiers(t *testing.T) {
	result := Tiered(decimal.NewFromInt(1000000), nil)
	assert.True(t, result.TotalFee.IsZero())
	assert.Empty(t, result.Tiers)
}
