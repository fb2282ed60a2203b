package holdings

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weighted(id string, weight float64) WeightedHolding {
	w := WeightedHolding{Weight: decimal.NewFromFloat(weight)}
	w.SecurityID = id
	w.Symbol = id
	return w
}

func TestConcentrationRisk_SingleHolding(t *testing.T) {
	report := ConcentrationRisk([]WeightedHolding{weighted("ONLY", 1.0)})

	assert.True(t, report.HerfindahlIndex.Equal(decimal.NewFromInt(1)))
	assert.True(t, report.EffectiveNumberOfHoldings.Equal(decimal.NewFromInt(1)))
	assert.True(t, report.Top5ConcentrationPercent.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "ONLY", report.LargestHolding.SecurityID)
}

func TestConcentrationRisk_EqualWeights(t *testing.T) {
	var ws []WeightedHolding
	for i := 0; i < 10; i++ {
		ws = append(ws, weighted(string(rune('A'+i)), 0.1))
	}

	report := ConcentrationRisk(ws)

	assert.InDelta(t, 0.1, report.HerfindahlIndex.InexactFloat64(), 1e-9)
	assert.InDelta(t, 10.0, report.EffectiveNumberOfHoldings.InexactFloat64(), 1e-9)
	assert.InDelta(t, 50.0, report.Top5ConcentrationPercent.InexactFloat64(), 1e-9)
	assert.InDelta(t, 100.0, report.Top10ConcentrationPercent.InexactFloat64(), 1e-9)
}

func TestConcentrationRisk_EmptyInput(t *testing.T) {
	report := ConcentrationRisk(nil)

	// Explicit zeroed structure, including the LargestHolding key
	assert.True(t, report.HerfindahlIndex.IsZero())
	assert.True(t, report.EffectiveNumberOfHoldings.IsZero())
	assert.True(t, report.Top5ConcentrationPercent.IsZero())
	assert.Equal(t, "", report.LargestHolding.SecurityID)
	assert.True(t, report.LargestHolding.Weight.IsZero())
}

func TestAttribution_ContributionUsesPreviousWeight(t *testing.T) {
	previous := []SnapshotHolding{
		{SecurityID: "AAPL", Price: decimal.NewFromInt(100), Weight: decimal.NewFromFloat(0.6)},
		{SecurityID: "MSFT", Price: decimal.NewFromInt(200), Weight: decimal.NewFromFloat(0.4)},
	}
	current := []SnapshotHolding{
		{SecurityID: "AAPL", Price: decimal.NewFromInt(110), Weight: decimal.NewFromFloat(0.65)},
		{SecurityID: "MSFT", Price: decimal.NewFromInt(202), Weight: decimal.NewFromFloat(0.35)},
	}

	entries := Attribution(current, previous)
	require.Len(t, entries, 2)

	// AAPL: 10% price return * 0.6 previous weight = 0.06 contribution
	assert.Equal(t, "AAPL", entries[0].SecurityID)
	assert.InDelta(t, 0.10, entries[0].PriceReturn.InexactFloat64(), 1e-9)
	assert.InDelta(t, 0.06, entries[0].Contribution.InexactFloat64(), 1e-9)

	// MSFT: 1% * 0.4 = 0.004, sorted after AAPL by absolute contribution
	assert.Equal(t, "MSFT", entries[1].SecurityID)
	assert.InDelta(t, 0.004, entries[1].Contribution.InexactFloat64(), 1e-9)
}

func TestAttribution_NewAndSoldPositions(t *testing.T) {
	previous := []SnapshotHolding{
		{SecurityID: "SOLD", Price: decimal.NewFromInt(50), Weight: decimal.NewFromFloat(0.5)},
	}
	current := []SnapshotHolding{
		{SecurityID: "NEW", Price: decimal.NewFromInt(75), Weight: decimal.NewFromFloat(1.0)},
	}

	entries := Attribution(current, previous)
	require.Len(t, entries, 2)

	byID := map[string]AttributionEntry{}
	for _, e := range entries {
		byID[e.SecurityID] = e
	}

	// New buy: previous price 0 -> price return 0, contribution 0
	assert.True(t, byID["NEW"].PriceReturn.IsZero())
	assert.True(t, byID["NEW"].Contribution.IsZero())

	// Full sell: current price 0 -> price return -100%, contribution -0.5
	assert.InDelta(t, -1.0, byID["SOLD"].PriceReturn.InexactFloat64(), 1e-9)
	assert.InDelta(t, -0.5, byID["SOLD"].Contribution.InexactFloat64(), 1e-9)
}
