package holdings

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/harborpoint/reporting-backend/internal/domain"
)

// WeightedHolding pairs a holding with its portfolio weight (0-1 fraction).
type WeightedHolding struct {
	domain.Holding
	Weight decimal.Decimal
}

// WeightReport carries per-holding and per-asset-class weights.
type WeightReport struct {
	Holdings          []WeightedHolding
	AssetClassWeights map[string]decimal.Decimal
	TotalMarketValue  decimal.Decimal
}

// Weights computes each holding's share of total market value. A zero total
// yields zero weights, not NaN. Asset-class weights are sums of holding
// weights grouped by asset class.
func Weights(hs []domain.Holding) *WeightReport {
	total := decimal.Zero
	for _, h := range hs {
		total = total.Add(h.MarketValue)
	}

	report := &WeightReport{
		Holdings:          make([]WeightedHolding, 0, len(hs)),
		AssetClassWeights: make(map[string]decimal.Decimal),
		TotalMarketValue:  total,
	}
	for _, h := range hs {
		weight := decimal.Zero
		if !total.IsZero() {
			weight = h.MarketValue.Div(total)
		}
		report.Holdings = append(report.Holdings, WeightedHolding{Holding: h, Weight: weight})

		class := normalizeAssetClass(h.AssetClass)
		report.AssetClassWeights[class] = report.AssetClassWeights[class].Add(weight)
	}
	return report
}

// PnLSummary aggregates unrealized gains and losses split by sign.
type PnLSummary struct {
	TotalUnrealizedPnL decimal.Decimal
	TotalGains         decimal.Decimal
	TotalLosses        decimal.Decimal // positive magnitude
	GainCount          int
	LossCount          int
	AverageGain        decimal.Decimal
	AverageLoss        decimal.Decimal
}

// UnrealizedPnL summarizes holdings' unrealized P&L. Empty buckets report
// zero averages, never divide-by-zero.
func UnrealizedPnL(hs []domain.Holding) *PnLSummary {
	s := &PnLSummary{
		TotalUnrealizedPnL: decimal.Zero,
		TotalGains:         decimal.Zero,
		TotalLosses:        decimal.Zero,
		AverageGain:        decimal.Zero,
		AverageLoss:        decimal.Zero,
	}
	for _, h := range hs {
		s.TotalUnrealizedPnL = s.TotalUnrealizedPnL.Add(h.UnrealizedPnL)
		switch {
		case h.UnrealizedPnL.IsPositive():
			s.TotalGains = s.TotalGains.Add(h.UnrealizedPnL)
			s.GainCount++
		case h.UnrealizedPnL.IsNegative():
			s.TotalLosses = s.TotalLosses.Add(h.UnrealizedPnL.Abs())
			s.LossCount++
		}
	}
	if s.GainCount > 0 {
		s.AverageGain = s.TotalGains.Div(decimal.NewFromInt(int64(s.GainCount)))
	}
	if s.LossCount > 0 {
		s.AverageLoss = s.TotalLosses.Div(decimal.NewFromInt(int64(s.LossCount)))
	}
	return s
}

// AssetClassGroup is one asset class bucket of the portfolio.
type AssetClassGroup struct {
	AssetClass         string
	Holdings           []domain.Holding
	TotalMarketValue   decimal.Decimal
	AverageHoldingSize decimal.Decimal
}

// GroupByAssetClass buckets holdings by asset class, sorted by total market
// value descending. Unknown or empty classes normalize to "Unknown".
func GroupByAssetClass(hs []domain.Holding) []AssetClassGroup {
	byClass := make(map[string]*AssetClassGroup)
	for _, h := range hs {
		class := normalizeAssetClass(h.AssetClass)
		g, ok := byClass[class]
		if !ok {
			g = &AssetClassGroup{AssetClass: class, TotalMarketValue: decimal.Zero}
			byClass[class] = g
		}
		g.Holdings = append(g.Holdings, h)
		g.TotalMarketValue = g.TotalMarketValue.Add(h.MarketValue)
	}

	groups := make([]AssetClassGroup, 0, len(byClass))
	for _, g := range byClass {
		g.AverageHoldingSize = g.TotalMarketValue.Div(decimal.NewFromInt(int64(len(g.Holdings))))
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool {
		if !groups[i].TotalMarketValue.Equal(groups[j].TotalMarketValue) {
			return groups[i].TotalMarketValue.GreaterThan(groups[j].TotalMarketValue)
		}
		return groups[i].AssetClass < groups[j].AssetClass
	})
	return groups
}

// LargestHolding identifies the single biggest weight in the portfolio.
type LargestHolding struct {
	SecurityID string
	Symbol     string
	Weight     decimal.Decimal
}

// ConcentrationReport summarizes portfolio concentration. The zero-valued
// report (including the LargestHolding key) is returned for empty input so
// downstream formatters always find the same fields.
type ConcentrationReport struct {
	Top5ConcentrationPercent  decimal.Decimal
	Top10ConcentrationPercent decimal.Decimal
	HerfindahlIndex           decimal.Decimal
	EffectiveNumberOfHoldings decimal.Decimal
	LargestHolding            LargestHolding
}

// ConcentrationRisk computes top-N concentration, the Herfindahl index and
// the effective number of holdings from pre-weighted holdings.
func ConcentrationRisk(weighted []WeightedHolding) *ConcentrationReport {
	report := &ConcentrationReport{
		Top5ConcentrationPercent:  decimal.Zero,
		Top10ConcentrationPercent: decimal.Zero,
		HerfindahlIndex:           decimal.Zero,
		EffectiveNumberOfHoldings: decimal.Zero,
		LargestHolding:            LargestHolding{Weight: decimal.Zero},
	}
	if len(weighted) == 0 {
		return report
	}

	sorted := make([]WeightedHolding, len(weighted))
	copy(sorted, weighted)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Weight.GreaterThan(sorted[j].Weight)
	})

	herfindahl := decimal.Zero
	for i, h := range sorted {
		if i < 5 {
			report.Top5ConcentrationPercent = report.Top5ConcentrationPercent.Add(h.Weight)
		}
		if i < 10 {
			report.Top10ConcentrationPercent = report.Top10ConcentrationPercent.Add(h.Weight)
		}
		herfindahl = herfindahl.Add(h.Weight.Mul(h.Weight))
	}
	report.Top5ConcentrationPercent = report.Top5ConcentrationPercent.Mul(hundred)
	report.Top10ConcentrationPercent = report.Top10ConcentrationPercent.Mul(hundred)
	report.HerfindahlIndex = herfindahl
	if !herfindahl.IsZero() {
		report.EffectiveNumberOfHoldings = decimal.NewFromInt(1).Div(herfindahl)
	}

	largest := sorted[0]
	report.LargestHolding = LargestHolding{
		SecurityID: largest.SecurityID,
		Symbol:     largest.Symbol,
		Weight:     largest.Weight,
	}
	return report
}

func normalizeAssetClass(class string) string {
	if class == "" {
		return domain.UnknownAssetClass
	}
	return class
}
