package fees

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/harborpoint/reporting-backend/internal/domain"
)

// TierFee is the fee charged inside one bracket of a tiered schedule.
type TierFee struct {
	Minimum       decimal.Decimal
	Rate          decimal.Decimal
	ApplicableAUM decimal.Decimal
	Fee           decimal.Decimal
}

// TieredResult is a marginal tiered fee computation.
type TieredResult struct {
	AUM           decimal.Decimal
	Tiers         []TierFee
	TotalFee      decimal.Decimal
	EffectiveRate decimal.Decimal
}

// Tiered computes a marginal-bracket tiered fee: each bracket's rate applies
// only to the AUM falling inside that bracket. AUM below the first tier's
// minimum yields a zero fee and an empty tier list.
func Tiered(aum decimal.Decimal, tiers []domain.FeeTier) *TieredResult {
	result := &TieredResult{
		AUM:           aum,
		TotalFee:      decimal.Zero,
		EffectiveRate: decimal.Zero,
	}
	if len(tiers) == 0 || aum.IsNegative() {
		return result
	}

	sorted := make([]domain.FeeTier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Minimum.LessThan(sorted[j].Minimum)
	})

	if aum.LessThanOrEqual(sorted[0].Minimum) && !sorted[0].Minimum.IsZero() {
		return result
	}

	for i, tier := range sorted {
		if aum.LessThanOrEqual(tier.Minimum) {
			break
		}

		upper := aum
		if i+1 < len(sorted) && sorted[i+1].Minimum.LessThan(aum) {
			upper = sorted[i+1].Minimum
		}

		applicable := upper.Sub(tier.Minimum)
		fee := applicable.Mul(tier.Rate)
		result.Tiers = append(result.Tiers, TierFee{
			Minimum:       tier.Minimum,
			Rate:          tier.Rate,
			ApplicableAUM: applicable,
			Fee:           fee,
		})
		result.TotalFee = result.TotalFee.Add(fee)
	}

	if !aum.IsZero() {
		result.EffectiveRate = result.TotalFee.Div(aum)
	}
	return result
}
