package holdings

import (
	"sort"

	"github.com/shopspring/decimal"
)

// SnapshotHolding is the minimal view of a holding used for attribution:
// its price and its portfolio weight at one point in time.
type SnapshotHolding struct {
	SecurityID string
	Symbol     string
	Price      decimal.Decimal
	Weight     decimal.Decimal // 0-1 fraction
}

// AttributionEntry is a single security's contribution to the period return,
// Brinson-style: previous weight times the security's price return.
type AttributionEntry struct {
	SecurityID          string
	Symbol              string
	PriceReturn         decimal.Decimal
	PreviousWeight      decimal.Decimal
	Contribution        decimal.Decimal
	ContributionPercent decimal.Decimal
}

// Attribution computes single-period performance attribution between two
// holdings snapshots. Securities present in only one snapshot default the
// missing side's price and weight to zero (new buys, full sells); a zero
// previous price yields a zero price return. The result is sorted by
// absolute contribution, descending.
func Attribution(current, previous []SnapshotHolding) []AttributionEntry {
	prevBySecurity := make(map[string]SnapshotHolding, len(previous))
	for _, h := range previous {
		prevBySecurity[h.SecurityID] = h
	}

	seen := make(map[string]bool, len(current)+len(previous))
	var entries []AttributionEntry

	addEntry := func(securityID, symbol string, cur, prev SnapshotHolding) {
		priceReturn := decimal.Zero
		if !prev.Price.IsZero() {
			priceReturn = cur.Price.Div(prev.Price).Sub(decimal.NewFromInt(1))
		}
		contribution := prev.Weight.Mul(priceReturn)
		entries = append(entries, AttributionEntry{
			SecurityID:          securityID,
			Symbol:              symbol,
			PriceReturn:         priceReturn,
			PreviousWeight:      prev.Weight,
			Contribution:        contribution,
			ContributionPercent: contribution.Mul(hundred),
		})
	}

	for _, cur := range current {
		prev := prevBySecurity[cur.SecurityID] // zero value when newly bought
		addEntry(cur.SecurityID, cur.Symbol, cur, prev)
		seen[cur.SecurityID] = true
	}
	for _, prev := range previous {
		if seen[prev.SecurityID] {
			continue
		}
		// Fully sold: current side defaults to zero
		addEntry(prev.SecurityID, prev.Symbol, SnapshotHolding{}, prev)
	}

	sort.Slice(entries, func(i, j int) bool {
		ai, aj := entries[i].Contribution.Abs(), entries[j].Contribution.Abs()
		if !ai.Equal(aj) {
			return ai.GreaterThan(aj)
		}
		return entries[i].SecurityID < entries[j].SecurityID
	})
	return entries
}
