// Package holdings computes point-in-time holdings and derived portfolio
// analytics: weights, unrealized P&L, asset-class grouping, concentration
// risk, and single-period performance attribution.
package holdings

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/harborpoint/reporting-backend/internal/domain"
	"github.com/harborpoint/reporting-backend/internal/usecase/valuation"
)

var hundred = decimal.NewFromInt(100)

// Input carries the raw records a holdings projection consumes.
type Input struct {
	Positions  []domain.Position
	Prices     []domain.Price
	Securities []domain.Security
}

// AsOf projects the account's holdings at a date: per security, the most
// recent position at or before asOf joined with the latest close at or
// before asOf and security reference data. Zero-quantity positions are
// dropped; a missing price resolves to zero market value and missing
// reference data to "Unknown" sentinels, never an error. The result is
// sorted by market value, descending.
func AsOf(accountID uuid.UUID, asOf time.Time, in Input) ([]domain.Holding, error) {
	if accountID == uuid.Nil {
		return nil, domain.NewInvalidInput("account ID is required")
	}
	if asOf.IsZero() {
		return nil, domain.NewInvalidInput("as-of date is required")
	}

	securities := make(map[string]domain.Security, len(in.Securities))
	for _, s := range in.Securities {
		securities[s.ID] = s
	}

	var result []domain.Holding
	for securityID, pos := range valuation.LatestPerSecurity(accountID, asOf, in.Positions) {
		if pos.Quantity.IsZero() {
			continue
		}

		price := latestClose(securityID, asOf, in.Prices)
		marketValue := pos.Quantity.Mul(price)
		bookValue := pos.Quantity.Mul(pos.AverageCost)
		unrealized := marketValue.Sub(bookValue)

		unrealizedPct := decimal.Zero
		if !bookValue.IsZero() {
			unrealizedPct = unrealized.Div(bookValue).Mul(hundred)
		}

		h := domain.Holding{
			AccountID:            accountID,
			SecurityID:           securityID,
			Symbol:               domain.UnknownSymbol,
			Name:                 domain.UnknownSecurityName,
			AssetClass:           domain.UnknownAssetClass,
			AsOfDate:             domain.Day(asOf),
			Quantity:             pos.Quantity,
			Price:                price,
			AverageCost:          pos.AverageCost,
			MarketValue:          marketValue,
			BookValue:            bookValue,
			UnrealizedPnL:        unrealized,
			UnrealizedPnLPercent: unrealizedPct,
		}
		if sec, ok := securities[securityID]; ok {
			h.Symbol = sec.Symbol
			h.Name = sec.Name
			if sec.AssetClass != "" {
				h.AssetClass = sec.AssetClass
			}
		}
		result = append(result, h)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].MarketValue.Equal(result[j].MarketValue) {
			return result[i].MarketValue.GreaterThan(result[j].MarketValue)
		}
		return result[i].SecurityID < result[j].SecurityID
	})
	return result, nil
}

// latestClose returns the most recent close at or before asOf, or zero when
// no price exists.
func latestClose(securityID string, asOf time.Time, prices []domain.Price) decimal.Decimal {
	var best *domain.Price
	for i := range prices {
		p := &prices[i]
		if p.SecurityID != securityID || !domain.OnOrBefore(p.Date, asOf) {
			continue
		}
		if best == nil || domain.Day(p.Date).After(domain.Day(best.Date)) {
			best = p
		}
	}
	if best == nil {
		return decimal.Zero
	}
	return best.Close
}
