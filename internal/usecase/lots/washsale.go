package lots

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/harborpoint/reporting-backend/internal/domain"
)

// washSaleWindowDays is the repurchase window on each side of a loss sale.
const washSaleWindowDays = 30

// WashSale is a wash-sale adjustment for one realized loss row.
type WashSale struct {
	SecurityID         string
	SaleDate           time.Time
	LossQuantity       decimal.Decimal
	RepurchaseQuantity decimal.Decimal
	OriginalLoss       decimal.Decimal // negative
	WashSaleRatio      decimal.Decimal // min(lossQty, repurchaseQty) / lossQty
	DisallowedLoss     decimal.Decimal // negative portion of the loss disallowed
	AllowedLoss        decimal.Decimal // remainder
}

// WashSales scans every realized loss for same-security purchases within
// +/-30 calendar days of the sale date. Gains are never adjusted. The
// disallowed portion is proportional to the repurchased quantity, capped at
// the full loss.
func WashSales(realized []Realized, transactions []domain.Transaction) []WashSale {
	var result []WashSale

	for _, row := range realized {
		if !row.GainLoss.IsNegative() {
			continue
		}

		repurchased := repurchasedQuantity(row, transactions)
		if !repurchased.IsPositive() {
			continue
		}

		ratio := decimal.Min(row.Quantity, repurchased).Div(row.Quantity)
		disallowed := row.GainLoss.Mul(ratio)

		result = append(result, WashSale{
			SecurityID:         row.SecurityID,
			SaleDate:           row.SaleDate,
			LossQuantity:       row.Quantity,
			RepurchaseQuantity: repurchased,
			OriginalLoss:       row.GainLoss,
			WashSaleRatio:      ratio,
			DisallowedLoss:     disallowed,
			AllowedLoss:        row.GainLoss.Sub(disallowed),
		})
	}
	return result
}

// repurchasedQuantity sums same-security BUY quantities dated within the
// wash-sale window around the sale, the sale itself excluded.
func repurchasedQuantity(row Realized, transactions []domain.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range transactions {
		if !tx.IsBuy() || tx.SecurityID != row.SecurityID {
			continue
		}
		days := domain.DaysBetween(row.SaleDate, tx.Date)
		if days >= -washSaleWindowDays && days <= washSaleWindowDays {
			total = total.Add(tx.Quantity)
		}
	}
	return total
}

// TaxSummary is the tax reporting rollup of realized P&L with wash-sale
// adjustments applied. The wash-sale reduction lands only in the short-term
// bucket; long-term figures are carried through unadjusted.
type TaxSummary struct {
	ShortTermGainLoss         decimal.Decimal // before adjustment
	LongTermGainLoss          decimal.Decimal
	TotalDisallowedLoss       decimal.Decimal // negative
	AdjustedShortTermGainLoss decimal.Decimal
	AdjustedTotalGainLoss     decimal.Decimal
	WashSaleCount             int
}

// GenerateTaxSummary combines a realized result with wash-sale adjustments.
// Subtracting the (negative) disallowed total raises the reported short-term
// figure, which is the intended sign correction.
func GenerateTaxSummary(realized *RealizedResult, washSales []WashSale) *TaxSummary {
	disallowed := decimal.Zero
	for _, ws := range washSales {
		disallowed = disallowed.Add(ws.DisallowedLoss)
	}

	adjustedShort := realized.Summary.ShortTermGainLoss.Sub(disallowed)
	return &TaxSummary{
		ShortTermGainLoss:         realized.Summary.ShortTermGainLoss,
		LongTermGainLoss:          realized.Summary.LongTermGainLoss,
		TotalDisallowedLoss:       disallowed,
		AdjustedShortTermGainLoss: adjustedShort,
		AdjustedTotalGainLoss:     adjustedShort.Add(realized.Summary.LongTermGainLoss),
		WashSaleCount:             len(washSales),
	}
}
