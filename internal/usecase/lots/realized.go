package lots

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/harborpoint/reporting-backend/internal/domain"
)

// longTermThresholdDays is the holding period at which a gain or loss
// becomes long-term.
const longTermThresholdDays = 365

// ProfitFactorInfinite is the sentinel reported when there are gains and no
// losses; downstream formatters key off the literal string.
const ProfitFactorInfinite = "Infinity"

// Realized is one lot assignment of a sale: the portion of a single sale
// matched against a single purchase lot. One sale can produce several rows.
type Realized struct {
	SecurityID    string
	PurchaseDate  time.Time
	SaleDate      time.Time
	Quantity      decimal.Decimal
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
	Proceeds      decimal.Decimal
	Cost          decimal.Decimal
	GainLoss      decimal.Decimal
	HoldingPeriod int // calendar days, inclusive ceiling
	IsLongTerm    bool
}

// RealizedSummary aggregates realized rows for reporting.
type RealizedSummary struct {
	ShortTermGainLoss decimal.Decimal
	LongTermGainLoss  decimal.Decimal
	TotalGainLoss     decimal.Decimal
	TotalGains        decimal.Decimal
	TotalLosses       decimal.Decimal // positive magnitude
	GainsCount        int
	LossesCount       int
	WinRatePercent    decimal.Decimal
	AverageGain       decimal.Decimal
	AverageLoss       decimal.Decimal
	ProfitFactor      string // gains/losses; "Infinity" when losses are zero and gains exist
}

// RealizedResult carries the per-assignment rows and their summary.
type RealizedResult struct {
	Method  Method
	Rows    []Realized
	Summary RealizedSummary
}

// RealizedPnL re-derives lots from BUY transactions only, then replays SELL
// transactions chronologically, producing one realized row per lot
// assignment.
func RealizedPnL(transactions []domain.Transaction, method Method) (*RealizedResult, error) {
	if !method.valid() {
		return nil, domain.NewInvalidInput("unknown lot method %d", method)
	}

	trades := chronologicalTrades(transactions)

	var allLots []*domain.Lot
	var rows []Realized

	for i := range trades {
		tx := &trades[i]
		switch {
		case tx.IsBuy():
			allLots = append(allLots, newLot(tx))
		case tx.IsSell():
			open := openLots(allLots, tx.SecurityID)
			orderLots(open, method)
			rows = append(rows, assign(open, tx)...)
		}
	}

	return &RealizedResult{
		Method:  method,
		Rows:    rows,
		Summary: summarize(rows),
	}, nil
}

// assign matches one sale against ordered open lots, producing a realized
// row per consumed lot portion.
func assign(open []*domain.Lot, sale *domain.Transaction) []Realized {
	var rows []Realized
	remaining := sale.Quantity

	for _, l := range open {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		matched := decimal.Min(remaining, l.RemainingQuantity)
		l.RemainingQuantity = l.RemainingQuantity.Sub(matched)
		remaining = remaining.Sub(matched)

		proceeds := matched.Mul(sale.Price)
		cost := matched.Mul(l.PurchasePrice)
		holding := holdingPeriodDays(l.PurchaseDate, sale.Date)

		rows = append(rows, Realized{
			SecurityID:    sale.SecurityID,
			PurchaseDate:  l.PurchaseDate,
			SaleDate:      domain.Day(sale.Date),
			Quantity:      matched,
			PurchasePrice: l.PurchasePrice,
			SalePrice:     sale.Price,
			Proceeds:      proceeds,
			Cost:          cost,
			GainLoss:      proceeds.Sub(cost),
			HoldingPeriod: holding,
			IsLongTerm:    holding >= longTermThresholdDays,
		})
	}
	return rows
}

// holdingPeriodDays is the calendar-day span between purchase and sale,
// rounded up for partial days.
func holdingPeriodDays(purchase, sale time.Time) int {
	hours := sale.Sub(purchase).Hours()
	if hours <= 0 {
		return 0
	}
	return int(math.Ceil(hours / 24))
}

func summarize(rows []Realized) RealizedSummary {
	s := RealizedSummary{
		ShortTermGainLoss: decimal.Zero,
		LongTermGainLoss:  decimal.Zero,
		TotalGainLoss:     decimal.Zero,
		TotalGains:        decimal.Zero,
		TotalLosses:       decimal.Zero,
		WinRatePercent:    decimal.Zero,
		AverageGain:       decimal.Zero,
		AverageLoss:       decimal.Zero,
		ProfitFactor:      "0",
	}

	for _, r := range rows {
		s.TotalGainLoss = s.TotalGainLoss.Add(r.GainLoss)
		if r.IsLongTerm {
			s.LongTermGainLoss = s.LongTermGainLoss.Add(r.GainLoss)
		} else {
			s.ShortTermGainLoss = s.ShortTermGainLoss.Add(r.GainLoss)
		}
		switch {
		case r.GainLoss.IsPositive():
			s.TotalGains = s.TotalGains.Add(r.GainLoss)
			s.GainsCount++
		case r.GainLoss.IsNegative():
			s.TotalLosses = s.TotalLosses.Add(r.GainLoss.Abs())
			s.LossesCount++
		}
	}

	if len(rows) > 0 {
		s.WinRatePercent = decimal.NewFromInt(int64(s.GainsCount)).
			Div(decimal.NewFromInt(int64(len(rows)))).
			Mul(decimal.NewFromInt(100))
	}
	if s.GainsCount > 0 {
		s.AverageGain = s.TotalGains.Div(decimal.NewFromInt(int64(s.GainsCount)))
	}
	if s.LossesCount > 0 {
		s.AverageLoss = s.TotalLosses.Div(decimal.NewFromInt(int64(s.LossesCount)))
	}

	switch {
	case s.TotalLosses.IsZero() && s.TotalGains.IsPositive():
		s.ProfitFactor = ProfitFactorInfinite
	case s.TotalLosses.IsPositive():
		s.ProfitFactor = s.TotalGains.Div(s.TotalLosses).String()
	}

	return s
}
