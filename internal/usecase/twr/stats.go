package twr

import (
	"math"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

// tradingDaysPerYear is the conventional annualization factor for daily
// volatility and Sharpe ratios.
const tradingDaysPerYear = 252

// Stats summarizes the risk profile of a daily return series. Volatility is
// the population standard deviation of daily returns; the Sharpe ratio
// assumes a zero risk-free rate.
type Stats struct {
	MeanDailyReturn      decimal.Decimal
	DailyVolatility      decimal.Decimal
	AnnualizedVolatility decimal.Decimal
	SharpeRatio          decimal.Decimal
	MaxDrawdown          decimal.Decimal // expressed as a positive fraction
	Periods              int
}

// Statistics computes mean, volatility, Sharpe and maximum drawdown for a
// daily return series. Statistical aggregation runs in float64 via gonum and
// converts back to decimal at the boundary.
func Statistics(returns []DailyReturn) *Stats {
	if len(returns) == 0 {
		return &Stats{
			MeanDailyReturn:      decimal.Zero,
			DailyVolatility:      decimal.Zero,
			AnnualizedVolatility: decimal.Zero,
			SharpeRatio:          decimal.Zero,
			MaxDrawdown:          decimal.Zero,
		}
	}

	xs := make([]float64, len(returns))
	for i, r := range returns {
		xs[i] = r.Return.InexactFloat64()
	}

	mean := stat.Mean(xs, nil)
	sigma := stat.PopStdDev(xs, nil)
	annualizedVol := sigma * math.Sqrt(tradingDaysPerYear)

	sharpe := 0.0
	if sigma > 0 {
		sharpe = mean * tradingDaysPerYear / annualizedVol
	}

	return &Stats{
		MeanDailyReturn:      decimal.NewFromFloat(mean),
		DailyVolatility:      decimal.NewFromFloat(sigma),
		AnnualizedVolatility: decimal.NewFromFloat(annualizedVol),
		SharpeRatio:          decimal.NewFromFloat(sharpe),
		MaxDrawdown:          maxDrawdown(xs),
		Periods:              len(returns),
	}
}

// maxDrawdown walks the cumulative compounded value of the series against
// its running peak. This measures the deepest peak-to-trough decline of the
// compounded curve, not a max-to-min on the raw returns.
func maxDrawdown(returns []float64) decimal.Decimal {
	cumulative := 1.0
	peak := 1.0
	worst := 0.0

	for _, r := range returns {
		cumulative *= 1 + r
		if cumulative > peak {
			peak = cumulative
		}
		if peak > 0 {
			if dd := (peak - cumulative) / peak; dd > worst {
				worst = dd
			}
		}
	}
	return decimal.NewFromFloat(worst)
}
