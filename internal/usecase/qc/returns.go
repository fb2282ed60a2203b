package qc

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/harborpoint/reporting-backend/internal/domain"
	"github.com/harborpoint/reporting-backend/internal/usecase/twr"
)

const checkReturnValidation = "return_validation"

var hundredPercent = decimal.NewFromInt(1)

// ReturnBounds configures the plausible daily return range.
type ReturnBounds struct {
	MaxDailyReturn decimal.Decimal
	MinDailyReturn decimal.Decimal
}

// DefaultReturnBounds flags daily moves beyond +/-50%.
func DefaultReturnBounds() ReturnBounds {
	return ReturnBounds{
		MaxDailyReturn: decimal.NewFromFloat(0.50),
		MinDailyReturn: decimal.NewFromFloat(-0.50),
	}
}

// ReturnFinding is one suspicious return observation.
type ReturnFinding struct {
	Date     time.Time
	Return   decimal.Decimal
	Reason   string
	Severity Severity
}

// ReturnValidationData is the diagnostic payload of the return sanity check.
type ReturnValidationData struct {
	ReturnsChecked int
	Findings       []ReturnFinding
}

// ValidateReturns flags returns outside the configured bounds and any
// non-monotonic or duplicate dates in the series. Out-of-bounds moves are
// MEDIUM unless they exceed +/-100%, which is HIGH, as are ordering
// violations. Any HIGH fails the check.
func ValidateReturns(returns []twr.DailyReturn, bounds ReturnBounds) CheckResult {
	data := ReturnValidationData{ReturnsChecked: len(returns)}

	for i, r := range returns {
		if r.Return.GreaterThan(bounds.MaxDailyReturn) || r.Return.LessThan(bounds.MinDailyReturn) {
			severity := SeverityMedium
			if r.Return.Abs().GreaterThan(hundredPercent) {
				severity = SeverityHigh
			}
			data.Findings = append(data.Findings, ReturnFinding{
				Date:     r.Date,
				Return:   r.Return,
				Reason:   fmt.Sprintf("daily return %s outside bounds [%s, %s]", r.Return, bounds.MinDailyReturn, bounds.MaxDailyReturn),
				Severity: severity,
			})
		}

		if i == 0 {
			continue
		}
		prev := domain.Day(returns[i-1].Date)
		cur := domain.Day(r.Date)
		switch {
		case cur.Equal(prev):
			data.Findings = append(data.Findings, ReturnFinding{
				Date:     r.Date,
				Return:   r.Return,
				Reason:   "duplicate return date",
				Severity: SeverityHigh,
			})
		case cur.Before(prev):
			data.Findings = append(data.Findings, ReturnFinding{
				Date:     r.Date,
				Return:   r.Return,
				Reason:   "return dates out of order",
				Severity: SeverityHigh,
			})
		}
	}

	status := StatusPass
	var messages []string
	highs, mediums := 0, 0
	for _, f := range data.Findings {
		if f.Severity == SeverityHigh {
			highs++
		} else {
			mediums++
		}
	}
	switch {
	case highs > 0:
		status = StatusFail
		messages = append(messages, fmt.Sprintf("%d critical return anomalies", highs))
	case mediums > 0:
		status = StatusWarn
	}
	if mediums > 0 {
		messages = append(messages, fmt.Sprintf("%d returns outside plausible bounds", mediums))
	}
	if len(data.Findings) == 0 {
		messages = append(messages, "return series is sane")
	}

	return CheckResult{
		Check:    checkReturnValidation,
		Status:   status,
		Messages: messages,
		Data:     data,
	}
}
