package qc

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/harborpoint/reporting-backend/internal/usecase/aum"
)

const checkAUMIdentity = "aum_identity"

// warnMultiplier bounds the WARN zone above the tolerance for sub-unit
// tolerances.
var warnMultiplier = decimal.NewFromInt(1000)

// AUMIdentityData is the diagnostic payload of the AUM identity check.
type AUMIdentityData struct {
	BeginningValue decimal.Decimal
	EndingValue    decimal.Decimal
	NetFlows       decimal.Decimal
	MarketPnL      decimal.Decimal
	Difference     decimal.Decimal
	Tolerance      decimal.Decimal
}

// CheckAUMIdentity recomputes |EOP - BOP - (netFlows + marketPnL)| and
// grades it against the tolerance. Tolerances below 1.0 get a WARN zone of
// (tolerance, 1000*tolerance]; at 1.0 or above any excess fails outright.
func CheckAUMIdentity(result *aum.Result, tolerance decimal.Decimal) CheckResult {
	diff := result.EndingValue.Sub(result.BeginningValue).
		Sub(result.NetFlows.Add(result.MarketPnL)).
		Abs()

	data := AUMIdentityData{
		BeginningValue: result.BeginningValue,
		EndingValue:    result.EndingValue,
		NetFlows:       result.NetFlows,
		MarketPnL:      result.MarketPnL,
		Difference:     diff,
		Tolerance:      tolerance,
	}

	status := StatusPass
	var messages []string

	switch {
	case diff.LessThanOrEqual(tolerance):
		messages = append(messages, "AUM identity holds")
	case tolerance.LessThan(decimal.NewFromInt(1)) && diff.LessThanOrEqual(tolerance.Mul(warnMultiplier)):
		status = StatusWarn
		messages = append(messages, fmt.Sprintf("AUM identity off by %s, within warning zone", diff))
	default:
		status = StatusFail
		messages = append(messages, fmt.Sprintf("AUM identity violated: difference %s exceeds tolerance %s", diff, tolerance))
	}

	return CheckResult{
		Check:    checkAUMIdentity,
		Status:   status,
		Messages: messages,
		Data:     data,
	}
}
