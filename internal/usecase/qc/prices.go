package qc

import (
	"fmt"
	"sort"
	"time"

	"github.com/harborpoint/reporting-backend/internal/domain"
)

const checkMissingPrices = "missing_prices"

// MissingPrice is one security/day pricing gap.
type MissingPrice struct {
	SecurityID string
	Date       time.Time
	Severity   Severity
}

// MissingPricesData is the diagnostic payload of the price completeness check.
type MissingPricesData struct {
	Missing      []MissingPrice
	BusinessDays int
	Securities   int
}

// FindMissingPrices walks every business day in the window and every
// security touched by a position or transaction, flagging days without a
// close price. A gap on a day the security traded is HIGH; a gap on a day
// with only a position row is MEDIUM; otherwise it is not flagged. Any HIGH
// fails the check, any MEDIUM warns.
func FindMissingPrices(start, end time.Time, positions []domain.Position, transactions []domain.Transaction, prices []domain.Price) CheckResult {
	securities := touchedSecurities(start, end, positions, transactions)

	priced := make(map[string]bool)
	for _, p := range prices {
		priced[dayKey(p.SecurityID, p.Date)] = true
	}
	positionDays := make(map[string]bool)
	for _, p := range positions {
		positionDays[dayKey(p.SecurityID, p.Date)] = true
	}
	transactionDays := make(map[string]bool)
	for _, tx := range transactions {
		if tx.SecurityID != "" {
			transactionDays[dayKey(tx.SecurityID, tx.Date)] = true
		}
	}

	data := MissingPricesData{Securities: len(securities)}
	for d := domain.Day(start); !d.After(domain.Day(end)); d = d.AddDate(0, 0, 1) {
		if !domain.IsBusinessDay(d) {
			continue
		}
		data.BusinessDays++
		for _, sec := range securities {
			key := dayKey(sec, d)
			if priced[key] {
				continue
			}
			switch {
			case transactionDays[key]:
				data.Missing = append(data.Missing, MissingPrice{SecurityID: sec, Date: d, Severity: SeverityHigh})
			case positionDays[key]:
				data.Missing = append(data.Missing, MissingPrice{SecurityID: sec, Date: d, Severity: SeverityMedium})
			}
		}
	}

	status := StatusPass
	var messages []string
	highs, mediums := 0, 0
	for _, m := range data.Missing {
		if m.Severity == SeverityHigh {
			highs++
		} else {
			mediums++
		}
	}
	switch {
	case highs > 0:
		status = StatusFail
		messages = append(messages, fmt.Sprintf("%d missing prices on transaction days", highs))
	case mediums > 0:
		status = StatusWarn
	}
	if mediums > 0 {
		messages = append(messages, fmt.Sprintf("%d missing prices on position days", mediums))
	}
	if len(data.Missing) == 0 {
		messages = append(messages, "all required prices present")
	}

	return CheckResult{
		Check:    checkMissingPrices,
		Status:   status,
		Messages: messages,
		Data:     data,
	}
}

// touchedSecurities collects the distinct securities referenced by a
// position or transaction inside the window, sorted for stable output.
func touchedSecurities(start, end time.Time, positions []domain.Position, transactions []domain.Transaction) []string {
	seen := make(map[string]bool)
	for _, p := range positions {
		if domain.InRange(p.Date, start, end) {
			seen[p.SecurityID] = true
		}
	}
	for _, tx := range transactions {
		if tx.SecurityID != "" && domain.InRange(tx.Date, start, end) {
			seen[tx.SecurityID] = true
		}
	}

	securities := make([]string, 0, len(seen))
	for sec := range seen {
		securities = append(securities, sec)
	}
	sort.Strings(securities)
	return securities
}

func dayKey(securityID string, t time.Time) string {
	return securityID + "|" + domain.Day(t).Format(time.DateOnly)
}
