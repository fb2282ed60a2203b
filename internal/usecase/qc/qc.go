// Package qc cross-validates engine outputs against raw records: the AUM
// accounting identity, price completeness, benchmark alignment, position
// reconciliation, and return sanity. Checks report PASS/WARN/FAIL instead of
// failing; the calculation engines never pass judgment on suspicious data.
package qc

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/harborpoint/reporting-backend/internal/domain"
	"github.com/harborpoint/reporting-backend/internal/usecase/aum"
	"github.com/harborpoint/reporting-backend/internal/usecase/twr"
)

// Status is a check verdict.
type Status string

const (
	StatusPass Status = "PASS"
	StatusWarn Status = "WARN"
	StatusFail Status = "FAIL"
)

// Severity grades an individual finding within a check.
type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
)

// CheckResult is the immutable output of a single validation rule.
type CheckResult struct {
	Check    string
	Status   Status
	Messages []string
	Data     any
}

// Report is the output of a comprehensive QC run.
type Report struct {
	AccountID     uuid.UUID
	GeneratedAt   time.Time
	OverallStatus Status
	Checks        []CheckResult
}

// Input carries the records and derived results a comprehensive run can
// consume. Checks whose inputs are absent are skipped, not failed.
type Input struct {
	AccountID    uuid.UUID
	StartDate    time.Time
	EndDate      time.Time
	Positions    []domain.Position
	Transactions []domain.Transaction
	Prices       []domain.Price
	AUM          *aum.Result
	AUMTolerance decimal.Decimal
	Returns      []twr.DailyReturn
	Benchmark    []domain.Price
}

// RunComprehensive executes every check whose required inputs are present
// and folds the results into an overall verdict.
func RunComprehensive(in Input) *Report {
	report := &Report{
		AccountID:   in.AccountID,
		GeneratedAt: time.Now().UTC(),
	}

	if in.AUM != nil {
		report.Checks = append(report.Checks, CheckAUMIdentity(in.AUM, in.AUMTolerance))
	}
	if len(in.Positions) > 0 || len(in.Transactions) > 0 {
		report.Checks = append(report.Checks,
			FindMissingPrices(in.StartDate, in.EndDate, in.Positions, in.Transactions, in.Prices))
	}
	if len(in.Returns) > 0 {
		report.Checks = append(report.Checks, ValidateReturns(in.Returns, DefaultReturnBounds()))
		if len(in.Benchmark) > 0 {
			report.Checks = append(report.Checks, ValidateBenchmarkDates(in.Returns, in.Benchmark))
		}
	}
	if len(in.Positions) > 0 && len(in.Transactions) > 0 {
		report.Checks = append(report.Checks,
			ValidatePositionReconciliation(in.Positions, in.Transactions, in.AccountID))
	}

	report.OverallStatus = Fold(report.Checks)
	return report
}

// Fold collapses check results: any FAIL wins, else any WARN, else PASS.
func Fold(checks []CheckResult) Status {
	overall := StatusPass
	for _, c := range checks {
		switch c.Status {
		case StatusFail:
			return StatusFail
		case StatusWarn:
			overall = StatusWarn
		}
	}
	return overall
}
