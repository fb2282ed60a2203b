// Package reporting orchestrates the calculation engines over the repository
// interfaces. It is the seam between persistence and the pure engines: it
// fetches account-scoped record windows, hands slices to the engines, and
// assembles their outputs into report objects.
package reporting

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/harborpoint/reporting-backend/internal/domain"
	"github.com/harborpoint/reporting-backend/internal/metrics"
	"github.com/harborpoint/reporting-backend/internal/usecase/aum"
	"github.com/harborpoint/reporting-backend/internal/usecase/fees"
	"github.com/harborpoint/reporting-backend/internal/usecase/holdings"
	"github.com/harborpoint/reporting-backend/internal/usecase/lots"
	"github.com/harborpoint/reporting-backend/internal/usecase/qc"
	"github.com/harborpoint/reporting-backend/internal/usecase/twr"
)

// ReportingService produces performance reports for accounts
type ReportingService struct {
	PositionRepo    domain.PositionRepository
	TransactionRepo domain.TransactionRepository
	PriceRepo       domain.PriceRepository
	SecurityRepo    domain.SecurityRepository
	FeeScheduleRepo domain.FeeScheduleRepository

	// AUMTolerance feeds the QC identity check.
	AUMTolerance decimal.Decimal

	logger zerolog.Logger
}

// NewReportingService creates a new ReportingService instance
func NewReportingService(
	positionRepo domain.PositionRepository,
	transactionRepo domain.TransactionRepository,
	priceRepo domain.PriceRepository,
	securityRepo domain.SecurityRepository,
	feeScheduleRepo domain.FeeScheduleRepository,
	aumTolerance decimal.Decimal,
	logger zerolog.Logger,
) *ReportingService {
	return &ReportingService{
		PositionRepo:    positionRepo,
		TransactionRepo: transactionRepo,
		PriceRepo:       priceRepo,
		SecurityRepo:    securityRepo,
		FeeScheduleRepo: feeScheduleRepo,
		AUMTolerance:    aumTolerance,
		logger:          logger.With().Str("component", "reporting").Logger(),
	}
}

// ReturnsReport bundles the daily series with its compounded summary and
// risk statistics.
type ReturnsReport struct {
	Daily   []twr.DailyReturn
	Summary *twr.Result
	Stats   *twr.Stats
}

// HoldingsReport bundles the holdings snapshot with its derived analytics.
type HoldingsReport struct {
	AsOfDate      time.Time
	Holdings      []domain.Holding
	Weights       *holdings.WeightReport
	PnL           *holdings.PnLSummary
	AssetClasses  []holdings.AssetClassGroup
	Concentration *holdings.ConcentrationReport
}

// TaxLotReport bundles open lots with realized P&L and tax adjustments.
type TaxLotReport struct {
	Method     lots.Method
	OpenLots   []domain.Lot
	Realized   *lots.RealizedResult
	WashSales  []lots.WashSale
	TaxSummary *lots.TaxSummary
}

// PerformanceReport is the full report for one account and window.
type PerformanceReport struct {
	AccountID uuid.UUID
	StartDate time.Time
	EndDate   time.Time
	AUM       *aum.Result
	Returns   *ReturnsReport
	Holdings  *HoldingsReport
	Fees      *fees.AccrualResult
	QC        *qc.Report
}

// AUMReport reconciles beginning and ending value with flows for the window.
func (s *ReportingService) AUMReport(ctx context.Context, accountID uuid.UUID, start, end time.Time) (*aum.Result, error) {
	positions, transactions, err := s.fetchRecords(ctx, accountID, end)
	if err != nil {
		metrics.ReportErrors.WithLabelValues("aum").Inc()
		return nil, err
	}

	defer metrics.ObserveEngine("aum", time.Now())
	result, err := aum.Calculate(accountID, start, end, aum.Input{
		Positions:    positions,
		Transactions: transactions,
	})
	if err != nil {
		metrics.ReportErrors.WithLabelValues("aum").Inc()
		return nil, err
	}

	metrics.ReportsGenerated.WithLabelValues("aum").Inc()
	s.logger.Info().
		Str("account_id", accountID.String()).
		Str("ending_value", result.EndingValue.String()).
		Bool("identity_ok", result.IdentityOK).
		Msg("AUM report generated")
	return result, nil
}

// ReturnsReport computes the daily TWR series, its compounded summary, and
// risk statistics for the window.
func (s *ReportingService) ReturnsReport(ctx context.Context, accountID uuid.UUID, start, end time.Time) (*ReturnsReport, error) {
	positions, transactions, err := s.fetchRecords(ctx, accountID, end)
	if err != nil {
		metrics.ReportErrors.WithLabelValues("returns").Inc()
		return nil, err
	}

	defer metrics.ObserveEngine("twr", time.Now())
	daily, err := twr.DailyReturns(accountID, start, end, twr.Input{
		Positions:    positions,
		Transactions: transactions,
	})
	if err != nil {
		metrics.ReportErrors.WithLabelValues("returns").Inc()
		return nil, err
	}

	report := &ReturnsReport{
		Daily:   daily,
		Summary: twr.Compound(daily, twr.Options{Annualize: true}),
		Stats:   twr.Statistics(daily),
	}

	metrics.ReportsGenerated.WithLabelValues("returns").Inc()
	s.logger.Info().
		Str("account_id", accountID.String()).
		Int("periods", report.Summary.Periods).
		Str("total_return_pct", report.Summary.TotalReturnPercent.String()).
		Msg("returns report generated")
	return report, nil
}

// HoldingsReport snapshots the account's holdings at asOf with weights,
// unrealized P&L, asset class grouping, and concentration analytics.
func (s *ReportingService) HoldingsReport(ctx context.Context, accountID uuid.UUID, asOf time.Time) (*HoldingsReport, error) {
	positions, err := s.PositionRepo.ListByAccount(ctx, accountID, time.Time{}, asOf)
	if err != nil {
		metrics.ReportErrors.WithLabelValues("holdings").Inc()
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}

	securityIDs := distinctSecurities(positions)
	prices, err := s.PriceRepo.ListBySecurities(ctx, securityIDs, time.Time{}, asOf)
	if err != nil {
		metrics.ReportErrors.WithLabelValues("holdings").Inc()
		return nil, fmt.Errorf("failed to list prices: %w", err)
	}
	securities, err := s.SecurityRepo.GetByIDs(ctx, securityIDs)
	if err != nil {
		metrics.ReportErrors.WithLabelValues("holdings").Inc()
		return nil, fmt.Errorf("failed to get securities: %w", err)
	}

	defer metrics.ObserveEngine("holdings", time.Now())
	hs, err := holdings.AsOf(accountID, asOf, holdings.Input{
		Positions:  positions,
		Prices:     prices,
		Securities: securities,
	})
	if err != nil {
		metrics.ReportErrors.WithLabelValues("holdings").Inc()
		return nil, err
	}

	weights := holdings.Weights(hs)
	report := &HoldingsReport{
		AsOfDate:      domain.Day(asOf),
		Holdings:      hs,
		Weights:       weights,
		PnL:           holdings.UnrealizedPnL(hs),
		AssetClasses:  holdings.GroupByAssetClass(hs),
		Concentration: holdings.ConcentrationRisk(weights.Holdings),
	}

	metrics.ReportsGenerated.WithLabelValues("holdings").Inc()
	s.logger.Info().
		Str("account_id", accountID.String()).
		Int("holdings", len(hs)).
		Msg("holdings report generated")
	return report, nil
}

// FeeReport accrues management fees per the account's schedule, applying any
// manual adjustments in the window.
func (s *ReportingService) FeeReport(ctx context.Context, accountID uuid.UUID, start, end time.Time) (*fees.AccrualResult, error) {
	schedule, err := s.FeeScheduleRepo.GetByAccount(ctx, accountID)
	if err != nil {
		metrics.ReportErrors.WithLabelValues("fees").Inc()
		return nil, fmt.Errorf("failed to get fee schedule: %w", err)
	}
	adjustments, err := s.FeeScheduleRepo.ListAdjustments(ctx, accountID, start, end)
	if err != nil {
		metrics.ReportErrors.WithLabelValues("fees").Inc()
		return nil, fmt.Errorf("failed to list fee adjustments: %w", err)
	}
	positions, err := s.PositionRepo.ListByAccount(ctx, accountID, time.Time{}, end)
	if err != nil {
		metrics.ReportErrors.WithLabelValues("fees").Inc()
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}

	adjustmentsByDay := make(map[string]decimal.Decimal, len(adjustments))
	for _, adj := range adjustments {
		adjustmentsByDay[adj.Date] = adjustmentsByDay[adj.Date].Add(adj.Amount)
	}

	defer metrics.ObserveEngine("fees", time.Now())
	result, err := fees.Accrue(accountID, start, end, fees.AccrualInput{
		Positions:   positions,
		Schedule:    *schedule,
		Adjustments: adjustmentsByDay,
	})
	if err != nil {
		metrics.ReportErrors.WithLabelValues("fees").Inc()
		return nil, err
	}

	metrics.ReportsGenerated.WithLabelValues("fees").Inc()
	s.logger.Info().
		Str("account_id", accountID.String()).
		Str("total_fees", result.TotalFees.String()).
		Msg("fee report generated")
	return result, nil
}

// TaxLotReport tracks lots under the given method and derives realized P&L,
// wash sales, and the tax summary from the account's full trade history.
func (s *ReportingService) TaxLotReport(ctx context.Context, accountID uuid.UUID, end time.Time, method lots.Method) (*TaxLotReport, error) {
	transactions, err := s.TransactionRepo.ListByAccount(ctx, accountID, time.Time{}, end)
	if err != nil {
		metrics.ReportErrors.WithLabelValues("lots").Inc()
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	defer metrics.ObserveEngine("lots", time.Now())
	tracked, err := lots.Track(transactions, method)
	if err != nil {
		metrics.ReportErrors.WithLabelValues("lots").Inc()
		return nil, err
	}
	realized, err := lots.RealizedPnL(transactions, method)
	if err != nil {
		metrics.ReportErrors.WithLabelValues("lots").Inc()
		return nil, err
	}

	open := make([]domain.Lot, 0, len(tracked))
	for _, l := range tracked {
		if l.IsOpen() {
			open = append(open, l)
		}
	}

	washSales := lots.WashSales(realized.Rows, transactions)
	report := &TaxLotReport{
		Method:     method,
		OpenLots:   open,
		Realized:   realized,
		WashSales:  washSales,
		TaxSummary: lots.GenerateTaxSummary(realized, washSales),
	}

	metrics.ReportsGenerated.WithLabelValues("lots").Inc()
	s.logger.Info().
		Str("account_id", accountID.String()).
		Str("method", method.String()).
		Int("open_lots", len(open)).
		Int("wash_sales", len(washSales)).
		Msg("tax lot report generated")
	return report, nil
}

// GeneratePerformanceReport runs the full pipeline for one account: AUM,
// returns, holdings, fees, and a comprehensive QC pass over the results.
// A missing fee schedule degrades to a report without a fee section.
func (s *ReportingService) GeneratePerformanceReport(ctx context.Context, accountID uuid.UUID, start, end time.Time) (*PerformanceReport, error) {
	aumResult, err := s.AUMReport(ctx, accountID, start, end)
	if err != nil {
		return nil, err
	}
	returns, err := s.ReturnsReport(ctx, accountID, start, end)
	if err != nil {
		return nil, err
	}
	holdingsReport, err := s.HoldingsReport(ctx, accountID, end)
	if err != nil {
		return nil, err
	}

	feeResult, err := s.FeeReport(ctx, accountID, start, end)
	if err != nil {
		s.logger.Warn().
			Str("account_id", accountID.String()).
			Err(err).
			Msg("fee section omitted from performance report")
		feeResult = nil
	}

	positions, transactions, err := s.fetchRecords(ctx, accountID, end)
	if err != nil {
		return nil, err
	}
	prices, err := s.PriceRepo.ListBySecurities(ctx, distinctSecurities(positions), time.Time{}, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list prices: %w", err)
	}

	defer metrics.ObserveEngine("qc", time.Now())
	qcReport := qc.RunComprehensive(qc.Input{
		AccountID:    accountID,
		StartDate:    start,
		EndDate:      end,
		Positions:    positions,
		Transactions: transactions,
		Prices:       prices,
		AUM:          aumResult,
		AUMTolerance: s.AUMTolerance,
		Returns:      returns.Daily,
	})
	metrics.QCVerdicts.WithLabelValues(string(qcReport.OverallStatus)).Inc()

	report := &PerformanceReport{
		AccountID: accountID,
		StartDate: domain.Day(start),
		EndDate:   domain.Day(end),
		AUM:       aumResult,
		Returns:   returns,
		Holdings:  holdingsReport,
		Fees:      feeResult,
		QC:        qcReport,
	}

	metrics.ReportsGenerated.WithLabelValues("performance").Inc()
	s.logger.Info().
		Str("account_id", accountID.String()).
		Str("qc_status", string(qcReport.OverallStatus)).
		Msg("performance report generated")
	return report, nil
}

// fetchRecords pulls the account's full position history up to end plus the
// transactions in the same span. Valuation needs rows arbitrarily far before
// the window start for its baseline, so the lower bound is left open.
func (s *ReportingService) fetchRecords(ctx context.Context, accountID uuid.UUID, end time.Time) ([]domain.Position, []domain.Transaction, error) {
	positions, err := s.PositionRepo.ListByAccount(ctx, accountID, time.Time{}, end)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list positions: %w", err)
	}
	transactions, err := s.TransactionRepo.ListByAccount(ctx, accountID, time.Time{}, end)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return positions, transactions, nil
}

func distinctSecurities(positions []domain.Position) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, p := range positions {
		if !seen[p.SecurityID] {
			seen[p.SecurityID] = true
			ids = append(ids, p.SecurityID)
		}
	}
	return ids
}
