package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/harborpoint/reporting-backend/internal/domain"
)

// feeScheduleRepository implements domain.FeeScheduleRepository
type feeScheduleRepository struct {
	db *DB
}

// NewFeeScheduleRepository creates a new fee schedule repository
func NewFeeScheduleRepository(db *DB) domain.FeeScheduleRepository {
	return &feeScheduleRepository{db: db}
}

// GetByAccount retrieves the fee schedule for an account
func (r *feeScheduleRepository) GetByAccount(ctx context.Context, accountID uuid.UUID) (*domain.FeeSchedule, error) {
	query := `
		SELECT id, account_id, annual_rate, basis
		FROM fee_schedules
		WHERE account_id = $1
	`

	var schedule domain.FeeSchedule
	var rateStr string

	err := r.db.QueryRowContext(ctx, query, accountID).Scan(
		&schedule.ID,
		&schedule.AccountID,
		&rateStr,
		&schedule.Basis,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("fee schedule not found for account %s: %w", accountID, err)
		}
		return nil, fmt.Errorf("failed to get fee schedule: %w", err)
	}

	rate, err := decimal.NewFromString(rateStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse annual_rate: %w", err)
	}
	schedule.AnnualRate = rate

	return &schedule, nil
}

// ListAdjustments retrieves manual fee adjustments for an account within [from, to]
func (r *feeScheduleRepository) ListAdjustments(ctx context.Context, accountID uuid.UUID, from, to time.Time) ([]domain.FeeAdjustment, error) {
	query := `
		SELECT account_id, date, amount
		FROM fee_adjustments
		WHERE account_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date
	`

	rows, err := r.db.QueryContext(ctx, query, accountID, domain.Day(from), domain.Day(to))
	if err != nil {
		return nil, fmt.Errorf("failed to list fee adjustments: %w", err)
	}
	defer rows.Close()

	var adjustments []domain.FeeAdjustment
	for rows.Next() {
		var adj domain.FeeAdjustment
		var date time.Time
		var amountStr string

		if err := rows.Scan(&adj.AccountID, &date, &amountStr); err != nil {
			return nil, fmt.Errorf("failed to scan fee adjustment: %w", err)
		}
		if adj.Amount, err = decimal.NewFromString(amountStr); err != nil {
			return nil, fmt.Errorf("failed to parse amount: %w", err)
		}
		adj.Date = domain.Day(date).Format(time.DateOnly)

		adjustments = append(adjustments, adj)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate fee adjustments: %w", err)
	}

	return adjustments, nil
}
