package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/harborpoint/reporting-backend/internal/domain"
)

// positionRepository implements domain.PositionRepository
type positionRepository struct {
	db *DB
}

// NewPositionRepository creates a new position repository
func NewPositionRepository(db *DB) domain.PositionRepository {
	return &positionRepository{db: db}
}

// ListByAccount retrieves position snapshots for an account dated at or
// before to. A zero from leaves the lower bound open so valuation can find
// its baseline row however old it is.
func (r *positionRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, from, to time.Time) ([]domain.Position, error) {
	query := `
		SELECT account_id, security_id, date, quantity, average_cost, market_value
		FROM positions
		WHERE account_id = $1 AND date <= $2
	`
	args := []interface{}{accountID, domain.Day(to)}
	if !from.IsZero() {
		query += ` AND date >= $3`
		args = append(args, domain.Day(from))
	}
	query += ` ORDER BY date, security_id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}
	defer rows.Close()

	var positions []domain.Position
	for rows.Next() {
		var p domain.Position
		var quantityStr, avgCostStr, marketValueStr string

		if err := rows.Scan(&p.AccountID, &p.SecurityID, &p.Date, &quantityStr, &avgCostStr, &marketValueStr); err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}

		if p.Quantity, err = decimal.NewFromString(quantityStr); err != nil {
			return nil, fmt.Errorf("failed to parse quantity: %w", err)
		}
		if p.AverageCost, err = decimal.NewFromString(avgCostStr); err != nil {
			return nil, fmt.Errorf("failed to parse average_cost: %w", err)
		}
		if p.MarketValue, err = decimal.NewFromString(marketValueStr); err != nil {
			return nil, fmt.Errorf("failed to parse market_value: %w", err)
		}

		positions = append(positions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate positions: %w", err)
	}

	return positions, nil
}
