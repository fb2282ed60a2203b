package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/harborpoint/reporting-backend/internal/domain"
)

// priceRepository implements domain.PriceRepository
type priceRepository struct {
	db *DB
}

// NewPriceRepository creates a new price repository
func NewPriceRepository(db *DB) domain.PriceRepository {
	return &priceRepository{db: db}
}

// ListBySecurities retrieves close prices for the given securities dated at
// or before to. Securities with no prices are simply absent from the result.
func (r *priceRepository) ListBySecurities(ctx context.Context, securityIDs []string, from, to time.Time) ([]domain.Price, error) {
	if len(securityIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT security_id, date, close
		FROM prices
		WHERE security_id = ANY($1) AND date <= $2
	`
	args := []interface{}{pq.Array(securityIDs), domain.Day(to)}
	if !from.IsZero() {
		query += ` AND date >= $3`
		args = append(args, domain.Day(from))
	}
	query += ` ORDER BY security_id, date`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list prices: %w", err)
	}
	defer rows.Close()

	var prices []domain.Price
	for rows.Next() {
		var p domain.Price
		var closeStr string

		if err := rows.Scan(&p.SecurityID, &p.Date, &closeStr); err != nil {
			return nil, fmt.Errorf("failed to scan price: %w", err)
		}
		if p.Close, err = decimal.NewFromString(closeStr); err != nil {
			return nil, fmt.Errorf("failed to parse close: %w", err)
		}

		prices = append(prices, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate prices: %w", err)
	}

	return prices, nil
}
