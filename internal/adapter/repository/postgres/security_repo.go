package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/harborpoint/reporting-backend/internal/domain"
)

// securityRepository implements domain.SecurityRepository
type securityRepository struct {
	db *DB
}

// NewSecurityRepository creates a new security repository
func NewSecurityRepository(db *DB) domain.SecurityRepository {
	return &securityRepository{db: db}
}

// GetByIDs retrieves reference data for the given securities. Missing
// securities are absent from the result; callers degrade to sentinels.
func (r *securityRepository) GetByIDs(ctx context.Context, securityIDs []string) ([]domain.Security, error) {
	if len(securityIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, symbol, name, asset_class, exchange, currency
		FROM securities
		WHERE id = ANY($1)
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(securityIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to get securities: %w", err)
	}
	defer rows.Close()

	var securities []domain.Security
	for rows.Next() {
		var s domain.Security
		var assetClass, exchange, currency sql.NullString

		if err := rows.Scan(&s.ID, &s.Symbol, &s.Name, &assetClass, &exchange, &currency); err != nil {
			return nil, fmt.Errorf("failed to scan security: %w", err)
		}
		s.AssetClass = assetClass.String
		s.Exchange = exchange.String
		s.Currency = currency.String

		securities = append(securities, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate securities: %w", err)
	}

	return securities, nil
}
