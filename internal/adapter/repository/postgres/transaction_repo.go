package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/harborpoint/reporting-backend/internal/domain"
)

// transactionRepository implements domain.TransactionRepository
type transactionRepository struct {
	db *DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *DB) domain.TransactionRepository {
	return &transactionRepository{db: db}
}

// ListByAccount retrieves transactions for an account dated at or before to.
// A zero from leaves the lower bound open; the lot engine needs the full
// trade history regardless of the reporting window.
func (r *transactionRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, from, to time.Time) ([]domain.Transaction, error) {
	query := `
		SELECT id, account_id, date, type, amount, security_id, quantity, price
		FROM transactions
		WHERE account_id = $1 AND date <= $2
	`
	args := []interface{}{accountID, domain.Day(to)}
	if !from.IsZero() {
		query += ` AND date >= $3`
		args = append(args, domain.Day(from))
	}
	query += ` ORDER BY date, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		var tx domain.Transaction
		var amountStr string
		var securityID, quantityStr, priceStr sql.NullString

		if err := rows.Scan(&tx.ID, &tx.AccountID, &tx.Date, &tx.Type, &amountStr, &securityID, &quantityStr, &priceStr); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		if tx.Amount, err = decimal.NewFromString(amountStr); err != nil {
			return nil, fmt.Errorf("failed to parse amount: %w", err)
		}

		// Trade columns are nullable; flow rows leave them empty.
		if securityID.Valid {
			tx.SecurityID = securityID.String
		}
		if quantityStr.Valid {
			if tx.Quantity, err = decimal.NewFromString(quantityStr.String); err != nil {
				return nil, fmt.Errorf("failed to parse quantity: %w", err)
			}
		}
		if priceStr.Valid {
			if tx.Price, err = decimal.NewFromString(priceStr.String); err != nil {
				return nil, fmt.Errorf("failed to parse price: %w", err)
			}
		}

		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return transactions, nil
}
