package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction record
type TransactionType string

const (
	TransactionTypeContribution TransactionType = "CONTRIBUTION"
	TransactionTypeDeposit      TransactionType = "DEPOSIT"
	TransactionTypeWithdrawal   TransactionType = "WITHDRAWAL"
	TransactionTypeDistribution TransactionType = "DISTRIBUTION"
	TransactionTypeBuy          TransactionType = "BUY"
	TransactionTypePurchase     TransactionType = "PURCHASE"
	TransactionTypeSell         TransactionType = "SELL"
	TransactionTypeSale         TransactionType = "SALE"
)

// Transaction represents a transaction entity in the domain layer.
// Flow transactions (contributions/withdrawals) carry Amount; trade
// transactions (buys/sells) carry SecurityID, Quantity and Price.
type Transaction struct {
	ID         uuid.UUID
	AccountID  uuid.UUID
	Date       time.Time
	Type       TransactionType
	Amount     decimal.Decimal // signed currency amount, flows only
	SecurityID string          // trades only
	Quantity   decimal.Decimal // trades only
	Price      decimal.Decimal // per-unit, trades only
}

// IsContribution reports whether the transaction adds external cash.
func (t *Transaction) IsContribution() bool {
	return t.Type == TransactionTypeContribution || t.Type == TransactionTypeDeposit
}

// IsWithdrawal reports whether the transaction removes external cash.
// Withdrawal amounts are normalized to positive magnitude when aggregated,
// regardless of the stored sign.
func (t *Transaction) IsWithdrawal() bool {
	return t.Type == TransactionTypeWithdrawal || t.Type == TransactionTypeDistribution
}

// IsFlow reports whether the transaction is an external cash flow.
func (t *Transaction) IsFlow() bool {
	return t.IsContribution() || t.IsWithdrawal()
}

// IsBuy reports whether the transaction opens or adds to a tax lot.
func (t *Transaction) IsBuy() bool {
	return t.Type == TransactionTypeBuy || t.Type == TransactionTypePurchase
}

// IsSell reports whether the transaction reduces tax lots.
func (t *Transaction) IsSell() bool {
	return t.Type == TransactionTypeSell || t.Type == TransactionTypeSale
}

// IsTrade reports whether the transaction is a security trade.
func (t *Transaction) IsTrade() bool {
	return t.IsBuy() || t.IsSell()
}

// FlowAmount returns the sign-normalized external flow for aggregation:
// contributions as stored, withdrawals as positive magnitude.
// Returns zero for trades.
func (t *Transaction) FlowAmount() decimal.Decimal {
	switch {
	case t.IsContribution():
		return t.Amount
	case t.IsWithdrawal():
		return t.Amount.Abs()
	default:
		return decimal.Zero
	}
}

// Validate ensures the transaction adheres to domain rules.
// Returns an error if validation fails.
func (t *Transaction) Validate() error {
	switch t.Type {
	case TransactionTypeContribution, TransactionTypeDeposit,
		TransactionTypeWithdrawal, TransactionTypeDistribution,
		TransactionTypeBuy, TransactionTypePurchase,
		TransactionTypeSell, TransactionTypeSale:
	default:
		return errors.New("transaction type must be one of CONTRIBUTION, DEPOSIT, WITHDRAWAL, DISTRIBUTION, BUY, PURCHASE, SELL, SALE")
	}

	if t.AccountID == uuid.Nil {
		return errors.New("transaction must have an account ID")
	}

	if t.Date.IsZero() {
		return errors.New("transaction must have a date")
	}

	if t.IsTrade() {
		if t.SecurityID == "" {
			return errors.New("trade transaction must have a security ID")
		}
		if t.Quantity.LessThanOrEqual(decimal.Zero) {
			return errors.New("trade quantity must be positive")
		}
		if t.Price.IsNegative() {
			return errors.New("trade price cannot be negative")
		}
	}

	return nil
}
