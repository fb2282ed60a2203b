package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PositionRepository defines the interface for position snapshot reads.
// The engines never query storage directly; the reporting service fetches
// account-scoped windows through this interface and hands slices to them.
type PositionRepository interface {
	// ListByAccount retrieves position snapshots for an account dated at or
	// before end. The lower bound is advisory; callers that need a
	// beginning-of-period baseline pass a from well before the window start.
	ListByAccount(ctx context.Context, accountID uuid.UUID, from, to time.Time) ([]Position, error)
}

// TransactionRepository defines the interface for transaction reads.
type TransactionRepository interface {
	// ListByAccount retrieves transactions for an account within [from, to].
	ListByAccount(ctx context.Context, accountID uuid.UUID, from, to time.Time) ([]Transaction, error)
}

// PriceRepository defines the interface for close price reads.
type PriceRepository interface {
	// ListBySecurities retrieves closes for the given securities dated at or
	// before to. Securities with no prices are simply absent from the result.
	ListBySecurities(ctx context.Context, securityIDs []string, from, to time.Time) ([]Price, error)
}

// SecurityRepository defines the interface for security reference data reads.
type SecurityRepository interface {
	// GetByIDs retrieves reference data for the given securities. Missing
	// securities are absent from the result; callers degrade to sentinels.
	GetByIDs(ctx context.Context, securityIDs []string) ([]Security, error)
}

// FeeScheduleRepository defines the interface for fee schedule reads.
type FeeScheduleRepository interface {
	// GetByAccount retrieves the fee schedule for an account.
	GetByAccount(ctx context.Context, accountID uuid.UUID) (*FeeSchedule, error)

	// ListAdjustments retrieves manual fee adjustments for an account
	// within [from, to].
	ListAdjustments(ctx context.Context, accountID uuid.UUID, from, to time.Time) ([]FeeAdjustment, error)
}
