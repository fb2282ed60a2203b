package domain

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AUMBasis selects which daily position value a fee accrual is computed on.
type AUMBasis string

const (
	AUMBasisAverage   AUMBasis = "average"   // mean of start-of-day and end-of-day value
	AUMBasisBeginning AUMBasis = "beginning" // start-of-day value
	AUMBasisEnding    AUMBasis = "ending"    // end-of-day value
)

// CrystallizationPeriod determines the calendar boundary on which a
// performance fee crystallizes.
type CrystallizationPeriod string

const (
	CrystallizationAnnual    CrystallizationPeriod = "annual"
	CrystallizationQuarterly CrystallizationPeriod = "quarterly"
	CrystallizationMonthly   CrystallizationPeriod = "monthly"
)

// FeeSchedule describes how management fees accrue for an account.
type FeeSchedule struct {
	ID         uuid.UUID
	AccountID  uuid.UUID
	AnnualRate decimal.Decimal // e.g. 0.01 for 1% per annum
	Basis      AUMBasis
}

// FeeTier is one marginal bracket of a tiered schedule. Fees are charged
// bracket by bracket on the AUM falling inside each bracket, not at the
// highest reached rate on the entire AUM.
type FeeTier struct {
	Minimum decimal.Decimal // lower bound of the bracket, inclusive
	Rate    decimal.Decimal // annual rate applied to AUM inside the bracket
}

// FeeAdjustment is a signed flat amount applied on top of the computed daily
// fee for one account and day, entered manually by an operator.
type FeeAdjustment struct {
	AccountID uuid.UUID
	Date      string // calendar day key, YYYY-MM-DD
	Amount    decimal.Decimal
}

// Validate ensures the fee schedule adheres to domain rules.
func (f *FeeSchedule) Validate() error {
	if f.AccountID == uuid.Nil {
		return errors.New("fee schedule must have an account ID")
	}

	if f.AnnualRate.IsNegative() {
		return errors.New("fee schedule annual rate cannot be negative")
	}

	switch f.Basis {
	case AUMBasisAverage, AUMBasisBeginning, AUMBasisEnding:
	default:
		return errors.New("fee schedule basis must be average, beginning or ending")
	}

	return nil
}
