package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Position represents a valued holding snapshot in the domain layer.
// Written by an external valuation/reconciliation process; the engines treat
// positions as immutable inputs. At most one position per
// (accountID, securityID, date) is authoritative; when duplicates exist the
// most recent date wins.
type Position struct {
	AccountID   uuid.UUID
	SecurityID  string
	Date        time.Time
	Quantity    decimal.Decimal // signed; zero-quantity positions are excluded from holdings
	AverageCost decimal.Decimal // per-unit cost basis
	MarketValue decimal.Decimal // total value of the position on Date
}

// Price represents an authoritative close for a security on a calendar day.
// Open/high/low/volume are optional and unused by the engines beyond QC.
type Price struct {
	SecurityID string
	Date       time.Time
	Close      decimal.Decimal
	Open       decimal.Decimal
	High       decimal.Decimal
	Low        decimal.Decimal
	Volume     decimal.Decimal
}

// Security is reference data. Missing lookups degrade to "Unknown" sentinels
// rather than errors so reports can still render partial data.
type Security struct {
	ID         string
	Symbol     string
	Name       string
	AssetClass string
	Exchange   string
	Currency   string
}

// Sentinel values used when security reference data is missing.
const (
	UnknownSymbol       = "Unknown"
	UnknownSecurityName = "Unknown Security"
	UnknownAssetClass   = "Unknown"
)

// Holding is the point-in-time projection of a Position joined with the
// latest price at or before the as-of date and security reference data.
type Holding struct {
	AccountID            uuid.UUID
	SecurityID           string
	Symbol               string
	Name                 string
	AssetClass           string
	AsOfDate             time.Time
	Quantity             decimal.Decimal
	Price                decimal.Decimal
	AverageCost          decimal.Decimal
	MarketValue          decimal.Decimal
	BookValue            decimal.Decimal
	UnrealizedPnL        decimal.Decimal
	UnrealizedPnLPercent decimal.Decimal
}
