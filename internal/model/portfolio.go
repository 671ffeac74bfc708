package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Portfolio represents a portfolio from the database.
// A portfolio owns its holdings, transactions and history rows.
type Portfolio struct {
	ID          string          `json:"id"`
	Owner       string          `json:"owner"`
	Name        string          `json:"name"`
	CashBalance decimal.Decimal `json:"cashBalance"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// PortfolioHistory is one valuation snapshot of a portfolio for a single date.
// Rows are written by the snapshot job, never by the import path.
type PortfolioHistory struct {
	ID          string          `json:"id"`
	PortfolioID string          `json:"portfolioId"`
	Date        time.Time       `json:"date"`
	TotalValue  decimal.Decimal `json:"totalValue"`
	CashValue   decimal.Decimal `json:"cashValue"`
	BondValue   decimal.Decimal `json:"bondValue"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// PortfolioSummary is a portfolio with totals derived from its holdings.
type PortfolioSummary struct {
	Portfolio
	HoldingCount  int             `json:"holdingCount"`
	TotalQuantity decimal.Decimal `json:"totalQuantity"`
	InvestedValue decimal.Decimal `json:"investedValue"`
	CurrentValue  decimal.Decimal `json:"currentValue"`
	TotalValue    decimal.Decimal `json:"totalValue"` // CurrentValue plus cash
}
