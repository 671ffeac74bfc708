package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType enumerates the ledger entry kinds.
type TransactionType string

const (
	TransactionTypeBuy      TransactionType = "BUY"
	TransactionTypeSell     TransactionType = "SELL"
	TransactionTypeMaturity TransactionType = "MATURITY"
	TransactionTypeCoupon   TransactionType = "COUPON"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeBuy, TransactionTypeSell, TransactionTypeMaturity, TransactionTypeCoupon:
		return true
	}
	return false
}

// Transaction is an immutable ledger entry. The CSV import only produces BUY
// entries; the other types are reserved for manual portfolio actions.
type Transaction struct {
	ID          string          `json:"id"`
	PortfolioID string          `json:"portfolioId"`
	BondID      string          `json:"bondId"`
	Type        TransactionType `json:"type"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Date        time.Time       `json:"date"`
	Fees        decimal.Decimal `json:"fees"`
	Reference   *string         `json:"reference"`
	Notes       *string         `json:"notes"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// TransactionView adds the bond identity for API listings.
type TransactionView struct {
	Transaction
	ISIN     string `json:"isin"`
	BondName string `json:"bondName"`
}
