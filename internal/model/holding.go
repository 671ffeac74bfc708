package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Holding is a lot: a quantity of one bond bought at one price on one date
// within a portfolio. (PortfolioID, BondID, PurchaseDate, PurchasePrice) is the
// aggregation key used by the import path.
type Holding struct {
	ID                   string              `json:"id"`
	PortfolioID          string              `json:"portfolioId"`
	BondID               string              `json:"bondId"`
	Quantity             decimal.Decimal     `json:"quantity"`
	PurchasePrice        decimal.Decimal     `json:"purchasePrice"`
	PurchaseDate         time.Time           `json:"purchaseDate"`
	CurrentValue         decimal.NullDecimal `json:"currentValue"`
	TransactionReference *string             `json:"transactionReference"`
	CreatedAt            time.Time           `json:"createdAt"`
	UpdatedAt            time.Time           `json:"updatedAt"`
}

// HoldingView is a holding joined with its bond definition.
// A slice of HoldingView is the snapshot the analytics functions work on.
type HoldingView struct {
	Holding
	ISIN         string              `json:"isin"`
	Name         string              `json:"name"`
	Issuer       string              `json:"issuer"`
	Series       *string             `json:"series"`
	BondType     *string             `json:"bondType"`
	MaturityDate *time.Time          `json:"maturityDate"`
	EmissionDate *time.Time          `json:"emissionDate"`
	CouponRate   decimal.NullDecimal `json:"couponRate"`
	NominalValue decimal.Decimal     `json:"nominalValue"`
}

// InvestedValue is quantity times purchase price.
func (h HoldingView) InvestedValue() decimal.Decimal {
	return h.Quantity.Mul(h.PurchasePrice)
}

// CurrentValueOrZero treats a missing valuation as zero.
func (h HoldingView) CurrentValueOrZero() decimal.Decimal {
	if !h.CurrentValue.Valid {
		return decimal.Zero
	}
	return h.CurrentValue.Decimal
}
