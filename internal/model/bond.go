package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BondDefinition is the catalog entry for one ISIN.
// Nullable attributes stay nil until some import supplies them.
type BondDefinition struct {
	ID           string              `json:"id"`
	ISIN         string              `json:"isin"`
	Name         string              `json:"name"`
	Issuer       string              `json:"issuer"`
	Series       *string             `json:"series"`
	BondType     *string             `json:"bondType"`
	MaturityDate *time.Time          `json:"maturityDate"`
	EmissionDate *time.Time          `json:"emissionDate"`
	CouponRate   decimal.NullDecimal `json:"couponRate"` // fractional, 0.0325 for 3.25%
	NominalValue decimal.Decimal     `json:"nominalValue"`
	CreatedAt    time.Time           `json:"createdAt"`
}
