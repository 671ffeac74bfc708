package importer

import (
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/model"
)

var (
	// DefaultQuantity applies when a row carries no quantity column.
	DefaultQuantity = decimal.NewFromInt(1)
	// DefaultPurchasePrice applies when a row carries no purchase price column.
	DefaultPurchasePrice = decimal.NewFromInt(100)
)

// ParseRow normalizes one raw row. Optional fields that fail to parse degrade
// to null; mandatory fields (ISIN, purchase date) and present-but-garbled
// quantity or price are returned as errors.
func ParseRow(index int, row Row) (model.ParsedRow, error) {
	parsed := model.ParsedRow{
		Index:     index,
		Name:      LookupString(row, FieldName),
		Issuer:    LookupString(row, FieldIssuer),
		Series:    LookupString(row, FieldSeries),
		BondType:  LookupString(row, FieldBondType),
		Reference: LookupString(row, FieldReference),
	}

	isin, ok := Lookup(row, FieldISIN)
	if !ok {
		return parsed, apperrors.ErrMissingISIN
	}
	parsed.ISIN = isin

	purchaseDate, ok := ParseDate(LookupString(row, FieldPurchaseDate))
	if !ok {
		return parsed, apperrors.ErrInvalidPurchaseDate
	}
	parsed.PurchaseDate = purchaseDate

	parsed.Quantity = DefaultQuantity
	if raw, ok := Lookup(row, FieldQuantity); ok {
		q, ok := ParseDecimal(raw)
		if !ok {
			return parsed, apperrors.ErrInvalidQuantity
		}
		if !q.IsPositive() {
			return parsed, apperrors.ErrNonPositiveQuantity
		}
		parsed.Quantity = q
	}

	parsed.PurchasePrice = DefaultPurchasePrice
	if raw, ok := Lookup(row, FieldPurchasePrice); ok {
		p, ok := ParseDecimal(raw)
		if !ok || p.IsNegative() {
			return parsed, apperrors.ErrInvalidPurchasePrice
		}
		parsed.PurchasePrice = p
	}

	parsed.MaturityDate = ParseDatePtr(LookupString(row, FieldMaturityDate))
	parsed.EmissionDate = ParseDatePtr(LookupString(row, FieldEmissionDate))

	if raw, ok := Lookup(row, FieldNominalValue); ok {
		parsed.NominalValue = ParseNullDecimal(raw)
	}
	if raw, ok := Lookup(row, FieldCurrentValue); ok {
		parsed.CurrentValue = ParseNullDecimal(raw)
	}

	couponText := LookupString(row, FieldCouponText)
	if couponText != "" {
		parsed.CouponRate = ParseCouponRate(couponText)
	} else if raw, ok := Lookup(row, FieldCouponRate); ok {
		parsed.CouponRate = ParseNullDecimal(raw)
	}
	parsed.Coupon = FormatCoupon(couponText, parsed.CouponRate)

	if raw, ok := Lookup(row, FieldFees); ok {
		if fees, ok := ParseDecimal(raw); ok {
			parsed.Fees = fees
		}
	}

	return parsed, nil
}
