package validation

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/api/request"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/model"
)

// ValidateCreateTransaction validates a manual ledger entry.
//
// Required fields:
//   - isin: non-empty
//   - type: one of BUY, SELL, MATURITY, COUPON
//   - date: YYYY-MM-DD
//   - quantity: positive decimal
//   - price: non-negative decimal
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateTransaction(req request.CreateTransactionRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.ISIN) == "" {
		errors["isin"] = "isin is required"
	}

	if !model.TransactionType(strings.ToUpper(req.Type)).Valid() {
		errors["type"] = "type must be one of BUY, SELL, MATURITY, COUPON"
	}

	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		errors["date"] = "date must be YYYY-MM-DD"
	}

	if q, err := decimal.NewFromString(req.Quantity); err != nil {
		errors["quantity"] = "quantity must be a decimal number"
	} else if !q.IsPositive() {
		errors["quantity"] = "quantity must be positive"
	}

	if p, err := decimal.NewFromString(req.Price); err != nil {
		errors["price"] = "price must be a decimal number"
	} else if p.IsNegative() {
		errors["price"] = "price cannot be negative"
	}

	if req.Fees != "" {
		if f, err := decimal.NewFromString(req.Fees); err != nil || f.IsNegative() {
			errors["fees"] = "fees must be a non-negative decimal number"
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
