package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ParsedRow is one CSV data row after normalization.
// Index is the 0-based position of the row in the input, excluding the header.
type ParsedRow struct {
	Index         int
	ISIN          string
	Name          string
	Issuer        string
	Series        string
	BondType      string
	PurchaseDate  time.Time
	MaturityDate  *time.Time
	EmissionDate  *time.Time
	Quantity      decimal.Decimal
	PurchasePrice decimal.Decimal
	NominalValue  decimal.NullDecimal
	CurrentValue  decimal.NullDecimal
	CouponRate    decimal.NullDecimal
	Coupon        string // display form, e.g. "3.25%"
	Fees          decimal.Decimal
	Reference     string
}

// ImportResult is returned for every import batch.
// Errors is never nil so it always serializes as an array.
type ImportResult struct {
	PortfolioID string   `json:"portfolioId,omitempty"`
	Imported    int      `json:"imported"`
	Skipped     int      `json:"skipped"`
	Errors      []string `json:"errors"`
	DryRun      bool     `json:"dryRun,omitempty"`
}

// Failed reports whether the batch was rejected.
func (r *ImportResult) Failed() bool {
	return len(r.Errors) > 0
}

// Summary renders a user-facing message with at most preview error strings.
func (r *ImportResult) Summary(preview int) string {
	if !r.Failed() {
		msg := fmt.Sprintf("Imported %d rows", r.Imported)
		if r.Skipped > 0 {
			msg += fmt.Sprintf(", skipped %d already imported", r.Skipped)
		}
		if r.DryRun {
			msg += " (dry run)"
		}
		return msg
	}

	if preview < 0 {
		preview = 0
	}
	shown := r.Errors
	if len(shown) > preview {
		shown = shown[:preview]
	}

	msg := fmt.Sprintf("Import failed with %d errors", len(r.Errors))
	if len(shown) > 0 {
		msg += ": " + strings.Join(shown, "; ")
	}
	if rest := len(r.Errors) - len(shown); rest > 0 {
		msg += fmt.Sprintf(" (+%d more)", rest)
	}
	return msg
}
