package importer_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Bond-Portfolio-Tracker-Backend/internal/importer"
)

// TestParseRow tests normalization of a full statement row.
//
// WHY: ParseRow is the single place where raw cells become typed values. The
// import orchestrator relies on it to reject rows lacking mandatory data and
// to apply the documented defaults for everything else.
func TestParseRow(t *testing.T) {
	t.Run("full Polish row", func(t *testing.T) {
		row := importer.Row{
			"Kod_ISIN":          "PL0000115000",
			"Seria_Obligacji":   "EDO0434",
			"Typ_Obligacji":     "EDO",
			"Data_Zakupu":       "15.04.2024",
			"Data_Wykupu":       "15.04.2034",
			"Ilosc":             "10",
			"Cena_Zakupu":       "100,00",
			"Wartosc_Nominalna": "100",
			"Aktualna_Wartosc":  "1 023,40",
			"Oprocentowanie":    "6,80%",
			"Numer_Transakcji":  "TX-001",
		}

		got, err := importer.ParseRow(4, row)
		if err != nil {
			t.Fatalf("ParseRow() returned unexpected error: %v", err)
		}

		if got.Index != 4 {
			t.Errorf("Expected index 4, got %d", got.Index)
		}
		if got.ISIN != "PL0000115000" || got.Series != "EDO0434" || got.BondType != "EDO" {
			t.Errorf("Unexpected identity fields: %+v", got)
		}
		if !got.PurchaseDate.Equal(time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("Unexpected purchase date %s", got.PurchaseDate)
		}
		if got.MaturityDate == nil || got.MaturityDate.Year() != 2034 {
			t.Errorf("Unexpected maturity date %v", got.MaturityDate)
		}
		if !got.Quantity.Equal(decimal.NewFromInt(10)) {
			t.Errorf("Expected quantity 10, got %s", got.Quantity)
		}
		if !got.PurchasePrice.Equal(decimal.NewFromInt(100)) {
			t.Errorf("Expected price 100, got %s", got.PurchasePrice)
		}
		if !got.CurrentValue.Valid || !got.CurrentValue.Decimal.Equal(decimal.RequireFromString("1023.40")) {
			t.Errorf("Expected current value 1023.40, got %+v", got.CurrentValue)
		}
		if !got.CouponRate.Valid || !got.CouponRate.Decimal.Equal(decimal.RequireFromString("0.068")) {
			t.Errorf("Expected coupon rate 0.068, got %+v", got.CouponRate)
		}
		if got.Coupon != "6,80%" {
			t.Errorf("Expected coupon text '6,80%%', got %q", got.Coupon)
		}
		if got.Reference != "TX-001" {
			t.Errorf("Expected reference TX-001, got %q", got.Reference)
		}
	})

	t.Run("defaults for absent quantity and price", func(t *testing.T) {
		row := importer.Row{"isin": "PL0000115000", "purchase_date": "2024-01-02"}

		got, err := importer.ParseRow(0, row)
		if err != nil {
			t.Fatalf("ParseRow() returned unexpected error: %v", err)
		}
		if !got.Quantity.Equal(decimal.NewFromInt(1)) {
			t.Errorf("Expected default quantity 1, got %s", got.Quantity)
		}
		if !got.PurchasePrice.Equal(decimal.NewFromInt(100)) {
			t.Errorf("Expected default price 100, got %s", got.PurchasePrice)
		}
		if got.CurrentValue.Valid {
			t.Error("Expected null current value")
		}
		if got.Coupon != "" {
			t.Errorf("Expected empty coupon, got %q", got.Coupon)
		}
	})

	t.Run("fractional coupon_rate column", func(t *testing.T) {
		row := importer.Row{"isin": "PL1", "purchase_date": "2024-01-02", "coupon_rate": "0.0325"}

		got, err := importer.ParseRow(0, row)
		if err != nil {
			t.Fatalf("ParseRow() returned unexpected error: %v", err)
		}
		if got.Coupon != "3.25%" {
			t.Errorf("Expected '3.25%%', got %q", got.Coupon)
		}
	})

	t.Run("malformed optional numbers degrade to null", func(t *testing.T) {
		row := importer.Row{
			"isin":          "PL1",
			"purchase_date": "2024-01-02",
			"current_value": "n/a",
			"nominal_value": "??",
			"fees":          "free",
		}

		got, err := importer.ParseRow(0, row)
		if err != nil {
			t.Fatalf("ParseRow() returned unexpected error: %v", err)
		}
		if got.CurrentValue.Valid || got.NominalValue.Valid {
			t.Errorf("Expected null current/nominal value, got %+v / %+v", got.CurrentValue, got.NominalValue)
		}
		if !got.Fees.IsZero() {
			t.Errorf("Expected zero fees, got %s", got.Fees)
		}
	})

	errorCases := []struct {
		name string
		row  importer.Row
		want error
	}{
		{"missing ISIN", importer.Row{"purchase_date": "2024-01-02"}, apperrors.ErrMissingISIN},
		{"blank ISIN", importer.Row{"Kod_ISIN": "  ", "purchase_date": "2024-01-02"}, apperrors.ErrMissingISIN},
		{"missing purchase date", importer.Row{"isin": "PL1"}, apperrors.ErrInvalidPurchaseDate},
		{"unparseable purchase date", importer.Row{"isin": "PL1", "purchase_date": "soon"}, apperrors.ErrInvalidPurchaseDate},
		{"garbled price", importer.Row{"isin": "PL1", "purchase_date": "2024-01-02", "purchase_price": "abc"}, apperrors.ErrInvalidPurchasePrice},
		{"negative price", importer.Row{"isin": "PL1", "purchase_date": "2024-01-02", "purchase_price": "-1"}, apperrors.ErrInvalidPurchasePrice},
		{"garbled quantity", importer.Row{"isin": "PL1", "purchase_date": "2024-01-02", "Ilosc": "ten"}, apperrors.ErrInvalidQuantity},
		{"exponent price", importer.Row{"isin": "PL1", "purchase_date": "2024-01-02", "purchase_price": "1e2000000000"}, apperrors.ErrInvalidPurchasePrice},
		{"exponent quantity", importer.Row{"isin": "PL1", "purchase_date": "2024-01-02", "Ilosc": "1E9"}, apperrors.ErrInvalidQuantity},
		{"zero quantity", importer.Row{"isin": "PL1", "purchase_date": "2024-01-02", "Ilosc": "0"}, apperrors.ErrNonPositiveQuantity},
	}
	for _, tt := range errorCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := importer.ParseRow(0, tt.row)
			if !errors.Is(err, tt.want) {
				t.Errorf("ParseRow() error = %v, want %v", err, tt.want)
			}
		})
	}
}
