// Package importer turns loosely structured CSV statements into typed rows.
//
// Column names are resolved through a declarative alias table: every canonical
// field has an ordered list of accepted source headers (Polish labels first,
// English fallbacks after) and Lookup returns the first usable value.
package importer

import "strings"

// Field is a canonical column name.
type Field string

const (
	FieldISIN          Field = "isin"
	FieldName          Field = "name"
	FieldIssuer        Field = "issuer"
	FieldSeries        Field = "series"
	FieldBondType      Field = "bond_type"
	FieldPurchaseDate  Field = "purchase_date"
	FieldMaturityDate  Field = "maturity_date"
	FieldEmissionDate  Field = "emission_date"
	FieldQuantity      Field = "quantity"
	FieldNominalValue  Field = "nominal_value"
	FieldPurchasePrice Field = "purchase_price"
	FieldCurrentValue  Field = "current_value"
	FieldCouponText    Field = "coupon_text"
	FieldCouponRate    Field = "coupon_rate"
	FieldFees          Field = "fees"
	FieldReference     Field = "transaction_reference"
)

// Aliases maps each canonical field to its accepted headers, in priority order.
// Matching is case-sensitive.
var Aliases = map[Field][]string{
	FieldISIN:          {"Kod_ISIN", "isin"},
	FieldName:          {"Nazwa", "nazwa", "name"},
	FieldIssuer:        {"Emitent", "emitent", "issuer"},
	FieldSeries:        {"Seria_Obligacji", "series"},
	FieldBondType:      {"Typ_Obligacji", "bond_type"},
	FieldPurchaseDate:  {"Data_Zakupu", "purchase_date"},
	FieldMaturityDate:  {"Data_Wykupu", "maturity_date"},
	FieldEmissionDate:  {"Data_Emisji", "emission_date"},
	FieldQuantity:      {"Ilosc", "ilosc", "quantity"},
	FieldNominalValue:  {"Wartosc_Nominalna", "nominal_value", "quantity"},
	FieldPurchasePrice: {"Cena_Zakupu", "purchase_price"},
	FieldCurrentValue:  {"Aktualna_Wartosc", "current_value"},
	FieldCouponText:    {"Oprocentowanie", "oprocentowanie"},
	FieldCouponRate:    {"coupon_rate"},
	FieldFees:          {"Prowizja", "fees"},
	FieldReference:     {"Numer_Transakcji", "transaction_reference"},
}

// Row is one CSV data row keyed by header name.
type Row map[string]string

// nullMarkers are textual placeholders spreadsheets and dataframe exports
// write for missing cells.
var nullMarkers = map[string]struct{}{
	"None": {},
	"nan":  {},
	"NaN":  {},
	"null": {},
	"NULL": {},
}

// Lookup returns the first non-empty value found among the field's aliases.
// Values are whitespace-trimmed; null markers count as empty.
func Lookup(row Row, field Field) (string, bool) {
	for _, name := range Aliases[field] {
		raw, ok := row[name]
		if !ok {
			continue
		}
		v := strings.TrimSpace(raw)
		if v == "" {
			continue
		}
		if _, isNull := nullMarkers[v]; isNull {
			continue
		}
		return v, true
	}
	return "", false
}

// LookupString is Lookup without the presence flag.
func LookupString(row Row, field Field) string {
	v, _ := Lookup(row, field)
	return v
}
