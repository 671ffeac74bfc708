package importer

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// currencyGlyphs are stripped before numeric parsing.
var currencyGlyphs = strings.NewReplacer(
	"PLN", "",
	"zł", "",
	"zl", "",
	"EUR", "",
	"€", "",
	"USD", "",
	"$", "",
	"%", "",
)

// ParseDecimal parses a locale-formatted number such as "1 234,56 zł",
// "1.234,56", "1,234.56" or "3,25%". It never fails loudly: malformed input
// returns ok=false.
//
// When both separators appear the right-most one is the decimal separator.
// A lone comma is a decimal comma; repeated commas or dots are thousands
// separators. Scientific notation is rejected.
func ParseDecimal(s string) (decimal.Decimal, bool) {
	s = currencyGlyphs.Replace(strings.TrimSpace(s))
	s = strings.Map(func(r rune) rune {
		// spaces, NBSP and narrow NBSP are thousands separators in pl-PL
		if unicode.IsSpace(r) || r == '\'' {
			return -1
		}
		return r
	}, s)
	// Exponent notation is not a locale format.
	if s == "" || strings.ContainsAny(s, "eE") {
		return decimal.Zero, false
	}

	s = normalizeSeparators(s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func normalizeSeparators(s string) string {
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			return strings.Replace(s, ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")
	case lastComma >= 0:
		if strings.Count(s, ",") > 1 {
			return strings.ReplaceAll(s, ",", "")
		}
		return strings.Replace(s, ",", ".", 1)
	case strings.Count(s, ".") > 1:
		return strings.ReplaceAll(s, ".", "")
	}
	return s
}

// ParseNullDecimal wraps ParseDecimal into a NullDecimal.
func ParseNullDecimal(s string) decimal.NullDecimal {
	d, ok := ParseDecimal(s)
	return decimal.NullDecimal{Decimal: d, Valid: ok}
}
