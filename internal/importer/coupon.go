package importer

import (
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// FormatCoupon returns the display form of a coupon. Pre-formatted text wins
// verbatim; otherwise a fractional rate is rendered as percent rounded to two
// places ("0.05" becomes "5.0%", "0.0325" becomes "3.25%").
func FormatCoupon(text string, rate decimal.NullDecimal) string {
	if text = strings.TrimSpace(text); text != "" {
		return text
	}
	if !rate.Valid {
		return ""
	}

	pct := rate.Decimal.Mul(hundred).Round(2).String()
	if !strings.Contains(pct, ".") {
		pct += ".0"
	}
	return pct + "%"
}

// ParseCouponRate converts a percent text such as "3,25%" into the fractional
// rate 0.0325. Text without a trailing percent sign is not a coupon.
func ParseCouponRate(text string) decimal.NullDecimal {
	text = strings.TrimSpace(text)
	if !strings.HasSuffix(text, "%") {
		return decimal.NullDecimal{}
	}
	d, ok := ParseDecimal(text)
	if !ok {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d.Div(hundred))
}
