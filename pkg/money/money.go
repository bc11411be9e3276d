// Package money formats minor-unit amounts for display.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultSymbol is the storefront's currency symbol.
const DefaultSymbol = "₹"

var hundred = decimal.NewFromInt(100)

// Format renders an amount of minor units as a major-unit string with two
// decimals, rounding half away from zero, e.g. 19998 -> "₹199.98".
func Format(minor decimal.Decimal, symbol string) string {
	major := minor.Div(hundred).Round(2)
	s := major.StringFixed(2)
	if strings.HasPrefix(s, "-") {
		return "-" + symbol + strings.TrimPrefix(s, "-")
	}
	return symbol + s
}

// FormatMinor is Format for integral amounts.
func FormatMinor(minor int64, symbol string) string {
	return Format(decimal.NewFromInt(minor), symbol)
}

// ParseMajor converts a display price such as "₹149.99" or "149.99" into
// minor units. The symbol and thousands separators are ignored.
func ParseMajor(s, symbol string) (int64, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), symbol))
	s = strings.ReplaceAll(s, ",", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	return d.Mul(hundred).Round(0).IntPart(), nil
}
