package cart

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrUnknownCoupon is returned when a code is not in the coupon table.
var ErrUnknownCoupon = errors.New("unknown coupon code")

// Coupon unlocks a percentage discount on the subtotal.
type Coupon struct {
	Code       string          `json:"code"`
	Percentage decimal.Decimal `json:"percentage"`
}

var coupons = map[string]decimal.Decimal{
	"SAVE10": decimal.RequireFromString("0.10"),
	"SAVE25": decimal.RequireFromString("0.25"),
	"SAVE35": decimal.RequireFromString("0.35"),
}

// NormalizeCode upper-cases code and trims surrounding whitespace.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// LookupCoupon resolves code against the fixed coupon table.
func LookupCoupon(code string) (Coupon, bool) {
	norm := NormalizeCode(code)
	pct, ok := coupons[norm]
	if !ok {
		return Coupon{}, false
	}
	return Coupon{Code: norm, Percentage: pct}, true
}
