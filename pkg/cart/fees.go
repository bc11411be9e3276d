package cart

import "github.com/shopspring/decimal"

// FeeRule computes an extra charge on top of the cart total, such as
// shipping or tax. Fee rules are deployment configuration; they never alter
// Subtotal, Discount or Total.
type FeeRule interface {
	Name() string
	Apply(subtotal int64, total decimal.Decimal) decimal.Decimal
}

// Fee is a computed fee line.
type Fee struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// FlatShipping charges a fixed amount on any non-empty cart.
type FlatShipping struct {
	AmountMinor int64
}

func (FlatShipping) Name() string { return "shipping" }

func (f FlatShipping) Apply(subtotal int64, _ decimal.Decimal) decimal.Decimal {
	if subtotal <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(f.AmountMinor)
}

// FreeShippingOver charges AmountMinor unless the subtotal reaches
// ThresholdMinor.
type FreeShippingOver struct {
	AmountMinor    int64
	ThresholdMinor int64
}

func (FreeShippingOver) Name() string { return "shipping" }

func (f FreeShippingOver) Apply(subtotal int64, _ decimal.Decimal) decimal.Decimal {
	if subtotal <= 0 || subtotal >= f.ThresholdMinor {
		return decimal.Zero
	}
	return decimal.NewFromInt(f.AmountMinor)
}

// PercentTax charges Rate of the discounted total.
type PercentTax struct {
	Rate decimal.Decimal
}

func (PercentTax) Name() string { return "tax" }

func (t PercentTax) Apply(_ int64, total decimal.Decimal) decimal.Decimal {
	if !total.IsPositive() {
		return decimal.Zero
	}
	return total.Mul(t.Rate)
}
