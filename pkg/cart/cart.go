// Package cart implements the shopper's cart: an ordered set of product lines,
// at most one coupon, and the totals derived from them.
//
// A Cart is a plain value owned by a single request at a time. It performs no
// locking; callers that share one across goroutines must serialize access.
package cart

import (
	"math"

	"github.com/shopspring/decimal"
)

// MaxQuantity caps a single line's quantity.
const MaxQuantity = 999

// Product is the catalog record a line is created from.
type Product struct {
	ID             string `json:"productId"`
	Name           string `json:"name"`
	UnitPriceMinor int64  `json:"unitPriceMinor"`
	ImageRef       string `json:"imageRef"`
	Category       string `json:"category,omitempty"`
}

// Line is one product held in the cart at a positive quantity.
type Line struct {
	ProductID      string `json:"productId"`
	Name           string `json:"name"`
	UnitPriceMinor int64  `json:"unitPriceMinor"`
	ImageRef       string `json:"imageRef"`
	Quantity       int    `json:"quantity"`
}

// AmountMinor is the line's unit price times quantity, saturating at
// math.MaxInt64.
func (l Line) AmountMinor() int64 {
	if l.Quantity <= 0 || l.UnitPriceMinor <= 0 {
		return 0
	}
	if l.UnitPriceMinor > math.MaxInt64/int64(l.Quantity) {
		return math.MaxInt64
	}
	return l.UnitPriceMinor * int64(l.Quantity)
}

// Cart holds lines in insertion order, keyed uniquely by product ID.
type Cart struct {
	lines  []Line
	coupon *Coupon
	fees   []FeeRule
}

// New returns an empty cart. Fee rules are optional and only affect
// Snapshot's fee breakdown and grand total, never Total.
func New(fees ...FeeRule) *Cart {
	return &Cart{fees: fees}
}

// SetFeeRules replaces the cart's fee rules.
func (c *Cart) SetFeeRules(fees ...FeeRule) {
	c.fees = fees
}

func (c *Cart) indexOf(productID string) int {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// AddItem increments the line for p by one, or appends a new line with
// quantity 1. A line already at MaxQuantity is left unchanged.
func (c *Cart) AddItem(p Product) {
	if i := c.indexOf(p.ID); i >= 0 {
		if c.lines[i].Quantity < MaxQuantity {
			c.lines[i].Quantity++
		}
		return
	}
	c.lines = append(c.lines, Line{
		ProductID:      p.ID,
		Name:           p.Name,
		UnitPriceMinor: p.UnitPriceMinor,
		ImageRef:       p.ImageRef,
		Quantity:       1,
	})
}

// SetQuantity sets the quantity of an existing line. A quantity of zero or
// less removes the line and anything above MaxQuantity is clamped to it.
// Unknown product IDs are ignored.
func (c *Cart) SetQuantity(productID string, quantity int) {
	if quantity < 0 {
		quantity = 0
	}
	if quantity > MaxQuantity {
		quantity = MaxQuantity
	}
	i := c.indexOf(productID)
	if i < 0 {
		return
	}
	if quantity == 0 {
		c.removeAt(i)
		return
	}
	c.lines[i].Quantity = quantity
}

// RemoveItem deletes the line for productID if present.
func (c *Cart) RemoveItem(productID string) {
	if i := c.indexOf(productID); i >= 0 {
		c.removeAt(i)
	}
}

func (c *Cart) removeAt(i int) {
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

// ApplyCoupon activates the coupon for code, replacing any active one.
// Unknown codes return ErrUnknownCoupon and leave the cart unchanged.
func (c *Cart) ApplyCoupon(code string) error {
	cp, ok := LookupCoupon(code)
	if !ok {
		return ErrUnknownCoupon
	}
	c.coupon = &cp
	return nil
}

// RemoveCoupon clears the active coupon.
func (c *Cart) RemoveCoupon() {
	c.coupon = nil
}

// Coupon returns the active coupon, if any.
func (c *Cart) Coupon() (Coupon, bool) {
	if c.coupon == nil {
		return Coupon{}, false
	}
	return *c.coupon, true
}

// Deduct removes the given quantities from matching lines, dropping lines
// that reach zero. Lines not in the cart are ignored.
func (c *Cart) Deduct(lines []Line) {
	for _, l := range lines {
		i := c.indexOf(l.ProductID)
		if i < 0 {
			continue
		}
		if c.lines[i].Quantity <= l.Quantity {
			c.removeAt(i)
			continue
		}
		c.lines[i].Quantity -= l.Quantity
	}
}

// Clear empties the cart and drops the active coupon.
func (c *Cart) Clear() {
	c.lines = nil
	c.coupon = nil
}

// Lines returns a copy of the cart's lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Len reports the number of distinct lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// ItemCount is the sum of all line quantities.
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Subtotal is the sum of unit price times quantity over all lines,
// saturating at math.MaxInt64.
func (c *Cart) Subtotal() int64 {
	var sum int64
	for _, l := range c.lines {
		amt := l.AmountMinor()
		if sum > math.MaxInt64-amt {
			return math.MaxInt64
		}
		sum += amt
	}
	return sum
}

// Discount is the subtotal times the active coupon's percentage. It is exact
// and may carry a fractional minor unit.
func (c *Cart) Discount() decimal.Decimal {
	if c.coupon == nil {
		return decimal.Zero
	}
	return decimal.NewFromInt(c.Subtotal()).Mul(c.coupon.Percentage)
}

// Total is the subtotal less the discount.
func (c *Cart) Total() decimal.Decimal {
	return decimal.NewFromInt(c.Subtotal()).Sub(c.Discount())
}
