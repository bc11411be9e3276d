package cart

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Snapshot is an immutable copy of the cart and its totals at one moment,
// handed to checkout and to the display layer.
type Snapshot struct {
	Lines         []Line          `json:"lines"`
	CouponCode    string          `json:"couponCode,omitempty"`
	SubtotalMinor int64           `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	Total         decimal.Decimal `json:"total"`
	Fees          []Fee           `json:"fees,omitempty"`
	GrandTotal    decimal.Decimal `json:"grandTotal"`
	ItemCount     int             `json:"itemCount"`
}

// Snapshot captures the current lines and derived totals.
func (c *Cart) Snapshot() Snapshot {
	s := Snapshot{
		Lines:         c.Lines(),
		SubtotalMinor: c.Subtotal(),
		Discount:      c.Discount(),
		Total:         c.Total(),
		ItemCount:     c.ItemCount(),
	}
	if c.coupon != nil {
		s.CouponCode = c.coupon.Code
	}
	s.GrandTotal = s.Total
	for _, rule := range c.fees {
		amt := rule.Apply(s.SubtotalMinor, s.Total)
		if amt.IsZero() {
			continue
		}
		s.Fees = append(s.Fees, Fee{Name: rule.Name(), Amount: amt})
		s.GrandTotal = s.GrandTotal.Add(amt)
	}
	return s
}

// state is the persisted form of a cart. Fee rules are configuration and are
// not stored.
type state struct {
	Lines  []Line `json:"lines"`
	Coupon string `json:"coupon,omitempty"`
}

// MarshalJSON encodes the cart's lines and coupon code.
func (c *Cart) MarshalJSON() ([]byte, error) {
	st := state{Lines: c.Lines()}
	if c.coupon != nil {
		st.Coupon = c.coupon.Code
	}
	return json.Marshal(st)
}

// UnmarshalJSON restores lines and re-resolves the coupon code. Lines with a
// non-positive quantity or a repeated product ID are merged away so the
// decoded cart keeps its invariants.
func (c *Cart) UnmarshalJSON(data []byte) error {
	var st state
	if err := json.Unmarshal(data, &st); err != nil {
		return err
	}
	c.lines = nil
	for _, l := range st.Lines {
		if l.Quantity <= 0 || l.ProductID == "" {
			continue
		}
		if l.Quantity > MaxQuantity {
			l.Quantity = MaxQuantity
		}
		if i := c.indexOf(l.ProductID); i >= 0 {
			c.lines[i].Quantity = min(c.lines[i].Quantity+l.Quantity, MaxQuantity)
			continue
		}
		c.lines = append(c.lines, l)
	}
	c.coupon = nil
	if cp, ok := LookupCoupon(st.Coupon); ok {
		c.coupon = &cp
	}
	return nil
}
