package api

import (
	"github.com/shopspring/decimal"

	"storefront/pkg/auth"
	"storefront/pkg/cart"
	"storefront/pkg/money"
)

// lineView is a cart line prepared for display.
type lineView struct {
	cart.Line
	AmountMinor int64  `json:"amountMinor"`
	UnitPrice   string `json:"unitPrice"`
	Amount      string `json:"amount"`
}

type feeView struct {
	cart.Fee
	Display string `json:"display"`
}

// cartView is what the cart page renders: lines, totals in minor units and
// formatted, and the logged-in user if any.
type cartView struct {
	Lines         []lineView      `json:"lines"`
	Coupon        string          `json:"coupon,omitempty"`
	ItemCount     int             `json:"itemCount"`
	SubtotalMinor int64           `json:"subtotalMinor"`
	DiscountMinor decimal.Decimal `json:"discountMinor"`
	TotalMinor    decimal.Decimal `json:"totalMinor"`
	Fees          []feeView       `json:"fees,omitempty"`
	GrandTotal    decimal.Decimal `json:"grandTotalMinor"`
	Subtotal      string          `json:"subtotal"`
	Discount      string          `json:"discount"`
	Total         string          `json:"total"`
	GrandTotalFmt string          `json:"grandTotal"`
	User          *auth.Identity  `json:"user,omitempty"`
}

func (s *Server) cartView(c *cart.Cart, id *auth.Identity) cartView {
	snap := c.Snapshot()
	v := cartView{
		Lines:         make([]lineView, 0, len(snap.Lines)),
		Coupon:        snap.CouponCode,
		ItemCount:     snap.ItemCount,
		SubtotalMinor: snap.SubtotalMinor,
		DiscountMinor: snap.Discount,
		TotalMinor:    snap.Total,
		GrandTotal:    snap.GrandTotal,
		Subtotal:      money.FormatMinor(snap.SubtotalMinor, s.Currency),
		Discount:      money.Format(snap.Discount, s.Currency),
		Total:         money.Format(snap.Total, s.Currency),
		GrandTotalFmt: money.Format(snap.GrandTotal, s.Currency),
		User:          id,
	}
	for _, l := range snap.Lines {
		v.Lines = append(v.Lines, lineView{
			Line:        l,
			AmountMinor: l.AmountMinor(),
			UnitPrice:   money.FormatMinor(l.UnitPriceMinor, s.Currency),
			Amount:      money.FormatMinor(l.AmountMinor(), s.Currency),
		})
	}
	for _, f := range snap.Fees {
		v.Fees = append(v.Fees, feeView{Fee: f, Display: money.Format(f.Amount, s.Currency)})
	}
	return v
}
