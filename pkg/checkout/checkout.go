// Package checkout turns a session's cart into an order and hands it to the
// form relay.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"storefront/pkg/cart"
	"storefront/pkg/logger"
	"storefront/pkg/money"
	"storefront/pkg/order"
	"storefront/pkg/otel"
	"storefront/pkg/relay"
)

var (
	// ErrEmptyCart indicates checkout was attempted with no lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidTotal indicates the cart's subtotal is not a payable amount.
	ErrInvalidTotal = errors.New("cart total is out of range")
)

// Subject is the relay subject for order submissions.
const Subject = "New order"

// Service places orders.
type Service struct {
	relay  relay.Submitter
	orders order.Repository
	log    *logger.Logger
	symbol string
	now    func() time.Time
	newID  func() string
}

// New creates a checkout service. symbol is the currency symbol used in the
// relayed order summary.
func New(r relay.Submitter, orders order.Repository, log *logger.Logger, symbol string) *Service {
	if symbol == "" {
		symbol = money.DefaultSymbol
	}
	return &Service{
		relay:  r,
		orders: orders,
		log:    log,
		symbol: symbol,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// PlaceOrder validates cust, records a pending order from a snapshot of c and
// submits it to the relay. On success the order is confirmed and c is
// cleared. If the relay fails the order is marked failed, c is left intact so
// the shopper can retry, and the failed order is returned with the error.
func (s *Service) PlaceOrder(ctx context.Context, sessionID, username string, c *cart.Cart, cust order.Customer) (order.Order, error) {
	ctx, span := otel.AddSpan(ctx, "checkout.PlaceOrder")
	defer span.End()

	if c == nil || c.IsEmpty() {
		return order.Order{}, ErrEmptyCart
	}
	if sub := c.Subtotal(); sub <= 0 || sub == math.MaxInt64 {
		return order.Order{}, ErrInvalidTotal
	}
	cust = NormalizeCustomer(cust)
	if err := ValidateCustomer(cust); err != nil {
		return order.Order{}, err
	}

	o := order.FromSnapshot(s.newID(), c.Snapshot(), cust, s.now())
	o.SessionID = sessionID
	o.Username = username
	span.SetAttributes(attribute.String("order.id", o.ID), attribute.Int("order.items", c.ItemCount()))

	if err := s.orders.Create(ctx, o); err != nil {
		return order.Order{}, fmt.Errorf("recording order: %w", err)
	}

	if err := s.relay.Submit(ctx, s.submission(o)); err != nil {
		s.log.Warn(ctx, "order relay failed", "order_id", o.ID, "error", err)
		o.Status = order.StatusFailed
		if uerr := s.orders.Update(ctx, o); uerr != nil {
			s.log.Error(ctx, "mark order failed", "order_id", o.ID, "error", uerr)
		}
		return o, fmt.Errorf("submitting order %s: %w", o.ID, err)
	}

	o.Status = order.StatusConfirmed
	if err := s.orders.Update(ctx, o); err != nil {
		s.log.Error(ctx, "mark order confirmed", "order_id", o.ID, "error", err)
	}
	c.Clear()
	s.log.Info(ctx, "order placed", "order_id", o.ID, "total", o.Total.String())
	return o, nil
}

func (s *Service) submission(o order.Order) relay.Submission {
	var items strings.Builder
	for _, l := range o.Lines {
		fmt.Fprintf(&items, "%s x%d = %s\n", l.Name, l.Quantity, money.FormatMinor(l.AmountMinor(), s.symbol))
	}
	fields := map[string]string{
		"order_id":    o.ID,
		"name":        o.Customer.Name,
		"email":       o.Customer.Email,
		"phone":       o.Customer.Phone,
		"address":     o.Customer.Address,
		"postal_code": o.Customer.PostalCode,
		"items":       strings.TrimSuffix(items.String(), "\n"),
		"item_count":  strconv.Itoa(len(o.Lines)),
		"subtotal":    money.FormatMinor(o.SubtotalMinor, s.symbol),
		"discount":    money.Format(o.Discount, s.symbol),
		"total":       money.Format(o.Total, s.symbol),
		"grand_total": money.Format(o.GrandTotal, s.symbol),
	}
	if o.CouponCode != "" {
		fields["coupon"] = o.CouponCode
	}
	for _, f := range o.Fees {
		fields[f.Name] = money.Format(f.Amount, s.symbol)
	}
	if o.Username != "" {
		fields["username"] = o.Username
	}
	return relay.Submission{Subject: Subject, Fields: fields}
}
