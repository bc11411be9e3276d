package order

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"storefront/pkg/cart"
)

// Status tracks an order through relay submission.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusFailed    Status = "failed"
)

// Customer holds the contact and shipping fields collected at checkout.
type Customer struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	PostalCode string `json:"postalCode"`
}

// Order represents a cart submitted for fulfilment.
type Order struct {
	ID            string          `json:"id"`
	SessionID     string          `json:"-"`
	Username      string          `json:"username,omitempty"`
	Lines         []cart.Line     `json:"lines"`
	CouponCode    string          `json:"couponCode,omitempty"`
	SubtotalMinor int64           `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	Total         decimal.Decimal `json:"total"`
	Fees          []cart.Fee      `json:"fees,omitempty"`
	GrandTotal    decimal.Decimal `json:"grandTotal"`
	Customer      Customer        `json:"customer"`
	Status        Status          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// FromSnapshot builds a pending order from a cart snapshot.
func FromSnapshot(id string, snap cart.Snapshot, cust Customer, now time.Time) Order {
	return Order{
		ID:            id,
		Lines:         snap.Lines,
		CouponCode:    snap.CouponCode,
		SubtotalMinor: snap.SubtotalMinor,
		Discount:      snap.Discount,
		Total:         snap.Total,
		Fees:          snap.Fees,
		GrandTotal:    snap.GrandTotal,
		Customer:      cust,
		Status:        StatusPending,
		CreatedAt:     now.UTC(),
	}
}

// Repository defines behavior for persisting orders.
type Repository interface {
	Create(ctx context.Context, o Order) error
	Get(ctx context.Context, id string) (Order, error)
	List(ctx context.Context) ([]Order, error)
	Update(ctx context.Context, o Order) error
	Delete(ctx context.Context, id string) error
}

var (
	// ErrNotFound indicates the requested order does not exist.
	ErrNotFound = errors.New("order not found")
	// ErrConflict indicates an order with the same ID already exists.
	ErrConflict = errors.New("order already exists")
)
