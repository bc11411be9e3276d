// Package session stores per-visitor state keyed by the session cookie: the
// cart, the remembered checkout contact and the logged-in username.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"storefront/pkg/cart"
	"storefront/pkg/order"
)

// CookieName is the cookie carrying the session ID.
const CookieName = "session_id"

var (
	// ErrNotFound indicates the session has no value for the requested key.
	ErrNotFound = errors.New("session value not found")
	// ErrConflict is returned when a cart update kept racing with other
	// writers and gave up.
	ErrConflict = errors.New("session cart modified concurrently")
)

// UpdateFunc mutates a cart in place. Returning an error aborts the update.
type UpdateFunc func(c *cart.Cart) error

// Store persists session state. LoadCart never reports a missing cart; it
// returns an empty one instead.
//
// UpdateCart is the read-modify-write path: fn runs against the stored cart
// and the result is written back atomically with respect to other
// UpdateCart, SaveCart and DeleteCart calls on the same session.
type Store interface {
	LoadCart(ctx context.Context, sid string) (*cart.Cart, error)
	UpdateCart(ctx context.Context, sid string, fn UpdateFunc) (*cart.Cart, error)
	SaveCart(ctx context.Context, sid string, c *cart.Cart) error
	DeleteCart(ctx context.Context, sid string) error

	LoadContact(ctx context.Context, sid string) (order.Customer, error)
	SaveContact(ctx context.Context, sid string, cust order.Customer) error

	LoadUser(ctx context.Context, sid string) (string, error)
	SaveUser(ctx context.Context, sid, username string) error
	DeleteUser(ctx context.Context, sid string) error
}

// TTL holds the expiry of each kind of session value. Expiry slides forward
// whenever a value is read or written.
type TTL struct {
	Cart    time.Duration
	Contact time.Duration
	Login   time.Duration
}

// Key helpers shared by the store implementations.
func CartKey(sid string) string    { return "cart:" + sid }
func ContactKey(sid string) string { return "contact:" + sid }
func UserKey(sid string) string    { return "session:" + sid }

// NewID issues a fresh session ID.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether sid looks like an ID issued by NewID.
func ValidID(sid string) bool {
	_, err := uuid.Parse(sid)
	return err == nil
}

// Move transfers the cart and remembered contact from one session ID to
// another and drops everything left under the old ID, including any login.
func Move(ctx context.Context, st Store, from, to string) error {
	c, err := st.LoadCart(ctx, from)
	if err != nil {
		return err
	}
	if !c.IsEmpty() {
		if err := st.SaveCart(ctx, to, c); err != nil {
			return err
		}
	}
	cust, err := st.LoadContact(ctx, from)
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		return err
	default:
		if err := st.SaveContact(ctx, to, cust); err != nil {
			return err
		}
	}
	if err := st.DeleteCart(ctx, from); err != nil {
		return err
	}
	return st.DeleteUser(ctx, from)
}

type ctxKey struct{}

// WithID stores the session ID in ctx.
func WithID(ctx context.Context, sid string) context.Context {
	return context.WithValue(ctx, ctxKey{}, sid)
}

// IDFromContext returns the session ID stored by WithID, or "".
func IDFromContext(ctx context.Context) string {
	sid, _ := ctx.Value(ctxKey{}).(string)
	return sid
}
