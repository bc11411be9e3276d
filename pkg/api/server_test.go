package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/pkg/auth"
	"storefront/pkg/booking"
	"storefront/pkg/cart"
	"storefront/pkg/catalog"
	"storefront/pkg/checkout"
	"storefront/pkg/logger"
	"storefront/pkg/order"
	ordermem "storefront/pkg/order/memory"
	"storefront/pkg/relay"
	"storefront/pkg/session"
	sessionmem "storefront/pkg/session/memory"
)

type fakeRelay struct {
	err      error
	subs     []relay.Submission
	onSubmit func()
}

func (f *fakeRelay) Submit(ctx context.Context, s relay.Submission) error {
	f.subs = append(f.subs, s)
	if f.onSubmit != nil {
		f.onSubmit()
	}
	return f.err
}

// slowStore stretches every cart update so concurrent requests overlap.
type slowStore struct {
	session.Store
	delay time.Duration
}

func (s slowStore) UpdateCart(ctx context.Context, sid string, fn session.UpdateFunc) (*cart.Cart, error) {
	return s.Store.UpdateCart(ctx, sid, func(c *cart.Cart) error {
		time.Sleep(s.delay)
		return fn(c)
	})
}

type testEnv struct {
	t       *testing.T
	handler http.Handler
	relay   *fakeRelay
	orders  *ordermem.Repository
	store   *sessionmem.Store
	cookie  *http.Cookie
}

// withAccounts configures password logins for the given username/password
// pairs.
func withAccounts(t *testing.T, creds map[string]string) func(*Deps) {
	t.Helper()
	accounts := make(map[string]string, len(creds))
	for user, pw := range creds {
		hash, err := auth.HashPassword(pw)
		require.NoError(t, err)
		accounts[user] = hash
	}
	return func(d *Deps) {
		d.Auth = auth.New(d.Sessions, accounts)
	}
}

// client returns a second browser against the same server.
func (e *testEnv) client() *testEnv {
	c := *e
	c.cookie = nil
	return &c
}

func newEnv(t *testing.T, deps ...func(*Deps)) *testEnv {
	t.Helper()
	log := logger.New(&bytes.Buffer{}, logger.LevelDebug, "test", nil)
	store := sessionmem.New(session.TTL{Cart: time.Hour, Contact: time.Hour, Login: time.Hour})
	r := &fakeRelay{}
	orders := ordermem.New()
	d := Deps{
		Catalog:  catalog.Default(),
		Sessions: store,
		Auth:     auth.New(store, nil),
		Checkout: checkout.New(r, orders, log, "₹"),
		Booking:  booking.New(r, log),
		Orders:   orders,
		Currency: "₹",
		Log:      log,
	}
	for _, fn := range deps {
		fn(&d)
	}
	return &testEnv{t: t, handler: New(d).Router(), relay: r, orders: orders, store: store}
}

// do sends a request, carrying the session cookie between calls like a
// browser would.
func (e *testEnv) do(method, path string, body any) *httptest.ResponseRecorder {
	e.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(e.t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if e.cookie != nil {
		req.AddCookie(e.cookie)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			e.cookie = c
		}
	}
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

var validCustomer = order.Customer{
	Name: "Asha Rao", Email: "asha@example.com", Phone: "9876543210",
	Address: "12 MG Road, Bengaluru", PostalCode: "560001",
}

func TestSessionCookieIssuedAndReused(t *testing.T) {
	e := newEnv(t)
	rec := e.do(http.MethodGet, "/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, e.cookie)
	first := e.cookie.Value
	assert.True(t, session.ValidID(first))
	assert.True(t, e.cookie.HttpOnly)

	e.do(http.MethodGet, "/cart", nil)
	assert.Equal(t, first, e.cookie.Value)

	e.cookie = &http.Cookie{Name: session.CookieName, Value: "forged"}
	e.do(http.MethodGet, "/cart", nil)
	assert.NotEqual(t, "forged", e.cookie.Value)
}

func TestCartFlow(t *testing.T) {
	e := newEnv(t)

	rec := e.do(http.MethodPost, "/cart/items", addItemRequest{ProductID: "1"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = e.do(http.MethodPost, "/cart/items", addItemRequest{ProductID: "1"})
	require.Equal(t, http.StatusOK, rec.Code)

	v := decodeBody[cartView](t, rec)
	require.Len(t, v.Lines, 1)
	assert.Equal(t, 2, v.Lines[0].Quantity)
	assert.Equal(t, int64(19998), v.SubtotalMinor)
	assert.Equal(t, "₹199.98", v.Subtotal)

	rec = e.do(http.MethodPost, "/cart/coupon", couponRequest{Code: "save35"})
	require.Equal(t, http.StatusOK, rec.Code)
	v = decodeBody[cartView](t, rec)
	assert.Equal(t, "SAVE35", v.Coupon)
	assert.Equal(t, "6999.3", v.DiscountMinor.String())
	assert.Equal(t, "12998.7", v.TotalMinor.String())
	assert.Equal(t, "₹129.99", v.Total)

	rec = e.do(http.MethodPut, "/cart/items/1", map[string]int{"quantity": 5})
	v = decodeBody[cartView](t, rec)
	assert.Equal(t, 5, v.ItemCount)

	rec = e.do(http.MethodPut, "/cart/items/1", map[string]int{"quantity": 0})
	v = decodeBody[cartView](t, rec)
	assert.Empty(t, v.Lines)
	assert.Equal(t, "SAVE35", v.Coupon, "coupon stays until removed")

	rec = e.do(http.MethodDelete, "/cart/coupon", nil)
	v = decodeBody[cartView](t, rec)
	assert.Empty(t, v.Coupon)
}

func TestCartErrors(t *testing.T) {
	e := newEnv(t)

	rec := e.do(http.MethodPost, "/cart/items", addItemRequest{ProductID: "999"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = e.do(http.MethodPost, "/cart/items", "{")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do(http.MethodPut, "/cart/items/1", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do(http.MethodPost, "/cart/coupon", couponRequest{Code: "FREE100"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, cart.ErrUnknownCoupon.Error(), decodeBody[errorResponse](t, rec).Error)
}

func TestRemoveAndClear(t *testing.T) {
	e := newEnv(t)
	e.do(http.MethodPost, "/cart/items", addItemRequest{ProductID: "1"})
	e.do(http.MethodPost, "/cart/items", addItemRequest{ProductID: "2"})

	rec := e.do(http.MethodDelete, "/cart/items/1", nil)
	v := decodeBody[cartView](t, rec)
	require.Len(t, v.Lines, 1)
	assert.Equal(t, "2", v.Lines[0].ProductID)

	rec = e.do(http.MethodDelete, "/cart", nil)
	assert.Empty(t, decodeBody[cartView](t, rec).Lines)
	assert.Empty(t, decodeBody[cartView](t, e.do(http.MethodGet, "/cart", nil)).Lines)
}

func TestFeeRulesShowInView(t *testing.T) {
	e := newEnv(t, func(d *Deps) {
		d.FeeRules = []cart.FeeRule{cart.FlatShipping{AmountMinor: 4900}}
	})
	rec := e.do(http.MethodPost, "/cart/items", addItemRequest{ProductID: "1"})
	v := decodeBody[cartView](t, rec)
	assert.Equal(t, "9999", v.TotalMinor.String())
	require.Len(t, v.Fees, 1)
	assert.Equal(t, "₹49.00", v.Fees[0].Display)
	assert.Equal(t, "₹148.99", v.GrandTotalFmt)
}

func TestProducts(t *testing.T) {
	e := newEnv(t)

	rec := e.do(http.MethodGet, "/products?category=skincare", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody[[]productView](t, rec)
	require.NotEmpty(t, list)
	for _, p := range list {
		assert.Equal(t, "Skincare", p.Category)
		assert.True(t, strings.HasPrefix(p.Price, "₹"))
	}

	rec = e.do(http.MethodGet, "/products/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", decodeBody[productView](t, rec).ID)

	assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, "/products/nope", nil).Code)

	cats := decodeBody[[]string](t, e.do(http.MethodGet, "/categories", nil))
	assert.Equal(t, catalog.AllCategories, cats[0])
}

func TestLoginShowsUserAndKeepsCart(t *testing.T) {
	e := newEnv(t)
	e.do(http.MethodPost, "/cart/items", addItemRequest{ProductID: "1"})
	anonymous := e.cookie.Value

	assert.False(t, decodeBody[meResponse](t, e.do(http.MethodGet, "/me", nil)).Authenticated)

	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodPost, "/login", loginRequest{}).Code)
	rec := e.do(http.MethodPost, "/login", loginRequest{Username: "asha", Password: "x"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, rec.Result().Cookies(), 1)
	assert.NotEqual(t, anonymous, e.cookie.Value, "login issues a fresh session ID")
	assert.True(t, session.ValidID(e.cookie.Value))

	stale := e.client()
	stale.cookie = &http.Cookie{Name: session.CookieName, Value: anonymous}
	assert.Empty(t, decodeBody[cartView](t, stale.do(http.MethodGet, "/cart", nil)).Lines, "old session ID keeps nothing")

	me := decodeBody[meResponse](t, e.do(http.MethodGet, "/me", nil))
	assert.Equal(t, meResponse{Authenticated: true, Username: "asha"}, me)

	v := decodeBody[cartView](t, e.do(http.MethodGet, "/cart", nil))
	require.NotNil(t, v.User)
	assert.Equal(t, "asha", v.User.Username)
	assert.Equal(t, 1, v.ItemCount)

	assert.Equal(t, http.StatusNoContent, e.do(http.MethodPost, "/logout", nil).Code)
	v = decodeBody[cartView](t, e.do(http.MethodGet, "/cart", nil))
	assert.Nil(t, v.User)
	assert.Equal(t, 1, v.ItemCount)
}

func TestCheckout(t *testing.T) {
	e := newEnv(t, withAccounts(t, map[string]string{"asha": "s3cret"}))
	require.Equal(t, http.StatusOK, e.do(http.MethodPost, "/login", loginRequest{Username: "asha", Password: "s3cret"}).Code)
	e.do(http.MethodPost, "/cart/items", addItemRequest{ProductID: "1"})

	rec := e.do(http.MethodPost, "/checkout", validCustomer)
	require.Equal(t, http.StatusCreated, rec.Code)
	o := decodeBody[order.Order](t, rec)
	assert.Equal(t, order.StatusConfirmed, o.Status)
	assert.Equal(t, "asha", o.Username)
	require.Len(t, e.relay.subs, 1)

	assert.Empty(t, decodeBody[cartView](t, e.do(http.MethodGet, "/cart", nil)).Lines)

	contact := decodeBody[order.Customer](t, e.do(http.MethodGet, "/checkout/contact", nil))
	assert.Equal(t, validCustomer, contact)

	list := decodeBody[[]order.Order](t, e.do(http.MethodGet, "/orders", nil))
	require.Len(t, list, 1)
	assert.Equal(t, o.ID, list[0].ID)
}

func TestCheckoutRelayFailureKeepsCart(t *testing.T) {
	e := newEnv(t)
	e.relay.err = relay.ErrRejected
	e.do(http.MethodPost, "/cart/items", addItemRequest{ProductID: "1"})

	rec := e.do(http.MethodPost, "/checkout", validCustomer)
	require.Equal(t, http.StatusBadGateway, rec.Code)
	body := decodeBody[errorResponse](t, rec)
	require.NotEmpty(t, body.OrderID)

	assert.Equal(t, 1, decodeBody[cartView](t, e.do(http.MethodGet, "/cart", nil)).ItemCount)

	stored, err := e.orders.Get(context.Background(), body.OrderID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusFailed, stored.Status)

	e.relay.err = nil
	assert.Equal(t, http.StatusCreated, e.do(http.MethodPost, "/checkout", validCustomer).Code)
}

func TestCheckoutValidation(t *testing.T) {
	e := newEnv(t)

	rec := e.do(http.MethodPost, "/checkout", validCustomer)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, checkout.ErrEmptyCart.Error(), decodeBody[errorResponse](t, rec).Error)

	e.do(http.MethodPost, "/cart/items", addItemRequest{ProductID: "1"})
	bad := validCustomer
	bad.PostalCode = ""
	rec = e.do(http.MethodPost, "/checkout", bad)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decodeBody[errorResponse](t, rec).Fields, "postalCode")
	assert.Empty(t, e.relay.subs)
}

func TestOrdersRequireLoginAndOwnership(t *testing.T) {
	e := newEnv(t, withAccounts(t, map[string]string{"asha": "s3cret"}))
	assert.Equal(t, http.StatusUnauthorized, e.do(http.MethodGet, "/orders", nil).Code)

	require.NoError(t, e.orders.Create(context.Background(), order.Order{ID: "theirs", Username: "someone"}))
	require.NoError(t, e.orders.Create(context.Background(), order.Order{ID: "mine", Username: "asha"}))

	e.do(http.MethodPost, "/login", loginRequest{Username: "asha", Password: "s3cret"})
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, "/orders/theirs", nil).Code)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodDelete, "/orders/theirs", nil).Code)
	assert.Equal(t, http.StatusOK, e.do(http.MethodGet, "/orders/mine", nil).Code)

	assert.Equal(t, http.StatusNoContent, e.do(http.MethodDelete, "/orders/mine", nil).Code)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, "/orders/mine", nil).Code)
}

func TestBookings(t *testing.T) {
	e := newEnv(t)

	list := decodeBody[[]booking.Treatment](t, e.do(http.MethodGet, "/treatments", nil))
	assert.Len(t, list, len(booking.Treatments()))

	a := booking.Appointment{
		Name: "Meera", Email: "meera@example.com", Phone: "9876543210",
		Treatment: "Bridal Makeup", Date: time.Now().AddDate(0, 0, 7).Format("2006-01-02"),
		Time: "11:00", Message: "Wedding in June",
	}
	assert.Equal(t, http.StatusAccepted, e.do(http.MethodPost, "/bookings", a).Code)
	require.Len(t, e.relay.subs, 1)
	assert.Equal(t, booking.Subject, e.relay.subs[0].Subject)

	a.Time = "22:00"
	rec := e.do(http.MethodPost, "/bookings", a)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decodeBody[errorResponse](t, rec).Fields, "time")

	a.Time = "11:00"
	e.relay.err = relay.ErrRejected
	assert.Equal(t, http.StatusBadGateway, e.do(http.MethodPost, "/bookings", a).Code)
}

func TestHealth(t *testing.T) {
	e := newEnv(t, func(d *Deps) {
		d.HealthChecks = map[string]HealthCheck{
			"redis": func(context.Context) error { return nil },
		}
	})
	rec := e.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, e.cookie, "health checks do not open sessions")

	e = newEnv(t, func(d *Deps) {
		d.HealthChecks = map[string]HealthCheck{
			"postgres": func(context.Context) error { return errors.New("connection refused") },
		}
	})
	rec = e.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "connection refused", decodeBody[healthResponse](t, rec).Checks["postgres"])
}

func TestConcurrentAddsAreNotLost(t *testing.T) {
	e := newEnv(t, func(d *Deps) {
		d.Sessions = slowStore{Store: d.Sessions, delay: 5 * time.Millisecond}
	})
	e.do(http.MethodGet, "/cart", nil)
	cookie := e.cookie

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			body := strings.NewReader(`{"productId":"1"}`)
			req := httptest.NewRequest(http.MethodPost, "/cart/items", body)
			req.AddCookie(cookie)
			rec := httptest.NewRecorder()
			e.handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusOK, rec.Code)
		}()
	}
	wg.Wait()

	v := decodeBody[cartView](t, e.do(http.MethodGet, "/cart", nil))
	assert.Equal(t, 10, v.ItemCount)
}

func TestSetQuantityRejectsHugeQuantity(t *testing.T) {
	e := newEnv(t)
	e.do(http.MethodPost, "/cart/items", addItemRequest{ProductID: "1"})

	rec := e.do(http.MethodPut, "/cart/items/1", map[string]int{"quantity": 1_000_000_000_000_000})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do(http.MethodPut, "/cart/items/1", map[string]int{"quantity": cart.MaxQuantity})
	require.Equal(t, http.StatusOK, rec.Code)
	v := decodeBody[cartView](t, rec)
	assert.Equal(t, cart.MaxQuantity, v.ItemCount)
	assert.True(t, v.TotalMinor.IsPositive())

	e.do(http.MethodPost, "/cart/items", addItemRequest{ProductID: "1"})
	assert.Equal(t, cart.MaxQuantity, decodeBody[cartView](t, e.do(http.MethodGet, "/cart", nil)).ItemCount)

	assert.Equal(t, http.StatusCreated, e.do(http.MethodPost, "/checkout", validCustomer).Code)
}

func TestCheckoutKeepsItemsAddedDuringRelay(t *testing.T) {
	e := newEnv(t)
	e.do(http.MethodPost, "/cart/items", addItemRequest{ProductID: "1"})
	sid := e.cookie.Value
	e.relay.onSubmit = func() {
		_, err := e.store.UpdateCart(context.Background(), sid, func(c *cart.Cart) error {
			p, err := catalog.Default().Get("2")
			if err != nil {
				return err
			}
			c.AddItem(p)
			return nil
		})
		require.NoError(t, err)
	}

	rec := e.do(http.MethodPost, "/checkout", validCustomer)
	require.Equal(t, http.StatusCreated, rec.Code)
	o := decodeBody[order.Order](t, rec)
	require.Len(t, o.Lines, 1)
	assert.Equal(t, "1", o.Lines[0].ProductID)

	v := decodeBody[cartView](t, e.do(http.MethodGet, "/cart", nil))
	require.Len(t, v.Lines, 1)
	assert.Equal(t, "2", v.Lines[0].ProductID)
}

func TestOrdersHiddenWithoutAccounts(t *testing.T) {
	e := newEnv(t)
	e.do(http.MethodPost, "/login", loginRequest{Username: "alice"})
	e.do(http.MethodPost, "/cart/items", addItemRequest{ProductID: "1"})
	require.Equal(t, http.StatusCreated, e.do(http.MethodPost, "/checkout", validCustomer).Code)

	intruder := e.client()
	require.Equal(t, http.StatusOK, intruder.do(http.MethodPost, "/login", loginRequest{Username: "alice"}).Code)
	assert.Equal(t, http.StatusNotFound, intruder.do(http.MethodGet, "/orders", nil).Code)
}

func TestOrdersNeedPasswordWithAccounts(t *testing.T) {
	e := newEnv(t, withAccounts(t, map[string]string{"alice": "wonderland"}))
	e.do(http.MethodPost, "/login", loginRequest{Username: "alice", Password: "wonderland"})
	e.do(http.MethodPost, "/cart/items", addItemRequest{ProductID: "1"})
	require.Equal(t, http.StatusCreated, e.do(http.MethodPost, "/checkout", validCustomer).Code)
	require.Len(t, decodeBody[[]order.Order](t, e.do(http.MethodGet, "/orders", nil)), 1)

	intruder := e.client()
	assert.Equal(t, http.StatusBadRequest, intruder.do(http.MethodPost, "/login", loginRequest{Username: "alice"}).Code)
	assert.Equal(t, http.StatusUnauthorized, intruder.do(http.MethodGet, "/orders", nil).Code)
}

func TestLoginDoesNotAdoptPlantedSessionID(t *testing.T) {
	e := newEnv(t, withAccounts(t, map[string]string{"alice": "wonderland"}))
	attacker := e.client()
	attacker.do(http.MethodGet, "/cart", nil)
	planted := attacker.cookie

	victim := e.client()
	victim.cookie = planted
	require.Equal(t, http.StatusOK, victim.do(http.MethodPost, "/login", loginRequest{Username: "alice", Password: "wonderland"}).Code)
	assert.NotEqual(t, planted.Value, victim.cookie.Value)

	assert.False(t, decodeBody[meResponse](t, attacker.do(http.MethodGet, "/me", nil)).Authenticated)
	assert.Equal(t, http.StatusUnauthorized, attacker.do(http.MethodGet, "/orders", nil).Code)
}
