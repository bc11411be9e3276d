// Package api exposes the storefront over HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"storefront/pkg/auth"
	"storefront/pkg/booking"
	"storefront/pkg/cart"
	"storefront/pkg/catalog"
	"storefront/pkg/checkout"
	"storefront/pkg/logger"
	"storefront/pkg/order"
	sotel "storefront/pkg/otel"
	"storefront/pkg/session"
)

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Deps are the collaborators a Server needs.
type Deps struct {
	Catalog  *catalog.Catalog
	Sessions session.Store
	Auth     *auth.Service
	Checkout *checkout.Service
	Booking  *booking.Service
	Orders   order.Repository
	FeeRules []cart.FeeRule
	Currency string
	Log      *logger.Logger
	Tracer   trace.Tracer

	// CookieTTL bounds the session cookie's lifetime.
	CookieTTL     time.Duration
	SecureCookies bool
	HealthChecks  map[string]HealthCheck
}

// Server holds HTTP handlers.
type Server struct {
	Deps
}

// New creates a Server.
func New(d Deps) *Server {
	if d.Tracer == nil {
		d.Tracer = otel.GetTracerProvider().Tracer("storefront")
	}
	if d.CookieTTL <= 0 {
		d.CookieTTL = 30 * 24 * time.Hour
	}
	return &Server{Deps: d}
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.traceMiddleware)
	r.HandleFunc("/healthz", s.healthHandler).Methods(http.MethodGet)
	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	app := r.PathPrefix("/").Subrouter()
	app.Use(s.sessionMiddleware, s.Auth.Optional)

	app.HandleFunc("/login", s.loginHandler).Methods(http.MethodPost)
	app.HandleFunc("/logout", s.logoutHandler).Methods(http.MethodPost)
	app.HandleFunc("/me", s.meHandler).Methods(http.MethodGet)

	app.HandleFunc("/categories", s.listCategoriesHandler).Methods(http.MethodGet)
	app.HandleFunc("/products", s.listProductsHandler).Methods(http.MethodGet)
	app.HandleFunc("/products/{id}", s.getProductHandler).Methods(http.MethodGet)

	app.HandleFunc("/cart", s.getCartHandler).Methods(http.MethodGet)
	app.HandleFunc("/cart", s.clearCartHandler).Methods(http.MethodDelete)
	app.HandleFunc("/cart/items", s.addItemHandler).Methods(http.MethodPost)
	app.HandleFunc("/cart/items/{id}", s.setQuantityHandler).Methods(http.MethodPut)
	app.HandleFunc("/cart/items/{id}", s.removeItemHandler).Methods(http.MethodDelete)
	app.HandleFunc("/cart/coupon", s.applyCouponHandler).Methods(http.MethodPost)
	app.HandleFunc("/cart/coupon", s.removeCouponHandler).Methods(http.MethodDelete)

	app.HandleFunc("/checkout/contact", s.getContactHandler).Methods(http.MethodGet)
	app.HandleFunc("/checkout", s.checkoutHandler).Methods(http.MethodPost)

	app.HandleFunc("/treatments", s.listTreatmentsHandler).Methods(http.MethodGet)
	app.HandleFunc("/bookings", s.bookHandler).Methods(http.MethodPost)

	// Order history holds customer contact details, so it is only served
	// when logins are backed by passwords.
	if s.Auth.HasAccounts() {
		orders := app.PathPrefix("/orders").Subrouter()
		orders.Use(auth.Required)
		orders.HandleFunc("", s.listOrdersHandler).Methods(http.MethodGet)
		orders.HandleFunc("/{id}", s.getOrderHandler).Methods(http.MethodGet)
		orders.HandleFunc("/{id}", s.deleteOrderHandler).Methods(http.MethodDelete)
	}

	return r
}

func (s *Server) traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		ctx = sotel.InjectTracing(ctx, s.Tracer)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionMiddleware ensures every request carries a session ID, issuing a
// new cookie when the visitor has none or presents a malformed one.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sid string
		if c, err := r.Cookie(session.CookieName); err == nil && session.ValidID(c.Value) {
			sid = c.Value
		} else {
			sid = session.NewID()
		}
		s.setSessionCookie(w, sid)
		next.ServeHTTP(w, r.WithContext(session.WithID(r.Context(), sid)))
	})
}

// setSessionCookie replaces any session cookie already queued on w.
func (s *Server) setSessionCookie(w http.ResponseWriter, sid string) {
	w.Header().Del("Set-Cookie")
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    sid,
		Path:     "/",
		Expires:  time.Now().Add(s.CookieTTL),
		HttpOnly: true,
		Secure:   s.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// healthHandler reports dependency status.
// @Summary Health check
// @Produce json
// @Success 200 {object} healthResponse
// @Failure 503 {object} healthResponse
// @Router /healthz [get]
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{Status: "ok", Checks: map[string]string{}}
	status := http.StatusOK
	for name, check := range s.HealthChecks {
		if err := check(ctx); err != nil {
			s.Log.Warn(ctx, "health check failed", "check", name, "error", err)
			resp.Checks[name] = err.Error()
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}
	writeJSON(w, status, resp)
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// errorResponse is the body of every non-2xx reply.
type errorResponse struct {
	Error   string            `json:"error"`
	Fields  map[string]string `json:"fields,omitempty"`
	OrderID string            `json:"orderId,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	return dec.Decode(v)
}
