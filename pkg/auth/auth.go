// Package auth binds a username to the visitor's session and exposes it to
// handlers through the request context.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"storefront/pkg/session"
)

// ErrInvalidCredentials indicates a login without a username.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Identity is the logged-in user.
type Identity struct {
	Username string `json:"username"`
}

type ctxKey struct{}

// WithIdentity stores id in ctx.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the request's identity, or nil for anonymous visitors.
func FromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(ctxKey{}).(*Identity)
	return id
}

// Users is the part of the session store auth depends on.
type Users interface {
	LoadUser(ctx context.Context, sid string) (string, error)
	SaveUser(ctx context.Context, sid, username string) error
	DeleteUser(ctx context.Context, sid string) error
}

// Service logs session holders in and out.
type Service struct {
	users    Users
	accounts map[string]string
}

// New creates a Service. accounts maps usernames to bcrypt hashes; when it
// is empty any non-empty username may log in without a password.
func New(users Users, accounts map[string]string) *Service {
	return &Service{users: users, accounts: accounts}
}

// HasAccounts reports whether logins are checked against configured
// accounts. Without accounts a login is only a display name.
func (s *Service) HasAccounts() bool {
	return len(s.accounts) > 0
}

// Login checks the credentials and binds username to sid.
func (s *Service) Login(ctx context.Context, sid, username, password string) (*Identity, error) {
	username = strings.TrimSpace(username)
	if username == "" || sid == "" {
		return nil, ErrInvalidCredentials
	}
	if len(s.accounts) > 0 {
		hash, ok := s.accounts[username]
		if !ok || !CheckPassword(hash, password) {
			return nil, ErrInvalidCredentials
		}
	}
	if err := s.users.SaveUser(ctx, sid, username); err != nil {
		return nil, err
	}
	return &Identity{Username: username}, nil
}

// Logout removes the binding for sid.
func (s *Service) Logout(ctx context.Context, sid string) error {
	return s.users.DeleteUser(ctx, sid)
}

// Optional attaches the identity bound to the request's session, if any.
// The session ID must already be in the context.
func (s *Service) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid := session.IDFromContext(r.Context())
		if sid == "" {
			next.ServeHTTP(w, r)
			return
		}
		user, err := s.users.LoadUser(r.Context(), sid)
		if err != nil || user == "" {
			next.ServeHTTP(w, r)
			return
		}
		ctx := WithIdentity(r.Context(), &Identity{Username: user})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Required rejects anonymous requests with 401. It expects Optional to have
// run first.
func Required(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if FromContext(r.Context()) == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
