// Package memory implements session.Store in process memory.
package memory

import (
	"context"
	"encoding/json"
	"hash/fnv"
	"sync"
	"time"

	"storefront/pkg/cart"
	"storefront/pkg/order"
	"storefront/pkg/session"
)

type entry struct {
	value   []byte
	ttl     time.Duration
	expires time.Time
}

const cartStripes = 64

// Store keeps serialized session values in a map with sliding expiry.
type Store struct {
	mu   sync.Mutex
	data map[string]entry
	ttl  session.TTL
	now  func() time.Time

	// carts serializes cart writers per session, striped by key hash.
	carts [cartStripes]sync.Mutex
}

// New creates an empty store.
func New(ttl session.TTL) *Store {
	return &Store{data: make(map[string]entry), ttl: ttl, now: time.Now}
}

func (s *Store) get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.data[key]
	if !ok {
		return nil, false
	}
	now := s.now()
	if e.ttl > 0 && !now.Before(e.expires) {
		delete(s.data, key)
		return nil, false
	}
	if e.ttl > 0 {
		e.expires = now.Add(e.ttl)
		s.data[key] = e
	}
	return e.value, true
}

func (s *Store) set(key string, value []byte, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = entry{value: value, ttl: ttl, expires: s.now().Add(ttl)}
}

func (s *Store) del(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
}

func (s *Store) cartLock(sid string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(sid))
	return &s.carts[h.Sum32()%cartStripes]
}

// LoadCart returns the session's cart or an empty one.
func (s *Store) LoadCart(ctx context.Context, sid string) (*cart.Cart, error) {
	c := cart.New()
	raw, ok := s.get(session.CartKey(sid))
	if !ok {
		return c, nil
	}
	if err := json.Unmarshal(raw, c); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateCart applies fn to the stored cart under the session's cart lock.
func (s *Store) UpdateCart(ctx context.Context, sid string, fn session.UpdateFunc) (*cart.Cart, error) {
	mu := s.cartLock(sid)
	mu.Lock()
	defer mu.Unlock()

	c, err := s.LoadCart(ctx, sid)
	if err != nil {
		return nil, err
	}
	if err := fn(c); err != nil {
		return nil, err
	}
	if err := s.saveCart(sid, c); err != nil {
		return nil, err
	}
	return c, nil
}

// SaveCart stores the cart.
func (s *Store) SaveCart(ctx context.Context, sid string, c *cart.Cart) error {
	mu := s.cartLock(sid)
	mu.Lock()
	defer mu.Unlock()
	return s.saveCart(sid, c)
}

func (s *Store) saveCart(sid string, c *cart.Cart) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	s.set(session.CartKey(sid), raw, s.ttl.Cart)
	return nil
}

// DeleteCart drops the cart.
func (s *Store) DeleteCart(ctx context.Context, sid string) error {
	mu := s.cartLock(sid)
	mu.Lock()
	defer mu.Unlock()
	s.del(session.CartKey(sid))
	return nil
}

// LoadContact returns the remembered checkout contact.
func (s *Store) LoadContact(ctx context.Context, sid string) (order.Customer, error) {
	var cust order.Customer
	raw, ok := s.get(session.ContactKey(sid))
	if !ok {
		return cust, session.ErrNotFound
	}
	err := json.Unmarshal(raw, &cust)
	return cust, err
}

// SaveContact remembers the checkout contact.
func (s *Store) SaveContact(ctx context.Context, sid string, cust order.Customer) error {
	raw, err := json.Marshal(cust)
	if err != nil {
		return err
	}
	s.set(session.ContactKey(sid), raw, s.ttl.Contact)
	return nil
}

// LoadUser returns the username bound to the session.
func (s *Store) LoadUser(ctx context.Context, sid string) (string, error) {
	raw, ok := s.get(session.UserKey(sid))
	if !ok || len(raw) == 0 {
		return "", session.ErrNotFound
	}
	return string(raw), nil
}

// SaveUser binds username to the session.
func (s *Store) SaveUser(ctx context.Context, sid, username string) error {
	s.set(session.UserKey(sid), []byte(username), s.ttl.Login)
	return nil
}

// DeleteUser unbinds the session's username.
func (s *Store) DeleteUser(ctx context.Context, sid string) error {
	s.del(session.UserKey(sid))
	return nil
}
