// Package redis implements session.Store on Redis. Values are JSON strings
// whose TTL is refreshed on every access.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"storefront/pkg/cart"
	"storefront/pkg/order"
	"storefront/pkg/session"
)

// maxCartRetries bounds optimistic retries in UpdateCart.
const maxCartRetries = 32

// Store is a Redis-backed session store.
type Store struct {
	client *redis.Client
	ttl    session.TTL
}

// New creates a store over client.
func New(client *redis.Client, ttl session.TTL) *Store {
	return &Store{client: client, ttl: ttl}
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// get reads key and, when ttl is set, slides its expiry in the same
// round trip.
func (s *Store) get(ctx context.Context, key string, ttl time.Duration) ([]byte, error) {
	var cmd *redis.StringCmd
	if ttl > 0 {
		cmd = s.client.GetEx(ctx, key, ttl)
	} else {
		cmd = s.client.Get(ctx, key)
	}
	raw, err := cmd.Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return raw, nil
}

func (s *Store) set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// LoadCart returns the session's cart or an empty one.
func (s *Store) LoadCart(ctx context.Context, sid string) (*cart.Cart, error) {
	c := cart.New()
	raw, err := s.get(ctx, session.CartKey(sid), s.ttl.Cart)
	if errors.Is(err, session.ErrNotFound) {
		return c, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("decoding cart: %w", err)
	}
	return c, nil
}

// UpdateCart applies fn to the stored cart inside a WATCH/MULTI
// transaction, retrying when another writer touched the key first.
func (s *Store) UpdateCart(ctx context.Context, sid string, fn session.UpdateFunc) (*cart.Cart, error) {
	key := session.CartKey(sid)
	var c *cart.Cart
	txf := func(tx *redis.Tx) error {
		c = cart.New()
		raw, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return fmt.Errorf("get %s: %w", key, err)
		default:
			if err := json.Unmarshal(raw, c); err != nil {
				return fmt.Errorf("decoding cart: %w", err)
			}
		}
		if err := fn(c); err != nil {
			return err
		}
		data, err := json.Marshal(c)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl.Cart)
			return nil
		})
		return err
	}

	for range maxCartRetries {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return nil, session.ErrConflict
}

// SaveCart stores the cart.
func (s *Store) SaveCart(ctx context.Context, sid string, c *cart.Cart) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.set(ctx, session.CartKey(sid), raw, s.ttl.Cart)
}

// DeleteCart drops the cart.
func (s *Store) DeleteCart(ctx context.Context, sid string) error {
	return s.client.Del(ctx, session.CartKey(sid)).Err()
}

// LoadContact returns the remembered checkout contact.
func (s *Store) LoadContact(ctx context.Context, sid string) (order.Customer, error) {
	var cust order.Customer
	raw, err := s.get(ctx, session.ContactKey(sid), s.ttl.Contact)
	if err != nil {
		return cust, err
	}
	if err := json.Unmarshal(raw, &cust); err != nil {
		return cust, fmt.Errorf("decoding contact: %w", err)
	}
	return cust, nil
}

// SaveContact remembers the checkout contact.
func (s *Store) SaveContact(ctx context.Context, sid string, cust order.Customer) error {
	raw, err := json.Marshal(cust)
	if err != nil {
		return err
	}
	return s.set(ctx, session.ContactKey(sid), raw, s.ttl.Contact)
}

// LoadUser returns the username bound to the session.
func (s *Store) LoadUser(ctx context.Context, sid string) (string, error) {
	raw, err := s.get(ctx, session.UserKey(sid), s.ttl.Login)
	if err != nil {
		return "", err
	}
	if len(raw) == 0 {
		return "", session.ErrNotFound
	}
	return string(raw), nil
}

// SaveUser binds username to the session.
func (s *Store) SaveUser(ctx context.Context, sid, username string) error {
	return s.set(ctx, session.UserKey(sid), username, s.ttl.Login)
}

// DeleteUser unbinds the session's username.
func (s *Store) DeleteUser(ctx context.Context, sid string) error {
	return s.client.Del(ctx, session.UserKey(sid)).Err()
}
