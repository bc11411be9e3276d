package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/pkg/cart"
	"storefront/pkg/order"
	"storefront/pkg/session"
	"storefront/pkg/session/memory"
)

func TestMove(t *testing.T) {
	ctx := context.Background()
	st := memory.New(session.TTL{Cart: time.Hour, Contact: time.Hour, Login: time.Hour})

	c := cart.New()
	c.AddItem(cart.Product{ID: "1", Name: "Cosmic Face Serum", UnitPriceMinor: 9999})
	require.NoError(t, st.SaveCart(ctx, "old", c))
	cust := order.Customer{Name: "Asha", Email: "asha@example.com"}
	require.NoError(t, st.SaveContact(ctx, "old", cust))
	require.NoError(t, st.SaveUser(ctx, "old", "mallory"))

	require.NoError(t, session.Move(ctx, st, "old", "new"))

	moved, err := st.LoadCart(ctx, "new")
	require.NoError(t, err)
	assert.Equal(t, 1, moved.ItemCount())
	contact, err := st.LoadContact(ctx, "new")
	require.NoError(t, err)
	assert.Equal(t, cust, contact)
	_, err = st.LoadUser(ctx, "new")
	assert.ErrorIs(t, err, session.ErrNotFound, "login is not carried over")

	left, err := st.LoadCart(ctx, "old")
	require.NoError(t, err)
	assert.True(t, left.IsEmpty())
	_, err = st.LoadUser(ctx, "old")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestMoveEmptySession(t *testing.T) {
	ctx := context.Background()
	st := memory.New(session.TTL{Cart: time.Hour, Contact: time.Hour, Login: time.Hour})

	require.NoError(t, session.Move(ctx, st, "old", "new"))
	_, err := st.LoadContact(ctx, "new")
	assert.ErrorIs(t, err, session.ErrNotFound)
}
