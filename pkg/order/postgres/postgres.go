package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"storefront/pkg/order"
)

// Schema creates the orders table. Lines, fees and customer are stored as
// JSONB; money columns are exact NUMERIC.
const Schema = `CREATE TABLE IF NOT EXISTS orders (
	id          TEXT PRIMARY KEY,
	session_id  TEXT NOT NULL,
	username    TEXT NOT NULL DEFAULT '',
	lines       JSONB NOT NULL,
	coupon_code TEXT NOT NULL DEFAULT '',
	subtotal    BIGINT NOT NULL,
	discount    NUMERIC(20,4) NOT NULL,
	total       NUMERIC(20,4) NOT NULL,
	fees        JSONB NOT NULL DEFAULT '[]',
	grand_total NUMERIC(20,4) NOT NULL,
	customer    JSONB NOT NULL,
	status      TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL
)`

const selectColumns = "id,session_id,username,lines,coupon_code,subtotal,discount,total,fees,grand_total,customer,status,created_at"

const uniqueViolation = "23505"

// Repository persists orders in PostgreSQL.
type Repository struct {
	db *sql.DB
}

// New creates a PostgreSQL repository.
func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates the orders table if needed.
func (r *Repository) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, Schema)
	return err
}

type encoded struct {
	lines, fees, customer []byte
}

func encode(o order.Order) (encoded, error) {
	var e encoded
	var err error
	if o.Lines == nil {
		e.lines = []byte("[]")
	} else if e.lines, err = json.Marshal(o.Lines); err != nil {
		return e, fmt.Errorf("encoding lines: %w", err)
	}
	if o.Fees == nil {
		e.fees = []byte("[]")
	} else if e.fees, err = json.Marshal(o.Fees); err != nil {
		return e, fmt.Errorf("encoding fees: %w", err)
	}
	if e.customer, err = json.Marshal(o.Customer); err != nil {
		return e, fmt.Errorf("encoding customer: %w", err)
	}
	return e, nil
}

// Create inserts a new order.
func (r *Repository) Create(ctx context.Context, o order.Order) error {
	e, err := encode(o)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		"INSERT INTO orders ("+selectColumns+") VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)",
		o.ID, o.SessionID, o.Username, e.lines, o.CouponCode, o.SubtotalMinor,
		o.Discount, o.Total, e.fees, o.GrandTotal, e.customer, string(o.Status), o.CreatedAt)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return order.ErrConflict
	}
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(s scanner) (order.Order, error) {
	var (
		o                     order.Order
		lines, fees, customer []byte
		status                string
	)
	if err := s.Scan(&o.ID, &o.SessionID, &o.Username, &lines, &o.CouponCode, &o.SubtotalMinor,
		&o.Discount, &o.Total, &fees, &o.GrandTotal, &customer, &status, &o.CreatedAt); err != nil {
		return order.Order{}, err
	}
	if err := json.Unmarshal(lines, &o.Lines); err != nil {
		return order.Order{}, fmt.Errorf("decoding lines: %w", err)
	}
	if err := json.Unmarshal(fees, &o.Fees); err != nil {
		return order.Order{}, fmt.Errorf("decoding fees: %w", err)
	}
	if err := json.Unmarshal(customer, &o.Customer); err != nil {
		return order.Order{}, fmt.Errorf("decoding customer: %w", err)
	}
	o.Status = order.Status(status)
	return o, nil
}

// Get retrieves an order by ID.
func (r *Repository) Get(ctx context.Context, id string) (order.Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, "SELECT "+selectColumns+" FROM orders WHERE id=$1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return order.Order{}, order.ErrNotFound
	}
	return o, err
}

// List fetches all orders, oldest first.
func (r *Repository) List(ctx context.Context) ([]order.Order, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+selectColumns+" FROM orders ORDER BY created_at, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var orders []order.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// Update replaces the mutable fields of an existing order.
func (r *Repository) Update(ctx context.Context, o order.Order) error {
	e, err := encode(o)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		"UPDATE orders SET username=$2, lines=$3, coupon_code=$4, subtotal=$5, discount=$6, total=$7, fees=$8, grand_total=$9, customer=$10, status=$11 WHERE id=$1",
		o.ID, o.Username, e.lines, o.CouponCode, o.SubtotalMinor, o.Discount, o.Total, e.fees, o.GrandTotal, e.customer, string(o.Status))
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return order.ErrNotFound
	}
	return nil
}

// Delete removes an order by ID.
func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM orders WHERE id=$1", id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return order.ErrNotFound
	}
	return nil
}
