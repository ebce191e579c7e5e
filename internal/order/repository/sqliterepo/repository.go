// Package sqliterepo provides a SQLite-backed implementation of the order
// repository.
//
// WAL mode is enabled on Open so that readers never block writers and vice
// versa: webhook handling writes status updates while order lookups may be
// reading.
package sqliterepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/monsterstore/checkout/internal/order/domain"
	"github.com/monsterstore/checkout/internal/order/repository"

	// Register the pure-Go SQLite driver.
	// modernc.org/sqlite avoids CGO, keeping Docker (Alpine) builds simple.
	_ "modernc.org/sqlite"
)

// schema is the DDL executed once on startup. Orders are immutable after
// creation except for the status column.
const schema = `
CREATE TABLE IF NOT EXISTS orders (
    -- Business identifier (UUID), assigned by the materializer.
    id                  TEXT PRIMARY KEY,

    buyer_id            TEXT NOT NULL,

    -- One order per remote payment intent, enforced here: a retried
    -- materialize that lost the race hits this constraint instead of
    -- creating a duplicate order.
    payment_intent_id   TEXT NOT NULL UNIQUE,

    -- Shipping address, denormalized. line2 is optional.
    ship_full_name      TEXT NOT NULL,
    ship_line1          TEXT NOT NULL,
    ship_line2          TEXT NOT NULL DEFAULT '',
    ship_city           TEXT NOT NULL,
    ship_state          TEXT NOT NULL,
    ship_postal_code    TEXT NOT NULL,
    ship_country        TEXT NOT NULL,

    -- Minor currency units. total is always subtotal + delivery_fees.
    subtotal            INTEGER NOT NULL,
    delivery_fees       INTEGER NOT NULL,

    status              TEXT NOT NULL,

    -- RFC3339 stored as TEXT, SQLite idiom.
    placed_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS order_items (
    order_id    TEXT NOT NULL REFERENCES orders(id),
    position    INTEGER NOT NULL,

    product_id  TEXT NOT NULL,
    -- Display metadata frozen at materialization time.
    name        TEXT NOT NULL,
    image_url   TEXT NOT NULL DEFAULT '',
    unit_price  INTEGER NOT NULL,
    quantity    INTEGER NOT NULL,

    PRIMARY KEY (order_id, position)
);

CREATE INDEX IF NOT EXISTS idx_orders_buyer_id ON orders(buyer_id, placed_at);
`

var _ repository.Repository = (*Repository)(nil)

// Repository is the SQLite implementation of repository.Repository.
type Repository struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at the given path and applies
// the schema.
//
//	repo, err := sqliterepo.Open("./data/orders.db")
func Open(path string) (*Repository, error) {
	// WAL enables concurrent readers. foreign_keys=on keeps order_items
	// consistent with orders. busy_timeout waits for locks instead of
	// failing immediately.
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)", path)

	// Use "sqlite", not "sqlite3" for the modernc driver.
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// SQLite performs best with a single writer connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}

	return &Repository{db: db}, nil
}

// Close releases the database connection. Call it with defer in main().
func (r *Repository) Close() error {
	return r.db.Close()
}

// Create inserts the order and its items in one transaction.
func (r *Repository) Create(ctx context.Context, o *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin create order %q: %w", o.ID, err)
	}
	defer func() { _ = tx.Rollback() }()

	const insertOrder = `
		INSERT INTO orders
			(id, buyer_id, payment_intent_id,
			 ship_full_name, ship_line1, ship_line2, ship_city, ship_state, ship_postal_code, ship_country,
			 subtotal, delivery_fees, status, placed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = tx.ExecContext(ctx, insertOrder,
		o.ID, o.BuyerID, o.PaymentIntentID,
		o.Address.FullName, o.Address.Line1, o.Address.Line2, o.Address.City,
		o.Address.State, o.Address.PostalCode, o.Address.Country,
		o.Subtotal, o.DeliveryFees, string(o.Status), formatTime(o.PlacedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateIntent
		}
		return fmt.Errorf("sqlite: insert order %q: %w", o.ID, err)
	}

	const insertItem = `
		INSERT INTO order_items (order_id, position, product_id, name, image_url, unit_price, quantity)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	for i, it := range o.Items {
		if _, err := tx.ExecContext(ctx, insertItem,
			o.ID, i, it.ProductID, it.Name, it.ImageURL, it.UnitPrice, it.Quantity,
		); err != nil {
			return fmt.Errorf("sqlite: insert item %d of order %q: %w", i, o.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit order %q: %w", o.ID, err)
	}
	return nil
}

// Get loads an order and its items by id.
func (r *Repository) Get(ctx context.Context, id string) (*domain.Order, error) {
	return r.getWhere(ctx, "id = ?", id)
}

// GetByPaymentIntent loads the order created for a payment intent id.
func (r *Repository) GetByPaymentIntent(ctx context.Context, intentID string) (*domain.Order, error) {
	return r.getWhere(ctx, "payment_intent_id = ?", intentID)
}

func (r *Repository) getWhere(ctx context.Context, where string, arg string) (*domain.Order, error) {
	q := `
		SELECT id, buyer_id, payment_intent_id,
		       ship_full_name, ship_line1, ship_line2, ship_city, ship_state, ship_postal_code, ship_country,
		       subtotal, delivery_fees, status, placed_at
		FROM   orders
		WHERE  ` + where

	row := r.db.QueryRowContext(ctx, q, arg)

	var o domain.Order
	var status, placedAt string
	err := row.Scan(
		&o.ID, &o.BuyerID, &o.PaymentIntentID,
		&o.Address.FullName, &o.Address.Line1, &o.Address.Line2, &o.Address.City,
		&o.Address.State, &o.Address.PostalCode, &o.Address.Country,
		&o.Subtotal, &o.DeliveryFees, &status, &placedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: load order: %w", err)
	}
	o.Status = domain.Status(status)

	o.PlacedAt, err = parseTime(placedAt)
	if err != nil {
		return nil, err
	}

	const itemsQ = `
		SELECT product_id, name, image_url, unit_price, quantity
		FROM   order_items
		WHERE  order_id = ?
		ORDER  BY position`

	rows, err := r.db.QueryContext(ctx, itemsQ, o.ID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: load items of order %q: %w", o.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var it domain.Item
		if err := rows.Scan(&it.ProductID, &it.Name, &it.ImageURL, &it.UnitPrice, &it.Quantity); err != nil {
			return nil, fmt.Errorf("sqlite: scan item of order %q: %w", o.ID, err)
		}
		o.Items = append(o.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate items of order %q: %w", o.ID, err)
	}

	return &o, nil
}

// UpdateStatus transitions the order's status with a conditional UPDATE:
// zero affected rows means the stored status was not the expected one (or
// the order does not exist), so the caller's view is stale.
func (r *Repository) UpdateStatus(ctx context.Context, id string, from, to domain.Status) error {
	const q = `UPDATE orders SET status = ? WHERE id = ? AND status = ?`

	res, err := r.db.ExecContext(ctx, q, string(to), id, string(from))
	if err != nil {
		return fmt.Errorf("sqlite: update status of order %q: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: rows affected for order %q: %w", id, err)
	}
	if affected == 0 {
		if _, getErr := r.Get(ctx, id); errors.Is(getErr, repository.ErrNotFound) {
			return repository.ErrNotFound
		}
		return repository.ErrStatusConflict
	}
	return nil
}

// isUniqueViolation matches the driver's UNIQUE constraint error without
// importing its internal error codes.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
