// Package cache persists the last successfully fetched equipment catalog and
// order history to a local SQLite database so they stay browsable offline.
// It is a write-through mirror, never an authority: the remote store wins on
// every successful fetch.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"rentgear-storefront/internal/domain"
)

type Cache struct {
	db *sql.DB
}

// Open opens (or creates) the cache database at path and ensures the schema.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}
	c := &Cache{db: db}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

// New wraps an existing database handle. The schema is assumed present;
// tests use this with a mock driver.
func New(db *sql.DB) *Cache {
	return &Cache{db: db}
}

func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS equipment (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		sub_category TEXT NOT NULL,
		image TEXT NOT NULL,
		rent_per_hour_cents INTEGER NOT NULL,
		rent_per_day_cents INTEGER NOT NULL,
		rating REAL NOT NULL,
		available INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY,
		tracking_number TEXT NOT NULL,
		order_date TEXT NOT NULL,
		status TEXT NOT NULL,
		items TEXT NOT NULL,
		subtotal_cents INTEGER NOT NULL,
		delivery_fee_cents INTEGER NOT NULL,
		tax_cents INTEGER NOT NULL,
		total_cents INTEGER NOT NULL,
		payment_method TEXT NOT NULL,
		delivery_address TEXT NOT NULL,
		delivery_date TEXT NOT NULL
	);`
	if _, err := c.db.Exec(schema); err != nil {
		return fmt.Errorf("create cache schema: %w", err)
	}
	return nil
}

// SaveEquipment replaces the cached catalog with the given snapshot.
func (c *Cache) SaveEquipment(ctx context.Context, items []domain.Equipment) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin equipment cache tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM equipment"); err != nil {
		return fmt.Errorf("clear equipment cache: %w", err)
	}
	for _, eq := range items {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO equipment (id, name, category, sub_category, image, rent_per_hour_cents, rent_per_day_cents, rating, available)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			eq.ID, eq.Name, eq.Category, eq.SubCategory, eq.Image,
			eq.RentPerHourCents, eq.RentPerDayCents, eq.Rating, boolToInt(eq.Available),
		)
		if err != nil {
			return fmt.Errorf("insert cached equipment %s: %w", eq.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit equipment cache: %w", err)
	}
	return nil
}

// Equipment returns the cached catalog snapshot.
func (c *Cache) Equipment(ctx context.Context) ([]domain.Equipment, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT id, name, category, sub_category, image, rent_per_hour_cents, rent_per_day_cents, rating, available
		 FROM equipment ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query cached equipment: %w", err)
	}
	defer rows.Close()

	var items []domain.Equipment
	for rows.Next() {
		var eq domain.Equipment
		var available int
		err := rows.Scan(&eq.ID, &eq.Name, &eq.Category, &eq.SubCategory, &eq.Image,
			&eq.RentPerHourCents, &eq.RentPerDayCents, &eq.Rating, &available)
		if err != nil {
			return nil, fmt.Errorf("scan cached equipment: %w", err)
		}
		eq.Available = available != 0
		items = append(items, eq)
	}
	return items, rows.Err()
}

// SaveOrders replaces the cached order history with the given snapshot.
// Line items are stored as a JSON blob; the cache never queries into them.
func (c *Cache) SaveOrders(ctx context.Context, orders []domain.Order) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin order cache tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM orders"); err != nil {
		return fmt.Errorf("clear order cache: %w", err)
	}
	for _, order := range orders {
		items, err := json.Marshal(order.Items)
		if err != nil {
			return fmt.Errorf("encode cached order items: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO orders (id, tracking_number, order_date, status, items, subtotal_cents, delivery_fee_cents, tax_cents, total_cents, payment_method, delivery_address, delivery_date)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			order.ID, order.TrackingNumber, order.OrderDate.UTC().Format(time.RFC3339), string(order.Status),
			string(items), order.SubtotalCents, order.DeliveryFeeCents, order.TaxCents, order.TotalCents,
			order.PaymentMethod, order.DeliveryAddress, order.DeliveryDate,
		)
		if err != nil {
			return fmt.Errorf("insert cached order %s: %w", order.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit order cache: %w", err)
	}
	return nil
}

// Orders returns the cached order history.
func (c *Cache) Orders(ctx context.Context) ([]domain.Order, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT id, tracking_number, order_date, status, items, subtotal_cents, delivery_fee_cents, tax_cents, total_cents, payment_method, delivery_address, delivery_date
		 FROM orders ORDER BY order_date`)
	if err != nil {
		return nil, fmt.Errorf("query cached orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var order domain.Order
		var orderDate, status, items string
		err := rows.Scan(&order.ID, &order.TrackingNumber, &orderDate, &status, &items,
			&order.SubtotalCents, &order.DeliveryFeeCents, &order.TaxCents, &order.TotalCents,
			&order.PaymentMethod, &order.DeliveryAddress, &order.DeliveryDate)
		if err != nil {
			return nil, fmt.Errorf("scan cached order: %w", err)
		}
		order.Status = domain.OrderStatus(status)
		if ts, err := time.Parse(time.RFC3339, orderDate); err == nil {
			order.OrderDate = ts
		}
		if err := json.Unmarshal([]byte(items), &order.Items); err != nil {
			return nil, fmt.Errorf("decode cached order items: %w", err)
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
