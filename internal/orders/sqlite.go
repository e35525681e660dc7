package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/guarzo/resaleprice/internal/model"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS orders (
	id                     TEXT PRIMARY KEY,
	seller_id              TEXT NOT NULL DEFAULT '',
	description            TEXT NOT NULL DEFAULT '',
	declared_amount        INTEGER NOT NULL DEFAULT 0,
	cost_basis             INTEGER,
	deleted                INTEGER NOT NULL DEFAULT 0,
	price_composite_median INTEGER,
	price_high_reference   INTEGER,
	price_low_reference    INTEGER,
	price_sample_count     INTEGER,
	price_revenue_max      INTEGER,
	price_profit_max       INTEGER,
	priced_at              TEXT
);`

// SQLiteStore keeps orders in an embedded SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path with WAL
// journaling and a busy timeout.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("orders: mkdir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("orders: open: %w", err)
	}

	for _, p := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("orders: %s: %w", p, err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("orders: ping: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Migrate creates the orders table.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("orders: migrate: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

// Create inserts an order.
func (s *SQLiteStore) Create(ctx context.Context, o model.Order) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO orders (id, seller_id, description, declared_amount, cost_basis, deleted)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		o.ID, o.SellerID, o.Description, o.DeclaredAmount, nullInt(o.CostBasis), o.Deleted)
	if err != nil {
		return fmt.Errorf("orders: create %s: %w", o.ID, err)
	}
	return nil
}

// Load reads the fields the enrichment run needs.
func (s *SQLiteStore) Load(ctx context.Context, id string) (*model.Order, error) {
	var (
		o    model.Order
		cost sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, seller_id, description, declared_amount, cost_basis, deleted FROM orders WHERE id = ?`, id).
		Scan(&o.ID, &o.SellerID, &o.Description, &o.DeclaredAmount, &cost, &o.Deleted)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("orders: load %s: %w", id, err)
	}
	if cost.Valid {
		o.CostBasis = &cost.Int64
	}
	return &o, nil
}

// SavePricing overwrites all pricing columns in a single UPDATE.
func (s *SQLiteStore) SavePricing(ctx context.Context, id string, out model.PricingOutcome) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE orders SET
			price_composite_median = ?,
			price_high_reference   = ?,
			price_low_reference    = ?,
			price_sample_count     = ?,
			price_revenue_max      = ?,
			price_profit_max       = ?,
			priced_at              = ?
		 WHERE id = ?`,
		out.CompositeMedian, out.HighReference, out.LowReference, out.SampleCount,
		out.RevenueMaxPrice, nullInt(out.ProfitMaxPrice), out.PricedAt.UTC().Format(time.RFC3339Nano), id)
	if err != nil {
		return fmt.Errorf("orders: save pricing %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// Pricing returns the persisted outcome, or nil when the order was never
// priced.
func (s *SQLiteStore) Pricing(ctx context.Context, id string) (*model.PricingOutcome, error) {
	var (
		median, high, low, revenue, profit, count sql.NullInt64
		pricedAt                                  sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT price_composite_median, price_high_reference, price_low_reference, price_sample_count,
		        price_revenue_max, price_profit_max, priced_at
		 FROM orders WHERE id = ?`, id).
		Scan(&median, &high, &low, &count, &revenue, &profit, &pricedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("orders: pricing %s: %w", id, err)
	}
	if !pricedAt.Valid {
		return nil, nil
	}

	out := &model.PricingOutcome{
		CompositeMedian: median.Int64,
		HighReference:   high.Int64,
		LowReference:    low.Int64,
		SampleCount:     int(count.Int64),
		RevenueMaxPrice: revenue.Int64,
	}
	if profit.Valid {
		out.ProfitMaxPrice = &profit.Int64
	}
	if t, err := time.Parse(time.RFC3339Nano, pricedAt.String); err == nil {
		out.PricedAt = t
	}
	return out, nil
}

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
