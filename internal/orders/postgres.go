package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/guarzo/resaleprice/internal/model"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS orders (
	id                     TEXT PRIMARY KEY,
	seller_id              TEXT NOT NULL DEFAULT '',
	description            TEXT NOT NULL DEFAULT '',
	declared_amount        BIGINT NOT NULL DEFAULT 0,
	cost_basis             BIGINT,
	deleted                BOOLEAN NOT NULL DEFAULT FALSE,
	price_composite_median BIGINT,
	price_high_reference   BIGINT,
	price_low_reference    BIGINT,
	price_sample_count     INTEGER,
	price_revenue_max      BIGINT,
	price_profit_max       BIGINT,
	priced_at              TIMESTAMPTZ
);`

// PostgresStore keeps orders in PostgreSQL through a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects a pool to dsn and verifies it.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("orders: pgxpool.New: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("orders: ping: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("orders: migrate: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) Create(ctx context.Context, o model.Order) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO orders (id, seller_id, description, declared_amount, cost_basis, deleted)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		o.ID, o.SellerID, o.Description, o.DeclaredAmount, o.CostBasis, o.Deleted)
	if err != nil {
		return fmt.Errorf("orders: create %s: %w", o.ID, err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context, id string) (*model.Order, error) {
	var o model.Order
	err := s.pool.QueryRow(ctx,
		`SELECT id, seller_id, description, declared_amount, cost_basis, deleted FROM orders WHERE id = $1`, id).
		Scan(&o.ID, &o.SellerID, &o.Description, &o.DeclaredAmount, &o.CostBasis, &o.Deleted)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("orders: load %s: %w", id, err)
	}
	return &o, nil
}

func (s *PostgresStore) SavePricing(ctx context.Context, id string, out model.PricingOutcome) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE orders SET
			price_composite_median = $1,
			price_high_reference   = $2,
			price_low_reference    = $3,
			price_sample_count     = $4,
			price_revenue_max      = $5,
			price_profit_max       = $6,
			priced_at              = $7
		 WHERE id = $8`,
		out.CompositeMedian, out.HighReference, out.LowReference, out.SampleCount,
		out.RevenueMaxPrice, out.ProfitMaxPrice, out.PricedAt, id)
	if err != nil {
		return fmt.Errorf("orders: save pricing %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Pricing(ctx context.Context, id string) (*model.PricingOutcome, error) {
	var (
		median, high, low, revenue *int64
		count                      *int32
		out                        model.PricingOutcome
		pricedAt                   *time.Time
	)
	err := s.pool.QueryRow(ctx,
		`SELECT price_composite_median, price_high_reference, price_low_reference, price_sample_count,
		        price_revenue_max, price_profit_max, priced_at
		 FROM orders WHERE id = $1`, id).
		Scan(&median, &high, &low, &count, &revenue, &out.ProfitMaxPrice, &pricedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("orders: pricing %s: %w", id, err)
	}
	if pricedAt == nil {
		return nil, nil
	}

	out.CompositeMedian = deref(median)
	out.HighReference = deref(high)
	out.LowReference = deref(low)
	out.RevenueMaxPrice = deref(revenue)
	if count != nil {
		out.SampleCount = int(*count)
	}
	out.PricedAt = *pricedAt
	return &out, nil
}

func deref(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}
