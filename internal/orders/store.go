// Package orders reads orders and persists their pricing outcome.
package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/guarzo/resaleprice/internal/config"
	"github.com/guarzo/resaleprice/internal/model"
)

// ErrNotFound is returned when no order has the requested id.
var ErrNotFound = errors.New("order not found")

// Store is the order persistence used by the enrichment run.
type Store interface {
	Load(ctx context.Context, id string) (*model.Order, error)
	// SavePricing writes every PricingOutcome field in one statement.
	SavePricing(ctx context.Context, id string, outcome model.PricingOutcome) error
	// Pricing returns the last persisted outcome, or nil if never priced.
	Pricing(ctx context.Context, id string) (*model.PricingOutcome, error)
	Create(ctx context.Context, order model.Order) error
	Migrate(ctx context.Context) error
	Close() error
}

// Open returns the store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.DBConfig) (Store, error) {
	switch cfg.Driver {
	case "sqlite":
		return OpenSQLite(cfg.DSN)
	case "postgres":
		return OpenPostgres(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.Driver)
	}
}
