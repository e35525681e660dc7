// Package sales provides price-statistic sources for the enrichment run:
// the completed-sales page scraper and the common Source contract shared
// with the active-listings sampler.
package sales

import (
	"context"

	"github.com/guarzo/resaleprice/internal/marketplace"
	"github.com/guarzo/resaleprice/internal/model"
)

// Source produces a composite statistic for a query in one region. A nil
// result means "no data"; implementations log their own failures.
type Source interface {
	Name() string
	Sample(ctx context.Context, query string, region model.Region, categoryID string) *model.CompositeStatistic
}

var (
	_ Source = (*marketplace.Sampler)(nil)
	_ Source = (*SoldListingsSource)(nil)
)
