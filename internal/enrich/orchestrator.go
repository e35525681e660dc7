// Package enrich prices a single order from marketplace evidence and
// persists the outcome.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/guarzo/resaleprice/internal/concurrent"
	"github.com/guarzo/resaleprice/internal/genre"
	"github.com/guarzo/resaleprice/internal/logging"
	"github.com/guarzo/resaleprice/internal/model"
	"github.com/guarzo/resaleprice/internal/orders"
	"github.com/guarzo/resaleprice/internal/prices"
	"github.com/guarzo/resaleprice/internal/pricing"
	"github.com/guarzo/resaleprice/internal/sales"
)

// OrderStore is the part of orders.Store a run touches.
type OrderStore interface {
	Load(ctx context.Context, id string) (*model.Order, error)
	SavePricing(ctx context.Context, id string, outcome model.PricingOutcome) error
}

// Submitter accepts fire-and-forget jobs.
type Submitter interface {
	Submit(job concurrent.Job) bool
}

// Options wires an Orchestrator.
type Options struct {
	Store   OrderStore
	Active  sales.Source
	Sold    sales.Source // optional; tried before Active
	Regions []model.Region
	Pool    Submitter
	Logger  *logrus.Entry
}

// Orchestrator runs the enrichment pipeline for one order at a time.
type Orchestrator struct {
	store   OrderStore
	active  sales.Source
	sold    sales.Source
	regions []model.Region
	pool    Submitter
	logger  *logrus.Entry
	now     func() time.Time
}

func NewOrchestrator(opts Options) *Orchestrator {
	regions := opts.Regions
	if len(regions) == 0 {
		regions = model.DefaultRegions()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	// Without a pool, Enqueue still runs through a default-sized one.
	pool := opts.Pool
	if pool == nil {
		pool = concurrent.NewPool(concurrent.PoolConfig{Logger: logger})
	}
	return &Orchestrator{
		store:   opts.Store,
		active:  opts.Active,
		sold:    opts.Sold,
		regions: regions,
		pool:    pool,
		logger:  logger,
		now:     time.Now,
	}
}

// Enqueue schedules a run for orderID and returns immediately. It reports
// false when the queue is full; the caller may retry later.
func (o *Orchestrator) Enqueue(orderID, sellerID string) bool {
	accepted := o.pool.Submit(func(ctx context.Context) {
		o.Run(ctx, orderID, sellerID)
	})
	if !accepted {
		o.logger.WithFields(logrus.Fields{
			"order_id":  orderID,
			"seller_id": sellerID,
		}).Warn("enrichment queue full, order not enqueued")
	}
	return accepted
}

// regionResult is one region's statistic, nil when the region had no data.
type regionResult struct {
	region model.Region
	stat   *model.CompositeStatistic
}

// Run prices orderID. Every failure is logged and swallowed; nothing is
// persisted unless the whole outcome was computed.
func (o *Orchestrator) Run(ctx context.Context, orderID, sellerID string) {
	log := o.logger.WithFields(logrus.Fields{
		"run_id":    uuid.NewString(),
		"order_id":  orderID,
		"seller_id": sellerID,
	})

	defer func() {
		if r := recover(); r != nil {
			log.WithFields(logrus.Fields{
				"panic": fmt.Sprint(r),
				"stack": string(debug.Stack()),
			}).Error("enrichment run panicked")
		}
	}()

	if err := o.run(ctx, orderID, log); err != nil {
		log.WithError(err).Error("enrichment run failed")
	}
}

func (o *Orchestrator) run(ctx context.Context, orderID string, log *logrus.Entry) error {
	order, err := o.store.Load(ctx, orderID)
	if errors.Is(err, orders.ErrNotFound) {
		log.Debug("order not found, skipping")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load order: %w", err)
	}
	if order.Deleted || strings.TrimSpace(order.Description) == "" {
		log.Debug("order deleted or without description, skipping")
		return nil
	}
	if genre.IsBulkListing(order.Description) {
		log.Debug("bulk listing, skipping")
		return nil
	}

	categoryID := genre.Classify(order.Description)
	query := prices.BuildSearchQuery(order.Description, categoryID)
	log = log.WithFields(logrus.Fields{
		"category": categoryID,
		"query":    query,
	})

	results, source := o.sample(ctx, query, categoryID)
	best, low, ok := pickBest(results)
	if !ok {
		log.Info("no region produced a price, skipping")
		return nil
	}

	pair := pricing.Optimize(best.stat.CompositeMedian, order.CostBasis)
	outcome := model.PricingOutcome{
		CompositeMedian: best.stat.CompositeMedian,
		HighReference:   best.stat.HighReference,
		LowReference:    low,
		SampleCount:     best.stat.SampleCount,
		RevenueMaxPrice: pair.RevenueMaxPrice,
		ProfitMaxPrice:  pair.ProfitMaxPrice,
		PricedAt:        o.now(),
	}

	if err := o.store.SavePricing(ctx, orderID, outcome); err != nil {
		return fmt.Errorf("save pricing: %w", err)
	}

	fields := logrus.Fields{
		"composite_median":  outcome.CompositeMedian,
		"high_reference":    outcome.HighReference,
		"low_reference":     outcome.LowReference,
		"sample_count":      outcome.SampleCount,
		"revenue_max_price": outcome.RevenueMaxPrice,
		"profit_max_price":  nil,
		"declared_amount":   order.DeclaredAmount,
		"declared_delta":    outcome.RevenueMaxPrice - order.DeclaredAmount,
		"best_region":       best.region.Code,
		"source":            source,
	}
	if outcome.ProfitMaxPrice != nil {
		fields["profit_max_price"] = *outcome.ProfitMaxPrice
	}
	log.WithFields(fields).Info("order priced")
	return nil
}

// sample queries the sold source first and falls back to active listings
// only when no region produced sold evidence.
func (o *Orchestrator) sample(ctx context.Context, query, categoryID string) ([]regionResult, string) {
	if o.sold != nil {
		results := o.sampleRegions(ctx, o.sold, query, categoryID)
		if anyStat(results) {
			return results, o.sold.Name()
		}
	}
	if o.active == nil {
		return nil, ""
	}
	return o.sampleRegions(ctx, o.active, query, categoryID), o.active.Name()
}

// sampleRegions queries every region concurrently. A panic in one region is
// contained there and counts as no data.
func (o *Orchestrator) sampleRegions(ctx context.Context, src sales.Source, query, categoryID string) []regionResult {
	results := make([]regionResult, len(o.regions))

	var wg sync.WaitGroup
	for i, region := range o.regions {
		results[i].region = region
		wg.Add(1)
		go func(i int, region model.Region) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					o.logger.WithFields(logrus.Fields{
						"region":   region.Code,
						"source":   src.Name(),
						"category": categoryID,
						"query":    query,
						"panic":    fmt.Sprint(r),
					}).Error("region sampling panicked")
				}
			}()
			results[i].stat = src.Sample(ctx, query, region, categoryID)
		}(i, region)
	}
	wg.Wait()
	return results
}

func anyStat(results []regionResult) bool {
	for _, r := range results {
		if r.stat != nil {
			return true
		}
	}
	return false
}

// pickBest returns the region with the highest composite median and the
// blended low reference, the maximum low across regions with data. Ties go
// to the earlier region.
func pickBest(results []regionResult) (regionResult, int64, bool) {
	var (
		best  regionResult
		low   int64
		found bool
	)
	for _, r := range results {
		if r.stat == nil {
			continue
		}
		if !found || r.stat.CompositeMedian > best.stat.CompositeMedian {
			best = r
		}
		if !found || r.stat.LowReference > low {
			low = r.stat.LowReference
		}
		found = true
	}
	return best, low, found
}
