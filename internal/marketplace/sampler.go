// Package marketplace samples active listings per region and reduces them
// to a composite price statistic.
package marketplace

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/guarzo/resaleprice/internal/ebay"
	"github.com/guarzo/resaleprice/internal/fx"
	"github.com/guarzo/resaleprice/internal/logging"
	"github.com/guarzo/resaleprice/internal/model"
)

// RateSource yields the current FX snapshot. It never fails.
type RateSource interface {
	Snapshot(ctx context.Context) fx.Snapshot
}

// Sampler queries one region's active fixed-price listings and turns them
// into a CompositeStatistic. A nil result means "no data".
type Sampler struct {
	tokens ebay.TokenSource
	search ebay.ListingSearcher
	rates  RateSource
	logger *logrus.Entry
}

// NewSampler wires a sampler. All collaborators are required except logger.
func NewSampler(tokens ebay.TokenSource, search ebay.ListingSearcher, rates RateSource, logger *logrus.Entry) *Sampler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Sampler{tokens: tokens, search: search, rates: rates, logger: logger}
}

// Name identifies the source in logs.
func (s *Sampler) Name() string { return "active" }

// Sample returns the composite statistic for query in region, or nil.
// Failures are logged and never returned: one region failing must not
// affect another.
func (s *Sampler) Sample(ctx context.Context, query string, region model.Region, categoryID string) *model.CompositeStatistic {
	log := s.logger.WithFields(logrus.Fields{
		"region":   region.Code,
		"category": categoryID,
		"query":    query,
	})

	token, err := s.tokens.Token(ctx)
	if err != nil {
		if !errors.Is(err, ebay.ErrNotConfigured) {
			log.WithError(err).Warn("no access token, skipping region")
		}
		return nil
	}

	cleaned := CleanQuery(query)
	if cleaned == "" {
		log.Debug("query empty after cleaning")
		return nil
	}

	raw, err := s.search.Search(ctx, token, region, cleaned)
	if err != nil {
		log.WithError(err).Warn("listing search failed")
		return nil
	}
	if len(raw) == 0 {
		log.Debug("no listings")
		return nil
	}

	narrowed := Narrow(raw, StagesFor(cleaned))
	normalized := NormalizeListings(narrowed, categoryID, s.rates.Snapshot(ctx), log)
	if len(normalized) == 0 {
		log.WithField("raw", len(raw)).Debug("no admissible listings")
		return nil
	}

	stat := Evaluate(normalized, categoryID)
	if stat == nil {
		log.WithField("admissible", len(normalized)).Debug("insufficient evidence")
		return nil
	}

	log.WithFields(logrus.Fields{
		"composite_median": stat.CompositeMedian,
		"sample_count":     stat.SampleCount,
	}).Info("region sampled")
	return stat
}
