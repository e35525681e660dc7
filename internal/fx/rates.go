// Package fx caches USD- and GBP-to-local exchange rates and converts
// marketplace prices into the local currency.
package fx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/guarzo/resaleprice/internal/logging"
)

// DefaultTTL is how long a fetched snapshot is trusted.
const DefaultTTL = time.Hour

// ErrUnsupportedCurrency is returned for anything other than USD and GBP.
var ErrUnsupportedCurrency = errors.New("unsupported currency")

// Snapshot holds the conversion factors into the local currency.
type Snapshot struct {
	USDToLocal float64   `json:"usd_to_local"`
	GBPToLocal float64   `json:"gbp_to_local"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// DefaultSnapshot is used when no snapshot was ever fetched successfully.
func DefaultSnapshot() Snapshot {
	return Snapshot{USDToLocal: 150, GBPToLocal: 190}
}

// Rate returns the factor that converts currency into the local currency.
func (s Snapshot) Rate(currency string) (float64, error) {
	switch strings.ToUpper(currency) {
	case "USD":
		return s.USDToLocal, nil
	case "GBP":
		return s.GBPToLocal, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedCurrency, currency)
	}
}

// Convert returns (price + shipping) × rate in the local currency. An empty
// or unparseable shipping cost counts as free shipping; an unparseable price
// is an error.
func (s Snapshot) Convert(price, shipping, currency string) (float64, error) {
	rate, err := s.Rate(currency)
	if err != nil {
		return 0, err
	}
	p, err := decimal.NewFromString(strings.TrimSpace(price))
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", price, err)
	}
	total := p
	if shipping != "" {
		if sh, err := decimal.NewFromString(strings.TrimSpace(shipping)); err == nil && sh.IsPositive() {
			total = total.Add(sh)
		}
	}
	f, _ := total.Mul(decimal.NewFromFloat(rate)).Float64()
	return f, nil
}

// Options configures a Cache.
type Options struct {
	URL           string
	LocalCurrency string
	TTL           time.Duration
	HTTPClient    *http.Client
}

// Cache lazily fetches a USD-based rate table and keeps the derived
// snapshot for TTL. It never surfaces fetch errors to readers: a failed
// refresh falls back to the previous snapshot, then to DefaultSnapshot.
type Cache struct {
	url        string
	local      string
	ttl        time.Duration
	httpClient *http.Client
	logger     *logrus.Entry
	now        func() time.Time

	mu   sync.RWMutex
	snap *Snapshot
}

// NewCache creates a rate cache.
func NewCache(opts Options, logger *logrus.Entry) *Cache {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.LocalCurrency == "" {
		opts.LocalCurrency = "JPY"
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Cache{
		url:        opts.URL,
		local:      strings.ToUpper(opts.LocalCurrency),
		ttl:        opts.TTL,
		httpClient: opts.HTTPClient,
		logger:     logger,
		now:        time.Now,
	}
}

// Snapshot returns the current rates, refreshing them if expired.
func (c *Cache) Snapshot(ctx context.Context) Snapshot {
	c.mu.RLock()
	snap := c.snap
	c.mu.RUnlock()

	if snap != nil && c.now().Before(snap.ExpiresAt) {
		return *snap
	}

	fresh, err := c.Refresh(ctx)
	if err == nil {
		return fresh
	}
	if snap != nil {
		c.logger.WithError(err).Warn("fx refresh failed, using previous snapshot")
		return *snap
	}
	c.logger.WithError(err).Warn("fx refresh failed, using default rates")
	return DefaultSnapshot()
}

type rateTable struct {
	Result string             `json:"result"`
	Base   string             `json:"base_code"`
	Rates  map[string]float64 `json:"rates"`
}

// Refresh fetches the rate table and stores a new snapshot.
func (c *Cache) Refresh(ctx context.Context) (Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return Snapshot{}, fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Snapshot{}, fmt.Errorf("fetch rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Snapshot{}, fmt.Errorf("fetch rates: status %d", resp.StatusCode)
	}

	var table rateTable
	if err := json.NewDecoder(resp.Body).Decode(&table); err != nil {
		return Snapshot{}, fmt.Errorf("decode rates: %w", err)
	}

	local := table.Rates[c.local]
	gbp := table.Rates["GBP"]
	if local <= 0 || gbp <= 0 {
		return Snapshot{}, fmt.Errorf("rate table missing %s or GBP", c.local)
	}

	// Rates are quoted per USD, so GBP→local is the cross rate local/GBP.
	gbpToLocal, _ := decimal.NewFromFloat(local).Div(decimal.NewFromFloat(gbp)).Float64()

	snap := Snapshot{
		USDToLocal: local,
		GBPToLocal: gbpToLocal,
		ExpiresAt:  c.now().Add(c.ttl),
	}

	c.mu.Lock()
	c.snap = &snap
	c.mu.Unlock()

	c.logger.WithFields(logrus.Fields{
		"usd_to_local": snap.USDToLocal,
		"gbp_to_local": snap.GBPToLocal,
	}).Debug("fx rates refreshed")
	return snap, nil
}
