package sales

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/brotli"
	"github.com/sirupsen/logrus"

	"github.com/guarzo/resaleprice/internal/cache"
	"github.com/guarzo/resaleprice/internal/logging"
	"github.com/guarzo/resaleprice/internal/marketplace"
	"github.com/guarzo/resaleprice/internal/model"
	"github.com/guarzo/resaleprice/internal/ratelimit"
)

const (
	soldSearchPath  = "/sch/i.html"
	defaultCacheTTL = 30 * time.Minute
	cacheEntries    = 512
)

// defaultHosts maps region codes to their completed-listings site.
var defaultHosts = map[string]string{
	"US": "https://www.ebay.com",
	"UK": "https://www.ebay.co.uk",
}

// SoldOptions configures a SoldListingsSource.
type SoldOptions struct {
	// BaseURL, when set, is used for every region instead of defaultHosts.
	BaseURL        string
	CacheTTL       time.Duration
	RequestsPerMin int
	HTTPClient     *http.Client
}

// SoldListingsSource derives statistics from recently completed fixed-price
// sales pages. Results, including "no data", are cached per region, category
// and query.
type SoldListingsSource struct {
	opts    SoldOptions
	client  *http.Client
	rates   marketplace.RateSource
	cache   *cache.MemoryCache[*model.CompositeStatistic]
	limiter *ratelimit.Limiter
	logger  *logrus.Entry
}

// NewSoldListingsSource creates a completed-sales source.
func NewSoldListingsSource(opts SoldOptions, rates marketplace.RateSource, logger *logrus.Entry) *SoldListingsSource {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = defaultCacheTTL
	}
	if opts.RequestsPerMin <= 0 {
		opts.RequestsPerMin = 20
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &SoldListingsSource{
		opts:    opts,
		client:  client,
		rates:   rates,
		cache:   cache.NewMemoryCache[*model.CompositeStatistic](cacheEntries, opts.CacheTTL),
		limiter: ratelimit.PerMinute(opts.RequestsPerMin),
		logger:  logger,
	}
}

// Name identifies the source in logs.
func (s *SoldListingsSource) Name() string { return "sold" }

// Sample returns the statistic for completed sales of query in region.
func (s *SoldListingsSource) Sample(ctx context.Context, query string, region model.Region, categoryID string) *model.CompositeStatistic {
	log := s.logger.WithFields(logrus.Fields{
		"region":   region.Code,
		"category": categoryID,
		"query":    query,
	})

	cleaned := marketplace.CleanQuery(query)
	if cleaned == "" {
		return nil
	}

	key := region.Code + "|" + categoryID + "|" + cleaned
	if stat, ok := s.cache.Get(key); ok {
		log.Debug("sold listings cache hit")
		return stat
	}

	samples, err := s.fetch(ctx, region, cleaned)
	if err != nil {
		// Transient failures are not cached.
		log.WithError(err).Warn("sold listings fetch failed")
		return nil
	}

	var stat *model.CompositeStatistic
	if len(samples) > 0 {
		narrowed := marketplace.Narrow(samples, marketplace.StagesFor(cleaned))
		normalized := marketplace.NormalizeListings(narrowed, categoryID, s.rates.Snapshot(ctx), log)
		stat = marketplace.Evaluate(normalized, categoryID)
	}

	s.cache.Set(key, stat, 0)
	if stat != nil {
		log.WithFields(logrus.Fields{
			"composite_median": stat.CompositeMedian,
			"sample_count":     stat.SampleCount,
		}).Info("sold listings sampled")
	}
	return stat
}

// Prune drops expired cache entries and returns how many were removed.
func (s *SoldListingsSource) Prune() int {
	removed := s.cache.Clean()
	stats := s.cache.Stats()
	s.logger.WithFields(logrus.Fields{
		"removed": removed,
		"items":   stats.Items,
		"hits":    stats.Hits,
		"misses":  stats.Misses,
	}).Debug("sold listings cache pruned")
	return removed
}

func (s *SoldListingsSource) baseURL(region model.Region) (string, error) {
	if s.opts.BaseURL != "" {
		return strings.TrimRight(s.opts.BaseURL, "/"), nil
	}
	host, ok := defaultHosts[region.Code]
	if !ok {
		return "", fmt.Errorf("no sold-listings site for region %s", region.Code)
	}
	return host, nil
}

func (s *SoldListingsSource) fetch(ctx context.Context, region model.Region, query string) ([]model.ListingSample, error) {
	base, err := s.baseURL(region)
	if err != nil {
		return nil, err
	}
	if s.limiter.TokensAvailable() == 0 {
		s.logger.WithField("region", region.Code).Debug("sold listings rate limit reached, waiting")
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	params := url.Values{}
	params.Set("_nkw", query)
	params.Set("LH_Sold", "1")
	params.Set("LH_Complete", "1")
	params.Set("LH_BIN", "1")
	params.Set("_ipg", "60")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+soldSearchPath+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	setBrowserHeaders(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	reader, err := bodyReader(resp)
	if err != nil {
		return nil, fmt.Errorf("create reader: %w", err)
	}

	return ParseSoldListings(reader, region)
}

func setBrowserHeaders(req *http.Request) {
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept-Encoding", "gzip, br")
}

func bodyReader(resp *http.Response) (io.Reader, error) {
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		return gzip.NewReader(resp.Body)
	case "br":
		return brotli.NewReader(resp.Body), nil
	default:
		return resp.Body, nil
	}
}

var (
	amountPattern = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)
	rangePattern  = regexp.MustCompile(`\bto\b`)
)

// ParseSoldListings extracts sold result tiles from a completed-listings
// search page. Tiles with price ranges or unknown currency symbols keep an
// empty price and are skipped downstream.
func ParseSoldListings(r io.Reader, region model.Region) ([]model.ListingSample, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse sold listings: %w", err)
	}

	var out []model.ListingSample
	doc.Find("li.s-item, li.s-card").Each(func(i int, tile *goquery.Selection) {
		title := strings.TrimSpace(tile.Find(".s-item__title, .s-card__title").First().Text())
		if title == "" || strings.EqualFold(title, "shop on ebay") {
			return
		}

		priceText := strings.TrimSpace(tile.Find(".s-item__price, .s-card__price").First().Text())
		price, currency := parseAmount(priceText, region.Currency)

		sample := model.ListingSample{
			Title:    title,
			Price:    price,
			Currency: currency,
		}

		shipText := strings.TrimSpace(tile.Find(".s-item__shipping, .s-item__logisticsCost").First().Text())
		if ship, shipCurrency := parseAmount(shipText, currency); ship != "" && shipCurrency == currency {
			sample.ShippingCost = ship
		}

		if loc := strings.TrimSpace(tile.Find(".s-item__location").First().Text()); loc != "" {
			sample.Location = strings.TrimPrefix(loc, "from ")
		}
		sample.Seller = strings.TrimSpace(tile.Find(".s-item__seller-info-text").First().Text())

		out = append(out, sample)
	})
	return out, nil
}

// parseAmount turns text like "$1,234.50" or "+£3.20 postage" into a
// decimal string and currency code. fallback is used when the text carries
// no recognizable symbol.
func parseAmount(text, fallback string) (string, string) {
	if text == "" || rangePattern.MatchString(text) {
		return "", ""
	}
	num := amountPattern.FindString(text)
	if num == "" {
		return "", ""
	}
	num = strings.ReplaceAll(num, ",", "")

	switch {
	case strings.Contains(text, "£"):
		return num, "GBP"
	case strings.Contains(text, "$"):
		if strings.Contains(text, "AU $") || strings.Contains(text, "C $") {
			return num, ""
		}
		return num, "USD"
	case strings.Contains(text, "€"):
		return num, "EUR"
	default:
		return num, fallback
	}
}
