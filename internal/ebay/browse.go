package ebay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/guarzo/resaleprice/internal/model"
)

const (
	searchPath      = "/buy/browse/v1/item_summary/search"
	fixedPriceOnly  = "buyingOptions:{FIXED_PRICE}"
	defaultPageSize = 50
)

// BrowseOptions configures a BrowseClient.
type BrowseOptions struct {
	BaseURL    string
	PageSize   int
	RatePerSec float64 // <= 0 disables pacing
	HTTPClient *http.Client
}

// BrowseClient searches active fixed-price listings on one marketplace per
// call. It is safe for concurrent use.
type BrowseClient struct {
	baseURL    string
	pageSize   int
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewBrowseClient creates a listings search client.
func NewBrowseClient(opts BrowseOptions) *BrowseClient {
	if opts.PageSize <= 0 {
		opts.PageSize = defaultPageSize
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	limit := rate.Inf
	if opts.RatePerSec > 0 {
		limit = rate.Limit(opts.RatePerSec)
	}
	return &BrowseClient{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		pageSize:   opts.PageSize,
		httpClient: opts.HTTPClient,
		limiter:    rate.NewLimiter(limit, 1),
	}
}

// browse API response subset
type searchResponse struct {
	Total         int           `json:"total"`
	ItemSummaries []itemSummary `json:"itemSummaries"`
}

type amount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

type itemSummary struct {
	Title            string  `json:"title"`
	ShortDescription string  `json:"shortDescription"`
	Price            *amount `json:"price"`
	ShippingOptions  []struct {
		ShippingCost *amount `json:"shippingCost"`
	} `json:"shippingOptions"`
	ItemLocation *struct {
		City     string `json:"city"`
		Country  string `json:"country"`
		Postcode string `json:"postalCode"`
	} `json:"itemLocation"`
	Seller *struct {
		Username string `json:"username"`
	} `json:"seller"`
}

// Search returns the first page of fixed-price listings for query in region.
// Any non-2xx status is returned as an error.
func (c *BrowseClient) Search(ctx context.Context, token string, region model.Region, query string) ([]model.ListingSample, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(c.pageSize))
	params.Set("filter", fixedPriceOnly)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+searchPath+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-EBAY-C-MARKETPLACE-ID", region.MarketplaceID)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("browse search %s returned status %d: %s", region.Code, resp.StatusCode, string(body))
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	samples := make([]model.ListingSample, 0, len(result.ItemSummaries))
	for _, item := range result.ItemSummaries {
		samples = append(samples, item.toSample())
	}
	return samples, nil
}

func (i itemSummary) toSample() model.ListingSample {
	s := model.ListingSample{
		Title:       i.Title,
		Description: i.ShortDescription,
	}
	if i.Price != nil {
		s.Price = i.Price.Value
		s.Currency = strings.ToUpper(i.Price.Currency)
	}
	// Shipping quoted in another currency cannot be added to the price.
	if len(i.ShippingOptions) > 0 && i.ShippingOptions[0].ShippingCost != nil {
		ship := i.ShippingOptions[0].ShippingCost
		if ship.Currency == "" || strings.EqualFold(ship.Currency, s.Currency) {
			s.ShippingCost = ship.Value
		}
	}
	if i.ItemLocation != nil {
		s.Location = i.ItemLocation.Country
	}
	if i.Seller != nil {
		s.Seller = i.Seller.Username
	}
	return s
}
