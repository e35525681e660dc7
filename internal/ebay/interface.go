package ebay

import (
	"context"

	"github.com/guarzo/resaleprice/internal/model"
)

// TokenSource provides a bearer token for marketplace calls.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// ListingSearcher fetches raw listings for one region.
type ListingSearcher interface {
	Search(ctx context.Context, token string, region model.Region, query string) ([]model.ListingSample, error)
}

var (
	_ TokenSource     = (*TokenCache)(nil)
	_ ListingSearcher = (*BrowseClient)(nil)
)
