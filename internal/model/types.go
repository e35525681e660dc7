package model

import "time"

// Region identifies one marketplace site that listings are sampled from.
type Region struct {
	Code          string `yaml:"code"`           // "US", "UK"
	MarketplaceID string `yaml:"marketplace_id"` // value of the region-scope header, e.g. EBAY_US
	Currency      string `yaml:"currency"`
}

// DefaultRegions are the two marketplaces queried for every order.
func DefaultRegions() []Region {
	return []Region{
		{Code: "US", MarketplaceID: "EBAY_US", Currency: "USD"},
		{Code: "UK", MarketplaceID: "EBAY_GB", Currency: "GBP"},
	}
}

// ListingSample is one raw listing as returned by a marketplace.
type ListingSample struct {
	Title        string
	Description  string
	Price        string // decimal string as sent by the marketplace
	Currency     string
	ShippingCost string // may be empty
	Location     string
	Seller       string
}

// Text joins title and description for admissibility and cascade matching.
func (l ListingSample) Text() string {
	return l.Title + " " + l.Description
}

// NormalizedListing is a ListingSample whose price+shipping has been
// converted to the local currency. Total is always in (0, 1e9].
type NormalizedListing struct {
	ListingSample
	Total float64
}

// Band is the comparability class of a listing relative to its peer median.
type Band int

const (
	BandSame Band = iota
	BandVariant
	BandRelated
	BandAnomaly
)

func (b Band) String() string {
	switch b {
	case BandSame:
		return "SAME"
	case BandVariant:
		return "VARIANT"
	case BandRelated:
		return "RELATED"
	default:
		return "ANOMALY"
	}
}

// ClassifiedListing carries the band and trust weight assigned by the
// outlier classifier. TrustWeight is in (0,1].
type ClassifiedListing struct {
	NormalizedListing
	Band        Band
	TrustWeight float64
}

// CompositeStatistic is the blended price summary for one category+region
// query. It only exists when SampleCount met the category minimum.
type CompositeStatistic struct {
	CompositeMedian  int64 `json:"composite_median"`
	RawMedian        int64 `json:"raw_median"`
	LowerBandMedian  int64 `json:"lower_band_median"`
	MiddleBandMedian int64 `json:"middle_band_median"`
	HighReference    int64 `json:"high_reference"`
	LowReference     int64 `json:"low_reference"`
	SampleCount      int   `json:"sample_count"`
}

// OptimalPricePair holds the optimizer output. ProfitMaxPrice is nil when
// no evaluated price exceeds the cost basis.
type OptimalPricePair struct {
	RevenueMaxPrice int64
	ProfitMaxPrice  *int64
}

// PricingOutcome is persisted on the order in a single write.
type PricingOutcome struct {
	CompositeMedian int64
	HighReference   int64
	LowReference    int64
	SampleCount     int
	RevenueMaxPrice int64
	ProfitMaxPrice  *int64
	PricedAt        time.Time
}

// Order is the subset of an order the enrichment step reads.
type Order struct {
	ID             string
	SellerID       string
	Description    string
	DeclaredAmount int64
	CostBasis      *int64
	Deleted        bool
}
