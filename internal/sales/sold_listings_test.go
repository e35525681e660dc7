package sales

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/andybalholm/brotli"

	"github.com/guarzo/resaleprice/internal/fx"
	"github.com/guarzo/resaleprice/internal/model"
)

type fixedRates fx.Snapshot

func (r fixedRates) Snapshot(ctx context.Context) fx.Snapshot { return fx.Snapshot(r) }

func soldTile(title, price, shipping string) string {
	return fmt.Sprintf(`<li class="s-item">
  <div class="s-item__title"><span>%s</span></div>
  <span class="s-item__price">%s</span>
  <span class="s-item__shipping">%s</span>
  <span class="s-item__location">from Japan</span>
</li>`, title, price, shipping)
}

func soldPage(tiles ...string) string {
	return `<html><body><ul class="srp-results">` +
		soldTile("Shop on eBay", "$20.00", "") +
		strings.Join(tiles, "\n") +
		`</ul></body></html>`
}

func TestParseSoldListings(t *testing.T) {
	page := soldPage(
		soldTile("Pokemon Booster Box Japanese", "$40.00", "+$5.00 shipping"),
		soldTile("Pokemon Booster Box Japanese", "$1,040.50", "Free shipping"),
		soldTile("Pokemon Booster Box Japanese", "$40.00 to $60.00", ""),
		soldTile("Pokemon Booster Box Japanese", "£33.00", "+£2.50 postage"),
	)

	got, err := ParseSoldListings(strings.NewReader(page), model.DefaultRegions()[0])
	if err != nil {
		t.Fatalf("ParseSoldListings: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("len = %d, want 4 (placeholder tile skipped)", len(got))
	}

	tests := []struct {
		price, currency, shipping string
	}{
		{"40.00", "USD", "5.00"},
		{"1040.50", "USD", ""},
		{"", "", ""},
		{"33.00", "GBP", "2.50"},
	}
	for i, tt := range tests {
		s := got[i]
		if s.Price != tt.price || s.Currency != tt.currency || s.ShippingCost != tt.shipping {
			t.Errorf("tile %d = {%q %q %q}, want {%q %q %q}", i, s.Price, s.Currency, s.ShippingCost, tt.price, tt.currency, tt.shipping)
		}
	}
	if got[0].Location != "Japan" {
		t.Errorf("location = %q, want Japan", got[0].Location)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		text, fallback string
		num, currency  string
	}{
		{"$12.00", "GBP", "12.00", "USD"},
		{"£7.99", "USD", "7.99", "GBP"},
		{"US $1,200", "GBP", "1200", "USD"},
		{"AU $30.00", "USD", "30.00", ""},
		{"12.50", "GBP", "12.50", "GBP"},
		{"Free postage", "GBP", "", ""},
		{"", "USD", "", ""},
	}
	for _, tt := range tests {
		num, cur := parseAmount(tt.text, tt.fallback)
		if num != tt.num || cur != tt.currency {
			t.Errorf("parseAmount(%q) = %q, %q; want %q, %q", tt.text, num, cur, tt.num, tt.currency)
		}
	}
}

func brotliBody(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := brotli.NewWriter(&buf)
	if _, err := w.Write([]byte(s)); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestSoldListingsSource_SampleAndCache(t *testing.T) {
	page := soldPage(
		soldTile("Pokemon Booster Box Shiny Treasure ex Japanese", "$39.00", ""),
		soldTile("Pokemon Booster Box Shiny Treasure ex Japanese", "$40.00", ""),
		soldTile("Pokemon Booster Box Shiny Treasure ex Japanese", "$41.00", ""),
		soldTile("Pokemon Booster Box Shiny Treasure ex Japanese case x6", "$250.00", ""),
	)
	body := brotliBody(t, page)

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.URL.Path != soldSearchPath {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.URL.Query().Get("LH_Sold") != "1" {
			t.Error("sold filter missing")
		}
		w.Header().Set("Content-Encoding", "br")
		w.Write(body)
	}))
	defer srv.Close()

	src := NewSoldListingsSource(SoldOptions{BaseURL: srv.URL, HTTPClient: srv.Client(), RequestsPerMin: 600}, fixedRates{USDToLocal: 100, GBPToLocal: 100}, nil)
	region := model.DefaultRegions()[0]
	query := "pokemon booster box shiny treasure ex japanese sealed"

	stat := src.Sample(context.Background(), query, region, "pokemon_box")
	if stat == nil {
		t.Fatal("expected a statistic")
	}
	if stat.LowReference != 3900 || stat.SampleCount != 9 {
		t.Errorf("unexpected statistic %+v", stat)
	}

	again := src.Sample(context.Background(), query, region, "pokemon_box")
	if again == nil || *again != *stat {
		t.Errorf("cached result differs: %+v", again)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("server calls = %d, want 1 (second call cached)", n)
	}
}

func TestSoldListingsSource_FailuresAreNotCached(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "blocked", http.StatusForbidden)
	}))
	defer srv.Close()

	src := NewSoldListingsSource(SoldOptions{BaseURL: srv.URL, HTTPClient: srv.Client(), RequestsPerMin: 600}, fixedRates{USDToLocal: 1, GBPToLocal: 1}, nil)
	region := model.DefaultRegions()[1]

	for i := 0; i < 2; i++ {
		if stat := src.Sample(context.Background(), "anything", region, "general"); stat != nil {
			t.Errorf("expected no data, got %+v", stat)
		}
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Errorf("server calls = %d, want 2", n)
	}
}

func TestSoldListingsSource_UnknownRegion(t *testing.T) {
	src := NewSoldListingsSource(SoldOptions{}, fixedRates{}, nil)
	region := model.Region{Code: "DE", MarketplaceID: "EBAY_DE", Currency: "EUR"}
	if stat := src.Sample(context.Background(), "anything", region, "general"); stat != nil {
		t.Errorf("expected no data for unmapped region, got %+v", stat)
	}
}

func TestSoldListingsSource_PruneDropsExpiredResults(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		fmt.Fprint(w, soldPage(soldTile("Pokemon Booster Box Japanese", "$40.00", "")))
	}))
	defer srv.Close()

	src := NewSoldListingsSource(SoldOptions{
		BaseURL:        srv.URL,
		HTTPClient:     srv.Client(),
		RequestsPerMin: 600,
		CacheTTL:       50 * time.Millisecond,
	}, fixedRates{USDToLocal: 100, GBPToLocal: 100}, nil)
	region := model.DefaultRegions()[0]

	src.Sample(context.Background(), "pokemon booster box", region, "pokemon_box")
	if removed := src.Prune(); removed != 0 {
		t.Errorf("removed = %d before expiry, want 0", removed)
	}

	time.Sleep(100 * time.Millisecond)
	if removed := src.Prune(); removed != 1 {
		t.Errorf("removed = %d after expiry, want 1", removed)
	}

	src.Sample(context.Background(), "pokemon booster box", region, "pokemon_box")
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Errorf("server calls = %d, want 2 after prune", n)
	}
}
