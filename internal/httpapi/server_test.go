package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/guarzo/resaleprice/internal/model"
	"github.com/guarzo/resaleprice/internal/orders"
)

type stubEnqueuer struct {
	accept   bool
	orderID  string
	sellerID string
}

func (s *stubEnqueuer) Enqueue(orderID, sellerID string) bool {
	s.orderID, s.sellerID = orderID, sellerID
	return s.accept
}

type stubPricing struct {
	out *model.PricingOutcome
	err error
}

func (s stubPricing) Pricing(ctx context.Context, id string) (*model.PricingOutcome, error) {
	return s.out, s.err
}

func TestEnrich(t *testing.T) {
	tests := []struct {
		name       string
		accept     bool
		body       string
		wantStatus int
		wantSeller string
	}{
		{"accepted with seller", true, `{"seller_id":"s-1"}`, http.StatusAccepted, "s-1"},
		{"accepted without body", true, "", http.StatusAccepted, ""},
		{"queue full", false, "", http.StatusServiceUnavailable, ""},
		{"bad body", true, `{"seller_id":`, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enq := &stubEnqueuer{accept: tt.accept}
			srv := NewServer(enq, stubPricing{}, nil)

			req := httptest.NewRequest(http.MethodPost, "/v1/orders/ord-7/enrich", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			srv.Router().ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusAccepted {
				if enq.orderID != "ord-7" || enq.sellerID != tt.wantSeller {
					t.Errorf("enqueued %q/%q", enq.orderID, enq.sellerID)
				}
			}
			if tt.wantStatus == http.StatusServiceUnavailable && rec.Header().Get("Retry-After") == "" {
				t.Error("missing Retry-After")
			}
		})
	}
}

func TestPricing(t *testing.T) {
	profit := int64(4100)
	priced := &model.PricingOutcome{
		CompositeMedian: 4030,
		LowReference:    3900,
		HighReference:   4260,
		SampleCount:     18,
		RevenueMaxPrice: 3060,
		ProfitMaxPrice:  &profit,
		PricedAt:        time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	tests := []struct {
		name       string
		reader     stubPricing
		wantStatus int
	}{
		{"priced", stubPricing{out: priced}, http.StatusOK},
		{"never priced", stubPricing{}, http.StatusNoContent},
		{"unknown order", stubPricing{err: orders.ErrNotFound}, http.StatusNotFound},
		{"store failure", stubPricing{err: errors.New("disk")}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := NewServer(&stubEnqueuer{}, tt.reader, nil)
			rec := httptest.NewRecorder()
			srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/orders/ord-7/pricing", nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			var got PricingResponse
			if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
				t.Fatal(err)
			}
			if got.OrderID != "ord-7" || got.RevenueMaxPrice != 3060 || got.ProfitMaxPrice == nil || *got.ProfitMaxPrice != 4100 {
				t.Errorf("response = %+v", got)
			}
		})
	}
}

func TestHealthz(t *testing.T) {
	srv := NewServer(&stubEnqueuer{}, stubPricing{}, nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}
