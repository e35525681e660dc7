// Package httpapi exposes the enrichment trigger over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/guarzo/resaleprice/internal/logging"
	"github.com/guarzo/resaleprice/internal/model"
	"github.com/guarzo/resaleprice/internal/orders"
)

// Enqueuer schedules an enrichment run without waiting for it.
type Enqueuer interface {
	Enqueue(orderID, sellerID string) bool
}

// PricingReader returns an order's last persisted outcome.
type PricingReader interface {
	Pricing(ctx context.Context, id string) (*model.PricingOutcome, error)
}

// EnqueueRequest is the optional body of POST /v1/orders/{orderID}/enrich.
type EnqueueRequest struct {
	SellerID string `json:"seller_id"`
}

// PricingResponse is the body of GET /v1/orders/{orderID}/pricing.
type PricingResponse struct {
	OrderID         string    `json:"order_id"`
	CompositeMedian int64     `json:"composite_median"`
	HighReference   int64     `json:"high_reference"`
	LowReference    int64     `json:"low_reference"`
	SampleCount     int       `json:"sample_count"`
	RevenueMaxPrice int64     `json:"revenue_max_price"`
	ProfitMaxPrice  *int64    `json:"profit_max_price"`
	PricedAt        time.Time `json:"priced_at"`
}

// Server holds the HTTP handlers.
type Server struct {
	enqueuer Enqueuer
	pricing  PricingReader
	logger   *logrus.Entry
}

func NewServer(enqueuer Enqueuer, pricing PricingReader, logger *logrus.Entry) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Server{enqueuer: enqueuer, pricing: pricing, logger: logger}
}

// Router builds the chi router with request ids, panic recovery and access
// logging.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.accessLog)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1/orders/{orderID}", func(r chi.Router) {
		r.Post("/enrich", s.handleEnrich)
		r.Get("/pricing", s.handlePricing)
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleEnrich enqueues a run and returns 202 right away. A full queue
// answers 503 so the caller can retry.
func (s *Server) handleEnrich(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	var req EnqueueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if !s.enqueuer.Enqueue(orderID, req.SellerID) {
		w.Header().Set("Retry-After", "30")
		http.Error(w, "enrichment queue full", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"order_id": orderID, "status": "queued"})
}

func (s *Server) handlePricing(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	out, err := s.pricing.Pricing(r.Context(), orderID)
	if errors.Is(err, orders.ErrNotFound) {
		http.Error(w, "order not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.logger.WithError(err).WithField("order_id", orderID).Error("read pricing failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if out == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, http.StatusOK, PricingResponse{
		OrderID:         orderID,
		CompositeMedian: out.CompositeMedian,
		HighReference:   out.HighReference,
		LowReference:    out.LowReference,
		SampleCount:     out.SampleCount,
		RevenueMaxPrice: out.RevenueMaxPrice,
		ProfitMaxPrice:  out.ProfitMaxPrice,
		PricedAt:        out.PricedAt,
	})
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"duration":   time.Since(start).String(),
			"request_id": middleware.GetReqID(r.Context()),
		}).Debug("http request")
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
