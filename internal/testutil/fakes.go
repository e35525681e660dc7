package testutil

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/guarzo/resaleprice/internal/model"
	"github.com/guarzo/resaleprice/internal/orders"
)

// MemoryStore is an in-memory orders.Store.
type MemoryStore struct {
	mu      sync.Mutex
	orders  map[string]model.Order
	pricing map[string]model.PricingOutcome
	saves   int
}

func NewMemoryStore(seed ...model.Order) *MemoryStore {
	s := &MemoryStore{
		orders:  make(map[string]model.Order),
		pricing: make(map[string]model.PricingOutcome),
	}
	for _, o := range seed {
		s.orders[o.ID] = o
	}
	return s
}

func (s *MemoryStore) Load(ctx context.Context, id string) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, orders.ErrNotFound
	}
	return &o, nil
}

func (s *MemoryStore) SavePricing(ctx context.Context, id string, out model.PricingOutcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[id]; !ok {
		return orders.ErrNotFound
	}
	s.pricing[id] = out
	s.saves++
	return nil
}

func (s *MemoryStore) Pricing(ctx context.Context, id string) (*model.PricingOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[id]; !ok {
		return nil, orders.ErrNotFound
	}
	out, ok := s.pricing[id]
	if !ok {
		return nil, nil
	}
	return &out, nil
}

func (s *MemoryStore) Create(ctx context.Context, o model.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID] = o
	return nil
}

func (s *MemoryStore) Migrate(ctx context.Context) error { return nil }
func (s *MemoryStore) Close() error { return nil }

// Saves counts SavePricing calls that reached an existing order.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// StubSource is a sales.Source returning fixed statistics per region code.
type StubSource struct {
	SourceName string
	ByRegion   map[string]*model.CompositeStatistic
	Panic      bool

	calls     atomic.Int32
	mu        sync.Mutex
	lastQuery string
}

func (s *StubSource) Name() string { return s.SourceName }

func (s *StubSource) Sample(ctx context.Context, query string, region model.Region, categoryID string) *model.CompositeStatistic {
	s.calls.Add(1)
	s.mu.Lock()
	s.lastQuery = query
	s.mu.Unlock()
	if s.Panic {
		panic("stub source failure")
	}
	return s.ByRegion[region.Code]
}

// Calls returns how many times Sample ran.
func (s *StubSource) Calls() int { return int(s.calls.Load()) }

// LastQuery returns the query passed to the most recent Sample call.
func (s *StubSource) LastQuery() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastQuery
}

var _ orders.Store = (*MemoryStore)(nil)
