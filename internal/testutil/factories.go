package testutil

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/guarzo/resaleprice/internal/model"
)

// TestDataFactory generates listings and orders from a seeded source so
// failures reproduce.
type TestDataFactory struct {
	rand *rand.Rand
	seq  int
}

// NewTestDataFactory creates a factory; seed 0 picks a time-based seed.
func NewTestDataFactory(seed int64) *TestDataFactory {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &TestDataFactory{
		rand: rand.New(rand.NewSource(seed)),
	}
}

// OrderID returns a unique order id.
func (f *TestDataFactory) OrderID() string {
	f.seq++
	return fmt.Sprintf("ord-%d-%04d", f.seq, f.rand.Intn(10000))
}

// Order builds an active order with the given description.
func (f *TestDataFactory) Order(description string, declared int64) model.Order {
	return model.Order{
		ID:             f.OrderID(),
		SellerID:       fmt.Sprintf("seller-%d", f.rand.Intn(1000)),
		Description:    description,
		DeclaredAmount: declared,
	}
}

// Listings returns one listing per price, all sharing title and currency.
func (f *TestDataFactory) Listings(title, currency string, prices ...string) []model.ListingSample {
	out := make([]model.ListingSample, len(prices))
	for i, p := range prices {
		out[i] = model.ListingSample{
			Title:    fmt.Sprintf("%s #%d", title, i),
			Price:    p,
			Currency: currency,
			Location: "JP",
			Seller:   fmt.Sprintf("seller%d", f.rand.Intn(1000)),
		}
	}
	return out
}

// Jittered returns n prices spread within ±spread of center, formatted with
// two decimals.
func (f *TestDataFactory) Jittered(center, spread float64, n int) []string {
	out := make([]string, n)
	for i := range out {
		v := center + (f.rand.Float64()*2-1)*spread
		out[i] = fmt.Sprintf("%.2f", v)
	}
	return out
}
