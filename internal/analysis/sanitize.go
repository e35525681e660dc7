package analysis

import (
	"math"
	"sort"
)

// MaxPlausibleTotal is the largest local-currency total accepted for a
// single listing.
const MaxPlausibleTotal = 1e9

// IsPlausibleTotal rejects NaN, infinities, non-positive and absurdly large
// values.
func IsPlausibleTotal(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	return v > 0 && v <= MaxPlausibleTotal
}

// SanitizePrices returns the plausible values of prices sorted ascending.
// The input is not modified.
func SanitizePrices(prices []float64) []float64 {
	clean := make([]float64, 0, len(prices))
	for _, p := range prices {
		if IsPlausibleTotal(p) {
			clean = append(clean, p)
		}
	}
	sort.Float64s(clean)
	return clean
}
