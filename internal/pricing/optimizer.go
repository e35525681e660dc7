// Package pricing derives list-price recommendations from a composite
// median under a modeled conversion curve.
package pricing

import (
	"math"

	"github.com/guarzo/resaleprice/internal/model"
)

const (
	gridPoints = 16
	minRatio   = 0.6
	maxRatio   = 1.8
	roundStep  = 10
)

// ConversionRate models the probability of a sale at price/median ratio r.
// It is piecewise linear and non-increasing.
func ConversionRate(r float64) float64 {
	switch {
	case r <= 0.6:
		return 0.9
	case r <= 0.8:
		return lerp(r, 0.6, 0.8, 0.9, 0.7)
	case r <= 1.0:
		return lerp(r, 0.8, 1.0, 0.7, 0.5)
	case r <= 1.4:
		return lerp(r, 1.0, 1.4, 0.5, 0.2)
	case r <= 1.8:
		return lerp(r, 1.4, 1.8, 0.2, 0.1)
	default:
		return 0.05
	}
}

func lerp(x, x0, x1, y0, y1 float64) float64 {
	return y0 + (x-x0)/(x1-x0)*(y1-y0)
}

// Optimize searches 16 evenly spaced prices in [0.6, 1.8]×median for the
// revenue-maximizing price and, when cost is known, the profit-maximizing
// price among prices above cost. Both results are multiples of 10.
func Optimize(median int64, cost *int64) model.OptimalPricePair {
	if median <= 0 {
		return model.OptimalPricePair{}
	}
	m := float64(median)

	var (
		bestRevenue, revenuePrice float64
		bestProfit, profitPrice   float64
		haveProfit                bool
	)
	for i := 0; i < gridPoints; i++ {
		ratio := minRatio + float64(i)*(maxRatio-minRatio)/float64(gridPoints-1)
		if i == gridPoints-1 {
			ratio = maxRatio
		}
		price := m * ratio
		rate := ConversionRate(ratio)

		if revenue := price * rate; i == 0 || revenue > bestRevenue {
			bestRevenue, revenuePrice = revenue, price
		}

		if cost == nil || price <= float64(*cost) {
			continue
		}
		if profit := (price - float64(*cost)) * rate; !haveProfit || profit > bestProfit {
			bestProfit, profitPrice, haveProfit = profit, price, true
		}
	}

	lo := ceilStep(m * minRatio)
	hi := floorStep(m * maxRatio)

	pair := model.OptimalPricePair{RevenueMaxPrice: clampStep(revenuePrice, lo, hi)}
	if haveProfit {
		p := clampStep(profitPrice, lo, hi)
		if p <= *cost {
			p = (*cost/roundStep + 1) * roundStep
		}
		pair.ProfitMaxPrice = &p
	}
	return pair
}

// clampStep rounds v to the nearest step and keeps it inside [lo, hi]. When
// the range holds no multiple of the step, the rounded value is returned.
func clampStep(v float64, lo, hi int64) int64 {
	r := int64(math.Round(v/roundStep)) * roundStep
	if lo > hi {
		return r
	}
	if r < lo {
		return lo
	}
	if r > hi {
		return hi
	}
	return r
}

func ceilStep(v float64) int64 {
	return int64(math.Ceil(v/roundStep-1e-9)) * roundStep
}

func floorStep(v float64) int64 {
	return int64(math.Floor(v/roundStep+1e-9)) * roundStep
}
