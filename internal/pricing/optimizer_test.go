package pricing

import (
	"math"
	"testing"
)

func TestConversionRate_Knots(t *testing.T) {
	tests := []struct {
		r    float64
		want float64
	}{
		{0.1, 0.9},
		{0.6, 0.9},
		{0.7, 0.8},
		{0.8, 0.7},
		{1.0, 0.5},
		{1.2, 0.35},
		{1.4, 0.2},
		{1.8, 0.1},
		{1.81, 0.05},
		{5, 0.05},
	}
	for _, tt := range tests {
		if got := ConversionRate(tt.r); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ConversionRate(%v) = %v, want %v", tt.r, got, tt.want)
		}
	}
}

func TestConversionRate_NonIncreasing(t *testing.T) {
	prev := ConversionRate(0)
	for r := 0.01; r < 3; r += 0.01 {
		cur := ConversionRate(r)
		if cur > prev+1e-12 {
			t.Fatalf("rate increased at r=%.2f: %v > %v", r, cur, prev)
		}
		prev = cur
	}
}

func TestOptimize_RevenuePrice(t *testing.T) {
	got := Optimize(4030, nil)
	// best grid ratio is 0.76: 4030*0.76 = 3062.8
	if got.RevenueMaxPrice != 3060 {
		t.Errorf("RevenueMaxPrice = %d, want 3060", got.RevenueMaxPrice)
	}
	if got.ProfitMaxPrice != nil {
		t.Errorf("ProfitMaxPrice = %d, want nil without cost", *got.ProfitMaxPrice)
	}
}

func TestOptimize_RevenueWithinRangeAndRounded(t *testing.T) {
	for m := int64(20); m < 5_000_000; m = m*13/10 + 7 {
		got := Optimize(m, nil)
		lo, hi := 0.6*float64(m), 1.8*float64(m)
		p := float64(got.RevenueMaxPrice)
		if p < lo || p > hi {
			t.Errorf("median %d: revenue price %d outside [%.1f, %.1f]", m, got.RevenueMaxPrice, lo, hi)
		}
		if got.RevenueMaxPrice%10 != 0 {
			t.Errorf("median %d: revenue price %d not a multiple of 10", m, got.RevenueMaxPrice)
		}
	}
}

func TestOptimize_ProfitExceedsCost(t *testing.T) {
	for _, m := range []int64{100, 999, 4030, 12345, 250000} {
		for _, share := range []float64{0, 0.3, 0.59, 0.6, 0.9, 1.2, 1.5, 1.79} {
			cost := int64(float64(m) * share)
			got := Optimize(m, &cost)
			if got.ProfitMaxPrice == nil {
				t.Errorf("median %d cost %d: expected a profit price", m, cost)
				continue
			}
			if *got.ProfitMaxPrice <= cost {
				t.Errorf("median %d cost %d: profit price %d does not exceed cost", m, cost, *got.ProfitMaxPrice)
			}
			if *got.ProfitMaxPrice%10 != 0 {
				t.Errorf("median %d cost %d: profit price %d not a multiple of 10", m, cost, *got.ProfitMaxPrice)
			}
		}
	}
}

func TestOptimize_ProfitAbsentWhenCostTooHigh(t *testing.T) {
	for _, m := range []int64{100, 1000, 4030} {
		for _, extra := range []int64{0, 1, 1000} {
			cost := int64(math.Ceil(1.8*float64(m))) + extra
			if got := Optimize(m, &cost); got.ProfitMaxPrice != nil {
				t.Errorf("median %d cost %d: expected no profit price, got %d", m, cost, *got.ProfitMaxPrice)
			}
		}
	}
}

func TestOptimize_ProfitPrefersHigherPriceThanRevenue(t *testing.T) {
	cost := int64(2000)
	got := Optimize(4030, &cost)
	if got.ProfitMaxPrice == nil || *got.ProfitMaxPrice <= got.RevenueMaxPrice {
		t.Errorf("with a high cost basis the profit price should sit above the revenue price: %+v", got)
	}
}

func TestOptimize_NonPositiveMedian(t *testing.T) {
	cost := int64(10)
	got := Optimize(0, &cost)
	if got.RevenueMaxPrice != 0 || got.ProfitMaxPrice != nil {
		t.Errorf("Optimize(0) = %+v, want zero value", got)
	}
}
