package analysis

import (
	"math"

	"github.com/guarzo/resaleprice/internal/genre"
	"github.com/guarzo/resaleprice/internal/model"
)

const (
	lowerBandShare  = 0.4
	middleBandEnd   = 0.7
	lowerWeight     = 0.7
	middleWeight    = 0.3
	highRefQuantile = 0.25
)

// Compute turns resampled prices into a composite statistic for the given
// category. It returns nil when fewer than the category's minimum number of
// plausible prices remain.
func Compute(prices []float64, categoryID string) *model.CompositeStatistic {
	spec := genre.SpecFor(categoryID)
	return ComputeWith(prices, spec.MinSamples, spec.AdjustmentFactor)
}

// ComputeWith is Compute with an explicit gate and adjustment factor.
func ComputeWith(prices []float64, minSamples int, adjustment float64) *model.CompositeStatistic {
	sorted := SanitizePrices(prices)
	n := len(sorted)
	if n == 0 || n < minSamples {
		return nil
	}
	if adjustment <= 0 {
		adjustment = 1
	}

	lowerCount := int(math.Floor(float64(n) * lowerBandShare))
	if lowerCount < 1 {
		lowerCount = 1
	}
	middleEnd := int(math.Floor(float64(n) * middleBandEnd))
	if middleEnd < lowerCount+1 {
		middleEnd = lowerCount + 1
	}
	if middleEnd > n {
		middleEnd = n
	}

	lower := sorted[:lowerCount]
	middle := sorted[lowerCount:middleEnd]

	// lower always holds at least one value; middle is empty only when n == 1.
	lowerMedian := medianSorted(lower)
	composite := lowerMedian
	var middleMedian float64
	if len(middle) > 0 {
		middleMedian = medianSorted(middle)
		composite = lowerWeight*lowerMedian + middleWeight*middleMedian
	}
	composite *= adjustment

	topCount := int(math.Ceil(float64(n) * highRefQuantile))
	var topSum float64
	for _, v := range sorted[n-topCount:] {
		topSum += v
	}

	return &model.CompositeStatistic{
		CompositeMedian:  round(composite),
		RawMedian:        round(medianSorted(sorted)),
		LowerBandMedian:  round(lowerMedian),
		MiddleBandMedian: round(middleMedian),
		HighReference:    round(topSum / float64(topCount)),
		LowReference:     round(sorted[0]),
		SampleCount:      n,
	}
}

func round(v float64) int64 {
	return int64(math.Round(v))
}
