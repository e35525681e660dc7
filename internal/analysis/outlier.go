package analysis

import (
	"math"
	"sort"

	"github.com/guarzo/resaleprice/internal/model"
)

// Trust weights per band.
const (
	TrustSame    = 0.9
	TrustVariant = 0.75
	TrustRelated = 0.5
	TrustAnomaly = 0.2

	// trustUnknownMedian is assigned when there is no usable median.
	trustUnknownMedian = 0.8

	maxRepeats = 3
)

// Median returns the standard median of values. ok is false for empty input.
func Median(values []float64) (median float64, ok bool) {
	if len(values) == 0 {
		return 0, false
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return medianSorted(sorted), true
}

func medianSorted(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// BandFor maps a price/median ratio to a band and its trust weight.
// Boundaries are inclusive on the side closer to 1.
func BandFor(ratio float64) (model.Band, float64) {
	switch {
	case ratio >= 0.75 && ratio <= 1.25:
		return model.BandSame, TrustSame
	case ratio >= 0.5 && ratio <= 1.5:
		return model.BandVariant, TrustVariant
	case ratio >= 0.3 && ratio <= 2.0:
		return model.BandRelated, TrustRelated
	default:
		return model.BandAnomaly, TrustAnomaly
	}
}

// Classify bands every listing against the median of all listing totals.
func Classify(listings []model.NormalizedListing) []model.ClassifiedListing {
	if len(listings) == 0 {
		return nil
	}

	totals := make([]float64, len(listings))
	for i, l := range listings {
		totals[i] = l.Total
	}
	median, ok := Median(totals)

	out := make([]model.ClassifiedListing, len(listings))
	for i, l := range listings {
		if !ok || median <= 0 {
			out[i] = model.ClassifiedListing{NormalizedListing: l, Band: model.BandSame, TrustWeight: trustUnknownMedian}
			continue
		}
		band, trust := BandFor(l.Total / median)
		out[i] = model.ClassifiedListing{NormalizedListing: l, Band: band, TrustWeight: trust}
	}
	return out
}

// RepeatCount converts a trust weight into the number of copies a price
// contributes to the resampled set: SAME gets 3, VARIANT 2.
func RepeatCount(trust float64) int {
	n := int(math.Round(1 + 2*(trust-0.5)/0.5))
	if n < 1 {
		return 1
	}
	if n > maxRepeats {
		return maxRepeats
	}
	return n
}

// Resample keeps SAME and VARIANT listings and repeats each price by its
// trust. RELATED and ANOMALY listings are dropped.
func Resample(classified []model.ClassifiedListing) []float64 {
	var out []float64
	for _, c := range classified {
		if c.Band != model.BandSame && c.Band != model.BandVariant {
			continue
		}
		for i := RepeatCount(c.TrustWeight); i > 0; i-- {
			out = append(out, c.Total)
		}
	}
	return out
}

// TrustResample is Classify followed by Resample.
func TrustResample(listings []model.NormalizedListing) []float64 {
	return Resample(Classify(listings))
}
