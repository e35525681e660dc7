package analysis

import (
	"math"
	"testing"

	"github.com/guarzo/resaleprice/internal/model"
)

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
		ok     bool
	}{
		{"odd", []float64{1, 2, 3}, 2, true},
		{"even", []float64{1, 2, 3, 4}, 2.5, true},
		{"unsorted", []float64{9, 1, 5}, 5, true},
		{"single", []float64{7}, 7, true},
		{"empty", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Median(tt.values)
			if ok != tt.ok || got != tt.want {
				t.Errorf("Median(%v) = %v, %v; want %v, %v", tt.values, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestMedian_DoesNotMutateInput(t *testing.T) {
	in := []float64{3, 1, 2}
	Median(in)
	if in[0] != 3 || in[1] != 1 || in[2] != 2 {
		t.Errorf("input was reordered: %v", in)
	}
}

func TestBandFor_Boundaries(t *testing.T) {
	tests := []struct {
		ratio float64
		band  model.Band
		trust float64
	}{
		{1.0, model.BandSame, TrustSame},
		{0.75, model.BandSame, TrustSame},
		{1.25, model.BandSame, TrustSame},
		{1.26, model.BandVariant, TrustVariant},
		{0.74, model.BandVariant, TrustVariant},
		{0.5, model.BandVariant, TrustVariant},
		{1.5, model.BandVariant, TrustVariant},
		{1.51, model.BandRelated, TrustRelated},
		{0.49, model.BandRelated, TrustRelated},
		{0.3, model.BandRelated, TrustRelated},
		{2.0, model.BandRelated, TrustRelated},
		{2.01, model.BandAnomaly, TrustAnomaly},
		{0.29, model.BandAnomaly, TrustAnomaly},
		{0, model.BandAnomaly, TrustAnomaly},
	}

	for _, tt := range tests {
		band, trust := BandFor(tt.ratio)
		if band != tt.band || trust != tt.trust {
			t.Errorf("BandFor(%v) = %s/%v, want %s/%v", tt.ratio, band, trust, tt.band, tt.trust)
		}
	}
}

func listings(totals ...float64) []model.NormalizedListing {
	out := make([]model.NormalizedListing, len(totals))
	for i, v := range totals {
		out[i] = model.NormalizedListing{Total: v}
	}
	return out
}

func TestClassify_ExactRatios(t *testing.T) {
	// median of {75,100,100,125,126} is 100
	got := Classify(listings(75, 100, 100, 125, 126))

	want := []model.Band{model.BandSame, model.BandSame, model.BandSame, model.BandSame, model.BandVariant}
	for i, c := range got {
		if c.Band != want[i] {
			t.Errorf("listing %d (%.0f): band %s, want %s", i, c.Total, c.Band, want[i])
		}
		if c.TrustWeight <= 0 || c.TrustWeight > 1 {
			t.Errorf("listing %d: trust %v out of (0,1]", i, c.TrustWeight)
		}
	}
}

func TestClassify_Empty(t *testing.T) {
	if got := Classify(nil); len(got) != 0 {
		t.Errorf("Classify(nil) = %v, want empty", got)
	}
	if got := TrustResample(nil); len(got) != 0 {
		t.Errorf("TrustResample(nil) = %v, want empty", got)
	}
}

func TestRepeatCount(t *testing.T) {
	tests := []struct {
		trust float64
		want  int
	}{
		{TrustSame, 3},
		{TrustVariant, 2},
		{trustUnknownMedian, 2},
		{TrustRelated, 1},
		{TrustAnomaly, 1},
		{1.0, 3},
	}
	for _, tt := range tests {
		if got := RepeatCount(tt.trust); got != tt.want {
			t.Errorf("RepeatCount(%v) = %d, want %d", tt.trust, got, tt.want)
		}
	}
}

func TestResample_DropsRelatedAndAnomaly(t *testing.T) {
	in := []model.ClassifiedListing{
		{NormalizedListing: model.NormalizedListing{Total: 100}, Band: model.BandSame, TrustWeight: TrustSame},
		{NormalizedListing: model.NormalizedListing{Total: 140}, Band: model.BandVariant, TrustWeight: TrustVariant},
		{NormalizedListing: model.NormalizedListing{Total: 190}, Band: model.BandRelated, TrustWeight: TrustRelated},
		{NormalizedListing: model.NormalizedListing{Total: 900}, Band: model.BandAnomaly, TrustWeight: TrustAnomaly},
	}

	got := Resample(in)
	want := []float64{100, 100, 100, 140, 140}
	if len(got) != len(want) {
		t.Fatalf("Resample = %v, want %v", got, want)
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("Resample[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
