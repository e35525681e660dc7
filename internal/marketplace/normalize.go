package marketplace

import (
	"github.com/sirupsen/logrus"

	"github.com/guarzo/resaleprice/internal/analysis"
	"github.com/guarzo/resaleprice/internal/fx"
	"github.com/guarzo/resaleprice/internal/genre"
	"github.com/guarzo/resaleprice/internal/model"
)

// NormalizeListings applies category admissibility and converts each
// surviving listing's price+shipping into the local currency. Listings with
// a missing or unparseable price, an unsupported currency, or an implausible
// total are skipped.
func NormalizeListings(samples []model.ListingSample, categoryID string, rates fx.Snapshot, logger *logrus.Entry) []model.NormalizedListing {
	spec := genre.SpecFor(categoryID)

	var (
		out                                 []model.NormalizedListing
		inadmissible, unpriced, implausible int
	)
	for _, s := range samples {
		if categoryID != "" && !spec.Admit(s.Text()) {
			inadmissible++
			continue
		}
		if s.Price == "" {
			unpriced++
			continue
		}
		total, err := rates.Convert(s.Price, s.ShippingCost, s.Currency)
		if err != nil {
			unpriced++
			continue
		}
		if !analysis.IsPlausibleTotal(total) {
			implausible++
			continue
		}
		out = append(out, model.NormalizedListing{ListingSample: s, Total: total})
	}

	if logger != nil {
		logger.WithFields(logrus.Fields{
			"raw":          len(samples),
			"kept":         len(out),
			"inadmissible": inadmissible,
			"unpriced":     unpriced,
			"implausible":  implausible,
		}).Debug("listings normalized")
	}
	return out
}

// Evaluate runs trust resampling and the statistics engine over normalized
// listings. nil means insufficient evidence.
func Evaluate(listings []model.NormalizedListing, categoryID string) *model.CompositeStatistic {
	if len(listings) == 0 {
		return nil
	}
	return analysis.Compute(analysis.TrustResample(listings), categoryID)
}
