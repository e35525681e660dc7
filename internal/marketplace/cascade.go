package marketplace

import (
	"regexp"
	"strings"

	"github.com/guarzo/resaleprice/internal/genre"
	"github.com/guarzo/resaleprice/internal/model"
	"github.com/guarzo/resaleprice/internal/prices"
)

// minStageKeep is the most listings a stage must retain to be applied.
const minStageKeep = 3

// Stage is one narrowing step. A nil Keep disables the stage.
type Stage struct {
	Name string
	Keep func(model.ListingSample) bool
}

// Narrow applies stages in order. A stage is kept only when it retains at
// least min(current, 3) listings; otherwise the pre-stage set is restored.
func Narrow(listings []model.ListingSample, stages []Stage) []model.ListingSample {
	current := listings
	for _, st := range stages {
		if st.Keep == nil || len(current) == 0 {
			continue
		}
		kept := make([]model.ListingSample, 0, len(current))
		for _, l := range current {
			if st.Keep(l) {
				kept = append(kept, l)
			}
		}
		if len(kept) > 0 && len(kept) >= min(len(current), minStageKeep) {
			current = kept
		}
	}
	return current
}

var (
	cardNumberPattern = regexp.MustCompile(`\b\d{3}\b`)
	fractionPattern   = regexp.MustCompile(`\b(\d{3})/\d{2,3}\b`)
	localSignals      = []string{"japanese", "japan", "jpn", "日本"}
)

// StagesFor derives the cascade from a built search query: grading-mark
// presence, local-edition signal, 3-digit card number, then set or
// franchise name.
func StagesFor(query string) []Stage {
	folded := genre.Normalize(query)

	wantGraded := genre.HasGradingMark(folded)
	stages := []Stage{{
		Name: "grading",
		Keep: func(l model.ListingSample) bool {
			return genre.HasGradingMark(l.Text()) == wantGraded
		},
	}}

	local := Stage{Name: "local_edition"}
	if strings.Contains(folded, "japanese") {
		local.Keep = func(l model.ListingSample) bool {
			text := genre.Normalize(l.Text())
			for _, s := range localSignals {
				if strings.Contains(text, s) {
					return true
				}
			}
			return false
		}
	}
	stages = append(stages, local)

	names := prices.KnownSetNames(folded)

	number := Stage{Name: "card_number"}
	if n := cardNumber(folded, names); n != "" {
		re := regexp.MustCompile(`(?:^|\D)` + n + `(?:\D|$)`)
		number.Keep = func(l model.ListingSample) bool {
			return re.MatchString(l.Text())
		}
	}
	stages = append(stages, number)

	set := Stage{Name: "set_name"}
	if len(names) > 0 {
		name := names[0]
		set.Keep = func(l model.ListingSample) bool {
			return strings.Contains(genre.Normalize(l.Text()), name)
		}
	}
	return append(stages, set)
}

// cardNumber prefers the numerator of an N/M fraction, then any other
// 3-digit token outside set names such as "pokemon 151".
func cardNumber(folded string, setNames []string) string {
	if m := fractionPattern.FindStringSubmatch(folded); m != nil {
		return m[1]
	}
	for _, name := range setNames {
		folded = strings.ReplaceAll(folded, name, " ")
	}
	return cardNumberPattern.FindString(folded)
}
