package genre

import (
	"strings"

	"golang.org/x/text/width"
)

// Normalize folds full-width ASCII to half-width, half-width katakana to
// full-width, and lower-cases the result. All keyword matching runs on
// normalized text.
func Normalize(text string) string {
	return strings.ToLower(width.Fold.String(text))
}

// sealedFamily resolves the box/pack ambiguity for one card franchise.
type sealedFamily struct {
	parent []string
	boxID  string
	packID string
}

var (
	boxVocabulary  = []string{"box", "ボックス", "箱", "booster display", "カートン"}
	packVocabulary = []string{"pack", "パック"}

	sealedFamilies = []sealedFamily{
		{parent: []string{"ポケモンカード", "ポケカ", "pokemon", "pokémon"}, boxID: "pokemon_box", packID: "pokemon_pack"},
		{parent: []string{"ワンピースカード", "ワンピカード", "one piece card"}, boxID: "onepiece_box", packID: "onepiece_pack"},
		{parent: []string{"遊戯王", "yugioh", "yu-gi-oh"}, boxID: "yugioh_box", packID: "yugioh_pack"},
		{parent: []string{"mtg", "マジックザギャザリング", "magic the gathering"}, boxID: "mtg_box", packID: "mtg_pack"},
		{parent: []string{"ドラゴンボールカード", "フュージョンワールド", "fusion world"}, boxID: "dragonball_box", packID: "dragonball_pack"},
		{parent: []string{"デュエマ", "デュエルマスターズ", "duel masters"}, boxID: "duelmasters_box", packID: "duelmasters_pack"},
	}
)

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}

// resolveSealed applies the box/pack decision table: box only or both
// signals pick the box category, pack only picks the pack category.
func resolveSealed(folded string) (string, bool) {
	box := containsAny(folded, boxVocabulary)
	pack := containsAny(folded, packVocabulary)
	if !box && !pack {
		return "", false
	}
	for _, f := range sealedFamilies {
		if !containsAny(folded, f.parent) {
			continue
		}
		if box {
			return f.boxID, true
		}
		return f.packID, true
	}
	return "", false
}

func (c CategorySpec) score(folded string) int {
	hits := 0
	for _, kw := range c.Keywords {
		if strings.Contains(folded, kw) {
			hits++
		}
	}
	return hits
}

// Classify maps free text to exactly one category id. It never returns an
// empty id: text that matches nothing is "general".
func Classify(text string) string {
	folded := Normalize(text)
	if id, ok := resolveSealed(folded); ok {
		return id
	}

	// Graded categories only compete when a lab mark is present, and then
	// the mark outweighs the single-card vocabulary they share.
	graded := gradingPattern.MatchString(folded)

	best, bestScore := DefaultID, 0
	for _, c := range catalog {
		s := c.score(folded)
		if c.Kind == KindGradedCard {
			if !graded {
				continue
			}
			s += 2
		}
		if s > bestScore {
			best, bestScore = c.ID, s
		}
	}
	return best
}
