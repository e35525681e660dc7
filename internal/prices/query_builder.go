package prices

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/guarzo/resaleprice/internal/genre"
	"golang.org/x/text/width"
)

var (
	boxSpellings = strings.NewReplacer("ボックス", "box")

	gradePattern    = regexp.MustCompile(`\b(psa|bgs|cgc|ars|sgc)\s?(\d{1,2})\b`)
	setCodePattern  = regexp.MustCompile(`\b([a-z]{1,4})(-?)(\d{2,4})([a-z]?)\b`)
	rarityPattern   *regexp.Regexp
	rarityNumber    *regexp.Regexp
	fractionPattern = regexp.MustCompile(`\b\d{1,4}/\d{1,4}\b`)
	modelPattern    = regexp.MustCompile(`\b[a-z]{1,4}\d{0,2}-\d{3,5}[a-z0-9]{0,4}\b|\b[a-z]\d{4}[a-z]{0,2}\b`)
	storagePattern  = regexp.MustCompile(`\b(64|128|256|512)\s?gb\b|\b([12])\s?tb\b`)
	whitespace      = regexp.MustCompile(`\s+`)

	entitiesByLength []entity
)

func init() {
	alternation := strings.Join(rarityCodes, "|")
	rarityPattern = regexp.MustCompile(`\b(` + alternation + `)\b`)
	rarityNumber = regexp.MustCompile(`\b(` + alternation + `)(\d{1,4})\b`)

	entitiesByLength = append([]entity{}, entities...)
	sort.SliceStable(entitiesByLength, func(i, j int) bool {
		return len(entitiesByLength[i].local) > len(entitiesByLength[j].local)
	})
}

// QueryBuilder accumulates an ordered, de-duplicated token list for one
// marketplace search.
type QueryBuilder struct {
	normalized string // whitespace-collapsed, width-folded original
	folded     string // normalized and lower-cased
	category   genre.CategorySpec
	tokens     []string
	seen       map[string]bool
}

// NewQueryBuilder prepares a builder for text classified as categoryID.
func NewQueryBuilder(text, categoryID string) *QueryBuilder {
	normalized := strings.TrimSpace(whitespace.ReplaceAllString(width.Fold.String(text), " "))
	folded := boxSpellings.Replace(strings.ToLower(normalized))
	return &QueryBuilder{
		normalized: normalized,
		folded:     folded,
		category:   genre.SpecFor(categoryID),
		seen:       make(map[string]bool),
	}
}

// BuildSearchQuery turns free text and its category into a marketplace
// search string. Non-empty input never yields an empty query.
func BuildSearchQuery(text, categoryID string) string {
	return NewQueryBuilder(text, categoryID).
		WithCategoryBase().
		WithEntities().
		WithProductLines().
		WithGrade().
		WithLocalEdition().
		WithSetCodes().
		WithRarity().
		WithPromo().
		WithFractions().
		WithModelNumbers().
		WithMobileSpecs().
		WithSealedTokens().
		Build()
}

func (qb *QueryBuilder) add(token string) {
	token = strings.TrimSpace(token)
	if token == "" {
		return
	}
	key := strings.ToLower(token)
	if qb.seen[key] {
		return
	}
	qb.seen[key] = true
	qb.tokens = append(qb.tokens, token)
}

// Has reports whether token is already queued.
func (qb *QueryBuilder) Has(token string) bool {
	return qb.seen[strings.ToLower(token)]
}

func (qb *QueryBuilder) WithCategoryBase() *QueryBuilder {
	for _, t := range qb.category.QueryBase {
		qb.add(t)
	}
	return qb
}

// WithEntities translates character names and adds the franchise token
// when at least one entity matched.
func (qb *QueryBuilder) WithEntities() *QueryBuilder {
	remaining := qb.folded
	franchise := ""
	for _, e := range entitiesByLength {
		if !strings.Contains(remaining, e.local) {
			continue
		}
		remaining = strings.ReplaceAll(remaining, e.local, " ")
		qb.add(e.canonical)
		if franchise == "" {
			franchise = e.franchise
		}
	}
	if franchise != "" && !qb.Has(franchise) {
		qb.add(franchise)
	}
	return qb
}

func (qb *QueryBuilder) WithProductLines() *QueryBuilder {
	for _, p := range productLines {
		if strings.Contains(qb.folded, p.local) {
			qb.add(p.canonical)
		}
	}
	return qb
}

// WithGrade extracts "LAB N" for graded categories only.
func (qb *QueryBuilder) WithGrade() *QueryBuilder {
	if qb.category.Kind != genre.KindGradedCard {
		return qb
	}
	if m := gradePattern.FindStringSubmatch(qb.folded); m != nil {
		qb.add(strings.ToUpper(m[1]) + " " + m[2])
	}
	return qb
}

// WithLocalEdition adds "japanese" on explicit markers, or when local script
// co-occurs with trading-card context and no foreign-language marker.
func (qb *QueryBuilder) WithLocalEdition() *QueryBuilder {
	if containsAny(qb.folded, localEditionMarkers) {
		qb.add("japanese")
		return qb
	}
	if containsAny(qb.folded, foreignMarkers) {
		return qb
	}
	cardish := qb.category.Kind.IsCard() || containsAny(qb.folded, cardContext)
	if cardish && hasLocalScript(qb.normalized) {
		qb.add("japanese")
	}
	return qb
}

func (qb *QueryBuilder) WithSetCodes() *QueryBuilder {
	for _, m := range setCodePattern.FindAllStringSubmatch(qb.folded, -1) {
		if gradingLabs[m[1]] {
			continue
		}
		qb.add(strings.ToUpper(m[0]))
	}
	return qb
}

// WithRarity adds rarity abbreviations and a combined rarity+number token
// when the code is immediately followed by digits.
func (qb *QueryBuilder) WithRarity() *QueryBuilder {
	for _, m := range rarityPattern.FindAllStringSubmatch(qb.folded, -1) {
		qb.add(strings.ToUpper(m[1]))
	}
	for _, m := range rarityNumber.FindAllStringSubmatch(qb.folded, -1) {
		qb.add(strings.ToUpper(m[1]))
		qb.add(strings.ToUpper(m[1] + m[2]))
	}
	return qb
}

func (qb *QueryBuilder) WithPromo() *QueryBuilder {
	if containsAny(qb.folded, promoMarkers) {
		qb.add("promo")
	}
	return qb
}

// WithFractions keeps card-position fractions such as 201/165 verbatim.
func (qb *QueryBuilder) WithFractions() *QueryBuilder {
	for _, f := range fractionPattern.FindAllString(qb.folded, -1) {
		qb.add(f)
	}
	return qb
}

func (qb *QueryBuilder) WithModelNumbers() *QueryBuilder {
	for _, m := range modelPattern.FindAllString(qb.folded, -1) {
		qb.add(strings.ToUpper(m))
	}
	return qb
}

// WithMobileSpecs extracts storage capacity and carrier-unlock state for
// mobile-device categories.
func (qb *QueryBuilder) WithMobileSpecs() *QueryBuilder {
	if qb.category.Kind != genre.KindMobileDevice {
		return qb
	}
	for _, m := range storagePattern.FindAllStringSubmatch(qb.folded, -1) {
		if m[1] != "" {
			qb.add(m[1] + "GB")
		} else {
			qb.add(m[2] + "TB")
		}
	}
	if containsAny(qb.folded, unlockMarkers) {
		qb.add("unlocked")
	}
	return qb
}

func (qb *QueryBuilder) WithSealedTokens() *QueryBuilder {
	switch qb.category.Kind {
	case genre.KindSealedPack:
		qb.add("sealed")
		qb.add("pack")
	case genre.KindSealedBox:
		qb.add("sealed")
		qb.add("box")
	}
	return qb
}

// Tokens returns the queued tokens in order.
func (qb *QueryBuilder) Tokens() []string {
	return append([]string(nil), qb.tokens...)
}

// Build joins the tokens, or returns the normalized text when no rule
// produced a token.
func (qb *QueryBuilder) Build() string {
	if len(qb.tokens) == 0 {
		return qb.normalized
	}
	return strings.Join(qb.tokens, " ")
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}

func hasLocalScript(s string) bool {
	for _, r := range s {
		if unicode.In(r, unicode.Hiragana, unicode.Katakana, unicode.Han) {
			return true
		}
	}
	return false
}
