package genre

import "regexp"

var (
	lotPattern       = regexp.MustCompile(`まとめ|大量|詰め合わせ|セット売り|引退品|\blots?\b|\bbulk\b|\bbundles?\b|\bjob lot\b|\bassorted\b`)
	junkPattern      = regexp.MustCompile(`ジャンク|故障|壊れ|動作不良|部品取り|\bjunk\b|\bbroken\b|for parts|not working|\bfaulty\b|cracked`)
	sealedPattern    = regexp.MustCompile(`\b\d*box(es)?\b|ボックス|\bcase\b|カートン|\bpacks?\b|パック|\bsets?\b|(?:^|[^カ])セット|\bbooster\b`)
	gradingPattern   = regexp.MustCompile(`\b(psa|bgs|cgc|ars|sgc)\s?\d{0,2}(\.5)?\b|鑑定|\bgraded\b|\bslab\b`)
	boxCasePattern   = regexp.MustCompile(`\b\d*box(es)?\b|ボックス|\bcase\b|カートン|\bdisplay\b`)
	openedPattern    = regexp.MustCompile(`開封済|開封品|サーチ済|\bopened\b|\bsearched\b|\bempty\b`)
	boxRejectPattern = regexp.MustCompile(`\bcase\b|カートン|\bsets?\b|(?:^|[^カ])セット`)
	boxAffirmative   = regexp.MustCompile(`booster box|display box|\b\d*box(es)?\b|ボックス|未開封box|シュリンク付`)
	topPrizePattern  = regexp.MustCompile(`a賞|ラストワン|\blast one\b|\ba prize\b|特賞|1等`)
)

// Admit reports whether a listing text is comparable evidence for the
// category. Text is normalized before matching.
func (c CategorySpec) Admit(text string) bool {
	if c.Kind == kindUnknown {
		return true
	}
	t := Normalize(text)

	if lotPattern.MatchString(t) {
		return c.Kind == KindBulkLot
	}

	switch {
	case c.Kind.IsDevice():
		return !junkPattern.MatchString(t)
	case c.Kind == KindSingleCard:
		return !sealedPattern.MatchString(t) && !gradingPattern.MatchString(t)
	case c.Kind == KindGradedCard:
		return gradingPattern.MatchString(t)
	case c.Kind == KindSealedPack:
		return !boxCasePattern.MatchString(t) && !openedPattern.MatchString(t)
	case c.Kind == KindSealedBox:
		return !boxRejectPattern.MatchString(t) && boxAffirmative.MatchString(t)
	case c.Kind == KindTopPrize:
		return topPrizePattern.MatchString(t)
	}
	return true
}

// Admissible applies the admissibility predicate for categoryID. An empty id
// accepts everything.
func Admissible(categoryID, text string) bool {
	if categoryID == "" {
		return true
	}
	return SpecFor(categoryID).Admit(text)
}

// IsBulkListing reports whether text describes a set, lot, or assorted
// bundle for which no single comparable price exists.
func IsBulkListing(text string) bool {
	t := Normalize(text)
	return lotPattern.MatchString(t) || bulkSetPattern.MatchString(t)
}

// セット that is not the tail of カセット (cartridge).
var bulkSetPattern = regexp.MustCompile(`\bsets?\b|(?:^|[^カ])セット`)

// HasGradingMark reports whether text carries a grading lab mark.
func HasGradingMark(text string) bool {
	return gradingPattern.MatchString(Normalize(text))
}
