package marketplace

import "strings"

// MaxQueryLength is the longest query sent to the listings endpoint.
const MaxQueryLength = 100

var noiseWords = map[string]bool{
	"set":      true,
	"sets":     true,
	"bundle":   true,
	"bundles":  true,
	"lot":      true,
	"セット":      true,
	"まとめ":      true,
	"まとめ売り":    true,
	"送料無料":     true,
	"匿名配送":     true,
	"free":     true,
	"shipping": true,
}

// CleanQuery drops generic noise words and truncates the query on a word
// boundary. It may return "".
func CleanQuery(query string) string {
	var b strings.Builder
	for _, tok := range strings.Fields(query) {
		if noiseWords[strings.ToLower(tok)] {
			continue
		}
		if b.Len() > 0 {
			if b.Len()+1+len(tok) > MaxQueryLength {
				break
			}
			b.WriteByte(' ')
		} else if len(tok) > MaxQueryLength {
			return truncateRunes(tok, MaxQueryLength)
		}
		b.WriteString(tok)
	}
	return b.String()
}

// truncateRunes cuts s to at most n bytes without splitting a rune.
func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := 0
	for i := range s {
		if i > n {
			break
		}
		cut = i
	}
	return s[:cut]
}
