package prices

import (
	"sort"
	"strings"
)

var setNames []string

func init() {
	seen := make(map[string]bool)
	for _, pl := range productLines {
		if !seen[pl.canonical] {
			seen[pl.canonical] = true
			setNames = append(setNames, pl.canonical)
		}
	}
	for _, e := range entities {
		if e.franchise != "" && !seen[e.franchise] {
			seen[e.franchise] = true
			setNames = append(setNames, e.franchise)
		}
	}
	sort.SliceStable(setNames, func(i, j int) bool { return len(setNames[i]) > len(setNames[j]) })
}

// KnownSetNames returns the product-line and franchise names that appear in
// a built query, longest first.
func KnownSetNames(query string) []string {
	q := strings.ToLower(query)
	var out []string
	for _, name := range setNames {
		if strings.Contains(q, name) {
			out = append(out, name)
		}
	}
	return out
}
