// Package country normalizes country names shared by scoring and the
// university directory.
package country

import "strings"

var aliases = map[string]string{
	"usa":                      "United States",
	"us":                       "United States",
	"u.s.":                     "United States",
	"u.s.a.":                   "United States",
	"america":                  "United States",
	"united states of america": "United States",
	"uk":                       "United Kingdom",
	"u.k.":                     "United Kingdom",
	"britain":                  "United Kingdom",
	"great britain":            "United Kingdom",
	"england":                  "United Kingdom",
}

// Canonical maps common aliases to the directory's spelling.
// Unknown names are returned trimmed but otherwise untouched.
func Canonical(name string) string {
	trimmed := strings.TrimSpace(name)
	if c, ok := aliases[strings.ToLower(trimmed)]; ok {
		return c
	}
	return trimmed
}

// Equal compares two country names case-insensitively, alias aware.
func Equal(a, b string) bool {
	return strings.EqualFold(Canonical(a), Canonical(b))
}

// In reports whether name matches any entry of list.
func In(name string, list []string) bool {
	for _, c := range list {
		if Equal(name, c) {
			return true
		}
	}
	return false
}

// CanonicalAll canonicalizes and deduplicates list, keeping order.
func CanonicalAll(list []string) []string {
	out := make([]string, 0, len(list))
	seen := make(map[string]bool, len(list))
	for _, c := range list {
		canon := Canonical(c)
		key := strings.ToLower(canon)
		if canon == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, canon)
	}
	return out
}
