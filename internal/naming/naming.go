// Package naming maps a document's semantic name to its on-disk file name.
//
// The mapping is deterministic, so the restorer never needs a stored path:
//
//	"Français Général" -> "francais_general.json"
//	"España-2024"      -> "espana2024.json"
//	"Tëst Pörtfolio!!!" -> "test_portfolio.json"
//
// Distinct names can collide ("Alpha" and "alpha!" both map to
// "alpha.json"). Callers own the collision policy.
package naming

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	Extension    = ".json"
	FallbackName = "document" // Used when nothing survives normalization
)

var (
	disallowed  = regexp.MustCompile(`[^a-z0-9_]`)
	underscores = regexp.MustCompile(`_+`)
)

// CanonicalFileName returns the file name for a semantic document name
func CanonicalFileName(name string) string {
	base := strings.ToLower(name)
	base = strings.TrimSuffix(base, Extension)
	base = stripDiacritics(base)
	base = strings.ReplaceAll(base, " ", "_")
	base = disallowed.ReplaceAllString(base, "")
	base = underscores.ReplaceAllString(base, "_")
	base = strings.Trim(base, "_")

	if base == "" {
		base = FallbackName
	}
	return base + Extension
}

// stripDiacritics decomposes to NFD and drops nonspacing marks
func stripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Collisions groups names by canonical file name and returns the groups
// holding more than one name, keyed by file name.
func Collisions(names []string) map[string][]string {
	groups := make(map[string][]string)
	for _, n := range names {
		f := CanonicalFileName(n)
		groups[f] = append(groups[f], n)
	}
	for f, g := range groups {
		if len(g) < 2 {
			delete(groups, f)
		}
	}
	return groups
}
