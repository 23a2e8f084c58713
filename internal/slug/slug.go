// Package slug turns company names into filesystem-safe identifiers and
// matches them against pitch deck file names.
package slug

import (
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fallback is returned when a name has no slug-able characters.
const Fallback = "company"

// Make lowercases name, strips accents and collapses every run of
// characters outside [a-z0-9] into a single hyphen.
func Make(name string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	b.Grow(len(folded))
	pendingHyphen := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}

	if b.Len() == 0 {
		return Fallback
	}
	return b.String()
}

// Match picks the deck for a company slug from candidate file names.
// Candidates are examined in sorted order and the first hit of the
// strongest rule wins: an exact "{slug}.pdf", then a file whose stem slugs
// to the same value, then a partial match in either direction. Only .pdf
// files are considered. The second return is false when nothing matches.
func Match(s string, candidates []string) (string, bool) {
	pdfs := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if strings.EqualFold(filepath.Ext(c), ".pdf") {
			pdfs = append(pdfs, c)
		}
	}
	sort.Strings(pdfs)

	for _, c := range pdfs {
		if filepath.Base(c) == s+".pdf" {
			return c, true
		}
	}
	for _, c := range pdfs {
		if Make(stem(c)) == s {
			return c, true
		}
	}
	for _, c := range pdfs {
		cs := Make(stem(c))
		if cs == Fallback && s != Fallback {
			continue
		}
		if strings.Contains(cs, s) || strings.Contains(s, cs) {
			return c, true
		}
	}
	return "", false
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
