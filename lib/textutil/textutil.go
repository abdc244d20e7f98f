package textutil

import (
	"regexp"
	"slices"
	"strings"
)

var (
	nonPrintableRegex = regexp.MustCompile(`[^\t\n\f\r\x20-\x7E]+`)
	disallowedRegex   = regexp.MustCompile(`[^\w\-.,\s]+`)
	whitespaceRegex   = regexp.MustCompile(`\s+`)
)

// Normalize cleans a raw string scraped off a page so that it only contains
// ascii word characters, hyphens, periods, commas and single spaces.
//
// Normalize(Normalize(x)) == Normalize(x) for any x.
func Normalize(text string) string {
	text = strings.TrimSpace(text)
	text = strings.ReplaceAll(text, "\n", " ")
	text = nonPrintableRegex.ReplaceAllString(text, "")
	text = disallowedRegex.ReplaceAllString(text, "")
	text = whitespaceRegex.ReplaceAllString(text, " ")
	// removing characters can leave a space at either end, eg. "“ quote ”"
	return strings.Trim(text, " ")
}

// NormalizeTags normalizes each tag, then drops empty tags and duplicates
// and returns the rest sorted ascending. Comparison is case-sensitive.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = Normalize(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}
