package pipeline

import (
	"github.com/antzucaro/matchr"
)

// Reconcile splits quotes into the ones whose author is the fullname of one of
// authors and the ones whose author is unknown. Both results are new slices,
// the inputs are not modified.
func Reconcile(quotes []QuoteRecord, authors []AuthorRecord) (kept []QuoteRecord, dropped []QuoteRecord) {
	known := make(map[string]struct{}, len(authors))
	for _, a := range authors {
		known[a.Fullname] = struct{}{}
	}

	kept = make([]QuoteRecord, 0, len(quotes))
	dropped = []QuoteRecord{}
	for _, q := range quotes {
		if _, ok := known[q.Author]; ok {
			kept = append(kept, q)
			continue
		}
		dropped = append(dropped, q)
	}
	return kept, dropped
}

// ClosestAuthor returns the fullname among authors most similar to name by
// Jaro-Winkler distance, and its similarity. It returns "", 0 when there are
// no authors.
func ClosestAuthor(name string, authors []AuthorRecord) (string, float64) {
	var closest string
	var similarity float64
	for _, a := range authors {
		sim := matchr.JaroWinkler(name, a.Fullname, false)
		if sim > similarity {
			similarity = sim
			closest = a.Fullname
		}
	}
	return closest, similarity
}

// AmbiguousAuthors returns every fullname that more than one of authors
// carries, in the order the second occurrence appears. Distinct author pages
// can normalize to one fullname, eg. "José Martí" and "Jos Mart".
func AmbiguousAuthors(authors []AuthorRecord) []string {
	counts := make(map[string]int, len(authors))
	ambiguous := []string{}
	for _, a := range authors {
		counts[a.Fullname]++
		if counts[a.Fullname] == 2 {
			ambiguous = append(ambiguous, a.Fullname)
		}
	}
	return ambiguous
}
