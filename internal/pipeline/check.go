package pipeline

import (
	"fmt"
	"slices"
)

type ViolationKind string

const (
	ViolationUnresolvedAuthor ViolationKind = "unresolved-author"
	ViolationAmbiguousAuthor  ViolationKind = "ambiguous-author"
	ViolationUnsortedTags     ViolationKind = "unsorted-tags"
	ViolationDuplicateTag     ViolationKind = "duplicate-tag"
	ViolationEmptyTag         ViolationKind = "empty-tag"
)

// Violation is a broken invariant found by Check. Index points into the quote
// collection, or the author collection for ambiguous authors.
type Violation struct {
	Kind   ViolationKind
	Index  int
	Detail string
}

// Check audits collections that were already persisted: every quote must
// resolve to exactly one author and every tag list must be sorted, unique and
// free of empty tags.
func Check(quotes []QuoteRecord, authors []AuthorRecord) []Violation {
	var violations []Violation

	fullnames := make(map[string]int, len(authors))
	for i, a := range authors {
		fullnames[a.Fullname]++
		if fullnames[a.Fullname] == 2 {
			violations = append(violations, Violation{
				Kind:   ViolationAmbiguousAuthor,
				Index:  i,
				Detail: fmt.Sprintf("fullname %q appears more than once", a.Fullname),
			})
		}
	}

	for i, q := range quotes {
		if fullnames[q.Author] == 0 {
			violations = append(violations, Violation{
				Kind:   ViolationUnresolvedAuthor,
				Index:  i,
				Detail: fmt.Sprintf("author %q has no author record", q.Author),
			})
		}
		if !slices.IsSorted(q.Tags) {
			violations = append(violations, Violation{
				Kind:   ViolationUnsortedTags,
				Index:  i,
				Detail: fmt.Sprintf("tags %v are not sorted", q.Tags),
			})
		}
		for j, tag := range q.Tags {
			if tag == "" {
				violations = append(violations, Violation{
					Kind:   ViolationEmptyTag,
					Index:  i,
					Detail: fmt.Sprintf("tag %d is empty", j),
				})
				continue
			}
			if slices.Index(q.Tags, tag) != j {
				violations = append(violations, Violation{
					Kind:   ViolationDuplicateTag,
					Index:  i,
					Detail: fmt.Sprintf("tag %q appears more than once", tag),
				})
			}
		}
	}

	return violations
}
