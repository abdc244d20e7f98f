package quotes

import (
	"fmt"
	"net/url"
)

// Page is the fetched content of a single url.
type Page struct {
	URL  *url.URL
	Body []byte
}

// Record is either a RawQuote or a RawAuthor.
type Record interface {
	isRecord()
}

// RawQuote is a quote as it appears on a listing page, nothing is cleaned.
type RawQuote struct {
	Text   string
	Author string
	// Tags are in page order and may contain duplicates or empty strings.
	Tags []string
	// AuthorURL is the absolute url of the author's detail page.
	AuthorURL string
}

func (RawQuote) isRecord() {}

// RawAuthor is an author as it appears on an author detail page.
type RawAuthor struct {
	Fullname     string
	BornDate     string
	BornLocation string
	Description  string
	URL          string
}

func (RawAuthor) isRecord() {}

// Listing is everything found on a listing page.
type Listing struct {
	Quotes []RawQuote
	// AuthorLinks holds every distinct author url on the page in first-seen order.
	AuthorLinks []string
	// Next is the absolute url of the next listing page, empty on the last page.
	Next string
}

// MalformedPageError is returned when a page is missing an element the parser requires.
type MalformedPageError struct {
	Field string
	URL   string
	// Next is the next listing page linked from a malformed listing page,
	// empty otherwise.
	Next string
}

func (e *MalformedPageError) Error() string {
	return fmt.Sprintf("malformed page %s: missing %s", e.URL, e.Field)
}

// FetchError is returned when a page could not be retrieved.
type FetchError struct {
	URL string
	// Status is 0 when no response was received.
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
