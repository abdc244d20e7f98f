package quotes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"quotescrape/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("quotescrape.internal.scrapers.quotes")

// field names used in MalformedPageError
const (
	field_quote_text           = "quote text"
	field_quote_author         = "quote author"
	field_quote_author_link    = "quote author link"
	field_author_details       = "author details"
	field_author_title         = "author title"
	field_author_born_date     = "author born date"
	field_author_born_location = "author born location"
	field_author_description   = "author description"
)

func parseDocument(page Page) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return nil, fmt.Errorf("parse html %s: %w", page.URL, err)
	}
	return doc, nil
}

func malformed(page Page, field string) *MalformedPageError {
	return &MalformedPageError{Field: field, URL: page.URL.String()}
}

// ParseListing extracts the quotes, author links and the next page link of a
// listing page. Text is returned verbatim, cleaning happens downstream.
func ParseListing(ctx context.Context, page Page) (Listing, error) {
	ctx, span := tracer.Start(ctx, "ParseListing")
	defer span.End()
	span.SetAttributes(attribute.String("url", page.URL.String()))

	doc, err := parseDocument(page)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return Listing{}, err
	}

	listing := Listing{
		Quotes:      []RawQuote{},
		AuthorLinks: []string{},
	}
	seenAuthors := map[string]struct{}{}

	next := htmlutil.GetLinks(ctx, page.URL, doc.Find("li.next > a").First())
	if len(next) > 0 {
		listing.Next = next[0]
	}

	var blockErr error
	doc.Find("div.quote").EachWithBreak(func(_ int, q *goquery.Selection) bool {
		quote, err := parseQuoteBlock(ctx, page, q)
		if err != nil {
			blockErr = err
			return false
		}
		listing.Quotes = append(listing.Quotes, quote)

		if _, seen := seenAuthors[quote.AuthorURL]; !seen {
			seenAuthors[quote.AuthorURL] = struct{}{}
			listing.AuthorLinks = append(listing.AuthorLinks, quote.AuthorURL)
		}
		return true
	})
	if blockErr != nil {
		var malformedErr *MalformedPageError
		if errors.As(blockErr, &malformedErr) {
			malformedErr.Next = listing.Next
		}
		span.RecordError(blockErr)
		span.SetStatus(codes.Error, "malformed quote block")
		return Listing{}, blockErr
	}

	span.SetAttributes(
		attribute.Int("quotes", len(listing.Quotes)),
		attribute.Bool("has_next", listing.Next != ""),
	)
	return listing, nil
}

func parseQuoteBlock(ctx context.Context, page Page, q *goquery.Selection) (RawQuote, error) {
	text, ok := htmlutil.FirstText(q.ChildrenFiltered("span.text"))
	if !ok {
		return RawQuote{}, malformed(page, field_quote_text)
	}

	byline := q.ChildrenFiltered("span")
	author, ok := htmlutil.FirstText(byline.ChildrenFiltered("small"))
	if !ok {
		return RawQuote{}, malformed(page, field_quote_author)
	}

	links := htmlutil.GetLinks(ctx, page.URL, byline.ChildrenFiltered("a"))
	if len(links) == 0 {
		return RawQuote{}, malformed(page, field_quote_author_link)
	}

	tags := []string{}
	q.ChildrenFiltered("div.tags").ChildrenFiltered("a").Each(func(_ int, a *goquery.Selection) {
		tags = append(tags, htmlutil.GetText(a.Nodes[0]))
	})

	return RawQuote{
		Text:      text,
		Author:    author,
		Tags:      tags,
		AuthorURL: links[0],
	}, nil
}

// ParseAuthor extracts the biographical fields of an author detail page.
func ParseAuthor(ctx context.Context, page Page) (RawAuthor, error) {
	_, span := tracer.Start(ctx, "ParseAuthor")
	defer span.End()
	span.SetAttributes(attribute.String("url", page.URL.String()))

	author, err := parseAuthor(page)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse author")
		return RawAuthor{}, err
	}
	return author, nil
}

func parseAuthor(page Page) (RawAuthor, error) {
	doc, err := parseDocument(page)
	if err != nil {
		return RawAuthor{}, err
	}

	details := doc.Find("div.author-details").First()
	if details.Length() == 0 {
		return RawAuthor{}, malformed(page, field_author_details)
	}

	fullname, ok := htmlutil.FirstText(details.ChildrenFiltered("h3.author-title"))
	if !ok {
		return RawAuthor{}, malformed(page, field_author_title)
	}

	born := details.ChildrenFiltered("p")
	bornDate, ok := htmlutil.FirstText(born.ChildrenFiltered("span.author-born-date"))
	if !ok {
		return RawAuthor{}, malformed(page, field_author_born_date)
	}
	bornLocation, ok := htmlutil.FirstText(born.ChildrenFiltered("span.author-born-location"))
	if !ok {
		return RawAuthor{}, malformed(page, field_author_born_location)
	}

	description, ok := htmlutil.FirstText(details.ChildrenFiltered("div.author-description"))
	if !ok {
		return RawAuthor{}, malformed(page, field_author_description)
	}

	return RawAuthor{
		Fullname:     fullname,
		BornDate:     bornDate,
		BornLocation: TrimLocationPrefix(bornLocation),
		Description:  strings.TrimSpace(description),
		URL:          page.URL.String(),
	}, nil
}

// TrimLocationPrefix removes the leading "in" word the site puts in front of
// every birth place ("in Ulm, Germany"). Locations that merely start with the
// letters "in" ("India") are left alone.
func TrimLocationPrefix(location string) string {
	trimmed := strings.TrimLeftFunc(location, unicode.IsSpace)
	rest, found := strings.CutPrefix(trimmed, "in")
	if !found || rest == "" {
		return location
	}
	if !unicode.IsSpace([]rune(rest)[0]) {
		return location
	}
	return rest
}
