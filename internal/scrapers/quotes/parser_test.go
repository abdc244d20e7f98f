package quotes

import (
	"context"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func loadPage(t *testing.T, file, link string) Page {
	t.Helper()

	body, err := os.ReadFile(filepath.Join("testdata", file))
	if err != nil {
		t.Fatal(err)
	}
	u, err := url.Parse(link)
	if err != nil {
		t.Fatal(err)
	}
	return Page{URL: u, Body: body}
}

func TestParseListing(t *testing.T) {
	page := loadPage(t, "listing.html", "https://quotes.toscrape.com/page/1/")

	listing, err := ParseListing(context.Background(), page)
	if err != nil {
		t.Fatal(err)
	}

	expected := Listing{
		Quotes: []RawQuote{
			{
				Text:      "“The world as we have created it is a process of our thinking. It cannot be changed without changing our thinking.”",
				Author:    "Albert Einstein",
				Tags:      []string{"change", "deep-thoughts", "thinking", "world"},
				AuthorURL: "https://quotes.toscrape.com/author/Albert-Einstein",
			},
			{
				Text:      "“It is our choices, Harry, that show what we truly are, far more than our abilities.”",
				Author:    "J.K. Rowling",
				Tags:      []string{"abilities", "choices"},
				AuthorURL: "https://quotes.toscrape.com/author/J-K-Rowling",
			},
			{
				Text:      "“Try not to become a man of success. Rather become a man of value.”",
				Author:    "Albert Einstein",
				Tags:      []string{"adulthood", "success", "value", "value"},
				AuthorURL: "https://quotes.toscrape.com/author/Albert-Einstein",
			},
			{
				Text:      "“A day without sunshine is like, you know, night.”",
				Author:    "Steve Martin",
				Tags:      []string{},
				AuthorURL: "https://quotes.toscrape.com/author/Steve-Martin",
			},
		},
		AuthorLinks: []string{
			"https://quotes.toscrape.com/author/Albert-Einstein",
			"https://quotes.toscrape.com/author/J-K-Rowling",
			"https://quotes.toscrape.com/author/Steve-Martin",
		},
		Next: "https://quotes.toscrape.com/page/2/",
	}
	if diff := cmp.Diff(expected, listing); diff != "" {
		t.Fatalf("listing mismatch (-want +got):\n%s", diff)
	}
}

func TestParseListingLastPage(t *testing.T) {
	page := loadPage(t, "listing_last.html", "https://quotes.toscrape.com/page/10/")

	listing, err := ParseListing(context.Background(), page)
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, listing.Quotes, 1)
	require.Equal(t, "George R.R. Martin", listing.Quotes[0].Author)
	require.Equal(t, "", listing.Next)
}

func TestParseListingEmpty(t *testing.T) {
	page := Page{
		URL:  &url.URL{Scheme: "https", Host: "quotes.toscrape.com", Path: "/page/11/"},
		Body: []byte(`<html><body><div class="col-md-8">No quotes found!</div></body></html>`),
	}

	listing, err := ParseListing(context.Background(), page)
	if err != nil {
		t.Fatal(err)
	}
	require.Empty(t, listing.Quotes)
	require.Empty(t, listing.AuthorLinks)
	require.Equal(t, "", listing.Next)
}

func TestParseListingMalformed(t *testing.T) {
	page := loadPage(t, "listing_malformed.html", "https://quotes.toscrape.com/page/3/")

	_, err := ParseListing(context.Background(), page)
	var malformedErr *MalformedPageError
	require.True(t, errors.As(err, &malformedErr))
	require.Equal(t, field_quote_author, malformedErr.Field)
	require.Equal(t, "https://quotes.toscrape.com/page/3/", malformedErr.URL)
	require.Equal(t, "https://quotes.toscrape.com/page/2/", malformedErr.Next)
}

func TestParseAuthor(t *testing.T) {
	page := loadPage(t, "author.html", "https://quotes.toscrape.com/author/Albert-Einstein")

	author, err := ParseAuthor(context.Background(), page)
	if err != nil {
		t.Fatal(err)
	}

	expected := RawAuthor{
		Fullname:     "Albert Einstein\n    ",
		BornDate:     "March 14, 1879",
		BornLocation: " Ulm, Germany",
		Description:  "In 1879, Albert Einstein was born in Ulm, Germany. He completed his Ph.D. at the University of Zurich by 1909. His 1905 paper explaining the photoelectric effect, the basis of electronics, earned him the Nobel Prize in 1921.",
		URL:          "https://quotes.toscrape.com/author/Albert-Einstein",
	}
	if diff := cmp.Diff(expected, author); diff != "" {
		t.Fatalf("author mismatch (-want +got):\n%s", diff)
	}
}

func TestParseAuthorMalformed(t *testing.T) {
	cases := []struct {
		name  string
		file  string
		body  string
		field string
	}{
		{
			name:  "missing description",
			file:  "author_missing_description.html",
			field: field_author_description,
		},
		{
			name:  "not an author page",
			body:  `<html><body><h1>Page not found</h1></body></html>`,
			field: field_author_details,
		},
		{
			name:  "missing born location",
			body:  `<div class="author-details"><h3 class="author-title">X</h3><p><span class="author-born-date">May 1, 1900</span></p><div class="author-description">d</div></div>`,
			field: field_author_born_location,
		},
	}

	for _, test := range cases {
		t.Run(test.name, func(t *testing.T) {
			link := "https://quotes.toscrape.com/author/Someone"
			var page Page
			if test.file != "" {
				page = loadPage(t, test.file, link)
			} else {
				u, _ := url.Parse(link)
				page = Page{URL: u, Body: []byte(test.body)}
			}

			_, err := ParseAuthor(context.Background(), page)
			var malformedErr *MalformedPageError
			require.True(t, errors.As(err, &malformedErr), "got %v", err)
			require.Equal(t, test.field, malformedErr.Field)
			require.Equal(t, link, malformedErr.URL)
		})
	}
}

func TestTrimLocationPrefix(t *testing.T) {
	cases := []struct {
		input  string
		expect string
	}{
		{"in Paris", " Paris"},
		{"in Ulm, Germany", " Ulm, Germany"},
		{"in\tWaco, Texas", "\tWaco, Texas"},
		{"India", "India"},
		{"Indiana, The United States", "Indiana, The United States"},
		{"inside", "inside"},
		{"in", "in"},
		{"", ""},
		{"Paris", "Paris"},
	}

	for _, test := range cases {
		require.Equal(t, test.expect, TrimLocationPrefix(test.input), "input: %q", test.input)
	}
}
