package pipeline

import (
	"quotescrape/internal/scrapers/quotes"
	"quotescrape/lib/textutil"
)

// QuoteRecord is a normalized quote, the field order is the order of the keys
// in quotes.json.
type QuoteRecord struct {
	Tags   []string `json:"tags"`
	Author string   `json:"author"`
	Quote  string   `json:"quote"`
}

// AuthorRecord is a normalized author as written to authors.json.
type AuthorRecord struct {
	Fullname     string `json:"fullname"`
	BornDate     string `json:"born_date"`
	BornLocation string `json:"born_location"`
	Description  string `json:"description"`
}

func NormalizeQuote(q quotes.RawQuote) QuoteRecord {
	return QuoteRecord{
		Tags:   textutil.NormalizeTags(q.Tags),
		Author: textutil.Normalize(q.Author),
		Quote:  textutil.Normalize(q.Text),
	}
}

func NormalizeAuthor(a quotes.RawAuthor) AuthorRecord {
	return AuthorRecord{
		Fullname:     textutil.Normalize(a.Fullname),
		BornDate:     textutil.Normalize(a.BornDate),
		BornLocation: textutil.Normalize(a.BornLocation),
		Description:  textutil.Normalize(a.Description),
	}
}
