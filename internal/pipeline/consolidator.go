package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"quotescrape/internal/scrapers/quotes"
	"quotescrape/internal/telemetry"
)

const (
	report_consolidator_submit    = "consolidator.submit"
	report_consolidator_reconcile = "consolidator.reconcile"
	report_consolidator_ambiguous = "consolidator.ambiguous-author"
	report_consolidator_persist   = "consolidator.persist"
	report_count_submitted_quotes = "consolidator.submitted-quotes"
	report_count_quotes           = "consolidator.quotes"
	report_count_authors          = "consolidator.authors"
	report_count_dropped          = "consolidator.dropped-quotes"
)

// ErrFinalized is returned by Submit and Finalize once Finalize has run.
var ErrFinalized = errors.New("consolidator already finalized")

// Store persists the final collections of a run.
type Store interface {
	Persist(ctx context.Context, quotes []QuoteRecord, authors []AuthorRecord) error
}

// Summary describes what Finalize persisted.
type Summary struct {
	SubmittedQuotes  int
	Quotes           int
	Authors          int
	Dropped          []QuoteRecord
	AmbiguousAuthors []string
}

// Consolidator accumulates the records of a single run. It is created per run,
// fed through Submit and flushed exactly once through Finalize.
type Consolidator struct {
	tel    telemetry.API
	stores []Store

	lock      sync.Mutex
	finalized bool
	quotes    []QuoteRecord
	authors   []AuthorRecord
}

func NewConsolidator(tel telemetry.API, stores ...Store) *Consolidator {
	return &Consolidator{
		tel:    telemetry.NewScopedAPI("pipeline", tel),
		stores: stores,
	}
}

// Submit normalizes rec and appends it to its collection. It is safe to call
// from multiple goroutines.
func (c *Consolidator) Submit(rec quotes.Record) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.finalized {
		return ErrFinalized
	}

	switch rec := rec.(type) {
	case quotes.RawQuote:
		c.quotes = append(c.quotes, NormalizeQuote(rec))
	case quotes.RawAuthor:
		c.authors = append(c.authors, NormalizeAuthor(rec))
	default:
		err := fmt.Errorf("unknown record type %T", rec)
		c.tel.ReportBroken(report_consolidator_submit, err)
		return err
	}
	return nil
}

// Finalize removes the quotes whose author never resolved and persists both
// collections to every store. It must be called once, after every Submit.
func (c *Consolidator) Finalize(ctx context.Context) (Summary, error) {
	c.lock.Lock()
	if c.finalized {
		c.lock.Unlock()
		return Summary{}, ErrFinalized
	}
	c.finalized = true
	submitted := c.quotes
	authors := c.authors
	c.quotes = nil
	c.authors = nil
	c.lock.Unlock()

	if authors == nil {
		authors = []AuthorRecord{}
	}

	kept, dropped := Reconcile(submitted, authors)
	for _, q := range dropped {
		closest, similarity := ClosestAuthor(q.Author, authors)
		c.tel.ReportWarning(
			report_consolidator_reconcile,
			fmt.Sprintf("author %q not found, quote removed", q.Author),
			q.Quote,
			fmt.Sprintf("closest known author: %q (%.2f)", closest, similarity),
		)
	}

	ambiguous := AmbiguousAuthors(authors)
	for _, name := range ambiguous {
		c.tel.ReportWarning(
			report_consolidator_ambiguous,
			fmt.Sprintf("author %q has more than one author record", name),
		)
	}

	summary := Summary{
		SubmittedQuotes:  len(submitted),
		Quotes:           len(kept),
		Authors:          len(authors),
		Dropped:          dropped,
		AmbiguousAuthors: ambiguous,
	}
	c.tel.ReportCount(report_count_submitted_quotes, int64(summary.SubmittedQuotes))
	c.tel.ReportCount(report_count_quotes, int64(summary.Quotes))
	c.tel.ReportCount(report_count_authors, int64(summary.Authors))
	c.tel.ReportCount(report_count_dropped, int64(len(dropped)))

	var errs []error
	for _, store := range c.stores {
		err := store.Persist(ctx, kept, authors)
		if err != nil {
			c.tel.ReportBroken(report_consolidator_persist, err)
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return summary, fmt.Errorf("persist: %w", errors.Join(errs...))
	}
	return summary, nil
}
