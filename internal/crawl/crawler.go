package crawl

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"quotescrape/internal/assert"
	"quotescrape/internal/chrono"
	"quotescrape/internal/scrapers/quotes"
	"quotescrape/internal/telemetry"
)

const (
	report_crawl_fetch     = "crawl.fetch"
	report_crawl_parse     = "crawl.parse"
	report_crawl_submit    = "crawl.submit"
	report_crawl_offsite   = "crawl.offsite"
	report_count_listings  = "crawl.listings"
	report_count_authors   = "crawl.authors"
	report_count_failures  = "crawl.fetch-failures"
	report_count_malformed = "crawl.malformed-pages"
)

const DefaultWorkers = 8

// Sink receives every record the crawl extracts.
type Sink interface {
	Submit(rec quotes.Record) error
}

type Options struct {
	// Workers is the number of pages fetched and parsed at the same time,
	// DefaultWorkers when 0.
	Workers int
	// SameHost restricts the crawl to links on the seed's host.
	SameHost bool
	// Time defaults to chrono.StandardTime.
	Time chrono.TimeAPI
}

// Stats summarizes a finished Run.
type Stats struct {
	Listings       int
	Authors        int
	FetchFailures  int
	MalformedPages int
	// Skipped counts links that were not followed, either off-site or
	// discovered after the run was cancelled.
	Skipped int
	Elapsed time.Duration
}

type taskKind int

const (
	fetchListing taskKind = iota
	fetchAuthor
)

func (k taskKind) String() string {
	switch k {
	case fetchListing:
		return "listing"
	case fetchAuthor:
		return "author"
	}
	return fmt.Sprintf("taskKind(%d)", int(k))
}

type task struct {
	kind taskKind
	link string
}

type result struct {
	task    task
	listing quotes.Listing
	author  quotes.RawAuthor
	err     error
}

// Crawler walks the listing pages of a quotes site starting at a seed, and
// every author page the listings link to.
type Crawler struct {
	fetcher quotes.Fetcher
	sink    Sink
	tel     telemetry.API
	opts    Options
}

func New(fetcher quotes.Fetcher, sink Sink, tel telemetry.API, opts Options) *Crawler {
	assert.NotNil(fetcher, "fetcher")
	assert.NotNil(sink, "sink")

	if opts.Workers == 0 {
		opts.Workers = DefaultWorkers
	}
	assert.Positive(opts.Workers, "workers")
	if opts.Time == nil {
		opts.Time = chrono.NewStandardTime()
	}

	return &Crawler{
		fetcher: fetcher,
		sink:    sink,
		tel:     telemetry.NewScopedAPI("crawl", tel),
		opts:    opts,
	}
}

// Run crawls from seed until there is nothing left to fetch or ctx is
// cancelled. It only returns once every fetch it started has finished and its
// records were handed to the sink. The error is non-nil only when seed is not
// an absolute http(s) url.
func (c *Crawler) Run(ctx context.Context, seed string) (Stats, error) {
	seedURL, err := url.Parse(seed)
	if err != nil {
		return Stats{}, fmt.Errorf("parse seed: %w", err)
	}
	if (seedURL.Scheme != "http" && seedURL.Scheme != "https") || seedURL.Host == "" {
		return Stats{}, fmt.Errorf("seed must be an absolute http(s) url, got '%s'", seed)
	}
	seedURL.Fragment = ""

	stopwatch := chrono.StartStopwatch(c.opts.Time)

	tasks := make(chan task)
	results := make(chan result)
	for i := 0; i < c.opts.Workers; i++ {
		go c.work(ctx, tasks, results)
	}

	r := &crawlReq{
		crawler: c,
		ctx:     ctx,
		host:    seedURL.Host,
		seen:    map[string]struct{}{},
	}
	r.schedule(fetchListing, seedURL.String())
	r.loop(tasks, results)
	close(tasks)

	r.stats.Elapsed = stopwatch.Elapsed()
	c.tel.ReportCount(report_count_listings, int64(r.stats.Listings))
	c.tel.ReportCount(report_count_authors, int64(r.stats.Authors))
	c.tel.ReportCount(report_count_failures, int64(r.stats.FetchFailures))
	c.tel.ReportCount(report_count_malformed, int64(r.stats.MalformedPages))

	return r.stats, nil
}

func (c *Crawler) work(ctx context.Context, tasks <-chan task, results chan<- result) {
	for t := range tasks {
		results <- c.process(ctx, t)
	}
}

func (c *Crawler) process(ctx context.Context, t task) result {
	res := result{task: t}

	page, err := c.fetcher.Fetch(ctx, t.link)
	if err != nil {
		res.err = err
		return res
	}

	switch t.kind {
	case fetchListing:
		res.listing, res.err = quotes.ParseListing(ctx, page)
	case fetchAuthor:
		res.author, res.err = quotes.ParseAuthor(ctx, page)
	}
	return res
}

// crawlReq is the state of a single Run, it is only touched by the
// coordinating goroutine.
type crawlReq struct {
	crawler *Crawler
	ctx     context.Context
	host    string

	queue    []task
	seen     map[string]struct{}
	inflight int
	stats    Stats
}

func (r *crawlReq) loop(tasks chan<- task, results <-chan result) {
	done := r.ctx.Done()
	for len(r.queue) > 0 || r.inflight > 0 {
		var send chan<- task
		var next task
		if len(r.queue) > 0 {
			send = tasks
			next = r.queue[0]
		}

		select {
		case send <- next:
			r.queue = r.queue[1:]
			r.inflight++
		case res := <-results:
			r.inflight--
			r.handle(res)
		case <-done:
			done = nil
			r.stats.Skipped += len(r.queue)
			r.crawler.tel.ReportDebug("cancelled, waiting for in-flight fetches", len(r.queue), r.inflight)
			r.queue = nil
		}
	}
}

func (r *crawlReq) schedule(kind taskKind, link string) {
	u, err := url.Parse(link)
	if err != nil {
		r.crawler.tel.ReportWarning(report_crawl_parse, fmt.Errorf("parse link: %w", err), link)
		return
	}
	u.Fragment = ""
	key := u.String()

	if _, ok := r.seen[key]; ok {
		return
	}
	r.seen[key] = struct{}{}

	if r.crawler.opts.SameHost && u.Host != r.host {
		r.stats.Skipped++
		r.crawler.tel.ReportDebug(report_crawl_offsite, kind.String(), key)
		return
	}
	if r.ctx.Err() != nil {
		r.stats.Skipped++
		return
	}
	r.queue = append(r.queue, task{kind: kind, link: key})
}

func (r *crawlReq) handle(res result) {
	tel := r.crawler.tel

	if res.err != nil {
		var malformedErr *quotes.MalformedPageError
		if errors.As(res.err, &malformedErr) {
			r.stats.MalformedPages++
			tel.ReportWarning(report_crawl_parse, res.err, res.task.kind.String(), res.task.link)
			if res.task.kind == fetchListing && malformedErr.Next != "" {
				r.schedule(fetchListing, malformedErr.Next)
			}
			return
		}
		r.stats.FetchFailures++
		tel.ReportWarning(report_crawl_fetch, res.err, res.task.kind.String(), res.task.link)
		return
	}

	switch res.task.kind {
	case fetchListing:
		r.stats.Listings++
		for _, q := range res.listing.Quotes {
			r.submit(q, res.task.link)
		}
		for _, link := range res.listing.AuthorLinks {
			r.schedule(fetchAuthor, link)
		}
		if res.listing.Next != "" {
			r.schedule(fetchListing, res.listing.Next)
		}
	case fetchAuthor:
		r.stats.Authors++
		r.submit(res.author, res.task.link)
	}
}

func (r *crawlReq) submit(rec quotes.Record, link string) {
	err := r.crawler.sink.Submit(rec)
	if err != nil {
		r.crawler.tel.ReportBroken(report_crawl_submit, err, link)
	}
}
