package quotes

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"quotescrape/internal/telemetry"
	"quotescrape/lib/restyutil"
	libtelemetry "quotescrape/lib/telemetry"

	"github.com/go-resty/resty/v2"
)

const (
	report_client_fetch = "client.fetch"
)

const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

// Fetcher retrieves the content of a url.
type Fetcher interface {
	Fetch(ctx context.Context, link string) (Page, error)
}

type ClientOptions struct {
	UserAgent string
	// Timeout bounds a single request, 0 means no timeout.
	Timeout time.Duration
	// MaxConnsPerHost bounds the open connections to the site, 0 means unbounded.
	MaxConnsPerHost int
	// Dump receives every http exchange when set.
	Dump restyutil.Output
}

// Client is the resty backed Fetcher.
type Client struct {
	http *resty.Client
	tel  telemetry.API
}

func NewClient(opts ClientOptions, tel telemetry.API) Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxConnsPerHost = opts.MaxConnsPerHost
	transport.MaxIdleConnsPerHost = opts.MaxConnsPerHost

	client := resty.New()
	client.SetTransport(transport)
	client.SetTimeout(opts.Timeout)

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	client.SetHeader("user-agent", userAgent)
	client.SetHeader("accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	telemetry.InstrumentResty(client, tel)
	libtelemetry.InstrumentResty(client, "scrapers/quotes/http")
	if opts.Dump != nil {
		restyutil.DumpExchanges(client, opts.Dump)
	}

	return Client{
		http: client,
		tel:  tel,
	}
}

func (c Client) Fetch(ctx context.Context, link string) (Page, error) {
	res, err := c.http.R().
		SetContext(ctx).
		Get(link)
	if err != nil {
		c.tel.ReportBroken(report_client_fetch, err, link)
		return Page{}, &FetchError{URL: link, Err: err}
	}
	if res.StatusCode() < 200 || res.StatusCode() >= 300 {
		c.tel.ReportBroken(report_client_fetch, res.Status(), link)
		return Page{}, &FetchError{URL: link, Status: res.StatusCode()}
	}

	// relative links on the page are relative to wherever redirects ended up
	final, err := url.Parse(link)
	if res.RawResponse != nil && res.RawResponse.Request != nil {
		final, err = res.RawResponse.Request.URL, nil
	}
	if err != nil {
		c.tel.ReportBroken(report_client_fetch, err, link)
		return Page{}, &FetchError{URL: link, Err: err}
	}

	return Page{
		URL:  final,
		Body: res.Body(),
	}, nil
}
