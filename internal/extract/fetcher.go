// Package extract turns competitor booking pages into slot records. A
// fetcher loads the page for a target date and a probe chain reads
// per-hour availability out of the DOM, falling back to coarser signals
// when the page does not expose explicit counts.
package extract

import (
	"bytes"
	"context"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Fetcher loads the booking page for a given date. Close releases the
// underlying session and must be called at run end regardless of outcome.
type Fetcher interface {
	Fetch(ctx context.Context, date time.Time) (*goquery.Document, error)
	Close() error
}

// HTTPFetcher retrieves booking pages over plain HTTP with a courtesy
// rate limit between requests.
type HTTPFetcher struct {
	client  *resty.Client
	limiter *rate.Limiter
	baseURL string
}

// FetcherOption tunes the HTTP fetcher.
type FetcherOption func(*resty.Client)

// WithTimeout caps one page load.
func WithTimeout(d time.Duration) FetcherOption {
	return func(c *resty.Client) { c.SetTimeout(d) }
}

// WithRetries sets the retry count for failed page loads.
func WithRetries(n int) FetcherOption {
	return func(c *resty.Client) { c.SetRetryCount(n) }
}

// NewHTTPFetcher builds a fetcher for the venue booking page. requestDelay
// spaces successive page loads; zero disables pacing.
func NewHTTPFetcher(baseURL string, requestDelay time.Duration, opts ...FetcherOption) *HTTPFetcher {
	limit := rate.Inf
	if requestDelay > 0 {
		limit = rate.Every(requestDelay)
	}
	client := resty.New().
		SetTimeout(30 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(2 * time.Second).
		SetHeader("User-Agent", "spawatch/1.0")
	for _, opt := range opts {
		opt(client)
	}

	return &HTTPFetcher{
		client:  client,
		limiter: rate.NewLimiter(limit, 1),
		baseURL: baseURL,
	}
}

// Fetch loads the page for the given booking date and parses it.
func (f *HTTPFetcher) Fetch(ctx context.Context, date time.Time) (*goquery.Document, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "extract: rate limiter wait")
	}

	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParam("date", date.Format("2006-01-02")).
		Get(f.baseURL)
	if err != nil {
		return nil, eris.Wrapf(err, "extract: fetch %s", f.baseURL)
	}
	if resp.IsError() {
		return nil, eris.Errorf("extract: fetch %s: status %d", f.baseURL, resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, eris.Wrap(err, "extract: parse booking page")
	}
	return doc, nil
}

// Close shuts down idle connections.
func (f *HTTPFetcher) Close() error {
	f.client.GetClient().CloseIdleConnections()
	return nil
}
