package txid

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

const (
	// DefaultHomeURL is the page that carries the verification key and
	// loading animations.
	DefaultHomeURL = "https://x.com"

	// DefaultUserAgent is sent when no other User-Agent is configured.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/133.0.0.0 Safari/537.36"

	homeAccept = "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.7"
)

// Fetcher performs a GET and returns the status code and body. It lets
// callers bring their own HTTP stack.
type Fetcher interface {
	Fetch(ctx context.Context, url string, header http.Header) (int, []byte, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, url string, header http.Header) (int, []byte, error)

func (f FetcherFunc) Fetch(ctx context.Context, url string, header http.Header) (int, []byte, error) {
	return f(ctx, url, header)
}

// HTTPFetcher is a Fetcher backed by an *http.Client. A nil Client means
// http.DefaultClient.
type HTTPFetcher struct {
	Client *http.Client
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string, header http.Header) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, err
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}

// Documents are the raw inputs of a derivation.
type Documents struct {
	HomePageHTML string
	OnDemandURL  string
	OnDemandJS   string
}

type fetchConfig struct {
	homeURL   string
	userAgent string
	header    http.Header
	logf      func(string, ...any)
	opts      []Option
}

// FetchOption configures Fetch and FetchDocuments.
type FetchOption func(*fetchConfig)

// WithHomeURL overrides DefaultHomeURL.
func WithHomeURL(u string) FetchOption {
	return func(c *fetchConfig) { c.homeURL = u }
}

// WithUserAgent overrides DefaultUserAgent.
func WithUserAgent(ua string) FetchOption {
	return func(c *fetchConfig) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithHeader adds a header to the home page request, e.g. Cookie.
func WithHeader(key, value string) FetchOption {
	return func(c *fetchConfig) { c.header.Add(key, value) }
}

// WithLogf sets a debug logger.
func WithLogf(logf func(string, ...any)) FetchOption {
	return func(c *fetchConfig) {
		if logf != nil {
			c.logf = logf
		}
	}
}

// WithTransactionOptions passes opts to New once the documents are fetched.
func WithTransactionOptions(opts ...Option) FetchOption {
	return func(c *fetchConfig) { c.opts = append(c.opts, opts...) }
}

// FetchDocuments downloads the home page and the ondemand.s script it
// references.
func FetchDocuments(ctx context.Context, f Fetcher, opts ...FetchOption) (*Documents, error) {
	cfg := newFetchConfig(opts)
	return fetchDocuments(ctx, f, cfg)
}

// Fetch downloads the home page and script and builds a ClientTransaction.
func Fetch(ctx context.Context, f Fetcher, opts ...FetchOption) (*ClientTransaction, error) {
	cfg := newFetchConfig(opts)
	docs, err := fetchDocuments(ctx, f, cfg)
	if err != nil {
		return nil, err
	}
	ct, err := New(docs.HomePageHTML, docs.OnDemandJS, cfg.opts...)
	if err != nil {
		return nil, err
	}
	cfg.logf("[txid] animation key derived (%d key bytes)", len(ct.km.keyBytes))
	return ct, nil
}

func newFetchConfig(opts []FetchOption) *fetchConfig {
	cfg := &fetchConfig{
		homeURL:   DefaultHomeURL,
		userAgent: DefaultUserAgent,
		header:    http.Header{},
		logf:      func(string, ...any) {},
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func fetchDocuments(ctx context.Context, f Fetcher, cfg *fetchConfig) (*Documents, error) {
	homeHeader := cfg.header.Clone()
	homeHeader.Set("Accept", homeAccept)
	homeHeader.Set("Accept-Language", "en-US,en;q=0.9")
	homeHeader.Set("User-Agent", cfg.userAgent)

	cfg.logf("[txid] fetching %s", cfg.homeURL)
	html, err := get(ctx, f, cfg.homeURL, homeHeader)
	if err != nil {
		return nil, fmt.Errorf("fetching home page: %w", err)
	}

	jsURL, err := ExtractOnDemandURL(html)
	if err != nil {
		return nil, err
	}

	cfg.logf("[txid] fetching %s", jsURL)
	js, err := get(ctx, f, jsURL, http.Header{"User-Agent": {cfg.userAgent}})
	if err != nil {
		return nil, fmt.Errorf("fetching ondemand file: %w", err)
	}

	return &Documents{HomePageHTML: html, OnDemandURL: jsURL, OnDemandJS: js}, nil
}

func get(ctx context.Context, f Fetcher, url string, header http.Header) (string, error) {
	status, body, err := f.Fetch(ctx, url, header)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", &StatusError{URL: url, Code: status}
	}
	return string(body), nil
}
