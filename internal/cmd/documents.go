package cmd

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/qm4/xtxid/internal/cookies"
	"github.com/qm4/xtxid/internal/httpclient"
	"github.com/qm4/xtxid/txid"
)

// documentFlags selects between local files and fetching from x.com.
type documentFlags struct {
	htmlFile       string
	jsFile         string
	browserCookies bool
}

func (f *documentFlags) register(cmd *cobra.Command, withJS bool) {
	cmd.Flags().StringVar(&f.htmlFile, "html", "", "Read the home page from this file instead of fetching it")
	if withJS {
		cmd.Flags().StringVar(&f.jsFile, "js", "", "Read the ondemand.s script from this file instead of fetching it")
	}
	cmd.Flags().BoolVar(&f.browserCookies, "browser-cookies", false, "Send x.com session cookies from Safari/Chrome with the home page request")
}

// loadHome returns the home page HTML from --html or from the network.
func (f *documentFlags) loadHome(cmd *cobra.Command) (string, error) {
	if f.htmlFile != "" {
		return readFile(f.htmlFile)
	}
	fetcher, err := newFetcher()
	if err != nil {
		return "", err
	}
	docs, err := txid.FetchDocuments(cmd.Context(), fetcher, f.fetchOptions(cmd)...)
	if err != nil {
		return "", err
	}
	return docs.HomePageHTML, nil
}

// load returns both documents. Local files win; whatever is missing is
// fetched.
func (f *documentFlags) load(cmd *cobra.Command) (*txid.Documents, error) {
	if f.htmlFile == "" {
		if f.jsFile != "" {
			return nil, fmt.Errorf("--js requires --html")
		}
		fetcher, err := newFetcher()
		if err != nil {
			return nil, err
		}
		return txid.FetchDocuments(cmd.Context(), fetcher, f.fetchOptions(cmd)...)
	}

	html, err := readFile(f.htmlFile)
	if err != nil {
		return nil, err
	}
	jsURL, err := txid.ExtractOnDemandURL(html)
	if err != nil {
		return nil, err
	}
	docs := &txid.Documents{HomePageHTML: html, OnDemandURL: jsURL}

	if f.jsFile != "" {
		if docs.OnDemandJS, err = readFile(f.jsFile); err != nil {
			return nil, err
		}
		return docs, nil
	}

	fetcher, err := newFetcher()
	if err != nil {
		return nil, err
	}
	logf("fetching %s", jsURL)
	status, body, err := fetcher.Fetch(cmd.Context(), jsURL, http.Header{"User-Agent": {globalCfg.UserAgent}})
	if err != nil {
		return nil, fmt.Errorf("fetching ondemand file: %w", err)
	}
	if status != http.StatusOK {
		return nil, &txid.StatusError{URL: jsURL, Code: status}
	}
	docs.OnDemandJS = string(body)
	return docs, nil
}

func (f *documentFlags) fetchOptions(cmd *cobra.Command) []txid.FetchOption {
	opts := []txid.FetchOption{
		txid.WithHomeURL(globalCfg.HomeURL),
		txid.WithUserAgent(globalCfg.UserAgent),
		txid.WithLogf(logf),
	}
	if header := f.cookieHeader(cmd); header != "" {
		opts = append(opts, txid.WithHeader("Cookie", header))
	}
	return opts
}

// cookieHeader prefers configured cookies and falls back to the browser
// stores when asked to.
func (f *documentFlags) cookieHeader(cmd *cobra.Command) string {
	if configured := globalCfg.Cookies(); len(configured) > 0 {
		return cookies.Header(configured)
	}
	if !f.browserCookies && !globalCfg.BrowserCookies {
		return ""
	}

	result, err := cookies.Extract(cmd.Context(), cookies.Domains, cookies.SessionNames, logf)
	if err != nil {
		logger.Sugar().Warnf("cookie extraction: %v", err)
		return ""
	}
	if len(result.Cookies) > 0 {
		logf("loaded %d cookies from %s", len(result.Cookies), result.Browser)
	}
	return result.Header()
}

func newFetcher() (txid.Fetcher, error) {
	hello, err := httpclient.ParseHelloID(globalCfg.TLSHello)
	if err != nil {
		return nil, err
	}
	return &txid.HTTPFetcher{Client: httpclient.New(requestTimeout(), httpclient.WithHelloID(hello))}, nil
}

func readFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(b), nil
}
