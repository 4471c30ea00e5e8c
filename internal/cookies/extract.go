// Package cookies reads X session cookies from the local browsers via
// kooky. Safari is tried first, Chrome as fallback.
package cookies

import (
	"context"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/browserutils/kooky"
	"github.com/browserutils/kooky/browser/chrome"
	"github.com/browserutils/kooky/browser/safari"
)

// SessionNames are the cookies that make x.com serve the logged-in home
// page.
var SessionNames = []string{"auth_token", "ct0", "guest_id"}

// Domains X sets its session cookies on, in lookup order.
var Domains = []string{"x.com", "twitter.com"}

// Result holds extracted cookies.
type Result struct {
	Cookies map[string]string // name -> value
	Browser string            // which browser provided them
}

// HasAll reports whether all requested cookie names were found.
func (r *Result) HasAll(names []string) bool {
	if r == nil {
		return false
	}
	for _, n := range names {
		if r.Cookies[n] == "" {
			return false
		}
	}
	return true
}

// Header renders the cookies as a Cookie request header value, sorted by
// name. It is empty when nothing was found.
func (r *Result) Header() string {
	if r == nil {
		return ""
	}
	return Header(r.Cookies)
}

// Header renders name/value pairs as a Cookie header value.
func Header(cookies map[string]string) string {
	names := make([]string, 0, len(cookies))
	for n, v := range cookies {
		if v != "" {
			names = append(names, n)
		}
	}
	sort.Strings(names)

	pairs := make([]string, len(names))
	for i, n := range names {
		pairs[i] = n + "=" + cookies[n]
	}
	return strings.Join(pairs, "; ")
}

// source reads cookies for one domain suffix from one browser store.
type source struct {
	browser  string
	paths    func() ([]string, error)
	traverse func(path, domain string) iter.Seq[*kooky.Cookie]
}

var sources = []source{
	{
		browser: "safari",
		paths:   safariCookiePaths,
		traverse: func(path, domain string) iter.Seq[*kooky.Cookie] {
			return func(yield func(*kooky.Cookie) bool) {
				for cookie := range safari.TraverseCookies(path, kooky.DomainHasSuffix(domain)).OnlyCookies() {
					if !yield(cookie) {
						return
					}
				}
			}
		},
	},
	{
		browser: "chrome",
		paths:   chromeCookiePaths,
		traverse: func(path, domain string) iter.Seq[*kooky.Cookie] {
			return func(yield func(*kooky.Cookie) bool) {
				for cookie := range chrome.TraverseCookies(path, kooky.DomainHasSuffix(domain)).OnlyCookies() {
					if !yield(cookie) {
						return
					}
				}
			}
		},
	},
}

// Extract looks up names for each domain, stopping as soon as every name
// has a value. The first value found for a name wins.
func Extract(ctx context.Context, domains, names []string, logf func(string, ...any)) (*Result, error) {
	if logf == nil {
		logf = func(string, ...any) {}
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	result := &Result{Cookies: make(map[string]string)}
	for _, src := range sources {
		for _, domain := range domains {
			if result.HasAll(names) {
				return result, nil
			}
			if err := src.extract(ctx, domain, wanted, result, logf); err != nil {
				if ctx.Err() != nil {
					return result, ctx.Err()
				}
				logf("%s: %v", src.browser, err)
			}
		}
	}

	return result, nil
}

func (src source) extract(ctx context.Context, domain string, wanted map[string]bool, result *Result, logf func(string, ...any)) error {
	paths, err := src.paths()
	if err != nil {
		return err
	}

	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		logf("searching %s cookies at %s", src.browser, path)

		for cookie := range src.traverse(path, domain) {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if cookie == nil || cookie.Value == "" {
				continue
			}
			if len(wanted) > 0 && !wanted[cookie.Name] {
				continue
			}
			if result.Cookies[cookie.Name] != "" {
				continue
			}
			result.Cookies[cookie.Name] = cookie.Value
			if result.Browser == "" {
				result.Browser = src.browser
			}
			logf("found %s (domain=%s, browser=%s)", cookie.Name, cookie.Domain, src.browser)
		}
	}

	return nil
}

func chromeCookiePaths() ([]string, error) {
	if runtime.GOOS != "darwin" {
		return nil, fmt.Errorf("unsupported OS %q: only macOS is currently supported", runtime.GOOS)
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	return []string{
		filepath.Join(dir, "Google", "Chrome", "Default", "Network", "Cookies"),
		filepath.Join(dir, "Google", "Chrome", "Default", "Cookies"),
	}, nil
}

func safariCookiePaths() ([]string, error) {
	if runtime.GOOS != "darwin" {
		return nil, fmt.Errorf("unsupported OS %q: only macOS is currently supported", runtime.GOOS)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return []string{
		filepath.Join(home, "Library", "Containers", "com.apple.Safari", "Data", "Library", "Cookies", "Cookies.binarycookies"),
		filepath.Join(home, "Library", "Cookies", "Cookies.binarycookies"),
	}, nil
}
