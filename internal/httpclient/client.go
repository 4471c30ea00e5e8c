// Package httpclient provides an HTTP client that presents a Chrome TLS
// fingerprint via uTLS. x.com fronts its pages with bot detection that
// treats Go's default TLS handshake as a non-browser client.
package httpclient

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	utls "github.com/refraction-networking/utls"
	"golang.org/x/net/http2"
)

// Option configures the client.
type Option func(*chromeTransport)

// WithHelloID picks the browser whose ClientHello is mimicked.
func WithHelloID(id utls.ClientHelloID) Option {
	return func(t *chromeTransport) { t.helloID = id }
}

var helloIDs = map[string]utls.ClientHelloID{
	"chrome":  utls.HelloChrome_Auto,
	"firefox": utls.HelloFirefox_Auto,
	"safari":  utls.HelloSafari_Auto,
	"edge":    utls.HelloEdge_Auto,
	"ios":     utls.HelloIOS_Auto,
}

// ParseHelloID maps a browser name to its ClientHello. Empty means chrome.
func ParseHelloID(name string) (utls.ClientHelloID, error) {
	if name == "" {
		return utls.HelloChrome_Auto, nil
	}
	id, ok := helloIDs[name]
	if !ok {
		return utls.ClientHelloID{}, fmt.Errorf("unknown TLS fingerprint %q (chrome, firefox, safari, edge, ios)", name)
	}
	return id, nil
}

// WithPlainTransport sets the RoundTripper used for non-HTTPS requests.
func WithPlainTransport(rt http.RoundTripper) Option {
	return func(t *chromeTransport) { t.plain = rt }
}

// New returns an *http.Client whose TLS handshake looks like Chrome.
// Every HTTPS request gets a fresh TLS connection.
func New(timeout time.Duration, opts ...Option) *http.Client {
	t := &chromeTransport{
		dialer: &net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		},
		helloID: utls.HelloChrome_Auto,
		plain:   http.DefaultTransport,
	}
	for _, opt := range opts {
		opt(t)
	}
	return &http.Client{Timeout: timeout, Transport: t}
}

// chromeTransport implements http.RoundTripper with a uTLS fingerprint.
type chromeTransport struct {
	dialer  *net.Dialer
	helloID utls.ClientHelloID
	plain   http.RoundTripper
}

func (t *chromeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.Scheme != "https" {
		return t.plain.RoundTrip(req)
	}

	tlsConn, err := t.dialTLS(req.Context(), req.URL)
	if err != nil {
		return nil, err
	}

	if tlsConn.ConnectionState().NegotiatedProtocol == "h2" {
		h2t := &http2.Transport{
			DialTLSContext: func(_ context.Context, _, _ string, _ *tls.Config) (net.Conn, error) {
				return tlsConn, nil
			},
		}
		return h2t.RoundTrip(req)
	}

	h1t := &http.Transport{
		DialTLSContext: func(_ context.Context, _, _ string) (net.Conn, error) {
			return tlsConn, nil
		},
		DisableKeepAlives: true,
	}
	return h1t.RoundTrip(req)
}

func (t *chromeTransport) dialTLS(ctx context.Context, u *url.URL) (*utls.UConn, error) {
	host := u.Hostname()
	rawConn, err := t.dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, portFromURL(u)))
	if err != nil {
		return nil, err
	}

	tlsConn := utls.UClient(rawConn, &utls.Config{
		ServerName: host,
		NextProtos: []string{"h2", "http/1.1"},
	}, t.helloID)

	if err := tlsConn.HandshakeContext(ctx); err != nil {
		rawConn.Close()
		return nil, err
	}
	return tlsConn, nil
}

func portFromURL(u *url.URL) string {
	if p := u.Port(); p != "" {
		return p
	}
	if u.Scheme == "https" {
		return "443"
	}
	return "80"
}
