package httpclient

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	utls "github.com/refraction-networking/utls"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortFromURL(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"https://x.com", "443"},
		{"http://x.com", "80"},
		{"https://abs.twimg.com:8443/a.js", "8443"},
		{"http://127.0.0.1:9000/", "9000"},
	}
	for _, tt := range tests {
		u, err := url.Parse(tt.raw)
		require.NoError(t, err)
		assert.Equal(t, tt.want, portFromURL(u), tt.raw)
	}
}

func TestPlainHTTPUsesFallbackTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "ok")
	}))
	defer srv.Close()

	client := New(5*time.Second, WithPlainTransport(srv.Client().Transport))
	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
}

func TestNewOptions(t *testing.T) {
	client := New(7*time.Second, WithHelloID(utls.HelloChrome_120))
	assert.Equal(t, 7*time.Second, client.Timeout)

	tr, ok := client.Transport.(*chromeTransport)
	require.True(t, ok)
	assert.Equal(t, utls.HelloChrome_120, tr.helloID)
	assert.Equal(t, http.DefaultTransport, tr.plain)
}

func TestParseHelloID(t *testing.T) {
	tests := []struct {
		name string
		want utls.ClientHelloID
	}{
		{"", utls.HelloChrome_Auto},
		{"chrome", utls.HelloChrome_Auto},
		{"firefox", utls.HelloFirefox_Auto},
		{"safari", utls.HelloSafari_Auto},
		{"edge", utls.HelloEdge_Auto},
		{"ios", utls.HelloIOS_Auto},
	}
	for _, tt := range tests {
		got, err := ParseHelloID(tt.name)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, got, tt.name)
	}

	_, err := ParseHelloID("netscape")
	assert.ErrorContains(t, err, "unknown TLS fingerprint")
}
