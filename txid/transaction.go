// Package txid generates the x-client-transaction-id header that X (Twitter)
// requires on its web API.
//
// The value is derived from the home page and the ondemand.s script: the
// twitter-site-verification meta tag supplies the key bytes, and the SVG
// loading animations are replayed to produce an animation key. Both are
// fixed per page load; every request then hashes its method and path with
// the current time.
//
//	html := fetch("https://x.com")
//	jsURL, _ := txid.ExtractOnDemandURL(html)
//	ct, err := txid.New(html, fetch(jsURL))
//	id := ct.Generate("GET", "/i/api/1.1/jot/client_event.json")
package txid

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"strings"
	"time"
)

const (
	// HeaderName is the request header that carries the generated ID.
	HeaderName = "x-client-transaction-id"

	hashSalt = "obfiowerehiring"

	// epoch is X's reference time, 2023-05-01 07:00:00 UTC.
	epoch = 1682924400

	protocolVersion = 3
)

// Clock reports the current time.
type Clock func() time.Time

// Option configures a ClientTransaction.
type Option func(*ClientTransaction)

// WithClock replaces time.Now as the source of the request timestamp.
func WithClock(c Clock) Option {
	return func(ct *ClientTransaction) {
		if c != nil {
			ct.now = c
		}
	}
}

// ClientTransaction generates transaction IDs from fixed key material.
// It holds no mutable state and is safe for concurrent use.
type ClientTransaction struct {
	km  *KeyMaterial
	now Clock
}

// New derives key material from a pre-fetched home page and ondemand.s
// script. Use ExtractOnDemandURL to find the script.
func New(homePageHTML, onDemandJS string, opts ...Option) (*ClientTransaction, error) {
	km, err := DeriveKeyMaterial(homePageHTML, onDemandJS)
	if err != nil {
		return nil, fmt.Errorf("deriving key material: %w", err)
	}
	return NewFromKeyMaterial(km, opts...)
}

// NewFromKeyMaterial wraps already derived key material. km must come from
// DeriveKeyMaterial; nil is rejected with ErrMissingKey.
func NewFromKeyMaterial(km *KeyMaterial, opts ...Option) (*ClientTransaction, error) {
	if km == nil {
		return nil, missingKey("key material")
	}
	ct := &ClientTransaction{km: km, now: time.Now}
	for _, opt := range opts {
		opt(ct)
	}
	return ct, nil
}

// KeyMaterial returns the material the generator was built from.
func (ct *ClientTransaction) KeyMaterial() *KeyMaterial {
	return ct.km
}

// Generate produces the transaction ID for one request.
func (ct *ClientTransaction) Generate(method, path string) string {
	return ct.generateAt(method, path, elapsedSeconds(ct.now()))
}

func (ct *ClientTransaction) generateAt(method, path string, now uint32) string {
	data := fmt.Sprintf("%s!%s!%d%s%s", method, path, now, hashSalt, ct.km.animationKey)
	hash := sha256.Sum256([]byte(data))
	mask := hash[16]

	bytesArr := make([]byte, 0, len(ct.km.keyBytes)+4+16+1)
	bytesArr = append(bytesArr, ct.km.keyBytes...)
	bytesArr = binary.LittleEndian.AppendUint32(bytesArr, now)
	bytesArr = append(bytesArr, hash[:16]...)
	bytesArr = append(bytesArr, protocolVersion)

	out := make([]byte, 1+len(bytesArr))
	out[0] = mask
	for i, b := range bytesArr {
		out[i+1] = b ^ mask
	}

	encoded := base64.StdEncoding.EncodeToString(out)
	return strings.TrimRight(encoded, "=")
}

// elapsedSeconds counts seconds since the X epoch. Times before the epoch
// give 0. The count is kept in 32 bits, which wraps in the year 2159.
func elapsedSeconds(t time.Time) uint32 {
	secs := t.Unix() - epoch
	if secs < 0 {
		return 0
	}
	return uint32(secs)
}
