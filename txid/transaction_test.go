package txid

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	clientEventPath = "/i/api/1.1/jot/client_event.json"

	goldenGET  = "W6SZ4KnbwWUMuNTDFZrKprdWyy8sidzX1CvhYQlP2qfPKqKaB9r05MmdNXKlCEfqfcvWX1pUjqISYmPA0Zaqw2mt9VLSWA"
	goldenPOST = "tUp3Dkc1L4viVjot+3QkSFm4JcHCZzI5OsUPj+ehNEkhxEx06TQaCidz25xL5qkEkyU4sbTI83h5H4i2rDY8NyFndYLStg"
	goldenZero = "Ocb7gsu5owdu2rahd/ioxNU0qU1O6761tkmDA2stuMWtSMD4ZbiWhqv/VxDHaiWIHzk5OTlCosrxhVS1b01uLjI0yzwXOg"
)

func fixedClock(unix int64) Clock {
	return func() time.Time { return time.Unix(unix, 0) }
}

func newFixtureTransaction(t *testing.T, opts ...Option) *ClientTransaction {
	t.Helper()
	ct, err := New(readFixture(t, "home.html"), readFixture(t, "ondemand.js"), opts...)
	require.NoError(t, err)
	return ct
}

func TestGenerateGolden(t *testing.T) {
	ct := newFixtureTransaction(t, WithClock(fixedClock(1_700_000_000)))

	assert.Equal(t, goldenGET, ct.Generate("GET", clientEventPath))
	assert.Equal(t, goldenGET, ct.Generate("GET", clientEventPath), "same second, same id")
	assert.Equal(t, goldenPOST, ct.Generate("POST", "/i/api/graphql/abc/CreateTweet"))
}

func TestGenerateBeforeEpoch(t *testing.T) {
	ct := newFixtureTransaction(t, WithClock(fixedClock(0)))
	assert.Equal(t, goldenZero, ct.Generate("GET", clientEventPath))
}

func TestGenerateLayout(t *testing.T) {
	ct := newFixtureTransaction(t, WithClock(fixedClock(epoch+0x01020304)))
	id := ct.Generate("GET", clientEventPath)

	assert.NotContains(t, id, "=")
	raw, err := base64.RawStdEncoding.DecodeString(id)
	require.NoError(t, err)

	keyBytes := ct.KeyMaterial().KeyBytes()
	require.Len(t, raw, 1+len(keyBytes)+4+16+1)

	mask := raw[0]
	plain := make([]byte, len(raw)-1)
	for i, b := range raw[1:] {
		plain[i] = b ^ mask
	}

	assert.Equal(t, keyBytes, plain[:len(keyBytes)])
	assert.Equal(t, uint32(0x01020304), binary.LittleEndian.Uint32(plain[len(keyBytes):]))

	input := fmt.Sprintf("GET!%s!%d%s%s", clientEventPath, 0x01020304, hashSalt, fixtureAnimationKey)
	hash := sha256.Sum256([]byte(input))
	assert.Equal(t, hash[16], mask)
	assert.Equal(t, hash[:16], plain[len(keyBytes)+4:len(keyBytes)+20])
	assert.Equal(t, byte(protocolVersion), plain[len(plain)-1])
}

func TestElapsedSeconds(t *testing.T) {
	assert.Equal(t, uint32(0), elapsedSeconds(time.Unix(0, 0)))
	assert.Equal(t, uint32(0), elapsedSeconds(time.Unix(epoch-1, 0)))
	assert.Equal(t, uint32(0), elapsedSeconds(time.Unix(epoch, 0)))
	assert.Equal(t, uint32(1), elapsedSeconds(time.Unix(epoch+1, 999_999_999)))
	assert.Equal(t, uint32(17_075_600), elapsedSeconds(time.Unix(1_700_000_000, 0)))
	assert.Equal(t, uint32(0xffffffff), elapsedSeconds(time.Unix(epoch+0xffffffff, 0)))
	// 32-bit wraparound in 2159.
	assert.Equal(t, uint32(5), elapsedSeconds(time.Unix(epoch+1<<32+5, 0)))
}

func TestWithClockNilKeepsDefault(t *testing.T) {
	ct := newFixtureTransaction(t, WithClock(nil))
	require.NotNil(t, ct.now)
	assert.NotEmpty(t, ct.Generate("GET", "/"))
}

func TestNewWrapsDerivationError(t *testing.T) {
	_, err := New("<html></html>", readFixture(t, "ondemand.js"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingKey)
	assert.Contains(t, err.Error(), "deriving key material")
}

func TestGenerateConcurrent(t *testing.T) {
	km, err := DeriveKeyMaterial(readFixture(t, "home.html"), readFixture(t, "ondemand.js"))
	require.NoError(t, err)
	ct, err := NewFromKeyMaterial(km, WithClock(fixedClock(1_700_000_000)))
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]string, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = ct.Generate("GET", clientEventPath)
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, goldenGET, r)
	}
}

func TestNewFromKeyMaterialNil(t *testing.T) {
	ct, err := NewFromKeyMaterial(nil)
	assert.Nil(t, ct)
	assert.ErrorIs(t, err, ErrMissingKey)
}
