package txid

import (
	"encoding/base64"
	"fmt"
)

const (
	totalAnimationTime = 4096.0
	frameCount         = 4
	rowIndexModulus    = 16
	frameSelectorIndex = 5
)

// KeyMaterial is the secret derived once from a home page and its
// ondemand.s script. It never changes after construction and may be shared
// between goroutines.
type KeyMaterial struct {
	keyBytes     []byte
	animationKey string
}

// DeriveKeyMaterial extracts the verification key and animation constants
// from html and js and replays the animation to build the key material.
// The first missing or malformed input aborts the derivation.
func DeriveKeyMaterial(html, js string) (*KeyMaterial, error) {
	rowIndex, keyByteIndices, err := ParseIndices(js)
	if err != nil {
		return nil, err
	}
	key, err := VerificationKey(html)
	if err != nil {
		return nil, err
	}
	keyBytes, err := decodeKey(key)
	if err != nil {
		return nil, err
	}
	animationKey, err := deriveAnimationKey(keyBytes, html, rowIndex, keyByteIndices)
	if err != nil {
		return nil, err
	}
	return &KeyMaterial{keyBytes: keyBytes, animationKey: animationKey}, nil
}

// KeyBytes returns a copy of the decoded verification key.
func (k *KeyMaterial) KeyBytes() []byte {
	return append([]byte(nil), k.keyBytes...)
}

// AnimationKey returns the string mixed into every transaction hash.
func (k *KeyMaterial) AnimationKey() string {
	return k.animationKey
}

func decodeKey(key string) ([]byte, error) {
	enc := base64.StdEncoding
	if len(key)%4 != 0 {
		enc = base64.RawStdEncoding
	}
	b, err := enc.DecodeString(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBase64, err)
	}
	return b, nil
}

// frameTime multiplies the low nibbles of the selected key bytes and rounds
// the product to the nearest ten. Out of range indices are skipped.
func frameTime(keyBytes []byte, indices []int) float64 {
	product := 1.0
	for _, idx := range indices {
		if idx < 0 || idx >= len(keyBytes) {
			continue
		}
		product *= float64(keyBytes[idx] % rowIndexModulus)
	}
	return JSRound(product/10) * 10
}

func frameData(keyBytes []byte, html string) ([][]int, error) {
	frames := AnimationFrames(html)
	if len(frames) == 0 {
		return nil, missingKey("animation frames")
	}
	if len(keyBytes) <= frameSelectorIndex {
		return nil, parseError("key too short for frame selection")
	}
	frameIndex := int(keyBytes[frameSelectorIndex] % frameCount)
	if frameIndex >= len(frames) {
		return nil, parseError("frame index %d out of bounds (%d frames)", frameIndex, len(frames))
	}
	return ParsePathToCoordinates(frames[frameIndex]), nil
}

func deriveAnimationKey(keyBytes []byte, html string, rowIndex int, keyByteIndices []int) (string, error) {
	if rowIndex < 0 || rowIndex >= len(keyBytes) {
		return "", parseError("key too short for row selection")
	}
	row := int(keyBytes[rowIndex] % rowIndexModulus)
	ft := frameTime(keyBytes, keyByteIndices)

	segments, err := frameData(keyBytes, html)
	if err != nil {
		return "", err
	}
	if row >= len(segments) {
		return "", parseError("row index %d out of bounds (%d segments)", row, len(segments))
	}

	return animate(segments[row], ft/totalAnimationTime)
}
