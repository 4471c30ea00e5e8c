package txid

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this package wraps exactly one of
// these, so callers can branch with errors.Is.
var (
	// ErrMismatchedArguments means two interpolation inputs differ in length.
	ErrMismatchedArguments = errors.New("interpolation arrays have different lengths")
	// ErrParse means the HTML, JavaScript, path data or a frame was malformed.
	ErrParse = errors.New("parse error")
	// ErrMissingKey means an expected marker, attribute or pattern is absent.
	ErrMissingKey = errors.New("missing required key")
	// ErrBase64 means the verification key is not valid base64.
	ErrBase64 = errors.New("base64 decode error")
)

// StatusError is returned by Fetch when a document comes back with a
// non-200 status.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned HTTP %d", e.URL, e.Code)
}

func parseError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrParse, fmt.Sprintf(format, args...))
}

func missingKey(what string) error {
	return fmt.Errorf("%w: %s", ErrMissingKey, what)
}
