package fetcher

import (
	"errors"
	"fmt"
)

var (
	// ErrFetchFailed is returned when a page could not be retrieved: a
	// transport error or a non-2xx response.
	ErrFetchFailed = errors.New("fetch failed")
	// ErrParseFailed is returned when a 2xx response has no usable markup.
	ErrParseFailed = errors.New("parse failed")
)

// FetchError describes a failed request.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is reports ErrFetchFailed so callers need not unwrap the cause.
func (e *FetchError) Is(target error) bool {
	return target == ErrFetchFailed
}
