package gourmet

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions callers branch on.
var (
	// ErrFilterActive is returned by Commit when the view was built with a
	// non-empty filter query. An overwrite from a filtered view would drop
	// every row outside the filter, so the commit is refused outright.
	ErrFilterActive = errors.New("commit refused: filter active, clear the search query and retry")

	// ErrGeocodeNotFound means the geocoder answered but found nothing.
	// Non-fatal: a venue may exist without map placement.
	ErrGeocodeNotFound = errors.New("no location found for address")
)

// ValidationError reports a single field failing the record rules.
// Row is the zero-based view row index, or -1 for form input.
type ValidationError struct {
	Row     int
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Row >= 0 {
		return fmt.Sprintf("row %d: %s: %s", e.Row, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// GeocodeServiceError is a network or service fault from the geocoder,
// distinct from "not found". Non-fatal to an append; the caller surfaces
// it as a warning.
type GeocodeServiceError struct {
	Query string
	Err   error
}

func (e *GeocodeServiceError) Error() string {
	return fmt.Sprintf("geocode %q: %v", e.Query, e.Err)
}

func (e *GeocodeServiceError) Unwrap() error { return e.Err }

// StoreError is a fault from the table store. Fatal to the current
// operation; never retried here beyond the adapter's own rate-limit
// backoff.
type StoreError struct {
	Op  string // "read", "overwrite" or "append"
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("sheet %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
