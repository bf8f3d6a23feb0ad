package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a referenced document is missing.
	ErrNotFound = errors.New("not found")
	// ErrTransactionConflict signals a concurrent write invalidated a
	// transaction's reads. Callers retry the whole operation.
	ErrTransactionConflict = errors.New("transaction conflict")
	// ErrUnauthenticated signals no valid session for a write.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrUpstreamUnavailable signals the record store or an external
	// provider is unreachable. Retryable by the caller.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// EnrichmentError marks a non-fatal per-entity enrichment failure. It is
// logged and absorbed at the point of use and never aborts a page.
type EnrichmentError struct {
	Entity string
	ID     string
	Err    error
}

func (e *EnrichmentError) Error() string {
	return fmt.Sprintf("enrichment failed for %s %s: %v", e.Entity, e.ID, e.Err)
}

func (e *EnrichmentError) Unwrap() error { return e.Err }

func NotFoundf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}
