// Package filter is the matching core: it finds every candidate that contains
// the query, case-insensitively, after a fixed artificial latency that stands
// in for a network round trip.
package filter

import (
	"context"
	"errors"
)

// Filterer produces the ordered subset of candidates matching query.
type Filterer interface {
	// Filter blocks until the result is ready or ctx is done.
	Filter(ctx context.Context, query string) ([]string, error)
}

// Errors a remote backend may report. The in-memory Engine never returns
// them, but hosts surface them to the user the same way.
var (
	ErrNetwork = errors.New("filter: network error")
	ErrTimeout = errors.New("filter: timed out")
)

// Message converts a filter failure into the short text shown under the
// input. The input stays editable after any of these.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return "Suggestions took too long. Keep typing to retry."
	case errors.Is(err, ErrNetwork):
		return "Suggestions are unavailable right now."
	default:
		return "Could not load suggestions."
	}
}
