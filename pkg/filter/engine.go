package filter

import (
	"context"
	"strings"
	"time"

	"github.com/bastiangx/autocomplete/internal/utils"
	"github.com/charmbracelet/log"
)

// Latency is the simulated round trip every Filter call waits before answering.
const Latency = 100 * time.Millisecond

// Engine filters an immutable candidate list.
// It is safe for concurrent use.
type Engine struct {
	candidates []string
	index      *Index
	latency    time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithLatency replaces the simulated round trip. Tests use zero.
func WithLatency(d time.Duration) Option {
	return func(e *Engine) {
		if d < 0 {
			d = 0
		}
		e.latency = d
	}
}

// NewEngine indexes a copy of candidates.
func NewEngine(candidates []string, opts ...Option) *Engine {
	owned := make([]string, len(candidates))
	copy(owned, candidates)

	e := &Engine{
		candidates: owned,
		latency:    Latency,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.index = NewIndex(owned)
	return e
}

// Filter waits for the engine latency, then returns the matches for query.
// It returns ctx.Err() if ctx ends first.
func (e *Engine) Filter(ctx context.Context, query string) ([]string, error) {
	if e.latency > 0 {
		timer := time.NewTimer(e.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			log.Debug("Filter cancelled", "query", query)
			return nil, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	matches := e.Match(query)
	log.Debugf("Took [ %v ] to match %d/%d for query '%s'", time.Since(start), len(matches), len(e.candidates), query)
	return matches, nil
}

// Match returns the matches for query without waiting.
func (e *Engine) Match(query string) []string {
	ids := e.index.Lookup(strings.ToLower(query))
	matches := make([]string, len(ids))
	for i, id := range ids {
		matches[i] = e.candidates[id]
	}
	return matches
}

// Candidates returns a copy of the indexed list.
func (e *Engine) Candidates() []string {
	out := make([]string, len(e.candidates))
	copy(out, e.candidates)
	return out
}

// Stats returns statistics about the loaded list
func (e *Engine) Stats() map[string]int {
	stats := e.index.Stats()
	stats["latencyMs"] = int(e.latency.Milliseconds())
	return stats
}

// Match is the linear definition of filtering: every candidate whose
// lowercase form contains the lowercase query, in candidate order.
func Match(candidates []string, query string) []string {
	matches := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if utils.StringContainsIgnoreCase(c, query) {
			matches = append(matches, c)
		}
	}
	return matches
}
