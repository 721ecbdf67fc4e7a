// Package analytics computes derived quality metrics over test-result data:
// execution statistics, flaky-test detection, failure-pattern analysis,
// duration analytics, historical trends, and a composite quality score.
//
// The engine is a pure computation unit. It never mutates its inputs, does
// no I/O, and maps every degenerate input (no launches, no durations, no
// decisive outcomes) to a zero-valued report rather than an error.
package analytics

import (
	"sort"
	"time"
)

// DefaultMinOccurrences is the flaky-detection threshold used when the
// caller passes a non-positive value.
const DefaultMinOccurrences = 3

// DefaultWindowDays is the historical-comparison window used when the
// caller passes a non-positive value.
const DefaultWindowDays = 30

// Engine computes analytics reports over a fixed snapshot of launches and
// their test items. Construct one per data set; instances are cheap and
// safe for concurrent reads since all state is set at construction.
type Engine struct {
	launches       []Launch
	itemsByLaunch  map[string][]TestItem
	now            func() time.Time
	minOccurrences int
	windowDays     int
}

// Option configures the Engine during construction.
type Option func(*Engine)

// WithClock overrides the wall-clock source used by historical comparison.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithFlakyThreshold sets the flaky-detection occurrence threshold used by
// ExecutiveSummary. Non-positive values keep DefaultMinOccurrences.
func WithFlakyThreshold(minOccurrences int) Option {
	return func(e *Engine) { e.minOccurrences = minOccurrences }
}

// WithHistoryWindow sets the historical-comparison window in days used by
// ExecutiveSummary. Non-positive values keep DefaultWindowDays.
func WithHistoryWindow(days int) Option {
	return func(e *Engine) { e.windowDays = days }
}

// New creates an Engine over the given launches and the launch-ID to
// test-item mapping. Either input may be nil or empty.
func New(launches []Launch, itemsByLaunch map[string][]TestItem, opts ...Option) *Engine {
	e := &Engine{
		launches:      launches,
		itemsByLaunch: itemsByLaunch,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// launchesByStartTime returns the launches sorted ascending by start time.
// Launches without a start time sort first; the input order is preserved
// among equals, so the result is deterministic for any fixed input.
func (e *Engine) launchesByStartTime() []Launch {
	sorted := make([]Launch, len(e.launches))
	copy(sorted, e.launches)
	sort.SliceStable(sorted, func(i, j int) bool {
		ti, tj := sorted[i].StartTime, sorted[j].StartTime
		if ti == nil {
			return tj != nil
		}
		if tj == nil {
			return false
		}
		return ti.Before(*tj)
	})
	return sorted
}

// orderedLaunchIDs returns the keys of itemsByLaunch in a pinned order:
// first the launches known to the engine, sorted by start time, then any
// remaining keys sorted lexically. Flaky scoring depends on occurrence
// adjacency, so item iteration must not follow map order.
func (e *Engine) orderedLaunchIDs() []string {
	seen := make(map[string]bool, len(e.itemsByLaunch))
	var ids []string
	for _, l := range e.launchesByStartTime() {
		if _, ok := e.itemsByLaunch[l.ID]; ok && !seen[l.ID] {
			seen[l.ID] = true
			ids = append(ids, l.ID)
		}
	}
	var rest []string
	for id := range e.itemsByLaunch {
		if !seen[id] {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	return append(ids, rest...)
}
