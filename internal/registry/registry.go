// Package registry implements the Scan Registry of spec §4.5: the
// process-wide, thread-safe set of active scans (with their
// cancellation flags) and completed results.
//
// Grounded on original_source's scan/state.rs AppState, which keeps
// active scans and results in two separate maps behind their own
// locks, with cancel flags as a clonable atomic handle rather than a
// value guarded by the same lock the maps use. The zero-value
// Registry{} (no explicit constructor call) is intentionally usable:
// Go mutexes need no initialization and the maps are created lazily,
// so a Registry behaves as "benign empty registry" rather than
// panicking, the same way state.rs's lock-poisoning is "can't happen,
// so don't guard for it" — translated here into "don't require a
// constructor".
package registry

import (
	"sync"
	"sync/atomic"
	"time"

	"disksight/internal/model"
)

type activeEntry struct {
	cancel    *atomic.Bool
	startedAt time.Time
}

// Registry owns the active/completed scan bookkeeping. The zero value
// is ready to use.
type Registry struct {
	mu      sync.Mutex
	active  map[string]*activeEntry
	results map[string]model.ScanResult

	resultsMu sync.Mutex
}

// New returns a ready-to-use Registry. Equivalent to the zero value;
// provided for callers that prefer an explicit constructor.
func New() *Registry {
	return &Registry{}
}

// Begin registers scanID as active and returns its cancellation flag.
// Calling Begin twice with the same scanID replaces the previous
// active entry (the caller is expected to have already guaranteed
// scan-id uniqueness, e.g. via uuid.NewString()).
func (r *Registry) Begin(scanID string) *atomic.Bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active == nil {
		r.active = make(map[string]*activeEntry)
	}
	cancel := &atomic.Bool{}
	r.active[scanID] = &activeEntry{cancel: cancel, startedAt: time.Now()}
	return cancel
}

// Cancel flips scanID's cancellation flag. Reports false if scanID is
// not currently active (already finished, or never started) — this is
// a benign no-op, not an error, matching the spec's registry
// lock-poisoning-is-benign philosophy.
func (r *Registry) Cancel(scanID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.active[scanID]
	if !ok {
		return false
	}
	entry.cancel.Store(true)
	return true
}

// Finish moves scanID from active to completed, recording result.
// Safe to call even if scanID was never registered (Begin was never
// called, or it was already finished) — it simply records the result.
func (r *Registry) Finish(scanID string, result model.ScanResult) {
	r.mu.Lock()
	if r.active != nil {
		delete(r.active, scanID)
	}
	r.mu.Unlock()

	r.resultsMu.Lock()
	defer r.resultsMu.Unlock()
	if r.results == nil {
		r.results = make(map[string]model.ScanResult)
	}
	r.results[scanID] = result
}

// Remove drops scanID from both the active and completed sets. Used
// when a scan is canceled or errored and its partial result should not
// be retained.
func (r *Registry) Remove(scanID string) {
	r.mu.Lock()
	if r.active != nil {
		delete(r.active, scanID)
	}
	r.mu.Unlock()

	r.resultsMu.Lock()
	if r.results != nil {
		delete(r.results, scanID)
	}
	r.resultsMu.Unlock()
}

// Result returns the completed result for scanID, if any.
func (r *Registry) Result(scanID string) (model.ScanResult, bool) {
	r.resultsMu.Lock()
	defer r.resultsMu.Unlock()
	res, ok := r.results[scanID]
	return res, ok
}

// IsActive reports whether scanID currently has an active (not yet
// finished) scan.
func (r *Registry) IsActive(scanID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.active[scanID]
	return ok
}

// CancelFlag returns the cancellation flag for an active scan, if any.
func (r *Registry) CancelFlag(scanID string) (*atomic.Bool, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.active[scanID]
	if !ok {
		return nil, false
	}
	return entry.cancel, true
}
