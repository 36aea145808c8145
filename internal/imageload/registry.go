package imageload

import (
	"strings"
	"sync"
)

// FailureIndex is the read side of a Registry, consulted before a load
// is attempted.
type FailureIndex interface {
	HasFailed(url string) bool
}

// Registry remembers image URLs that failed to load during the current
// listing session, so dozens of simultaneously rendered cards do not
// keep hammering a known-dead URL. Memory-only: it resets on refresh
// and on process restart.
//
// A registry is owned by one list screen and torn down with it.
type Registry struct {
	mu     sync.Mutex
	failed map[string]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{failed: make(map[string]struct{})}
}

// RecordFailure marks the URL's base form as known-bad.
func (r *Registry) RecordFailure(url string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed[normalizeURL(url)] = struct{}{}
}

// RecordSuccess clears a prior failure record for the URL.
func (r *Registry) RecordSuccess(url string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.failed, normalizeURL(url))
}

// HasFailed reports whether the URL's base form is known-bad.
func (r *Registry) HasFailed(url string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.failed[normalizeURL(url)]
	return ok
}

// Clear empties the registry. Called exactly once per full list
// refresh, never per item.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed = make(map[string]struct{})
}

// normalizeURL strips the query string so cache-busted variants of the
// same image collapse to one entry.
func normalizeURL(url string) string {
	if i := strings.IndexByte(url, '?'); i >= 0 {
		return url[:i]
	}
	return url
}
