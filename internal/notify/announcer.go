package notify

import "sync"

// LiveRegion is the assistive-technology channel: an always-present text
// region whose content is rewritten per announcement. Consumers poll or
// watch the event bus for changes; there is no show/hide step, unlike the
// toast surface.
type LiveRegion struct {
	mu   sync.RWMutex
	text string
	seq  int
}

// NewLiveRegion creates an empty live region.
func NewLiveRegion() *LiveRegion {
	return &LiveRegion{}
}

// Announce rewrites the region text.
func (r *LiveRegion) Announce(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.text = text
	r.seq++
}

// Text returns the current region text.
func (r *LiveRegion) Text() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.text
}

// Seq returns the announcement counter. Repeated identical announcements
// still bump the counter, so watchers can detect the rewrite.
func (r *LiveRegion) Seq() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.seq
}
