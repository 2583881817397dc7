package validation

import (
	"sync"

	"github.com/goliatone/go-autovalidate/pkg/host"
)

// renderTracker serialises adapter calls per element. Each render reserves a
// sequence number; an asynchronous render is applied only if nothing newer
// was reserved for the same element in the meantime.
type renderTracker struct {
	mu  sync.Mutex
	seq map[host.Element]uint64
}

func newRenderTracker() *renderTracker {
	return &renderTracker{seq: make(map[host.Element]uint64)}
}

func (t *renderTracker) reserve(el host.Element) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq[el]++
	return t.seq[el]
}

// apply runs render when token is still the latest reservation for el.
func (t *renderTracker) apply(el host.Element, token uint64, render func()) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.seq[el] != token {
		return false
	}
	render()
	return true
}

// now reserves and applies in one step.
func (t *renderTracker) now(el host.Element, render func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq[el]++
	render()
}
