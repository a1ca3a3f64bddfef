package geocode

import (
	"sync"
	"sync/atomic"
)

// Readiness is a one-shot signal set once the gazetteer is fully loaded.
// It is never cleared.
type Readiness struct {
	once  sync.Once
	ready atomic.Bool
	done  chan struct{}
}

// NewReadiness returns an unset handle.
func NewReadiness() *Readiness {
	return &Readiness{done: make(chan struct{})}
}

// Ready reports whether the index can answer lookups. It never blocks.
func (r *Readiness) Ready() bool {
	return r != nil && r.ready.Load()
}

// Done is closed when the index becomes ready.
func (r *Readiness) Done() <-chan struct{} {
	return r.done
}

// Set marks the handle ready. Only the first call has an effect.
func (r *Readiness) Set() {
	r.once.Do(func() {
		r.ready.Store(true)
		close(r.done)
	})
}
