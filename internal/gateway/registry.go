package gateway

import "sync"

// Registry is the shared table of live bridges, keyed by connection id. It
// is injected wherever fan-out or counting is needed; nothing else holds
// cross-connection state.
type Registry struct {
	mu      sync.RWMutex
	bridges map[string]*Bridge
}

func NewRegistry() *Registry {
	return &Registry{
		bridges: make(map[string]*Bridge),
	}
}

func (r *Registry) Register(id string, b *Bridge) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bridges[id] = b
}

func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bridges, id)
}

func (r *Registry) Get(id string) (*Bridge, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bridges[id]
	return b, ok
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bridges)
}

// ForEach calls fn for every bridge in a point-in-time snapshot. The lock is
// released before fn runs, so a bridge may already be closing when fn sees
// it; callers treat failed deliveries as skips.
func (r *Registry) ForEach(fn func(id string, b *Bridge)) {
	r.mu.RLock()
	snapshot := make(map[string]*Bridge, len(r.bridges))
	for id, b := range r.bridges {
		snapshot[id] = b
	}
	r.mu.RUnlock()

	for id, b := range snapshot {
		fn(id, b)
	}
}
