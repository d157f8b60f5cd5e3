// Package registry tracks which channels currently have an active archival
// job.
package registry

import "sync"

// Registry is a process-wide membership set enforcing at most one active job
// per channel. It holds only channel ids, never job state.
type Registry struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func New() *Registry {
	return &Registry{active: make(map[string]struct{})}
}

// TryAcquire registers channelID as active. It returns false without side
// effect when a job is already active for the channel.
func (r *Registry) TryAcquire(channelID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.active[channelID]; ok {
		return false
	}
	r.active[channelID] = struct{}{}
	return true
}

// Release removes channelID from the active set. It must be called exactly
// once per successful TryAcquire, on every exit path.
func (r *Registry) Release(channelID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.active, channelID)
}

// Active returns the channels with a job in flight.
func (r *Registry) Active() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.active))
	for id := range r.active {
		out = append(out, id)
	}
	return out
}
