package runtime

import (
	"sort"
	"sync"

	"dm-relay/contract"
)

// Registry is the authoritative in-memory mapping from identity to its single
// active connection. Last connect wins: a later registration for the same
// identity supersedes the earlier one without closing it.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]contract.Sink // identity -> live connection
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]contract.Sink),
	}
}

// Register inserts or overwrites the entry for identity. Always succeeds;
// subsequent lookups return this sink until superseded or removed.
func (r *Registry) Register(identity string, sink contract.Sink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[identity] = sink
}

// Unregister removes the entry only if the stored handle still matches
// (compare-and-remove). A stale disconnect of a superseded connection must
// not evict the newer one. Returns whether the entry was removed.
func (r *Registry) Unregister(identity, handleID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.sessions[identity]
	if !ok || current.ID() != handleID {
		return false
	}
	delete(r.sessions, identity)
	return true
}

// Lookup returns the current connection for identity, if any.
func (r *Registry) Lookup(identity string) (contract.Sink, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sink, ok := r.sessions[identity]
	return sink, ok
}

// Snapshot returns the sorted set of currently registered identities.
// The read lock gives a consistent point-in-time view under concurrent
// register/unregister; it never contains a handle-less identity.
func (r *Registry) Snapshot() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	identities := make([]string, 0, len(r.sessions))
	for identity := range r.sessions {
		identities = append(identities, identity)
	}
	sort.Strings(identities)
	return identities
}

// Sinks returns every registered connection, used for presence broadcasts.
func (r *Registry) Sinks() []contract.Sink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sinks := make([]contract.Sink, 0, len(r.sessions))
	for _, sink := range r.sessions {
		sinks = append(sinks, sink)
	}
	return sinks
}
