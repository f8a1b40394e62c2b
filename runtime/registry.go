// Package runtime handles event propagation and live-query refresh.
// It orchestrates the system without containing business logic or
// domain rules.
package runtime

import (
	"sync"

	"chat-rooms/contract"
	"chat-rooms/domain/event"
)

// Registry holds the active live-query subscriptions: an explicit,
// inspectable subscription table scoped per listener lifetime.
type Registry struct {
	mu   sync.RWMutex
	subs map[string]contract.LiveQuery
}

func NewRegistry() *Registry {
	return &Registry{subs: make(map[string]contract.LiveQuery)}
}

func (r *Registry) Subscribe(q contract.LiveQuery) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs[q.ID] = q
}

func (r *Registry) Unsubscribe(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.subs, id)
}

// Affected returns the subscriptions whose result set could change under
// the given event. Predicates run inside the read lock; they must stay
// cheap (a point read at most).
func (r *Registry) Affected(e event.DomainEvent) []contract.LiveQuery {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var affected []contract.LiveQuery
	for _, q := range r.subs {
		if q.Affected == nil || q.Affected(e) {
			affected = append(affected, q)
		}
	}
	return affected
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs)
}
