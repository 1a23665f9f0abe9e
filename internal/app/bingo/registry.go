package bingo

import (
	"sync"

	"github.com/google/uuid"
)

// Registry is a concurrency-safe set of participants keyed by their identifier.
// Callers never need external locking.
type Registry[T Participant] struct {
	// mu protects users.
	mu sync.RWMutex

	// users maps a participant identifier to its latest value.
	users map[uuid.UUID]T
}

// NewRegistry returns an empty Registry.
func NewRegistry[T Participant]() *Registry[T] {
	return &Registry[T]{
		users: make(map[uuid.UUID]T),
	}
}

// Put stores u, replacing any participant with the same identifier.
func (r *Registry[T]) Put(u T) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.users[u.UserID()] = u
}

// Get returns the participant stored under id.
func (r *Registry[T]) Get(id uuid.UUID) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	return u, ok
}

// Delete removes the participant stored under id and returns it.
func (r *Registry[T]) Delete(id uuid.UUID) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if ok {
		delete(r.users, id)
	}
	return u, ok
}

// Update applies fn to the participant stored under id and stores the result, atomically.
// It reports false, without calling fn, when id is unknown.
// fn must not change the identifier.
func (r *Registry[T]) Update(id uuid.UUID, fn func(T) T) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		var zero T
		return zero, false
	}

	u = fn(u)
	r.users[id] = u
	return u, true
}

// Len returns the number of stored participants.
func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.users)
}

// Values returns a snapshot of all participants in unspecified order.
func (r *Registry[T]) Values() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()

	values := make([]T, 0, len(r.users))
	for _, u := range r.users {
		values = append(values, u)
	}
	return values
}
