// Package registry guarda instancias vivas (formularios, confirmaciones)
// indexadas por uuid, con expiración por inactividad.
package registry

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("not found")

type entry[T any] struct {
	value    T
	owner    string
	lastSeen time.Time
}

type Registry[T any] struct {
	mu    sync.Mutex
	items map[string]*entry[T]
	ttl   time.Duration
	now   func() time.Time
}

// New: ttl <= 0 => sin expiración.
func New[T any](ttl time.Duration) *Registry[T] {
	return &Registry[T]{
		items: make(map[string]*entry[T]),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Put guarda v para owner (session id o "" si es público) y devuelve su id.
func (r *Registry[T]) Put(owner string, v T) string {
	id := uuid.NewString()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sweepLocked()
	r.items[id] = &entry[T]{value: v, owner: owner, lastSeen: r.now()}
	return id
}

// Get devuelve la instancia y refresca su expiración.
// Un owner distinto se trata igual que un id inexistente.
func (r *Registry[T]) Get(owner, id string) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var zero T
	e, ok := r.items[id]
	if !ok || e.owner != owner {
		return zero, ErrNotFound
	}
	if r.expiredLocked(e) {
		delete(r.items, id)
		return zero, ErrNotFound
	}
	e.lastSeen = r.now()
	return e.value, nil
}

func (r *Registry[T]) Delete(owner, id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.items[id]
	if !ok || e.owner != owner {
		return false
	}
	delete(r.items, id)
	return true
}

// DropOwner borra todo lo de un owner (logout).
func (r *Registry[T]) DropOwner(owner string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, e := range r.items {
		if e.owner == owner {
			delete(r.items, id)
			n++
		}
	}
	return n
}

func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked()
	return len(r.items)
}

func (r *Registry[T]) expiredLocked(e *entry[T]) bool {
	return r.ttl > 0 && r.now().Sub(e.lastSeen) > r.ttl
}

func (r *Registry[T]) sweepLocked() {
	if r.ttl <= 0 {
		return
	}
	for id, e := range r.items {
		if r.expiredLocked(e) {
			delete(r.items, id)
		}
	}
}
