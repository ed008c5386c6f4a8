package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"shire-of-paws/internal/domain/session"
)

type sessionsRepo struct {
	mu   sync.RWMutex
	byID map[string]session.Record
}

// NewSessionsRepo guarda sesiones en memoria (se pierden al reiniciar).
func NewSessionsRepo() session.Repository {
	return &sessionsRepo{
		byID: make(map[string]session.Record),
	}
}

func (r *sessionsRepo) Save(ctx context.Context, rec session.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(rec.ID) == "" {
		return errors.New("session id required")
	}
	r.byID[rec.ID] = rec
	return nil
}

func (r *sessionsRepo) Get(ctx context.Context, id string) (session.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.byID[id]
	if !ok {
		return session.Record{}, session.ErrNotFound
	}
	return rec, nil
}

func (r *sessionsRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return session.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *sessionsRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, rec := range r.byID {
		if !rec.ExpiresAt.IsZero() && !now.Before(rec.ExpiresAt) {
			delete(r.byID, id)
			n++
		}
	}
	return n, nil
}
