package session

import (
	"context"
	"time"
)

// Repository persiste sesiones para sobrevivir reinicios del BFF.
type Repository interface {
	Save(ctx context.Context, r Record) error
	Get(ctx context.Context, id string) (Record, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
