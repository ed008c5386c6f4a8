package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"shire-of-paws/internal/domain/session"
)

var sessionsSchema = []string{`
	CREATE TABLE IF NOT EXISTS admin_sessions (
		id          TEXT PRIMARY KEY,
		token       TEXT NOT NULL,
		email       TEXT NOT NULL DEFAULT '',
		subject     TEXT NOT NULL DEFAULT '',
		role        TEXT NOT NULL DEFAULT '',
		expires_at  TIMESTAMPTZ NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS admin_sessions_expires_at_idx ON admin_sessions (expires_at)`,
}

type SessionsRepo struct {
	db *sql.DB
}

func NewSessionsRepo(db *sql.DB) *SessionsRepo {
	return &SessionsRepo{db: db}
}

// EnsureSchema crea la tabla si no existe.
func (r *SessionsRepo) EnsureSchema(ctx context.Context) error {
	for _, stmt := range sessionsSchema {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Save hace upsert: un login nuevo con el mismo id reemplaza al anterior.
func (r *SessionsRepo) Save(ctx context.Context, rec session.Record) error {
	if strings.TrimSpace(rec.ID) == "" {
		return errors.New("session id required")
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO admin_sessions (
			id, token, email, subject, role,
			expires_at, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (id) DO UPDATE SET
			token = EXCLUDED.token,
			email = EXCLUDED.email,
			subject = EXCLUDED.subject,
			role = EXCLUDED.role,
			expires_at = EXCLUDED.expires_at
	`,
		rec.ID,
		rec.Token,
		rec.Email,
		rec.Subject,
		rec.Role,
		rec.ExpiresAt.UTC(),
		rec.CreatedAt.UTC(),
	)
	return err
}

func (r *SessionsRepo) Get(ctx context.Context, id string) (session.Record, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return session.Record{}, session.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, token, email, subject, role,
			expires_at, created_at
		FROM admin_sessions
		WHERE id = $1
	`, id)

	var rec session.Record
	if err := row.Scan(
		&rec.ID,
		&rec.Token,
		&rec.Email,
		&rec.Subject,
		&rec.Role,
		&rec.ExpiresAt,
		&rec.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return session.Record{}, session.ErrNotFound
		}
		return session.Record{}, err
	}
	return rec, nil
}

func (r *SessionsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM admin_sessions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return session.ErrNotFound
	}
	return nil
}

func (r *SessionsRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM admin_sessions WHERE expires_at <= $1`, now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
