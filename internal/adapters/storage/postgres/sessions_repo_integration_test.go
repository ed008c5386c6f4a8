//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"shire-of-paws/internal/domain/session"
)

func setupSessionsRepo(t *testing.T) *SessionsRepo {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("shire_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgContainer.Terminate(ctx) })

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := NewSessionsRepo(db)
	require.NoError(t, repo.EnsureSchema(ctx))
	// idempotente
	require.NoError(t, repo.EnsureSchema(ctx))
	return repo
}

func TestSessionsRepo_RoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	repo := setupSessionsRepo(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	rec := session.Record{
		ID:        "s-1",
		Token:     "tok",
		Email:     "admin@shelter.org",
		Subject:   "42",
		Role:      "ADMIN",
		ExpiresAt: now.Add(time.Hour),
		CreatedAt: now,
	}
	require.NoError(t, repo.Save(ctx, rec))

	got, err := repo.Get(ctx, "s-1")
	require.NoError(t, err)
	require.Equal(t, rec.Token, got.Token)
	require.Equal(t, rec.Email, got.Email)
	require.True(t, rec.ExpiresAt.Equal(got.ExpiresAt))

	rec.Token = "tok-2"
	require.NoError(t, repo.Save(ctx, rec))
	got, err = repo.Get(ctx, "s-1")
	require.NoError(t, err)
	require.Equal(t, "tok-2", got.Token)

	require.NoError(t, repo.Delete(ctx, "s-1"))
	require.ErrorIs(t, repo.Delete(ctx, "s-1"), session.ErrNotFound)
	_, err = repo.Get(ctx, "s-1")
	require.ErrorIs(t, err, session.ErrNotFound)
}

func TestSessionsRepo_DeleteExpired(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	repo := setupSessionsRepo(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.Save(ctx, session.Record{ID: "old", Token: "t", ExpiresAt: now.Add(-time.Minute), CreatedAt: now}))
	require.NoError(t, repo.Save(ctx, session.Record{ID: "new", Token: "t", ExpiresAt: now.Add(time.Hour), CreatedAt: now}))

	n, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	_, err = repo.Get(ctx, "new")
	require.NoError(t, err)
}
