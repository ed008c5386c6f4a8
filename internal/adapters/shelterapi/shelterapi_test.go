package shelterapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"shire-of-paws/internal/domain/adoptions"
	"shire-of-paws/internal/domain/dogs"
	"shire-of-paws/internal/platform/httpclient"
)

type bearer struct {
	token   string
	revoked atomic.Bool
}

func (b *bearer) Token() string { return b.token }
func (b *bearer) Revoke()       { b.revoked.Store(true) }

func newBackend(t *testing.T, routes func(r chi.Router)) *Client {
	t.Helper()
	r := chi.NewRouter()
	routes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	hc, err := httpclient.NewWithBaseURL(srv.URL, time.Second)
	require.NoError(t, err)
	return New(hc)
}

func reply(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestDogs_ListAndFilterUseDistinctEndpoints(t *testing.T) {
	var listQuery, filterQuery, auth string
	c := newBackend(t, func(r chi.Router) {
		r.Get("/api/dogs", func(w http.ResponseWriter, r *http.Request) {
			listQuery = r.URL.RawQuery
			auth = r.Header.Get("Authorization")
			reply(w, 200, map[string]any{"content": []map[string]any{{"id": "d1", "name": "Rex"}}, "totalPages": 1, "totalElements": 1})
		})
		r.Get("/api/dogs/filter", func(w http.ResponseWriter, r *http.Request) {
			filterQuery = r.URL.RawQuery
			reply(w, 200, map[string]any{"content": []any{}, "totalPages": 0, "totalElements": 0})
		})
	})
	b := &bearer{token: "tok"}
	ctx := context.Background()

	p, err := c.Dogs().List(ctx, b, dogs.ListParams{}.Normalize())
	require.NoError(t, err)
	require.Len(t, p.Content, 1)
	require.Equal(t, "Rex", p.Content[0].Name)
	require.Equal(t, "Bearer tok", auth)
	require.Equal(t, "page=0&size=12&sortBy=createdAt&sortDir=DESC", listQuery)

	_, err = c.Dogs().Filter(ctx, b, dogs.ListParams{Status: dogs.StatusAvailable, DogSize: dogs.SizeSmall}.Normalize())
	require.NoError(t, err)
	require.Equal(t, "page=0&pageSize=12&size=SMALL&status=AVAILABLE", filterQuery)
}

func TestDogs_NotFoundAndUnauthorized(t *testing.T) {
	c := newBackend(t, func(r chi.Router) {
		r.Get("/api/dogs/{id}", func(w http.ResponseWriter, r *http.Request) {
			if chi.URLParam(r, "id") == "gone" {
				reply(w, 404, map[string]string{"message": "Dog not found"})
				return
			}
			reply(w, 401, map[string]string{"message": "expired"})
		})
	})
	ctx := context.Background()

	b := &bearer{token: "tok"}
	_, err := c.Dogs().Get(ctx, b, "gone")
	require.ErrorIs(t, err, dogs.ErrNotFound)
	require.Equal(t, "Dog not found", httpclient.MessageOf(err, ""))
	require.False(t, b.revoked.Load())

	_, err = c.Dogs().Get(ctx, b, "d1")
	require.True(t, httpclient.IsUnauthorized(err))
	require.True(t, b.revoked.Load())
}

func TestDogs_CountByStatusDecodesBareNumber(t *testing.T) {
	c := newBackend(t, func(r chi.Router) {
		r.Get("/api/dogs/stats/count-by-status", func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "ADOPTED", r.URL.Query().Get("status"))
			_, _ = w.Write([]byte("7"))
		})
		r.Get("/api/dogs/stats", func(w http.ResponseWriter, r *http.Request) {
			require.Empty(t, r.Header.Get("Authorization"))
			reply(w, 200, dogs.Stats{Rescued: 10, Adopted: 4, Available: 6})
		})
	})
	ctx := context.Background()

	n, err := c.Dogs().CountByStatus(ctx, &bearer{token: "tok"}, dogs.StatusAdopted)
	require.NoError(t, err)
	require.Equal(t, int64(7), n)

	st, err := c.Dogs().Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(6), st.Available)
}

func TestFiles_UploadDeleteOpen(t *testing.T) {
	var deleted string
	c := newBackend(t, func(r chi.Router) {
		r.Post("/api/files/upload", func(w http.ResponseWriter, r *http.Request) {
			f, h, err := r.FormFile("file")
			require.NoError(t, err)
			defer f.Close()
			raw, _ := io.ReadAll(f)
			require.Equal(t, "image/png", h.Header.Get("Content-Type"))
			reply(w, 200, dogs.StoredFile{FileName: "x-" + h.Filename, Size: int64(len(raw))})
		})
		r.Delete("/api/files/{name}", func(w http.ResponseWriter, r *http.Request) {
			deleted = chi.URLParam(r, "name")
			w.WriteHeader(http.StatusNoContent)
		})
		r.Get("/api/files/download/{name}", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write([]byte("png-bytes"))
		})
	})
	ctx := context.Background()
	b := &bearer{token: "tok"}

	sf, err := c.Files().Upload(ctx, b, dogs.Upload{FileName: "rex.png", ContentType: "image/png", Content: []byte("abc")})
	require.NoError(t, err)
	require.Equal(t, "x-rex.png", sf.FileName)
	require.Equal(t, int64(3), sf.Size)

	require.NoError(t, c.Files().DeleteFile(ctx, b, sf.FileName))
	require.Equal(t, "x-rex.png", deleted)

	rc, ct, err := c.Files().Open(ctx, "x-rex.png")
	require.NoError(t, err)
	defer rc.Close()
	raw, _ := io.ReadAll(rc)
	require.Equal(t, "image/png", ct)
	require.Equal(t, "png-bytes", string(raw))
}

func TestRequests_StatusByDogAndCreate(t *testing.T) {
	var statusBody map[string]string
	var createAuth string
	c := newBackend(t, func(r chi.Router) {
		r.Put("/api/adoption-requests/{id}/status", func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&statusBody))
			reply(w, 200, map[string]any{"id": chi.URLParam(r, "id"), "status": statusBody["status"]})
		})
		r.Get("/api/adoption-requests/dog/{dogID}", func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "page=1&size=15", r.URL.RawQuery)
			reply(w, 200, map[string]any{"content": []map[string]any{{"id": "r1", "dogId": chi.URLParam(r, "dogID")}}})
		})
		r.Post("/api/adoption-requests", func(w http.ResponseWriter, r *http.Request) {
			createAuth = r.Header.Get("Authorization")
			reply(w, 201, map[string]any{"id": "r9", "status": "IN_PROCESS"})
		})
	})
	ctx := context.Background()
	b := &bearer{token: "tok"}

	got, err := c.Requests().UpdateStatus(ctx, b, "r1", adoptions.StatusApproved)
	require.NoError(t, err)
	require.Equal(t, "APPROVED", statusBody["status"])
	require.Equal(t, adoptions.StatusApproved, got.Status)

	p, err := c.Requests().ByDog(ctx, b, "d7", 1, adoptions.DefaultPageSize)
	require.NoError(t, err)
	require.Equal(t, "d7", p.Content[0].DogID)

	created, err := c.Requests().Create(ctx, adoptions.Payload{DogID: "d7"})
	require.NoError(t, err)
	require.Equal(t, "r9", created.ID)
	require.Empty(t, createAuth)
}

func TestRequests_FilterQuery(t *testing.T) {
	var q string
	c := newBackend(t, func(r chi.Router) {
		r.Get("/api/adoption-requests/filter", func(w http.ResponseWriter, r *http.Request) {
			q = r.URL.RawQuery
			reply(w, 200, map[string]any{"content": []any{}})
		})
	})
	p := adoptions.ListParams{Status: adoptions.StatusDenied, RequesterName: "Ana"}.Normalize()

	_, err := c.Requests().Filter(context.Background(), &bearer{token: "tok"}, p)
	require.NoError(t, err)
	require.Equal(t, "page=0&requesterName=Ana&size=15&status=DENIED", q)
}
