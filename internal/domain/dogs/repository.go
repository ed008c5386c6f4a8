package dogs

import (
	"context"
	"io"

	"shire-of-paws/internal/domain/listing"
	"shire-of-paws/internal/ports/auth"
)

// Repository es el acceso a /api/dogs del backend.
// List y Filter son endpoints distintos; elegir cuál usar es del dominio.
type Repository interface {
	List(ctx context.Context, b auth.Bearer, p ListParams) (listing.Page[Dog], error)
	Filter(ctx context.Context, b auth.Bearer, p ListParams) (listing.Page[Dog], error)
	Get(ctx context.Context, b auth.Bearer, id string) (Dog, error)
	Create(ctx context.Context, b auth.Bearer, in Payload) (Dog, error)
	Update(ctx context.Context, b auth.Bearer, id string, in Payload) (Dog, error)
	Delete(ctx context.Context, b auth.Bearer, id string) error
	Stats(ctx context.Context) (Stats, error)
	CountByStatus(ctx context.Context, b auth.Bearer, s Status) (int64, error)
}

// FileStore es el acceso a /api/files del backend.
type FileStore interface {
	Upload(ctx context.Context, b auth.Bearer, f Upload) (StoredFile, error)
	DeleteFile(ctx context.Context, b auth.Bearer, name string) error
	// Open devuelve el contenido y su content-type; el caller cierra.
	Open(ctx context.Context, name string) (io.ReadCloser, string, error)
}

// Fetcher adapta el Repository a un listing.FetchFunc para la sesión b.
func Fetcher(repo Repository, b auth.Bearer) listing.FetchFunc[Dog, ListParams] {
	return func(ctx context.Context, p ListParams) (listing.Page[Dog], error) {
		p = p.Normalize()
		if p.Filtered() {
			return repo.Filter(ctx, b, p)
		}
		return repo.List(ctx, b, p)
	}
}
