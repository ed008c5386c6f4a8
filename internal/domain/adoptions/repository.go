package adoptions

import (
	"context"

	"shire-of-paws/internal/domain/listing"
	"shire-of-paws/internal/ports/auth"
)

// Repository es el acceso a /api/adoption-requests del backend.
// No hay update de contenido ni delete: solo cambio de estado.
type Repository interface {
	List(ctx context.Context, b auth.Bearer, p ListParams) (listing.Page[AdoptionRequest], error)
	Filter(ctx context.Context, b auth.Bearer, p ListParams) (listing.Page[AdoptionRequest], error)
	Get(ctx context.Context, b auth.Bearer, id string) (AdoptionRequest, error)
	ByDog(ctx context.Context, b auth.Bearer, dogID string, page, size int) (listing.Page[AdoptionRequest], error)
	Create(ctx context.Context, in Payload) (AdoptionRequest, error)
	UpdateStatus(ctx context.Context, b auth.Bearer, id string, s Status) (AdoptionRequest, error)
	CountByStatus(ctx context.Context, b auth.Bearer, s Status) (int64, error)
}

func Fetcher(repo Repository, b auth.Bearer) listing.FetchFunc[AdoptionRequest, ListParams] {
	return func(ctx context.Context, p ListParams) (listing.Page[AdoptionRequest], error) {
		p = p.Normalize()
		if p.Filtered() {
			return repo.Filter(ctx, b, p)
		}
		return repo.List(ctx, b, p)
	}
}
