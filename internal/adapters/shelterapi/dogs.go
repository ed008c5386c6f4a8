package shelterapi

import (
	"context"
	"net/http"
	"net/url"

	"shire-of-paws/internal/domain/dogs"
	"shire-of-paws/internal/domain/listing"
	"shire-of-paws/internal/ports/auth"
)

const dogsPath = "/api/dogs"

// Dogs implementa dogs.Repository.
type Dogs struct{ c *Client }

func (c *Client) Dogs() *Dogs { return &Dogs{c: c} }

var _ dogs.Repository = (*Dogs)(nil)

func (r *Dogs) List(ctx context.Context, b auth.Bearer, p dogs.ListParams) (listing.Page[dogs.Dog], error) {
	q := url.Values{}
	setInt(q, "page", p.Page)
	setInt(q, "size", p.Size)
	setIf(q, "sortBy", p.SortBy)
	setIf(q, "sortDir", p.SortDir)

	var out listing.Page[dogs.Dog]
	err := r.c.call(ctx, b, "dogs.list", http.MethodGet, withQuery(dogsPath, q), nil, &out)
	return out, err
}

// Filter usa pageSize en lugar de size, como el backend.
func (r *Dogs) Filter(ctx context.Context, b auth.Bearer, p dogs.ListParams) (listing.Page[dogs.Dog], error) {
	q := url.Values{}
	setInt(q, "page", p.Page)
	setInt(q, "pageSize", p.Size)
	setIf(q, "status", string(p.Status))
	setIf(q, "name", p.Name)
	setIf(q, "gender", string(p.Gender))
	setIf(q, "size", string(p.DogSize))

	var out listing.Page[dogs.Dog]
	err := r.c.call(ctx, b, "dogs.filter", http.MethodGet, withQuery(dogsPath+"/filter", q), nil, &out)
	return out, err
}

func (r *Dogs) Get(ctx context.Context, b auth.Bearer, id string) (dogs.Dog, error) {
	var out dogs.Dog
	err := r.c.call(ctx, b, "dogs.get", http.MethodGet, dogsPath+"/"+url.PathEscape(id), nil, &out)
	return out, notFound(err, dogs.ErrNotFound)
}

func (r *Dogs) Create(ctx context.Context, b auth.Bearer, in dogs.Payload) (dogs.Dog, error) {
	var out dogs.Dog
	err := r.c.call(ctx, b, "dogs.create", http.MethodPost, dogsPath, in, &out)
	return out, err
}

func (r *Dogs) Update(ctx context.Context, b auth.Bearer, id string, in dogs.Payload) (dogs.Dog, error) {
	var out dogs.Dog
	err := r.c.call(ctx, b, "dogs.update", http.MethodPut, dogsPath+"/"+url.PathEscape(id), in, &out)
	return out, notFound(err, dogs.ErrNotFound)
}

func (r *Dogs) Delete(ctx context.Context, b auth.Bearer, id string) error {
	err := r.c.call(ctx, b, "dogs.delete", http.MethodDelete, dogsPath+"/"+url.PathEscape(id), nil, nil)
	return notFound(err, dogs.ErrNotFound)
}

// Stats es público: va sin token.
func (r *Dogs) Stats(ctx context.Context) (dogs.Stats, error) {
	var out dogs.Stats
	err := r.c.call(ctx, nil, "dogs.stats", http.MethodGet, dogsPath+"/stats", nil, &out)
	return out, err
}

func (r *Dogs) CountByStatus(ctx context.Context, b auth.Bearer, s dogs.Status) (int64, error) {
	q := url.Values{"status": {string(s)}}
	var n int64
	err := r.c.call(ctx, b, "dogs.count_by_status", http.MethodGet, withQuery(dogsPath+"/stats/count-by-status", q), nil, &n)
	return n, err
}
