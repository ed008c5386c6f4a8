package shelterapi

import (
	"context"
	"net/http"
	"net/url"

	"shire-of-paws/internal/domain/adoptions"
	"shire-of-paws/internal/domain/listing"
	"shire-of-paws/internal/ports/auth"
)

const requestsPath = "/api/adoption-requests"

// Requests implementa adoptions.Repository.
type Requests struct{ c *Client }

func (c *Client) Requests() *Requests { return &Requests{c: c} }

var _ adoptions.Repository = (*Requests)(nil)

func (r *Requests) List(ctx context.Context, b auth.Bearer, p adoptions.ListParams) (listing.Page[adoptions.AdoptionRequest], error) {
	q := url.Values{}
	setInt(q, "page", p.Page)
	setInt(q, "size", p.Size)
	setIf(q, "sortBy", p.SortBy)
	setIf(q, "sortDir", p.SortDir)

	var out listing.Page[adoptions.AdoptionRequest]
	err := r.c.call(ctx, b, "requests.list", http.MethodGet, withQuery(requestsPath, q), nil, &out)
	return out, err
}

func (r *Requests) Filter(ctx context.Context, b auth.Bearer, p adoptions.ListParams) (listing.Page[adoptions.AdoptionRequest], error) {
	q := url.Values{}
	setInt(q, "page", p.Page)
	setInt(q, "size", p.Size)
	setIf(q, "status", string(p.Status))
	setIf(q, "dogId", p.DogID)
	setIf(q, "requesterName", p.RequesterName)

	var out listing.Page[adoptions.AdoptionRequest]
	err := r.c.call(ctx, b, "requests.filter", http.MethodGet, withQuery(requestsPath+"/filter", q), nil, &out)
	return out, err
}

func (r *Requests) Get(ctx context.Context, b auth.Bearer, id string) (adoptions.AdoptionRequest, error) {
	var out adoptions.AdoptionRequest
	err := r.c.call(ctx, b, "requests.get", http.MethodGet, requestsPath+"/"+url.PathEscape(id), nil, &out)
	return out, notFound(err, adoptions.ErrNotFound)
}

func (r *Requests) ByDog(ctx context.Context, b auth.Bearer, dogID string, page, size int) (listing.Page[adoptions.AdoptionRequest], error) {
	q := url.Values{}
	setInt(q, "page", page)
	setInt(q, "size", size)

	var out listing.Page[adoptions.AdoptionRequest]
	err := r.c.call(ctx, b, "requests.by_dog", http.MethodGet, withQuery(requestsPath+"/dog/"+url.PathEscape(dogID), q), nil, &out)
	return out, notFound(err, adoptions.ErrNotFound)
}

// Create es el envío público: sin token.
func (r *Requests) Create(ctx context.Context, in adoptions.Payload) (adoptions.AdoptionRequest, error) {
	var out adoptions.AdoptionRequest
	err := r.c.call(ctx, nil, "requests.create", http.MethodPost, requestsPath, in, &out)
	return out, err
}

func (r *Requests) UpdateStatus(ctx context.Context, b auth.Bearer, id string, s adoptions.Status) (adoptions.AdoptionRequest, error) {
	body := map[string]adoptions.Status{"status": s}
	var out adoptions.AdoptionRequest
	err := r.c.call(ctx, b, "requests.update_status", http.MethodPut, requestsPath+"/"+url.PathEscape(id)+"/status", body, &out)
	return out, notFound(err, adoptions.ErrNotFound)
}

func (r *Requests) CountByStatus(ctx context.Context, b auth.Bearer, s adoptions.Status) (int64, error) {
	q := url.Values{"status": {string(s)}}
	var n int64
	err := r.c.call(ctx, b, "requests.count_by_status", http.MethodGet, withQuery(requestsPath+"/stats/count-by-status", q), nil, &n)
	return n, err
}
