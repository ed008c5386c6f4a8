package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"shire-of-paws/internal/domain/adoptions"
	"shire-of-paws/internal/domain/dogs"
	"shire-of-paws/internal/domain/listing"
	"shire-of-paws/internal/ports/auth"
)

var errBackend = errors.New("backend down")

type owner struct{ id string }

func (o owner) ID() string    { return o.id }
func (o owner) Token() string { return "tok-" + o.id }
func (o owner) Revoke()       {}

// shelter simula /api/dogs y /api/adoption-requests y registra las llamadas.
type shelter struct {
	mu       sync.Mutex
	dogs     []dogs.Dog
	requests []adoptions.AdoptionRequest
	calls    []string

	updateErr error
	deleteErr error
}

func newShelter() *shelter {
	return &shelter{
		dogs: []dogs.Dog{
			{ID: "d1", Name: "Rex", Status: dogs.StatusAvailable},
			{ID: "d2", Name: "Luna", Status: dogs.StatusInProcess},
		},
		requests: []adoptions.AdoptionRequest{
			{ID: "r1", RequesterFirstName: "Ana", RequesterLastName: "Lopez", DogID: "d2", Status: adoptions.StatusInProcess},
			{ID: "r2", RequesterFirstName: "Bo", RequesterLastName: "Kim", DogID: "d1", Status: adoptions.StatusDenied},
		},
	}
}

func (s *shelter) record(c string) {
	s.mu.Lock()
	s.calls = append(s.calls, c)
	s.mu.Unlock()
}

func (s *shelter) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *shelter) count(c string) int {
	n := 0
	for _, x := range s.Calls() {
		if x == c {
			n++
		}
	}
	return n
}

// ---- dogs.Repository ----

func (s *shelter) List(_ context.Context, _ auth.Bearer, p dogs.ListParams) (listing.Page[dogs.Dog], error) {
	s.record("dogs:list")
	s.mu.Lock()
	defer s.mu.Unlock()
	return listing.Page[dogs.Dog]{Content: append([]dogs.Dog(nil), s.dogs...), TotalPages: 1, TotalElements: int64(len(s.dogs)), Size: p.Size}, nil
}

func (s *shelter) Filter(ctx context.Context, b auth.Bearer, p dogs.ListParams) (listing.Page[dogs.Dog], error) {
	s.record("dogs:filter")
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []dogs.Dog
	for _, d := range s.dogs {
		if p.Status == "" || d.Status == p.Status {
			out = append(out, d)
		}
	}
	return listing.Page[dogs.Dog]{Content: out, TotalPages: 1, TotalElements: int64(len(out)), Size: p.Size}, nil
}

func (s *shelter) Get(_ context.Context, _ auth.Bearer, id string) (dogs.Dog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.dogs {
		if d.ID == id {
			return d, nil
		}
	}
	return dogs.Dog{}, dogs.ErrNotFound
}

func (s *shelter) Create(context.Context, auth.Bearer, dogs.Payload) (dogs.Dog, error) {
	return dogs.Dog{}, errors.New("not used")
}

func (s *shelter) Update(context.Context, auth.Bearer, string, dogs.Payload) (dogs.Dog, error) {
	return dogs.Dog{}, errors.New("not used")
}

func (s *shelter) Delete(_ context.Context, _ auth.Bearer, id string) error {
	s.record("dogs:delete:" + id)
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, d := range s.dogs {
		if d.ID == id {
			s.dogs = append(s.dogs[:i], s.dogs[i+1:]...)
			return nil
		}
	}
	return dogs.ErrNotFound
}

func (s *shelter) Stats(context.Context) (dogs.Stats, error) { return dogs.Stats{}, nil }

func (s *shelter) dogsCount(st dogs.Status) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, d := range s.dogs {
		if d.Status == st {
			n++
		}
	}
	return n
}

// ---- adoptions.Repository (los métodos con nombre repetido van en requestsRepo) ----

type requestsRepo struct{ *shelter }

func (r requestsRepo) List(_ context.Context, _ auth.Bearer, p adoptions.ListParams) (listing.Page[adoptions.AdoptionRequest], error) {
	r.record("requests:list")
	return r.page(p), nil
}

func (r requestsRepo) Filter(_ context.Context, _ auth.Bearer, p adoptions.ListParams) (listing.Page[adoptions.AdoptionRequest], error) {
	r.record("requests:filter")
	return r.page(p), nil
}

func (r requestsRepo) page(p adoptions.ListParams) listing.Page[adoptions.AdoptionRequest] {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []adoptions.AdoptionRequest
	for _, it := range r.requests {
		if p.Status == "" || it.Status == p.Status {
			out = append(out, it)
		}
	}
	return listing.Page[adoptions.AdoptionRequest]{Content: out, TotalPages: 1, TotalElements: int64(len(out)), Size: p.Size}
}

func (r requestsRepo) Get(_ context.Context, _ auth.Bearer, id string) (adoptions.AdoptionRequest, error) {
	r.record("requests:get:" + id)
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range r.requests {
		if it.ID == id {
			return it, nil
		}
	}
	return adoptions.AdoptionRequest{}, adoptions.ErrNotFound
}

func (r requestsRepo) ByDog(context.Context, auth.Bearer, string, int, int) (listing.Page[adoptions.AdoptionRequest], error) {
	return listing.Page[adoptions.AdoptionRequest]{}, nil
}

func (r requestsRepo) Create(context.Context, adoptions.Payload) (adoptions.AdoptionRequest, error) {
	return adoptions.AdoptionRequest{}, errors.New("not used")
}

func (r requestsRepo) UpdateStatus(_ context.Context, _ auth.Bearer, id string, st adoptions.Status) (adoptions.AdoptionRequest, error) {
	r.record(fmt.Sprintf("requests:status:%s:%s", id, st))
	if r.updateErr != nil {
		return adoptions.AdoptionRequest{}, r.updateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, it := range r.requests {
		if it.ID == id {
			r.requests[i].Status = st
			return r.requests[i], nil
		}
	}
	return adoptions.AdoptionRequest{}, adoptions.ErrNotFound
}

func (r requestsRepo) CountByStatus(_ context.Context, _ auth.Bearer, st adoptions.Status) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, it := range r.requests {
		if it.Status == st {
			n++
		}
	}
	return n, nil
}

// dogsRepo resuelve el CountByStatus de dogs.Repository.
type dogsRepo struct{ *shelter }

func (d dogsRepo) CountByStatus(_ context.Context, _ auth.Bearer, st dogs.Status) (int64, error) {
	return d.dogsCount(st), nil
}

type recorder struct {
	mu  sync.Mutex
	got []string
}

func (r *recorder) Confirmation(action, outcome string) {
	r.mu.Lock()
	r.got = append(r.got, action+":"+outcome)
	r.mu.Unlock()
}

func (r *recorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.got...)
}

func newTestService(sh *shelter) (*Service, *recorder) {
	rec := &recorder{}
	dogSvc := dogs.NewService(dogsRepo{sh}, nil, dogs.Options{})
	reqSvc := adoptions.NewService(requestsRepo{sh}, nil, adoptions.Options{})
	return NewService(dogSvc, reqSvc, rec), rec
}
