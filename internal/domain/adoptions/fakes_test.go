package adoptions

import (
	"context"
	"fmt"
	"sync"

	"shire-of-paws/internal/domain/dogs"
	"shire-of-paws/internal/domain/listing"
	"shire-of-paws/internal/ports/auth"
)

type fakeRepo struct {
	mu      sync.Mutex
	reqs    map[string]AdoptionRequest
	calls   []string
	next    int
	err     error
	block   chan struct{}
}

func newFakeRepo() *fakeRepo { return &fakeRepo{reqs: map[string]AdoptionRequest{}} }

func (f *fakeRepo) record(c string) {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()
}

func (f *fakeRepo) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeRepo) List(_ context.Context, _ auth.Bearer, p ListParams) (listing.Page[AdoptionRequest], error) {
	f.record("list")
	return f.page(p, ""), nil
}

func (f *fakeRepo) Filter(_ context.Context, _ auth.Bearer, p ListParams) (listing.Page[AdoptionRequest], error) {
	f.record("filter")
	return f.page(p, ""), nil
}

func (f *fakeRepo) ByDog(_ context.Context, _ auth.Bearer, dogID string, page, size int) (listing.Page[AdoptionRequest], error) {
	f.record("by-dog:" + dogID)
	return f.page(ListParams{Page: page, Size: size}, dogID), nil
}

func (f *fakeRepo) page(p ListParams, dogID string) listing.Page[AdoptionRequest] {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := listing.Page[AdoptionRequest]{Number: p.Page, Size: p.Size, TotalPages: 1}
	for _, r := range f.reqs {
		if p.Status != "" && r.Status != p.Status {
			continue
		}
		if dogID != "" && r.DogID != dogID {
			continue
		}
		out.Content = append(out.Content, r)
	}
	out.TotalElements = int64(len(out.Content))
	return out
}

func (f *fakeRepo) Get(_ context.Context, _ auth.Bearer, id string) (AdoptionRequest, error) {
	f.record("get:" + id)
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reqs[id]
	if !ok {
		return AdoptionRequest{}, ErrNotFound
	}
	return r, nil
}

func (f *fakeRepo) Create(_ context.Context, in Payload) (AdoptionRequest, error) {
	f.record("create")
	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return AdoptionRequest{}, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	r := AdoptionRequest{
		ID:                 fmt.Sprintf("req-%d", f.next),
		RequesterFirstName: in.RequesterFirstName,
		RequesterLastName:  in.RequesterLastName,
		RequesterEmail:     in.RequesterEmail,
		HousingType:        in.HousingType,
		HouseholdSize:      in.HouseholdSize,
		Motivation:         in.Motivation,
		DaytimeLocation:    in.DaytimeLocation,
		DogID:              in.DogID,
		Status:             StatusInProcess,
	}
	f.reqs[r.ID] = r
	return r, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, _ auth.Bearer, id string, s Status) (AdoptionRequest, error) {
	f.record("status:" + id + ":" + string(s))
	if f.err != nil {
		return AdoptionRequest{}, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reqs[id]
	if !ok {
		return AdoptionRequest{}, ErrNotFound
	}
	r.Status = s
	f.reqs[id] = r
	return r, nil
}

func (f *fakeRepo) CountByStatus(_ context.Context, _ auth.Bearer, s Status) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, r := range f.reqs {
		if r.Status == s {
			n++
		}
	}
	return n, nil
}

type fakeFinder map[string]dogs.Dog

func (f fakeFinder) Detail(_ context.Context, id string) (dogs.CatalogDog, error) {
	d, ok := f[id]
	if !ok {
		return dogs.CatalogDog{}, dogs.ErrNotFound
	}
	return dogs.ToCatalogDog(d), nil
}

const longMotivation = "We have a big fenced garden and work from home most days."

func validDraft() Draft {
	return Draft{
		RequesterFirstName: "Frodo",
		RequesterLastName:  "Baggins",
		RequesterEmail:     "frodo@shire.me",
		HousingType:        "HOUSE",
		HouseholdSize:      "2",
		Motivation:         longMotivation,
	}
}
