package dashboard

import (
	"sync"

	"shire-of-paws/internal/domain/adoptions"
	"shire-of-paws/internal/domain/dogs"
	"shire-of-paws/internal/domain/listing"
)

// board es el estado del dashboard de una sesión.
type board struct {
	mu sync.Mutex

	dogs     *listing.Controller[dogs.Dog, dogs.ListParams]
	requests *listing.Controller[adoptions.AdoptionRequest, adoptions.ListParams]

	detail        *adoptions.AdoptionRequest
	confirmations map[string]Confirmation
}

func newBoard(dogRepo dogs.Repository, reqRepo adoptions.Repository, o Owner) *board {
	return &board{
		dogs:          listing.NewController(dogs.Fetcher(dogRepo, o), msgFetchDogs),
		requests:      listing.NewController(adoptions.Fetcher(reqRepo, o), msgFetchRequests),
		confirmations: map[string]Confirmation{},
	}
}

func (b *board) close() {
	b.dogs.Close()
	b.requests.Close()
}

func (b *board) setDetail(r *adoptions.AdoptionRequest) {
	b.mu.Lock()
	b.detail = r
	b.mu.Unlock()
}

func (b *board) openDetail() *adoptions.AdoptionRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.detail == nil {
		return nil
	}
	d := *b.detail
	return &d
}

// requestStatus busca el estado actual de una solicitud en lo que el admin ve.
func (b *board) requestStatus(id string) (adoptions.AdoptionRequest, bool) {
	if d := b.openDetail(); d != nil && d.ID == id {
		return *d, true
	}
	for _, r := range b.requests.Snapshot().Items {
		if r.ID == id {
			return r, true
		}
	}
	return adoptions.AdoptionRequest{}, false
}

func (b *board) visibleDog(id string) (dogs.Dog, bool) {
	for _, d := range b.dogs.Snapshot().Items {
		if d.ID == id {
			return d, true
		}
	}
	return dogs.Dog{}, false
}

func (b *board) put(c Confirmation) {
	b.mu.Lock()
	b.confirmations[c.ID] = c
	b.mu.Unlock()
}

// take saca la confirmación: el diálogo se cierra pase lo que pase.
func (b *board) take(id string) (Confirmation, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.confirmations[id]
	if ok {
		delete(b.confirmations, id)
	}
	return c, ok
}

func (b *board) pending() []Confirmation {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Confirmation, 0, len(b.confirmations))
	for _, c := range b.confirmations {
		out = append(out, c)
	}
	return out
}
