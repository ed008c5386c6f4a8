package dogs

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"shire-of-paws/internal/domain/listing"
	"shire-of-paws/internal/ports/auth"
)

// fakeBackend implementa Repository y FileStore en memoria y registra
// el orden de las llamadas.
type fakeBackend struct {
	mu    sync.Mutex
	dogs  map[string]Dog
	files map[string][]byte
	calls []string
	next  int

	uploadErr error
	saveErr   error
	filterErr error
	// block, si no es nil, frena Create hasta que se cierre.
	block chan struct{}
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{dogs: map[string]Dog{}, files: map[string][]byte{}}
}

func (f *fakeBackend) record(c string) {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()
}

func (f *fakeBackend) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeBackend) add(d Dog) {
	f.mu.Lock()
	f.dogs[d.ID] = d
	f.mu.Unlock()
}

func (f *fakeBackend) List(_ context.Context, _ auth.Bearer, p ListParams) (listing.Page[Dog], error) {
	f.record("list")
	return f.page(p), nil
}

func (f *fakeBackend) Filter(_ context.Context, _ auth.Bearer, p ListParams) (listing.Page[Dog], error) {
	f.record("filter")
	if f.filterErr != nil {
		return listing.Page[Dog]{}, f.filterErr
	}
	return f.page(p), nil
}

func (f *fakeBackend) page(p ListParams) listing.Page[Dog] {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := listing.Page[Dog]{Number: p.Page, Size: p.Size, TotalPages: 1}
	for _, d := range f.dogs {
		if p.Status != "" && d.Status != p.Status {
			continue
		}
		if p.Gender != "" && d.Gender != p.Gender {
			continue
		}
		if p.DogSize != "" && d.Size != p.DogSize {
			continue
		}
		out.Content = append(out.Content, d)
	}
	out.TotalElements = int64(len(out.Content))
	return out
}

func (f *fakeBackend) Get(_ context.Context, _ auth.Bearer, id string) (Dog, error) {
	f.record("get")
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.dogs[id]
	if !ok {
		return Dog{}, ErrNotFound
	}
	return d, nil
}

func (f *fakeBackend) Create(_ context.Context, _ auth.Bearer, in Payload) (Dog, error) {
	f.record("create")
	if f.block != nil {
		<-f.block
	}
	if f.saveErr != nil {
		return Dog{}, f.saveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	d := fromPayload(fmt.Sprintf("dog-%d", f.next), in)
	f.dogs[d.ID] = d
	return d, nil
}

func (f *fakeBackend) Update(_ context.Context, _ auth.Bearer, id string, in Payload) (Dog, error) {
	f.record("update:" + id)
	if f.saveErr != nil {
		return Dog{}, f.saveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.dogs[id]; !ok {
		return Dog{}, ErrNotFound
	}
	d := fromPayload(id, in)
	f.dogs[id] = d
	return d, nil
}

func (f *fakeBackend) Delete(_ context.Context, _ auth.Bearer, id string) error {
	f.record("delete:" + id)
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.dogs[id]; !ok {
		return ErrNotFound
	}
	delete(f.dogs, id)
	return nil
}

func (f *fakeBackend) Stats(context.Context) (Stats, error) {
	f.record("stats")
	return Stats{Rescued: 3, Adopted: 1, Available: 2}, nil
}

func (f *fakeBackend) CountByStatus(_ context.Context, _ auth.Bearer, s Status) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, d := range f.dogs {
		if d.Status == s {
			n++
		}
	}
	return n, nil
}

func (f *fakeBackend) Upload(_ context.Context, _ auth.Bearer, u Upload) (StoredFile, error) {
	f.record("upload")
	if f.uploadErr != nil {
		return StoredFile{}, f.uploadErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	name := "stored-" + u.FileName
	f.files[name] = u.Content
	return StoredFile{FileName: name, FileType: u.ContentType, Size: u.Size()}, nil
}

func (f *fakeBackend) DeleteFile(_ context.Context, _ auth.Bearer, name string) error {
	f.record("delete-file:" + name)
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.files, name)
	return nil
}

func (f *fakeBackend) Open(_ context.Context, name string) (io.ReadCloser, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.files[name]
	if !ok {
		return nil, "", ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), "image/png", nil
}

func fromPayload(id string, in Payload) Dog {
	return Dog{
		ID:       id,
		Name:     in.Name,
		Story:    in.Story,
		Gender:   in.Gender,
		Age:      in.Age,
		Size:     in.Size,
		PhotoURL: in.PhotoURL,
		Status:   in.Status,
	}
}

func validDraft() Draft {
	return Draft{Name: "Rex", Gender: "MALE", Age: "3", Size: "MEDIUM", Status: "AVAILABLE"}
}

func pngUpload(name string, n int) Upload {
	return Upload{FileName: name, ContentType: "image/png", Content: bytes.Repeat([]byte{1}, n)}
}

func ptr[T any](v T) *T { return &v }
