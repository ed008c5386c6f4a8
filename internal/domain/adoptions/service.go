package adoptions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"shire-of-paws/internal/domain/dogs"
	"shire-of-paws/internal/domain/listing"
	"shire-of-paws/internal/platform/logger"
	"shire-of-paws/internal/platform/registry"
	"shire-of-paws/internal/platform/validation"
	"shire-of-paws/internal/ports/auth"
)

// DogFinder es lo que se necesita del catálogo para abrir un formulario.
type DogFinder interface {
	Detail(ctx context.Context, id string) (dogs.CatalogDog, error)
}

type Recorder interface {
	Submission(form, outcome string)
}

type nopRecorder struct{}

func (nopRecorder) Submission(string, string) {}

type Options struct {
	FormTTL   time.Duration
	Validator *validation.Validator
	Metrics   Recorder
}

type Service struct {
	repo    Repository
	dogs    DogFinder
	forms   *registry.Registry[*ApplicationForm]
	v       *validation.Validator
	metrics Recorder
}

func NewService(repo Repository, finder DogFinder, opts Options) *Service {
	if opts.Validator == nil {
		opts.Validator = validation.New()
	}
	if opts.Metrics == nil {
		opts.Metrics = nopRecorder{}
	}
	return &Service{
		repo:    repo,
		dogs:    finder,
		forms:   registry.New[*ApplicationForm](opts.FormTTL),
		v:       opts.Validator,
		metrics: opts.Metrics,
	}
}

func (s *Service) Repository() Repository { return s.repo }

// ---- formulario público ----

// OpenForm arma un formulario para un perro disponible.
// Los formularios públicos no tienen dueño: el id es la credencial.
func (s *Service) OpenForm(ctx context.Context, dogID string) (FormView, error) {
	dogID = strings.TrimSpace(dogID)
	if dogID == "" {
		return FormView{}, ErrInvalidInput
	}
	d, err := s.dogs.Detail(ctx, dogID)
	if err != nil {
		if errors.Is(err, dogs.ErrNotFound) {
			return FormView{}, ErrNotFound
		}
		return FormView{}, err
	}
	if !d.CanAdopt {
		return FormView{}, ErrDogUnavailable
	}

	f := NewApplicationForm(d.ID, d.Name)
	id := s.forms.Put("", f)
	return withID(f.View(), id), nil
}

func (s *Service) form(id string) (*ApplicationForm, error) {
	f, err := s.forms.Get("", id)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

func (s *Service) Form(id string) (FormView, error) {
	f, err := s.form(id)
	if err != nil {
		return FormView{}, err
	}
	return withID(f.View(), id), nil
}

func (s *Service) UpdateForm(id string, changes map[string]string) (FormView, error) {
	f, err := s.form(id)
	if err != nil {
		return FormView{}, err
	}
	if err := f.Apply(changes); err != nil {
		return FormView{}, err
	}
	return withID(f.View(), id), nil
}

// SubmitForm envía la solicitud. El formulario enviado queda visible
// (estado "submitted") hasta que vence.
func (s *Service) SubmitForm(ctx context.Context, id string) (AdoptionRequest, FormView, error) {
	f, err := s.form(id)
	if err != nil {
		return AdoptionRequest{}, FormView{}, err
	}

	req, err := f.Submit(ctx, s.repo, s.v)
	view := withID(f.View(), id)

	switch {
	case err == nil:
		s.metrics.Submission("adoption_request", "ok")
		logger.From(ctx).Info("adoption request created", map[string]any{"request_id": req.ID, "dog_id": req.DogID})
	case errors.Is(err, validation.ErrInvalid):
		s.metrics.Submission("adoption_request", "invalid")
	case errors.Is(err, ErrSubmitInProgress), errors.Is(err, ErrFormSubmitted):
		// no cuenta
	default:
		s.metrics.Submission("adoption_request", "error")
		logger.From(ctx).Warn("adoption request submit failed", map[string]any{"form_id": id, "error": err.Error()})
	}
	return req, view, err
}

// ---- admin ----

func (s *Service) Get(ctx context.Context, b auth.Bearer, id string) (AdoptionRequest, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return AdoptionRequest{}, ErrInvalidInput
	}
	return s.repo.Get(ctx, b, id)
}

func (s *Service) ByDog(ctx context.Context, b auth.Bearer, dogID string, page int) (listing.Page[AdoptionRequest], error) {
	dogID = strings.TrimSpace(dogID)
	if dogID == "" {
		return listing.Page[AdoptionRequest]{}, ErrInvalidInput
	}
	if page < 0 {
		page = 0
	}
	return s.repo.ByDog(ctx, b, dogID, page, DefaultPageSize)
}

// ChangeStatus valida la arista y hace un único PUT. No hay mutación local.
func (s *Service) ChangeStatus(ctx context.Context, b auth.Bearer, id string, from, to Status) (AdoptionRequest, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return AdoptionRequest{}, ErrInvalidInput
	}
	if err := checkTransition(from, to); err != nil {
		return AdoptionRequest{}, err
	}
	return s.repo.UpdateStatus(ctx, b, id, to)
}

func (s *Service) CountByStatus(ctx context.Context, b auth.Bearer) (map[Status]int64, error) {
	out := make(map[Status]int64, len(AllStatuses))
	for _, st := range AllStatuses {
		n, err := s.repo.CountByStatus(ctx, b, st)
		if err != nil {
			return nil, fmt.Errorf("count requests %s: %w", st, err)
		}
		out[st] = n
	}
	return out, nil
}

func withID(v FormView, id string) FormView {
	v.ID = id
	return v
}
