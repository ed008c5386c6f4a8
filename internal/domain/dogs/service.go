package dogs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"shire-of-paws/internal/platform/logger"
	"shire-of-paws/internal/platform/registry"
	"shire-of-paws/internal/platform/validation"
	"shire-of-paws/internal/ports/auth"
)

const DefaultMaxImageBytes = 10 << 20

// Recorder es lo que el servicio necesita de las métricas.
type Recorder interface {
	Submission(form, outcome string)
}

type nopRecorder struct{}

func (nopRecorder) Submission(string, string) {}

type Options struct {
	MaxImageBytes int64
	FormTTL       time.Duration
	Validator     *validation.Validator
	Metrics       Recorder
	Logger        logger.Logger
}

type Service struct {
	repo      Repository
	files     FileStore
	submitter *Submitter
	forms     *registry.Registry[*ProfileForm]
	maxBytes  int64
	metrics   Recorder
}

func NewService(repo Repository, files FileStore, opts Options) *Service {
	if opts.MaxImageBytes <= 0 {
		opts.MaxImageBytes = DefaultMaxImageBytes
	}
	if opts.Metrics == nil {
		opts.Metrics = nopRecorder{}
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	return &Service{
		repo:      repo,
		files:     files,
		submitter: NewSubmitter(repo, files, opts.Validator, opts.Logger),
		forms:     registry.New[*ProfileForm](opts.FormTTL),
		maxBytes:  opts.MaxImageBytes,
		metrics:   opts.Metrics,
	}
}

func (s *Service) MaxImageBytes() int64 { return s.maxBytes }

// ---- catálogo público ----

func (s *Service) Catalog(ctx context.Context, q CatalogQuery) (CatalogPage, error) {
	if err := q.Validate(); err != nil {
		return CatalogPage{}, err
	}
	p := q.Params()
	page, err := s.repo.Filter(ctx, auth.Anonymous, p)
	if err != nil {
		return CatalogPage{}, err
	}

	out := CatalogPage{
		Items:         make([]CatalogDog, 0, len(page.Content)),
		Page:          p.Page,
		TotalPages:    page.TotalPages,
		TotalElements: page.TotalElements,
	}
	for _, d := range page.Content {
		if q.matches(d) {
			out.Items = append(out.Items, ToCatalogDog(d))
		}
	}
	return out, nil
}

func (s *Service) Detail(ctx context.Context, id string) (CatalogDog, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return CatalogDog{}, ErrInvalidInput
	}
	d, err := s.repo.Get(ctx, auth.Anonymous, id)
	if err != nil {
		return CatalogDog{}, err
	}
	return ToCatalogDog(d), nil
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	return s.repo.Stats(ctx)
}

// OpenFile devuelve la foto para el proxy /files/{name}.
func (s *Service) OpenFile(ctx context.Context, name string) (io.ReadCloser, string, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsAny(name, `/\`) {
		return nil, "", ErrInvalidInput
	}
	return s.files.Open(ctx, name)
}

// ---- admin ----

func (s *Service) Delete(ctx context.Context, b auth.Bearer, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, b, id)
}

// CountByStatus arma el resumen de perros por estado.
func (s *Service) CountByStatus(ctx context.Context, b auth.Bearer) (map[Status]int64, error) {
	out := make(map[Status]int64, len(AllStatuses))
	for _, st := range AllStatuses {
		n, err := s.repo.CountByStatus(ctx, b, st)
		if err != nil {
			return nil, fmt.Errorf("count dogs %s: %w", st, err)
		}
		out[st] = n
	}
	return out, nil
}

func (s *Service) Repository() Repository { return s.repo }

// ---- formularios de perfil ----

func (s *Service) OpenCreateForm(owner string) (string, FormView) {
	f := NewCreateForm(s.maxBytes)
	id := s.forms.Put(owner, f)
	return id, withID(f.View(), id)
}

func (s *Service) OpenEditForm(ctx context.Context, owner string, b auth.Bearer, dogID string) (string, FormView, error) {
	dogID = strings.TrimSpace(dogID)
	if dogID == "" {
		return "", FormView{}, ErrInvalidInput
	}
	d, err := s.repo.Get(ctx, b, dogID)
	if err != nil {
		return "", FormView{}, err
	}
	f := NewEditForm(d, s.maxBytes)
	id := s.forms.Put(owner, f)
	return id, withID(f.View(), id), nil
}

func (s *Service) form(owner, id string) (*ProfileForm, error) {
	f, err := s.forms.Get(owner, id)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

func (s *Service) Form(owner, id string) (FormView, error) {
	f, err := s.form(owner, id)
	if err != nil {
		return FormView{}, err
	}
	return withID(f.View(), id), nil
}

func (s *Service) UpdateForm(owner, id string, changes map[string]string) (FormView, error) {
	f, err := s.form(owner, id)
	if err != nil {
		return FormView{}, err
	}
	if err := f.Apply(changes); err != nil {
		return FormView{}, err
	}
	return withID(f.View(), id), nil
}

// SelectPhoto devuelve accepted=false si el archivo no pasó los chequeos
// (el motivo queda en errors.photo).
func (s *Service) SelectPhoto(owner, id string, u Upload) (FormView, bool, error) {
	f, err := s.form(owner, id)
	if err != nil {
		return FormView{}, false, err
	}
	ok := f.SelectFile(u)
	return withID(f.View(), id), ok, nil
}

func (s *Service) ClearPhoto(owner, id string) (FormView, error) {
	f, err := s.form(owner, id)
	if err != nil {
		return FormView{}, err
	}
	f.ClearFile()
	return withID(f.View(), id), nil
}

func (s *Service) DiscardForm(owner, id string) error {
	if !s.forms.Delete(owner, id) {
		return ErrNotFound
	}
	return nil
}

// DiscardOwner borra todos los borradores de una sesión (logout).
func (s *Service) DiscardOwner(owner string) {
	s.forms.DropOwner(owner)
}

// SubmitForm envía el formulario; si sale bien el borrador se descarta.
func (s *Service) SubmitForm(ctx context.Context, owner, id string, b auth.Bearer) (Dog, FormView, error) {
	f, err := s.form(owner, id)
	if err != nil {
		return Dog{}, FormView{}, err
	}

	dog, err := f.Submit(ctx, b, s.submitter)
	view := withID(f.View(), id)

	switch {
	case err == nil:
		s.forms.Delete(owner, id)
		s.metrics.Submission("dog_profile", "ok")
		logger.From(ctx).Info("dog profile saved", map[string]any{"dog_id": dog.ID, "mode": string(view.Mode)})
	case errors.Is(err, validation.ErrInvalid):
		s.metrics.Submission("dog_profile", "invalid")
	case errors.Is(err, ErrSubmitInProgress):
		// no cuenta: el primer envío sigue su curso
	default:
		s.metrics.Submission("dog_profile", "error")
		logger.From(ctx).Warn("dog profile submit failed", map[string]any{"form_id": id, "error": err.Error()})
	}
	return dog, view, err
}

func withID(v FormView, id string) FormView {
	v.ID = id
	return v
}
