package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"shire-of-paws/internal/domain/adoptions"
	"shire-of-paws/internal/domain/dogs"
	"shire-of-paws/internal/domain/listing"
	"shire-of-paws/internal/platform/logger"
)

const (
	msgFetchDogs     = "Failed to fetch dogs"
	msgFetchRequests = "Failed to fetch adoption requests"
)

// Recorder recibe el resultado de cada confirmación (ok, error, cancelled).
type Recorder interface {
	Confirmation(action, outcome string)
}

type nopRecorder struct{}

func (nopRecorder) Confirmation(string, string) {}

type Service struct {
	dogs     *dogs.Service
	requests *adoptions.Service
	metrics  Recorder
	now      func() time.Time

	mu     sync.Mutex
	boards map[string]*board
}

func NewService(dogSvc *dogs.Service, reqSvc *adoptions.Service, metrics Recorder) *Service {
	if metrics == nil {
		metrics = nopRecorder{}
	}
	return &Service{
		dogs:     dogSvc,
		requests: reqSvc,
		metrics:  metrics,
		now:      time.Now,
		boards:   map[string]*board{},
	}
}

func (s *Service) board(o Owner) *board {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := o.ID()
	b, ok := s.boards[id]
	if !ok {
		b = newBoard(s.dogs.Repository(), s.requests.Repository(), o)
		s.boards[id] = b
	}
	return b
}

// Drop libera el tablero de una sesión cerrada.
func (s *Service) Drop(sessionID string) {
	s.mu.Lock()
	b, ok := s.boards[sessionID]
	delete(s.boards, sessionID)
	s.mu.Unlock()

	if ok {
		b.close()
	}
}

// ---- listados ----

func (s *Service) Dogs(ctx context.Context, o Owner, p dogs.ListParams) (listing.State[dogs.Dog], error) {
	if err := p.Validate(); err != nil {
		return listing.State[dogs.Dog]{}, err
	}
	st := s.board(o).dogs.Load(ctx, p.Normalize())
	return st, st.Err
}

func (s *Service) Requests(ctx context.Context, o Owner, p adoptions.ListParams) (listing.State[adoptions.AdoptionRequest], error) {
	if err := p.Validate(); err != nil {
		return listing.State[adoptions.AdoptionRequest]{}, err
	}
	st := s.board(o).requests.Load(ctx, p.Normalize())
	return st, st.Err
}

func (s *Service) Summary(ctx context.Context, o Owner) (Summary, error) {
	d, err := s.dogs.CountByStatus(ctx, o)
	if err != nil {
		return Summary{}, err
	}
	r, err := s.requests.CountByStatus(ctx, o)
	if err != nil {
		return Summary{}, err
	}
	return Summary{Dogs: d, Requests: r}, nil
}

// ---- vista de detalle ----

func (s *Service) OpenDetail(ctx context.Context, o Owner, id string) (adoptions.AdoptionRequest, error) {
	r, err := s.requests.Get(ctx, o, id)
	if err != nil {
		return adoptions.AdoptionRequest{}, err
	}
	s.board(o).setDetail(&r)
	return r, nil
}

func (s *Service) CloseDetail(o Owner) {
	s.board(o).setDetail(nil)
}

// ---- confirmaciones ----

// RequestTransition abre el diálogo para llevar una solicitud visible a to.
// No toca el backend.
func (s *Service) RequestTransition(o Owner, requestID string, to adoptions.Status) (Confirmation, error) {
	requestID = strings.TrimSpace(requestID)
	to = adoptions.Status(strings.ToUpper(strings.TrimSpace(string(to))))
	if requestID == "" || !to.Valid() {
		return Confirmation{}, adoptions.ErrInvalidInput
	}

	b := s.board(o)
	r, ok := b.requestStatus(requestID)
	if !ok {
		return Confirmation{}, fmt.Errorf("%w: adoption request %s", ErrNotVisible, requestID)
	}
	if !adoptions.CanTransition(r.Status, to) {
		return Confirmation{}, fmt.Errorf("%w: %s -> %s", adoptions.ErrInvalidTransition, r.Status, to)
	}

	c := Confirmation{
		ID:        uuid.NewString(),
		Action:    ActionTransition,
		TargetID:  r.ID,
		Label:     strings.TrimSpace(r.RequesterFirstName + " " + r.RequesterLastName),
		From:      r.Status,
		To:        to,
		CreatedAt: s.now(),
	}
	b.put(c)
	return c, nil
}

// RequestDelete abre el diálogo de borrado de un perro visible en el listado.
func (s *Service) RequestDelete(o Owner, dogID string) (Confirmation, error) {
	dogID = strings.TrimSpace(dogID)
	if dogID == "" {
		return Confirmation{}, dogs.ErrInvalidInput
	}

	b := s.board(o)
	d, ok := b.visibleDog(dogID)
	if !ok {
		return Confirmation{}, fmt.Errorf("%w: dog %s", ErrNotVisible, dogID)
	}

	c := Confirmation{
		ID:        uuid.NewString(),
		Action:    ActionDeleteDog,
		TargetID:  d.ID,
		Label:     d.Name,
		CreatedAt: s.now(),
	}
	b.put(c)
	return c, nil
}

func (s *Service) Pending(o Owner) []Confirmation {
	out := s.board(o).pending()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// Cancel descarta el diálogo sin mutar nada.
func (s *Service) Cancel(o Owner, confirmationID string) error {
	c, ok := s.board(o).take(confirmationID)
	if !ok {
		return ErrConfirmationNotFound
	}
	s.metrics.Confirmation(string(c.Action), "cancelled")
	return nil
}

// Confirm ejecuta la mutación: una sola llamada al backend. El diálogo se
// cierra aunque falle. Si sale bien se refrescan las vistas afectadas; no hay
// cambio local optimista.
func (s *Service) Confirm(ctx context.Context, o Owner, confirmationID string) (Outcome, error) {
	b := s.board(o)
	c, ok := b.take(confirmationID)
	if !ok {
		return Outcome{}, ErrConfirmationNotFound
	}
	log := logger.From(ctx).With(map[string]any{"action": string(c.Action), "target_id": c.TargetID})

	var err error
	switch c.Action {
	case ActionTransition:
		_, err = s.requests.ChangeStatus(ctx, o, c.TargetID, c.From, c.To)
	case ActionDeleteDog:
		err = s.dogs.Delete(ctx, o, c.TargetID)
	default:
		err = fmt.Errorf("unknown action %q", c.Action)
	}
	if err != nil {
		s.metrics.Confirmation(string(c.Action), "error")
		log.Warn("confirmation failed", map[string]any{"error": err.Error()})
		return Outcome{Confirmation: c}, err
	}
	s.metrics.Confirmation(string(c.Action), "ok")
	log.Info("confirmation applied", nil)

	out := Outcome{Confirmation: c}
	switch c.Action {
	case ActionTransition:
		st := b.requests.Refetch(ctx)
		out.Requests = &st
		if d := b.openDetail(); d != nil && d.ID == c.TargetID {
			fresh, err := s.requests.Get(ctx, o, c.TargetID)
			if err != nil {
				log.Warn("detail refetch failed", map[string]any{"error": err.Error()})
			} else {
				b.setDetail(&fresh)
				out.Detail = &fresh
			}
		}
	case ActionDeleteDog:
		st := b.dogs.Refetch(ctx)
		out.Dogs = &st
	}
	return out, nil
}

// IsNotFound agrupa los "no encontrado" de los dominios que usa el dashboard.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrConfirmationNotFound) ||
		errors.Is(err, ErrNotVisible) ||
		errors.Is(err, adoptions.ErrNotFound) ||
		errors.Is(err, dogs.ErrNotFound)
}
