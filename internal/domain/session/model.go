package session

import (
	"errors"
	"sync"
	"time"

	"shire-of-paws/internal/ports/auth"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("session not found")
	ErrStore        = errors.New("session store failed")
)

type Reason string

const (
	ReasonLogout       Reason = "logout"
	ReasonUnauthorized Reason = "unauthorized"
	ReasonExpired      Reason = "expired"
)

type EventKind string

const (
	EventSignedIn EventKind = "signed_in"
	EventCleared  EventKind = "cleared"
)

type Event struct {
	Kind   EventKind
	Reason Reason // solo en EventCleared
}

// Record es lo que se persiste de una sesión.
type Record struct {
	ID        string
	Token     string
	Email     string
	Subject   string
	Role      string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Session reemplaza al "slot global" del token: se pasa explícita a quien
// llama al backend, y es dueña de su ciclo set/clear.
type Session struct {
	mu     sync.Mutex
	rec    Record
	active bool
	subs   map[int]func(Event)
	nextID int
	now    func() time.Time
}

func newSession(rec Record, now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	return &Session{
		rec:    rec,
		active: rec.Token != "",
		subs:   map[int]func(Event){},
		now:    now,
	}
}

func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.ID
}

// Token devuelve "" si la sesión fue cerrada o venció.
// Una sesión vencida se limpia en el momento (avisa a los suscriptores).
func (s *Session) Token() string {
	if !s.Authenticated() {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.Token
}

func (s *Session) Email() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.Email
}

func (s *Session) Role() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.Role
}

func (s *Session) Subject() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.Subject
}

func (s *Session) ExpiresAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.ExpiresAt
}

func (s *Session) Record() Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec
}

func (s *Session) Authenticated() bool {
	s.mu.Lock()
	active := s.active
	expired := active && !s.rec.ExpiresAt.IsZero() && !s.now().Before(s.rec.ExpiresAt)
	s.mu.Unlock()

	if expired {
		s.Clear(ReasonExpired)
		return false
	}
	return active
}

// Set guarda un token nuevo (login).
func (s *Session) Set(token, email string, expiresAt time.Time) {
	s.mu.Lock()
	s.rec.Token = token
	s.rec.Email = email
	s.rec.ExpiresAt = expiresAt
	s.active = token != ""
	subs := s.snapshotSubsLocked()
	s.mu.Unlock()

	notify(subs, Event{Kind: EventSignedIn})
}

// Clear borra el token. Idempotente: solo la primera llamada notifica.
func (s *Session) Clear(reason Reason) {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.active = false
	s.rec.Token = ""
	subs := s.snapshotSubsLocked()
	s.mu.Unlock()

	notify(subs, Event{Kind: EventCleared, Reason: reason})
}

var _ auth.Bearer = (*Session)(nil)

// Revoke implementa auth.Bearer: el backend respondió 401/403.
func (s *Session) Revoke() { s.Clear(ReasonUnauthorized) }

// Subscribe registra fn; la func devuelta lo da de baja.
func (s *Session) Subscribe(fn func(Event)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Session) snapshotSubsLocked() []func(Event) {
	out := make([]func(Event), 0, len(s.subs))
	for i := 0; i < s.nextID; i++ {
		if fn, ok := s.subs[i]; ok {
			out = append(out, fn)
		}
	}
	return out
}

func notify(subs []func(Event), e Event) {
	for _, fn := range subs {
		fn(e)
	}
}
