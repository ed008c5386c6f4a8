package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"shire-of-paws/internal/platform/httpclient"
	"shire-of-paws/internal/platform/logger"
	"shire-of-paws/internal/ports/auth"
)

const (
	DefaultTTL = 12 * time.Hour

	msgInvalidCredentials = "Invalid email or password"
	msgLoginFailed        = "Login failed. Please check your credentials."
)

type Options struct {
	TTL    time.Duration
	Logger logger.Logger
}

// Manager arma, recupera y cierra sesiones.
// Mantiene en memoria las sesiones vivas para que los suscriptores
// (dashboards, borradores) sigan enganchados entre requests.
type Manager struct {
	repo      Repository
	authn     auth.Authenticator
	inspector auth.TokenInspector
	ttl       time.Duration
	log       logger.Logger
	now       func() time.Time

	mu      sync.Mutex
	live    map[string]*Session
	onClear []func(id string, reason Reason)
}

func NewManager(repo Repository, authn auth.Authenticator, inspector auth.TokenInspector, opts Options) *Manager {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	return &Manager{
		repo:      repo,
		authn:     authn,
		inspector: inspector,
		ttl:       opts.TTL,
		log:       opts.Logger,
		now:       time.Now,
		live:      make(map[string]*Session),
	}
}

// OnClear registra un hook que corre cuando cualquier sesión se cierra
// (logout, 401/403 del backend o vencimiento).
func (m *Manager) OnClear(fn func(id string, reason Reason)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onClear = append(m.onClear, fn)
}

func (m *Manager) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, auth.ErrInvalidCredentials
	}

	res, err := m.authn.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	now := m.now()
	rec := Record{
		ID:        uuid.NewString(),
		Token:     res.Token,
		Email:     res.Email,
		ExpiresAt: now.Add(m.ttl),
		CreatedAt: now,
	}

	// Token opaco => solo TTL local.
	if m.inspector != nil {
		if c, err := m.inspector.Inspect(res.Token); err == nil {
			if c.Expired(now) {
				return nil, fmt.Errorf("%w: token already expired", ErrUnauthorized)
			}
			rec.Subject = c.Subject
			rec.Role = c.Role
			if rec.Email == "" {
				rec.Email = c.Email
			}
			if !c.ExpiresAt.IsZero() && c.ExpiresAt.Before(rec.ExpiresAt) {
				rec.ExpiresAt = c.ExpiresAt
			}
		} else {
			m.log.Debug("token claims not readable", map[string]any{"error": err.Error()})
		}
	}
	if !rec.ExpiresAt.After(now) {
		return nil, fmt.Errorf("%w: token already expired", ErrUnauthorized)
	}

	if err := m.repo.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStore, err)
	}

	s := m.adopt(rec)
	m.log.Info("admin signed in", map[string]any{"session_id": rec.ID, "email": rec.Email})
	return s, nil
}

// Resolve devuelve la sesión viva o la recarga del repositorio (init-on-load).
func (m *Manager) Resolve(ctx context.Context, id string) (*Session, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrUnauthorized
	}

	m.mu.Lock()
	s, ok := m.live[id]
	m.mu.Unlock()

	if !ok {
		rec, err := m.repo.Get(ctx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, ErrUnauthorized
			}
			return nil, err
		}
		s = m.adopt(rec)
	}

	if !s.Authenticated() {
		return nil, ErrUnauthorized
	}
	return s, nil
}

func (m *Manager) Logout(ctx context.Context, id string) error {
	s, err := m.Resolve(ctx, id)
	if err != nil {
		// ya cerrada: logout es idempotente
		if errors.Is(err, ErrUnauthorized) {
			return nil
		}
		return err
	}
	s.Clear(ReasonLogout)
	return nil
}

// Sweep borra sesiones vencidas del repositorio.
func (m *Manager) Sweep(ctx context.Context) (int64, error) {
	now := m.now()

	m.mu.Lock()
	live := make([]*Session, 0, len(m.live))
	for _, s := range m.live {
		live = append(live, s)
	}
	m.mu.Unlock()

	// Authenticated() limpia las vencidas y dispara los hooks.
	for _, s := range live {
		s.Authenticated()
	}
	return m.repo.DeleteExpired(ctx, now)
}

// adopt registra la sesión en memoria (o devuelve la que ya estaba).
func (m *Manager) adopt(rec Record) *Session {
	m.mu.Lock()
	if s, ok := m.live[rec.ID]; ok {
		m.mu.Unlock()
		return s
	}
	s := newSession(rec, m.now)
	m.live[rec.ID] = s
	m.mu.Unlock()

	s.Subscribe(func(e Event) {
		if e.Kind == EventCleared {
			m.forget(rec.ID, e.Reason)
		}
	})
	return s
}

func (m *Manager) forget(id string, reason Reason) {
	m.mu.Lock()
	delete(m.live, id)
	hooks := append([]func(string, Reason){}, m.onClear...)
	m.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := m.repo.Delete(ctx, id); err != nil && !errors.Is(err, ErrNotFound) {
		m.log.Warn("session delete failed", map[string]any{"session_id": id, "error": err.Error()})
	}

	for _, fn := range hooks {
		fn(id, reason)
	}
	m.log.Info("session cleared", map[string]any{"session_id": id, "reason": string(reason)})
}

// LoginMessage devuelve el mensaje que ve el admin cuando falla el login.
func LoginMessage(err error) string {
	if errors.Is(err, auth.ErrInvalidCredentials) {
		return msgInvalidCredentials
	}
	return httpclient.MessageOf(err, msgLoginFailed)
}
