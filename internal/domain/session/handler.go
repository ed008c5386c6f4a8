package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"shire-of-paws/internal/platform/apierror"
	"shire-of-paws/internal/ports/auth"
	"shire-of-paws/internal/ports/capabilities"
)

const DefaultCookieName = "sop_session"

// CapabilityLister resuelve todas las capabilities de un rol.
type CapabilityLister interface {
	Resolve(ctx context.Context, role string) []capabilities.Capability
}

type HandlerOptions struct {
	CookieName   string
	SecureCookie bool
	Capabilities CapabilityLister
	// LoginGuard envuelve POST /login (rate limit). Opcional.
	LoginGuard func(http.Handler) http.Handler
}

// RegisterRoutes monta login/logout/me sobre el subrouter /api/admin.
func RegisterRoutes(ar chi.Router, m *Manager, opts HandlerOptions) {
	if opts.CookieName == "" {
		opts.CookieName = DefaultCookieName
	}
	login := http.Handler(loginHandler(m, opts))
	if opts.LoginGuard != nil {
		login = opts.LoginGuard(login)
	}

	ar.Method(http.MethodPost, "/login", login)
	ar.Post("/logout", logoutHandler(m, opts))
	ar.Get("/me", meHandler(opts))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type meResponse struct {
	Email        string                    `json:"email"`
	Subject      string                    `json:"subject,omitempty"`
	Role         string                    `json:"role,omitempty"`
	ExpiresAt    time.Time                 `json:"expiresAt"`
	Capabilities []capabilities.Capability `json:"capabilities"`
}

// loginHandler godoc
// @Summary Login de administrador
// @Description Cambia email/password por un token del backend y abre una sesión (cookie HttpOnly).
// @Tags admin-session
// @Accept json
// @Produce json
// @Param payload body loginRequest true "Credenciales"
// @Success 200 {object} meResponse
// @Failure 400 {object} apierror.ErrorResponse "invalid json"
// @Failure 401 {object} apierror.ErrorResponse "Invalid email or password"
// @Failure 429 {object} apierror.ErrorResponse "rate limited"
// @Failure 502 {object} apierror.ErrorResponse "backend"
// @Router /api/admin/login [post]
func loginHandler(m *Manager, opts HandlerOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apierror.Write(w, r, http.StatusBadRequest, apierror.CodeInvalidArgument, "invalid json")
			return
		}

		s, err := m.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			status := http.StatusBadGateway
			code := apierror.CodeUpstream
			msg := LoginMessage(err)
			switch {
			case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, ErrUnauthorized):
				status, code = http.StatusUnauthorized, apierror.CodeUnauthenticated
			case errors.Is(err, ErrStore):
				status, code, msg = http.StatusInternalServerError, apierror.CodeInternal, "session could not be stored"
			}
			apierror.Write(w, r, status, code, msg)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     opts.CookieName,
			Value:    s.ID(),
			Path:     "/",
			Expires:  s.ExpiresAt(),
			HttpOnly: true,
			Secure:   opts.SecureCookie,
			SameSite: http.SameSiteLaxMode,
		})
		writeJSON(w, http.StatusOK, toMeResponse(r.Context(), s, opts.Capabilities))
	}
}

// logoutHandler godoc
// @Summary Logout de administrador
// @Description Cierra la sesión (idempotente) y borra la cookie.
// @Tags admin-session
// @Success 204
// @Router /api/admin/logout [post]
func logoutHandler(m *Manager, opts HandlerOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if s, ok := FromContext(r.Context()); ok {
			id = s.ID()
		} else if c, err := r.Cookie(opts.CookieName); err == nil {
			id = c.Value
		}

		if err := m.Logout(r.Context(), id); err != nil {
			apierror.Write(w, r, http.StatusInternalServerError, apierror.CodeInternal, "logout failed")
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     opts.CookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   opts.SecureCookie,
			SameSite: http.SameSiteLaxMode,
		})
		w.WriteHeader(http.StatusNoContent)
	}
}

// meHandler godoc
// @Summary Sesión actual
// @Tags admin-session
// @Produce json
// @Success 200 {object} meResponse
// @Failure 401 {object} apierror.ErrorResponse "session expired or missing"
// @Router /api/admin/me [get]
func meHandler(opts HandlerOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := FromContext(r.Context())
		if !ok || !s.Authenticated() {
			apierror.Unauthorized(w, r)
			return
		}
		writeJSON(w, http.StatusOK, toMeResponse(r.Context(), s, opts.Capabilities))
	}
}

func toMeResponse(ctx context.Context, s *Session, caps CapabilityLister) meResponse {
	rec := s.Record()
	out := meResponse{
		Email:        rec.Email,
		Subject:      rec.Subject,
		Role:         rec.Role,
		ExpiresAt:    rec.ExpiresAt,
		Capabilities: []capabilities.Capability{},
	}
	if caps != nil {
		if c := caps.Resolve(ctx, rec.Role); c != nil {
			out.Capabilities = c
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
