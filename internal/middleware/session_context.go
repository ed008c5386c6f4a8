package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"shire-of-paws/internal/domain/session"
	"shire-of-paws/internal/platform/apierror"
	"shire-of-paws/internal/platform/logger"
	"shire-of-paws/internal/ports/capabilities"
)

// SessionResolver es lo que el middleware necesita del session.Manager.
type SessionResolver interface {
	Resolve(ctx context.Context, id string) (*session.Session, error)
}

// SessionContext:
// - toma el id de sesión de la cookie, o de "Authorization: Bearer <id>";
// - si la sesión está viva, la deja en el context;
// - si no hay sesión, el request sigue igual; RequireSession decide el 401.
func SessionContext(resolver SessionResolver, cookieName string) func(http.Handler) http.Handler {
	if cookieName == "" {
		cookieName = session.DefaultCookieName
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if c, err := r.Cookie(cookieName); err == nil {
				id = strings.TrimSpace(c.Value)
			}
			if id == "" {
				id = bearerToken(r.Header.Get("Authorization"))
			}
			if id == "" {
				next.ServeHTTP(w, r)
				return
			}

			s, err := resolver.Resolve(r.Context(), id)
			if err != nil {
				if !errors.Is(err, session.ErrUnauthorized) {
					logger.From(r.Context()).Warn("session lookup failed", map[string]any{"error": err.Error()})
				}
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(session.Into(r.Context(), s)))
		})
	}
}

// RequireSession corta con 401 (y redirect) si no hay sesión viva.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := session.FromContext(r.Context())
		if !ok || !s.Authenticated() {
			apierror.Unauthorized(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireCapability evalúa la capability una vez por entrada al grupo de rutas.
func RequireCapability(resolver capabilities.CapabilitiesResolver) func(capabilities.Capability) func(http.Handler) http.Handler {
	return func(c capabilities.Capability) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				s, ok := session.FromContext(r.Context())
				if !ok || !s.Authenticated() {
					apierror.Unauthorized(w, r)
					return
				}

				allowed, err := resolver.HasFeature(r.Context(), capabilities.CapabilityCheck{
					Subject:    s.Subject(),
					Role:       s.Role(),
					Capability: c,
				})
				if err != nil {
					logger.From(r.Context()).Error("capability check failed", map[string]any{
						"capability": string(c),
						"error":      err.Error(),
					})
					apierror.Write(w, r, http.StatusInternalServerError, apierror.CodeInternal, "capability check failed")
					return
				}
				if !allowed {
					apierror.Write(w, r, http.StatusForbidden, apierror.CodeForbidden, "missing capability "+string(c))
					return
				}
				next.ServeHTTP(w, r)
			})
		}
	}
}

func bearerToken(authHeader string) string {
	if strings.TrimSpace(authHeader) == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
