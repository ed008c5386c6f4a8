package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"shire-of-paws/internal/adapters/auth/shelter"
	"shire-of-paws/internal/adapters/capabilities/roles"
	"shire-of-paws/internal/adapters/storage/memory"
	"shire-of-paws/internal/domain/session"
	"shire-of-paws/internal/platform/apierror"
	"shire-of-paws/internal/platform/logger"
	"shire-of-paws/internal/ports/auth"
	"shire-of-paws/internal/ports/capabilities"
)

type roleAuthn struct{ role string }

func (a roleAuthn) Login(context.Context, string, string) (auth.LoginResult, error) {
	claims := jwt.MapClaims{
		"sub":   "admin@shelter.org",
		"exp":   time.Now().Add(time.Hour).Unix(),
		"roles": []string{a.role},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	if err != nil {
		return auth.LoginResult{}, err
	}
	return auth.LoginResult{Token: tok, Email: "admin@shelter.org"}, nil
}

func login(t *testing.T, role string) (*session.Manager, *session.Session) {
	t.Helper()
	m := session.NewManager(memory.NewSessionsRepo(), roleAuthn{role: role}, shelter.NewInspector(), session.Options{})
	s, err := m.Login(context.Background(), "admin@shelter.org", "pw")
	require.NoError(t, err)
	return m, s
}

func guarded(m *session.Manager) http.Handler {
	can := RequireCapability(roles.NewResolver(nil))
	r := chi.NewRouter()
	r.Use(SessionContext(m, ""))
	r.Group(func(gr chi.Router) {
		gr.Use(RequireSession)
		gr.Get("/me", func(w http.ResponseWriter, r *http.Request) {
			s, _ := session.FromContext(r.Context())
			_, _ = w.Write([]byte(s.Email()))
		})
	})
	r.Group(func(gr chi.Router) {
		gr.Use(can(capabilities.DogsWrite))
		gr.Post("/dogs", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusCreated) })
	})
	return r
}

func serve(h http.Handler, method, path string, mod func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if mod != nil {
		mod(req)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSessionContext_CookieAndBearer(t *testing.T) {
	m, s := login(t, "ADMIN")
	h := guarded(m)

	rec := serve(h, http.MethodGet, "/me", func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: session.DefaultCookieName, Value: s.ID()})
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "admin@shelter.org", rec.Body.String())

	rec = serve(h, http.MethodGet, "/me", func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+s.ID())
	})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireSession_MissingOrCleared(t *testing.T) {
	m, s := login(t, "ADMIN")
	h := guarded(m)

	rec := serve(h, http.MethodGet, "/me", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	var body apierror.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "/", body.Error.Redirect)

	s.Clear(session.ReasonUnauthorized)
	rec = serve(h, http.MethodGet, "/me", func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: session.DefaultCookieName, Value: s.ID()})
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireCapability_ByRole(t *testing.T) {
	m, admin := login(t, "ROLE_ADMIN")
	rec := serve(guarded(m), http.MethodPost, "/dogs", func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: session.DefaultCookieName, Value: admin.ID()})
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	m, vol := login(t, "VOLUNTEER")
	rec = serve(guarded(m), http.MethodPost, "/dogs", func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: session.DefaultCookieName, Value: vol.ID()})
	})
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Contains(t, rec.Body.String(), apierror.CodeForbidden)

	rec = serve(guarded(m), http.MethodPost, "/dogs", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

type countingRecorder struct{ got []string }

func (c *countingRecorder) HTTPRequest(method, route string, status int) {
	c.got = append(c.got, method+" "+route+" "+http.StatusText(status))
}

func TestLogging_RoutePatternAndRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{Level: logger.Debug, Format: logger.FormatJSON, Writer: &buf})
	rec := &countingRecorder{}

	var seen logger.Logger
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(Logging(log, rec))
	r.Get("/api/catalog/dogs/{dogID}", func(w http.ResponseWriter, r *http.Request) {
		seen = logger.From(r.Context())
		w.WriteHeader(http.StatusNotFound)
	})

	res := serve(r, http.MethodGet, "/api/catalog/dogs/d1", nil)
	require.Equal(t, http.StatusNotFound, res.Code)
	require.NotNil(t, seen)
	require.Equal(t, []string{"GET /api/catalog/dogs/{dogID} Not Found"}, rec.got)
	require.Contains(t, buf.String(), `"request_id"`)
	require.Contains(t, buf.String(), `"route":"/api/catalog/dogs/{dogID}"`)
}

func TestIPRateLimiter(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewIPRateLimiter(time.Minute, 2)
	l.now = func() time.Time { return now }

	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }))
	from := func(ip string) func(*http.Request) {
		return func(r *http.Request) { r.RemoteAddr = ip + ":5555" }
	}

	require.Equal(t, http.StatusOK, serve(h, http.MethodPost, "/", from("10.0.0.1")).Code)
	require.Equal(t, http.StatusOK, serve(h, http.MethodPost, "/", from("10.0.0.1")).Code)
	res := serve(h, http.MethodPost, "/", from("10.0.0.1"))
	require.Equal(t, http.StatusTooManyRequests, res.Code)
	require.Equal(t, "60", res.Header().Get("Retry-After"))

	// otra IP tiene su propio cupo
	require.Equal(t, http.StatusOK, serve(h, http.MethodPost, "/", from("10.0.0.2")).Code)

	now = now.Add(time.Minute)
	require.Equal(t, http.StatusOK, serve(h, http.MethodPost, "/", from("10.0.0.1")).Code)
}
