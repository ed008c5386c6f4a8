package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"shire-of-paws/internal/platform/logger"
)

// HTTPRecorder cuenta requests servidos (platform/metrics lo implementa).
type HTTPRecorder interface {
	HTTPRequest(method, route string, status int)
}

type statusWriter struct {
	http.ResponseWriter
	status int
	count  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(p)
	w.count += n
	return n, err
}

// Flush deja pasar el streaming de /files.
func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Logging deja en el context un logger con request_id y registra cada request.
// rec puede ser nil.
func Logging(log logger.Logger, rec HTTPRecorder) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.Nop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			l := log.With(map[string]any{"request_id": chimw.GetReqID(r.Context())})
			r = r.WithContext(logger.Into(r.Context(), l))

			sw := &statusWriter{ResponseWriter: w}
			next.ServeHTTP(sw, r)
			if sw.status == 0 {
				sw.status = http.StatusOK
			}

			route := "unmatched"
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}
			if rec != nil {
				rec.HTTPRequest(r.Method, route, sw.status)
			}

			fields := map[string]any{
				"method":      r.Method,
				"route":       route,
				"path":        r.URL.Path,
				"status":      sw.status,
				"bytes":       sw.count,
				"duration_ms": time.Since(start).Milliseconds(),
			}
			switch {
			case sw.status >= 500:
				l.Error("request", fields)
			case sw.status >= 400:
				l.Warn("request", fields)
			default:
				l.Debug("request", fields)
			}
		})
	}
}
