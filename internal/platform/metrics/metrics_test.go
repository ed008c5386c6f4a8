package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestObserveBackend_CountsByCode(t *testing.T) {
	m := New()

	m.ObserveBackend("dogs.list", http.MethodGet, 200, 10*time.Millisecond)
	m.ObserveBackend("dogs.list", http.MethodGet, 200, 20*time.Millisecond)
	m.ObserveBackend("dogs.list", http.MethodGet, 0, time.Millisecond)

	require.Equal(t, 2.0, testutil.ToFloat64(m.backendRequests.WithLabelValues("dogs.list", "GET", "200")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.backendRequests.WithLabelValues("dogs.list", "GET", "error")))
}

func TestNilMetrics_IsSafe(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() {
		m.Submission("dog_profile", "ok")
		m.Confirmation("delete", "error")
		m.HTTPRequest("GET", "/health", 200)
		m.ObserveBackend("x", "GET", 200, time.Second)
	})
}

func TestHandler_ExposesCounters(t *testing.T) {
	m := New()
	m.Submission("adoption_request", "ok")

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	b, _ := io.ReadAll(rr.Body)
	require.Contains(t, string(b), `shire_of_paws_form_submissions_total{form="adoption_request",outcome="ok"} 1`)
}
