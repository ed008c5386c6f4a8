// Package metrics agrupa los collectors Prometheus del BFF.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "shire_of_paws"

type Metrics struct {
	reg *prometheus.Registry

	backendRequests *prometheus.CounterVec
	backendLatency  *prometheus.HistogramVec
	submissions     *prometheus.CounterVec
	transitions     *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
}

// New crea un registry propio (no el global) para que los tests no choquen.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		reg: reg,
		backendRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_requests_total",
			Help:      "Requests to the shelter backend by operation and status code.",
		}, []string{"op", "method", "code"}),
		backendLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_request_duration_seconds",
			Help:      "Latency of shelter backend requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "form_submissions_total",
			Help:      "Form submissions by form kind and outcome.",
		}, []string{"form", "outcome"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "admin_confirmations_total",
			Help:      "Settled admin confirmations by action and outcome.",
		}, []string{"action", "outcome"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Requests served by the BFF.",
		}, []string{"method", "route", "code"}),
	}

	reg.MustRegister(m.backendRequests, m.backendLatency, m.submissions, m.transitions, m.httpRequests)
	return m
}

// Handler expone /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// Registry es útil en tests (testutil.ToFloat64 sobre collectors concretos).
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// ObserveBackend sirve como httpclient.ObserveFunc.
func (m *Metrics) ObserveBackend(op, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	m.backendRequests.WithLabelValues(op, method, code).Inc()
	m.backendLatency.WithLabelValues(op).Observe(d.Seconds())
}

// Submission cuenta un envío de formulario (form: dog_profile|adoption_request).
func (m *Metrics) Submission(form, outcome string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(form, outcome).Inc()
}

// Confirmation cuenta una confirmación resuelta (action: transition|delete_dog).
func (m *Metrics) Confirmation(action, outcome string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(action, outcome).Inc()
}

// HTTPRequest cuenta un request servido; route es el patrón chi, no el path.
func (m *Metrics) HTTPRequest(method, route string, status int) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}
