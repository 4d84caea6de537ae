package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// findMetric returns the gathered sample of family name whose labels include
// all of labels.
func findMetric(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) *dto.Metric {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			have := make(map[string]string, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				have[lp.GetName()] = lp.GetValue()
			}
			match := true
			for k, v := range labels {
				if have[k] != v {
					match = false
					break
				}
			}
			if match {
				return m
			}
		}
	}
	return nil
}

func metricsRouter(m *HTTPMetrics) *chi.Mux {
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/walkrequests/{id}", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "id") == "0" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	return r
}

func TestHTTPMetrics_CountsByRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := metricsRouter(NewHTTPMetrics(reg, "dogwalk"))

	for _, path := range []string{"/api/walkrequests/1", "/api/walkrequests/2", "/api/walkrequests/0"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	ok := findMetric(t, reg, "http_requests_total", map[string]string{
		"service": "dogwalk", "method": "GET", "path": "/api/walkrequests/{id}", "status": "200",
	})
	require.NotNil(t, ok)
	assert.Equal(t, 2.0, ok.GetCounter().GetValue())

	bad := findMetric(t, reg, "http_requests_total", map[string]string{"status": "400"})
	require.NotNil(t, bad)
	assert.Equal(t, 1.0, bad.GetCounter().GetValue())

	hist := findMetric(t, reg, "http_request_duration_seconds", map[string]string{"status": "200"})
	require.NotNil(t, hist)
	assert.Equal(t, uint64(2), hist.GetHistogram().GetSampleCount())
}

func TestHTTPMetrics_InFlightReturnsToZero(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg, "dogwalk")

	var during float64
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		g := findMetric(t, reg, "http_requests_in_flight", nil)
		during = g.GetGauge().GetValue()
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, 1.0, during)
	assert.Equal(t, 0.0, findMetric(t, reg, "http_requests_in_flight", nil).GetGauge().GetValue())
}

func TestHTTPMetrics_UnmatchedRoute(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg, "dogwalk")

	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.NotNil(t, findMetric(t, reg, "http_requests_total", map[string]string{"path": "unmatched", "status": "404"}))
}

func TestNewHTTPMetrics_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewHTTPMetrics(reg, "dogwalk")
	assert.Panics(t, func() { NewHTTPMetrics(reg, "dogwalk") })
}
