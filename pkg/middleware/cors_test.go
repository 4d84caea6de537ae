package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func corsRequest(h http.Handler, method, origin string, preflight bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/api/walkrequests", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	if preflight {
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestCORS_AllowedOriginEchoedWithCredentials(t *testing.T) {
	h := CORS(DefaultCORSConfig([]string{"https://walks.example.com/"}))(okHandler())

	rec := corsRequest(h, http.MethodGet, "https://walks.example.com", false)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://walks.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, CorrelationHeader, rec.Header().Get("Access-Control-Expose-Headers"))
	assert.Contains(t, rec.Header().Values("Vary"), "Origin")
}

func TestCORS_UnknownOriginGetsNoHeaders(t *testing.T) {
	h := CORS(DefaultCORSConfig([]string{"https://walks.example.com"}))(okHandler())

	rec := corsRequest(h, http.MethodGet, "https://evil.example.com", false)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_WildcardWithCredentialsEchoesOrigin(t *testing.T) {
	h := CORS(DefaultCORSConfig([]string{"*"}))(okHandler())

	rec := corsRequest(h, http.MethodGet, "http://localhost:3000", false)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_WildcardWithoutCredentials(t *testing.T) {
	cfg := DefaultCORSConfig([]string{"*"})
	cfg.AllowCredentials = false
	h := CORS(cfg)(okHandler())

	rec := corsRequest(h, http.MethodGet, "http://localhost:3000", false)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_Preflight(t *testing.T) {
	reached := false
	h := CORS(DefaultCORSConfig([]string{"https://walks.example.com"}))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	}))

	rec := corsRequest(h, http.MethodOptions, "https://walks.example.com", true)

	assert.False(t, reached)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "GET, POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Accept, Content-Type, X-Correlation-ID", rec.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "3600", rec.Header().Get("Access-Control-Max-Age"))
}

func TestCORS_PreflightFromUnknownOrigin(t *testing.T) {
	h := CORS(DefaultCORSConfig([]string{"https://walks.example.com"}))(okHandler())

	rec := corsRequest(h, http.MethodOptions, "https://evil.example.com", true)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Methods"))
}

func TestCORS_PlainOptionsReachesHandler(t *testing.T) {
	h := CORS(DefaultCORSConfig([]string{"*"}))(okHandler())

	rec := corsRequest(h, http.MethodOptions, "", false)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORS_EmptyFieldsUseDefaults(t *testing.T) {
	h := CORS(CORSConfig{AllowedOrigins: []string{"https://walks.example.com"}})(okHandler())

	rec := corsRequest(h, http.MethodOptions, "https://walks.example.com", true)
	assert.Equal(t, "GET, POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "3600", rec.Header().Get("Access-Control-Max-Age"))
}
