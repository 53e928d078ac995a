package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alisharafiiii/nabulines-backup/internal/storage"
	"github.com/alisharafiiii/nabulines-backup/models"
)

const adminWallet = "0x37Ed24e7c7311836FD01702A882937138688c1A9"

func testLogger() models.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAdminOnlyMissingWallet(t *testing.T) {
	handler := AdminOnly(adminWallet)(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/users", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "wallet address required", body["error"])
}

func TestAdminOnlyWrongWallet(t *testing.T) {
	handler := AdminOnly(adminWallet)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	req.Header.Set(WalletHeader, "0x0000000000000000000000000000000000000bad")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminOnlyCaseInsensitive(t *testing.T) {
	handler := AdminOnly(adminWallet)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	req.Header.Set(WalletHeader, "0X37ED24E7C7311836FD01702A882937138688C1A9")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitBlocksOverLimit(t *testing.T) {
	store := storage.NewMemoryStore(nil)
	defer store.Close()

	config := models.RateLimitConfig{Enabled: true, Window: time.Minute, MaxRequests: 3}
	handler := RateLimit(store, testLogger(), config)(okHandler())

	var rec *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		rec = httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/username", nil)
		req.RemoteAddr = "10.1.2.3:5000"
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/username", nil)
	req.RemoteAddr = "10.1.2.3:5000"
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimitSeparatePerIP(t *testing.T) {
	store := storage.NewMemoryStore(nil)
	defer store.Close()

	config := models.RateLimitConfig{Enabled: true, Window: time.Minute, MaxRequests: 1}
	handler := RateLimit(store, testLogger(), config)(okHandler())

	first := httptest.NewRequest(http.MethodGet, "/api/username", nil)
	first.RemoteAddr = "10.0.0.1:1000"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, first)
	assert.Equal(t, http.StatusOK, rec.Code)

	second := httptest.NewRequest(http.MethodGet, "/api/username", nil)
	second.RemoteAddr = "10.0.0.2:1000"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, second)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitDisabledPassesThrough(t *testing.T) {
	store := storage.NewMemoryStore(nil)
	defer store.Close()

	config := models.RateLimitConfig{Enabled: false}
	handler := RateLimit(store, testLogger(), config)(okHandler())

	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/username", nil)
		req.RemoteAddr = "10.1.2.3:5000"
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRequestLogPassesThrough(t *testing.T) {
	handler := RequestLog(testLogger())(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/social/stats", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}
