package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/alisharafiiii/nabulines-backup/internal/auth/oauth1"
	"github.com/alisharafiiii/nabulines-backup/internal/auth/tiktok"
	"github.com/alisharafiiii/nabulines-backup/internal/repositories"
	"github.com/alisharafiiii/nabulines-backup/internal/services"
	"github.com/alisharafiiii/nabulines-backup/internal/storage"
	"github.com/alisharafiiii/nabulines-backup/internal/util"
	"github.com/alisharafiiii/nabulines-backup/models"
)

const (
	testAdminWallet = "0x37Ed24e7c7311836FD01702A882937138688c1A9"
	testSecret      = "nabulines-test-secret-0123456789ab"
)

// testEnv assembles handlers over an in-memory store, with the OAuth
// clients pointed at override URLs set per test.
type testEnv struct {
	handlers *Handlers
	store    *storage.MemoryStore
	router   chi.Router
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	util.InitValidator()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := storage.NewMemoryStore(nil)
	t.Cleanup(func() { store.Close() })

	config := &models.Config{
		AppName:     "NABULINES",
		BaseURL:     "https://nabulines.com",
		Secret:      testSecret,
		AdminWallet: testAdminWallet,
	}

	passports, err := services.NewPassportService(logger, testSecret)
	require.NoError(t, err)

	h := New(Deps{
		Logger:        logger,
		Config:        config,
		Store:         store,
		Identities:    repositories.NewKVIdentityRepository(store, logger),
		Socials:       repositories.NewKVSocialRepository(store, logger),
		Twitter:       repositories.NewKVTwitterRepository(store, logger),
		KOLs:          repositories.NewKVKOLRepository(store, logger),
		TwitterClient: oauth1.NewClient(oauth1.NewSigner("ck", "cs")),
		TikTok:        tiktok.NewProvider("key", "secret", "https://nabulines.com/api/auth/tiktok/callback"),
		Passports:     passports,
	})

	router := chi.NewRouter()
	h.RegisterRoutes(router)

	return &testEnv{handlers: h, store: store, router: router}
}

func (e *testEnv) do(method, target, body string, header map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func adminHeader() map[string]string {
	return map[string]string{"x-wallet-address": testAdminWallet}
}

func TestRouteNotFound(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodGet, "/api/nope", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
