package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alisharafiiii/nabulines-backup/internal/auth/tiktok"
	"github.com/alisharafiiii/nabulines-backup/internal/security"
)

func fakeTikTok(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"access_token":"act","token_type":"Bearer","expires_in":86400,"open_id":"open-1"}`))
		case "/user":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"data":{"user":{"open_id":"open-1","display_name":"nabu.tok","avatar_url":"https://cdn/a.jpg"}}}`))
		default:
			http.NotFound(w, r)
		}
	}))
}

func pointAtFakeTikTok(env *testEnv, serverURL string) {
	env.handlers.tiktok = tiktok.NewProvider("key", "secret", "cb").
		WithEndpoints(serverURL+"/auth", serverURL+"/token", serverURL+"/user")
}

func signedTikTokState(t *testing.T, payload string) string {
	t.Helper()
	state, err := security.SignState(payload, security.DeriveStateKey(testSecret))
	require.NoError(t, err)
	return state
}

func TestTikTokLoginRedirects(t *testing.T) {
	env := newTestEnv(t)
	server := fakeTikTok(t)
	defer server.Close()
	pointAtFakeTikTok(env, server.URL)

	rec := env.do(http.MethodGet, "/api/auth/tiktok?address=0xAA", "", nil)
	require.Equal(t, http.StatusFound, rec.Code)

	location := rec.Header().Get("Location")
	assert.Contains(t, location, "client_key=key")
	assert.Contains(t, location, "state=")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, tiktokStateCookie, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
}

func TestTikTokCallbackSuccess(t *testing.T) {
	env := newTestEnv(t)
	server := fakeTikTok(t)
	defer server.Close()
	pointAtFakeTikTok(env, server.URL)
	claimNabu(t, env)

	state := signedTikTokState(t, "0xAA")

	req := httptest.NewRequest(http.MethodGet, "/api/auth/tiktok/callback?state="+state+"&code=abc", nil)
	req.AddCookie(&http.Cookie{Name: tiktokStateCookie, Value: state})
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/?tiktok_login=success", rec.Header().Get("Location"))

	entries, err := env.handlers.socials.Entries(context.Background(), "nabu")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "tiktok", entries[0].Platform)
	assert.Equal(t, "nabu.tok", entries[0].Handle)
}

func TestTikTokCallbackStateMismatch(t *testing.T) {
	env := newTestEnv(t)

	state := signedTikTokState(t, "0xAA")
	req := httptest.NewRequest(http.MethodGet, "/api/auth/tiktok/callback?state="+state+"&code=abc", nil)
	req.AddCookie(&http.Cookie{Name: tiktokStateCookie, Value: "different"})
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/?error=state_mismatch", rec.Header().Get("Location"))
}

func TestTikTokCallbackTamperedState(t *testing.T) {
	env := newTestEnv(t)

	tampered, err := security.SignState("0xAA", security.DeriveStateKey("some-other-secret"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/tiktok/callback?state="+tampered+"&code=abc", nil)
	req.AddCookie(&http.Cookie{Name: tiktokStateCookie, Value: tampered})
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/?error=invalid_state", rec.Header().Get("Location"))
}

func TestTikTokCallbackMissingParameters(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/auth/tiktok/callback", "", nil)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/?error=missing_parameters", rec.Header().Get("Location"))
}

func TestTikTokCallbackProviderError(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/auth/tiktok/callback?error=access_denied", "", nil)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/?error=access_denied", rec.Header().Get("Location"))
}
