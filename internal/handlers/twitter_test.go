package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alisharafiiii/nabulines-backup/internal/auth/oauth1"
	"github.com/alisharafiiii/nabulines-backup/models"
)

// fakeTwitter stands in for the Twitter API across all three legs.
func fakeTwitter(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/request_token":
			w.Write([]byte("oauth_token=reqtok&oauth_token_secret=reqsec&oauth_callback_confirmed=true"))
		case "/oauth/access_token":
			w.Write([]byte("oauth_token=acctok&oauth_token_secret=accsec&user_id=12345&screen_name=nabu"))
		case "/1.1/users/show.json":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"screen_name": "nabu",
				"name": "Nabu Lines",
				"profile_image_url_https": "https://pbs.twimg.com/1/x_normal.jpg",
				"followers_count": 500,
				"friends_count": 10,
				"verified": true
			}`))
		default:
			http.NotFound(w, r)
		}
	}))
}

func pointAtFakeTwitter(env *testEnv, serverURL string) {
	env.handlers.twitterClient = oauth1.NewClient(oauth1.NewSigner("ck", "cs")).WithBaseURL(serverURL)
}

func TestTwitterLogin(t *testing.T) {
	env := newTestEnv(t)
	server := fakeTwitter(t)
	defer server.Close()
	pointAtFakeTwitter(env, server.URL)

	rec := env.do(http.MethodGet, "/api/auth/twitter", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Cache-Control"), "no-store")

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["authUrl"], "/oauth/authorize?oauth_token=reqtok")

	// The temp secret must be retrievable for the callback leg
	secret, err := env.handlers.twitter.TempSecret(context.Background(), "reqtok")
	require.NoError(t, err)
	assert.Equal(t, "reqsec", secret)
}

func TestTwitterCallbackSuccess(t *testing.T) {
	env := newTestEnv(t)
	server := fakeTwitter(t)
	defer server.Close()
	pointAtFakeTwitter(env, server.URL)

	require.NoError(t, env.handlers.twitter.SaveTempSecret(context.Background(), "reqtok", "reqsec"))

	rec := env.do(http.MethodGet, "/api/auth/twitter/callback?oauth_token=reqtok&oauth_verifier=v123", "", nil)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/?twitter_login=success", rec.Header().Get("Location"))

	user, err := env.handlers.twitter.User(context.Background(), "nabu")
	require.NoError(t, err)
	assert.Equal(t, "acctok", user.AccessToken)
	assert.Equal(t, "Nabu Lines", user.Name)
	assert.Equal(t, int64(500), user.FollowersCount)
	assert.Equal(t, "https://pbs.twimg.com/1/x.jpg", user.ProfileImageURL)

	// Temp token is consumed
	_, err = env.handlers.twitter.TempSecret(context.Background(), "reqtok")
	assert.Error(t, err)
}

func TestTwitterCallbackDenied(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/auth/twitter/callback?denied=reqtok", "", nil)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/?error=access_denied", rec.Header().Get("Location"))
}

func TestTwitterCallbackMissingParameters(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/auth/twitter/callback?oauth_token=reqtok", "", nil)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/?error=missing_parameters", rec.Header().Get("Location"))
}

func TestTwitterCallbackExpiredSession(t *testing.T) {
	env := newTestEnv(t)
	server := fakeTwitter(t)
	defer server.Close()
	pointAtFakeTwitter(env, server.URL)

	rec := env.do(http.MethodGet, "/api/auth/twitter/callback?oauth_token=unknown&oauth_verifier=v", "", nil)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/?error=session_expired", rec.Header().Get("Location"))
}

func TestTwitterUserIssuesPassport(t *testing.T) {
	env := newTestEnv(t)
	server := fakeTwitter(t)
	defer server.Close()
	pointAtFakeTwitter(env, server.URL)

	require.NoError(t, env.handlers.twitter.SaveUser(context.Background(), &models.TwitterUser{
		AccessToken:       "acctok",
		AccessTokenSecret: "accsec",
		UserID:            "12345",
		ScreenName:        "nabu",
	}))

	rec := env.do(http.MethodGet, "/api/twitter/user?screenName=nabu", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		User struct {
			ScreenName     string `json:"screen_name"`
			FollowersCount int64  `json:"followers_count"`
		} `json:"user"`
		Passport struct {
			ID    string `json:"id"`
			Token string `json:"token"`
		} `json:"passport"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "nabu", body.User.ScreenName)
	assert.Equal(t, int64(500), body.User.FollowersCount)
	assert.True(t, strings.HasPrefix(body.Passport.ID, "NABUPASS-"))
	assert.NotEmpty(t, body.Passport.Token)
}

func TestTwitterUserByUserID(t *testing.T) {
	env := newTestEnv(t)
	server := fakeTwitter(t)
	defer server.Close()
	pointAtFakeTwitter(env, server.URL)

	require.NoError(t, env.handlers.twitter.SaveUser(context.Background(), &models.TwitterUser{
		AccessToken:       "acctok",
		AccessTokenSecret: "accsec",
		UserID:            "12345",
		ScreenName:        "nabu",
	}))

	rec := env.do(http.MethodGet, "/api/twitter/user?userId=12345", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTwitterUserMissingParams(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/twitter/user", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTwitterUserNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/twitter/user?screenName=ghost", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
