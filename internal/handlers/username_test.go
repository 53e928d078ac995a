package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaimAndGetUsername(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/username", `{"address":"0xAA","username":"nabu"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodGet, "/api/username?address=0xAA", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "nabu", body["username"])
}

func TestGetUsernameMissingAddress(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/username", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetUsernameUnknownAddress(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/username?address=0xDEAD", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestClaimUsernameTakenByOtherAddress(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/username", `{"address":"0xAA","username":"nabu"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodPost, "/api/username", `{"address":"0xBB","username":"nabu"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "username already taken", body["error"])
}

func TestClaimUsernameIdempotentForSameAddress(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/username", `{"address":"0xAA","username":"nabu"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodPost, "/api/username", `{"address":"0xAA","username":"nabu"}`, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestClaimUsernameMissingFields(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/username", `{"address":"0xAA"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodPost, "/api/username", `not json`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAllUsernames(t *testing.T) {
	env := newTestEnv(t)

	require.Equal(t, http.StatusOK, env.do(http.MethodPost, "/api/username", `{"address":"0xAA","username":"nabu"}`, nil).Code)
	require.Equal(t, http.StatusOK, env.do(http.MethodPost, "/api/username", `{"address":"0xBB","username":"lines"}`, nil).Code)

	rec := env.do(http.MethodGet, "/api/username/all", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Users []struct {
			Address  string `json:"address"`
			Username string `json:"username"`
		} `json:"users"`
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Count)
	assert.Len(t, body.Users, 2)
}
