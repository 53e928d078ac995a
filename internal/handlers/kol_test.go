package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const kolBody = `{
	"walletAddress": "0xAA",
	"username": "nabu",
	"socialAccounts": {"twitter": {"handle": "nabu", "followers": 500}},
	"activeChain": "base",
	"targetCountry": "KR",
	"contentTypes": ["video"],
	"platforms": ["twitter", "tiktok"]
}`

func TestCreateAndListKOL(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/kol", kolBody, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodGet, "/api/kol", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		KOLs []struct {
			WalletAddress string `json:"walletAddress"`
			Username      string `json:"username"`
			ActiveChain   string `json:"activeChain"`
		} `json:"kols"`
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 1, body.Count)
	assert.Equal(t, "0xAA", body.KOLs[0].WalletAddress)
	assert.Equal(t, "base", body.KOLs[0].ActiveChain)
}

func TestCreateKOLDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)

	require.Equal(t, http.StatusOK, env.do(http.MethodPost, "/api/kol", kolBody, nil).Code)

	rec := env.do(http.MethodPost, "/api/kol",
		`{"walletAddress":"0xBB","username":"nabu"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "username already taken", body["error"])
}

func TestCreateKOLMissingFields(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/kol", `{"username":"nabu"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListKOLLimit(t *testing.T) {
	env := newTestEnv(t)

	require.Equal(t, http.StatusOK, env.do(http.MethodPost, "/api/kol", kolBody, nil).Code)
	require.Equal(t, http.StatusOK, env.do(http.MethodPost, "/api/kol",
		`{"walletAddress":"0xBB","username":"lines"}`, nil).Code)

	rec := env.do(http.MethodGet, "/api/kol?limit=1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
}

func TestListKOLFiltered(t *testing.T) {
	env := newTestEnv(t)

	require.Equal(t, http.StatusOK, env.do(http.MethodPost, "/api/kol", kolBody, nil).Code)
	require.Equal(t, http.StatusOK, env.do(http.MethodPost, "/api/kol",
		`{"walletAddress":"0xBB","username":"lines","activeChain":"solana","platforms":["youtube"]}`, nil).Code)

	rec := env.do(http.MethodGet, "/api/kol?chain=base", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)

	rec = env.do(http.MethodGet, "/api/kol?platform=youtube", "", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
}
