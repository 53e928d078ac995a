package handlers

import (
	"net/http"
	"time"

	"github.com/alisharafiiii/nabulines-backup/events"
	"github.com/alisharafiiii/nabulines-backup/internal/security"
	"github.com/alisharafiiii/nabulines-backup/models"
)

const (
	tiktokStateCookie = "tiktok_oauth_state"
	tiktokStateMaxAge = 10 * time.Minute
)

// TikTokLogin starts the OAuth2 flow. The caller's wallet address rides
// inside the signed state so the callback can attach the profile to the
// linked username.
func (h *Handlers) TikTokLogin(w http.ResponseWriter, r *http.Request) {
	payload := r.URL.Query().Get("address")
	if payload == "" {
		random, err := security.GenerateRandomString(16)
		if err != nil {
			h.logger.Error("failed to generate state", "error", err)
			redirectWithError(w, r, "internal_error")
			return
		}
		payload = "anon:" + random
	}

	state, err := security.SignState(payload, security.DeriveStateKey(h.config.Secret))
	if err != nil {
		h.logger.Error("failed to sign state", "error", err)
		redirectWithError(w, r, "internal_error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     tiktokStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   int(tiktokStateMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.tiktok.GetAuthURL(state), http.StatusFound)
}

// TikTokCallback finishes the flow: validate the signed state against
// the cookie, exchange the code, fetch the profile and store it under
// the caller's username when one is linked.
func (h *Handlers) TikTokCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.URL.Query().Get("error") != "" {
		redirectWithError(w, r, "access_denied")
		return
	}

	state := r.URL.Query().Get("state")
	code := r.URL.Query().Get("code")
	if state == "" || code == "" {
		redirectWithError(w, r, "missing_parameters")
		return
	}

	cookie, err := r.Cookie(tiktokStateCookie)
	if err != nil || cookie.Value != state {
		redirectWithError(w, r, "state_mismatch")
		return
	}

	payload, err := security.ValidateState(state, security.DeriveStateKey(h.config.Secret), tiktokStateMaxAge)
	if err != nil {
		h.logger.Warn("tiktok state validation failed", "error", err)
		redirectWithError(w, r, "invalid_state")
		return
	}

	// Consume the cookie
	http.SetCookie(w, &http.Cookie{
		Name:     tiktokStateCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	token, err := h.tiktok.Exchange(ctx, code)
	if err != nil {
		h.logger.Error("tiktok token exchange failed", "error", err)
		redirectWithError(w, r, "token_exchange_failed")
		return
	}

	info, err := h.tiktok.GetUserInfo(ctx, token)
	if err != nil {
		h.logger.Error("tiktok user info fetch failed", "error", err)
		redirectWithError(w, r, "profile_fetch_failed")
		return
	}

	// Attach the profile to the linked username when the state carried a
	// wallet address that has claimed one.
	address := payload
	if username, err := h.identities.UsernameForAddress(ctx, address); err == nil {
		entry := models.SocialEntry{
			Platform:  "tiktok",
			Handle:    info.DisplayName,
			Followers: 0,
			Timestamp: time.Now().UnixMilli(),
		}
		if _, err := h.socials.UpsertPlatform(ctx, username, entry); err != nil {
			h.logger.Error("failed to save tiktok entry", "error", err, "username", username)
		} else {
			h.publish(ctx, events.TopicSocialUpdated, map[string]any{
				"username": username,
				"entry":    entry,
			})
		}
	}

	http.Redirect(w, r, "/?tiktok_login=success", http.StatusFound)
}
