package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/alisharafiiii/nabulines-backup/events"
	"github.com/alisharafiiii/nabulines-backup/internal/auth/oauth1"
	"github.com/alisharafiiii/nabulines-backup/internal/util"
	"github.com/alisharafiiii/nabulines-backup/models"
)

// twitterCallbackURL is where Twitter sends the user after authorization.
func (h *Handlers) twitterCallbackURL() string {
	if h.config.Twitter.CallbackURL != "" {
		return h.config.Twitter.CallbackURL
	}
	return h.config.BaseURL + "/api/auth/twitter/callback"
}

// redirectWithError sends the browser back to the frontend with an error
// marker. OAuth legs redirect rather than render JSON.
func redirectWithError(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r, "/?error="+url.QueryEscape(code), http.StatusFound)
}

// TwitterLogin starts the OAuth 1.0a flow: fetch a request token, cache
// its secret for the callback and hand the authorization URL to the
// frontend.
func (h *Handlers) TwitterLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	requestToken, err := h.twitterClient.RequestToken(ctx, h.twitterCallbackURL())
	if err != nil {
		h.logger.Error("twitter request token failed", "error", err)
		util.ErrorResponse(w, http.StatusInternalServerError, "failed to start Twitter login")
		return
	}

	if err := h.twitter.SaveTempSecret(ctx, requestToken.Key, requestToken.Secret); err != nil {
		h.logger.Error("failed to cache request token secret", "error", err)
		util.ErrorResponse(w, http.StatusInternalServerError, "failed to start Twitter login")
		return
	}

	w.Header().Set("Cache-Control", "no-store, max-age=0")
	util.JSONResponse(w, http.StatusOK, map[string]string{
		"authUrl": h.twitterClient.AuthorizeURL(requestToken.Key),
	})
}

// TwitterCallback completes the flow: exchange the verifier for access
// credentials, enrich with users/show when possible, persist the record
// and send the browser back to the frontend. A store write that fails
// after the exchange completed is logged, not rolled back.
func (h *Handlers) TwitterCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.URL.Query().Get("denied") != "" {
		redirectWithError(w, r, "access_denied")
		return
	}

	oauthToken := r.URL.Query().Get("oauth_token")
	verifier := r.URL.Query().Get("oauth_verifier")
	if oauthToken == "" || verifier == "" {
		redirectWithError(w, r, "missing_parameters")
		return
	}

	secret, err := h.twitter.TempSecret(ctx, oauthToken)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			redirectWithError(w, r, "session_expired")
			return
		}
		h.logger.Error("failed to load request token secret", "error", err)
		redirectWithError(w, r, "internal_error")
		return
	}

	access, err := h.twitterClient.AccessToken(ctx, &oauth1.Token{Key: oauthToken, Secret: secret}, verifier)
	if err != nil {
		h.logger.Error("twitter token exchange failed", "error", err)
		redirectWithError(w, r, "token_exchange_failed")
		return
	}

	user := &models.TwitterUser{
		AccessToken:       access.Token.Key,
		AccessTokenSecret: access.Token.Secret,
		UserID:            access.UserID,
		ScreenName:        access.ScreenName,
		VerifiedAt:        time.Now().UTC().Format(time.RFC3339),
		Timestamp:         time.Now().UnixMilli(),
	}

	// Profile enrichment is best effort
	profile, err := h.twitterClient.UsersShow(ctx, access.ScreenName, &access.Token)
	if err != nil {
		h.logger.Warn("twitter profile enrichment failed", "error", err, "screen_name", access.ScreenName)
	} else {
		user.Name = profile.Name
		user.ProfileImageURL = profile.ProfileImageURL()
		user.FollowersCount = profile.FollowersCount
		user.FriendsCount = profile.FriendsCount
		user.Verified = profile.Verified
		user.Description = profile.Description
		user.Location = profile.Location
	}

	if err := h.twitter.SaveUser(ctx, user); err != nil {
		h.logger.Error("failed to persist twitter user after completed exchange",
			"error", err, "screen_name", access.ScreenName)
	} else {
		h.publish(ctx, events.TopicTwitterVerified, map[string]any{
			"screen_name": user.ScreenName,
			"followers":   user.FollowersCount,
		})
	}

	if err := h.twitter.DeleteTempSecret(ctx, oauthToken); err != nil {
		h.logger.Warn("failed to delete consumed request token", "error", err)
	}

	http.Redirect(w, r, "/?twitter_login=success", http.StatusFound)
}

// TwitterUser returns a fresh profile for a verified user together with
// a NABUPASS credential. Lookup by screen name, or by user id when only
// that is known.
func (h *Handlers) TwitterUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	screenName := util.GetQueryParam(r, "screenName", "")
	userID := util.GetQueryParam(r, "userId", "")
	if screenName == "" && userID == "" {
		util.ErrorResponse(w, http.StatusBadRequest, "screenName or userId is required")
		return
	}

	if screenName == "" {
		verified, err := h.twitter.VerifiedUsers(ctx)
		if err != nil {
			h.logger.Error("failed to list verified users", "error", err)
			util.ErrorResponse(w, http.StatusInternalServerError, "failed to load user")
			return
		}
		for _, v := range verified {
			if v.UserID == userID {
				screenName = v.ScreenName
				break
			}
		}
		if screenName == "" {
			util.ErrorResponse(w, http.StatusNotFound, "user not found")
			return
		}
	}

	user, err := h.twitter.User(ctx, screenName)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrKeyNotFound) {
			util.ErrorResponse(w, http.StatusNotFound, "user not found")
			return
		}
		h.logger.Error("failed to load twitter user", "error", err)
		util.ErrorResponse(w, http.StatusInternalServerError, "failed to load user")
		return
	}

	// Refresh the snapshot with live data when Twitter answers
	profile, err := h.twitterClient.UsersShow(ctx, user.ScreenName, &oauth1.Token{
		Key:    user.AccessToken,
		Secret: user.AccessTokenSecret,
	})
	if err != nil {
		h.logger.Warn("live profile fetch failed, serving stored snapshot",
			"error", err, "screen_name", user.ScreenName)
	} else {
		user.Name = profile.Name
		user.ProfileImageURL = profile.ProfileImageURL()
		user.FollowersCount = profile.FollowersCount
		user.FriendsCount = profile.FriendsCount
		user.Verified = profile.Verified
		user.Description = profile.Description
		user.Location = profile.Location
	}

	passport, err := h.passports.Issue(user)
	if err != nil {
		h.logger.Error("failed to issue passport", "error", err)
		util.ErrorResponse(w, http.StatusInternalServerError, "failed to issue passport")
		return
	}

	util.JSONResponse(w, http.StatusOK, map[string]any{
		"user": models.VerifiedTwitterUser{
			ScreenName:      user.ScreenName,
			Name:            user.Name,
			ProfileImageURL: user.ProfileImageURL,
			FollowersCount:  user.FollowersCount,
			FriendsCount:    user.FriendsCount,
			Verified:        user.Verified,
			Description:     user.Description,
			Location:        user.Location,
			VerifiedAt:      user.VerifiedAt,
			UserID:          user.UserID,
			Timestamp:       user.Timestamp,
		},
		"passport": passport,
	})
}
