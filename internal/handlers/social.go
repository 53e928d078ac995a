package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/alisharafiiii/nabulines-backup/events"
	"github.com/alisharafiiii/nabulines-backup/internal/util"
	"github.com/alisharafiiii/nabulines-backup/models"
)

// GetSocial returns the social entries for the username claimed by an
// address.
func (h *Handlers) GetSocial(w http.ResponseWriter, r *http.Request) {
	address := util.GetQueryParam(r, "address", "")
	if address == "" {
		util.ErrorResponse(w, http.StatusBadRequest, "address is required")
		return
	}

	username, err := h.identities.UsernameForAddress(r.Context(), address)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			util.ErrorResponse(w, http.StatusNotFound, "no username for address")
			return
		}
		h.logger.Error("failed to resolve address", "error", err)
		util.ErrorResponse(w, http.StatusInternalServerError, "failed to load social data")
		return
	}

	entries, err := h.socials.Entries(r.Context(), username)
	if err != nil {
		h.logger.Error("failed to load social entries", "error", err, "username", username)
		util.ErrorResponse(w, http.StatusInternalServerError, "failed to load social data")
		return
	}

	util.JSONResponse(w, http.StatusOK, map[string]any{
		"username":   username,
		"socialData": entries,
	})
}

// updateSocialRequest leaves followers untyped so a non-numeric value
// can be rejected with 400 instead of a decode error.
type updateSocialRequest struct {
	Address   string `json:"address"`
	Username  string `json:"username"`
	Platform  string `json:"platform"`
	Handle    string `json:"handle"`
	Followers any    `json:"followers"`
}

// UpdateSocial upserts one platform entry for the caller's username.
// The address must own the username or the request is rejected with 401.
func (h *Handlers) UpdateSocial(w http.ResponseWriter, r *http.Request) {
	var req updateSocialRequest
	if err := util.ParseJSON(r, &req); err != nil {
		util.ErrorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Address == "" || req.Username == "" || req.Platform == "" || req.Handle == "" {
		util.ErrorResponse(w, http.StatusBadRequest, "address, username, platform and handle are required")
		return
	}

	followers, err := parseFollowers(req.Followers)
	if err != nil {
		util.ErrorResponse(w, http.StatusBadRequest, "followers must be a number")
		return
	}

	owner, err := h.identities.UsernameForAddress(r.Context(), req.Address)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			util.ErrorResponse(w, http.StatusUnauthorized, "address does not own this username")
			return
		}
		h.logger.Error("failed to resolve address", "error", err)
		util.ErrorResponse(w, http.StatusInternalServerError, "failed to save social data")
		return
	}
	if !strings.EqualFold(owner, req.Username) {
		util.ErrorResponse(w, http.StatusUnauthorized, "address does not own this username")
		return
	}

	entry := models.SocialEntry{
		Platform:  req.Platform,
		Handle:    req.Handle,
		Followers: followers,
		Timestamp: time.Now().UnixMilli(),
	}

	entries, err := h.socials.UpsertPlatform(r.Context(), owner, entry)
	if err != nil {
		if errors.Is(err, models.ErrInvalidRecord) {
			util.ErrorResponseWithDetails(w, http.StatusBadRequest, "invalid social entry", err.Error())
			return
		}
		h.logger.Error("failed to save social entry", "error", err, "username", owner)
		util.ErrorResponse(w, http.StatusInternalServerError, "failed to save social data")
		return
	}

	h.publish(r.Context(), events.TopicSocialUpdated, map[string]any{
		"username": owner,
		"entry":    entry,
	})

	util.JSONResponse(w, http.StatusOK, map[string]any{
		"success":    true,
		"socialData": entries,
	})
}

// SocialStats aggregates user and follower totals for one platform.
func (h *Handlers) SocialStats(w http.ResponseWriter, r *http.Request) {
	platform := util.GetQueryParam(r, "platform", "")
	if platform == "" {
		util.ErrorResponse(w, http.StatusBadRequest, "platform is required")
		return
	}

	stats, err := h.socials.PlatformStats(r.Context(), platform)
	if err != nil {
		h.logger.Error("failed to aggregate platform stats", "error", err, "platform", platform)
		util.ErrorResponse(w, http.StatusInternalServerError, "failed to load stats")
		return
	}

	util.JSONResponse(w, http.StatusOK, stats)
}

// parseFollowers coerces the untyped followers field into an int64.
// Numbers and numeric strings are accepted, anything else is an error.
func parseFollowers(raw any) (int64, error) {
	switch v := raw.(type) {
	case nil:
		return 0, nil
	case float64:
		return int64(v), nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, err
		}
		return n, nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, err
		}
		return n, nil
	default:
		return 0, errors.New("followers is not a number")
	}
}
