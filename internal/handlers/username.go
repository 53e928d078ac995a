package handlers

import (
	"errors"
	"net/http"

	"github.com/alisharafiiii/nabulines-backup/events"
	"github.com/alisharafiiii/nabulines-backup/internal/util"
	"github.com/alisharafiiii/nabulines-backup/models"
)

// GetUsername resolves the username claimed by a wallet address.
func (h *Handlers) GetUsername(w http.ResponseWriter, r *http.Request) {
	address := util.GetQueryParam(r, "address", "")
	if address == "" {
		util.ErrorResponse(w, http.StatusBadRequest, "address is required")
		return
	}

	username, err := h.identities.UsernameForAddress(r.Context(), address)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			util.ErrorResponse(w, http.StatusNotFound, "username not found")
			return
		}
		h.logger.Error("failed to look up username", "error", err)
		util.ErrorResponse(w, http.StatusInternalServerError, "failed to look up username")
		return
	}

	util.JSONResponse(w, http.StatusOK, map[string]string{
		"address":  address,
		"username": username,
	})
}

type claimUsernameRequest struct {
	Address  string `json:"address"`
	Username string `json:"username"`
}

// ClaimUsername binds a username to a wallet address. The claim is
// atomic, so a username taken by a different address returns 400.
func (h *Handlers) ClaimUsername(w http.ResponseWriter, r *http.Request) {
	var req claimUsernameRequest
	if err := util.ParseJSON(r, &req); err != nil {
		util.ErrorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Address == "" || req.Username == "" {
		util.ErrorResponse(w, http.StatusBadRequest, "address and username are required")
		return
	}

	if err := h.identities.ClaimUsername(r.Context(), req.Address, req.Username); err != nil {
		if errors.Is(err, models.ErrUsernameTaken) {
			util.ErrorResponse(w, http.StatusBadRequest, "username already taken")
			return
		}
		h.logger.Error("failed to claim username", "error", err)
		util.ErrorResponse(w, http.StatusInternalServerError, "failed to save username")
		return
	}

	h.publish(r.Context(), events.TopicUserRegistered, models.Identity{
		Address:  req.Address,
		Username: req.Username,
	})

	util.JSONResponse(w, http.StatusOK, map[string]any{
		"success":  true,
		"username": req.Username,
	})
}

// AllUsernames lists every address to username pair.
func (h *Handlers) AllUsernames(w http.ResponseWriter, r *http.Request) {
	identities, err := h.identities.AllIdentities(r.Context())
	if err != nil {
		h.logger.Error("failed to list identities", "error", err)
		util.ErrorResponse(w, http.StatusInternalServerError, "failed to list usernames")
		return
	}

	util.JSONResponse(w, http.StatusOK, map[string]any{
		"users": identities,
		"count": len(identities),
	})
}
