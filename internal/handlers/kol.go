package handlers

import (
	"errors"
	"net/http"

	"github.com/alisharafiiii/nabulines-backup/events"
	"github.com/alisharafiiii/nabulines-backup/internal/util"
	"github.com/alisharafiiii/nabulines-backup/models"
)

// ListKOLs returns KOL profiles matching the query filters. An optional
// limit caps the number of profiles returned, 0 means all.
func (h *Handlers) ListKOLs(w http.ResponseWriter, r *http.Request) {
	filter := models.KOLFilter{
		Chain:       util.GetQueryParam(r, "chain", ""),
		Country:     util.GetQueryParam(r, "country", ""),
		ContentType: util.GetQueryParam(r, "contentType", ""),
		Platform:    util.GetQueryParam(r, "platform", ""),
	}

	kols, err := h.kols.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list kol profiles", "error", err)
		util.ErrorResponse(w, http.StatusInternalServerError, "failed to load KOL profiles")
		return
	}

	if limit := util.GetQueryInt(r, "limit", 0); limit > 0 && len(kols) > limit {
		kols = kols[:limit]
	}

	util.JSONResponse(w, http.StatusOK, map[string]any{
		"kols":  kols,
		"count": len(kols),
	})
}

// CreateKOL stores an onboarding submission.
func (h *Handlers) CreateKOL(w http.ResponseWriter, r *http.Request) {
	var profile models.KOLProfile
	if err := util.ParseJSON(r, &profile); err != nil {
		util.ErrorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if profile.WalletAddress == "" || profile.Username == "" {
		util.ErrorResponse(w, http.StatusBadRequest, "walletAddress and username are required")
		return
	}

	if err := h.kols.Create(r.Context(), &profile); err != nil {
		if errors.Is(err, models.ErrUsernameTaken) {
			util.ErrorResponse(w, http.StatusBadRequest, "username already taken")
			return
		}
		if errors.Is(err, models.ErrInvalidRecord) {
			util.ErrorResponseWithDetails(w, http.StatusBadRequest, "invalid KOL profile", err.Error())
			return
		}
		h.logger.Error("failed to save kol profile", "error", err)
		util.ErrorResponse(w, http.StatusInternalServerError, "failed to save KOL profile")
		return
	}

	h.publish(r.Context(), events.TopicKOLOnboarded, profile)

	util.JSONResponse(w, http.StatusOK, map[string]any{
		"success": true,
		"kol":     profile,
	})
}
