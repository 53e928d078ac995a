package handlers

import (
	"net/http"
	"strings"

	"github.com/alisharafiiii/nabulines-backup/events"
	"github.com/alisharafiiii/nabulines-backup/internal/middleware"
	"github.com/alisharafiiii/nabulines-backup/internal/reconcile"
	"github.com/alisharafiiii/nabulines-backup/internal/util"
	"github.com/alisharafiiii/nabulines-backup/models"
)

// CheckAdminAuth reports whether the caller's wallet is on the admin
// allow-list. Unlike the gated endpoints it answers 200 either way.
func (h *Handlers) CheckAdminAuth(w http.ResponseWriter, r *http.Request) {
	wallet := r.Header.Get(middleware.WalletHeader)
	if wallet == "" {
		util.ErrorResponse(w, http.StatusBadRequest, "wallet address required")
		return
	}

	util.JSONResponse(w, http.StatusOK, map[string]any{
		"authorized": strings.EqualFold(wallet, h.config.AdminWallet),
	})
}

// AdminUsers returns the reconciled list of wallet-linked users and
// verified Twitter profiles for the dashboard.
func (h *Handlers) AdminUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Error("store unreachable", "error", err)
		util.ErrorResponse(w, http.StatusServiceUnavailable, "store unreachable")
		return
	}

	identities, err := h.identities.AllIdentities(ctx)
	if err != nil {
		h.logger.Error("failed to list identities", "error", err)
		util.ErrorResponse(w, http.StatusInternalServerError, "failed to load users")
		return
	}

	users := make([]models.User, 0, len(identities))
	for _, identity := range identities {
		entries, err := h.socials.Entries(ctx, identity.Username)
		if err != nil {
			// A corrupt social record must not hide the user
			h.logger.Warn("skipping unreadable social data", "username", identity.Username, "error", err)
			entries = nil
		}
		users = append(users, models.User{
			Address:    identity.Address,
			Username:   identity.Username,
			SocialData: entries,
		})
	}

	verified, err := h.twitter.VerifiedUsers(ctx)
	if err != nil {
		h.logger.Warn("failed to load verified twitter users", "error", err)
		verified = nil
	}

	merged := reconcile.Merge(users, verified)
	reconcile.SortByFollowers(merged)

	util.JSONResponse(w, http.StatusOK, map[string]any{
		"users": merged,
		"count": len(merged),
	})
}

// VerifiedTwitterUsers lists deduplicated verified Twitter profiles.
func (h *Handlers) VerifiedTwitterUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.twitter.VerifiedUsers(r.Context())
	if err != nil {
		h.logger.Error("failed to list verified twitter users", "error", err)
		util.ErrorResponse(w, http.StatusInternalServerError, "failed to load verified users")
		return
	}

	util.JSONResponse(w, http.StatusOK, map[string]any{
		"users": users,
		"count": len(users),
	})
}

// ClearData flushes every key in the store.
func (h *Handlers) ClearData(w http.ResponseWriter, r *http.Request) {
	if err := h.store.FlushAll(r.Context()); err != nil {
		h.logger.Error("failed to clear store", "error", err)
		util.ErrorResponse(w, http.StatusInternalServerError, "failed to clear data")
		return
	}

	h.logger.Info("all store data cleared")
	h.publish(r.Context(), events.TopicAdminCleared, map[string]string{
		"clearedBy": r.Header.Get(middleware.WalletHeader),
	})

	util.JSONResponse(w, http.StatusOK, map[string]any{"success": true})
}
