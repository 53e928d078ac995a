// Package handlers implements the HTTP API: one handler per resource,
// each reading or writing store keys and returning JSON with the fixed
// {error, details?} error body.
package handlers

import (
	"context"
	"encoding/json"

	"github.com/alisharafiiii/nabulines-backup/internal/auth/oauth1"
	"github.com/alisharafiiii/nabulines-backup/internal/auth/tiktok"
	"github.com/alisharafiiii/nabulines-backup/internal/repositories"
	"github.com/alisharafiiii/nabulines-backup/internal/services"
	"github.com/alisharafiiii/nabulines-backup/models"
)

// Handlers carries the wiring every route handler needs.
type Handlers struct {
	logger models.Logger
	config *models.Config

	store      models.KeyValueStore
	identities repositories.IdentityRepository
	socials    repositories.SocialRepository
	twitter    repositories.TwitterRepository
	kols       repositories.KOLRepository

	twitterClient *oauth1.Client
	tiktok        *tiktok.Provider
	passports     *services.PassportService

	bus models.EventBus
}

// Deps lists the collaborators for New. Bus may be nil when the event
// bus is disabled.
type Deps struct {
	Logger models.Logger
	Config *models.Config

	Store      models.KeyValueStore
	Identities repositories.IdentityRepository
	Socials    repositories.SocialRepository
	Twitter    repositories.TwitterRepository
	KOLs       repositories.KOLRepository

	TwitterClient *oauth1.Client
	TikTok        *tiktok.Provider
	Passports     *services.PassportService

	Bus models.EventBus
}

func New(deps Deps) *Handlers {
	return &Handlers{
		logger:        deps.Logger,
		config:        deps.Config,
		store:         deps.Store,
		identities:    deps.Identities,
		socials:       deps.Socials,
		twitter:       deps.Twitter,
		kols:          deps.KOLs,
		twitterClient: deps.TwitterClient,
		tiktok:        deps.TikTok,
		passports:     deps.Passports,
		bus:           deps.Bus,
	}
}

// publish emits an event after a successful write. Publish failures are
// logged, never surfaced to the caller.
func (h *Handlers) publish(ctx context.Context, eventType string, payload any) {
	if h.bus == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to marshal event payload", "type", eventType, "error", err)
		return
	}

	if err := h.bus.Publish(ctx, models.Event{Type: eventType, Payload: data}); err != nil {
		h.logger.Error("failed to publish event", "type", eventType, "error", err)
	}
}
