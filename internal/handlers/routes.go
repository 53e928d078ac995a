package handlers

import (
	"github.com/go-chi/chi/v5"

	"github.com/alisharafiiii/nabulines-backup/internal/middleware"
)

// RegisterRoutes mounts the API under /api.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/username", h.GetUsername)
		r.Post("/username", h.ClaimUsername)
		r.Get("/username/all", h.AllUsernames)

		r.Get("/social", h.GetSocial)
		r.Post("/social", h.UpdateSocial)
		r.Get("/social/stats", h.SocialStats)

		r.Get("/kol", h.ListKOLs)
		r.Post("/kol", h.CreateKOL)

		r.Get("/admin/check-auth", h.CheckAdminAuth)
		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminOnly(h.config.AdminWallet))
			r.Get("/admin/users", h.AdminUsers)
			r.Get("/admin/twitter/verified", h.VerifiedTwitterUsers)
			r.Post("/admin/clear-data", h.ClearData)
		})

		r.Get("/auth/twitter", h.TwitterLogin)
		r.Get("/auth/twitter/callback", h.TwitterCallback)
		r.Get("/twitter/user", h.TwitterUser)

		r.Get("/auth/tiktok", h.TikTokLogin)
		r.Get("/auth/tiktok/callback", h.TikTokCallback)
	})
}
