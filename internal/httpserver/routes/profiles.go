package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/tabas/internal/httpserver/deps"
	"github.com/MrSnakeDoc/tabas/internal/httpserver/handlers"
)

func init() { Register("profiles", registerProfiles) }

func registerProfiles(r chi.Router, d deps.Deps) {
	w := writes(r, d)
	w.Post("/api/profiles", handlers.CreateProfile(d))
	w.Patch("/api/profiles/{profileID}", handlers.UpdateProfile(d))
	w.Delete("/api/profiles/{profileID}", handlers.DeleteProfile(d))
	w.Put("/api/selection", handlers.SelectProfile(d))
}
