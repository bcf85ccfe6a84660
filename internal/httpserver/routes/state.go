package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/tabas/internal/httpserver/deps"
	"github.com/MrSnakeDoc/tabas/internal/httpserver/handlers"
)

func init() { Register("state", registerState) }

func registerState(r chi.Router, d deps.Deps) {
	api(r, d).Get("/api/state", handlers.State(d))
	api(r, d).Get("/api/surface", handlers.Surface(d))
	writes(r, d).Post("/api/refresh", handlers.Refresh(d))
}
