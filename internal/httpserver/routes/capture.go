package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/tabas/internal/httpserver/deps"
	"github.com/MrSnakeDoc/tabas/internal/httpserver/handlers"
)

func init() { Register("capture", registerCapture) }

func registerCapture(r chi.Router, d deps.Deps) {
	api(r, d).Get("/api/folders/{folderID}/can-add", handlers.CanAdd(d))

	w := writes(r, d)
	w.Post("/api/folders/{folderID}/save-current", handlers.SaveCurrent(d))
	w.Post("/api/folders/{folderID}/save-session", handlers.SaveSession(d))
}
