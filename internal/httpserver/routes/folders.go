package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/tabas/internal/httpserver/deps"
	"github.com/MrSnakeDoc/tabas/internal/httpserver/handlers"
)

func init() { Register("folders", registerFolders) }

func registerFolders(r chi.Router, d deps.Deps) {
	w := writes(r, d)
	w.Post("/api/profiles/{profileID}/folders", handlers.CreateFolder(d))
	w.Put("/api/profiles/{profileID}/folders", handlers.ReorderFolders(d))
	w.Put("/api/profiles/{profileID}/folders/{folderID}", handlers.UpdateFolder(d))
	w.Delete("/api/profiles/{profileID}/folders/{folderID}", handlers.DeleteFolder(d))
}
