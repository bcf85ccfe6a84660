package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/tabas/internal/httpserver/deps"
	"github.com/MrSnakeDoc/tabas/internal/httpserver/handlers"
)

func init() { Register("tabs", registerTabs) }

func registerTabs(r chi.Router, d deps.Deps) {
	const base = "/api/profiles/{profileID}/folders/{folderID}/tabs"

	w := writes(r, d)
	w.Post(base, handlers.CreateTab(d))
	w.Put(base+"/{tabID}", handlers.UpdateTab(d))
	w.Delete(base+"/{tabID}", handlers.DeleteTab(d))
	w.Post(base+"/{tabID}/move", handlers.MoveTab(d))
}
