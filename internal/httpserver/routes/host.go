package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/tabas/internal/httpserver/deps"
	"github.com/MrSnakeDoc/tabas/internal/httpserver/handlers"
)

func init() { Register("host", registerHost) }

// Tab reports arrive on every browser tab event, so they are not rate limited.
func registerHost(r chi.Router, d deps.Deps) {
	api(r, d).Post("/api/host/tabs", handlers.ReportTabs(d))
}
