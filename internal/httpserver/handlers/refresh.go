package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/tabas/internal/httpserver/deps"
	"github.com/MrSnakeDoc/tabas/internal/logger"
)

type refreshResponse struct {
	Triggered bool   `json:"triggered"`
	Message   string `json:"message"`
}

// Refresh asks the refresher to re-read profiles and selection from storage.
// Without a refresher the container is refreshed inline.
func Refresh(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.RefreshTrigger == nil {
			if err := d.State.Refresh(r.Context()); err != nil {
				writeError(w, r, d, err)
				return
			}
			writeJSON(w, http.StatusOK, refreshResponse{Triggered: true, Message: "state refreshed"})
			return
		}

		select {
		case d.RefreshTrigger <- struct{}{}:
			d.Logger.Info("manual state refresh triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, http.StatusAccepted, refreshResponse{Triggered: true, Message: "refresh triggered"})
		default:
			d.Logger.Warn("state refresh already pending",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, http.StatusTooManyRequests, refreshResponse{Message: "refresh already pending, please wait"})
		}
	}
}
