package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/tabas/internal/httpserver/deps"
	"github.com/MrSnakeDoc/tabas/internal/state"
)

type componentStatus struct {
	OK    bool   `json:"ok"`
	Mode  string `json:"mode,omitempty"`
	Error string `json:"error,omitempty"`
}

type readyzResponse struct {
	Ready      bool                       `json:"ready"`
	Phase      string                     `json:"phase"`
	Components map[string]componentStatus `json:"components"`
}

// Readyz is ready once the state container loaded storage and the backend
// answers its probe.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		phase := d.State.Phase()
		storage := checkStorage(r.Context(), d)

		resp := readyzResponse{
			Ready: phase == state.PhaseReady && storage.OK,
			Phase: phase.String(),
			Components: map[string]componentStatus{
				"storage": storage,
				"state":   {OK: phase == state.PhaseReady, Mode: phase.String()},
			},
		}

		status := http.StatusOK
		if !resp.Ready {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, resp)
	}
}

func checkStorage(ctx context.Context, d deps.Deps) componentStatus {
	if d.StoragePing == nil {
		return componentStatus{OK: true, Mode: d.StorageName}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := d.StoragePing(ctx); err != nil {
		return componentStatus{OK: false, Mode: d.StorageName, Error: err.Error()}
	}
	return componentStatus{OK: true, Mode: d.StorageName}
}
