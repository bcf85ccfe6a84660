package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/tabas/internal/domain"
	"github.com/MrSnakeDoc/tabas/internal/httpserver/deps"
)

type stateResponse struct {
	Phase           string           `json:"phase"`
	SelectedProfile *domain.Profile  `json:"selectedProfile"`
	Profiles        []domain.Profile `json:"profiles"`
	Folders         []domain.Folder  `json:"folders"`
	ActivePageURL   string           `json:"activePageUrl"`
	Surface         string           `json:"surface,omitempty"`
	PageOpen        bool             `json:"pageOpen"`
}

// State returns the container snapshot the UI renders from.
func State(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := d.State.Snapshot()
		resp := stateResponse{
			Phase:           snap.Phase.String(),
			SelectedProfile: snap.SelectedProfile,
			Profiles:        snap.Profiles,
			Folders:         snap.Folders,
			ActivePageURL:   snap.ActivePageURL,
		}
		if d.Surface != nil {
			resp.Surface = string(d.Surface.Kind())
			resp.PageOpen = d.Surface.PageOpen()
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

type surfaceResponse struct {
	ID       string `json:"id"`
	Kind     string `json:"kind"`
	PageOpen bool   `json:"pageOpen"`
}

// Surface tells a popup whether the full-page view is already open, in
// which case it shows an informational message instead of the editor.
func Surface(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.Surface == nil {
			writeJSON(w, http.StatusOK, surfaceResponse{Kind: "page", PageOpen: true})
			return
		}
		writeJSON(w, http.StatusOK, surfaceResponse{
			ID:       d.Surface.ID(),
			Kind:     string(d.Surface.Kind()),
			PageOpen: d.Surface.PageOpen(),
		})
	}
}
