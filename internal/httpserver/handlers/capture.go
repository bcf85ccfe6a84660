package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/tabas/internal/domain"
	"github.com/MrSnakeDoc/tabas/internal/httpserver/deps"
)

type canAddResponse struct {
	FolderID string `json:"folderId"`
	URL      string `json:"url"`
	CanAdd   bool   `json:"canAdd"`
}

// CanAdd checks ?url= against the folder, or the active page when url is absent.
func CanAdd(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		folderID := chi.URLParam(r, "folderID")
		url, given := r.URL.Query()["url"]

		resp := canAddResponse{FolderID: folderID}
		if given && len(url) > 0 {
			resp.URL = url[0]
			resp.CanAdd = d.State.CanAddTab(folderID, resp.URL)
		} else {
			resp.URL = d.State.ActivePageURL()
			resp.CanAdd = d.State.CanAddCurrentTab(folderID)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// SaveCurrent stores the browser's active tab in a folder of the selected profile.
func SaveCurrent(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tab, err := d.State.SaveCurrentTab(r.Context(), chi.URLParam(r, "folderID"))
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusCreated, tab)
	}
}

type sessionResponse struct {
	Saved int          `json:"saved"`
	Tabs  []domain.Tab `json:"tabs"`
}

// SaveSession stores every not yet saved tab of the current window.
func SaveSession(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tabs, err := d.State.SaveSession(r.Context(), chi.URLParam(r, "folderID"))
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, sessionResponse{Saved: len(tabs), Tabs: tabs})
	}
}
