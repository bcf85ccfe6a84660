package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/tabas/internal/domain"
	"github.com/MrSnakeDoc/tabas/internal/httpserver/deps"
)

// CreateTab appends the body tab to the folder. A missing id is generated.
func CreateTab(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var tab domain.Tab
		if err := decodeJSON(r, &tab); err != nil {
			writeError(w, r, d, err)
			return
		}
		if strings.TrimSpace(tab.URL) == "" {
			writeError(w, r, d, fmt.Errorf("%w: tab URL is required", errBadRequest))
			return
		}
		if tab.ID == "" {
			tab.ID = d.State.NewID()
		}
		err := d.State.CreateTab(r.Context(), chi.URLParam(r, "profileID"), chi.URLParam(r, "folderID"), tab)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusCreated, tab)
	}
}

func UpdateTab(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var tab domain.Tab
		if err := decodeJSON(r, &tab); err != nil {
			writeError(w, r, d, err)
			return
		}
		tab.ID = chi.URLParam(r, "tabID")
		err := d.State.UpdateTab(r.Context(), chi.URLParam(r, "profileID"), chi.URLParam(r, "folderID"), tab)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func DeleteTab(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := d.State.DeleteTab(r.Context(),
			chi.URLParam(r, "profileID"), chi.URLParam(r, "folderID"), chi.URLParam(r, "tabID"))
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type moveRequest struct {
	ToFolderID string `json:"toFolderId"`
	Index      int    `json:"index"`
}

// MoveTab moves a tab between folders of one profile. Index is clamped.
func MoveTab(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req moveRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, d, err)
			return
		}
		from := chi.URLParam(r, "folderID")
		if req.ToFolderID == "" {
			req.ToFolderID = from
		}
		err := d.State.MoveTab(r.Context(), chi.URLParam(r, "profileID"), from, req.ToFolderID,
			chi.URLParam(r, "tabID"), req.Index)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
