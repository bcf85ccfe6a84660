package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/tabas/internal/domain"
	"github.com/MrSnakeDoc/tabas/internal/httpserver/deps"
)

type folderRequest struct {
	Name string `json:"name"`
}

// CreateFolder puts a new empty folder first in the profile.
func CreateFolder(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req folderRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, d, err)
			return
		}
		folder, err := d.State.CreateFolder(r.Context(), chi.URLParam(r, "profileID"), req.Name)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusCreated, folder)
	}
}

// ReorderFolders replaces the folder sequence with the body, in body order.
func ReorderFolders(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var folders []domain.Folder
		if err := decodeJSON(r, &folders); err != nil {
			writeError(w, r, d, err)
			return
		}
		if err := d.State.UpdateProfileFolders(r.Context(), chi.URLParam(r, "profileID"), folders); err != nil {
			writeError(w, r, d, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// UpdateFolder replaces the whole folder record; the id comes from the path.
func UpdateFolder(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var folder domain.Folder
		if err := decodeJSON(r, &folder); err != nil {
			writeError(w, r, d, err)
			return
		}
		folder.ID = chi.URLParam(r, "folderID")
		if err := d.State.UpdateFolder(r.Context(), chi.URLParam(r, "profileID"), folder); err != nil {
			writeError(w, r, d, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func DeleteFolder(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := d.State.DeleteFolder(r.Context(), chi.URLParam(r, "profileID"), chi.URLParam(r, "folderID"))
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
