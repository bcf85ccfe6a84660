package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/tabas/internal/domain"
	"github.com/MrSnakeDoc/tabas/internal/httpserver/deps"
)

type profileRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func CreateProfile(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req profileRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, d, err)
			return
		}
		profile, err := d.State.CreateProfile(r.Context(), req.Name, req.Description)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusCreated, profile)
	}
}

// UpdateProfile changes display name and description; folders are kept.
func UpdateProfile(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req profileRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, d, err)
			return
		}
		profile := domain.Profile{
			ID:          chi.URLParam(r, "profileID"),
			DisplayName: req.Name,
			Description: req.Description,
		}
		if err := d.State.UpdateProfile(r.Context(), profile); err != nil {
			writeError(w, r, d, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func DeleteProfile(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.State.DeleteProfile(r.Context(), chi.URLParam(r, "profileID")); err != nil {
			writeError(w, r, d, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type selectionRequest struct {
	ProfileID string `json:"profileId"`
}

// SelectProfile stores the selection even when the id matches no profile.
func SelectProfile(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req selectionRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, d, err)
			return
		}
		if err := d.State.SelectProfile(r.Context(), req.ProfileID); err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, stateSelection(d))
	}
}

type selectionResponse struct {
	SelectedProfile *domain.Profile `json:"selectedProfile"`
}

func stateSelection(d deps.Deps) selectionResponse {
	return selectionResponse{SelectedProfile: d.State.SelectedProfile()}
}
