package http

import (
	"net/http"

	"github.com/triptab/triptab/internal/service"
	"github.com/triptab/triptab/pkg/httpx"
)

type ProfileHandler struct {
	ProfileService *service.ProfileService
}

type profileResponse struct {
	Name         string         `json:"name"`
	Email        string         `json:"email,omitempty"`
	Handle       string         `json:"handle,omitempty"`
	AvatarURL    string         `json:"avatarUrl,omitempty"`
	Bio          string         `json:"bio"`
	Preferences  map[string]any `json:"preferences"`
	Traits       []string       `json:"traits"`
	Completeness int            `json:"completeness"`
}

func toProfileResponse(v service.ProfileView) profileResponse {
	resp := profileResponse{
		Name:         v.User.Name,
		Email:        v.User.Email,
		Handle:       v.User.Handle,
		AvatarURL:    v.User.AvatarURL,
		Bio:          v.Profile.Bio,
		Preferences:  v.Profile.Preferences,
		Traits:       v.Profile.Traits,
		Completeness: v.Completeness,
	}
	if resp.Preferences == nil {
		resp.Preferences = map[string]any{}
	}
	if resp.Traits == nil {
		resp.Traits = []string{}
	}
	return resp
}

func (h *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	view, err := h.ProfileService.Get(r.Context(), httpx.UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toProfileResponse(view))
}

func (h *ProfileHandler) HandlePut(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Bio         string         `json:"bio"`
		Preferences map[string]any `json:"preferences"`
		Traits      []string       `json:"traits"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.ProfileService.Update(r.Context(),
		httpx.UserIDFromContext(r.Context()), req.Bio, req.Preferences, req.Traits)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toProfileResponse(view))
}
