package http

import (
	"net/http"

	"github.com/triptab/triptab/internal/service"
	"github.com/triptab/triptab/pkg/httpx"
)

type userResponse struct {
	ID        string   `json:"id"`
	Email     string   `json:"email,omitempty"`
	Handle    string   `json:"handle,omitempty"`
	Name      string   `json:"name"`
	AvatarURL string   `json:"avatarUrl,omitempty"`
	Providers []string `json:"providers"`
}

// MeHandler answers "who am I" for the session in the access cookie.
type MeHandler struct {
	LoginService *service.LoginService
}

func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := httpx.UserIDFromContext(ctx)
	user, providers, err := h.LoginService.Me(ctx, userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, userResponse{
		ID:        user.ID,
		Email:     user.Email,
		Handle:    user.Handle,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
		Providers: providers,
	})
}

// RefreshHandler rotates the session. Any validation failure clears the
// cookies so the browser ends up cleanly logged out.
type RefreshHandler struct {
	SessionService *service.SessionService
	Cookies        CookieConfig
}

func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var raw string
	if cookie, err := r.Cookie(RefreshCookie); err == nil {
		raw = cookie.Value
	}
	if raw == "" {
		h.Cookies.ClearSessionCookies(w)
		httpx.WriteError(w, http.StatusUnauthorized, "missing refresh token")
		return
	}

	pair, _, err := h.SessionService.Refresh(r.Context(), raw)
	if err != nil {
		h.Cookies.ClearSessionCookies(w)
		writeServiceError(w, r, err)
		return
	}

	h.Cookies.SetSessionCookies(w, pair)
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"expiresAt": pair.AccessExpiresAt,
	})
}

// LogoutHandler revokes the refresh token server-side and clears both
// cookies. Always succeeds from the client's point of view.
type LogoutHandler struct {
	SessionService *service.SessionService
	Cookies        CookieConfig
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(RefreshCookie); err == nil && cookie.Value != "" {
		// Best effort; the cookies are cleared regardless.
		_ = h.SessionService.Logout(r.Context(), cookie.Value)
	}

	h.Cookies.ClearSessionCookies(w)
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
}
