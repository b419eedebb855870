package http

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/triptab/triptab/internal/domain"
	"github.com/triptab/triptab/internal/service"
	"github.com/triptab/triptab/pkg/httpx"
	"github.com/triptab/triptab/pkg/jwtx"
	"github.com/triptab/triptab/pkg/slogx"
)

// ProvidersHandler reports which login providers this deployment has
// credentials for, so the frontend can hide dead buttons.
type ProvidersHandler struct {
	LoginService *service.LoginService
}

func (h *ProvidersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"providers": h.LoginService.Available(),
	})
}

// LoginBeginHandler starts a provider flow: mint a state nonce, stash it in
// a short-lived cookie and bounce the browser to the provider.
type LoginBeginHandler struct {
	LoginService *service.LoginService
	Verifier     jwtx.Verifier
	Cookies      CookieConfig
}

func (h *LoginBeginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	provider := r.PathValue("provider")

	state := domain.OAuthState{Nonce: uuid.NewString()}

	// ?link=1 attaches the provider to the caller's existing account, which
	// requires a live session up front.
	if r.URL.Query().Get("link") == "1" {
		raw := httpx.BearerOrCookieToken(r, AccessCookie)
		claims, err := h.Verifier.Verify(raw)
		if err != nil || jwtx.RequireType(claims, jwtx.TokenTypeAccess) != nil {
			httpx.WriteError(w, http.StatusUnauthorized, "login required to link a provider")
			return
		}
		state.Linking = true
	}

	target, err := h.LoginService.AuthorizeURL(provider, state.Nonce)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if err := h.Cookies.SetStateCookie(w, provider, state); err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	http.Redirect(w, r, target, http.StatusFound)
}

// LoginCallbackHandler finishes the flow: CSRF check against the state
// cookie, code exchange, user resolution, session issue, then a redirect
// back to the frontend.
type LoginCallbackHandler struct {
	LoginService   *service.LoginService
	SessionService *service.SessionService
	Verifier       jwtx.Verifier
	Cookies        CookieConfig
}

func (h *LoginCallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	provider := r.PathValue("provider")
	query := r.URL.Query()

	// Consume the state cookie up front; it is single-use no matter how the
	// callback ends.
	state, ok := h.Cookies.TakeStateCookie(w, r, provider)

	if errCode := query.Get("error"); errCode != "" {
		slogx.FromContext(ctx).Info("provider login denied",
			slog.String("provider", provider), slog.String("error", errCode))
		httpx.WriteError(w, http.StatusBadRequest, "provider login failed")
		return
	}

	code := query.Get("code")
	if code == "" || query.Get("state") == "" {
		httpx.WriteError(w, http.StatusBadRequest, "missing code or state")
		return
	}

	if !ok || query.Get("state") != state.Nonce {
		httpx.WriteError(w, http.StatusBadRequest, "state mismatch")
		return
	}

	// A linking flow must prove a live session again here. The state cookie
	// only records intent; the session could have ended since begin.
	linkUserID := ""
	if state.Linking {
		claims, err := h.Verifier.Verify(httpx.BearerOrCookieToken(r, AccessCookie))
		if err != nil || jwtx.RequireType(claims, jwtx.TokenTypeAccess) != nil {
			httpx.WriteError(w, http.StatusUnauthorized, "not authenticated to link")
			return
		}
		linkUserID = claims.UserID()
	}

	user, err := h.LoginService.Callback(ctx, provider, code, linkUserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	pair, err := h.SessionService.Issue(ctx, user.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.Cookies.SetSessionCookies(w, pair)

	target := h.Cookies.FrontendURL
	if target == "" {
		target = "/"
	}
	http.Redirect(w, r, target, http.StatusFound)
}
