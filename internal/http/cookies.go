package http

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/triptab/triptab/internal/domain"
)

// Cookie names. The tb_ prefix keeps them recognisable next to provider
// cookies on shared dev hosts.
const (
	AccessCookie  = "tb_access"
	RefreshCookie = "tb_refresh"

	stateCookiePrefix = "tb_oauth_state_"
	stateTTL          = 10 * time.Minute
)

// CookieConfig carries the per-deployment cookie knobs plus where to send
// the browser after a completed login.
type CookieConfig struct {
	Secure      bool
	Domain      string
	FrontendURL string
}

func (c CookieConfig) base(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   c.Domain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// SetSessionCookies writes both session cookies from a freshly issued pair.
func (c CookieConfig) SetSessionCookies(w http.ResponseWriter, pair domain.SessionPair) {
	now := time.Now()
	http.SetCookie(w, c.base(AccessCookie, pair.AccessToken, int(pair.AccessExpiresAt.Sub(now).Seconds())))
	http.SetCookie(w, c.base(RefreshCookie, pair.RefreshToken, int(pair.RefreshExpiresAt.Sub(now).Seconds())))
}

func (c CookieConfig) ClearSessionCookies(w http.ResponseWriter) {
	http.SetCookie(w, c.base(AccessCookie, "", -1))
	http.SetCookie(w, c.base(RefreshCookie, "", -1))
}

// SetStateCookie stores the serialized OAuth state for one provider flow.
func (c CookieConfig) SetStateCookie(w http.ResponseWriter, provider string, state domain.OAuthState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return err
	}
	cookie := c.base(stateCookiePrefix+provider, base64.RawURLEncoding.EncodeToString(payload), int(stateTTL.Seconds()))
	http.SetCookie(w, cookie)
	return nil
}

// TakeStateCookie reads and immediately expires the state cookie. A state
// is single-use whether or not the callback succeeds.
func (c CookieConfig) TakeStateCookie(w http.ResponseWriter, r *http.Request, provider string) (domain.OAuthState, bool) {
	name := stateCookiePrefix + provider
	defer http.SetCookie(w, c.base(name, "", -1))

	cookie, err := r.Cookie(name)
	if err != nil {
		return domain.OAuthState{}, false
	}

	payload, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return domain.OAuthState{}, false
	}

	var state domain.OAuthState
	if err := json.Unmarshal(payload, &state); err != nil {
		return domain.OAuthState{}, false
	}
	return state, state.Nonce != ""
}
