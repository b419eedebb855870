package oauth

import (
	"context"
	"net/http"
	"net/url"

	"github.com/triptab/triptab/internal/domain"
)

const (
	instagramAuthURL  = "https://api.instagram.com/oauth/authorize"
	instagramTokenURL = "https://api.instagram.com/oauth/access_token"
	instagramMeURL    = "https://graph.instagram.com/me"
)

// InstagramConfig mirrors GoogleConfig; the Basic Display API returns no
// email, so accounts resolved through it are identified by username only.
type InstagramConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string

	AuthURL  string
	TokenURL string
	MeURL    string

	HTTPClient *http.Client
}

type Instagram struct {
	cfg InstagramConfig
}

func NewInstagram(cfg InstagramConfig) *Instagram {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil
	}
	if cfg.AuthURL == "" {
		cfg.AuthURL = instagramAuthURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = instagramTokenURL
	}
	if cfg.MeURL == "" {
		cfg.MeURL = instagramMeURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = defaultClient()
	}
	return &Instagram{cfg: cfg}
}

func (i *Instagram) Name() string { return domain.ProviderInstagram }

func (i *Instagram) AuthorizeURL(state string) string {
	q := url.Values{}
	q.Set("client_id", i.cfg.ClientID)
	q.Set("redirect_uri", i.cfg.RedirectURI)
	q.Set("scope", "user_profile")
	q.Set("response_type", "code")
	q.Set("state", state)
	return i.cfg.AuthURL + "?" + q.Encode()
}

func (i *Instagram) Exchange(ctx context.Context, code string) (Identity, error) {
	form := url.Values{}
	form.Set("client_id", i.cfg.ClientID)
	form.Set("client_secret", i.cfg.ClientSecret)
	form.Set("grant_type", "authorization_code")
	form.Set("redirect_uri", i.cfg.RedirectURI)
	form.Set("code", code)

	var token struct {
		AccessToken string `json:"access_token"`
		UserID      any    `json:"user_id"` // number in the API response
	}
	if err := postForm(ctx, i.cfg.HTTPClient, i.cfg.TokenURL, form, &token); err != nil {
		return Identity{}, err
	}
	if token.AccessToken == "" {
		return Identity{}, ErrExchangeFailed
	}

	me := i.cfg.MeURL + "?" + url.Values{
		"fields":       {"id,username"},
		"access_token": {token.AccessToken},
	}.Encode()

	var info struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	}
	if err := getJSON(ctx, i.cfg.HTTPClient, me, "", &info); err != nil {
		return Identity{}, err
	}
	if info.ID == "" {
		return Identity{}, ErrExchangeFailed
	}

	return Identity{
		Provider:       domain.ProviderInstagram,
		ProviderUserID: info.ID,
		Handle:         info.Username,
		AccessToken:    token.AccessToken,
	}, nil
}
