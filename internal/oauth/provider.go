// Package oauth implements the outbound half of provider logins: building
// authorize URLs, exchanging codes and fetching the remote profile.
package oauth

import (
	"context"
	"errors"
	"net/http"
	"time"
)

var (
	ErrNotConfigured   = errors.New("oauth: provider not configured")
	ErrUnknownProvider = errors.New("oauth: unknown provider")
	// ErrExchangeFailed covers any upstream failure during code exchange or
	// profile fetch. Callers surface it as a generic bad request, never the
	// upstream body.
	ErrExchangeFailed = errors.New("oauth: code exchange failed")
)

// Identity is the normalized result of a completed provider login.
type Identity struct {
	Provider       string
	ProviderUserID string
	Email          string
	Handle         string
	Name           string
	AvatarURL      string
	AccessToken    string
	RefreshToken   string
	TokenExpiresAt *time.Time
}

// Provider is a configured upstream identity provider.
type Provider interface {
	Name() string

	// AuthorizeURL builds the redirect target that starts the provider's
	// consent flow. state is echoed back on the callback.
	AuthorizeURL(state string) string

	// Exchange swaps the callback code for tokens and fetches the remote
	// profile.
	Exchange(ctx context.Context, code string) (Identity, error)
}

// Registry holds the configured providers keyed by name.
type Registry struct {
	providers map[string]Provider
}

func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		r.providers[p.Name()] = p
	}
	return r
}

// Get returns ErrUnknownProvider for names outside the known set and
// ErrNotConfigured for known providers missing credentials.
func (r *Registry) Get(name string) (Provider, error) {
	if p, ok := r.providers[name]; ok {
		return p, nil
	}
	switch name {
	case "google", "instagram":
		return nil, ErrNotConfigured
	}
	return nil, ErrUnknownProvider
}

// Available lists the names of configured providers.
func (r *Registry) Available() []string {
	names := make([]string, 0, len(r.providers))
	for _, known := range []string{"google", "instagram"} {
		if _, ok := r.providers[known]; ok {
			names = append(names, known)
		}
	}
	return names
}

func defaultClient() *http.Client {
	return &http.Client{Timeout: 10 * time.Second}
}
