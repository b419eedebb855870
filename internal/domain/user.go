package domain

import "time"

type User struct {
	ID        string
	Email     string // Empty for providers that don't expose one (Instagram)
	Handle    string // Provider username, unique when set
	Name      string
	AvatarURL string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProviderLink ties a user to an external identity provider account.
// The pair (Provider, ProviderUserID) is unique across all users.
type ProviderLink struct {
	ID             string
	UserID         string
	Provider       string // "google" or "instagram"
	ProviderUserID string
	AccessToken    string
	RefreshToken   string
	TokenExpiresAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

const (
	ProviderGoogle    = "google"
	ProviderInstagram = "instagram"
)
