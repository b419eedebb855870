package domain

import "time"

// RefreshToken is the server-side record of an issued refresh token. Only a
// peppered fingerprint of the raw token is stored.
type RefreshToken struct {
	ID          string
	UserID      string
	Fingerprint string
	ExpiresAt   time.Time
	CreatedAt   time.Time
}

// SessionPair is a freshly issued access/refresh token pair.
type SessionPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// OAuthState is the CSRF payload round-tripped through the state cookie
// during a provider login. Linking only records intent; the link target is
// whoever holds a valid access token when the callback lands.
type OAuthState struct {
	Nonce   string `json:"nonce"`
	Linking bool   `json:"linking,omitempty"`
}
