package store

import (
	"context"
	"errors"
	"time"

	"github.com/triptab/triptab/internal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable, and forces multi-step writes through Tx/WithTx so callers can't
// accidentally nest transactions.
type Store interface {
	Users() Users
	ProviderLinks() ProviderLinks
	RefreshTokens() RefreshTokens
	Profiles() Profiles
	Trips() Trips
	Tasks() Tasks
	SOSAlerts() SOSAlerts

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. fn returning an error rolls
	// back, nil commits. Prefer this over Tx directly.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. Same repos, plus Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used to resolve an existing account during a
	// provider callback. Empty emails never match.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	CreateUser(ctx context.Context, u domain.User) error

	// UpdateIdentity refreshes name/handle/avatar from a provider profile
	// and bumps updated_at.
	UpdateIdentity(ctx context.Context, userID, name, handle, avatarURL string) error
}

type ProviderLinks interface {
	// GetLink looks up a link by the (provider, provider user id) pair.
	GetLink(ctx context.Context, provider, providerUserID string) (domain.ProviderLink, error)

	ListLinksByUser(ctx context.Context, userID string) ([]domain.ProviderLink, error)

	CreateLink(ctx context.Context, l domain.ProviderLink) error

	// UpdateLinkTokens refreshes the stored provider tokens for an existing
	// link. Ownership of the link never changes here.
	UpdateLinkTokens(ctx context.Context, linkID, accessToken, refreshToken string, expiresAt *time.Time) error
}

type RefreshTokens interface {
	CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error

	// GetRefreshTokenByFingerprint returns the record for a peppered token
	// fingerprint.
	GetRefreshTokenByFingerprint(ctx context.Context, fingerprint string) (domain.RefreshToken, error)

	// DeleteRefreshToken removes a single record (rotation, logout).
	DeleteRefreshToken(ctx context.Context, fingerprint string) error

	// DeleteAllUserRefreshTokens is bulk revocation for a user.
	DeleteAllUserRefreshTokens(ctx context.Context, userID string) error

	// DeleteExpiredRefreshTokens is housekeeping. Returns rows removed.
	DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error)
}

type Profiles interface {
	// GetProfile returns ErrNotFound for users who never saved a profile.
	GetProfile(ctx context.Context, userID string) (domain.Profile, error)

	UpsertProfile(ctx context.Context, p domain.Profile) error
}

type Trips interface {
	CreateTrip(ctx context.Context, t domain.Trip) error
	GetTripByID(ctx context.Context, id string) (domain.Trip, error)
	ListTripsByOwner(ctx context.Context, ownerID string) ([]domain.Trip, error)

	AddParticipant(ctx context.Context, p domain.Participant) error
	ListParticipants(ctx context.Context, tripID string) ([]domain.Participant, error)

	CreateExpense(ctx context.Context, e domain.Expense) error
	GetExpenseByID(ctx context.Context, id string) (domain.Expense, error)
	ListExpenses(ctx context.Context, tripID string) ([]domain.Expense, error)
	UpdateExpense(ctx context.Context, e domain.Expense) error
	SetExpenseSettled(ctx context.Context, id string, settled bool) error
	DeleteExpense(ctx context.Context, id string) error
}

type Tasks interface {
	ListTasksByUser(ctx context.Context, userID string) ([]domain.Task, error)
	GetTaskByID(ctx context.Context, id string) (domain.Task, error)
	CreateTask(ctx context.Context, t domain.Task) error
	UpdateTask(ctx context.Context, t domain.Task) error
	DeleteTask(ctx context.Context, id string) error
}

type SOSAlerts interface {
	CreateAlert(ctx context.Context, a domain.SOSAlert) error
	ListAlertsByUser(ctx context.Context, userID string) ([]domain.SOSAlert, error)
}
