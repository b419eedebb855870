package service_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/triptab/triptab/internal/domain"
	"github.com/triptab/triptab/internal/oauth"
	"github.com/triptab/triptab/internal/service"
	"github.com/triptab/triptab/internal/store"
	"github.com/triptab/triptab/internal/store/drivers/sqlite"
	"github.com/triptab/triptab/pkg/idx"
	"github.com/triptab/triptab/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	s, err := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func newTestSigner() *jwtx.Signer {
	return jwtx.NewSigner("0123456789abcdef0123456789abcdef", "triptab")
}

func createUser(t *testing.T, s store.Store, email string) domain.User {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Second)
	u := domain.User{
		ID:        idx.MustNew().String(),
		Email:     email,
		Name:      "Test Traveller",
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.Users().CreateUser(context.Background(), u))
	return u
}

// fakeProvider satisfies oauth.Provider without any network traffic.
type fakeProvider struct {
	name     string
	identity oauth.Identity
	err      error
}

func (f *fakeProvider) Name() string { return f.name }
func (f *fakeProvider) AuthorizeURL(state string) string {
	return "https://provider.example/authorize?state=" + state
}
func (f *fakeProvider) Exchange(ctx context.Context, code string) (oauth.Identity, error) {
	if f.err != nil {
		return oauth.Identity{}, f.err
	}
	return f.identity, nil
}

func newLoginService(s store.Store, providers ...oauth.Provider) *service.LoginService {
	return &service.LoginService{
		Providers: oauth.NewRegistry(providers...),
		Store:     s,
	}
}
