package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/triptab/triptab/internal/domain"
	"github.com/triptab/triptab/internal/oauth"
	"github.com/triptab/triptab/internal/store"
	"github.com/triptab/triptab/pkg/idx"
	"github.com/triptab/triptab/pkg/slogx"
)

// ErrLinkConflict reports a provider account already linked to a different
// user. The link is never reassigned.
var ErrLinkConflict = errors.New("provider_already_linked")

// LoginService drives the provider login flow from callback code to a local
// user record.
type LoginService struct {
	Providers *oauth.Registry
	Store     store.Store
}

// AuthorizeURL resolves the provider and builds its consent URL.
func (s *LoginService) AuthorizeURL(providerName, state string) (string, error) {
	p, err := s.Providers.Get(providerName)
	if err != nil {
		return "", err
	}
	return p.AuthorizeURL(state), nil
}

// Available lists configured provider names.
func (s *LoginService) Available() []string {
	return s.Providers.Available()
}

// Callback exchanges the code and resolves the identity to a local user.
//
// Resolution order:
//  1. An existing link for (provider, provider user id) wins.
//  2. Otherwise match by verified email, if the provider supplied one.
//  3. Otherwise create a new user.
//
// linkUserID, when set, forces the identity onto that user instead; a link
// owned by anyone else is ErrLinkConflict.
func (s *LoginService) Callback(ctx context.Context, providerName, code, linkUserID string) (domain.User, error) {
	p, err := s.Providers.Get(providerName)
	if err != nil {
		return domain.User{}, err
	}

	identity, err := p.Exchange(ctx, code)
	if err != nil {
		return domain.User{}, err
	}

	var user domain.User
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		user, err = s.resolveUser(ctx, tx, identity, linkUserID)
		return err
	})
	if err != nil {
		return domain.User{}, err
	}

	slogx.FromContext(ctx).Info("provider login completed",
		slog.String("provider", identity.Provider),
		slog.String("user_id", user.ID))
	return user, nil
}

func (s *LoginService) resolveUser(ctx context.Context, tx store.Tx, identity oauth.Identity, linkUserID string) (domain.User, error) {
	now := time.Now().UTC()

	link, err := tx.ProviderLinks().GetLink(ctx, identity.Provider, identity.ProviderUserID)
	switch {
	case err == nil:
		if linkUserID != "" && link.UserID != linkUserID {
			return domain.User{}, ErrLinkConflict
		}
		// Existing link: only the stored provider tokens move forward.
		if err := tx.ProviderLinks().UpdateLinkTokens(ctx, link.ID,
			identity.AccessToken, identity.RefreshToken, identity.TokenExpiresAt); err != nil {
			return domain.User{}, err
		}
		return tx.Users().GetUserByID(ctx, link.UserID)

	case !errors.Is(err, store.ErrNotFound):
		return domain.User{}, err
	}

	// No link yet: pick the target user.
	var user domain.User
	switch {
	case linkUserID != "":
		if user, err = tx.Users().GetUserByID(ctx, linkUserID); err != nil {
			return domain.User{}, err
		}

	default:
		user, err = tx.Users().GetUserByEmail(ctx, identity.Email)
		if errors.Is(err, store.ErrNotFound) {
			user = domain.User{
				ID:        idx.MustNew().String(),
				Email:     identity.Email,
				Handle:    identity.Handle,
				Name:      identity.Name,
				AvatarURL: identity.AvatarURL,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := tx.Users().CreateUser(ctx, user); err != nil {
				return domain.User{}, err
			}
		} else if err != nil {
			return domain.User{}, err
		}
	}

	// Backfill identity fields the account is still missing.
	name, handle, avatar := user.Name, user.Handle, user.AvatarURL
	if name == "" {
		name = identity.Name
	}
	if handle == "" {
		handle = identity.Handle
	}
	if avatar == "" {
		avatar = identity.AvatarURL
	}
	if name != user.Name || handle != user.Handle || avatar != user.AvatarURL {
		err := tx.Users().UpdateIdentity(ctx, user.ID, name, handle, avatar)
		if errors.Is(err, store.ErrAlreadyExists) && handle != user.Handle {
			// Another account owns that handle; keep ours and take the rest.
			handle = user.Handle
			err = tx.Users().UpdateIdentity(ctx, user.ID, name, handle, avatar)
		}
		if err != nil {
			return domain.User{}, err
		}
		user.Name, user.Handle, user.AvatarURL = name, handle, avatar
	}

	if err := tx.ProviderLinks().CreateLink(ctx, domain.ProviderLink{
		ID:             idx.MustNew().String(),
		UserID:         user.ID,
		Provider:       identity.Provider,
		ProviderUserID: identity.ProviderUserID,
		AccessToken:    identity.AccessToken,
		RefreshToken:   identity.RefreshToken,
		TokenExpiresAt: identity.TokenExpiresAt,
		CreatedAt:      now,
		UpdatedAt:      now,
	}); err != nil {
		return domain.User{}, err
	}

	return user, nil
}

// Me returns the user record plus the providers linked to it.
func (s *LoginService) Me(ctx context.Context, userID string) (domain.User, []string, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, nil, ErrNotFound
		}
		return domain.User{}, nil, err
	}

	links, err := s.Store.ProviderLinks().ListLinksByUser(ctx, userID)
	if err != nil {
		return domain.User{}, nil, err
	}

	providers := make([]string, 0, len(links))
	for _, l := range links {
		providers = append(providers, l.Provider)
	}
	return user, providers, nil
}
