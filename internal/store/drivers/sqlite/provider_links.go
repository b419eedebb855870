package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/triptab/triptab/internal/domain"
)

type providerLinksRepo struct {
	db dbtx
}

const providerLinkColumns = `id, user_id, provider, provider_user_id,
	access_token, refresh_token, token_expires_at, created_at, updated_at`

func (r *providerLinksRepo) GetLink(ctx context.Context, provider, providerUserID string) (domain.ProviderLink, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+providerLinkColumns+`
		FROM provider_links WHERE provider = ? AND provider_user_id = ?`,
		provider, providerUserID)

	l, err := scanProviderLink(row)
	if err != nil {
		return domain.ProviderLink{}, mapNotFound(err)
	}
	return l, nil
}

func (r *providerLinksRepo) ListLinksByUser(ctx context.Context, userID string) ([]domain.ProviderLink, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+providerLinkColumns+`
		FROM provider_links WHERE user_id = ? ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []domain.ProviderLink
	for rows.Next() {
		l, err := scanProviderLink(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

func (r *providerLinksRepo) CreateLink(ctx context.Context, l domain.ProviderLink) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO provider_links (`+providerLinkColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.UserID, l.Provider, l.ProviderUserID,
		l.AccessToken, l.RefreshToken, mapOptionalTime(l.TokenExpiresAt),
		l.CreatedAt, l.UpdatedAt)
	return mapConflict(err)
}

func (r *providerLinksRepo) UpdateLinkTokens(ctx context.Context, linkID, accessToken, refreshToken string, expiresAt *time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE provider_links
		SET access_token = ?, refresh_token = ?, token_expires_at = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		accessToken, refreshToken, mapOptionalTime(expiresAt), linkID)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProviderLink(s scanner) (domain.ProviderLink, error) {
	var (
		l         domain.ProviderLink
		expiresAt sql.NullTime
	)
	err := s.Scan(&l.ID, &l.UserID, &l.Provider, &l.ProviderUserID,
		&l.AccessToken, &l.RefreshToken, &expiresAt, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return domain.ProviderLink{}, err
	}
	l.TokenExpiresAt = mapNullTimePtr(expiresAt)
	return l, nil
}
