package sqlite

import (
	"context"

	"github.com/triptab/triptab/internal/domain"
	"github.com/triptab/triptab/internal/store"
)

type usersRepo struct {
	db dbtx
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, handle, name, avatar_url, created_at, updated_at
		FROM users WHERE id = ?`, id)

	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.Handle, &u.Name, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	if email == "" {
		return domain.User{}, store.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, handle, name, avatar_url, created_at, updated_at
		FROM users WHERE email = ?`, email)

	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.Handle, &u.Name, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, handle, name, avatar_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Handle, u.Name, u.AvatarURL, u.CreatedAt, u.UpdatedAt)
	return mapConflict(err)
}

func (r *usersRepo) UpdateIdentity(ctx context.Context, userID, name, handle, avatarURL string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET name = ?, handle = ?, avatar_url = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`, name, handle, avatarURL, userID)
	return mapConflict(err)
}
