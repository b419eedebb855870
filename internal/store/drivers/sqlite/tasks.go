package sqlite

import (
	"context"

	"github.com/triptab/triptab/internal/domain"
)

type tasksRepo struct {
	db dbtx
}

const taskColumns = `id, user_id, title, notes, priority, done, created_at, updated_at`

func (r *tasksRepo) ListTasksByUser(ctx context.Context, userID string) ([]domain.Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks WHERE user_id = ? ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		var t domain.Task
		err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Notes, &t.Priority,
			&t.Done, &t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *tasksRepo) GetTaskByID(ctx context.Context, id string) (domain.Task, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks WHERE id = ?`, id)

	var t domain.Task
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Notes, &t.Priority,
		&t.Done, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return domain.Task{}, mapNotFound(err)
	}
	return t, nil
}

func (r *tasksRepo) CreateTask(ctx context.Context, t domain.Task) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.Title, t.Notes, t.Priority, t.Done, t.CreatedAt, t.UpdatedAt)
	return mapConflict(err)
}

func (r *tasksRepo) UpdateTask(ctx context.Context, t domain.Task) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE tasks SET title = ?, notes = ?, priority = ?, done = ?, updated_at = ?
		WHERE id = ?`,
		t.Title, t.Notes, t.Priority, t.Done, t.UpdatedAt, t.ID)
	return err
}

func (r *tasksRepo) DeleteTask(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	return err
}
