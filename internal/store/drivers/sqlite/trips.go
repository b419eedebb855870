package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/triptab/triptab/internal/domain"
)

type tripsRepo struct {
	db dbtx
}

func (r *tripsRepo) CreateTrip(ctx context.Context, t domain.Trip) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO trips (id, owner_id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		t.ID, t.OwnerID, t.Name, t.CreatedAt, t.UpdatedAt)
	return mapConflict(err)
}

// GetTripByID loads the trip row together with its participants and expenses.
func (r *tripsRepo) GetTripByID(ctx context.Context, id string) (domain.Trip, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, owner_id, name, created_at, updated_at
		FROM trips WHERE id = ?`, id)

	var t domain.Trip
	err := row.Scan(&t.ID, &t.OwnerID, &t.Name, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return domain.Trip{}, mapNotFound(err)
	}

	if t.Participants, err = r.ListParticipants(ctx, id); err != nil {
		return domain.Trip{}, err
	}
	if t.Expenses, err = r.ListExpenses(ctx, id); err != nil {
		return domain.Trip{}, err
	}
	return t, nil
}

func (r *tripsRepo) ListTripsByOwner(ctx context.Context, ownerID string) ([]domain.Trip, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_id, name, created_at, updated_at
		FROM trips WHERE owner_id = ? ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []domain.Trip
	for rows.Next() {
		var t domain.Trip
		err := rows.Scan(&t.ID, &t.OwnerID, &t.Name, &t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			return nil, err
		}
		trips = append(trips, t)
	}
	return trips, rows.Err()
}

func (r *tripsRepo) AddParticipant(ctx context.Context, p domain.Participant) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO participants (id, trip_id, name) VALUES (?, ?, ?)`,
		p.ID, p.TripID, p.Name)
	return mapConflict(err)
}

func (r *tripsRepo) ListParticipants(ctx context.Context, tripID string) ([]domain.Participant, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, trip_id, name FROM participants
		WHERE trip_id = ? ORDER BY rowid`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []domain.Participant
	for rows.Next() {
		var p domain.Participant
		if err := rows.Scan(&p.ID, &p.TripID, &p.Name); err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

const expenseColumns = `id, trip_id, title, amount, paid_by, split_between, settled, created_at, updated_at`

func (r *tripsRepo) CreateExpense(ctx context.Context, e domain.Expense) error {
	split, err := json.Marshal(e.SplitBetween)
	if err != nil {
		return fmt.Errorf("encode split: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO expenses (`+expenseColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.TripID, e.Title, e.Amount, e.PaidBy, string(split), e.Settled,
		e.CreatedAt, e.UpdatedAt)
	return mapConflict(err)
}

func (r *tripsRepo) GetExpenseByID(ctx context.Context, id string) (domain.Expense, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+expenseColumns+` FROM expenses WHERE id = ?`, id)

	e, err := scanExpense(row)
	if err != nil {
		return domain.Expense{}, mapNotFound(err)
	}
	return e, nil
}

func (r *tripsRepo) ListExpenses(ctx context.Context, tripID string) ([]domain.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+expenseColumns+` FROM expenses
		WHERE trip_id = ? ORDER BY created_at`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []domain.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (r *tripsRepo) UpdateExpense(ctx context.Context, e domain.Expense) error {
	split, err := json.Marshal(e.SplitBetween)
	if err != nil {
		return fmt.Errorf("encode split: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		UPDATE expenses
		SET title = ?, amount = ?, paid_by = ?, split_between = ?, settled = ?, updated_at = ?
		WHERE id = ?`,
		e.Title, e.Amount, e.PaidBy, string(split), e.Settled, e.UpdatedAt, e.ID)
	return err
}

func (r *tripsRepo) SetExpenseSettled(ctx context.Context, id string, settled bool) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE expenses SET settled = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		settled, id)
	return err
}

func (r *tripsRepo) DeleteExpense(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	return err
}

func scanExpense(s scanner) (domain.Expense, error) {
	var (
		e     domain.Expense
		split string
	)
	err := s.Scan(&e.ID, &e.TripID, &e.Title, &e.Amount, &e.PaidBy, &split,
		&e.Settled, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return domain.Expense{}, err
	}
	if err := json.Unmarshal([]byte(split), &e.SplitBetween); err != nil {
		return domain.Expense{}, fmt.Errorf("decode split: %w", err)
	}
	return e, nil
}
