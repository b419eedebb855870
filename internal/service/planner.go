package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/triptab/triptab/internal/domain"
	"github.com/triptab/triptab/internal/store"
	"github.com/triptab/triptab/pkg/idx"
)

// PlannerService manages the per-user task list.
type PlannerService struct {
	Store store.Store
}

// TaskInput is the boundary shape for creating or editing a task.
type TaskInput struct {
	Title    string
	Notes    string
	Priority domain.TaskPriority
	Done     bool
}

func (in *TaskInput) validate() error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return fmt.Errorf("%w: title required", ErrValidation)
	}
	if in.Priority == "" {
		in.Priority = domain.TaskPriorityMedium
	}
	if !domain.ValidPriority(in.Priority) {
		return fmt.Errorf("%w: unknown priority %q", ErrValidation, in.Priority)
	}
	return nil
}

func (s *PlannerService) List(ctx context.Context, userID string) ([]domain.Task, error) {
	return s.Store.Tasks().ListTasksByUser(ctx, userID)
}

func (s *PlannerService) Create(ctx context.Context, userID string, in TaskInput) (domain.Task, error) {
	if err := in.validate(); err != nil {
		return domain.Task{}, err
	}

	now := time.Now().UTC()
	task := domain.Task{
		ID:        idx.MustNew().String(),
		UserID:    userID,
		Title:     in.Title,
		Notes:     in.Notes,
		Priority:  in.Priority,
		Done:      in.Done,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Store.Tasks().CreateTask(ctx, task); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

// Import bulk-creates recommended tasks, skipping titles the user already
// has. Returns the tasks actually created.
func (s *PlannerService) Import(ctx context.Context, userID string, inputs []TaskInput) ([]domain.Task, error) {
	existing, err := s.Store.Tasks().ListTasksByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(existing))
	for _, t := range existing {
		seen[strings.ToLower(t.Title)] = true
	}

	now := time.Now().UTC()
	var created []domain.Task
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		for _, in := range inputs {
			if err := in.validate(); err != nil {
				return err
			}
			if seen[strings.ToLower(in.Title)] {
				continue
			}
			seen[strings.ToLower(in.Title)] = true

			task := domain.Task{
				ID:        idx.MustNew().String(),
				UserID:    userID,
				Title:     in.Title,
				Notes:     in.Notes,
				Priority:  in.Priority,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := tx.Tasks().CreateTask(ctx, task); err != nil {
				return err
			}
			created = append(created, task)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *PlannerService) Update(ctx context.Context, userID, taskID string, in TaskInput) (domain.Task, error) {
	if err := in.validate(); err != nil {
		return domain.Task{}, err
	}

	task, err := s.ownedTask(ctx, userID, taskID)
	if err != nil {
		return domain.Task{}, err
	}

	task.Title = in.Title
	task.Notes = in.Notes
	task.Priority = in.Priority
	task.Done = in.Done
	task.UpdatedAt = time.Now().UTC()

	if err := s.Store.Tasks().UpdateTask(ctx, task); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

func (s *PlannerService) Delete(ctx context.Context, userID, taskID string) error {
	if _, err := s.ownedTask(ctx, userID, taskID); err != nil {
		return err
	}
	return s.Store.Tasks().DeleteTask(ctx, taskID)
}

func (s *PlannerService) ownedTask(ctx context.Context, userID, taskID string) (domain.Task, error) {
	task, err := s.Store.Tasks().GetTaskByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Task{}, ErrNotFound
		}
		return domain.Task{}, err
	}
	if task.UserID != userID {
		return domain.Task{}, ErrNotFound
	}
	return task, nil
}
