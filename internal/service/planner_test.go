package service_test

import (
	"context"
	"testing"

	"github.com/triptab/triptab/internal/domain"
	"github.com/triptab/triptab/internal/service"
	"github.com/stretchr/testify/require"
)

func TestPlannerCRUD(t *testing.T) {
	s := newTestStore(t)
	planner := &service.PlannerService{Store: s}
	ctx := context.Background()

	u := createUser(t, s, "planner@example.com")

	task, err := planner.Create(ctx, u.ID, service.TaskInput{Title: "Book flights"})
	require.NoError(t, err)
	require.Equal(t, domain.TaskPriorityMedium, task.Priority) // default

	updated, err := planner.Update(ctx, u.ID, task.ID, service.TaskInput{
		Title: "Book flights", Priority: domain.TaskPriorityHigh, Done: true,
	})
	require.NoError(t, err)
	require.True(t, updated.Done)
	require.Equal(t, domain.TaskPriorityHigh, updated.Priority)

	require.NoError(t, planner.Delete(ctx, u.ID, task.ID))

	tasks, err := planner.List(ctx, u.ID)
	require.NoError(t, err)
	require.Empty(t, tasks)
}

func TestPlannerValidation(t *testing.T) {
	s := newTestStore(t)
	planner := &service.PlannerService{Store: s}
	u := createUser(t, s, "pv@example.com")

	_, err := planner.Create(context.Background(), u.ID, service.TaskInput{Title: "  "})
	require.ErrorIs(t, err, service.ErrValidation)

	_, err = planner.Create(context.Background(), u.ID, service.TaskInput{Title: "x", Priority: "urgent"})
	require.ErrorIs(t, err, service.ErrValidation)
}

func TestPlannerOwnership(t *testing.T) {
	s := newTestStore(t)
	planner := &service.PlannerService{Store: s}
	ctx := context.Background()

	owner := createUser(t, s, "owner@example.com")
	stranger := createUser(t, s, "stranger@example.com")

	task, err := planner.Create(ctx, owner.ID, service.TaskInput{Title: "Private task"})
	require.NoError(t, err)

	_, err = planner.Update(ctx, stranger.ID, task.ID, service.TaskInput{Title: "hijack"})
	require.ErrorIs(t, err, service.ErrNotFound)
	require.ErrorIs(t, planner.Delete(ctx, stranger.ID, task.ID), service.ErrNotFound)
}

func TestPlannerImportSkipsDuplicates(t *testing.T) {
	s := newTestStore(t)
	planner := &service.PlannerService{Store: s}
	ctx := context.Background()

	u := createUser(t, s, "import@example.com")
	_, err := planner.Create(ctx, u.ID, service.TaskInput{Title: "Get travel insurance"})
	require.NoError(t, err)

	created, err := planner.Import(ctx, u.ID, []service.TaskInput{
		{Title: "get travel insurance", Priority: domain.TaskPriorityHigh}, // dup, case-insensitive
		{Title: "Check passport expiry", Priority: domain.TaskPriorityHigh},
		{Title: "Download offline maps"},
		{Title: "Check passport expiry"}, // dup within the batch
	})
	require.NoError(t, err)
	require.Len(t, created, 2)

	tasks, err := planner.List(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
}

func TestSOSRecordAndList(t *testing.T) {
	s := newTestStore(t)
	sos := &service.SOSService{Store: s}
	ctx := context.Background()

	u := createUser(t, s, "sos@example.com")

	lat, lng := 48.8584, 2.2945
	alert, err := sos.Record(ctx, u.ID, service.AlertInput{
		Message: "need help", Latitude: &lat, Longitude: &lng,
	})
	require.NoError(t, err)
	require.Contains(t, alert.MapsLink, "maps.google.com")

	noFix, err := sos.Record(ctx, u.ID, service.AlertInput{Message: "lost, no gps"})
	require.NoError(t, err)
	require.Empty(t, noFix.MapsLink)

	alerts, err := sos.List(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, alerts, 2)
}
