package service_test

import (
	"context"
	"testing"

	"github.com/triptab/triptab/internal/domain"
	"github.com/triptab/triptab/internal/service"
	"github.com/stretchr/testify/require"
)

func newTripFixture(t *testing.T) (*service.TripService, string, domain.Trip) {
	t.Helper()

	s := newTestStore(t)
	u := createUser(t, s, "trips@example.com")
	trips := &service.TripService{Store: s}

	trip, err := trips.CreateTrip(context.Background(), u.ID, "Japan 2026", []string{"A", "B", "C", "D"})
	require.NoError(t, err)
	require.Len(t, trip.Participants, 4)

	return trips, u.ID, trip
}

func pid(trip domain.Trip, name string) string {
	for _, p := range trip.Participants {
		if p.Name == name {
			return p.ID
		}
	}
	return ""
}

func TestCreateTripValidation(t *testing.T) {
	s := newTestStore(t)
	u := createUser(t, s, "v@example.com")
	trips := &service.TripService{Store: s}

	_, err := trips.CreateTrip(context.Background(), u.ID, "   ", nil)
	require.ErrorIs(t, err, service.ErrValidation)
}

func TestTripOwnershipIsolation(t *testing.T) {
	trips, _, trip := newTripFixture(t)

	_, err := trips.GetTrip(context.Background(), "someone-else", trip.ID)
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestAddExpenseValidation(t *testing.T) {
	trips, owner, trip := newTripFixture(t)
	ctx := context.Background()
	a := pid(trip, "A")

	cases := []struct {
		name  string
		input service.ExpenseInput
	}{
		{"empty title", service.ExpenseInput{Title: " ", Amount: 10, PaidBy: a, SplitBetween: []string{a}}},
		{"zero amount", service.ExpenseInput{Title: "x", Amount: 0, PaidBy: a, SplitBetween: []string{a}}},
		{"negative amount", service.ExpenseInput{Title: "x", Amount: -5, PaidBy: a, SplitBetween: []string{a}}},
		{"empty split", service.ExpenseInput{Title: "x", Amount: 10, PaidBy: a}},
		{"unknown payer", service.ExpenseInput{Title: "x", Amount: 10, PaidBy: "ghost", SplitBetween: []string{a}}},
		{"unknown split member", service.ExpenseInput{Title: "x", Amount: 10, PaidBy: a, SplitBetween: []string{"ghost"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := trips.AddExpense(ctx, owner, trip.ID, tc.input)
			require.ErrorIs(t, err, service.ErrValidation)
		})
	}
}

func TestTripBalancesEndToEnd(t *testing.T) {
	trips, owner, trip := newTripFixture(t)
	ctx := context.Background()

	a, b, c, d := pid(trip, "A"), pid(trip, "B"), pid(trip, "C"), pid(trip, "D")
	everyone := []string{a, b, c, d}

	for _, in := range []service.ExpenseInput{
		{Title: "hotel", Amount: 8000, PaidBy: b, SplitBetween: everyone},
		{Title: "dinner", Amount: 2200, PaidBy: a, SplitBetween: everyone},
		{Title: "taxi", Amount: 450, PaidBy: c, SplitBetween: everyone},
	} {
		_, err := trips.AddExpense(ctx, owner, trip.ID, in)
		require.NoError(t, err)
	}

	balances, transfers, err := trips.Balances(ctx, owner, trip.ID)
	require.NoError(t, err)
	require.Len(t, balances, 4)

	net := make(map[string]float64)
	for _, bal := range balances {
		net[bal.ParticipantID] = bal.Net
	}
	require.InDelta(t, -575, net[a], 0.01)
	require.InDelta(t, 5450, net[b], 0.01)
	require.InDelta(t, -2325, net[c], 0.01)
	require.InDelta(t, -2550, net[d], 0.01)

	require.Len(t, transfers, 3)
	require.Equal(t, domain.Transfer{From: d, To: b, Amount: 2550}, transfers[0])
	require.Equal(t, domain.Transfer{From: c, To: b, Amount: 2325}, transfers[1])
	require.Equal(t, domain.Transfer{From: a, To: b, Amount: 575}, transfers[2])
}

func TestToggleSettledExcludesFromBalances(t *testing.T) {
	trips, owner, trip := newTripFixture(t)
	ctx := context.Background()

	a, b := pid(trip, "A"), pid(trip, "B")
	expense, err := trips.AddExpense(ctx, owner, trip.ID, service.ExpenseInput{
		Title: "lunch", Amount: 100, PaidBy: a, SplitBetween: []string{a, b},
	})
	require.NoError(t, err)

	toggled, err := trips.ToggleSettled(ctx, owner, trip.ID, expense.ID)
	require.NoError(t, err)
	require.True(t, toggled.Settled)

	_, transfers, err := trips.Balances(ctx, owner, trip.ID)
	require.NoError(t, err)
	require.Empty(t, transfers)

	toggled, err = trips.ToggleSettled(ctx, owner, trip.ID, expense.ID)
	require.NoError(t, err)
	require.False(t, toggled.Settled)
}

func TestUpdateAndDeleteExpense(t *testing.T) {
	trips, owner, trip := newTripFixture(t)
	ctx := context.Background()

	a, b := pid(trip, "A"), pid(trip, "B")
	expense, err := trips.AddExpense(ctx, owner, trip.ID, service.ExpenseInput{
		Title: "museum", Amount: 60, PaidBy: a, SplitBetween: []string{a, b},
	})
	require.NoError(t, err)

	updated, err := trips.UpdateExpense(ctx, owner, trip.ID, expense.ID, service.ExpenseInput{
		Title: "museum + audio guide", Amount: 80, PaidBy: b, SplitBetween: []string{a, b},
	})
	require.NoError(t, err)
	require.Equal(t, "museum + audio guide", updated.Title)
	require.Equal(t, b, updated.PaidBy)

	require.NoError(t, trips.DeleteExpense(ctx, owner, trip.ID, expense.ID))
	err = trips.DeleteExpense(ctx, owner, trip.ID, expense.ID)
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestExpenseFromAnotherTripIsNotFound(t *testing.T) {
	trips, owner, trip := newTripFixture(t)
	ctx := context.Background()

	other, err := trips.CreateTrip(ctx, owner, "Side quest", []string{"X"})
	require.NoError(t, err)
	x := pid(other, "X")
	expense, err := trips.AddExpense(ctx, owner, other.ID, service.ExpenseInput{
		Title: "snacks", Amount: 5, PaidBy: x, SplitBetween: []string{x},
	})
	require.NoError(t, err)

	_, err = trips.ToggleSettled(ctx, owner, trip.ID, expense.ID)
	require.ErrorIs(t, err, service.ErrNotFound)
}
