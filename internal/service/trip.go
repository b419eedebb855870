package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/triptab/triptab/internal/domain"
	"github.com/triptab/triptab/internal/settle"
	"github.com/triptab/triptab/internal/store"
	"github.com/triptab/triptab/pkg/idx"
)

// TripService owns the per-trip expense ledger.
type TripService struct {
	Store store.Store
}

// CreateTrip creates the trip and its initial participant list atomically.
func (s *TripService) CreateTrip(ctx context.Context, ownerID, name string, participantNames []string) (domain.Trip, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Trip{}, fmt.Errorf("%w: trip name required", ErrValidation)
	}

	now := time.Now().UTC()
	trip := domain.Trip{
		ID:        idx.MustNew().String(),
		OwnerID:   ownerID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Trips().CreateTrip(ctx, trip); err != nil {
			return err
		}
		for _, pn := range participantNames {
			pn = strings.TrimSpace(pn)
			if pn == "" {
				continue
			}
			p := domain.Participant{ID: idx.MustNew().String(), TripID: trip.ID, Name: pn}
			if err := tx.Trips().AddParticipant(ctx, p); err != nil {
				return err
			}
			trip.Participants = append(trip.Participants, p)
		}
		return nil
	})
	if err != nil {
		return domain.Trip{}, err
	}
	return trip, nil
}

// GetTrip loads a trip the caller owns. Trips belonging to someone else are
// indistinguishable from missing ones.
func (s *TripService) GetTrip(ctx context.Context, userID, tripID string) (domain.Trip, error) {
	trip, err := s.Store.Trips().GetTripByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Trip{}, ErrNotFound
		}
		return domain.Trip{}, err
	}
	if trip.OwnerID != userID {
		return domain.Trip{}, ErrNotFound
	}
	return trip, nil
}

// ListTrips returns the caller's trips, newest first, without children.
func (s *TripService) ListTrips(ctx context.Context, userID string) ([]domain.Trip, error) {
	return s.Store.Trips().ListTripsByOwner(ctx, userID)
}

// ExpenseInput is the boundary shape for creating or editing an expense.
type ExpenseInput struct {
	Title        string
	Amount       float64
	PaidBy       string
	SplitBetween []string
}

func (in ExpenseInput) validate(trip domain.Trip) error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title required", ErrValidation)
	}
	if in.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if len(in.SplitBetween) == 0 {
		return fmt.Errorf("%w: split must include at least one participant", ErrValidation)
	}

	known := make(map[string]bool, len(trip.Participants))
	for _, p := range trip.Participants {
		known[p.ID] = true
	}
	if !known[in.PaidBy] {
		return fmt.Errorf("%w: payer is not a trip participant", ErrValidation)
	}
	for _, pid := range in.SplitBetween {
		if !known[pid] {
			return fmt.Errorf("%w: split member is not a trip participant", ErrValidation)
		}
	}
	return nil
}

func (s *TripService) AddExpense(ctx context.Context, userID, tripID string, in ExpenseInput) (domain.Expense, error) {
	trip, err := s.GetTrip(ctx, userID, tripID)
	if err != nil {
		return domain.Expense{}, err
	}
	if err := in.validate(trip); err != nil {
		return domain.Expense{}, err
	}

	now := time.Now().UTC()
	expense := domain.Expense{
		ID:           idx.MustNew().String(),
		TripID:       tripID,
		Title:        strings.TrimSpace(in.Title),
		Amount:       in.Amount,
		PaidBy:       in.PaidBy,
		SplitBetween: in.SplitBetween,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Store.Trips().CreateExpense(ctx, expense); err != nil {
		return domain.Expense{}, err
	}
	return expense, nil
}

func (s *TripService) UpdateExpense(ctx context.Context, userID, tripID, expenseID string, in ExpenseInput) (domain.Expense, error) {
	trip, err := s.GetTrip(ctx, userID, tripID)
	if err != nil {
		return domain.Expense{}, err
	}
	if err := in.validate(trip); err != nil {
		return domain.Expense{}, err
	}

	expense, err := s.tripExpense(ctx, trip, expenseID)
	if err != nil {
		return domain.Expense{}, err
	}

	expense.Title = strings.TrimSpace(in.Title)
	expense.Amount = in.Amount
	expense.PaidBy = in.PaidBy
	expense.SplitBetween = in.SplitBetween
	expense.UpdatedAt = time.Now().UTC()

	if err := s.Store.Trips().UpdateExpense(ctx, expense); err != nil {
		return domain.Expense{}, err
	}
	return expense, nil
}

// ToggleSettled flips the settled flag and returns the new state.
func (s *TripService) ToggleSettled(ctx context.Context, userID, tripID, expenseID string) (domain.Expense, error) {
	trip, err := s.GetTrip(ctx, userID, tripID)
	if err != nil {
		return domain.Expense{}, err
	}
	expense, err := s.tripExpense(ctx, trip, expenseID)
	if err != nil {
		return domain.Expense{}, err
	}

	expense.Settled = !expense.Settled
	if err := s.Store.Trips().SetExpenseSettled(ctx, expense.ID, expense.Settled); err != nil {
		return domain.Expense{}, err
	}
	return expense, nil
}

func (s *TripService) DeleteExpense(ctx context.Context, userID, tripID, expenseID string) error {
	trip, err := s.GetTrip(ctx, userID, tripID)
	if err != nil {
		return err
	}
	if _, err := s.tripExpense(ctx, trip, expenseID); err != nil {
		return err
	}
	return s.Store.Trips().DeleteExpense(ctx, expenseID)
}

// Balances runs the settlement engine over the trip's current ledger.
func (s *TripService) Balances(ctx context.Context, userID, tripID string) ([]domain.Balance, []domain.Transfer, error) {
	trip, err := s.GetTrip(ctx, userID, tripID)
	if err != nil {
		return nil, nil, err
	}

	byID := settle.ComputeBalances(trip.Participants, trip.Expenses)
	transfers := settle.SuggestTransfers(trip.Participants, byID)

	// Stable output order follows the participant list.
	balances := make([]domain.Balance, 0, len(trip.Participants))
	for _, p := range trip.Participants {
		balances = append(balances, byID[p.ID])
	}
	return balances, transfers, nil
}

func (s *TripService) tripExpense(ctx context.Context, trip domain.Trip, expenseID string) (domain.Expense, error) {
	expense, err := s.Store.Trips().GetExpenseByID(ctx, expenseID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Expense{}, ErrNotFound
		}
		return domain.Expense{}, err
	}
	if expense.TripID != trip.ID {
		return domain.Expense{}, ErrNotFound
	}
	return expense, nil
}
