package http

import (
	"net/http"

	"github.com/triptab/triptab/internal/domain"
	"github.com/triptab/triptab/internal/service"
	"github.com/triptab/triptab/pkg/httpx"
)

type TripsHandler struct {
	TripService *service.TripService
}

type participantResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type expenseResponse struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Amount       float64  `json:"amount"`
	PaidBy       string   `json:"paidBy"`
	SplitBetween []string `json:"splitBetween"`
	Settled      bool     `json:"settled"`
}

type tripResponse struct {
	ID           string                `json:"id"`
	Name         string                `json:"name"`
	Participants []participantResponse `json:"participants"`
	Expenses     []expenseResponse     `json:"expenses"`
}

func toTripResponse(t domain.Trip) tripResponse {
	resp := tripResponse{
		ID:           t.ID,
		Name:         t.Name,
		Participants: make([]participantResponse, 0, len(t.Participants)),
		Expenses:     make([]expenseResponse, 0, len(t.Expenses)),
	}
	for _, p := range t.Participants {
		resp.Participants = append(resp.Participants, participantResponse{ID: p.ID, Name: p.Name})
	}
	for _, e := range t.Expenses {
		resp.Expenses = append(resp.Expenses, toExpenseResponse(e))
	}
	return resp
}

func toExpenseResponse(e domain.Expense) expenseResponse {
	return expenseResponse{
		ID:           e.ID,
		Title:        e.Title,
		Amount:       e.Amount,
		PaidBy:       e.PaidBy,
		SplitBetween: e.SplitBetween,
		Settled:      e.Settled,
	}
}

func (h *TripsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	trips, err := h.TripService.ListTrips(r.Context(), httpx.UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]tripResponse, 0, len(trips))
	for _, t := range trips {
		out = append(out, toTripResponse(t))
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"trips": out})
}

func (h *TripsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string   `json:"name"`
		Participants []string `json:"participants"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	trip, err := h.TripService.CreateTrip(r.Context(), httpx.UserIDFromContext(r.Context()), req.Name, req.Participants)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toTripResponse(trip))
}

func (h *TripsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	trip, err := h.TripService.GetTrip(r.Context(), httpx.UserIDFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTripResponse(trip))
}

func (h *TripsHandler) HandleBalances(w http.ResponseWriter, r *http.Request) {
	balances, transfers, err := h.TripService.Balances(r.Context(), httpx.UserIDFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"balances":  balances,
		"transfers": transfers,
	})
}

type expenseRequest struct {
	Title        string   `json:"title"`
	Amount       float64  `json:"amount"`
	PaidBy       string   `json:"paidBy"`
	SplitBetween []string `json:"splitBetween"`
}

func (req expenseRequest) input() service.ExpenseInput {
	return service.ExpenseInput{
		Title:        req.Title,
		Amount:       req.Amount,
		PaidBy:       req.PaidBy,
		SplitBetween: req.SplitBetween,
	}
}

func (h *TripsHandler) HandleAddExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	expense, err := h.TripService.AddExpense(r.Context(),
		httpx.UserIDFromContext(r.Context()), r.PathValue("id"), req.input())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toExpenseResponse(expense))
}

func (h *TripsHandler) HandleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	expense, err := h.TripService.UpdateExpense(r.Context(),
		httpx.UserIDFromContext(r.Context()), r.PathValue("id"), r.PathValue("eid"), req.input())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toExpenseResponse(expense))
}

func (h *TripsHandler) HandleToggleSettled(w http.ResponseWriter, r *http.Request) {
	expense, err := h.TripService.ToggleSettled(r.Context(),
		httpx.UserIDFromContext(r.Context()), r.PathValue("id"), r.PathValue("eid"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toExpenseResponse(expense))
}

func (h *TripsHandler) HandleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	err := h.TripService.DeleteExpense(r.Context(),
		httpx.UserIDFromContext(r.Context()), r.PathValue("id"), r.PathValue("eid"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
