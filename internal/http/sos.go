package http

import (
	"net/http"
	"time"

	"github.com/triptab/triptab/internal/domain"
	"github.com/triptab/triptab/internal/service"
	"github.com/triptab/triptab/pkg/httpx"
)

type SOSHandler struct {
	SOSService *service.SOSService
}

type alertResponse struct {
	ID        string    `json:"id"`
	Message   string    `json:"message,omitempty"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
	Accuracy  *float64  `json:"accuracy,omitempty"`
	MapsLink  string    `json:"mapsLink,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func toAlertResponse(a domain.SOSAlert) alertResponse {
	return alertResponse{
		ID:        a.ID,
		Message:   a.Message,
		Latitude:  a.Latitude,
		Longitude: a.Longitude,
		Accuracy:  a.Accuracy,
		MapsLink:  a.MapsLink,
		CreatedAt: a.CreatedAt,
	}
}

func (h *SOSHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message   string   `json:"message"`
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
		Accuracy  *float64 `json:"accuracy"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	alert, err := h.SOSService.Record(r.Context(), httpx.UserIDFromContext(r.Context()), service.AlertInput{
		Message:   req.Message,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Accuracy:  req.Accuracy,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toAlertResponse(alert))
}

func (h *SOSHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.SOSService.List(r.Context(), httpx.UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]alertResponse, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, toAlertResponse(a))
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"alerts": out})
}
