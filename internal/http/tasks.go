package http

import (
	"net/http"

	"github.com/triptab/triptab/internal/domain"
	"github.com/triptab/triptab/internal/service"
	"github.com/triptab/triptab/pkg/httpx"
)

type TasksHandler struct {
	PlannerService *service.PlannerService
}

type taskResponse struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Notes    string `json:"notes,omitempty"`
	Priority string `json:"priority"`
	Done     bool   `json:"done"`
}

func toTaskResponse(t domain.Task) taskResponse {
	return taskResponse{
		ID:       t.ID,
		Title:    t.Title,
		Notes:    t.Notes,
		Priority: string(t.Priority),
		Done:     t.Done,
	}
}

type taskRequest struct {
	Title    string `json:"title"`
	Notes    string `json:"notes"`
	Priority string `json:"priority"`
	Done     bool   `json:"done"`
}

func (req taskRequest) input() service.TaskInput {
	return service.TaskInput{
		Title:    req.Title,
		Notes:    req.Notes,
		Priority: domain.TaskPriority(req.Priority),
		Done:     req.Done,
	}
}

func (h *TasksHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.PlannerService.List(r.Context(), httpx.UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"tasks": out})
}

func (h *TasksHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	task, err := h.PlannerService.Create(r.Context(), httpx.UserIDFromContext(r.Context()), req.input())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toTaskResponse(task))
}

func (h *TasksHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tasks []taskRequest `json:"tasks"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	inputs := make([]service.TaskInput, 0, len(req.Tasks))
	for _, tr := range req.Tasks {
		inputs = append(inputs, tr.input())
	}

	created, err := h.PlannerService.Import(r.Context(), httpx.UserIDFromContext(r.Context()), inputs)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]taskResponse, 0, len(created))
	for _, t := range created {
		out = append(out, toTaskResponse(t))
	}
	httpx.WriteJSON(w, http.StatusCreated, map[string]any{"imported": out})
}

func (h *TasksHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	task, err := h.PlannerService.Update(r.Context(),
		httpx.UserIDFromContext(r.Context()), r.PathValue("id"), req.input())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTaskResponse(task))
}

func (h *TasksHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	err := h.PlannerService.Delete(r.Context(), httpx.UserIDFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
