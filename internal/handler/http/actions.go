package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/MKhiriev/go-notes-sync/internal/utils"
	"github.com/MKhiriev/go-notes-sync/models"
	"github.com/go-chi/chi/v5"
)

const (
	defaultAbandonedLimit = 50
	maxAbandonedLimit     = 1000
)

type enqueueRequest struct {
	Kind models.ActionKind `json:"type"`
	Data json.RawMessage   `json:"data"`
}

type enqueueResponse struct {
	ActionID string `json:"actionId"`
}

func (h *Handler) listActions(w http.ResponseWriter, r *http.Request) {
	actions := h.services.Queue.Snapshot()
	if actions == nil {
		actions = []models.QueuedAction{}
	}
	utils.WriteJSON(w, actions, http.StatusOK)
}

func (h *Handler) enqueueAction(w http.ResponseWriter, r *http.Request) {
	var req enqueueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, r, "*Handler.enqueueAction", "invalid JSON was passed")
		return
	}

	payload, err := models.DecodeActionPayload(req.Kind, req.Data)
	if err != nil {
		writeBadRequest(w, r, "*Handler.enqueueAction", err.Error())
		return
	}

	id, err := h.services.Engine.Enqueue(r.Context(), payload)
	if err != nil {
		writeError(w, r, err, "*Handler.enqueueAction", "action was not queued")
		return
	}

	utils.WriteJSON(w, enqueueResponse{ActionID: id}, http.StatusAccepted)
}

func (h *Handler) clearActions(w http.ResponseWriter, r *http.Request) {
	if err := h.services.Queue.Clear(r.Context()); err != nil {
		writeError(w, r, err, "*Handler.clearActions", "error clearing action queue")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) removeAction(w http.ResponseWriter, r *http.Request) {
	if err := h.services.Queue.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err, "*Handler.removeAction", "error removing action")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listAbandoned(w http.ResponseWriter, r *http.Request) {
	limit := defaultAbandonedLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeBadRequest(w, r, "*Handler.listAbandoned", "limit must be a positive integer")
			return
		}
		limit = min(n, maxAbandonedLimit)
	}

	records, err := h.services.Engine.Abandoned(r.Context(), limit)
	if err != nil {
		writeError(w, r, err, "*Handler.listAbandoned", "error reading abandoned actions")
		return
	}
	if records == nil {
		records = []models.AbandonedAction{}
	}

	utils.WriteJSON(w, records, http.StatusOK)
}
