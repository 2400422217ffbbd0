package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/MKhiriev/go-notes-sync/internal/utils"
	"github.com/MKhiriev/go-notes-sync/models"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) createNote(w http.ResponseWriter, r *http.Request) {
	var fields models.NoteFields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeBadRequest(w, r, "*Handler.createNote", "invalid JSON was passed")
		return
	}

	result, err := h.services.Notes.CreateNote(r.Context(), fields)
	h.writeMutation(w, r, result, err, http.StatusCreated, "*Handler.createNote")
}

func (h *Handler) updateNote(w http.ResponseWriter, r *http.Request) {
	noteID, ok := noteIDParam(w, r, "*Handler.updateNote")
	if !ok {
		return
	}

	var fields models.NoteFields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeBadRequest(w, r, "*Handler.updateNote", "invalid JSON was passed")
		return
	}

	result, err := h.services.Notes.UpdateNote(r.Context(), noteID, fields)
	h.writeMutation(w, r, result, err, http.StatusOK, "*Handler.updateNote")
}

func (h *Handler) deleteNote(w http.ResponseWriter, r *http.Request) {
	noteID, ok := noteIDParam(w, r, "*Handler.deleteNote")
	if !ok {
		return
	}

	result, err := h.services.Notes.DeleteNote(r.Context(), noteID)
	h.writeMutation(w, r, result, err, http.StatusOK, "*Handler.deleteNote")
}

func (h *Handler) shareNoteWithUser(w http.ResponseWriter, r *http.Request) {
	noteID, ok := noteIDParam(w, r, "*Handler.shareNoteWithUser")
	if !ok {
		return
	}

	email := r.URL.Query().Get("email")
	if email == "" {
		writeBadRequest(w, r, "*Handler.shareNoteWithUser", "email query parameter is required")
		return
	}

	result, err := h.services.Notes.ShareWithUser(r.Context(), noteID, email)
	h.writeMutation(w, r, result, err, http.StatusOK, "*Handler.shareNoteWithUser")
}

func (h *Handler) shareNotePublic(w http.ResponseWriter, r *http.Request) {
	noteID, ok := noteIDParam(w, r, "*Handler.shareNotePublic")
	if !ok {
		return
	}

	result, err := h.services.Notes.SharePublic(r.Context(), noteID)
	h.writeMutation(w, r, result, err, http.StatusOK, "*Handler.shareNotePublic")
}

// writeMutation answers 202 for a queued mutation and doneStatus for one the
// server confirmed.
func (h *Handler) writeMutation(w http.ResponseWriter, r *http.Request, result models.MutationResult, err error, doneStatus int, fn string) {
	if err != nil {
		writeError(w, r, err, fn, "note mutation failed")
		return
	}

	status := doneStatus
	if result.Queued {
		status = http.StatusAccepted
	}
	utils.WriteJSON(w, result, status)
}

func noteIDParam(w http.ResponseWriter, r *http.Request, fn string) (int64, bool) {
	noteID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || noteID <= 0 {
		writeBadRequest(w, r, fn, "note id must be a positive integer")
		return 0, false
	}
	return noteID, true
}
