package http

import (
	"net/http"

	"github.com/MKhiriev/go-notes-sync/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID, h.withLogging)

	// sync engine
	router.Group(func(r chi.Router) {
		r.Get("/api/sync/status", h.getSyncStatus)
		r.Post("/api/sync", h.triggerSync)
	})

	// action queue and dead letters
	router.Group(func(r chi.Router) {
		r.Get("/api/actions", h.listActions)
		r.Post("/api/actions", h.enqueueAction)
		r.Delete("/api/actions", h.clearActions)
		r.Get("/api/actions/abandoned", h.listAbandoned)
		r.Delete("/api/actions/{id}", h.removeAction)
	})

	// online-first note mutations
	router.Group(func(r chi.Router) {
		r.Post("/api/notes", h.createNote)
		r.Put("/api/notes/{id}", h.updateNote)
		r.Delete("/api/notes/{id}", h.deleteNote)
		r.Post("/api/notes/{id}/share/user", h.shareNoteWithUser)
		r.Post("/api/notes/{id}/share/public", h.shareNotePublic)
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, errorResponse{Error: "route not found"}, http.StatusNotFound)
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, errorResponse{Error: "method not allowed"}, http.StatusMethodNotAllowed)
	})

	return router
}
