package http

import (
	"net/http"

	"github.com/MKhiriev/go-notes-sync/internal/service"
	"github.com/MKhiriev/go-notes-sync/internal/utils"
)

func (h *Handler) getSyncStatus(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, h.services.Engine.GetStatus(), http.StatusOK)
}

// triggerSync runs a drain pass in the request goroutine and answers with its
// report. A pass already running yields 409.
func (h *Handler) triggerSync(w http.ResponseWriter, r *http.Request) {
	ctx := utils.WithSyncTrigger(r.Context(), service.TriggerManual)

	report, err := h.services.Engine.TriggerSync(ctx)
	if err != nil {
		writeError(w, r, err, "*Handler.triggerSync", "sync pass was not started")
		return
	}

	utils.WriteJSON(w, report, http.StatusOK)
}
