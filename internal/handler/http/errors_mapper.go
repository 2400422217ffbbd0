package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-notes-sync/internal/adapter"
	"github.com/MKhiriev/go-notes-sync/internal/logger"
	"github.com/MKhiriev/go-notes-sync/internal/service"
	"github.com/MKhiriev/go-notes-sync/internal/utils"
)

type errorResponse struct {
	Error string `json:"error"`
}

var errorStatusMap = map[error]int{
	service.ErrSyncInProgress: http.StatusConflict,
	service.ErrInvalidAction:  http.StatusBadRequest,
	service.ErrEmptyPayload:   http.StatusBadRequest,

	service.ErrPersistQueue: http.StatusInternalServerError,
	service.ErrEncodeQueue:  http.StatusInternalServerError,
}

func statusFromError(err error) int {
	// a rejected mutation carries the upstream 4xx when there is one
	if errors.Is(err, service.ErrRejected) {
		if code := adapter.StatusCode(err); code >= 400 && code < 500 {
			return code
		}
		return http.StatusBadGateway
	}
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// writeError logs err and answers with a JSON error body whose status is
// derived from err.
func writeError(w http.ResponseWriter, r *http.Request, err error, fn, msg string) {
	status := statusFromError(err)

	log := logger.FromRequest(r)
	event := log.Warn()
	if status >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.Err(err).Str("func", fn).Int("status", status).Msg(msg)

	utils.WriteJSON(w, errorResponse{Error: err.Error()}, status)
}

func writeBadRequest(w http.ResponseWriter, r *http.Request, fn, msg string) {
	logger.FromRequest(r).Warn().Str("func", fn).Msg(msg)
	utils.WriteJSON(w, errorResponse{Error: msg}, http.StatusBadRequest)
}
