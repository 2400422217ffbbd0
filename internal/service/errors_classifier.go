// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"net/http"

	"github.com/MKhiriev/go-notes-sync/internal/adapter"
	"github.com/MKhiriev/go-notes-sync/models"
)

// classifyDispatchError decides whether a failed dispatch is worth retrying.
//
// Network failures, timeouts, 401 (a token refresh may still succeed), 408,
// 429 and every 5xx are transient. Any other 4xx is a final rejection of
// the request, as is an action of unknown kind. Other errors that carry no
// status are treated as transient.
func classifyDispatchError(err error) models.FailureClass {
	if err == nil {
		return models.FailureNone
	}

	switch {
	case errors.Is(err, models.ErrUnknownActionKind):
		return models.FailurePermanent
	case errors.Is(err, adapter.ErrTransport),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return models.FailureTransient
	}

	code := adapter.StatusCode(err)
	switch {
	case code == 0:
		return models.FailureTransient
	case code == http.StatusUnauthorized,
		code == http.StatusRequestTimeout,
		code == http.StatusTooManyRequests,
		code >= http.StatusInternalServerError:
		return models.FailureTransient
	default:
		return models.FailurePermanent
	}
}
