// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import "errors"

var (
	ErrSyncInProgress = errors.New("sync already in progress")
	ErrEncodeQueue    = errors.New("error encoding action queue")
	ErrPersistQueue   = errors.New("error persisting action queue")
	ErrEmptyPayload   = errors.New("empty action payload")
	ErrInvalidAction  = errors.New("invalid action")
	ErrRejected       = errors.New("mutation rejected by server")

	errDispatchPanic = errors.New("dispatch panicked")
	errRetriesLeft   = errors.New("actions left for retry")
)
