// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package handler

import "errors"

// ErrNoHandlersAreCreated is returned by NewHandlers when the configuration
// enables no transport. The client treats it as "control API disabled".
var ErrNoHandlersAreCreated = errors.New("no handlers are created")
