// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the sync client process runtime.
//
// It wires storages, the notes API adapter, the sync services, the optional
// control API server and the optional terminal status bar into a single
// process lifecycle that ends on a signal or when the user quits.
package client
