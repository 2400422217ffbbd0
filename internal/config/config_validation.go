// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"net/url"
	"strings"

	"github.com/rs/zerolog"
)

// validate checks the merged [StructuredConfig] before defaults are applied.
// Only values that are wrong regardless of defaults are rejected here.
func (cfg *StructuredConfig) validate() error {
	if cfg.Workers.MaxAttempts < 0 {
		return ErrInvalidWorkerConfigs
	}
	if cfg.App.LogMaxSizeMB < 0 || cfg.App.LogMaxBackups < 0 || cfg.App.LogMaxAgeDays < 0 {
		return ErrInvalidAppConfigs
	}

	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.App.LogLevel != "" {
		if _, err := zerolog.ParseLevel(cfg.App.LogLevel); err != nil {
			return ErrInvalidAppConfigs
		}
	}

	if !isHTTPURL(cfg.Adapter.HTTPAddress) || cfg.Adapter.RequestTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}

	switch cfg.Storage.Driver {
	case DriverSQLite:
		if cfg.Storage.DB.DSN == "" || strings.Contains(cfg.Storage.DB.DSN, "memory") {
			return ErrInvalidStorageConfigs
		}
	case DriverFile:
		if cfg.Storage.Files.QueuePath == "" || cfg.Storage.Files.DeadLetterPath == "" {
			return ErrInvalidStorageConfigs
		}
	default:
		return ErrInvalidStorageConfigs
	}

	if cfg.Workers.SyncInterval <= 0 || cfg.Workers.MaxAttempts < 1 ||
		cfg.Workers.BackoffBase <= 0 || cfg.Workers.BackoffMax < cfg.Workers.BackoffBase {
		return ErrInvalidWorkerConfigs
	}

	if !isHTTPURL(cfg.Connectivity.ProbeURL) || cfg.Connectivity.Interval <= 0 || cfg.Connectivity.Timeout <= 0 {
		return ErrInvalidConnectivityConfigs
	}

	return nil
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
