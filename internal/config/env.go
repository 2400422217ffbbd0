// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// parseEnv populates cfg from environment variables using the caarlos0/env
// library. Struct fields are mapped via their `env` and `envPrefix` tags
// defined on [StructuredConfig] and its nested types.
func parseEnv(cfg any) error {
	err := env.Parse(cfg)
	if err != nil {
		return fmt.Errorf("error getting env configs: %w", err)
	}

	return nil
}

// loadDotEnv loads path (".env" when empty) with godotenv. Variables already
// present in the environment are not overwritten. An absent file is only
// logged at debug level.
func loadDotEnv(path string) error {
	var err error
	if path == "" {
		err = godotenv.Load()
	} else {
		err = godotenv.Load(path)
	}

	if errors.Is(err, fs.ErrNotExist) {
		log.Debug().Err(err).Msg("no .env file loaded")
		return nil
	}
	if err != nil {
		return fmt.Errorf("error loading .env file: %w", err)
	}

	return nil
}
