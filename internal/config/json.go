package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with snake_case keys and
// string durations.
type StructuredJSONConfig struct {
	App struct {
		LogFile       string `json:"log_file"`
		LogMaxSizeMB  int    `json:"log_max_size_mb"`
		LogMaxBackups int    `json:"log_max_backups"`
		LogMaxAgeDays int    `json:"log_max_age_days"`
		LogLevel      string `json:"log_level"`
		TUI           bool   `json:"tui"`
	} `json:"app,omitempty"`

	Adapter struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
		AccessToken    string   `json:"access_token"`
		RefreshToken   string   `json:"refresh_token"`
	} `json:"adapter,omitempty"`

	Storage struct {
		Driver string `json:"driver"`
		DB     struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
		Files struct {
			QueuePath      string `json:"queue_path"`
			DeadLetterPath string `json:"dead_letter_path"`
		} `json:"files,omitempty"`
	} `json:"storage,omitempty"`

	Workers struct {
		SyncInterval Duration `json:"sync_interval"`
		MaxAttempts  int      `json:"max_attempts"`
		BackoffBase  Duration `json:"backoff_base"`
		BackoffMax   Duration `json:"backoff_max"`
	} `json:"workers,omitempty"`

	Connectivity struct {
		ProbeURL string   `json:"probe_url"`
		Interval Duration `json:"interval"`
		Timeout  Duration `json:"timeout"`
	} `json:"connectivity,omitempty"`

	Control struct {
		HTTPAddress string `json:"http_address"`
	} `json:"control,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			LogFile:       jsonCfg.App.LogFile,
			LogMaxSizeMB:  jsonCfg.App.LogMaxSizeMB,
			LogMaxBackups: jsonCfg.App.LogMaxBackups,
			LogMaxAgeDays: jsonCfg.App.LogMaxAgeDays,
			LogLevel:      jsonCfg.App.LogLevel,
			TUI:           jsonCfg.App.TUI,
		},
		Adapter: Adapter{
			HTTPAddress:    jsonCfg.Adapter.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
			AccessToken:    jsonCfg.Adapter.AccessToken,
			RefreshToken:   jsonCfg.Adapter.RefreshToken,
		},
		Storage: Storage{
			Driver: jsonCfg.Storage.Driver,
			DB:     DB{DSN: jsonCfg.Storage.DB.DSN},
			Files: Files{
				QueuePath:      jsonCfg.Storage.Files.QueuePath,
				DeadLetterPath: jsonCfg.Storage.Files.DeadLetterPath,
			},
		},
		Workers: Workers{
			SyncInterval: time.Duration(jsonCfg.Workers.SyncInterval),
			MaxAttempts:  jsonCfg.Workers.MaxAttempts,
			BackoffBase:  time.Duration(jsonCfg.Workers.BackoffBase),
			BackoffMax:   time.Duration(jsonCfg.Workers.BackoffMax),
		},
		Connectivity: Connectivity{
			ProbeURL: jsonCfg.Connectivity.ProbeURL,
			Interval: time.Duration(jsonCfg.Connectivity.Interval),
			Timeout:  time.Duration(jsonCfg.Connectivity.Timeout),
		},
		Control: Control{HTTPAddress: jsonCfg.Control.HTTPAddress},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
