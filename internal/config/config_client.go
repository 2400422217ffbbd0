package config

import (
	"fmt"
	"time"
)

// Storage drivers accepted by [ClientStorage.Driver].
const (
	DriverSQLite = "sqlite"
	DriverFile   = "file"
)

// Defaults applied by [GetClientConfig] to zero fields.
const (
	DefaultRequestTimeout       = 10 * time.Second
	DefaultSQLiteDSN            = "file:notes-sync.db?_journal_mode=WAL"
	DefaultQueuePath            = "offline_queue.json"
	DefaultDeadLetterPath       = "abandoned_actions.jsonl"
	DefaultSyncInterval         = 30 * time.Second
	DefaultMaxAttempts          = 3
	DefaultBackoffBase          = time.Second
	DefaultBackoffMax           = time.Minute
	DefaultConnectivityInterval = 5 * time.Second
	DefaultConnectivityTimeout  = 3 * time.Second
	DefaultLogMaxSizeMB         = 10
	DefaultLogMaxBackups        = 3
	DefaultLogMaxAgeDays        = 28
)

// ClientApp holds logging and presentation settings.
type ClientApp struct {
	LogFile       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogLevel      string
	TUI           bool
}

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// HTTPAddress is the base URL of the notes API.
	HTTPAddress string
	// RequestTimeout is the default timeout for outbound client requests.
	RequestTimeout time.Duration
	AccessToken    string
	RefreshToken   string
}

// ClientDB contains local database connection settings for the client.
type ClientDB struct {
	// DSN is the SQLite connection string.
	DSN string
}

// ClientFiles contains file backend paths.
type ClientFiles struct {
	QueuePath      string
	DeadLetterPath string
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	// Driver selects the backend, see [DriverSQLite] and [DriverFile].
	Driver string
	DB     ClientDB
	Files  ClientFiles
}

// ClientWorkers contains client background worker settings.
type ClientWorkers struct {
	// SyncInterval defines how often the scheduled drain pass runs.
	SyncInterval time.Duration
	MaxAttempts  int
	BackoffBase  time.Duration
	BackoffMax   time.Duration
}

// ClientConnectivity configures the reachability probe.
type ClientConnectivity struct {
	ProbeURL string
	Interval time.Duration
	Timeout  time.Duration
}

// ClientControl configures the local control API.
type ClientControl struct {
	// HTTPAddress is empty when the control API is disabled.
	HTTPAddress string
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	App          ClientApp
	Adapter      ClientAdapter
	Storage      ClientStorage
	Workers      ClientWorkers
	Connectivity ClientConnectivity
	Control      ClientControl
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration. args are the command-line arguments
// without the program name.
func GetClientConfig(args []string) (*ClientConfig, error) {
	cfg, err := GetStructuredConfig(args)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := NewClientConfig(cfg)
	return clientCfg, clientCfg.validate()
}

// NewClientConfig maps cfg to a [ClientConfig] and fills in defaults. It
// does not validate the result.
func NewClientConfig(cfg *StructuredConfig) *ClientConfig {
	clientCfg := &ClientConfig{
		App: ClientApp{
			LogFile:       cfg.App.LogFile,
			LogMaxSizeMB:  orInt(cfg.App.LogMaxSizeMB, DefaultLogMaxSizeMB),
			LogMaxBackups: orInt(cfg.App.LogMaxBackups, DefaultLogMaxBackups),
			LogMaxAgeDays: orInt(cfg.App.LogMaxAgeDays, DefaultLogMaxAgeDays),
			LogLevel:      cfg.App.LogLevel,
			TUI:           cfg.App.TUI,
		},
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: orDuration(cfg.Adapter.RequestTimeout, DefaultRequestTimeout),
			AccessToken:    cfg.Adapter.AccessToken,
			RefreshToken:   cfg.Adapter.RefreshToken,
		},
		Storage: ClientStorage{
			Driver: orString(cfg.Storage.Driver, DriverSQLite),
			DB:     ClientDB{DSN: orString(cfg.Storage.DB.DSN, DefaultSQLiteDSN)},
			Files: ClientFiles{
				QueuePath:      orString(cfg.Storage.Files.QueuePath, DefaultQueuePath),
				DeadLetterPath: orString(cfg.Storage.Files.DeadLetterPath, DefaultDeadLetterPath),
			},
		},
		Workers: ClientWorkers{
			SyncInterval: orDuration(cfg.Workers.SyncInterval, DefaultSyncInterval),
			MaxAttempts:  orInt(cfg.Workers.MaxAttempts, DefaultMaxAttempts),
			BackoffBase:  orDuration(cfg.Workers.BackoffBase, DefaultBackoffBase),
			BackoffMax:   orDuration(cfg.Workers.BackoffMax, DefaultBackoffMax),
		},
		Connectivity: ClientConnectivity{
			ProbeURL: orString(cfg.Connectivity.ProbeURL, cfg.Adapter.HTTPAddress),
			Interval: orDuration(cfg.Connectivity.Interval, DefaultConnectivityInterval),
			Timeout:  orDuration(cfg.Connectivity.Timeout, DefaultConnectivityTimeout),
		},
		Control: ClientControl{HTTPAddress: cfg.Control.HTTPAddress},
	}

	return clientCfg
}

func orString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func orInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func orDuration(v, def time.Duration) time.Duration {
	if v == 0 {
		return def
	}
	return v
}
