package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validClientConfig() *ClientConfig {
	return NewClientConfig(&StructuredConfig{
		Adapter: Adapter{HTTPAddress: "http://localhost:8080/api"},
	})
}

func TestNewClientConfig_Defaults(t *testing.T) {
	cfg := validClientConfig()

	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, DefaultSQLiteDSN, cfg.Storage.DB.DSN)
	assert.Equal(t, DefaultSyncInterval, cfg.Workers.SyncInterval)
	assert.Equal(t, DefaultBackoffBase, cfg.Workers.BackoffBase)
	assert.Equal(t, DefaultConnectivityInterval, cfg.Connectivity.Interval)
	assert.Equal(t, "http://localhost:8080/api", cfg.Connectivity.ProbeURL)
	assert.Equal(t, DefaultLogMaxSizeMB, cfg.App.LogMaxSizeMB)
	assert.Empty(t, cfg.Control.HTTPAddress)
	assert.NoError(t, cfg.validate())
}

func TestClientConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *ClientConfig)
		wantErr error
	}{
		{"valid", func(cfg *ClientConfig) {}, nil},
		{"unknown log level", func(cfg *ClientConfig) { cfg.App.LogLevel = "loud" }, ErrInvalidAppConfigs},
		{"adapter without scheme", func(cfg *ClientConfig) { cfg.Adapter.HTTPAddress = "localhost:8080" }, ErrInvalidAdapterConfigs},
		{"zero request timeout", func(cfg *ClientConfig) { cfg.Adapter.RequestTimeout = 0 }, ErrInvalidAdapterConfigs},
		{"unknown driver", func(cfg *ClientConfig) { cfg.Storage.Driver = "redis" }, ErrInvalidStorageConfigs},
		{"in-memory sqlite", func(cfg *ClientConfig) { cfg.Storage.DB.DSN = "file::memory:" }, ErrInvalidStorageConfigs},
		{"file driver without queue path", func(cfg *ClientConfig) {
			cfg.Storage.Driver = DriverFile
			cfg.Storage.Files.QueuePath = ""
		}, ErrInvalidStorageConfigs},
		{"zero max attempts", func(cfg *ClientConfig) { cfg.Workers.MaxAttempts = 0 }, ErrInvalidWorkerConfigs},
		{"backoff max below base", func(cfg *ClientConfig) { cfg.Workers.BackoffMax = time.Millisecond }, ErrInvalidWorkerConfigs},
		{"zero probe interval", func(cfg *ClientConfig) { cfg.Connectivity.Interval = 0 }, ErrInvalidConnectivityConfigs},
		{"bad probe url", func(cfg *ClientConfig) { cfg.Connectivity.ProbeURL = "::" }, ErrInvalidConnectivityConfigs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validClientConfig()
			tt.mutate(cfg)

			err := cfg.validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
