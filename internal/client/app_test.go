package client

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/MKhiriev/go-notes-sync/internal/config"
	"github.com/MKhiriev/go-notes-sync/internal/logger"
	"github.com/MKhiriev/go-notes-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeView struct {
	run func(ctx context.Context) error
}

func (v *fakeView) Run(ctx context.Context) error { return v.run(ctx) }

func freeAddress(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return addr
}

func newTestConfig(t *testing.T, apiURL, controlAddr string) *config.ClientConfig {
	t.Helper()
	dir := t.TempDir()

	return config.NewClientConfig(&config.StructuredConfig{
		Adapter: config.Adapter{HTTPAddress: apiURL},
		Storage: config.Storage{
			Driver: config.DriverFile,
			Files: config.Files{
				QueuePath:      filepath.Join(dir, "queue.json"),
				DeadLetterPath: filepath.Join(dir, "abandoned.jsonl"),
			},
		},
		Control: config.Control{HTTPAddress: controlAddr},
	})
}

func newNotesServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewApp_ControlAPIDisabled(t *testing.T) {
	cfg := newTestConfig(t, newNotesServer(t).URL, "")

	app, err := NewApp(context.Background(), cfg, models.NewAppBuildInfo("", "", ""), logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.storages.Close() })

	assert.Nil(t, app.server)
	assert.Nil(t, app.view)
}

func TestNewApp_InvalidAdapterAddress(t *testing.T) {
	cfg := newTestConfig(t, "", "")

	_, err := NewApp(context.Background(), cfg, models.NewAppBuildInfo("", "", ""), logger.Nop())

	assert.Error(t, err)
}

func TestApp_Run_ServesControlAPIUntilCancelled(t *testing.T) {
	addr := freeAddress(t)
	cfg := newTestConfig(t, newNotesServer(t).URL, addr)

	app, err := NewApp(context.Background(), cfg, models.NewAppBuildInfo("v1", "today", "abc"), logger.Nop())
	require.NoError(t, err)
	require.NotNil(t, app.server)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/api/sync/status")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestApp_Run_ViewExitStopsProcess(t *testing.T) {
	cfg := newTestConfig(t, newNotesServer(t).URL, "")

	app, err := NewApp(context.Background(), cfg, models.NewAppBuildInfo("", "", ""), logger.Nop())
	require.NoError(t, err)

	viewErr := errors.New("terminal closed")
	app.view = &fakeView{run: func(context.Context) error { return viewErr }}

	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background()) }()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, viewErr)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after the view exited")
	}
}
