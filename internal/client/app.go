package client

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"sync"
	"syscall"

	"github.com/MKhiriev/go-notes-sync/internal/adapter"
	"github.com/MKhiriev/go-notes-sync/internal/config"
	"github.com/MKhiriev/go-notes-sync/internal/handler"
	"github.com/MKhiriev/go-notes-sync/internal/logger"
	"github.com/MKhiriev/go-notes-sync/internal/server"
	"github.com/MKhiriev/go-notes-sync/internal/service"
	"github.com/MKhiriev/go-notes-sync/internal/store"
	"github.com/MKhiriev/go-notes-sync/internal/tui"
	"github.com/MKhiriev/go-notes-sync/models"
)

type App struct {
	storages *store.ClientStorages
	services *service.ClientServices
	server   server.Server
	view     statusView

	buildInfo models.AppBuildInfo
	logger    *logger.Logger
}

// NewApp builds every component of the client. The persisted queue is
// restored here, before any background work starts.
func NewApp(ctx context.Context, cfg *config.ClientConfig, buildInfo models.AppBuildInfo, log *logger.Logger) (*App, error) {
	storages, err := store.NewClientStorages(ctx, cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("create client storages: %w", err)
	}

	api, err := adapter.NewHTTPNotesAdapter(cfg.Adapter, log)
	if err != nil {
		_ = storages.Close()
		return nil, fmt.Errorf("create notes adapter: %w", err)
	}
	probe := adapter.NewHTTPConnectivityProbe(cfg.Connectivity, log)

	services := service.NewClientServices(ctx, storages, api, probe, cfg, log)

	app := &App{
		storages:  storages,
		services:  services,
		buildInfo: buildInfo,
		logger:    log,
	}

	handlers, err := handler.NewHandlers(services, cfg.Control, log)
	switch {
	case errors.Is(err, handler.ErrNoHandlersAreCreated):
		log.Info().Msg("control API disabled")
	case err != nil:
		_ = storages.Close()
		return nil, fmt.Errorf("create handlers: %w", err)
	default:
		if app.server, err = server.NewServer(handlers, cfg.Control, log); err != nil {
			_ = storages.Close()
			return nil, fmt.Errorf("create control server: %w", err)
		}
	}

	if cfg.App.TUI {
		app.view = tui.New(services, log)
	}

	return app, nil
}

// Run starts background sync and the optional server and status bar, and
// blocks until a termination signal arrives, the status bar is closed, or
// the server fails.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer cancel()

	a.logger.Info().
		Str("version", a.buildInfo.BuildVersion()).
		Str("commit", a.buildInfo.BuildCommit()).
		Int("pending", a.services.Queue.Len()).
		Msg("starting sync client")

	a.services.Start(ctx)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	fail := func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}

	if a.server != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := a.server.RunServer(ctx); err != nil {
				fail(err)
				cancel()
			}
		}()
	}

	if a.view != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// closing the status bar ends the process
			defer cancel()
			if err := a.view.Run(ctx); err != nil {
				fail(err)
			}
		}()
	}

	<-ctx.Done()
	a.logger.Info().Msg("shutting down sync client")

	wg.Wait()
	a.services.Stop()

	if err := a.storages.Close(); err != nil {
		fail(fmt.Errorf("close storages: %w", err))
	}

	return errors.Join(errs...)
}
