package tui

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-notes-sync/internal/logger"
	"github.com/MKhiriev/go-notes-sync/internal/service"
	"github.com/MKhiriev/go-notes-sync/models"
	tea "github.com/charmbracelet/bubbletea"
)

// TUI renders the sync status bar in the terminal.
type TUI struct {
	services *service.ClientServices
	logger   *logger.Logger
}

func New(services *service.ClientServices, logger *logger.Logger) *TUI {
	return &TUI{services: services, logger: logger}
}

// Run shows the status bar until the user quits or ctx is done. Status and
// connectivity changes are pushed into the program from listener callbacks.
func (t *TUI) Run(ctx context.Context) error {
	model := newStatusBarModel(
		t.services.Engine.GetStatus(),
		t.services.Connectivity.Current(),
		func() { t.services.SyncJob.Trigger(service.TriggerManual) },
	)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	unsubscribeStatus := t.services.Engine.Subscribe(func(status models.SyncStatus) {
		p.Send(statusMsg{status: status})
	})
	defer unsubscribeStatus()

	unsubscribeNetwork := t.services.Connectivity.Subscribe(func(state models.NetworkState) {
		p.Send(networkMsg{state: state})
	})
	defer unsubscribeNetwork()

	if _, err := p.Run(); err != nil {
		// a cancelled context is the regular way out when the process is
		// signalled
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("status bar: %w", err)
	}

	t.logger.Info().Msg("status bar closed by user")
	return nil
}
