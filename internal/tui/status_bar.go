package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-notes-sync/models"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type barState int

const (
	stateSynced barState = iota
	statePending
	stateOffline
	stateSyncing
)

type statusBarModel struct {
	status  models.SyncStatus
	network models.NetworkState
	spinner spinner.Model

	// requestSync asks the background job for a pass without blocking.
	requestSync func()
	now         func() time.Time

	quitting bool
}

func newStatusBarModel(status models.SyncStatus, network models.NetworkState, requestSync func()) statusBarModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot

	return statusBarModel{
		status:      status,
		network:     network,
		spinner:     s,
		requestSync: requestSync,
		now:         time.Now,
	}
}

func (m statusBarModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m statusBarModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, keys.sync):
			// same rule as the banner: no manual sync while offline or busy
			if m.state() == stateOffline || m.state() == stateSyncing {
				return m, nil
			}
			return m, m.cmdRequestSync()
		}
	case statusMsg:
		m.status = msg.status
		return m, nil
	case networkMsg:
		m.network = msg.state
		return m, nil
	case syncRequestedMsg:
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m statusBarModel) cmdRequestSync() tea.Cmd {
	return func() tea.Msg {
		if m.requestSync != nil {
			m.requestSync()
		}
		return syncRequestedMsg{}
	}
}

func (m statusBarModel) state() barState {
	switch {
	case m.status.IsSyncing:
		return stateSyncing
	case m.network.IsOffline():
		return stateOffline
	case m.status.PendingCount > 0:
		return statePending
	}
	return stateSynced
}

func (m statusBarModel) barText() string {
	switch m.state() {
	case stateSyncing:
		if m.status.InFlight > 0 {
			return fmt.Sprintf("Syncing %d/%d", m.status.Processed, m.status.InFlight)
		}
		return "Syncing..."
	case stateOffline:
		return "Offline mode"
	case statePending:
		return fmt.Sprintf("%d action(s) pending", m.status.PendingCount)
	}
	return "Synced"
}

func (m statusBarModel) bar() string {
	var color lipgloss.Color
	prefix := ""

	switch m.state() {
	case stateSyncing:
		color = syncingColor
		prefix = m.spinner.View() + " "
	case stateOffline:
		color = offlineColor
	case statePending:
		color = pendingColor
	default:
		color = syncedColor
	}

	return barStyle.Background(color).Render(prefix + m.barText())
}

func (m statusBarModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("notes sync"))
	b.WriteString("\n\n")
	b.WriteString(m.bar())
	b.WriteString("\n\n")

	if m.status.LastSyncAt != nil {
		ago := m.now().Sub(*m.status.LastSyncAt).Round(time.Second)
		fmt.Fprintf(&b, "Last sync: %s (%s ago)\n", m.status.LastSyncAt.Local().Format(time.TimeOnly), ago)
	} else {
		b.WriteString("Last sync: never\n")
	}

	if m.network.Type != "" {
		fmt.Fprintf(&b, "Network: %s\n", m.network.Type)
	}

	if m.status.AbandonedCount > 0 {
		fmt.Fprintf(&b, "Abandoned: %d", m.status.AbandonedCount)
		if last := m.status.LastAbandoned; last != nil {
			fmt.Fprintf(&b, " (last: %s %s, %s)", last.Action.Kind, last.Action.ID, last.Reason)
		}
		b.WriteString("\n")
	}

	if m.status.LastError != "" {
		b.WriteString(errorStyle.Render("Error: " + humanizeSyncError(m.status.LastError)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(fmt.Sprintf("%s %s • %s %s",
		keys.sync.Help().Key, keys.sync.Help().Desc,
		keys.quit.Help().Key, keys.quit.Help().Desc)))

	return appStyle.Render(b.String())
}
