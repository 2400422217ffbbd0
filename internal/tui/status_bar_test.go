package tui

import (
	"testing"
	"time"

	"github.com/MKhiriev/go-notes-sync/models"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var online = models.NetworkState{IsConnected: true, IsInternetReachable: models.Reachable(true)}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestStatusBar_State(t *testing.T) {
	tests := []struct {
		name    string
		status  models.SyncStatus
		network models.NetworkState
		want    barState
		text    string
	}{
		{"synced", models.SyncStatus{}, online, stateSynced, "Synced"},
		{"pending", models.SyncStatus{PendingCount: 2}, online, statePending, "2 action(s) pending"},
		{"offline wins over pending", models.SyncStatus{PendingCount: 2}, models.NetworkState{}, stateOffline, "Offline mode"},
		{"syncing wins over offline", models.SyncStatus{IsSyncing: true}, models.NetworkState{}, stateSyncing, "Syncing..."},
		{"syncing with progress", models.SyncStatus{IsSyncing: true, InFlight: 4, Processed: 1}, online, stateSyncing, "Syncing 1/4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newStatusBarModel(tt.status, tt.network, nil)

			assert.Equal(t, tt.want, m.state())
			assert.Equal(t, tt.text, m.barText())
			assert.Contains(t, m.View(), tt.text)
		})
	}
}

func TestStatusBar_SyncKey(t *testing.T) {
	tests := []struct {
		name      string
		status    models.SyncStatus
		network   models.NetworkState
		wantFired bool
	}{
		{"pending and online", models.SyncStatus{PendingCount: 1}, online, true},
		{"synced and online", models.SyncStatus{}, online, true},
		{"offline", models.SyncStatus{PendingCount: 1}, models.NetworkState{}, false},
		{"already syncing", models.SyncStatus{IsSyncing: true}, online, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fired := 0
			m := newStatusBarModel(tt.status, tt.network, func() { fired++ })

			_, cmd := m.Update(keyRunes("s"))
			if cmd != nil {
				assert.Equal(t, syncRequestedMsg{}, cmd())
			}

			assert.Equal(t, tt.wantFired, fired == 1)
		})
	}
}

func TestStatusBar_Quit(t *testing.T) {
	m := newStatusBarModel(models.SyncStatus{}, online, nil)

	next, cmd := m.Update(keyRunes("q"))

	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, next.View())
}

func TestStatusBar_ReceivesUpdates(t *testing.T) {
	m := newStatusBarModel(models.SyncStatus{}, online, nil)

	next, _ := m.Update(statusMsg{status: models.SyncStatus{PendingCount: 3, LastError: "dial tcp 127.0.0.1:8080: connection refused"}})
	next, _ = next.Update(networkMsg{state: models.NetworkState{IsConnected: true, IsInternetReachable: models.Reachable(false), Type: "wlan0"}})

	bar := next.(statusBarModel)
	assert.Equal(t, stateOffline, bar.state())

	view := bar.View()
	assert.Contains(t, view, "Network: wlan0")
	assert.Contains(t, view, "Network unavailable or server unreachable")
}

func TestStatusBar_ViewDetails(t *testing.T) {
	last := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	status := models.SyncStatus{
		LastSyncAt:     &last,
		AbandonedCount: 1,
		LastAbandoned: &models.AbandonedAction{
			Action: models.QueuedAction{ID: "DELETE_NOTE_1_ab", Kind: models.DeleteNote},
			Reason: "404 Not Found",
		},
	}
	m := newStatusBarModel(status, online, nil)
	m.now = func() time.Time { return last.Add(90 * time.Second) }

	view := m.View()

	assert.Contains(t, view, "(1m30s ago)")
	assert.Contains(t, view, "Abandoned: 1")
	assert.Contains(t, view, "DELETE_NOTE_1_ab")
	assert.Contains(t, view, "s sync now")
}

func TestStatusBar_NeverSynced(t *testing.T) {
	m := newStatusBarModel(models.SyncStatus{}, online, nil)

	assert.Contains(t, m.View(), "Last sync: never")
}

func TestHumanizeSyncError(t *testing.T) {
	assert.Equal(t, "", humanizeSyncError(""))
	assert.Equal(t, "Network unavailable or server unreachable", humanizeSyncError("Post: context deadline exceeded"))
	assert.Equal(t, "error persisting action queue", humanizeSyncError("error persisting action queue"))
}
