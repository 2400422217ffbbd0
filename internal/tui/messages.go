package tui

import (
	"github.com/MKhiriev/go-notes-sync/models"
)

type statusMsg struct {
	status models.SyncStatus
}

type networkMsg struct {
	state models.NetworkState
}

type syncRequestedMsg struct{}
