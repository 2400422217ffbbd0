package models

import "time"

// SyncStatus is the process-scoped view of the sync engine. It is derived
// from the durable queue and the engine state and is never persisted.
type SyncStatus struct {
	// IsSyncing is true only while a drain pass is in flight.
	IsSyncing bool `json:"isSyncing"`
	// LastSyncAt is the end of the last completed pass, nil until one ran.
	LastSyncAt *time.Time `json:"lastSync,omitempty"`
	// PendingCount equals the length of the durable queue.
	PendingCount int `json:"pendingActions"`
	// LastError is the last engine-level error; cleared when a pass starts.
	LastError string `json:"error,omitempty"`

	// InFlight is the size of the snapshot being drained.
	InFlight int `json:"inFlight,omitempty"`
	// Processed counts resolved actions of the current pass.
	Processed int `json:"processed,omitempty"`

	// AbandonedCount counts actions abandoned since process start.
	AbandonedCount int `json:"abandonedCount"`
	// LastAbandoned is the most recent abandonment, if any.
	LastAbandoned *AbandonedAction `json:"lastAbandoned,omitempty"`
}

// Clone returns a copy that does not share pointers with s.
func (s SyncStatus) Clone() SyncStatus {
	if s.LastSyncAt != nil {
		t := *s.LastSyncAt
		s.LastSyncAt = &t
	}
	if s.LastAbandoned != nil {
		a := *s.LastAbandoned
		a.Action = a.Action.Clone()
		s.LastAbandoned = &a
	}
	return s
}

// FailureClass separates failures worth retrying from final rejections.
type FailureClass string

const (
	FailureNone      FailureClass = ""
	FailureTransient FailureClass = "transient"
	FailurePermanent FailureClass = "permanent"
)

// ActionResult is the per-action resolution inside a drain pass.
type ActionResult string

const (
	ResultSucceeded ActionResult = "succeeded"
	ResultRetry     ActionResult = "retry"
	ResultAbandoned ActionResult = "abandoned"
)

// ActionOutcome records how one action of a snapshot was resolved.
type ActionOutcome struct {
	ActionID string       `json:"actionId"`
	Kind     ActionKind   `json:"kind"`
	Result   ActionResult `json:"result"`
	Failure  FailureClass `json:"failure,omitempty"`
	Attempts int          `json:"attempts"`
	// Dispatched is false when the action was skipped because the client
	// was offline.
	Dispatched bool   `json:"dispatched"`
	Error      string `json:"error,omitempty"`
}

// PassReport summarises one drain pass.
type PassReport struct {
	StartedAt  time.Time       `json:"startedAt"`
	FinishedAt time.Time       `json:"finishedAt"`
	Outcomes   []ActionOutcome `json:"outcomes"`
	Succeeded  int             `json:"succeeded"`
	Retried    int             `json:"retried"`
	Abandoned  int             `json:"abandoned"`
	// Err is the engine-level error of the pass, if any.
	Err string `json:"error,omitempty"`
}

// AbandonedAction is the durable, user-visible record written when an
// action is dropped without having reached the server.
type AbandonedAction struct {
	Action      QueuedAction `json:"action"`
	Failure     FailureClass `json:"failure"`
	Reason      string       `json:"reason"`
	AbandonedAt time.Time    `json:"abandonedAt"`
}
