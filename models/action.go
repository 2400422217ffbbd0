// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// DefaultMaxAttempts is the number of failed dispatches after which a queued
// action is abandoned.
const DefaultMaxAttempts = 3

// ErrUnknownActionKind is returned when a persisted or submitted action
// carries a kind outside of the closed [ActionKind] set.
var ErrUnknownActionKind = errors.New("unknown action kind")

// ActionKind enumerates the mutating operations that can be queued while the
// client is offline. The set is closed: every kind has exactly one payload
// type implementing [ActionPayload].
type ActionKind string

const (
	// CreateNote creates a new note on the server.
	CreateNote ActionKind = "CREATE_NOTE"
	// UpdateNote replaces title, content, visibility and tags of a note.
	UpdateNote ActionKind = "UPDATE_NOTE"
	// DeleteNote removes a note.
	DeleteNote ActionKind = "DELETE_NOTE"
	// ShareNoteWithUser grants a collaborator access to a note by e-mail.
	ShareNoteWithUser ActionKind = "SHARE_NOTE"
	// ShareNotePublic creates a public token link for a note.
	ShareNotePublic ActionKind = "SHARE_PUBLIC"
)

var actionKinds = []ActionKind{CreateNote, UpdateNote, DeleteNote, ShareNoteWithUser, ShareNotePublic}

// ActionKinds returns every supported kind in declaration order.
func ActionKinds() []ActionKind {
	kinds := make([]ActionKind, len(actionKinds))
	copy(kinds, actionKinds)
	return kinds
}

// Valid reports whether k belongs to the closed set of action kinds.
func (k ActionKind) Valid() bool {
	for _, known := range actionKinds {
		if k == known {
			return true
		}
	}
	return false
}

// ActionPayload is the sealed variant carried by a [QueuedAction]. Each
// implementation corresponds to exactly one [ActionKind].
type ActionPayload interface {
	// Kind returns the action kind this payload belongs to.
	Kind() ActionKind

	isActionPayload()
}

// QueuedAction is a single pending mutation intent stored in the durable
// action queue.
type QueuedAction struct {
	// ID is generated once at enqueue time and never changes.
	ID string
	// Kind duplicates Payload.Kind() so that the persisted form can be
	// decoded without inspecting the payload first.
	Kind ActionKind
	// Payload is the typed data required to replay the mutation.
	Payload ActionPayload
	// EnqueuedAt is the moment the action was appended.
	EnqueuedAt time.Time
	// Attempts counts failed dispatches. It only grows.
	Attempts int
	// MaxAttempts is the ceiling past which the action is abandoned.
	MaxAttempts int
}

// Exhausted reports whether the action has used up its dispatch budget.
func (a QueuedAction) Exhausted() bool {
	return a.Attempts >= a.MaxAttempts
}

// Clone returns a deep copy of the action, so that slices inside payloads are
// not shared between the live queue and a snapshot.
func (a QueuedAction) Clone() QueuedAction {
	switch p := a.Payload.(type) {
	case CreateNotePayload:
		p.Tags = cloneStrings(p.Tags)
		a.Payload = p
	case UpdateNotePayload:
		p.Tags = cloneStrings(p.Tags)
		a.Payload = p
	}
	return a
}

type queuedActionJSON struct {
	ID          string          `json:"id"`
	Kind        ActionKind      `json:"type"`
	Payload     json.RawMessage `json:"data"`
	EnqueuedAt  time.Time       `json:"timestamp"`
	Attempts    int             `json:"retryCount"`
	MaxAttempts int             `json:"maxRetries"`
}

// MarshalJSON encodes the action with its payload nested under "data".
func (a QueuedAction) MarshalJSON() ([]byte, error) {
	if a.Payload == nil {
		return nil, fmt.Errorf("marshal action %s: empty payload", a.ID)
	}
	if a.Kind == "" {
		a.Kind = a.Payload.Kind()
	}
	if a.Kind != a.Payload.Kind() {
		return nil, fmt.Errorf("marshal action %s: kind %s does not match payload %s", a.ID, a.Kind, a.Payload.Kind())
	}

	payload, err := json.Marshal(a.Payload)
	if err != nil {
		return nil, fmt.Errorf("marshal action %s payload: %w", a.ID, err)
	}

	return json.Marshal(queuedActionJSON{
		ID:          a.ID,
		Kind:        a.Kind,
		Payload:     payload,
		EnqueuedAt:  a.EnqueuedAt,
		Attempts:    a.Attempts,
		MaxAttempts: a.MaxAttempts,
	})
}

// UnmarshalJSON decodes the payload into the concrete type selected by kind.
func (a *QueuedAction) UnmarshalJSON(b []byte) error {
	var raw queuedActionJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	payload, err := DecodeActionPayload(raw.Kind, raw.Payload)
	if err != nil {
		return fmt.Errorf("action %s: %w", raw.ID, err)
	}

	*a = QueuedAction{
		ID:          raw.ID,
		Kind:        raw.Kind,
		Payload:     payload,
		EnqueuedAt:  raw.EnqueuedAt,
		Attempts:    raw.Attempts,
		MaxAttempts: raw.MaxAttempts,
	}
	return nil
}

// DecodeActionPayload decodes data into the payload type matching kind.
func DecodeActionPayload(kind ActionKind, data []byte) (ActionPayload, error) {
	if len(data) == 0 {
		data = []byte("{}")
	}

	switch kind {
	case CreateNote:
		var p CreateNotePayload
		if err := decodeStrict(data, &p); err != nil {
			return nil, err
		}
		return p, nil
	case UpdateNote:
		var p UpdateNotePayload
		if err := decodeStrict(data, &p); err != nil {
			return nil, err
		}
		return p, nil
	case DeleteNote:
		var p DeleteNotePayload
		if err := decodeStrict(data, &p); err != nil {
			return nil, err
		}
		return p, nil
	case ShareNoteWithUser:
		var p ShareNoteWithUserPayload
		if err := decodeStrict(data, &p); err != nil {
			return nil, err
		}
		return p, nil
	case ShareNotePublic:
		var p ShareNotePublicPayload
		if err := decodeStrict(data, &p); err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownActionKind, kind)
	}
}

func decodeStrict(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
