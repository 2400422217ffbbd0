package models

import "time"

// Note is the server representation returned by the notes API.
type Note struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	ContentMd  string     `json:"contentMd"`
	Visibility Visibility `json:"visibility"`
	CreatedAt  *time.Time `json:"createdAt,omitempty"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty"`
	Owner      NoteUser   `json:"owner"`
	Tags       []NoteTag  `json:"tags,omitempty"`
	Shares     []Share    `json:"shares,omitempty"`
}

// NoteUser is the public part of a user account.
type NoteUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NoteTag is a label attached to a note.
type NoteTag struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

// Share describes a collaborator's access to a note.
type Share struct {
	ID             int64      `json:"id,omitempty"`
	NoteID         int64      `json:"noteId,omitempty"`
	SharedWithUser NoteUser   `json:"sharedWithUser"`
	Permission     string     `json:"permission,omitempty"`
	CreatedAt      *time.Time `json:"createdAt,omitempty"`
	// Message holds the plain-text confirmation returned by the server when
	// it does not answer with a structured share.
	Message string `json:"message,omitempty"`
}

// PublicLink is the result of publishing a note.
type PublicLink struct {
	NoteID int64 `json:"noteId"`
	// Token is the public URL or token string returned by the server.
	Token string `json:"token"`
}

// MutationResult is returned by the online-first notes service. Exactly one
// of the remote result fields is set when Queued is false.
type MutationResult struct {
	// Queued is true when the mutation could not be confirmed remotely and
	// was stored in the action queue instead.
	Queued bool `json:"queued"`
	// ActionID identifies the queued action when Queued is true.
	ActionID string `json:"actionId,omitempty"`

	Note       *Note       `json:"note,omitempty"`
	Share      *Share      `json:"share,omitempty"`
	PublicLink *PublicLink `json:"publicLink,omitempty"`
}
