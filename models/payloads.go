package models

// Visibility controls who can read a note.
type Visibility string

const (
	VisibilityPrivate Visibility = "PRIVATE"
	VisibilityShared  Visibility = "SHARED"
	VisibilityPublic  Visibility = "PUBLIC"
)

// Valid reports whether v is one of the visibilities accepted by the server.
// An empty value is accepted and means "server default".
func (v Visibility) Valid() bool {
	switch v {
	case "", VisibilityPrivate, VisibilityShared, VisibilityPublic:
		return true
	}
	return false
}

// NoteFields is the body of POST /notes and PUT /notes/{id}.
type NoteFields struct {
	Title      string     `json:"title"`
	ContentMd  string     `json:"contentMd"`
	Visibility Visibility `json:"visibility,omitempty"`
	Tags       []string   `json:"tags,omitempty"`
}

// CreateNotePayload is queued when a note is created offline.
type CreateNotePayload struct {
	NoteFields
}

func (CreateNotePayload) Kind() ActionKind { return CreateNote }
func (CreateNotePayload) isActionPayload() {}

// UpdateNotePayload carries the server id of the note and its new fields.
type UpdateNotePayload struct {
	NoteID int64 `json:"id"`
	NoteFields
}

func (UpdateNotePayload) Kind() ActionKind { return UpdateNote }
func (UpdateNotePayload) isActionPayload() {}

// DeleteNotePayload identifies the note to delete.
type DeleteNotePayload struct {
	NoteID int64 `json:"id"`
}

func (DeleteNotePayload) Kind() ActionKind { return DeleteNote }
func (DeleteNotePayload) isActionPayload() {}

// ShareNoteWithUserPayload shares a note with the account owning Email.
type ShareNoteWithUserPayload struct {
	NoteID int64  `json:"noteId"`
	Email  string `json:"email"`
}

func (ShareNoteWithUserPayload) Kind() ActionKind { return ShareNoteWithUser }
func (ShareNoteWithUserPayload) isActionPayload() {}

// ShareNotePublicPayload requests a public token link for a note.
type ShareNotePublicPayload struct {
	NoteID int64 `json:"noteId"`
}

func (ShareNotePublicPayload) Kind() ActionKind { return ShareNotePublic }
func (ShareNotePublicPayload) isActionPayload() {}
