package validators

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/MKhiriev/go-notes-sync/models"
)

// Field name constants used to restrict validation to a subset of fields.
const (
	FieldTitle      = "title"
	FieldContent    = "content"
	FieldVisibility = "visibility"
	FieldTags       = "tags"
	FieldNoteID     = "note_id"
	FieldEmail      = "email"
)

// Limits enforced by the notes server on note bodies.
const (
	MinTitleLength   = 3
	MaxTitleLength   = 255
	MaxContentLength = 50000
)

// ActionValidator validates queued action payloads and the note fields they
// carry. Both value and pointer forms of every payload are accepted, as well
// as a whole [models.QueuedAction].
type ActionValidator struct {
}

// NewActionValidator constructs a new ActionValidator and returns it as the
// Validator interface.
func NewActionValidator() Validator {
	return &ActionValidator{}
}

// Validate dispatches validation to the appropriate type-specific method
// based on the dynamic type of obj.
//
// Returns ErrUnsupportedType if obj does not match any known model.
func (v *ActionValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.QueuedAction:
		return v.validateAction(ctx, value, fields...)
	case *models.QueuedAction:
		return v.validateAction(ctx, *value, fields...)

	case models.NoteFields:
		return v.validateNoteFields(value, fields...)
	case *models.NoteFields:
		return v.validateNoteFields(*value, fields...)

	case models.CreateNotePayload:
		return v.validateNoteFields(value.NoteFields, fields...)
	case *models.CreateNotePayload:
		return v.validateNoteFields(value.NoteFields, fields...)

	case models.UpdateNotePayload:
		return v.validateUpdate(value, fields...)
	case *models.UpdateNotePayload:
		return v.validateUpdate(*value, fields...)

	case models.DeleteNotePayload:
		return validateNoteID(value.NoteID)
	case *models.DeleteNotePayload:
		return validateNoteID(value.NoteID)

	case models.ShareNoteWithUserPayload:
		return v.validateShareWithUser(value, fields...)
	case *models.ShareNoteWithUserPayload:
		return v.validateShareWithUser(*value, fields...)

	case models.ShareNotePublicPayload:
		return validateNoteID(value.NoteID)
	case *models.ShareNotePublicPayload:
		return validateNoteID(value.NoteID)

	default:
		return ErrUnsupportedType
	}
}

func (v *ActionValidator) validateAction(ctx context.Context, a models.QueuedAction, fields ...string) error {
	if a.Payload == nil {
		return ErrEmptyPayload
	}
	if a.Kind != "" && a.Kind != a.Payload.Kind() {
		return fmt.Errorf("%w: kind %s does not match payload %s", models.ErrUnknownActionKind, a.Kind, a.Payload.Kind())
	}

	return v.Validate(ctx, a.Payload, fields...)
}

// validateNoteFields checks the body of a create or update request.
//
// Default validated fields: title, content, visibility, tags.
func (v *ActionValidator) validateNoteFields(n models.NoteFields, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldTitle, FieldContent, FieldVisibility, FieldTags}
	}

	for _, f := range fields {
		switch f {
		case FieldTitle:
			title := strings.TrimSpace(n.Title)
			if title == "" {
				return ErrEmptyTitle
			}
			if l := utf8.RuneCountInString(title); l < MinTitleLength || l > MaxTitleLength {
				return ErrInvalidTitle
			}
		case FieldContent:
			if utf8.RuneCountInString(n.ContentMd) > MaxContentLength {
				return ErrContentTooLong
			}
		case FieldVisibility:
			if !n.Visibility.Valid() {
				return fmt.Errorf("%w: %q", ErrInvalidVisibility, n.Visibility)
			}
		case FieldTags:
			for _, tag := range n.Tags {
				if strings.TrimSpace(tag) == "" {
					return ErrInvalidTag
				}
			}
		case FieldNoteID, FieldEmail:
			// not part of the note body
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *ActionValidator) validateUpdate(p models.UpdateNotePayload, fields ...string) error {
	if err := validateNoteID(p.NoteID); err != nil {
		return err
	}
	return v.validateNoteFields(p.NoteFields, fields...)
}

func (v *ActionValidator) validateShareWithUser(p models.ShareNoteWithUserPayload, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldNoteID, FieldEmail}
	}

	for _, f := range fields {
		switch f {
		case FieldNoteID:
			if err := validateNoteID(p.NoteID); err != nil {
				return err
			}
		case FieldEmail:
			if !isValidEmail(p.Email) {
				return ErrInvalidEmail
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func validateNoteID(id int64) error {
	if id <= 0 {
		return ErrInvalidNoteID
	}
	return nil
}

// isValidEmail accepts a bare address only, no display name.
func isValidEmail(email string) bool {
	if email == "" || strings.TrimSpace(email) != email {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email && addr.Name == ""
}
