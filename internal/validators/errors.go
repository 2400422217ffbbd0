package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrEmptyTitle        = errors.New("title is required")
	ErrInvalidTitle      = errors.New("title must be between 3 and 255 characters")
	ErrContentTooLong    = errors.New("content must not exceed 50000 characters")
	ErrInvalidVisibility = errors.New("invalid visibility")
	ErrInvalidTag        = errors.New("tags must not be blank")
	ErrInvalidNoteID     = errors.New("invalid note ID")
	ErrInvalidEmail      = errors.New("invalid email")
	ErrEmptyPayload      = errors.New("action payload is required")
)
