package artwork

import (
	"errors"
	"fmt"
)

// Kind classifies why a record failed validation.
type Kind string

const (
	KindMissingField Kind = "missing_field"
	KindWrongType    Kind = "wrong_type"
	KindNoteTooLong  Kind = "note_too_long"
)

// ValidationError reports a single record failing schema conformance.
type ValidationError struct {
	Field string
	Kind  Kind
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case KindMissingField:
		return fmt.Sprintf("field %q is required", e.Field)
	case KindNoteTooLong:
		return fmt.Sprintf("note exceeds %d characters", NoteMaxLen)
	default:
		return fmt.Sprintf("field %q has the wrong type", e.Field)
	}
}

// IsNoteTooLong reports whether err is a note-length validation failure.
func IsNoteTooLong(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) && ve.Kind == KindNoteTooLong
}
