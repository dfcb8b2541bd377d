package contact

import (
	"errors"
	"fmt"
)

// Error kinds. Detailed errors returned by this package match exactly one of
// these with errors.Is.
var (
	ErrValidation   = errors.New("contact: validation failed")
	ErrNotFound     = errors.New("contact: not found")
	ErrPageNotFound = errors.New("contact: page not found")
	ErrParse        = errors.New("contact: malformed book file")
	ErrIO           = errors.New("contact: book file i/o")
)

// ValidationError reports a value rejected by its format rule.
type ValidationError struct {
	Field  string // "name", "phone", "birthday" or "record".
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NotFoundError reports a contact name or phone value that does not exist.
type NotFoundError struct {
	Kind string // "contact" or "phone".
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Key)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}
