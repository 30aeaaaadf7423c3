package store

import (
	"errors"
	"fmt"
)

// ErrCollaboratorUnavailable marks a failed call to the catalog or context store.
// It must never be reported to the shopper as "no match".
var ErrCollaboratorUnavailable = errors.New("collaborator unavailable")

// CollaboratorError carries which collaborator failed and during which operation
type CollaboratorError struct {
	Collaborator string // "catalog" | "context"
	Op           string
	Err          error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Collaborator, e.Op, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrCollaboratorUnavailable) hold for every CollaboratorError
func (e *CollaboratorError) Is(target error) bool {
	return target == ErrCollaboratorUnavailable
}

// Unavailable wraps err as a collaborator failure. A nil err stays nil.
func Unavailable(collaborator, op string, err error) error {
	if err == nil {
		return nil
	}
	var ce *CollaboratorError
	if errors.As(err, &ce) {
		return err
	}
	return &CollaboratorError{Collaborator: collaborator, Op: op, Err: err}
}

// IsUnavailable reports whether err is a collaborator failure
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrCollaboratorUnavailable)
}
