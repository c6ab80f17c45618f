package source

import (
	"errors"
	"fmt"
)

// Collaborator names used in CollaboratorError. They appear verbatim in
// report issue lines, so keep them readable.
const (
	CollaboratorLogStore        = "log store"
	CollaboratorMessageQueue    = "message queue"
	CollaboratorComputeRegistry = "compute registry"
)

// CollaboratorError wraps a failure to reach one of the three external
// collaborators. The health evaluator substitutes an explicit issue line
// for the affected report section instead of aborting the whole report.
type CollaboratorError struct {
	Collaborator string
	Err          error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Collaborator, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}

// Unavailable wraps err as a CollaboratorError for the named collaborator.
func Unavailable(collaborator string, err error) error {
	return &CollaboratorError{Collaborator: collaborator, Err: err}
}

// AsCollaborator extracts a CollaboratorError from err, if present.
func AsCollaborator(err error) (*CollaboratorError, bool) {
	var ce *CollaboratorError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
