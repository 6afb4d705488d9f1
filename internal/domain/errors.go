package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidReference indicates a write referenced a row that no longer exists.
	ErrInvalidReference = errors.New("invalid reference")
)

// ReferenceError is a write that hit a foreign-key violation. Field names the
// request field holding the stale reference ("director_id" or "genres") and is
// empty when the constraint is not one a client can supply.
// errors.Is(err, ErrInvalidReference) holds for every ReferenceError.
type ReferenceError struct {
	Field      string
	Constraint string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidReference, e.Constraint)
}

func (e *ReferenceError) Is(target error) bool {
	return target == ErrInvalidReference
}
