package service

import "fmt"

// ValidationError reports input that is malformed or references unknown data.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError reports that the addressed entity does not exist.
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

func movieNotFound(id int64) *NotFoundError {
	return &NotFoundError{Resource: "Movie", ID: id}
}
