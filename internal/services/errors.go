package services

import (
	"fmt"
	"net/http"
)

// ServiceError is an expected failure that maps directly to an HTTP status.
type ServiceError struct {
	Status  int
	Message string
}

func (e ServiceError) Error() string {
	return e.Message
}

func ErrNotFound(msg string) error {
	return ServiceError{Status: http.StatusNotFound, Message: msg}
}

func ErrBadRequest(msg string) error {
	return ServiceError{Status: http.StatusBadRequest, Message: msg}
}

// ErrConflict reports a duplicate unique key. It is a 400 like the rest of the validation errors.
func ErrConflict(msg string) error {
	return ServiceError{Status: http.StatusBadRequest, Message: msg}
}

func ErrUnauthorized(msg string) error {
	return ServiceError{Status: http.StatusUnauthorized, Message: msg}
}

func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}
