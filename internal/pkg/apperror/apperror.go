// Package apperror holds the error taxonomy shared by services and the HTTP layer.
package apperror

import (
	"errors"
	"net/http"
)

type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

var (
	ErrNotFound           = New(http.StatusNotFound, "record not found")
	ErrForbidden          = New(http.StatusForbidden, "record belongs to another account")
	ErrUnauthorized       = New(http.StatusUnauthorized, "authentication required")
	ErrInvalidCredentials = New(http.StatusUnauthorized, "invalid credentials")
	ErrEmailTaken         = New(http.StatusConflict, "email already registered")
	ErrLastNotebook       = New(http.StatusConflict, "cannot delete the last notebook")
)

// Validation reports bad input; the message is shown to the user as is.
func Validation(message string) *Error {
	return New(http.StatusBadRequest, message)
}

// StatusOf returns the HTTP status carried by err, or 500.
func StatusOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Status
	}
	return http.StatusInternalServerError
}
