// Package apperr holds the single failure kind raised by the domain services.
// Every error that reaches an HTTP client is an *Error carrying a message type,
// the HTTP status to use and a list of human readable variables.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type MessageType struct {
	ID   string
	Text string
}

var (
	BasicInvalidInput   = MessageType{ID: "SVC0001", Text: "Invalid input value for message part %1"}
	MissingInput        = MessageType{ID: "SVC0002", Text: "Missing mandatory input value for message part %1"}
	GenericServiceError = MessageType{ID: "SVC0005", Text: "Generic service error"}
	JSONSchemaValidator = MessageType{ID: "SVC0007", Text: "Validation failed"}
	Unauthorized        = MessageType{ID: "SVC0008", Text: "Unauthorized"}
	AccessDenied        = MessageType{ID: "SVC0009", Text: "Access denied"}
	NotFound            = MessageType{ID: "SVC0010", Text: "Entry is not found"}
	TooManyRequests     = MessageType{ID: "SVC0011", Text: "Too many requests"}
)

type Error struct {
	Type      MessageType
	Status    int
	Variables []string
	Err       error
}

func New(t MessageType, status int, variables ...string) *Error {
	if variables == nil {
		variables = []string{}
	}
	return &Error{Type: t, Status: status, Variables: variables}
}

// Wrap keeps cause reachable through errors.Is / errors.As.
func Wrap(cause error, t MessageType, status int, variables ...string) *Error {
	e := New(t, status, variables...)
	e.Err = cause
	return e
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s %s (%d)", e.Type.ID, e.Type.Text, e.Status)
	if len(e.Variables) > 0 {
		msg += ": " + strings.Join(e.Variables, ", ")
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// From converts any error into an *Error. Unknown errors become a 500.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, GenericServiceError, http.StatusInternalServerError)
}

func Validation(variables ...string) *Error {
	return New(JSONSchemaValidator, http.StatusBadRequest, variables...)
}

func InvalidInput(variables ...string) *Error {
	return New(BasicInvalidInput, http.StatusBadRequest, variables...)
}

func Unauthenticated(variables ...string) *Error {
	return New(Unauthorized, http.StatusUnauthorized, variables...)
}

func Forbidden(variables ...string) *Error {
	return New(AccessDenied, http.StatusForbidden, variables...)
}

func NotFoundErr(variables ...string) *Error {
	return New(NotFound, http.StatusNotFound, variables...)
}

func Internal(cause error, variables ...string) *Error {
	return Wrap(cause, GenericServiceError, http.StatusInternalServerError, variables...)
}
