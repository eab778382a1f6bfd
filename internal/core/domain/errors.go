package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrForbidden          = errors.New("access forbidden")
	ErrSelfAction         = errors.New("action not allowed on own account")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTransport          = errors.New("operation failed")
	ErrNotFound           = errors.New("record not found")
	ErrMissingIdentifier  = errors.New("record has no identifier")
	ErrInvalidRole        = errors.New("invalid role")
	ErrValidation         = errors.New("validation failed")
)

// TransportError describes a non-success exchange with the backend. It always
// unwraps to ErrTransport, and additionally to ErrNotFound for 404 responses
// and ErrNotAuthenticated for 401.
type TransportError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: backend returned %d", e.Op, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return e.Op + ": " + ErrTransport.Error()
	}
}

func (e *TransportError) Unwrap() []error {
	errs := []error{ErrTransport}
	switch e.StatusCode {
	case http.StatusNotFound:
		errs = append(errs, ErrNotFound)
	case http.StatusUnauthorized:
		errs = append(errs, ErrNotAuthenticated)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}
